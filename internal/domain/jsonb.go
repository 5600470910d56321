package domain

import (
	"database/sql/driver"
	"errors"
)

// DocumentJSON carries a persisted document body through a PostgreSQL JSONB
// column. It implements sql.Scanner and driver.Valuer so the store can move
// raw bodies in and out of the database without an intermediate decode.
type DocumentJSON []byte

// Scan implements the sql.Scanner interface.
func (d *DocumentJSON) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}

	switch v := value.(type) {
	case string:
		*d = []byte(v)
	case []byte:
		body := make([]byte, len(v))
		copy(body, v)
		*d = body
	default:
		return errors.New("unsupported type for DocumentJSON")
	}
	return nil
}

// Value implements the driver.Valuer interface. The body travels as text,
// which the driver passes to a JSONB column unchanged; an empty body becomes
// the empty JSON object.
func (d DocumentJSON) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return string(d), nil
}
