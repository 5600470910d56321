package domain

// UnconfiguredSender is the factory sender username. While it is in place
// the notifier refuses to open any SMTP connection.
const UnconfiguredSender = "name.surname@example.mail.com"

// Secret is the persisted `secret` document: sender credentials and the
// recipient list.
type Secret struct {
	Sender    SenderAccount `json:"email_sender" mapstructure:"email_sender"`
	Receivers []string      `json:"email_receivers" mapstructure:"email_receivers"`
}

// SenderAccount holds the SMTP account used to send notifications.
type SenderAccount struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Port     int    `json:"port" mapstructure:"port"`
	Server   string `json:"server" mapstructure:"server"`
}

// Configured reports whether the user has replaced the factory sender.
func (s *Secret) Configured() bool {
	return s.Sender.Username != UnconfiguredSender
}

// DefaultSecret returns the factory `secret` document.
func DefaultSecret() *Secret {
	return &Secret{
		Sender: SenderAccount{
			Username: UnconfiguredSender,
			Password: "123",
			Port:     465,
			Server:   "example.mail.com",
		},
		Receivers: []string{"name.surname@mail.com"},
	}
}
