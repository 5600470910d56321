// Package report renders the persisted lesson plan as a standalone
// dark-theme HTML page: the current grid above the previously stored one.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/jonesrussell/planwatch/internal/domain"
)

// DefaultPath is where the report command writes the page unless told
// otherwise.
const DefaultPath = "./output.html"

const pageHTML = `<!DOCTYPE html>
<html lang="en">

<head>
    <meta charset="utf-8" />
    <title> lesson plan </title>
    <meta content="automatically generated lesson plan" name="description" />
    <meta content="width=device-width, initial-scale=1.0" name="viewport" />
    <style type="text/css">
        body {
            background-color: black;
            color: white;
            font-family: Arial, Helvetica, sans-serif;
            height: 100%;
            margin-bottom: 100px;
            overflow-wrap: break-word;
            overflow-y: scroll;
        }

        /* do not stretch when padding or border is added */
        * {
            box-sizing: border-box;
            margin: 0;
            padding: 0;
        }

        h1 {
            color: #d3d3d3;
            font-size: 120%;
            padding-bottom: 10px;
            padding-top: 30px;
            text-align: center;
        }

        table {
            background-color: #141414;
            margin-bottom: 20px;
            margin-left: auto;
            margin-right: auto;
            table-layout: auto;
            text-align: center;
            width: 1000px;
        }

        table,
        th,
        td {
            border-collapse: collapse;
            border: 1px solid #262626;
        }

        table th {
            color: #b3b3b3;
            font-size: 95%;
            font-weight: bold;
            letter-spacing: 0.1em;
            padding: 12px;
        }

        table td {
            color: #808080;
            font-size: 85%;
            letter-spacing: 0.02em;
            padding: 10px;
        }

        tr:nth-child(even) {
            background-color: #1a1a1a;
        }

        /* narrow */
        @media only screen and (max-width: 1048px) {
            table {
                width: 95%;
            }
        }

        /* mobile */
        @media only screen and (max-width: 680px) {
            table {
                width: 100%;
            }

            table th {
                font-size: 75%;
            }

            table td {
                font-size: 65%;
            }
        }
    </style>
</head>

<body>
    <h1>--- current plan @ {{.Date}} ---</h1>
{{template "grid" .Current}}
    <h1>--- previous plan ---</h1>
{{template "grid" .Previous}}
</body>

</html>
{{define "grid"}}    <table>
        <tr>
{{- range .Headers}}
            <th>{{.}}</th>
{{- end}}
        </tr>
{{- range .Rows}}
        <tr>
{{- range .}}
            <td>{{.}}</td>
{{- end}}
        </tr>
{{- end}}
    </table>
{{- end}}`

var pageTmpl = template.Must(template.New("plan").Parse(pageHTML))

// tableView is the template-friendly projection of one timetable grid.
type tableView struct {
	Headers []string
	Rows    [][]template.HTML
}

// Render returns the full HTML document for the given plan snapshot.
func Render(plan *domain.PlanSnapshot) (string, error) {
	data := struct {
		Date     string
		Current  tableView
		Previous tableView
	}{
		Date:     plan.Metadata.LastChangeTable,
		Current:  newTableView(&plan.Current),
		Previous: newTableView(&plan.Previous),
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render plan report: %w", err)
	}
	return buf.String(), nil
}

// Save renders the snapshot and writes the page to path.
func Save(path string, plan *domain.PlanSnapshot) error {
	page, err := Render(plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write html file: %w", err)
	}
	return nil
}

// newTableView zips the table columns into rows, one row per time slot.
// Ragged columns are cut to the shortest one so a malformed grid still
// renders instead of panicking.
func newTableView(table *domain.WeekTable) tableView {
	cols := table.Columns()
	headers := make([]string, len(cols))
	slots := len(cols[0].Cells)
	for i, col := range cols {
		headers[i] = capitalize(col.Name)
		if len(col.Cells) < slots {
			slots = len(col.Cells)
		}
	}
	rows := make([][]template.HTML, 0, slots)
	for slot := 0; slot < slots; slot++ {
		row := make([]template.HTML, len(cols))
		for i, col := range cols {
			row[i] = cellHTML(col.Cells[slot])
		}
		rows = append(rows, row)
	}
	return tableView{Headers: headers, Rows: rows}
}

// cellHTML escapes one cell and turns embedded newlines into <br> tags.
func cellHTML(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
