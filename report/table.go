// Package report renders registry exports and sale receipts. CSV is
// streamed directly; PDF goes through a Gotenberg sidecar.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"html"
	"net/http"
	"strings"
)

// Table is a row-oriented document ready for export.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Exporter turns tables and receipts into downloadable documents.
type Exporter struct {
	client *Client
}

// NewExporter builds an Exporter around a Gotenberg client.
func NewExporter(client *Client) *Exporter {
	return &Exporter{client: client}
}

// WriteCSV streams the table as a CSV attachment. Records use CRLF line
// endings so spreadsheet applications open them without import dialogs.
func (e *Exporter) WriteCSV(w http.ResponseWriter, filename string, table Table) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(table.Header); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderPDF converts the table into a PDF document.
func (e *Exporter) RenderPDF(ctx context.Context, table Table) ([]byte, error) {
	return e.client.RenderHTML(ctx, tableHTML(table))
}

func tableHTML(table Table) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8"><style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2rem; }
h1 { font-size: 1.2rem; }
table { width: 100%; border-collapse: collapse; font-size: 0.85rem; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
th { background: #eee; }
</style></head><body>`)
	fmt.Fprintf(&b, "<h1>%s</h1><table><thead><tr>", html.EscapeString(table.Title))
	for _, h := range table.Header {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range table.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(cell))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}
