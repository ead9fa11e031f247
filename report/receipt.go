package report

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
)

// ReceiptLine is one item on a sale receipt.
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Total     float64
}

// Receipt carries the data printed on a sale receipt.
type Receipt struct {
	SaleID     int64
	ClientName string
	IssuedAt   time.Time
	SaleType   string
	Method     string
	Lines      []ReceiptLine
	Total      float64
	Received   float64
	Change     float64
}

var saleTypeLabels = map[string]string{
	"immediate":   "À Vista",
	"installment": "Parcelado",
	"term":        "A Prazo",
}

var methodLabels = map[string]string{
	"pix":    "PIX",
	"money":  "Dinheiro",
	"credit": "Cartão de Crédito",
	"debit":  "Cartão de Débito",
}

// RenderReceipt converts the receipt into a PDF document.
func (e *Exporter) RenderReceipt(ctx context.Context, rc Receipt) ([]byte, error) {
	return e.client.RenderHTML(ctx, receiptHTML(rc))
}

func receiptHTML(rc Receipt) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8"><style>
body { font-family: "Courier New", monospace; max-width: 24rem; margin: 1rem auto; font-size: 0.8rem; }
h1 { font-size: 1rem; text-align: center; }
hr { border: none; border-top: 1px dashed #333; }
table { width: 100%; border-collapse: collapse; }
td { padding: 2px 0; }
td.num { text-align: right; white-space: nowrap; }
.total { font-weight: bold; }
</style></head><body>`)

	fmt.Fprintf(&b, "<h1>Cupom de Venda Nº %d</h1><hr>", rc.SaleID)
	fmt.Fprintf(&b, "<p>Cliente: %s<br>Data: %s<br>Tipo: %s",
		html.EscapeString(rc.ClientName),
		rc.IssuedAt.Format("02/01/2006 15:04"),
		label(saleTypeLabels, rc.SaleType),
	)
	if rc.Method != "" {
		fmt.Fprintf(&b, "<br>Pagamento: %s", label(methodLabels, rc.Method))
	}
	b.WriteString("</p><hr><table>")
	for _, line := range rc.Lines {
		fmt.Fprintf(&b, `<tr><td>%dx %s</td><td class="num">%s</td></tr>`,
			line.Quantity, html.EscapeString(line.Name), FormatBRL(line.Total))
	}
	b.WriteString("</table><hr><table>")
	fmt.Fprintf(&b, `<tr class="total"><td>TOTAL</td><td class="num">%s</td></tr>`, FormatBRL(rc.Total))
	if rc.Received > 0 {
		fmt.Fprintf(&b, `<tr><td>Recebido</td><td class="num">%s</td></tr>`, FormatBRL(rc.Received))
		fmt.Fprintf(&b, `<tr><td>Troco</td><td class="num">%s</td></tr>`, FormatBRL(rc.Change))
	}
	b.WriteString("</table><hr><p style=\"text-align:center\">Obrigado pela preferência!</p></body></html>")
	return b.String()
}

func label(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return html.EscapeString(key)
}
