package receipt

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// money formats an optional decimal, with "-" as the not-computable
// placeholder. Never renders a missing number as zero.
func money(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

var bodyTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money":  money,
	"orDash": orDash,
	"when":   when,
}).Parse(`<div class="receipt">
  <div class="receipt-head">
    <div>
      <div class="receipt-kind">{{.Kind.Label}}</div>
      <div class="receipt-meta">Date: {{when .CreatedAt}}</div>
      <div class="receipt-meta">Event: {{orDash .EventID}}</div>
    </div>
    <div class="receipt-brand">
      <div>anbargar</div>
      <div class="receipt-official">Official receipt</div>
    </div>
  </div>
  <div class="receipt-grid">
    <div class="receipt-card">
      <div class="receipt-card-title">Customer</div>
      <div>Name: <b>{{orDash .CustomerName}}</b></div>
      <div>Phone: <b>{{orDash .CustomerPhone}}</b></div>
      <div>Address: <b>{{orDash .CustomerAddress}}</b></div>
    </div>
    <div class="receipt-card">
      <div class="receipt-card-title">Event</div>
      <div>Type: <b>{{orDash (printf "%s" .EventType)}}</b></div>
      <div>Description: <b>{{orDash .Description}}</b></div>
    </div>
  </div>
  <table class="receipt-table">
    <thead>
      <tr><th>Item</th><th>Quantity</th><th>Unit</th><th>Value</th><th>Amount</th></tr>
    </thead>
    <tbody>
{{- if .ItemsUnavailable}}
      <tr><td colspan="5" class="receipt-empty">Line items are unavailable for this event.</td></tr>
{{- else if not .Lines}}
      <tr><td colspan="5" class="receipt-empty">No line items.</td></tr>
{{- else}}
{{- range .Lines}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{money .Quantity}}</td>
        <td>{{orDash .Unit}}</td>
        <td>{{money .Value}}</td>
        <td>{{money .Amount}}</td>
      </tr>
{{- end}}
{{- end}}
    </tbody>
  </table>
{{- if .TotalComplete}}
  <div class="receipt-total">Total: {{money .Total}}</div>
{{- else}}
  <div class="receipt-total-missing">Total not computable (missing quantity or value).</div>
{{- end}}
  <div class="receipt-signatures">
    <div>Customer signature: ____________</div>
    <div>Warehouse signature: ____________</div>
  </div>
</div>
`))

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
<style>
body { margin: 18px; background: #fff; font-family: system-ui, sans-serif; color: #111827; }
.receipt-head { display: flex; justify-content: space-between; padding: 14px 16px; border: 1px solid #cbd5e1; border-radius: 12px; }
.receipt-kind { font-size: 20px; font-weight: 800; }
.receipt-meta, .receipt-official { font-size: 12px; color: #6b7280; }
.receipt-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; margin-top: 12px; }
.receipt-card { border: 1px solid #cbd5e1; border-radius: 12px; padding: 12px; font-size: 13px; }
.receipt-card-title { font-weight: 700; margin-bottom: 8px; }
.receipt-table { width: 100%; border-collapse: collapse; font-size: 13px; margin-top: 12px; }
.receipt-table th, .receipt-table td { text-align: left; padding: 10px; border-bottom: 1px solid #e2e8f0; }
.receipt-empty { color: #6b7280; }
.receipt-total { margin-top: 12px; font-weight: 800; font-size: 18px; }
.receipt-total-missing { margin-top: 12px; color: #6b7280; font-size: 13px; }
.receipt-signatures { margin-top: 10px; display: flex; justify-content: space-between; color: #6b7280; font-size: 12px; }
@media print { body { margin: 0; } }
</style>
</head>
<body>{{.Body}}</body>
</html>
`))

// RenderHTML renders the document as an HTML fragment. All free-text fields
// go through html/template escaping.
func RenderHTML(doc *Document) (string, error) {
	var b strings.Builder
	if err := bodyTmpl.Execute(&b, doc); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return b.String(), nil
}

// ExportHTML renders a self-contained standalone page (inline styles, no
// external resources) suitable for saving as a file or sending to print.
func ExportHTML(doc *Document, title string) (string, error) {
	body, err := RenderHTML(doc)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	err = pageTmpl.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body)})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return b.String(), nil
}

// SuggestedTitle mirrors the preview naming: receipt-buy-<id> or
// receipt-sell-<id>.
func SuggestedTitle(doc *Document) string {
	if doc.Kind == KindBuyer {
		return "receipt-buy-" + doc.EventID
	}
	return "receipt-sell-" + doc.EventID
}
