package renderer

import (
	"bytes"
	"fmt"

	"github.com/lmoretti/bizmanager"
	md "github.com/nao1215/markdown"
)

// QuotesMarkdown renders the quote list. The selected quote is marked.
func QuotesMarkdown(quotes []bizmanager.Quote, selectedID string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Preventivi")

	table := md.TableSet{
		Header: []string{"", "N.", "Data", "Cliente", "Commessa", "Stato", "Totale"},
		Rows:   [][]string{},
	}
	for _, q := range quotes {
		mark := ""
		if q.ID == selectedID {
			mark = "*"
		}
		table.Rows = append(table.Rows, []string{
			mark,
			fmt.Sprintf("%d", q.Number),
			q.Date.Format("2006-01-02"),
			q.Cliente,
			q.Commessa,
			string(q.Status),
			q.Totals.Total.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// QuoteMarkdown renders one quote as a printable document under the company
// letterhead.
func QuoteMarkdown(companyName string, info bizmanager.CompanyInfo, q bizmanager.Quote) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Preventivo #%d", q.Number))
	doc.PlainText(letterhead(companyName, info))
	doc.PlainText(fmt.Sprintf("Data: %s | Cliente: %s | Commessa: %s | Stato: %s",
		q.Date.Format("2006-01-02"), q.Cliente, q.Commessa, q.Status))

	table := md.TableSet{
		Header: []string{"Descrizione", "Qta", "Prezzo", "Sconto %", "IVA %", "Subtotale"},
		Rows:   [][]string{},
	}
	one := bizmanager.Q(1)
	for _, r := range q.Righe {
		subtotal := r.UnitPrice.Mul(r.Qty).Mul(one.Sub(r.Sconto.Rate())).RoundCents()
		table.Rows = append(table.Rows, []string{
			r.Desc, r.Qty.String(), r.UnitPrice.String(), r.Sconto.String(), r.Iva.String(), subtotal.String(),
		})
	}
	doc.Table(table)

	doc.PlainText(fmt.Sprintf("Imponibile: %s | IVA: %s | Totale: %s",
		q.Totals.Taxable, q.Totals.Vat, q.Totals.Total))
	if q.Notes != "" {
		doc.PlainText("Note: " + q.Notes)
	}

	return doc.String()
}

func letterhead(companyName string, info bizmanager.CompanyInfo) string {
	head := companyName
	if info.Address != "" {
		head += " - " + info.Address
	}
	if info.Piva != "" {
		head += " - P.IVA " + info.Piva
	}
	return head
}
