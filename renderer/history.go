package renderer

import (
	"bytes"
	"fmt"

	"github.com/lmoretti/bizmanager"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the purchase history, most recent first, followed
// by the price statistics when a single product was asked for.
func HistoryMarkdown(lines []bizmanager.PurchaseLine, stats bizmanager.ProductStats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Storico acquisti")

	table := md.TableSet{
		Header: []string{"Data", "Fornitore", "Prodotto", "Qta", "Prezzo", "Commessa"},
		Rows:   [][]string{},
	}
	for _, l := range lines {
		table.Rows = append(table.Rows, []string{
			l.Date.Format("2006-01-02"),
			l.Fornitore,
			l.Prodotto,
			l.Qty.String(),
			l.UnitPrice.String(),
			l.Commessa,
		})
	}
	doc.Table(table)

	if stats.Count > 0 {
		doc.H2("Statistiche prezzo")
		doc.PlainText(fmt.Sprintf("Min: %s | Medio: %s | Max: %s | Ultimo: %s | Quantita totale: %s | Acquisti: %d",
			stats.Min, stats.Avg, stats.Max, stats.Last, stats.Qty, stats.Count))
	}

	return doc.String()
}
