package renderer

import (
	"bytes"
	"fmt"

	"github.com/lmoretti/bizmanager"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the dashboard: balance, per-direction totals and
// the open jobs with what is still due on them.
func SummaryMarkdown(s *bizmanager.Store) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(s.CompanyName)

	totals := bizmanager.Totali(s.Movimenti)
	doc.PlainText(fmt.Sprintf("Saldo: %s (iniziale %s)", s.Balance(), s.SaldoIniziale))
	doc.PlainText(fmt.Sprintf("Entrate: %s | Uscite: %s | Margine: %s",
		totals.Entrate, totals.Uscite, totals.Margine.SignedString()))

	open := s.JobsByState(bizmanager.JobAperto)
	if len(open) > 0 {
		doc.H2("Commesse aperte")
		table := md.TableSet{
			Header: []string{"Titolo", "Cliente", "Residuo"},
			Rows:   [][]string{},
		}
		for _, j := range open {
			table.Rows = append(table.Rows, []string{j.Titolo, j.Cliente, s.JobDue(j.ID).String()})
		}
		doc.Table(table)
	}

	doc.PlainText(fmt.Sprintf("Preventivi: %d | Clienti: %d | Fornitori: %d",
		len(s.Quotes), len(s.Anagrafiche.Clienti), len(s.Anagrafiche.Fornitori)))
	if s.LastSync != "" {
		doc.PlainText("Ultimo backup: " + s.LastSync)
	}

	return doc.String()
}
