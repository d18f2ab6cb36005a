package renderer

import (
	"bytes"
	"fmt"

	"github.com/lmoretti/bizmanager"
	md "github.com/nao1215/markdown"
)

// JobsMarkdown renders the job board with derived paid/due figures. The
// figures come from the store because they are never kept on the job itself.
func JobsMarkdown(s *bizmanager.Store, jobs []bizmanager.Job) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Commesse")

	table := md.TableSet{
		Header: []string{"Titolo", "Cliente", "Commessa", "Stato", "Pattuito", "Incassato", "Residuo"},
		Rows:   [][]string{},
	}
	for _, j := range jobs {
		table.Rows = append(table.Rows, []string{
			j.Titolo,
			j.Cliente,
			j.Commessa,
			string(j.Stato),
			j.AgreedTotal.String(),
			s.JobPaid(j.ID).String(),
			s.JobDue(j.ID).String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// JobDetailMarkdown renders one job with its payments, costing lines and the
// purchases sharing its commessa.
func JobDetailMarkdown(s *bizmanager.Store, job bizmanager.Job) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(job.Titolo)
	doc.PlainText(fmt.Sprintf("Cliente: %s | Commessa: %s | Stato: %s", job.Cliente, job.Commessa, job.Stato))
	doc.PlainText(fmt.Sprintf("Pattuito: %s | Incassato: %s | Residuo: %s",
		job.AgreedTotal, s.JobPaid(job.ID), s.JobDue(job.ID)))
	if job.Note != "" {
		doc.PlainText("Note: " + job.Note)
	}

	if payments := s.PaymentsForJob(job.ID); len(payments) > 0 {
		doc.H2("Pagamenti")
		table := md.TableSet{
			Header: []string{"Data", "Importo", "Metodo", "Note"},
			Rows:   [][]string{},
		}
		for _, p := range payments {
			table.Rows = append(table.Rows, []string{
				p.Date.Format("2006-01-02"), p.Amount.String(), p.Method, p.Note,
			})
		}
		doc.Table(table)
	}

	if lines := s.LinesForJob(job.ID); len(lines) > 0 {
		doc.H2("Voci di costo")
		table := md.TableSet{
			Header: []string{"", "Tipo", "Descrizione", "Qta", "Unita", "Prezzo", "Note"},
			Rows:   [][]string{},
		}
		for _, l := range lines {
			table.Rows = append(table.Rows, []string{
				doneMark(l.Done), string(l.Kind), l.Desc, l.Qty.String(), l.Unit, l.UnitPrice.String(), l.Note,
			})
		}
		doc.Table(table)
		doc.PlainText("Costo stimato: " + s.JobLinesCost(job.ID).String())
	}

	if purchases := s.PurchasesByCommessa(job.Commessa); len(purchases) > 0 && job.Commessa != "" {
		doc.H2("Acquisti sulla commessa")
		table := md.TableSet{
			Header: []string{"Data", "Fornitore", "Prodotto", "Qta", "Prezzo"},
			Rows:   [][]string{},
		}
		for _, p := range purchases {
			table.Rows = append(table.Rows, []string{
				p.Date.Format("2006-01-02"), p.Fornitore, p.Prodotto, p.Qty.String(), p.UnitPrice.String(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}

func doneMark(done bool) string {
	if done {
		return "x"
	}
	return ""
}
