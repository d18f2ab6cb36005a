package renderer

import (
	"bytes"
	"fmt"

	"github.com/lmoretti/bizmanager"
	md "github.com/nao1215/markdown"
)

// MovementsMarkdown renders the cash journal with its per-direction totals.
func MovementsMarkdown(movs []bizmanager.Movement, totals bizmanager.MovementTotals) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Movimenti di cassa")

	table := md.TableSet{
		Header: []string{"Data", "Descrizione", "Commessa", "Tipo", "Importo", "Controparte"},
		Rows:   [][]string{},
	}
	for _, m := range movs {
		table.Rows = append(table.Rows, []string{
			m.Date.Format("2006-01-02"),
			m.Desc,
			m.Commessa,
			string(m.Tipo),
			m.Importo.String(),
			counterpart(m),
		})
	}
	doc.Table(table)

	doc.PlainText(fmt.Sprintf("Entrate: %s | Uscite: %s | Margine: %s",
		totals.Entrate, totals.Uscite, totals.Margine.SignedString()))

	return doc.String()
}

func counterpart(m bizmanager.Movement) string {
	if m.ControparteNome == "" {
		return ""
	}
	return fmt.Sprintf("%s (%s)", m.ControparteNome, m.ControparteTipo)
}
