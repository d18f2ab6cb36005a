package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/lmoretti/bizmanager"
	"github.com/lmoretti/bizmanager/renderer"
)

// movementFlags are the flags shared by 'in' and 'out'.
type movementFlags struct {
	desc     string
	amount   string
	commessa string
	name     string
	kind     string
}

func (c *movementFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.desc, "d", "", "Description of the movement.")
	f.StringVar(&c.amount, "a", "", "Amount, always positive (e.g. 150,50).")
	f.StringVar(&c.commessa, "c", "", "Project code the movement belongs to.")
	f.StringVar(&c.name, "n", "", "Counterpart name.")
	f.StringVar(&c.kind, "t", "", "Counterpart type: cliente, fornitore or altro.")
}

func (c *movementFlags) record(tipo bizmanager.MovementKind) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}

	s, st := decodeArchive()
	m, err := s.RecordMovement(bizmanager.Movement{
		Desc:            c.desc,
		Commessa:        c.commessa,
		Importo:         amount,
		Tipo:            tipo,
		ControparteTipo: bizmanager.CounterpartKind(c.kind),
		ControparteNome: c.name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording movement: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Recorded %s of %s. Balance: %s\n", m.Tipo, m.Importo, s.Balance())
	return subcommands.ExitSuccess
}

type inCmd struct{ movementFlags }

func (*inCmd) Name() string     { return "in" }
func (*inCmd) Synopsis() string { return "record a cash inflow" }
func (*inCmd) Usage() string {
	return `bmp in -d <desc> -a <amount> [-c <commessa>] [-n <name>] [-t <type>]

  Records an entrata in the cash journal. The counterpart name, when given,
  is registered in the client or supplier registry.
`
}
func (c *inCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *inCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(bizmanager.Entrata)
}

type outCmd struct{ movementFlags }

func (*outCmd) Name() string     { return "out" }
func (*outCmd) Synopsis() string { return "record a cash outflow" }
func (*outCmd) Usage() string {
	return `bmp out -d <desc> -a <amount> [-c <commessa>] [-n <name>] [-t <type>]

  Records an uscita in the cash journal. The amount stays positive; the
  direction comes from the command.
`
}
func (c *outCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *outCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(bizmanager.Uscita)
}

type movementsCmd struct {
	commessa string
}

func (*movementsCmd) Name() string     { return "movements" }
func (*movementsCmd) Synopsis() string { return "list the cash journal" }
func (*movementsCmd) Usage() string {
	return `bmp movements [-c <commessa>]

  Lists the cash movements chronologically with their totals, optionally
  restricted to one project code.
`
}
func (c *movementsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.commessa, "c", "", "Only movements on this project code.")
}

func (c *movementsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _ := decodeArchive()
	s.SortMovements()

	movs := s.Movimenti
	if c.commessa != "" {
		movs = nil
		for _, m := range s.Movimenti {
			if m.Commessa == bizmanager.CanonicalCommessa(c.commessa) {
				movs = append(movs, m)
			}
		}
	}

	printMarkdown(renderer.MovementsMarkdown(movs, bizmanager.Totali(movs)))
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the business dashboard" }
func (*summaryCmd) Usage() string {
	return `bmp summary

  Displays the balance, the per-direction totals and the open jobs with
  their residuals.
`
}
func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _ := decodeArchive()
	printMarkdown(renderer.SummaryMarkdown(s))
	return subcommands.ExitSuccess
}
