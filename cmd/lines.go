package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/lmoretti/bizmanager"
)

type lineAddCmd struct {
	jobID string
	kind  string
	desc  string
	qty   string
	unit  string
	price string
	note  string
}

func (*lineAddCmd) Name() string     { return "line-add" }
func (*lineAddCmd) Synopsis() string { return "add a costing line to a job" }
func (*lineAddCmd) Usage() string {
	return `bmp line-add -i <job id> -d <desc> [-k <kind>] [-q <qty>] [-u <unit>] [-p <unit price>] [-n <note>]

  Adds a materiale or lavorazione line to a job. Costing lines estimate the
  cost of the job and never touch its paid/due figures.
`
}
func (c *lineAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.jobID, "i", "", "Job the line belongs to.")
	f.StringVar(&c.kind, "k", "materiale", "Line kind: materiale or lavorazione.")
	f.StringVar(&c.desc, "d", "", "Description.")
	f.StringVar(&c.qty, "q", "1", "Quantity.")
	f.StringVar(&c.unit, "u", "pz", "Unit of measure.")
	f.StringVar(&c.price, "p", "0", "Unit price.")
	f.StringVar(&c.note, "n", "", "Free-text note.")
}

func (c *lineAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	qty, err := parseQty(c.qty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity %q: %v\n", c.qty, err)
		return subcommands.ExitUsageError
	}
	price, err := parseAmount(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing unit price %q: %v\n", c.price, err)
		return subcommands.ExitUsageError
	}

	s, st := decodeArchive()
	line, err := s.CreateJobLine(c.jobID, bizmanager.LineKind(c.kind), c.desc, qty, c.unit, price, c.note)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding line: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Added %s line %q (%s). Estimated cost: %s\n", line.Kind, line.Desc, line.ID, s.JobLinesCost(c.jobID))
	return subcommands.ExitSuccess
}

type lineSetCmd struct {
	lineID string
	field  string
	value  string
}

func (*lineSetCmd) Name() string     { return "line-set" }
func (*lineSetCmd) Synopsis() string { return "edit one field of a costing line" }
func (*lineSetCmd) Usage() string {
	return `bmp line-set -i <line id> -f <field> -v <value>

  Edits one field of a costing line. Fields: desc, note, qty, unit,
  unitPrice, kind. Unknown fields are ignored.
`
}
func (c *lineSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lineID, "i", "", "Line to edit.")
	f.StringVar(&c.field, "f", "", "Field name.")
	f.StringVar(&c.value, "v", "", "New value.")
}

func (c *lineSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.UpdateJobLine(c.lineID, c.field, c.value); err != nil {
		fmt.Fprintf(os.Stderr, "Error editing line: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type lineDoneCmd struct {
	lineID string
}

func (*lineDoneCmd) Name() string     { return "line-done" }
func (*lineDoneCmd) Synopsis() string { return "toggle the done flag of a costing line" }
func (*lineDoneCmd) Usage() string {
	return `bmp line-done -i <line id>

  Flips the done flag of a costing line.
`
}
func (c *lineDoneCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lineID, "i", "", "Line to toggle.")
}

func (c *lineDoneCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.ToggleJobLineDone(c.lineID); err != nil {
		fmt.Fprintf(os.Stderr, "Error toggling line: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type lineDelCmd struct {
	lineID string
}

func (*lineDelCmd) Name() string     { return "line-del" }
func (*lineDelCmd) Synopsis() string { return "delete a costing line" }
func (*lineDelCmd) Usage() string {
	return `bmp line-del -i <line id>

  Removes a costing line from its job.
`
}
func (c *lineDelCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lineID, "i", "", "Line to delete.")
}

func (c *lineDelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.DeleteJobLine(c.lineID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting line: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}
