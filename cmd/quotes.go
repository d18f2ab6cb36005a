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

// quoteID resolves the quote a command works on: the -i flag when given,
// the selected quote otherwise.
func quoteID(s *bizmanager.Store, id string) string {
	if id == "" {
		return s.SelectedQuoteID
	}
	return id
}

type quoteNewCmd struct {
	cliente  string
	commessa string
}

func (*quoteNewCmd) Name() string     { return "quote-new" }
func (*quoteNewCmd) Synopsis() string { return "create a draft quote" }
func (*quoteNewCmd) Usage() string {
	return `bmp quote-new -c <cliente> -p <commessa>

  Creates a draft quote under the next sequence number and selects it, so
  the riga commands apply to it by default.
`
}
func (c *quoteNewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cliente, "c", "", "Client name.")
	f.StringVar(&c.commessa, "p", "", "Project code.")
}

func (c *quoteNewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	q, err := s.CreateQuote(c.cliente, c.commessa)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating quote: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := s.SetSelectedQuote(q.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error selecting quote: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Created quote #%d (%s) for %s\n", q.Number, q.ID, q.Cliente)
	return subcommands.ExitSuccess
}

type quotesCmd struct {
	id string
}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "list quotes or print one as a document" }
func (*quotesCmd) Usage() string {
	return `bmp quotes [-i <quote id>]

  Lists the quotes; the selected one is marked. With -i, renders one quote
  as a printable document under the company letterhead.
`
}
func (c *quotesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Render this quote as a document.")
}

func (c *quotesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _ := decodeArchive()

	if c.id != "" {
		q := s.Quote(c.id)
		if q == nil {
			fmt.Fprintf(os.Stderr, "Error: quote %q not found\n", c.id)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.QuoteMarkdown(s.CompanyName, s.CompanyInfo, *q))
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.QuotesMarkdown(s.Quotes, s.SelectedQuoteID))
	return subcommands.ExitSuccess
}

type rigaAddCmd struct {
	id     string
	desc   string
	qty    string
	price  string
	sconto string
	iva    string
}

func (*rigaAddCmd) Name() string     { return "riga-add" }
func (*rigaAddCmd) Synopsis() string { return "add a priced line to a draft quote" }
func (*rigaAddCmd) Usage() string {
	return `bmp riga-add -d <desc> -p <unit price> [-q <qty>] [-s <sconto %>] [-v <iva %>] [-i <quote id>]

  Appends a line to the selected (or given) draft quote and recomputes the
  totals. Quantity defaults to 1 and VAT to 22%.
`
}
func (c *rigaAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to edit (defaults to the selected one).")
	f.StringVar(&c.desc, "d", "", "Description.")
	f.StringVar(&c.qty, "q", "1", "Quantity.")
	f.StringVar(&c.price, "p", "0", "Unit price.")
	f.StringVar(&c.sconto, "s", "0", "Discount in percent points.")
	f.StringVar(&c.iva, "v", "22", "VAT in percent points.")
}

func (c *rigaAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	sconto, err := parseQty(c.sconto)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing sconto %q: %v\n", c.sconto, err)
		return subcommands.ExitUsageError
	}
	iva, err := parseQty(c.iva)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing iva %q: %v\n", c.iva, err)
		return subcommands.ExitUsageError
	}

	s, st := decodeArchive()
	id := quoteID(s, c.id)
	if err := s.AddQuoteRiga(id, bizmanager.QuoteLine{
		Desc: c.desc, Qty: qty, UnitPrice: price, Sconto: sconto, Iva: iva,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding riga: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Added riga. Totale: %s\n", s.Quote(id).Totals.Total)
	return subcommands.ExitSuccess
}

type rigaSetCmd struct {
	id    string
	index int
	field string
	value string
}

func (*rigaSetCmd) Name() string     { return "riga-set" }
func (*rigaSetCmd) Synopsis() string { return "edit one field of a quote line" }
func (*rigaSetCmd) Usage() string {
	return `bmp riga-set -r <index> -f <field> -v <value> [-i <quote id>]

  Edits one field of a line of a draft quote and recomputes the totals.
  Fields: desc, qty, unitPrice, sconto, iva.
`
}
func (c *rigaSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to edit (defaults to the selected one).")
	f.IntVar(&c.index, "r", 0, "Line index, starting at 0.")
	f.StringVar(&c.field, "f", "", "Field name.")
	f.StringVar(&c.value, "v", "", "New value.")
}

func (c *rigaSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	id := quoteID(s, c.id)
	if err := s.UpdateQuoteRiga(id, c.index, c.field, c.value); err != nil {
		fmt.Fprintf(os.Stderr, "Error editing riga: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type rigaDelCmd struct {
	id    string
	index int
}

func (*rigaDelCmd) Name() string     { return "riga-del" }
func (*rigaDelCmd) Synopsis() string { return "remove a line from a draft quote" }
func (*rigaDelCmd) Usage() string {
	return `bmp riga-del -r <index> [-i <quote id>]

  Removes a line by index from a draft quote and recomputes the totals.
`
}
func (c *rigaDelCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to edit (defaults to the selected one).")
	f.IntVar(&c.index, "r", 0, "Line index, starting at 0.")
}

func (c *rigaDelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.DeleteQuoteRiga(quoteID(s, c.id), c.index); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting riga: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type quoteSetCmd struct {
	id    string
	field string
	value string
}

func (*quoteSetCmd) Name() string     { return "quote-set" }
func (*quoteSetCmd) Synopsis() string { return "edit a header field of a draft quote" }
func (*quoteSetCmd) Usage() string {
	return `bmp quote-set -f <field> -v <value> [-i <quote id>]

  Edits a header field of a draft quote. Fields: cliente, commessa, notes.
`
}
func (c *quoteSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to edit (defaults to the selected one).")
	f.StringVar(&c.field, "f", "", "Field name.")
	f.StringVar(&c.value, "v", "", "New value.")
}

func (c *quoteSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.UpdateQuoteField(quoteID(s, c.id), c.field, c.value); err != nil {
		fmt.Fprintf(os.Stderr, "Error editing quote: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type quoteLockCmd struct {
	id string
}

func (*quoteLockCmd) Name() string     { return "quote-lock" }
func (*quoteLockCmd) Synopsis() string { return "freeze a quote for sending" }
func (*quoteLockCmd) Usage() string {
	return `bmp quote-lock [-i <quote id>]

  Recomputes the totals and locks the quote. A locked quote refuses every
  edit until it is unlocked.
`
}
func (c *quoteLockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to lock (defaults to the selected one).")
}

func (c *quoteLockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.LockQuote(quoteID(s, c.id)); err != nil {
		fmt.Fprintf(os.Stderr, "Error locking quote: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type quoteUnlockCmd struct {
	id string
}

func (*quoteUnlockCmd) Name() string     { return "quote-unlock" }
func (*quoteUnlockCmd) Synopsis() string { return "make a locked quote editable again" }
func (*quoteUnlockCmd) Usage() string {
	return `bmp quote-unlock [-i <quote id>]

  Puts a locked quote back into draft. If the quote was already confirmed
  into a job, the job stays as it is.
`
}
func (c *quoteUnlockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to unlock (defaults to the selected one).")
}

func (c *quoteUnlockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.UnlockQuote(quoteID(s, c.id)); err != nil {
		fmt.Fprintf(os.Stderr, "Error unlocking quote: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type quoteDupCmd struct {
	id string
}

func (*quoteDupCmd) Name() string     { return "quote-dup" }
func (*quoteDupCmd) Synopsis() string { return "duplicate a quote under the next number" }
func (*quoteDupCmd) Usage() string {
	return `bmp quote-dup [-i <quote id>]

  Deep-copies a quote under a fresh id and the next sequence number. The
  copy starts in draft and becomes the selected quote.
`
}
func (c *quoteDupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to duplicate (defaults to the selected one).")
}

func (c *quoteDupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	dup, err := s.DuplicateQuote(quoteID(s, c.id))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error duplicating quote: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Created quote #%d (%s)\n", dup.Number, dup.ID)
	return subcommands.ExitSuccess
}

type quoteResetCmd struct {
	id          string
	clearHeader bool
	force       bool
}

func (*quoteResetCmd) Name() string     { return "quote-reset" }
func (*quoteResetCmd) Synopsis() string { return "clear every line of a quote" }
func (*quoteResetCmd) Usage() string {
	return `bmp quote-reset [-i <quote id>] [-header] [-force]

  Clears every line, zeroes the totals and puts the quote back into draft.
  With -header it also blanks cliente, commessa and notes. Asks twice.
`
}
func (c *quoteResetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to reset (defaults to the selected one).")
	f.BoolVar(&c.clearHeader, "header", false, "Also blank the header fields.")
	f.BoolVar(&c.force, "force", false, "Skip the confirmation questions.")
}

func (c *quoteResetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	id := quoteID(s, c.id)
	q := s.Quote(id)
	if q == nil {
		fmt.Fprintf(os.Stderr, "Error: quote %q not found\n", id)
		return subcommands.ExitFailure
	}

	if !c.force {
		summary := fmt.Sprintf("This clears the %d lines of quote #%d.", len(q.Righe), q.Number)
		if !confirmTwice(summary, "RESET") {
			return subcommands.ExitSuccess
		}
	}

	if err := s.ResetQuote(id, c.clearHeader); err != nil {
		fmt.Fprintf(os.Stderr, "Error resetting quote: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type quoteConfirmCmd struct {
	id string
}

func (*quoteConfirmCmd) Name() string     { return "quote-confirm" }
func (*quoteConfirmCmd) Synopsis() string { return "convert a quote into a job" }
func (*quoteConfirmCmd) Usage() string {
	return `bmp quote-confirm [-i <quote id>]

  Converts a quote into a job: the quote total becomes the agreed total,
  the lines are copied as lavorazione costing lines, and the quote locks.
  The conversion is one-way.
`
}
func (c *quoteConfirmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to confirm (defaults to the selected one).")
}

func (c *quoteConfirmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	job, err := s.ConfirmQuoteAsJob(quoteID(s, c.id))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error confirming quote: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Opened job %q (%s) for %s\n", job.Titolo, job.ID, job.AgreedTotal)
	return subcommands.ExitSuccess
}

type quoteDelCmd struct {
	id string
}

func (*quoteDelCmd) Name() string     { return "quote-del" }
func (*quoteDelCmd) Synopsis() string { return "delete a quote" }
func (*quoteDelCmd) Usage() string {
	return `bmp quote-del -i <quote id>

  Removes a quote. Its number is never reused. A job confirmed from it, if
  any, stays untouched.
`
}
func (c *quoteDelCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Quote to delete.")
}

func (c *quoteDelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.DeleteQuote(c.id); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting quote: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}
