package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
	"github.com/lmoretti/bizmanager"
)

type companyCmd struct {
	name    string
	saldo   string
	address string
	piva    string
	phone   string
	email   string
}

func (*companyCmd) Name() string     { return "company" }
func (*companyCmd) Synopsis() string { return "edit the company letterhead and initial balance" }
func (*companyCmd) Usage() string {
	return `bmp company [-n <name>] [-saldo <amount>] [-address <addr>] [-piva <piva>] [-phone <phone>] [-email <email>]

  Edits the letterhead fields shown on quote documents and the initial
  cash balance the movements apply to. Flags left out change nothing.
`
}
func (c *companyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Company name.")
	f.StringVar(&c.saldo, "saldo", "", "Initial cash balance.")
	f.StringVar(&c.address, "address", "", "Address.")
	f.StringVar(&c.piva, "piva", "", "VAT number.")
	f.StringVar(&c.phone, "phone", "", "Phone number.")
	f.StringVar(&c.email, "email", "", "Email address.")
}

func (c *companyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()

	if c.name != "" {
		if err := s.SetCompanyName(c.name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.saldo != "" {
		saldo, err := parseAmount(c.saldo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing saldo %q: %v\n", c.saldo, err)
			return subcommands.ExitUsageError
		}
		s.SetInitialBalance(saldo)
	}
	if c.address != "" {
		s.CompanyInfo.Address = c.address
	}
	if c.piva != "" {
		s.CompanyInfo.Piva = c.piva
	}
	if c.phone != "" {
		s.CompanyInfo.Phone = c.phone
	}
	if c.email != "" {
		s.CompanyInfo.Email = c.email
	}

	return encodeArchive(st, s)
}

type exportCmd struct {
	outputFile string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a portable backup of the archive" }
func (*exportCmd) Usage() string {
	return `bmp export [-o <file>]

  Writes the backup envelope (timestamp, app marker, full state) to the
  given file, or to stdout. The export time is remembered in the archive.
`
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "Output file (defaults to stdout).")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	s.TouchLastSync(time.Now())

	out := os.Stdout
	if c.outputFile != "" {
		file, err := os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
	}

	if err := bizmanager.Export(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type importCmd struct {
	inputFile string
	force     bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the archive with a backup" }
func (*importCmd) Usage() string {
	return `bmp import -f <file> [-force]

  Replaces the whole archive with a backup envelope, after the same
  validation as a regular load. A document without a state key is refused
  before anything is written.
`
}
func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputFile, "f", "", "Backup file to import.")
	f.BoolVar(&c.force, "force", false, "Skip the confirmation question.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data, err := os.ReadFile(c.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.inputFile, err)
		return subcommands.ExitFailure
	}

	imported, discards, err := bizmanager.Import(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, d := range discards {
		fmt.Fprintf(os.Stderr, "warning, dropped %s record %s: %s\n", d.Collection, d.ID, d.Reason)
	}

	if !c.force {
		summary := fmt.Sprintf("This replaces the whole archive with %q.", c.inputFile)
		if !confirmTwice(summary, "IMPORTA") {
			return subcommands.ExitSuccess
		}
	}

	st := bizmanager.NewFileStore(*storeDir)
	return encodeArchive(st, imported)
}

type resetCmd struct {
	force bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "wipe the archive" }
func (*resetCmd) Usage() string {
	return `bmp reset [-force]

  Replaces the whole archive with the empty defaults. There is no undo;
  the command asks twice, the second time for the word RESET.
`
}
func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Skip the confirmation questions.")
}

func (c *resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()

	if !c.force {
		summary := fmt.Sprintf("This erases %d movements, %d jobs and %d quotes.",
			len(s.Movimenti), len(s.Jobs), len(s.Quotes))
		if !confirmTwice(summary, "RESET") {
			return subcommands.ExitSuccess
		}
	}

	s.Reset()
	return encodeArchive(st, s)
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "run a JSONPath query against the archive" }
func (*queryCmd) Usage() string {
	return `bmp query <jsonpath>

  Runs a JSONPath expression against the archive blob and prints the
  result as JSON, for scripted use.

Usage Examples:
$ bmp query '$.jobs[*].titolo'
$ bmp query '$.quotes[?(@.status=="locked")].number'
`
}
func (c *queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one JSONPath expression")
		return subcommands.ExitUsageError
	}

	s, _ := decodeArchive()
	blob, err := s.MarshalJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding archive: %v\n", err)
		return subcommands.ExitFailure
	}
	var doc any
	if err := json.Unmarshal(blob, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding archive: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := jsonpath.Get(f.Arg(0), doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating query: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
