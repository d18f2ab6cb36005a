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

type buyCmd struct {
	fornitore string
	prodotto  string
	qty       string
	price     string
	commessa  string
	note      string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase into the history" }
func (*buyCmd) Usage() string {
	return `bmp buy -f <fornitore> -d <prodotto> -p <unit price> [-q <qty>] [-c <commessa>] [-n <note>]

  Records a purchase line and registers the supplier name. The project
  code, when given, links the purchase to a job by code equality.
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fornitore, "f", "", "Supplier name.")
	f.StringVar(&c.prodotto, "d", "", "Product name.")
	f.StringVar(&c.qty, "q", "1", "Quantity.")
	f.StringVar(&c.price, "p", "0", "Unit price.")
	f.StringVar(&c.commessa, "c", "", "Project code.")
	f.StringVar(&c.note, "n", "", "Free-text note.")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	p, err := s.RecordPurchase(bizmanager.PurchaseLine{
		Fornitore: c.fornitore,
		Prodotto:  c.prodotto,
		Qty:       qty,
		UnitPrice: price,
		Commessa:  c.commessa,
		Note:      c.note,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording purchase: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Recorded %s x %s from %s\n", p.Qty, p.Prodotto, p.Fornitore)
	return subcommands.ExitSuccess
}

type historyCmd struct {
	prodotto  string
	fornitore string
	annoMin   int
	annoMax   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "query the purchase history" }
func (*historyCmd) Usage() string {
	return `bmp history [-d <product>] [-f <supplier>] [-from <year>] [-to <year>]

  Lists the matching purchases, newest first. With a product filter the
  output ends with the price statistics for that product.
`
}
func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prodotto, "d", "", "Product substring, case-insensitive.")
	f.StringVar(&c.fornitore, "f", "", "Supplier substring, case-insensitive.")
	f.IntVar(&c.annoMin, "from", 0, "Inclusive year lower bound.")
	f.IntVar(&c.annoMax, "to", 0, "Inclusive year upper bound.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _ := decodeArchive()

	lines := s.ProductHistory(bizmanager.PurchaseFilter{
		Prodotto:  c.prodotto,
		Fornitore: c.fornitore,
		AnnoMin:   c.annoMin,
		AnnoMax:   c.annoMax,
	})
	var stats bizmanager.ProductStats
	if c.prodotto != "" {
		stats = s.ProductStatsFor(c.prodotto)
	}

	printMarkdown(renderer.HistoryMarkdown(lines, stats))
	return subcommands.ExitSuccess
}
