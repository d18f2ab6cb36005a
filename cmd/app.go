// Package cmd implements the CLI application to manage the business archive.
package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/lmoretti/bizmanager"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&inCmd{}, "cash")
	c.Register(&outCmd{}, "cash")
	c.Register(&movementsCmd{}, "cash")
	c.Register(&summaryCmd{}, "cash")

	c.Register(&jobAddCmd{}, "jobs")
	c.Register(&jobsCmd{}, "jobs")
	c.Register(&payCmd{}, "jobs")
	c.Register(&jobArchiveCmd{}, "jobs")
	c.Register(&jobDelCmd{}, "jobs")
	c.Register(&lineAddCmd{}, "jobs")
	c.Register(&lineSetCmd{}, "jobs")
	c.Register(&lineDoneCmd{}, "jobs")
	c.Register(&lineDelCmd{}, "jobs")

	c.Register(&quoteNewCmd{}, "quotes")
	c.Register(&quotesCmd{}, "quotes")
	c.Register(&rigaAddCmd{}, "quotes")
	c.Register(&rigaSetCmd{}, "quotes")
	c.Register(&rigaDelCmd{}, "quotes")
	c.Register(&quoteSetCmd{}, "quotes")
	c.Register(&quoteLockCmd{}, "quotes")
	c.Register(&quoteUnlockCmd{}, "quotes")
	c.Register(&quoteDupCmd{}, "quotes")
	c.Register(&quoteResetCmd{}, "quotes")
	c.Register(&quoteConfirmCmd{}, "quotes")
	c.Register(&quoteDelCmd{}, "quotes")

	c.Register(&buyCmd{}, "purchases")
	c.Register(&historyCmd{}, "purchases")

	c.Register(&companyCmd{}, "archive")
	c.Register(&exportCmd{}, "archive")
	c.Register(&importCmd{}, "archive")
	c.Register(&resetCmd{}, "archive")
	c.Register(&queryCmd{}, "archive")
	c.Register(&topicCmd{}, "archive")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeDir = flag.String("store-dir", defaultStoreDir(), "Directory holding the archive")

func defaultStoreDir() string {
	if dir := os.Getenv("BIZMANAGER_DIR"); dir != "" {
		return dir
	}
	return ".bizmanager"
}

// decodeArchive opens the archive from the store directory. Records dropped
// by the normalizer are logged, never fatal.
func decodeArchive() (*bizmanager.Store, bizmanager.Storage) {
	st := bizmanager.NewFileStore(*storeDir)
	s, discards := bizmanager.LoadStore(st)
	for _, d := range discards {
		log.Printf("warning, dropped %s record %s: %s", d.Collection, d.ID, d.Reason)
	}
	return s, st
}

// encodeArchive writes the archive back whole.
func encodeArchive(st bizmanager.Storage, s *bizmanager.Store) subcommands.ExitStatus {
	if err := bizmanager.SaveStore(st, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving archive: %v\n", err)
		return subcommands.ExitFailure
	}
	if fs, ok := st.(*bizmanager.FileStore); ok && fs.Degraded() {
		fmt.Fprintln(os.Stderr, "Warning: archive directory unavailable, changes live in memory only for this run.")
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be built.
func printMarkdown(content string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(content)
		return
	}
	out, err := r.Render(content)
	if err != nil {
		fmt.Print(content)
		return
	}
	fmt.Print(out)
}

// confirmTwice guards the destructive commands: a summary with a yes/no
// question first, then the exact keyword typed out.
func confirmTwice(summary, keyword string) bool {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s Continue? [y/N] ", summary)
	answer, err := reader.ReadString('\n')
	if err != nil || strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("Aborted.")
		return false
	}

	fmt.Printf("Type %s to confirm: ", keyword)
	answer, err = reader.ReadString('\n')
	if err != nil || strings.TrimSpace(answer) != keyword {
		fmt.Println("Aborted.")
		return false
	}
	return true
}

// parseAmount parses a money amount, accepting the Italian comma separator.
func parseAmount(s string) (bizmanager.Money, error) {
	return bizmanager.ParseMoney(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// parseQty parses a quantity, accepting the Italian comma separator.
func parseQty(s string) (bizmanager.Quantity, error) {
	return bizmanager.ParseQuantity(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}
