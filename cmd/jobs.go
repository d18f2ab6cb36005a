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

type jobAddCmd struct {
	titolo   string
	cliente  string
	commessa string
	total    string
	note     string
}

func (*jobAddCmd) Name() string     { return "job-add" }
func (*jobAddCmd) Synopsis() string { return "open a new job" }
func (*jobAddCmd) Usage() string {
	return `bmp job-add -t <titolo> -c <cliente> -a <agreed total> [-p <commessa>] [-n <note>]

  Opens a job in the aperto state and registers the client name.
`
}
func (c *jobAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.titolo, "t", "", "Job title.")
	f.StringVar(&c.cliente, "c", "", "Client name.")
	f.StringVar(&c.total, "a", "", "Agreed total, must be positive.")
	f.StringVar(&c.commessa, "p", "", "Project code.")
	f.StringVar(&c.note, "n", "", "Free-text note.")
}

func (c *jobAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	total, err := parseAmount(c.total)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing agreed total %q: %v\n", c.total, err)
		return subcommands.ExitUsageError
	}

	s, st := decodeArchive()
	job, err := s.CreateJob(c.titolo, c.cliente, c.commessa, total, c.note)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating job: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Opened job %q (%s) for %s\n", job.Titolo, job.ID, job.AgreedTotal)
	return subcommands.ExitSuccess
}

type jobsCmd struct {
	state string
	id    string
}

func (*jobsCmd) Name() string     { return "jobs" }
func (*jobsCmd) Synopsis() string { return "list jobs with their paid/due figures" }
func (*jobsCmd) Usage() string {
	return `bmp jobs [-s <state>] [-i <job id>]

  Lists jobs with derived paid and due figures. With -i, shows one job in
  detail: payments, costing lines and purchases on its commessa.
`
}
func (c *jobsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.state, "s", "", "Only jobs in this state (aperto, chiuso, archived).")
	f.StringVar(&c.id, "i", "", "Show this job in detail.")
}

func (c *jobsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _ := decodeArchive()

	if c.id != "" {
		job := s.Job(c.id)
		if job == nil {
			fmt.Fprintf(os.Stderr, "Error: job %q not found\n", c.id)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.JobDetailMarkdown(s, *job))
		return subcommands.ExitSuccess
	}

	jobs := s.Jobs
	if c.state != "" {
		jobs = s.JobsByState(bizmanager.JobState(c.state))
	}
	printMarkdown(renderer.JobsMarkdown(s, jobs))
	return subcommands.ExitSuccess
}

type payCmd struct {
	jobID  string
	amount string
	method string
	note   string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a payment against a job" }
func (*payCmd) Usage() string {
	return `bmp pay -i <job id> -a <amount> [-m <method>] [-n <note>]

  Records a payment against a job and the matching entrata movement in the
  cash journal. When nothing remains due the job closes by itself.
`
}
func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.jobID, "i", "", "Job to pay.")
	f.StringVar(&c.amount, "a", "", "Payment amount, must be positive.")
	f.StringVar(&c.method, "m", "", "Payment method (defaults to bonifico).")
	f.StringVar(&c.note, "n", "", "Free-text note.")
}

func (c *payCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}

	s, st := decodeArchive()
	ev, err := s.CreateJobPayment(c.jobID, amount, c.method, c.note)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording payment: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	job := s.Job(c.jobID)
	fmt.Printf("Recorded %s on %q. Due: %s (stato: %s)\n", ev.Payment.Amount, job.Titolo, s.JobDue(c.jobID), job.Stato)
	return subcommands.ExitSuccess
}

type jobArchiveCmd struct {
	jobID string
}

func (*jobArchiveCmd) Name() string     { return "job-archive" }
func (*jobArchiveCmd) Synopsis() string { return "archive a job" }
func (*jobArchiveCmd) Usage() string {
	return `bmp job-archive -i <job id>

  Hides a job from the day-to-day views. Nothing else changes.
`
}
func (c *jobArchiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.jobID, "i", "", "Job to archive.")
}

func (c *jobArchiveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()
	if err := s.ArchiveJob(c.jobID); err != nil {
		fmt.Fprintf(os.Stderr, "Error archiving job: %v\n", err)
		return subcommands.ExitFailure
	}
	return encodeArchive(st, s)
}

type jobDelCmd struct {
	jobID string
	force bool
}

func (*jobDelCmd) Name() string     { return "job-del" }
func (*jobDelCmd) Synopsis() string { return "delete a job and everything hanging off it" }
func (*jobDelCmd) Usage() string {
	return `bmp job-del -i <job id> [-force]

  Deletes a job together with its payments, its costing lines and every
  purchase sharing its project code. Shows the counts and asks for the
  word ELIMINA first; -force skips the questions for scripted use.
`
}
func (c *jobDelCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.jobID, "i", "", "Job to delete.")
	f.BoolVar(&c.force, "force", false, "Skip the confirmation questions.")
}

func (c *jobDelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, st := decodeArchive()

	impact, err := s.CascadePreview(c.jobID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.force {
		summary := fmt.Sprintf("This deletes job %q with %d payments, %d lines and %d purchases on its commessa.",
			s.Job(c.jobID).Titolo, impact.Payments, impact.Lines, impact.Purchases)
		if !confirmTwice(summary, "ELIMINA") {
			return subcommands.ExitSuccess
		}
	}

	if _, err := s.DeleteJobCascade(c.jobID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting job: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := encodeArchive(st, s); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Printf("Deleted job and %d payments, %d lines, %d purchases.\n", impact.Payments, impact.Lines, impact.Purchases)
	return subcommands.ExitSuccess
}
