package bizmanager

import (
	"fmt"
	"time"
)

// CreateJob validates and appends a job in the aperto state, and registers
// the client name.
func (s *Store) CreateJob(titolo, cliente, commessa string, agreedTotal Money, note string) (Job, error) {
	titolo = trimmed(titolo)
	cliente = trimmed(cliente)
	if titolo == "" {
		return Job{}, fmt.Errorf("job needs a titolo")
	}
	if cliente == "" {
		return Job{}, fmt.Errorf("job needs a cliente")
	}
	if !agreedTotal.IsPositive() {
		return Job{}, fmt.Errorf("agreed total must be positive, got %s", agreedTotal)
	}

	job := Job{
		ID:          newID(),
		Titolo:      titolo,
		Commessa:    CanonicalCommessa(commessa),
		Cliente:     cliente,
		AgreedTotal: agreedTotal,
		Stato:       JobAperto,
		Note:        trimmed(note),
		Created:     time.Now(),
	}
	s.Jobs = append(s.Jobs, job)
	s.Anagrafiche.UpsertCliente(cliente)
	return job, nil
}

// JobPaid sums every payment recorded against a job.
func (s *Store) JobPaid(jobID string) Money {
	var paid Money
	for _, p := range s.JobPayments {
		if p.JobID == jobID {
			paid = paid.Add(p.Amount)
		}
	}
	return paid
}

// JobDue returns the outstanding balance on a job, clamped at zero so
// over-payment never produces a negative residual. Unknown jobs owe nothing.
func (s *Store) JobDue(jobID string) Money {
	job := s.Job(jobID)
	if job == nil {
		return Money{}
	}
	due := job.AgreedTotal.Sub(s.JobPaid(jobID))
	if due.IsNegative() {
		return Money{}
	}
	return due
}

// PaymentEvent is the result of recording a payment: the payment itself and
// the cash movement synthesized alongside it. One payment always produces
// exactly one movement with the same amount and date.
type PaymentEvent struct {
	Payment  JobPayment
	Movement Movement
}

// CreateJobPayment records a payment against a job, synthesizes the matching
// entrata movement, and closes the job once nothing is due. The close is
// one-directional: no further payment reopens a closed job.
func (s *Store) CreateJobPayment(jobID string, amount Money, method, note string) (PaymentEvent, error) {
	job := s.Job(jobID)
	if job == nil {
		return PaymentEvent{}, fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	if !amount.IsPositive() {
		return PaymentEvent{}, fmt.Errorf("payment amount must be positive, got %s", amount)
	}

	now := time.Now()
	payment := JobPayment{
		ID:     newID(),
		JobID:  jobID,
		Date:   now,
		Amount: amount,
		Method: orDefault(trimmed(method), "bonifico"),
		Note:   trimmed(note),
	}
	movement := Movement{
		ID:              newID(),
		Date:            now,
		Desc:            "Incasso " + job.Titolo,
		Commessa:        job.Commessa,
		Importo:         amount,
		Tipo:            Entrata,
		ControparteTipo: Cliente,
		ControparteNome: job.Cliente,
	}

	s.JobPayments = append(s.JobPayments, payment)
	s.Movimenti = append(s.Movimenti, movement)

	if !s.JobDue(jobID).IsPositive() && job.Stato == JobAperto {
		job.Stato = JobChiuso
	}
	return PaymentEvent{Payment: payment, Movement: movement}, nil
}

// UpdateJobNote replaces the free-text note of a job.
func (s *Store) UpdateJobNote(jobID, note string) error {
	job := s.Job(jobID)
	if job == nil {
		return fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	job.Note = trimmed(note)
	return nil
}

// ArchiveJob hides a job from the day-to-day views. It cascades nothing and
// is independent of the payment state.
func (s *Store) ArchiveJob(jobID string) error {
	return s.UpdateJobState(jobID, JobArchived)
}

// UpdateJobState is the direct state edit. The automatic transitions
// (auto-close on full payment) never go through here.
func (s *Store) UpdateJobState(jobID string, state JobState) error {
	job := s.Job(jobID)
	if job == nil {
		return fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	job.Stato = coerceJobState(string(state))
	return nil
}

// JobsByState returns the jobs currently in a given state, in storage order.
func (s *Store) JobsByState(state JobState) []Job {
	var out []Job
	for _, j := range s.Jobs {
		if j.Stato == state {
			out = append(out, j)
		}
	}
	return out
}

// PaymentsForJob returns the payments recorded against a job.
func (s *Store) PaymentsForJob(jobID string) []JobPayment {
	var out []JobPayment
	for _, p := range s.JobPayments {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out
}
