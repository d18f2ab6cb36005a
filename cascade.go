package bizmanager

import "fmt"

// CascadeImpact counts the dependent records a job deletion will remove.
// Callers must show these counts before asking for destructive confirmation.
type CascadeImpact struct {
	Payments  int
	Lines     int
	Purchases int
}

// CascadePreview reports what DeleteJobCascade would remove, without
// touching anything.
func (s *Store) CascadePreview(jobID string) (CascadeImpact, error) {
	job := s.Job(jobID)
	if job == nil {
		return CascadeImpact{}, fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	return CascadeImpact{
		Payments:  len(s.PaymentsForJob(jobID)),
		Lines:     len(s.LinesForJob(jobID)),
		Purchases: len(s.PurchasesByCommessa(job.Commessa)),
	}, nil
}

// DeleteJobCascade removes a job together with its payments, its lines, and
// every purchase line sharing its commessa. The purchase step is a heuristic
// cascade: project codes are meant to be unique per job, so any other job
// sharing the code loses its purchase history too. The operation itself is
// unconditional; the two-tier confirmation lives at the caller.
func (s *Store) DeleteJobCascade(jobID string) (CascadeImpact, error) {
	impact, err := s.CascadePreview(jobID)
	if err != nil {
		return CascadeImpact{}, err
	}
	job := *s.Job(jobID)

	jobs := s.Jobs[:0]
	for _, j := range s.Jobs {
		if j.ID != jobID {
			jobs = append(jobs, j)
		}
	}
	s.Jobs = jobs

	payments := s.JobPayments[:0]
	for _, p := range s.JobPayments {
		if p.JobID != jobID {
			payments = append(payments, p)
		}
	}
	s.JobPayments = payments

	lines := s.JobLines[:0]
	for _, l := range s.JobLines {
		if l.JobID != jobID {
			lines = append(lines, l)
		}
	}
	s.JobLines = lines

	key := CanonicalCommessa(job.Commessa)
	purchases := s.PurchaseLines[:0]
	for _, p := range s.PurchaseLines {
		if CanonicalCommessa(p.Commessa) != key {
			purchases = append(purchases, p)
		}
	}
	s.PurchaseLines = purchases

	return impact, nil
}

// Reset discards the whole store and replaces it with the defaults. This is
// the only operation with no undo path at all; both confirmation tiers are
// the caller's duty.
func (s *Store) Reset() {
	*s = *DefaultStore()
}
