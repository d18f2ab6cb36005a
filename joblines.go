package bizmanager

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreateJobLine appends a costing line to an existing job.
func (s *Store) CreateJobLine(jobID string, kind LineKind, desc string, qty Quantity, unit string, unitPrice Money, note string) (JobLine, error) {
	if s.Job(jobID) == nil {
		return JobLine{}, fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	desc = trimmed(desc)
	if desc == "" {
		return JobLine{}, fmt.Errorf("job line needs a description")
	}
	if qty.IsZero() {
		qty = Q(1)
	}

	line := JobLine{
		ID:        newID(),
		JobID:     jobID,
		Kind:      coerceLineKind(string(kind)),
		Desc:      desc,
		Qty:       qty,
		Unit:      orDefault(trimmed(unit), "pz"),
		UnitPrice: unitPrice,
		Note:      trimmed(note),
		Created:   time.Now(),
	}
	s.JobLines = append(s.JobLines, line)
	return line, nil
}

// UpdateJobLine applies a single field edit, coercing the value per field.
// Unknown field names are silently ignored so stale editors stay harmless.
func (s *Store) UpdateJobLine(lineID, field, value string) error {
	line := s.JobLine(lineID)
	if line == nil {
		return fmt.Errorf("job line %q: %w", lineID, ErrNotFound)
	}
	switch field {
	case "desc":
		line.Desc = trimmed(value)
	case "note":
		line.Note = trimmed(value)
	case "qty":
		q, err := ParseQuantity(trimmed(value))
		if err != nil || q.IsZero() {
			q = Q(1)
		}
		line.Qty = q
	case "unit":
		line.Unit = orDefault(trimmed(value), "pz")
	case "unitPrice":
		line.UnitPrice = Money{value: parseItalianDecimal(value)}
	case "kind":
		line.Kind = coerceLineKind(value)
	}
	return nil
}

// DeleteJobLine removes a line; unknown ids are reported but harmless.
func (s *Store) DeleteJobLine(lineID string) error {
	for i := range s.JobLines {
		if s.JobLines[i].ID == lineID {
			s.JobLines = append(s.JobLines[:i], s.JobLines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("job line %q: %w", lineID, ErrNotFound)
}

// ToggleJobLineDone flips the done flag of a line.
func (s *Store) ToggleJobLineDone(lineID string) error {
	line := s.JobLine(lineID)
	if line == nil {
		return fmt.Errorf("job line %q: %w", lineID, ErrNotFound)
	}
	line.Done = !line.Done
	return nil
}

// JobLinesCost estimates the cost of a job from its lines. Lines with a zero
// unit price are informational and excluded even when they carry a quantity.
func (s *Store) JobLinesCost(jobID string) Money {
	var cost Money
	for _, l := range s.JobLines {
		if l.JobID == jobID && l.UnitPrice.IsPositive() {
			cost = cost.Add(l.UnitPrice.Mul(l.Qty))
		}
	}
	return cost
}

// LinesForJob returns the lines attached to a job, in storage order.
func (s *Store) LinesForJob(jobID string) []JobLine {
	var out []JobLine
	for _, l := range s.JobLines {
		if l.JobID == jobID {
			out = append(out, l)
		}
	}
	return out
}

// parseItalianDecimal accepts a comma decimal separator and falls back to
// zero on anything unparseable, matching the original form coercion.
func parseItalianDecimal(value string) decimal.Decimal {
	str := strings.ReplaceAll(trimmed(value), ",", ".")
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero
	}
	return d
}
