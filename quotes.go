package bizmanager

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuote appends a new draft quote, consuming the next sequence number
// and registering the client name.
func (s *Store) CreateQuote(cliente, commessa string) (Quote, error) {
	cliente = trimmed(cliente)
	commessa = CanonicalCommessa(commessa)
	if cliente == "" {
		return Quote{}, fmt.Errorf("quote needs a cliente")
	}
	if commessa == "" {
		return Quote{}, fmt.Errorf("quote needs a commessa")
	}

	quote := Quote{
		ID:       newID(),
		Number:   s.QuoteCounter,
		Date:     time.Now(),
		Cliente:  cliente,
		Commessa: commessa,
		Status:   QuoteDraft,
		Righe:    []QuoteLine{},
	}
	s.QuoteCounter++
	s.Quotes = append(s.Quotes, quote)
	s.Anagrafiche.UpsertCliente(cliente)
	return quote, nil
}

// computeTotals derives the totals cache from the lines. Each line yields
// subtotal = qty * unitPrice * (1 - sconto/100) and vat = subtotal * iva/100;
// the accumulated totals are rounded to cents, half away from zero.
func computeTotals(righe []QuoteLine) QuoteTotals {
	var taxable, vat Money
	one := Q(1)
	for _, r := range righe {
		subtotal := r.UnitPrice.Mul(r.Qty).Mul(one.Sub(r.Sconto.Rate()))
		taxable = taxable.Add(subtotal)
		vat = vat.Add(subtotal.Mul(r.Iva.Rate()))
	}
	taxable = taxable.RoundCents()
	vat = vat.RoundCents()
	return QuoteTotals{
		Taxable: taxable,
		Vat:     vat,
		Total:   taxable.Add(vat).RoundCents(),
	}
}

// recalcQuoteTotals refreshes the totals cache after a line mutation.
func (s *Store) recalcQuoteTotals(q *Quote) {
	q.Totals = computeTotals(q.Righe)
}

// AddQuoteRiga appends a priced line to a draft quote and recomputes totals.
// On a locked quote it is a no-op: the model never changes, and the returned
// ErrLocked only tells the caller why.
func (s *Store) AddQuoteRiga(quoteID string, r QuoteLine) error {
	quote := s.Quote(quoteID)
	if quote == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	if quote.Status == QuoteLocked {
		return ErrLocked
	}
	r.Desc = trimmed(r.Desc)
	r.Qty = Quantity{value: jsOr(r.Qty.value, decimal.NewFromInt(1))}
	r.Iva = Quantity{value: jsOr(r.Iva.value, decimal.NewFromInt(22))}
	quote.Righe = append(quote.Righe, r)
	s.recalcQuoteTotals(quote)
	return nil
}

// DeleteQuoteRiga removes a line by index from a draft quote.
func (s *Store) DeleteQuoteRiga(quoteID string, index int) error {
	quote := s.Quote(quoteID)
	if quote == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	if quote.Status == QuoteLocked {
		return ErrLocked
	}
	if index < 0 || index >= len(quote.Righe) {
		return fmt.Errorf("riga %d: %w", index, ErrNotFound)
	}
	quote.Righe = append(quote.Righe[:index], quote.Righe[index+1:]...)
	s.recalcQuoteTotals(quote)
	return nil
}

// UpdateQuoteField edits a header field of a draft quote. Unknown fields are
// silently ignored.
func (s *Store) UpdateQuoteField(quoteID, field, value string) error {
	quote := s.Quote(quoteID)
	if quote == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	if quote.Status == QuoteLocked {
		return ErrLocked
	}
	switch field {
	case "cliente":
		quote.Cliente = trimmed(value)
	case "notes":
		quote.Notes = trimmed(value)
	case "commessa":
		quote.Commessa = CanonicalCommessa(value)
	}
	return nil
}

// UpdateQuoteRiga edits one field of one line of a draft quote and
// recomputes totals. Unknown fields are silently ignored.
func (s *Store) UpdateQuoteRiga(quoteID string, index int, field, value string) error {
	quote := s.Quote(quoteID)
	if quote == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	if quote.Status == QuoteLocked {
		return ErrLocked
	}
	if index < 0 || index >= len(quote.Righe) {
		return fmt.Errorf("riga %d: %w", index, ErrNotFound)
	}
	r := &quote.Righe[index]
	switch field {
	case "desc":
		r.Desc = trimmed(value)
	case "qty":
		r.Qty = Quantity{value: jsOr(parseItalianDecimal(value), decimal.NewFromInt(1))}
	case "unitPrice":
		r.UnitPrice = Money{value: parseItalianDecimal(value)}
	case "sconto":
		r.Sconto = Quantity{value: parseItalianDecimal(value)}
	case "iva":
		r.Iva = Quantity{value: jsOr(parseItalianDecimal(value), decimal.NewFromInt(22))}
	}
	s.recalcQuoteTotals(quote)
	return nil
}

// LockQuote recomputes totals and freezes the quote. Locking an already
// locked quote is harmless.
func (s *Store) LockQuote(quoteID string) error {
	quote := s.Quote(quoteID)
	if quote == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	s.recalcQuoteTotals(quote)
	quote.Status = QuoteLocked
	return nil
}

// UnlockQuote makes a locked quote editable again. This is an administrative
// override: if the quote was already confirmed into a job, the job stays as
// it is and the quote keeps pointing at it (see ConfirmQuoteAsJob).
func (s *Store) UnlockQuote(quoteID string) error {
	quote := s.Quote(quoteID)
	if quote == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	quote.Status = QuoteDraft
	return nil
}

// ResetQuote clears every line, zeroes the totals and forces the quote back
// to draft. With clearHeader it also blanks cliente, commessa and notes.
// The caller is expected to confirm twice before getting here.
func (s *Store) ResetQuote(quoteID string, clearHeader bool) error {
	quote := s.Quote(quoteID)
	if quote == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	quote.Status = QuoteDraft
	quote.Righe = []QuoteLine{}
	quote.Totals = QuoteTotals{}
	if clearHeader {
		quote.Cliente = ""
		quote.Commessa = ""
		quote.Notes = ""
	}
	return nil
}

// DuplicateQuote deep-copies a quote under a fresh id and the next sequence
// number. The copy always starts in draft, whatever the source status, and
// becomes the selected quote.
func (s *Store) DuplicateQuote(quoteID string) (Quote, error) {
	quote := s.Quote(quoteID)
	if quote == nil {
		return Quote{}, fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}

	copied := Quote{
		ID:       newID(),
		Number:   s.QuoteCounter,
		Date:     time.Now(),
		Cliente:  quote.Cliente,
		Commessa: quote.Commessa,
		Status:   QuoteDraft,
		Notes:    quote.Notes,
		Righe:    append([]QuoteLine(nil), quote.Righe...),
		Totals:   quote.Totals,
	}
	s.QuoteCounter++
	s.Quotes = append(s.Quotes, copied)
	s.Anagrafiche.UpsertCliente(copied.Cliente)
	s.SelectedQuoteID = copied.ID
	return copied, nil
}

// ConfirmQuoteAsJob converts a quote into a job: totals are recomputed, the
// job takes the quote total as its agreed total, every line is copied as a
// lavorazione job line (discount and VAT are dropped, job lines carry no tax
// model; lines with a blank description are skipped), and the quote locks.
// The conversion is one-way: deleting the job later does not revert the
// quote. A quote whose confirmed job still exists cannot be confirmed again,
// even after an unlock. On failure nothing is written.
func (s *Store) ConfirmQuoteAsJob(quoteID string) (Job, error) {
	quote := s.Quote(quoteID)
	if quote == nil {
		return Job{}, fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	if quote.JobID != "" && s.Job(quote.JobID) != nil {
		return Job{}, ErrAlreadyConfirmed
	}

	s.recalcQuoteTotals(quote)
	job, err := s.CreateJob(
		fmt.Sprintf("Preventivo #%d - %s", quote.Number, quote.Cliente),
		quote.Cliente,
		quote.Commessa,
		quote.Totals.Total,
		fmt.Sprintf("Da preventivo #%d", quote.Number),
	)
	if err != nil {
		return Job{}, fmt.Errorf("cannot confirm quote #%d: %w", quote.Number, err)
	}

	now := time.Now()
	for _, r := range quote.Righe {
		desc := trimmed(r.Desc)
		if desc == "" {
			continue
		}
		qty := r.Qty
		if qty.IsZero() {
			qty = Q(1)
		}
		s.JobLines = append(s.JobLines, JobLine{
			ID:        newID(),
			JobID:     job.ID,
			Kind:      Lavorazione,
			Desc:      desc,
			Qty:       qty,
			Unit:      "pz",
			UnitPrice: r.UnitPrice,
			Created:   now,
		})
	}

	quote.Status = QuoteLocked
	quote.JobID = job.ID
	return job, nil
}

// DeleteQuote removes a quote. When the selected quote goes away the
// selection moves to the first remaining quote.
func (s *Store) DeleteQuote(quoteID string) error {
	for i := range s.Quotes {
		if s.Quotes[i].ID != quoteID {
			continue
		}
		s.Quotes = append(s.Quotes[:i], s.Quotes[i+1:]...)
		if s.SelectedQuoteID == quoteID {
			s.SelectedQuoteID = ""
			if len(s.Quotes) > 0 {
				s.SelectedQuoteID = s.Quotes[0].ID
			}
		}
		return nil
	}
	return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
}

// SetSelectedQuote remembers which quote the editor is focused on.
func (s *Store) SetSelectedQuote(quoteID string) error {
	if s.Quote(quoteID) == nil {
		return fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	s.SelectedQuoteID = quoteID
	return nil
}
