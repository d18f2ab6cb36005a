package bizmanager

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Sentinel errors returned by Store mutators. Reference failures are
// reported with ErrNotFound and leave the model untouched; callers decide
// whether that is worth surfacing.
var (
	ErrNotFound         = errors.New("record not found")
	ErrLocked           = errors.New("quote is locked")
	ErrAlreadyConfirmed = errors.New("quote already confirmed into a live job")
)

// CompanyInfo holds the letterhead fields of the business.
type CompanyInfo struct {
	Address string `json:"address"`
	Piva    string `json:"piva"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Store is the root aggregate. All records live here and the whole thing is
// persisted atomically as a single JSON blob after every mutation.
//
// There is a single writer by construction; the Store performs no locking.
type Store struct {
	Version         int
	CompanyName     string
	CompanyLogo     string // data URL, empty when unset
	CompanyInfo     CompanyInfo
	QuoteCounter    int
	SelectedQuoteID string
	SaldoIniziale   Money
	LastSync        string // ISO timestamp of the last export, empty when never exported

	Movimenti     []Movement
	Anagrafiche   Anagrafiche
	Jobs          []Job
	JobPayments   []JobPayment
	JobLines      []JobLine
	PurchaseLines []PurchaseLine
	Quotes        []Quote
}

const (
	storeVersion       = 2
	defaultCompanyName = "La tua ditta"
)

// DefaultStore returns the empty document every load falls back to.
func DefaultStore() *Store {
	return &Store{
		Version:      storeVersion,
		CompanyName:  defaultCompanyName,
		QuoteCounter: 1,
	}
}

// Job returns the job with this id, or nil if unknown.
func (s *Store) Job(id string) *Job {
	for i := range s.Jobs {
		if s.Jobs[i].ID == id {
			return &s.Jobs[i]
		}
	}
	return nil
}

// Quote returns the quote with this id, or nil if unknown.
func (s *Store) Quote(id string) *Quote {
	for i := range s.Quotes {
		if s.Quotes[i].ID == id {
			return &s.Quotes[i]
		}
	}
	return nil
}

// JobLine returns the job line with this id, or nil if unknown.
func (s *Store) JobLine(id string) *JobLine {
	for i := range s.JobLines {
		if s.JobLines[i].ID == id {
			return &s.JobLines[i]
		}
	}
	return nil
}

// SetCompanyName renames the business on the letterhead.
func (s *Store) SetCompanyName(name string) error {
	name = trimmed(name)
	if name == "" {
		return fmt.Errorf("company name cannot be empty")
	}
	s.CompanyName = name
	return nil
}

// SetCompanyLogo stores the logo as a data URL.
func (s *Store) SetCompanyLogo(dataURL string) { s.CompanyLogo = dataURL }

// ClearCompanyLogo removes the stored logo.
func (s *Store) ClearCompanyLogo() { s.CompanyLogo = "" }

// SetInitialBalance sets the opening cash balance the movements apply to.
func (s *Store) SetInitialBalance(m Money) { s.SaldoIniziale = m }

// TouchLastSync records the time of the latest successful export.
func (s *Store) TouchLastSync(now time.Time) { s.LastSync = isoTime(now) }

// MarshalJSON renders the canonical blob with stable key order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("version", s.Version)
	w.Append("companyName", s.CompanyName)
	w.Optional("companyLogoDataUrl", s.CompanyLogo)
	w.Append("companyInfo", s.CompanyInfo)
	w.Append("quoteCounter", s.QuoteCounter)
	w.Optional("selectedQuoteId", s.SelectedQuoteID)
	w.Append("saldoIniziale", s.SaldoIniziale)
	w.Optional("lastSyncISO", s.LastSync)
	w.Append("movimenti", emptyIfNil(s.Movimenti))
	w.Append("anagrafiche", s.Anagrafiche)
	w.Append("jobs", emptyIfNil(s.Jobs))
	w.Append("jobPayments", emptyIfNil(s.JobPayments))
	w.Append("jobLines", emptyIfNil(s.JobLines))
	w.Append("purchaseLines", emptyIfNil(s.PurchaseLines))
	w.Append("quotes", emptyIfNil(s.Quotes))
	return w.MarshalJSON()
}

// emptyIfNil keeps collections as [] rather than null in the blob.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// EncodeStore writes the canonical blob for a store.
func EncodeStore(w io.Writer, s *Store) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode store: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("could not write store: %w", err)
	}
	return nil
}
