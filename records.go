package bizmanager

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// This file defines the plain records held by the Store. Field names in JSON
// follow the persisted blob format (see normalize.go for the tolerant reader).

// MovementKind is the direction of a cash movement.
type MovementKind string

const (
	Entrata MovementKind = "entrata" // cash in
	Uscita  MovementKind = "uscita"  // cash out
)

// coerceMovementKind maps any stored value to a valid kind, defaulting to entrata.
func coerceMovementKind(s string) MovementKind {
	if s == string(Uscita) {
		return Uscita
	}
	return Entrata
}

// CounterpartKind classifies the counterpart of a movement.
type CounterpartKind string

const (
	Cliente   CounterpartKind = "cliente"
	Fornitore CounterpartKind = "fornitore"
	Altro     CounterpartKind = "altro"
)

func coerceCounterpartKind(s string) CounterpartKind {
	if s == string(Fornitore) || s == string(Altro) {
		return CounterpartKind(s)
	}
	return Cliente
}

// JobState is the lifecycle state of a job.
type JobState string

const (
	JobAperto   JobState = "aperto"
	JobChiuso   JobState = "chiuso"
	JobArchived JobState = "archived"
)

func coerceJobState(s string) JobState {
	switch JobState(s) {
	case JobChiuso, JobArchived:
		return JobState(s)
	default:
		return JobAperto
	}
}

// LineKind classifies a job line.
type LineKind string

const (
	Materiale   LineKind = "materiale"
	Lavorazione LineKind = "lavorazione"
)

func coerceLineKind(s string) LineKind {
	if s == string(Lavorazione) {
		return Lavorazione
	}
	return Materiale
}

// QuoteStatus is the state of the quote editing state machine.
type QuoteStatus string

const (
	QuoteDraft  QuoteStatus = "draft"
	QuoteLocked QuoteStatus = "locked"
)

// Movement is a single recorded cash inflow or outflow. The sign of the flow
// comes from Tipo, never from a negative amount.
type Movement struct {
	ID              string
	Date            time.Time
	Desc            string
	Commessa        string
	Importo         Money
	Tipo            MovementKind
	ControparteTipo CounterpartKind
	ControparteNome string
}

func (m Movement) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", m.ID)
	w.Append("dateISO", isoTime(m.Date))
	w.Append("desc", m.Desc)
	w.Append("commessa", m.Commessa)
	w.Append("importo", m.Importo)
	w.Append("tipo", m.Tipo)
	w.Append("controparteTipo", m.ControparteTipo)
	w.Append("controparteNome", m.ControparteNome)
	return w.MarshalJSON()
}

// Job is a unit of client work with an agreed total, tracked to completion
// via payments. It holds no back-references; payments and lines are always
// found by scanning their collections.
type Job struct {
	ID          string
	Titolo      string
	Commessa    string
	Cliente     string
	AgreedTotal Money
	Stato       JobState
	Note        string
	Created     time.Time
}

func (j Job) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", j.ID)
	w.Append("titolo", j.Titolo)
	w.Append("commessa", j.Commessa)
	w.Append("cliente", j.Cliente)
	w.Append("agreedTotal", j.AgreedTotal)
	w.Append("stato", j.Stato)
	w.Append("note", j.Note)
	w.Append("createdISO", isoTime(j.Created))
	return w.MarshalJSON()
}

// JobPayment records cash received against a job. Never edited after
// creation; removed only by the job cascade.
type JobPayment struct {
	ID     string
	JobID  string
	Date   time.Time
	Amount Money
	Method string
	Note   string
}

func (p JobPayment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("jobId", p.JobID)
	w.Append("dateISO", isoTime(p.Date))
	w.Append("amount", p.Amount)
	w.Append("method", p.Method)
	w.Append("note", p.Note)
	return w.MarshalJSON()
}

// JobLine is an independent costing record attached to a job. It does not
// affect the job's paid/due figures.
type JobLine struct {
	ID        string
	JobID     string
	Kind      LineKind
	Desc      string
	Qty       Quantity
	Unit      string
	UnitPrice Money
	Note      string
	Done      bool
	Created   time.Time
}

func (l JobLine) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", l.ID)
	w.Append("jobId", l.JobID)
	w.Append("kind", l.Kind)
	w.Append("desc", l.Desc)
	w.Append("qty", l.Qty)
	w.Append("unit", l.Unit)
	w.Append("unitPrice", l.UnitPrice)
	w.Append("note", l.Note)
	w.Append("done", l.Done)
	w.Append("createdISO", isoTime(l.Created))
	return w.MarshalJSON()
}

// PurchaseLine is one purchased product entry. It is associated to a job only
// indirectly, by case-insensitive commessa match (see PurchasesByCommessa).
type PurchaseLine struct {
	ID        string
	Date      time.Time
	Fornitore string
	Prodotto  string
	Qty       Quantity
	UnitPrice Money
	Commessa  string
	Note      string
}

func (p PurchaseLine) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("dateISO", isoTime(p.Date))
	w.Append("fornitore", p.Fornitore)
	w.Append("prodotto", p.Prodotto)
	w.Append("qty", p.Qty)
	w.Append("unitPrice", p.UnitPrice)
	w.Append("commessa", p.Commessa)
	w.Append("note", p.Note)
	return w.MarshalJSON()
}

// QuoteLine is a priced line embedded in a quote. It has no independent
// identity; lines are addressed by index within their quote.
type QuoteLine struct {
	Desc      string
	Qty       Quantity
	UnitPrice Money
	Sconto    Quantity // discount, percent points
	Iva       Quantity // VAT, percent points
}

func (l QuoteLine) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("desc", l.Desc)
	w.Append("qty", l.Qty)
	w.Append("unitPrice", l.UnitPrice)
	w.Append("sconto", l.Sconto)
	w.Append("iva", l.Iva)
	return w.MarshalJSON()
}

// QuoteTotals is the derived cache of a quote's totals, recomputed on every
// line mutation and on load, never hand-edited.
type QuoteTotals struct {
	Taxable Money `json:"taxable"`
	Vat     Money `json:"vat"`
	Total   Money `json:"total"`
}

// Quote is a draft/locked estimate document, convertible into a Job.
type Quote struct {
	ID       string
	Number   int
	Date     time.Time
	Cliente  string
	Commessa string
	Status   QuoteStatus
	Notes    string
	JobID    string // id of the job this quote was confirmed into, empty until confirmed
	Righe    []QuoteLine
	Totals   QuoteTotals
}

func (q Quote) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", q.ID)
	w.Append("number", q.Number)
	w.Append("dateISO", isoTime(q.Date))
	w.Append("cliente", q.Cliente)
	w.Append("commessa", q.Commessa)
	w.Append("status", q.Status)
	w.Append("notes", q.Notes)
	w.Optional("jobId", q.JobID)
	righe := q.Righe
	if righe == nil {
		righe = []QuoteLine{}
	}
	w.Append("righe", righe)
	w.Append("totals", q.Totals)
	return w.MarshalJSON()
}

// newID returns a fresh record identifier.
func newID() string { return uuid.NewString() }

// isoTime renders a timestamp in the blob's ISO format.
func isoTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// trimmed is the canonical free-text coercion: surrounding space removed.
func trimmed(s string) string { return strings.TrimSpace(s) }

// CanonicalCommessa normalizes a project code to its canonical uppercased form.
func CanonicalCommessa(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
