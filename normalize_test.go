package bizmanager

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDecodeStoreUnparseable(t *testing.T) {
	s, discards := DecodeStore([]byte("{not json"))
	if s.CompanyName != defaultCompanyName || s.QuoteCounter != 1 {
		t.Errorf("fallback store = %+v, want defaults", s)
	}
	if len(discards) != 1 || discards[0].Collection != "document" {
		t.Errorf("discards = %+v, want one document-level entry", discards)
	}
}

func TestDecodeStoreDropRules(t *testing.T) {
	blob := `{
		"version": 2,
		"companyName": "  Impresa Verdi  ",
		"saldoIniziale": "150.5",
		"movimenti": [
			{"id": 12, "desc": "incasso", "importo": 100, "tipo": "entrata"},
			{"id": "m2", "desc": "   ", "importo": 10, "tipo": "uscita"},
			{"id": "m3", "desc": "storno", "importo": -5, "tipo": "uscita"}
		],
		"jobs": [
			{"id": "j1", "titolo": "Bagno", "cliente": "Rossi", "agreedTotal": 1000, "stato": "aperto"},
			{"id": "j2", "titolo": "", "cliente": "Verdi"}
		],
		"jobPayments": [
			{"id": "p1", "jobId": "j1", "amount": 100},
			{"id": "p2", "jobId": "", "amount": 100},
			{"id": "p3", "jobId": "j1", "amount": 0}
		],
		"jobLines": [
			{"id": "l1", "jobId": "j1", "desc": "piastrelle", "qty": 0},
			{"id": "l2", "jobId": "j1", "desc": ""}
		],
		"purchaseLines": [
			{"id": "a1", "fornitore": "Edil", "prodotto": "Sabbia", "qty": 0},
			{"id": "a2", "fornitore": "", "prodotto": "Sabbia"}
		]
	}`
	s, discards := DecodeStore([]byte(blob))

	if s.CompanyName != "Impresa Verdi" {
		t.Errorf("companyName = %q", s.CompanyName)
	}
	if !s.SaldoIniziale.Equal(M(150.5)) {
		t.Errorf("saldoIniziale = %s, want 150.50", s.SaldoIniziale)
	}

	if len(s.Movimenti) != 1 || s.Movimenti[0].Desc != "incasso" {
		t.Errorf("movimenti = %+v, want only the valid one", s.Movimenti)
	}
	// Legacy numeric ids come through as their decimal string.
	if s.Movimenti[0].ID != "12" {
		t.Errorf("id = %q, want coerced numeric id", s.Movimenti[0].ID)
	}

	if len(s.Jobs) != 1 || s.Jobs[0].ID != "j1" {
		t.Errorf("jobs = %+v", s.Jobs)
	}
	if len(s.JobPayments) != 1 || s.JobPayments[0].ID != "p1" {
		t.Errorf("jobPayments = %+v", s.JobPayments)
	}
	if s.JobPayments[0].Method != "bonifico" {
		t.Errorf("method = %q, want default", s.JobPayments[0].Method)
	}
	if len(s.JobLines) != 1 || !s.JobLines[0].Qty.Equal(Q(1)) {
		t.Errorf("jobLines = %+v, want one line with fallback qty", s.JobLines)
	}
	if len(s.PurchaseLines) != 1 || !s.PurchaseLines[0].Qty.Equal(Q(1)) {
		t.Errorf("purchaseLines = %+v", s.PurchaseLines)
	}

	wantDrops := map[string]int{"movimenti": 2, "jobs": 1, "jobPayments": 2, "jobLines": 1, "purchaseLines": 1}
	got := map[string]int{}
	for _, d := range discards {
		got[d.Collection]++
	}
	for coll, n := range wantDrops {
		if got[coll] != n {
			t.Errorf("discards[%s] = %d, want %d (all: %+v)", coll, got[coll], n, discards)
		}
	}
}

func TestDecodeStoreLegacyQuotes(t *testing.T) {
	blob := `{
		"quoteCounter": 2,
		"quotes": [
			{"id": "q1", "number": 1, "cliente": "Rossi", "commessa": "bagno-01",
			 "stato": "confermato", "note": "vecchio formato", "createdISO": "2024-06-01",
			 "righe": [{"desc": "posa", "qty": 0, "unitPrice": 100, "iva": 0}],
			 "totals": {"taxable": 999, "vat": 999, "total": 999}},
			{"id": "q2", "number": 5, "cliente": "Verdi", "commessa": "tetto-02", "status": "draft"},
			{"id": "q3", "number": 3, "cliente": "", "commessa": "x"}
		],
		"selectedQuoteId": "q3"
	}`
	s, discards := DecodeStore([]byte(blob))

	if len(s.Quotes) != 2 {
		t.Fatalf("quotes = %d, want 2 (q3 dropped)", len(s.Quotes))
	}
	q1 := s.Quote("q1")
	if q1.Status != QuoteLocked {
		t.Errorf("legacy confermato status = %q, want locked", q1.Status)
	}
	if q1.Notes != "vecchio formato" {
		t.Errorf("legacy note = %q", q1.Notes)
	}
	if q1.Date.Year() != 2024 {
		t.Errorf("legacy createdISO not honored: %v", q1.Date)
	}
	if q1.Commessa != "BAGNO-01" {
		t.Errorf("commessa = %q, want uppercased", q1.Commessa)
	}

	// Riga defaults: qty 0 -> 1, iva 0 -> 22. Stored totals are ignored and
	// recomputed: 100 taxable + 22 vat.
	r := q1.Righe[0]
	if !r.Qty.Equal(Q(1)) || !r.Iva.Equal(Q(22)) {
		t.Errorf("riga = %+v", r)
	}
	if !q1.Totals.Total.Equal(M(122.0)) {
		t.Errorf("recomputed total = %s, want 122.00", q1.Totals.Total)
	}

	// Counter moves past the highest surviving number, not just the stored value.
	if s.QuoteCounter != 6 {
		t.Errorf("quoteCounter = %d, want 6", s.QuoteCounter)
	}

	// The dangling selection is re-pointed at the first quote.
	if s.SelectedQuoteID != "q1" {
		t.Errorf("selectedQuoteId = %q, want q1", s.SelectedQuoteID)
	}

	if len(discards) != 1 || discards[0].ID != "q3" {
		t.Errorf("discards = %+v, want only q3", discards)
	}
}

func TestDecodeStoreFixedPoint(t *testing.T) {
	messy := `{
		"companyName": "Impresa Verdi",
		"saldoIniziale": "99.9",
		"quoteCounter": 1,
		"movimenti": [{"id": 7, "dateISO": "2025-02-03T10:00:00.123Z", "desc": "incasso", "importo": 12.345, "tipo": "entrata"}],
		"anagrafiche": {"clienti": ["Rossi", "Bianchi", "Rossi"]},
		"jobs": [{"id": "j1", "titolo": "Bagno", "cliente": "Rossi", "agreedTotal": 1000, "createdISO": "2025-01-01T00:00:00Z"}],
		"quotes": [{"id": "q1", "number": 1, "dateISO": "2025-01-10T00:00:00Z", "cliente": "Rossi", "commessa": "bagno-01",
			"righe": [{"desc": "posa", "qty": 3, "unitPrice": 10, "sconto": 10, "iva": 22}]}]
	}`
	first, _ := DecodeStore([]byte(messy))

	// Millisecond dates are truncated on the way in; the blob format carries
	// whole seconds, so the re-encoded date must parse back to the same instant.
	want := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	if !first.Movimenti[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", first.Movimenti[0].Date, want)
	}

	var enc1 bytes.Buffer
	if err := EncodeStore(&enc1, first); err != nil {
		t.Fatalf("EncodeStore: %v", err)
	}

	second, discards := DecodeStore(enc1.Bytes())
	if len(discards) != 0 {
		t.Fatalf("normalizing canonical output discarded records: %+v", discards)
	}
	var enc2 bytes.Buffer
	if err := EncodeStore(&enc2, second); err != nil {
		t.Fatalf("EncodeStore: %v", err)
	}

	if !bytes.Equal(enc1.Bytes(), enc2.Bytes()) {
		t.Errorf("normalization is not a fixed point:\nfirst:  %s\nsecond: %s", enc1.Bytes(), enc2.Bytes())
	}
	if !strings.Contains(enc1.String(), `"importo":12.345`) {
		t.Errorf("amounts must round-trip exactly, got %s", enc1.String())
	}
}

func TestDecodeStoreEmptyDocument(t *testing.T) {
	s, discards := DecodeStore([]byte("{}"))
	if len(discards) != 0 {
		t.Errorf("discards = %+v, want none", discards)
	}
	if s.CompanyName != defaultCompanyName || s.QuoteCounter != 1 || len(s.Movimenti) != 0 {
		t.Errorf("store = %+v, want defaults", s)
	}
}
