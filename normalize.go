package bizmanager

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Discard is a diagnostic for a record dropped during normalization. The
// normalizer never fails; it reports what it could not keep instead.
type Discard struct {
	Collection string
	ID         string
	Reason     string
}

// DecodeStore validates and coerces a raw persisted blob into a well-typed
// Store. Every field is coerced to its expected type with a documented
// default; records failing a required-field predicate are dropped and
// reported. Quote totals are recomputed from the lines rather than trusted,
// and the quote counter is advanced past every existing number.
//
// A blob that does not parse at all yields the default store with a single
// document-level discard. DecodeStore is a stable fixed point: normalizing
// the canonical encoding of a normalized store changes nothing.
func DecodeStore(data []byte) (*Store, []Discard) {
	var discards []Discard

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return DefaultStore(), []Discard{{Collection: "document", Reason: "unparseable blob: " + err.Error()}}
	}

	now := time.Now()
	s := DefaultStore()

	if name := trimmed(asString(raw["companyName"])); name != "" {
		s.CompanyName = name
	}
	s.CompanyLogo = asString(raw["companyLogoDataUrl"])
	info := asMap(raw["companyInfo"])
	s.CompanyInfo = CompanyInfo{
		Address: trimmed(asString(info["address"])),
		Piva:    trimmed(asString(info["piva"])),
		Phone:   trimmed(asString(info["phone"])),
		Email:   trimmed(asString(info["email"])),
	}
	s.SaldoIniziale = Money{value: asDecimal(raw["saldoIniziale"], decimal.Zero)}
	s.LastSync = trimmed(asString(raw["lastSyncISO"]))

	for _, v := range asSlice(raw["movimenti"]) {
		m := asMap(v)
		mov := Movement{
			ID:              idOr(m["id"], newID),
			Date:            asTime(m["dateISO"], now),
			Desc:            trimmed(asString(m["desc"])),
			Commessa:        CanonicalCommessa(asString(m["commessa"])),
			Importo:         Money{value: asDecimal(m["importo"], decimal.Zero)},
			Tipo:            coerceMovementKind(asString(m["tipo"])),
			ControparteTipo: coerceCounterpartKind(asString(m["controparteTipo"])),
			ControparteNome: trimmed(asString(m["controparteNome"])),
		}
		switch {
		case mov.Desc == "":
			discards = append(discards, Discard{"movimenti", mov.ID, "missing desc"})
		case mov.Importo.IsNegative():
			discards = append(discards, Discard{"movimenti", mov.ID, "negative importo"})
		default:
			s.Movimenti = append(s.Movimenti, mov)
		}
	}

	s.Anagrafiche.Clienti = normalizeNames(asStrings(asMap(raw["anagrafiche"])["clienti"]))
	s.Anagrafiche.Fornitori = normalizeNames(asStrings(asMap(raw["anagrafiche"])["fornitori"]))

	for _, v := range asSlice(raw["jobs"]) {
		m := asMap(v)
		job := Job{
			ID:          idOr(m["id"], newID),
			Titolo:      trimmed(asString(m["titolo"])),
			Commessa:    CanonicalCommessa(asString(m["commessa"])),
			Cliente:     trimmed(asString(m["cliente"])),
			AgreedTotal: Money{value: asDecimal(m["agreedTotal"], decimal.Zero)},
			Stato:       coerceJobState(asString(m["stato"])),
			Note:        trimmed(asString(m["note"])),
			Created:     asTime(m["createdISO"], now),
		}
		if job.Titolo == "" || job.Cliente == "" {
			discards = append(discards, Discard{"jobs", job.ID, "missing titolo or cliente"})
			continue
		}
		s.Jobs = append(s.Jobs, job)
	}

	for _, v := range asSlice(raw["jobPayments"]) {
		m := asMap(v)
		p := JobPayment{
			ID:     idOr(m["id"], newID),
			JobID:  trimmed(asString(m["jobId"])),
			Date:   asTime(m["dateISO"], now),
			Amount: Money{value: asDecimal(m["amount"], decimal.Zero)},
			Method: orDefault(trimmed(asString(m["method"])), "bonifico"),
			Note:   trimmed(asString(m["note"])),
		}
		switch {
		case p.JobID == "":
			discards = append(discards, Discard{"jobPayments", p.ID, "missing jobId"})
		case !p.Amount.IsPositive():
			discards = append(discards, Discard{"jobPayments", p.ID, "non-positive amount"})
		default:
			s.JobPayments = append(s.JobPayments, p)
		}
	}

	for _, v := range asSlice(raw["jobLines"]) {
		m := asMap(v)
		l := JobLine{
			ID:        idOr(m["id"], newID),
			JobID:     trimmed(asString(m["jobId"])),
			Kind:      coerceLineKind(asString(m["kind"])),
			Desc:      trimmed(asString(m["desc"])),
			Qty:       Quantity{value: jsOr(asDecimal(m["qty"], decimal.Zero), decimal.NewFromInt(1))},
			Unit:      orDefault(trimmed(asString(m["unit"])), "pz"),
			UnitPrice: Money{value: asDecimal(m["unitPrice"], decimal.Zero)},
			Note:      trimmed(asString(m["note"])),
			Done:      asBool(m["done"]),
			Created:   asTime(m["createdISO"], now),
		}
		switch {
		case l.JobID == "":
			discards = append(discards, Discard{"jobLines", l.ID, "missing jobId"})
		case l.Desc == "":
			discards = append(discards, Discard{"jobLines", l.ID, "missing desc"})
		default:
			s.JobLines = append(s.JobLines, l)
		}
	}

	for _, v := range asSlice(raw["purchaseLines"]) {
		m := asMap(v)
		p := PurchaseLine{
			ID:        idOr(m["id"], newID),
			Date:      asTime(m["dateISO"], now),
			Fornitore: trimmed(asString(m["fornitore"])),
			Prodotto:  trimmed(asString(m["prodotto"])),
			Qty:       Quantity{value: jsOr(asDecimal(m["qty"], decimal.Zero), decimal.NewFromInt(1))},
			UnitPrice: Money{value: asDecimal(m["unitPrice"], decimal.Zero)},
			Commessa:  CanonicalCommessa(asString(m["commessa"])),
			Note:      trimmed(asString(m["note"])),
		}
		if p.Prodotto == "" || p.Fornitore == "" {
			discards = append(discards, Discard{"purchaseLines", p.ID, "missing prodotto or fornitore"})
			continue
		}
		s.PurchaseLines = append(s.PurchaseLines, p)
	}

	for _, v := range asSlice(raw["quotes"]) {
		m := asMap(v)
		q := Quote{
			ID:       idOr(m["id"], newID),
			Number:   asInt(m["number"]),
			Cliente:  trimmed(asString(m["cliente"])),
			Commessa: CanonicalCommessa(asString(m["commessa"])),
			Status:   QuoteDraft,
			Notes:    trimmed(asString(m["notes"])),
			JobID:    trimmed(asString(m["jobId"])),
		}
		// Legacy documents carried createdISO/note/stato=confermato.
		if d, ok := m["dateISO"]; ok {
			q.Date = asTime(d, now)
		} else {
			q.Date = asTime(m["createdISO"], now)
		}
		if q.Notes == "" {
			q.Notes = trimmed(asString(m["note"]))
		}
		if asString(m["status"]) == string(QuoteLocked) || asString(m["stato"]) == "confermato" {
			q.Status = QuoteLocked
		}
		for _, rv := range asSlice(m["righe"]) {
			rm := asMap(rv)
			q.Righe = append(q.Righe, QuoteLine{
				Desc:      trimmed(asString(rm["desc"])),
				Qty:       Quantity{value: jsOr(asDecimal(rm["qty"], decimal.Zero), decimal.NewFromInt(1))},
				UnitPrice: Money{value: asDecimal(rm["unitPrice"], decimal.Zero)},
				Sconto:    Quantity{value: asDecimal(rm["sconto"], decimal.Zero)},
				Iva:       Quantity{value: jsOr(asDecimal(rm["iva"], decimal.Zero), decimal.NewFromInt(22))},
			})
		}
		if q.Cliente == "" || q.Commessa == "" {
			discards = append(discards, Discard{"quotes", q.ID, "missing cliente or commessa"})
			continue
		}
		// Stored totals are a cache; recompute instead of trusting them.
		q.Totals = computeTotals(q.Righe)
		s.Quotes = append(s.Quotes, q)
	}

	// Advance the counter past every surviving number so future quotes stay unique.
	s.QuoteCounter = maxInt(asInt(raw["quoteCounter"]), 1)
	for _, q := range s.Quotes {
		if q.Number >= s.QuoteCounter {
			s.QuoteCounter = q.Number + 1
		}
	}

	// A dangling selection is re-pointed to the first quote, or cleared.
	s.SelectedQuoteID = trimmed(asString(raw["selectedQuoteId"]))
	if s.Quote(s.SelectedQuoteID) == nil {
		s.SelectedQuoteID = ""
		if len(s.Quotes) > 0 {
			s.SelectedQuoteID = s.Quotes[0].ID
		}
	}

	return s, discards
}

// asString coerces scalars to a string, the way the original blob reader did.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// asStrings keeps only the string members of a decoded array.
func asStrings(v any) []string {
	var out []string
	for _, e := range asSlice(v) {
		if s := asString(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asDecimal parses numbers and numeric strings, falling back on anything else.
func asDecimal(v any, fallback decimal.Decimal) decimal.Decimal {
	switch t := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(trimmed(t)); err == nil {
			return d
		}
	}
	return fallback
}

// jsOr mimics the original "value || default": zero falls back too.
func jsOr(d, fallback decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return fallback
	}
	return d
}

func asInt(v any) int {
	return int(asDecimal(v, decimal.Zero).IntPart())
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asTime parses the stored ISO timestamp, accepting date-only values, and
// falls back to the reference time when missing or unparseable. Fractional
// seconds are truncated here; the canonical blob carries whole seconds, so a
// re-encoded date must parse back to the same instant.
func asTime(v any, fallback time.Time) time.Time {
	s := trimmed(asString(v))
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second)
		}
	}
	return fallback
}

// idOr accepts legacy numeric ids as their decimal string form.
func idOr(v any, fresh func() string) string {
	if s := trimmed(asString(v)); s != "" {
		return s
	}
	return fresh()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
