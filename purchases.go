package bizmanager

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RecordPurchase validates and appends a purchase line, and registers the
// supplier name.
func (s *Store) RecordPurchase(p PurchaseLine) (PurchaseLine, error) {
	p.Fornitore = trimmed(p.Fornitore)
	p.Prodotto = trimmed(p.Prodotto)
	p.Commessa = CanonicalCommessa(p.Commessa)
	p.Note = trimmed(p.Note)
	if p.Prodotto == "" {
		return PurchaseLine{}, fmt.Errorf("purchase needs a prodotto")
	}
	if p.Fornitore == "" {
		return PurchaseLine{}, fmt.Errorf("purchase needs a fornitore")
	}
	if p.Qty.IsZero() {
		p.Qty = Q(1)
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	s.PurchaseLines = append(s.PurchaseLines, p)
	s.Anagrafiche.UpsertFornitore(p.Fornitore)
	return p, nil
}

// PurchaseFilter selects purchase lines for the history view. Zero fields
// do not filter.
type PurchaseFilter struct {
	Prodotto  string // substring, matched case-insensitively on the uppercased key
	Fornitore string // substring, matched case-insensitively
	AnnoMin   int    // inclusive year lower bound
	AnnoMax   int    // inclusive year upper bound
}

// ProductHistory returns the matching purchase lines sorted by date, most
// recent first.
func (s *Store) ProductHistory(f PurchaseFilter) []PurchaseLine {
	prodotto := CanonicalCommessa(f.Prodotto)
	fornitore := strings.ToLower(trimmed(f.Fornitore))

	var out []PurchaseLine
	for _, l := range s.PurchaseLines {
		if prodotto != "" && !strings.Contains(strings.ToUpper(l.Prodotto), prodotto) {
			continue
		}
		if fornitore != "" && !strings.Contains(strings.ToLower(l.Fornitore), fornitore) {
			continue
		}
		if f.AnnoMin != 0 && l.Date.Year() < f.AnnoMin {
			continue
		}
		if f.AnnoMax != 0 && l.Date.Year() > f.AnnoMax {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// ProductStats aggregates price statistics over every line matching a
// product key. Last is the price of the most-recently-dated matching line,
// not the latest insert.
type ProductStats struct {
	Min   Money
	Avg   Money
	Max   Money
	Last  Money
	Qty   Quantity
	Count int
}

// ProductStatsFor computes purchase statistics for one product key.
func (s *Store) ProductStatsFor(prodotto string) ProductStats {
	lines := s.ProductHistory(PurchaseFilter{Prodotto: prodotto})
	if len(lines) == 0 {
		return ProductStats{}
	}

	stats := ProductStats{
		Min:   lines[0].UnitPrice,
		Max:   lines[0].UnitPrice,
		Last:  lines[0].UnitPrice, // history is sorted most recent first
		Count: len(lines),
	}
	var sum Money
	for _, l := range lines {
		if l.UnitPrice.LessThan(stats.Min) {
			stats.Min = l.UnitPrice
		}
		if l.UnitPrice.GreaterThan(stats.Max) {
			stats.Max = l.UnitPrice
		}
		sum = sum.Add(l.UnitPrice)
		stats.Qty = stats.Qty.Add(l.Qty)
	}
	stats.Min = stats.Min.RoundCents()
	stats.Max = stats.Max.RoundCents()
	stats.Last = stats.Last.RoundCents()
	stats.Avg = sum.Div(Q(len(lines))).RoundCents()
	return stats
}

// PurchasesByCommessa is the one definition of the soft join between
// purchases and jobs: case-insensitive equality on the project code. It is a
// heuristic, not a foreign key.
func (s *Store) PurchasesByCommessa(commessa string) []PurchaseLine {
	key := CanonicalCommessa(commessa)
	var out []PurchaseLine
	for _, l := range s.PurchaseLines {
		if CanonicalCommessa(l.Commessa) == key {
			out = append(out, l)
		}
	}
	return out
}
