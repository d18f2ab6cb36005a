package bizmanager

import (
	"fmt"
	"sort"
	"time"
)

// RecordMovement validates and appends a cash movement. No derivation
// happens here; balances are always recomputed on demand.
func (s *Store) RecordMovement(m Movement) (Movement, error) {
	m.Desc = trimmed(m.Desc)
	m.Commessa = CanonicalCommessa(m.Commessa)
	m.ControparteNome = trimmed(m.ControparteNome)
	m.Tipo = coerceMovementKind(string(m.Tipo))
	m.ControparteTipo = coerceCounterpartKind(string(m.ControparteTipo))

	if m.Desc == "" {
		return Movement{}, fmt.Errorf("movement needs a description")
	}
	if m.Importo.IsNegative() {
		return Movement{}, fmt.Errorf("movement amount cannot be negative, the direction comes from tipo")
	}
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}

	s.Movimenti = append(s.Movimenti, m)
	switch m.ControparteTipo {
	case Cliente:
		s.Anagrafiche.UpsertCliente(m.ControparteNome)
	case Fornitore:
		s.Anagrafiche.UpsertFornitore(m.ControparteNome)
	}
	return m, nil
}

// Balance computes the current cash balance: initial balance plus every
// inflow minus every outflow. O(n) on purpose, recomputed on demand and
// never cached; at this data volume correctness beats speed.
func (s *Store) Balance() Money {
	balance := s.SaldoIniziale
	for _, m := range s.Movimenti {
		if m.Tipo == Entrata {
			balance = balance.Add(m.Importo)
		} else {
			balance = balance.Sub(m.Importo)
		}
	}
	return balance
}

// MovementTotals aggregates inflows, outflows and their margin.
type MovementTotals struct {
	Entrate Money
	Uscite  Money
	Margine Money
}

// Totali sums a set of movements by direction.
func Totali(movs []Movement) MovementTotals {
	var t MovementTotals
	for _, m := range movs {
		if m.Tipo == Entrata {
			t.Entrate = t.Entrate.Add(m.Importo)
		} else {
			t.Uscite = t.Uscite.Add(m.Importo)
		}
	}
	t.Margine = t.Entrate.Sub(t.Uscite)
	return t
}

// SortMovements orders the movements chronologically. The sort is stable so
// same-day movements keep their relative order. Called before persisting.
func (s *Store) SortMovements() {
	sort.SliceStable(s.Movimenti, func(i, j int) bool {
		return s.Movimenti[i].Date.Before(s.Movimenti[j].Date)
	})
}
