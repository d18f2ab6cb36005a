package bizmanager

import (
	"testing"
	"time"
)

func TestRecordMovementValidation(t *testing.T) {
	s := DefaultStore()

	if _, err := s.RecordMovement(Movement{Desc: "  ", Importo: M(10), Tipo: Entrata}); err == nil {
		t.Error("blank description accepted")
	}
	if _, err := s.RecordMovement(Movement{Desc: "storno", Importo: M(-10), Tipo: Uscita}); err == nil {
		t.Error("negative amount accepted")
	}
	if len(s.Movimenti) != 0 {
		t.Errorf("rejected movements were stored: %d", len(s.Movimenti))
	}

	m, err := s.RecordMovement(Movement{Desc: "Acquisto piastrelle", Commessa: "bagno-01", Importo: M(150), Tipo: Uscita, ControparteTipo: Fornitore, ControparteNome: "Edil Casa"})
	if err != nil {
		t.Fatalf("RecordMovement: %v", err)
	}
	if m.ID == "" || m.Date.IsZero() {
		t.Errorf("id/date not filled in: %+v", m)
	}
	if m.Commessa != "BAGNO-01" {
		t.Errorf("commessa = %q, want uppercased", m.Commessa)
	}
	if got := s.Anagrafiche.Fornitori; len(got) != 1 || got[0] != "Edil Casa" {
		t.Errorf("fornitori = %v", got)
	}
}

func TestBalance(t *testing.T) {
	s := DefaultStore()
	s.SetInitialBalance(M(1000))

	ins := []Movement{
		{Desc: "incasso a", Importo: M(250.50), Tipo: Entrata},
		{Desc: "spesa b", Importo: M(100.25), Tipo: Uscita},
		{Desc: "incasso c", Importo: M(49.75), Tipo: Entrata},
	}
	for _, m := range ins {
		if _, err := s.RecordMovement(m); err != nil {
			t.Fatalf("RecordMovement(%q): %v", m.Desc, err)
		}
	}

	// saldo = 1000 + 250.50 - 100.25 + 49.75
	if got := s.Balance(); !got.Equal(M(1200.0)) {
		t.Errorf("balance = %s, want 1200.00", got)
	}

	// The balance is derived, so reordering the journal cannot change it.
	s.Movimenti[0], s.Movimenti[2] = s.Movimenti[2], s.Movimenti[0]
	if got := s.Balance(); !got.Equal(M(1200.0)) {
		t.Errorf("balance after reorder = %s, want 1200.00", got)
	}
}

func TestTotali(t *testing.T) {
	movs := []Movement{
		{Importo: M(100), Tipo: Entrata},
		{Importo: M(30), Tipo: Uscita},
		{Importo: M(20), Tipo: Uscita},
	}
	got := Totali(movs)
	if !got.Entrate.Equal(M(100)) || !got.Uscite.Equal(M(50)) || !got.Margine.Equal(M(50)) {
		t.Errorf("totali = %s/%s/%s, want 100.00/50.00/50.00", got.Entrate, got.Uscite, got.Margine)
	}
}

func TestSortMovementsStable(t *testing.T) {
	s := DefaultStore()
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	s.Movimenti = []Movement{
		{ID: "c", Date: day(2), Desc: "c"},
		{ID: "a", Date: day(1), Desc: "a"},
		{ID: "b", Date: day(1), Desc: "b"},
	}
	s.SortMovements()
	got := []string{s.Movimenti[0].ID, s.Movimenti[1].ID, s.Movimenti[2].ID}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
