package bizmanager

import (
	"errors"
	"testing"
)

func TestDeleteJobCascade(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(1000))
	other, err := s.CreateJob("Altro cantiere", "Luigi Verdi", "tetto-02", M(500), "")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if _, err := s.CreateJobPayment(job.ID, M(300), "bonifico", ""); err != nil {
		t.Fatalf("CreateJobPayment: %v", err)
	}
	if _, err := s.CreateJobLine(job.ID, Materiale, "piastrelle", Q(10), "mq", M(25), ""); err != nil {
		t.Fatalf("CreateJobLine: %v", err)
	}
	if _, err := s.CreateJobLine(other.ID, Materiale, "tegole", Q(100), "pz", M(2), ""); err != nil {
		t.Fatalf("CreateJobLine: %v", err)
	}
	if _, err := s.RecordPurchase(PurchaseLine{Fornitore: "Edil Casa", Prodotto: "Sabbia", Commessa: "bagno-01"}); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if _, err := s.RecordPurchase(PurchaseLine{Fornitore: "Edil Casa", Prodotto: "Tegole", Commessa: "tetto-02"}); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}

	impact, err := s.CascadePreview(job.ID)
	if err != nil {
		t.Fatalf("CascadePreview: %v", err)
	}
	if impact.Payments != 1 || impact.Lines != 1 || impact.Purchases != 1 {
		t.Errorf("preview = %+v, want 1/1/1", impact)
	}

	got, err := s.DeleteJobCascade(job.ID)
	if err != nil {
		t.Fatalf("DeleteJobCascade: %v", err)
	}
	if got != impact {
		t.Errorf("impact = %+v, want same as preview %+v", got, impact)
	}

	// Nothing dangling may survive, and nothing unrelated may go.
	if s.Job(job.ID) != nil {
		t.Error("job survived")
	}
	if n := len(s.PaymentsForJob(job.ID)); n != 0 {
		t.Errorf("dangling payments = %d", n)
	}
	if n := len(s.LinesForJob(job.ID)); n != 0 {
		t.Errorf("dangling lines = %d", n)
	}
	if n := len(s.PurchasesByCommessa("bagno-01")); n != 0 {
		t.Errorf("purchases left on the deleted commessa = %d", n)
	}
	if s.Job(other.ID) == nil || len(s.LinesForJob(other.ID)) != 1 || len(s.PurchasesByCommessa("tetto-02")) != 1 {
		t.Error("cascade reached records of an unrelated job")
	}

	// The synthesized cash movement stays; the money really moved.
	if len(s.Movimenti) != 1 {
		t.Errorf("movements = %d, want the payment trace kept", len(s.Movimenti))
	}

	if _, err := s.DeleteJobCascade("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreReset(t *testing.T) {
	s := DefaultStore()
	openJob(t, s, M(100))
	s.SetInitialBalance(M(50))
	if err := s.SetCompanyName("Impresa Verdi"); err != nil {
		t.Fatalf("SetCompanyName: %v", err)
	}

	s.Reset()

	if len(s.Jobs) != 0 || !s.SaldoIniziale.IsZero() {
		t.Errorf("reset left data behind: %+v", s)
	}
	if s.CompanyName != defaultCompanyName {
		t.Errorf("companyName = %q, want default", s.CompanyName)
	}
	if s.QuoteCounter != 1 {
		t.Errorf("quoteCounter = %d, want 1", s.QuoteCounter)
	}
}
