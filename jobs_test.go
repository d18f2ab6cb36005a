package bizmanager

import (
	"errors"
	"testing"
)

func openJob(t *testing.T, s *Store, total Money) Job {
	t.Helper()
	job, err := s.CreateJob("Ristrutturazione bagno", "Mario Rossi", "bagno-01", total, "")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	return job
}

func TestCreateJobValidation(t *testing.T) {
	s := DefaultStore()
	cases := []struct {
		name    string
		titolo  string
		cliente string
		total   Money
	}{
		{"empty titolo", "", "Rossi", M(100)},
		{"empty cliente", "Lavoro", "", M(100)},
		{"zero total", "Lavoro", "Rossi", M(0)},
		{"negative total", "Lavoro", "Rossi", M(-5)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := s.CreateJob(c.titolo, c.cliente, "x", c.total, ""); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
	if len(s.Jobs) != 0 {
		t.Errorf("rejected jobs were stored: %d", len(s.Jobs))
	}
}

func TestJobDueAndAutoClose(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(1000))

	if got := s.JobDue(job.ID); !got.Equal(M(1000)) {
		t.Fatalf("due = %s, want 1000.00", got)
	}

	if _, err := s.CreateJobPayment(job.ID, M(400), "bonifico", ""); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if got := s.JobDue(job.ID); !got.Equal(M(600)) {
		t.Errorf("due after 400 = %s, want 600.00", got)
	}
	if got := s.Job(job.ID).Stato; got != JobAperto {
		t.Errorf("stato after partial payment = %q, want aperto", got)
	}

	// Overpayment clamps due at zero and closes the job.
	if _, err := s.CreateJobPayment(job.ID, M(700), "contanti", "saldo"); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if got := s.JobDue(job.ID); !got.IsZero() {
		t.Errorf("due after overpayment = %s, want 0", got)
	}
	if got := s.JobPaid(job.ID); !got.Equal(M(1100)) {
		t.Errorf("paid = %s, want 1100.00", got)
	}
	if got := s.Job(job.ID).Stato; got != JobChiuso {
		t.Errorf("stato = %q, want chiuso", got)
	}
}

func TestPaymentMovementPairing(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(500))

	ev, err := s.CreateJobPayment(job.ID, M(200), "bonifico", "acconto")
	if err != nil {
		t.Fatalf("CreateJobPayment: %v", err)
	}

	if len(s.Movimenti) != 1 {
		t.Fatalf("movements = %d, want exactly one per payment", len(s.Movimenti))
	}
	m := s.Movimenti[0]
	if m.ID != ev.Movement.ID {
		t.Errorf("stored movement id %q != event movement id %q", m.ID, ev.Movement.ID)
	}
	if m.Tipo != Entrata {
		t.Errorf("tipo = %q, want entrata", m.Tipo)
	}
	if !m.Importo.Equal(M(200)) {
		t.Errorf("importo = %s, want 200.00", m.Importo)
	}
	if m.Desc != "Incasso Ristrutturazione bagno" {
		t.Errorf("desc = %q", m.Desc)
	}
	if m.Commessa != "BAGNO-01" || m.ControparteNome != "Mario Rossi" || m.ControparteTipo != Cliente {
		t.Errorf("movement header = %+v", m)
	}
	if !m.Date.Equal(ev.Payment.Date) {
		t.Errorf("movement date %v != payment date %v", m.Date, ev.Payment.Date)
	}
	if !s.Balance().Equal(M(200)) {
		t.Errorf("balance = %s, want 200.00", s.Balance())
	}
}

func TestCreateJobPaymentErrors(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(500))

	if _, err := s.CreateJobPayment("missing", M(10), "bonifico", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown job err = %v, want ErrNotFound", err)
	}
	if _, err := s.CreateJobPayment(job.ID, M(0), "bonifico", ""); err == nil {
		t.Error("zero amount accepted")
	}
	if _, err := s.CreateJobPayment(job.ID, M(-10), "bonifico", ""); err == nil {
		t.Error("negative amount accepted")
	}
	if len(s.JobPayments) != 0 || len(s.Movimenti) != 0 {
		t.Error("rejected payments left records behind")
	}
}

func TestJobStateChanges(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(100))

	if err := s.UpdateJobNote(job.ID, "chiavi dal portiere"); err != nil {
		t.Fatalf("UpdateJobNote: %v", err)
	}
	if got := s.Job(job.ID).Note; got != "chiavi dal portiere" {
		t.Errorf("note = %q", got)
	}

	if err := s.ArchiveJob(job.ID); err != nil {
		t.Fatalf("ArchiveJob: %v", err)
	}
	if got := s.Job(job.ID).Stato; got != JobArchived {
		t.Errorf("stato = %q, want archived", got)
	}

	// Archival does not block payments; the auto-close rule only promotes
	// open jobs, so the archived state survives a full payment.
	if _, err := s.CreateJobPayment(job.ID, M(100), "bonifico", ""); err != nil {
		t.Fatalf("payment on archived job: %v", err)
	}
	if got := s.Job(job.ID).Stato; got != JobArchived {
		t.Errorf("stato after payment = %q, want archived", got)
	}

	if got := s.JobsByState(JobArchived); len(got) != 1 {
		t.Errorf("JobsByState(archived) = %d jobs", len(got))
	}
}
