package bizmanager

import (
	"errors"
	"testing"
)

func TestJobLineLifecycle(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(1000))

	if _, err := s.CreateJobLine("missing", Materiale, "piastrelle", Q(10), "mq", M(25), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown job err = %v, want ErrNotFound", err)
	}
	if _, err := s.CreateJobLine(job.ID, Materiale, "  ", Q(1), "", M(1), ""); err == nil {
		t.Error("blank description accepted")
	}

	line, err := s.CreateJobLine(job.ID, Materiale, "piastrelle", Q(0), "", M(25), "")
	if err != nil {
		t.Fatalf("CreateJobLine: %v", err)
	}
	if !line.Qty.Equal(Q(1)) {
		t.Errorf("qty = %s, want fallback 1", line.Qty)
	}
	if line.Unit != "pz" {
		t.Errorf("unit = %q, want fallback pz", line.Unit)
	}

	if err := s.ToggleJobLineDone(line.ID); err != nil {
		t.Fatalf("ToggleJobLineDone: %v", err)
	}
	if !s.JobLine(line.ID).Done {
		t.Error("done flag not set")
	}
	if err := s.ToggleJobLineDone(line.ID); err != nil {
		t.Fatalf("ToggleJobLineDone: %v", err)
	}
	if s.JobLine(line.ID).Done {
		t.Error("done flag not cleared")
	}

	if err := s.DeleteJobLine(line.ID); err != nil {
		t.Fatalf("DeleteJobLine: %v", err)
	}
	if err := s.DeleteJobLine(line.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestUpdateJobLine(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(1000))
	line, err := s.CreateJobLine(job.ID, Materiale, "piastrelle", Q(10), "mq", M(25), "")
	if err != nil {
		t.Fatalf("CreateJobLine: %v", err)
	}

	cases := []struct {
		field, value string
		check        func(l *JobLine) bool
	}{
		{"desc", " piastrelle 30x30 ", func(l *JobLine) bool { return l.Desc == "piastrelle 30x30" }},
		{"qty", "12,5", func(l *JobLine) bool { return l.Qty.Equal(Q(12.5)) }},
		{"qty", "abc", func(l *JobLine) bool { return l.Qty.Equal(Q(1)) }},
		{"unit", "", func(l *JobLine) bool { return l.Unit == "pz" }},
		{"unitPrice", "24,90", func(l *JobLine) bool { return l.UnitPrice.Equal(M(24.90)) }},
		{"kind", "lavorazione", func(l *JobLine) bool { return l.Kind == Lavorazione }},
		{"kind", "boh", func(l *JobLine) bool { return l.Kind == Materiale }},
		{"note", "ordinate", func(l *JobLine) bool { return l.Note == "ordinate" }},
		{"unknownField", "x", func(l *JobLine) bool { return l.Note == "ordinate" }},
	}
	for _, c := range cases {
		if err := s.UpdateJobLine(line.ID, c.field, c.value); err != nil {
			t.Fatalf("UpdateJobLine(%s=%q): %v", c.field, c.value, err)
		}
		if !c.check(s.JobLine(line.ID)) {
			t.Errorf("after %s=%q: %+v", c.field, c.value, *s.JobLine(line.ID))
		}
	}
}

func TestJobLinesCost(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(1000))

	adds := []struct {
		desc  string
		qty   Quantity
		price Money
	}{
		{"piastrelle", Q(10), M(25)},
		{"colla", Q(4), M(8.50)},
		{"sopralluogo", Q(1), M(0)}, // informational, no cost
	}
	for _, a := range adds {
		if _, err := s.CreateJobLine(job.ID, Materiale, a.desc, a.qty, "", a.price, ""); err != nil {
			t.Fatalf("CreateJobLine(%q): %v", a.desc, err)
		}
	}

	// 10*25 + 4*8.50 = 284
	if got := s.JobLinesCost(job.ID); !got.Equal(M(284.0)) {
		t.Errorf("cost = %s, want 284.00", got)
	}
	if got := s.LinesForJob(job.ID); len(got) != 3 {
		t.Errorf("lines = %d, want 3", len(got))
	}
}
