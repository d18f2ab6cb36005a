package bizmanager

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore(dir)

	if _, ok := st.Get("missing"); ok {
		t.Error("Get on empty dir returned ok")
	}

	st.Set("k", "v1")
	st.Set("k", "v2")
	if got, ok := st.Get("k"); !ok || got != "v2" {
		t.Errorf("Get = %q/%v, want v2", got, ok)
	}

	// A second store over the same directory sees the data.
	if got, ok := NewFileStore(dir).Get("k"); !ok || got != "v2" {
		t.Errorf("fresh store Get = %q/%v, want v2", got, ok)
	}

	st.Remove("k")
	if _, ok := st.Get("k"); ok {
		t.Error("Get after Remove returned ok")
	}
	st.Remove("k") // removing twice is harmless

	if st.Degraded() {
		t.Error("healthy store reports degraded")
	}
}

func TestFileStoreDegrades(t *testing.T) {
	// Point the store's directory at a regular file so MkdirAll fails.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	st := NewFileStore(blocked)
	st.Set("k", "v")

	if !st.Degraded() {
		t.Fatal("store did not degrade on write failure")
	}
	// The write survives in memory for the rest of the session.
	if got, ok := st.Get("k"); !ok || got != "v" {
		t.Errorf("Get after degradation = %q/%v, want v", got, ok)
	}
	st.Set("k2", "v2")
	if got, ok := st.Get("k2"); !ok || got != "v2" {
		t.Errorf("Get = %q/%v, want v2", got, ok)
	}
}

func TestSaveLoadStore(t *testing.T) {
	st := NewMemStore()

	s, discards := LoadStore(st)
	if len(discards) != 0 || s.CompanyName != defaultCompanyName {
		t.Fatalf("fresh load = %+v / %+v, want defaults", s, discards)
	}

	job, err := s.CreateJob("Bagno", "Rossi", "bagno-01", M(1000), "")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if _, err := s.CreateJobPayment(job.ID, M(400), "bonifico", ""); err != nil {
		t.Fatalf("CreateJobPayment: %v", err)
	}
	if err := SaveStore(st, s); err != nil {
		t.Fatalf("SaveStore: %v", err)
	}

	loaded, discards := LoadStore(st)
	if len(discards) != 0 {
		t.Fatalf("reload discarded: %+v", discards)
	}
	if loaded.Job(job.ID) == nil {
		t.Fatal("job lost across save/load")
	}
	if got := loaded.JobDue(job.ID); !got.Equal(M(600)) {
		t.Errorf("due after reload = %s, want 600.00", got)
	}
	if got := loaded.Balance(); !got.Equal(M(400)) {
		t.Errorf("balance after reload = %s, want 400.00", got)
	}
}
