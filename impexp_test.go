package bizmanager

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestExportEnvelope(t *testing.T) {
	s := DefaultStore()
	openJob(t, s, M(1000))

	var buf bytes.Buffer
	if err := Export(&buf, s); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	var app string
	if err := json.Unmarshal(env["app"], &app); err != nil || app != "BizManagerPro" {
		t.Errorf("app = %q (%v)", app, err)
	}
	if len(env["exportedAt"]) == 0 || len(env["state"]) == 0 {
		t.Errorf("envelope keys = %v", env)
	}
}

func TestImportRoundTrip(t *testing.T) {
	s := DefaultStore()
	job := openJob(t, s, M(1000))
	if _, err := s.CreateJobPayment(job.ID, M(250), "contanti", ""); err != nil {
		t.Fatalf("CreateJobPayment: %v", err)
	}

	var buf bytes.Buffer
	if err := Export(&buf, s); err != nil {
		t.Fatalf("Export: %v", err)
	}

	imported, discards, err := Import(buf.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(discards) != 0 {
		t.Errorf("importing our own export discarded records: %+v", discards)
	}
	if imported.Job(job.ID) == nil || !imported.JobDue(job.ID).Equal(M(750)) {
		t.Errorf("imported state diverged: due = %s", imported.JobDue(job.ID))
	}
}

func TestImportRejectsForeignDocuments(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "garbage"},
		{"no state key", `{"app": "BizManagerPro"}`},
		{"null state", `{"state": null}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := Import([]byte(c.data)); !errors.Is(err, ErrBadFormat) {
				t.Errorf("err = %v, want ErrBadFormat", err)
			}
		})
	}
}

func TestImportNormalizesState(t *testing.T) {
	// A valid envelope with a dirty state goes through the usual drop rules.
	doc := `{"exportedAt": "2025-01-01T00:00:00Z", "app": "BizManagerPro",
		"state": {"movimenti": [{"desc": "", "importo": 5}]}}`
	s, discards, err := Import([]byte(doc))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(s.Movimenti) != 0 || len(discards) != 1 {
		t.Errorf("movimenti = %d, discards = %+v", len(s.Movimenti), discards)
	}
}
