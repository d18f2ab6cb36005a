package bizmanager

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// this file handles the backup import/export envelope. It must stay a single
// human-readable file that older exports still satisfy.

// ErrBadFormat is returned when an imported document is not a backup.
var ErrBadFormat = errors.New("not a BizManager backup: missing state")

const exportApp = "BizManagerPro"

// Export writes the backup envelope for a store: the export timestamp, the
// producing app marker, and the full state.
func Export(w io.Writer, s *Store) error {
	var env jsonObjectWriter
	env.Append("exportedAt", isoTime(time.Now()))
	env.Append("app", exportApp)
	env.Append("state", s)
	data, err := env.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not build backup: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return fmt.Errorf("could not format backup: %w", err)
	}
	pretty.WriteByte('\n')
	if _, err := io.Copy(w, &pretty); err != nil {
		return fmt.Errorf("could not write backup: %w", err)
	}
	return nil
}

// Import parses a backup envelope and normalizes its state. The check is
// all-or-nothing: a document without a state key fails with ErrBadFormat
// before anything is written, and a valid one goes through the same
// validation and drop rules as a regular load.
func Import(data []byte) (*Store, []Discard, error) {
	var envelope struct {
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(envelope.State) == 0 || bytes.Equal(bytes.TrimSpace(envelope.State), []byte("null")) {
		return nil, nil, ErrBadFormat
	}
	s, discards := DecodeStore(envelope.State)
	return s, discards, nil
}
