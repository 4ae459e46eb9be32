package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// HistoryRecord is one previously searched city. Records are never edited,
// only appended and removed.
type HistoryRecord struct {
	ID        string `json:"id"`
	City      string `json:"name"`
	Timestamp string `json:"timestamp,omitempty"`
}

// UnmarshalJSON also accepts the older layout that stored the city under
// "city" and used integer ids. A missing id decodes as "".
func (r *HistoryRecord) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID        json.RawMessage `json:"id"`
		Name      *string         `json:"name"`
		City      *string         `json:"city"`
		Timestamp string          `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}

	r.ID = id
	r.Timestamp = aux.Timestamp
	r.City = ""
	switch {
	case aux.Name != nil:
		r.City = *aux.Name
	case aux.City != nil:
		r.City = *aux.City
	}
	return nil
}

// CreatedAt parses the record timestamp. ok is false when it is absent or
// malformed.
func (r HistoryRecord) CreatedAt() (t time.Time, ok bool) {
	if r.Timestamp == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("history record id: %w", err)
	}
	return n.String(), nil
}
