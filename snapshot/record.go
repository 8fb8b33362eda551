package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrCorrupt = errors.New("snapshot: corrupt document")

// Record is one operator-captured controller state. Records are never
// modified after they are appended.
type Record struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	EffectType string `json:"effectType"`
	Payload    string `json:"payload"`
	SavedAt    string `json:"savedAt"`
}

type document struct {
	Presets []Record `json:"presets"`
}

// rawRecord accepts the older "jsonData" spelling of the payload field
type rawRecord struct {
	ID         string  `json:"id"`
	Name       *string `json:"name"`
	EffectType *string `json:"effectType"`
	Payload    *string `json:"payload"`
	JSONData   *string `json:"jsonData"`
	SavedAt    string  `json:"savedAt"`
}

// Encode renders records in save order
func Encode(records []Record) ([]byte, error) {
	doc := document{Presets: records}
	if doc.Presets == nil {
		doc.Presets = []Record{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a document, keeping every record it can. An unreadable top
// level yields no records and ErrCorrupt; individual bad records are skipped
// and reported in skipped.
func Decode(data []byte) (records []Record, skipped []error, err error) {
	var top struct {
		Presets []json.RawMessage `json:"presets"`
	}
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	for i, raw := range top.Presets {
		rec, err := decodeRecord(raw)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func decodeRecord(raw json.RawMessage) (Record, error) {
	var r rawRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, err
	}
	if r.Name == nil {
		return Record{}, errors.New("missing name")
	}
	if r.EffectType == nil || *r.EffectType == "" {
		return Record{}, errors.New("missing effectType")
	}

	payload := r.Payload
	if payload == nil {
		payload = r.JSONData
	}
	if payload == nil {
		return Record{}, errors.New("missing payload")
	}

	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}

	return Record{
		ID:         id,
		Name:       *r.Name,
		EffectType: *r.EffectType,
		Payload:    *payload,
		SavedAt:    r.SavedAt,
	}, nil
}
