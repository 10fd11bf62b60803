package storage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"cliphist/pkg/types"
)

// HistoryFileName is the fixed name of the history file in the data dir.
const HistoryFileName = "clipboard_history"

// record is the wire form of one entry. Timestamps are stored as seconds
// since epoch, so round-trips preserve them at second granularity.
type record struct {
	Text     string `json:"text"`
	Datetime int64  `json:"datetime"`
}

// JSONFile stores the history as a JSON array of records in the data
// directory, most recent first. The persisted order is the history order at
// save time and loading reproduces it exactly.
type JSONFile struct {
	dir string
}

// NewJSONFile creates a bridge writing to dir. The directory may not exist
// yet; Save creates it.
func NewJSONFile(dir string) *JSONFile {
	return &JSONFile{dir: dir}
}

func (j *JSONFile) path() string {
	return filepath.Join(j.dir, HistoryFileName)
}

// Load implements Bridge. A missing or unparseable file is an empty history.
func (j *JSONFile) Load() []types.Entry {
	data, err := os.ReadFile(j.path())
	if err != nil {
		log.Printf("No clipboard history read from %s: %v", j.path(), err)
		return nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Failed parsing clipboard history %s: %v", j.path(), err)
		return nil
	}

	entries := make([]types.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, types.Entry{
			Text:       r.Text,
			CapturedAt: time.Unix(r.Datetime, 0),
		})
	}
	return entries
}

// Save implements Bridge.
func (j *JSONFile) Save(entries []types.Entry) {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		records = append(records, record{Text: e.Text, Datetime: e.CapturedAt.Unix()})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Printf("Failed encoding clipboard history: %v", err)
		return
	}

	if err := os.MkdirAll(j.dir, 0755); err != nil {
		log.Printf("Failed creating data dir %s: %v", j.dir, err)
		return
	}
	if err := os.WriteFile(j.path(), data, 0644); err != nil {
		log.Printf("Failed writing clipboard history %s: %v", j.path(), err)
		return
	}
	log.Printf("Wrote %d history entries to %s", len(records), j.path())
}
