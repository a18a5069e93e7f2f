package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

const lockTimeout = 5 * time.Second

// RunSummary describes one batch run.
type RunSummary struct {
	// ID is a generated unique run identifier.
	ID string `json:"id"`
	// ChannelID is the processed channel, or the video ID for
	// single-video runs.
	ChannelID string `json:"channel_id"`
	// Strategy is the acquisition strategy used.
	Strategy string `json:"strategy"`
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// New, Skipped, and Errors are the final batch counters.
	New     int `json:"new"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// RunRecord is the manifest entry for one processed video.
type RunRecord struct {
	// ID is a generated unique record identifier.
	ID string `json:"id"`
	// RunID links the record to its run.
	RunID string `json:"run_id"`
	// VideoID is the processed video.
	VideoID string `json:"video_id"`
	// Title is the video title.
	Title string `json:"title"`
	// File is the derived artifact name.
	File string `json:"file"`
	// Status is "saved", "skipped", or "failed".
	Status string `json:"status"`
	// Detail carries the failure reason for failed records.
	Detail string `json:"detail,omitempty"`
	// RetrievedAt is when the outcome was produced.
	RetrievedAt time.Time `json:"retrieved_at"`
}

// manifest is the on-disk document.
type manifest struct {
	Runs    []RunSummary `json:"runs"`
	Records []RunRecord  `json:"records"`
}

// ManifestStore persists run summaries and per-video records in a
// single JSON file, written atomically under an advisory lock.
type ManifestStore struct {
	path string
}

// NewManifestStore creates a store backed by the JSON file at path.
// The file is created on first write.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

// AppendRun records one run and its per-video records. Missing IDs are
// generated. Returns the summary with its assigned ID.
func (s *ManifestStore) AppendRun(summary RunSummary, records []RunRecord) (RunSummary, error) {
	lock := NewFileLock(s.path)
	if err := lock.Lock(lockTimeout); err != nil {
		return RunSummary{}, err
	}
	defer lock.Unlock()

	m, err := s.load()
	if err != nil {
		return RunSummary{}, err
	}

	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		records[i].RunID = summary.ID
	}

	m.Runs = append(m.Runs, summary)
	m.Records = append(m.Records, records...)

	if err := s.save(m); err != nil {
		return RunSummary{}, err
	}
	return summary, nil
}

// Runs returns all recorded run summaries, oldest first.
func (s *ManifestStore) Runs() ([]RunSummary, error) {
	m, err := s.load()
	if err != nil {
		return nil, err
	}
	return m.Runs, nil
}

// Records returns the per-video records of one run.
// Returns ErrNotFound when the run is unknown.
func (s *ManifestStore) Records(runID string) ([]RunRecord, error) {
	m, err := s.load()
	if err != nil {
		return nil, err
	}

	known := false
	for _, run := range m.Runs {
		if run.ID == runID {
			known = true
			break
		}
	}
	if !known {
		return nil, &StorageError{Op: "load", Entity: "run", ID: runID, Err: ErrNotFound}
	}

	var records []RunRecord
	for _, r := range m.Records {
		if r.RunID == runID {
			records = append(records, r)
		}
	}
	return records, nil
}

// load reads the manifest. A missing file yields an empty manifest.
func (s *ManifestStore) load() (*manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &manifest{}, nil
		}
		return nil, &StorageError{Op: "load", Entity: "manifest", ID: s.path, Err: err}
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &StorageError{Op: "load", Entity: "manifest", ID: s.path,
			Err: fmt.Errorf("%w: %v", ErrStorageCorrupt, err)}
	}
	return &m, nil
}

// save writes the manifest atomically.
func (s *ManifestStore) save(m *manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Entity: "manifest", ID: s.path, Err: err}
	}

	w, err := NewAtomicWriter(s.path)
	if err != nil {
		return &StorageError{Op: "save", Entity: "manifest", ID: s.path, Err: err}
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		return &StorageError{Op: "save", Entity: "manifest", ID: s.path, Err: err}
	}
	if err := w.Commit(); err != nil {
		return &StorageError{Op: "save", Entity: "manifest", ID: s.path, Err: err}
	}
	return nil
}
