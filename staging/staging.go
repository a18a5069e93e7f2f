// Package staging uploads local audio artifacts to remote object
// storage for the duration of one cloud transcription call, and
// guarantees the remote copy is removed on every exit path.
package staging

import (
	"context"
	"log"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultObjectPrefix = "audio_transcription"
	objectStampLayout   = "20060102_150405"

	// cleanupTimeout bounds the deferred delete. Cleanup runs on a
	// background context so a canceled caller cannot skip it.
	cleanupTimeout = time.Minute
)

// ObjectStore is the remote storage collaborator. Delete must treat an
// absent object as a successful no-op, since a delete may race a
// failed upload.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, object string) error
	Delete(ctx context.Context, object string) error
	// URI returns the storage URI the recognizer consumes for object.
	URI(object string) string
}

// Recognizer is the long-running transcription collaborator. It returns
// the best-alternative transcript of each result segment, in result
// order, blocking until the remote operation resolves.
type Recognizer interface {
	Recognize(ctx context.Context, uri string) ([]string, error)
}

// StagingError wraps a failure in the stage-and-transcribe sequence.
type StagingError struct {
	// Op is the step that failed ("upload", "recognize").
	Op string
	// Object is the remote object name in use.
	Object string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the staging failure.
func (e *StagingError) Error() string {
	return "staging: " + e.Op + " " + e.Object + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StagingError) Unwrap() error { return e.Err }

// Stager owns the remote copy of one audio artifact for the duration of
// one transcription call.
type Stager struct {
	// Store is the remote object storage collaborator.
	Store ObjectStore
	// Recognizer is the long-running transcription collaborator.
	Recognizer Recognizer

	// Prefix namespaces staged objects. Defaults to "audio_transcription".
	Prefix string

	// now is replaceable for tests.
	now func() time.Time
}

// NewStager creates a staging adapter over the given collaborators.
func NewStager(store ObjectStore, rec Recognizer) *Stager {
	return &Stager{
		Store:      store,
		Recognizer: rec,
		Prefix:     defaultObjectPrefix,
		now:        time.Now,
	}
}

// StageAndTranscribe uploads the local audio file to a collision-safe
// remote object, runs the long-running transcription against it with
// no timeout, and returns the space-joined transcript. The remote
// object is deleted exactly once after the call resolves, whether it
// succeeded, failed, or was interrupted.
func (s *Stager) StageAndTranscribe(ctx context.Context, localPath string) (string, error) {
	object := s.objectName(localPath)

	// The delete is scoped to the whole call, not just the happy path:
	// a failed upload may still have left a partial object behind.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := s.Store.Delete(cleanupCtx, object); err != nil {
			log.Printf("staging: delete %s: %v", object, err)
		}
	}()

	if err := s.Store.Upload(ctx, localPath, object); err != nil {
		return "", &StagingError{Op: "upload", Object: object, Err: err}
	}
	log.Printf("staging: uploaded %s to %s", localPath, s.Store.URI(object))

	texts, err := s.Recognizer.Recognize(ctx, s.Store.URI(object))
	if err != nil {
		return "", &StagingError{Op: "recognize", Object: object, Err: err}
	}

	return strings.Join(texts, " "), nil
}

// objectName embeds a timestamp and the local file's base name so
// concurrent or repeated invocations cannot collide.
func (s *Stager) objectName(localPath string) string {
	now := s.now
	if now == nil {
		now = time.Now
	}
	stamp := now().Format(objectStampLayout)
	return path.Join(s.prefix(), stamp+"_"+filepath.Base(localPath))
}

func (s *Stager) prefix() string {
	if s.Prefix != "" {
		return s.Prefix
	}
	return defaultObjectPrefix
}
