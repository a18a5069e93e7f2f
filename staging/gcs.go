package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// GCSStore implements ObjectStore against a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a store over the named bucket using application
// default credentials.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

// Upload copies the local file to the named object.
func (g *GCSStore) Upload(ctx context.Context, localPath, object string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", object, err)
	}
	return nil
}

// Delete removes the named object. An already-absent object is a
// successful no-op.
func (g *GCSStore) Delete(ctx context.Context, object string) error {
	err := g.client.Bucket(g.bucket).Object(object).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", object, err)
	}
	return nil
}

// URI returns the gs:// URI for the named object.
func (g *GCSStore) URI(object string) string {
	return "gs://" + g.bucket + "/" + object
}

// Close releases the underlying client.
func (g *GCSStore) Close() error {
	return g.client.Close()
}
