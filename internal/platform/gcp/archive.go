package gcp

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type ArchiveConfig struct {
	Bucket      string
	Prefix      string
	Credentials string
	Storage     ObjectStorageConfig
	// Timeout bounds a single upload.
	Timeout time.Duration
}

// Archive stores exported files in a GCS bucket under <prefix>/<yyyy>/<mm>/<dd>/.
type Archive struct {
	log     *logger.Logger
	client  *storage.Client
	bucket  string
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

func NewArchive(ctx context.Context, cfg ArchiveConfig, log *logger.Logger) (*Archive, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("missing EXPORT_GCS_BUCKET")
	}
	if err := ValidateObjectStorageConfig(cfg.Storage); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	a := &Archive{
		log:     log.With("service", "ExportArchive"),
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		timeout: timeout,
		now:     time.Now,
	}
	a.log.Info("Export archive initialized", "mode", cfg.Storage.Mode, "bucket", bucket, "prefix", a.prefix)
	return a, nil
}

func newStorageClient(ctx context.Context, cfg ArchiveConfig) (*storage.Client, error) {
	if cfg.Storage.IsEmulatorMode() {
		// the storage client reads the emulator host from the environment
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.Storage.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := ClientOptions(cfg.Credentials)
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

// ObjectKey is the object name used for a file archived at t.
func (a *Archive) ObjectKey(name string, t time.Time) string {
	day := t.UTC().Format("2006/01/02")
	base := path.Base(strings.TrimSpace(name))
	if a.prefix == "" {
		return day + "/" + base
	}
	return a.prefix + "/" + day + "/" + base
}

// Put uploads body and returns its gs:// location.
func (a *Archive) Put(ctx context.Context, name, contentType string, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	key := a.ObjectKey(name, a.now())
	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	loc := "gs://" + a.bucket + "/" + key
	a.log.Debug("Export archived", "location", loc, "bytes", len(body))
	return loc, nil
}

func (a *Archive) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}
