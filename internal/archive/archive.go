package archive

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"issuereel/internal/config"
	"issuereel/internal/logging"
)

// ObjectStore is the subset of the MinIO client used for archiving.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver copies finished run artifacts to S3-compatible storage.
type Archiver struct {
	store  ObjectStore
	bucket string
	prefix string
	logger *slog.Logger
}

// New builds an archiver backed by a MinIO client.
func New(cfg config.Archive, logger *slog.Logger) (*Archiver, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("archive endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive access_key and secret_key are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return NewWithStore(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// NewWithStore builds an archiver over an existing store.
func NewWithStore(store ObjectStore, bucket, prefix string, logger *slog.Logger) *Archiver {
	if bucket == "" {
		bucket = "issuereel"
	}
	return &Archiver{
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logging.NewComponentLogger(logger, "archive"),
	}
}

// ArchiveRun uploads files under <prefix>/<runID>/<basename>, creating the
// bucket when missing. Missing files are skipped. It returns the object keys
// written.
func (a *Archiver) ArchiveRun(ctx context.Context, runID string, files []string) ([]string, error) {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		a.logger.Info("archive bucket created", logging.String("bucket", a.bucket))
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		key := path.Join(a.prefix, runID, filepath.Base(file))
		info, err := a.store.FPutObject(ctx, a.bucket, key, file, minio.PutObjectOptions{ContentType: contentTypeFor(file)})
		if err != nil {
			return keys, fmt.Errorf("upload %s: %w", key, err)
		}
		a.logger.Debug("artifact archived",
			logging.String("key", key),
			logging.Int64("object_bytes", info.Size),
		)
		keys = append(keys, key)
	}
	a.logger.Info("run archived",
		logging.String("bucket", a.bucket),
		logging.Int("objects", len(keys)),
	)
	return keys, nil
}

func contentTypeFor(file string) string {
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".mp4":
		return "video/mp4"
	case ".json":
		return "application/json"
	default:
		if contentType := mime.TypeByExtension(ext); contentType != "" {
			return contentType
		}
		return "application/octet-stream"
	}
}
