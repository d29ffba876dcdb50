package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archive keeps a copy of a downloaded document and returns where it went.
type Archive interface {
	Put(ctx context.Context, folder string, doc Result) (string, error)
}

// DirArchive writes documents under a local directory, one sub-directory
// per folder.
type DirArchive struct {
	Root string
}

func (a DirArchive) Put(_ context.Context, folder string, doc Result) (string, error) {
	if len(doc.Data) == 0 {
		return "", ErrEmptyDocument
	}
	dir := filepath.Join(a.Root, SanitizeFilename(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	target := filepath.Join(dir, filepath.Base(objectName(doc.Filename)))
	if err := os.WriteFile(target, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return target, nil
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchive uploads documents to an S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive connects to the object store and creates the bucket when
// it does not exist yet.
func NewMinioArchive(ctx context.Context, cfg MinioConfig) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

func (a *MinioArchive) Put(ctx context.Context, folder string, doc Result) (string, error) {
	if len(doc.Data) == 0 {
		return "", ErrEmptyDocument
	}
	key := path.Join(SanitizeFilename(folder), objectName(doc.Filename))
	contentType := doc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(doc.Data), int64(len(doc.Data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return a.bucket + "/" + key, nil
}

// objectName sanitizes a file name but keeps its extension.
func objectName(filename string) string {
	name := strings.TrimSpace(filename)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return SanitizeFilename(name)
	}
	return Filename(name, Format(SanitizeFilename(ext)))
}
