package blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs in a MinIO (or any S3-compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioStore connects to endpoint using the MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY environment variables.
func NewMinioStore(endpoint, bucket, prefix string, secure bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *MinioStore) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *MinioStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

func (s *MinioStore) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
