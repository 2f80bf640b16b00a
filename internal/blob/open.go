package blob

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open picks a backend from a location URL:
//
//	/var/lib/linedb              local directory
//	s3://bucket/prefix           S3
//	minio://host:9000/bucket/p   MinIO (minios:// for TLS)
//	mem://                       in-memory
func Open(ctx context.Context, location string) (Store, error) {
	if !strings.Contains(location, "://") {
		return NewLocalStore(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid store location %q: %w", location, err)
	}

	switch u.Scheme {
	case "file":
		return NewLocalStore(u.Path), nil
	case "mem":
		return NewMemoryStore(), nil
	case "s3":
		return NewS3Store(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	case "minio", "minios":
		bucket, prefix, ok := splitBucketPath(u.Path)
		if !ok {
			return nil, fmt.Errorf("minio location %q needs a bucket", location)
		}
		return NewMinioStore(u.Host, bucket, prefix, u.Scheme == "minios")
	}
	return nil, fmt.Errorf("unknown store scheme %q", u.Scheme)
}

func splitBucketPath(p string) (bucket, prefix string, ok bool) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(p, "/")
	return bucket, prefix, true
}
