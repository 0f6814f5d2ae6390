package storage

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type gcs struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a Writer storing artifacts as objects in bucket. The caller
// owns client.
func NewGCS(client *storage.Client, bucket string) interfaces.Writer {
	return &gcs{client: client, bucket: bucket}
}

func (x *gcs) Put(ctx context.Context, path, contentType string, data []byte) error {
	w := x.client.Bucket(x.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", x.bucket), goerr.V("object", path))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close object writer", goerr.V("bucket", x.bucket), goerr.V("object", path))
	}

	ctxlog.From(ctx).Debug("Uploaded output",
		"bucket", x.bucket,
		"object", path,
		"content_type", contentType,
		"size_bytes", len(data),
	)
	return nil
}
