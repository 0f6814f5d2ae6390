package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type local struct {
	root string
}

// NewLocal creates a Writer storing artifacts under root
func NewLocal(root string) interfaces.Writer {
	return &local{root: root}
}

func (x *local) Put(ctx context.Context, path, contentType string, data []byte) error {
	// Security check: prevent path traversal
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return goerr.New("invalid output path", goerr.V("path", path), goerr.V("root", x.root))
	}
	destPath := filepath.Join(x.root, rel)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", filepath.Dir(destPath)))
	}

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write output", goerr.V("path", destPath))
	}

	ctxlog.From(ctx).Debug("Wrote output",
		"path", destPath,
		"content_type", contentType,
		"size_bytes", len(data),
	)
	return nil
}
