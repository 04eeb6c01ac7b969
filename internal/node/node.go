package node

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"uguulink/internal/uguu"
	"uguulink/internal/video"
)

// Uploader posts a local file and returns its public link.
type Uploader interface {
	Upload(ctx context.Context, path string, outputFormat string) (string, error)
}

// Recorder is notified of every successful upload.
type Recorder interface {
	Record(ctx context.Context, path, outputFormat, link string) error
}

// Node runs resolve -> upload for one video value. All failures come back
// as the output string; UploadVideo never panics.
type Node struct {
	resolver *video.Resolver
	uploader Uploader
	recorder Recorder
	log      *zap.Logger
}

// Option configures a Node.
type Option func(*Node)

// WithRecorder attaches an upload history recorder.
func WithRecorder(r Recorder) Option {
	return func(n *Node) { n.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(n *Node) {
		if l != nil {
			n.log = l
		}
	}
}

// New creates a Node.
func New(resolver *video.Resolver, uploader Uploader, opts ...Option) *Node {
	n := &Node{
		resolver: resolver,
		uploader: uploader,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// UploadVideo resolves v to a file, uploads it and returns the link or a
// human-readable error. Temp files created while resolving are removed
// before it returns, whatever the outcome.
func (n *Node) UploadVideo(ctx context.Context, v any, outputFormat string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			n.log.Error("unexpected panic", zap.Any("panic", rec))
			out = fmt.Sprintf("Error: %v", rec)
		}
	}()

	n.log.Debug("received video input", zap.String("type", fmt.Sprintf("%T", v)))

	res, err := n.resolver.Resolve(v)
	if err != nil {
		return "Error: " + err.Error()
	}
	defer res.Cleanup()

	path := res.Path
	n.log.Info("resolved video file",
		zap.String("path", path),
		zap.String("strategy", res.Strategy),
		zap.Bool("temporary", res.Temporary),
	)

	if _, err := os.Stat(path); err != nil {
		n.logMissing(path)
		return "Error: file not found at " + path
	}

	link, err := n.uploader.Upload(ctx, path, outputFormat)
	if err != nil {
		return n.describe(err)
	}

	if n.recorder != nil {
		if err := n.recorder.Record(ctx, path, outputFormat, link); err != nil {
			n.log.Warn("recording upload failed", zap.Error(err))
		}
	}
	return link
}

// IsError reports whether a node output is an error message rather than a
// link.
func IsError(out string) bool {
	return strings.HasPrefix(out, "Error:") || strings.HasPrefix(out, "HTTP Error:")
}

// describe turns an upload error into the node's output string.
func (n *Node) describe(err error) string {
	var httpErr *uguu.HTTPError
	switch {
	case errors.As(err, &httpErr):
		n.log.Error("network/HTTP error", zap.Error(err))
		return httpErr.Error()
	case errors.Is(err, uguu.ErrInvalidResponse):
		n.log.Warn("upload returned no link")
		return "Error: " + err.Error()
	default:
		n.log.Error("unexpected error", zap.Error(err))
		return "Error: " + err.Error()
	}
}

// logMissing records what the parent directory holds to help track down a
// wrong output directory.
func (n *Node) logMissing(path string) {
	parent := filepath.Dir(path)
	entries, err := os.ReadDir(parent)
	switch {
	case os.IsNotExist(err):
		n.log.Warn("video file not found, parent directory does not exist",
			zap.String("path", path),
			zap.String("parent", parent),
		)
	case err != nil:
		n.log.Warn("video file not found, could not list parent directory",
			zap.String("path", path),
			zap.Error(err),
		)
	default:
		n.log.Warn("video file not found",
			zap.String("path", path),
			zap.Strings("parentContents", lo.Map(entries, func(e os.DirEntry, _ int) string { return e.Name() })),
		)
	}
}
