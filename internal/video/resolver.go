package video

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Resolution is a video resolved to a local path.
type Resolution struct {
	Path      string // Absolute path of the file to upload
	Temporary bool   // Path was created by the resolver and is deleted by Cleanup
	Strategy  string // Name of the strategy that produced Path

	temps []string
}

// TempFiles returns every temp file created while resolving, including ones
// left behind by strategies that did not succeed.
func (r *Resolution) TempFiles() []string {
	return append([]string(nil), r.temps...)
}

// Cleanup removes all temp files created during resolution.
// Missing files and delete errors are ignored.
func (r *Resolution) Cleanup() {
	if r == nil {
		return
	}
	removeAll(r.temps)
	r.temps = nil
}

// Resolver turns opaque video values into local files.
// A Resolver holds no per-call state and may be reused.
type Resolver struct {
	outputs OutputDirectory
	tempDir string
	log     *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOutputDirectory sets the collaborator consulted for the host output dir.
func WithOutputDirectory(o OutputDirectory) Option {
	return func(r *Resolver) { r.outputs = o }
}

// WithTempDir sets where temp files are created. Defaults to os.TempDir().
func WithTempDir(dir string) Option {
	return func(r *Resolver) {
		if dir != "" {
			r.tempDir = dir
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		tempDir: os.TempDir(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the extraction strategies in priority order and returns the
// first path produced. On failure every temp file is already removed and the
// error is an *ExtractionError describing the value.
func (r *Resolver) Resolve(v any) (*Resolution, error) {
	r.log.Debug("resolving video input", zap.String("type", fmt.Sprintf("%T", v)))

	s := &session{r: r}
	for _, st := range strategies {
		path, err := s.run(st, v)
		if err != nil {
			r.log.Warn("extraction strategy failed", zap.String("strategy", st.name), zap.Error(err))
			continue
		}
		if path == "" {
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			r.log.Warn("making path absolute", zap.String("path", path), zap.Error(err))
			continue
		}

		r.log.Debug("resolved video input",
			zap.String("strategy", st.name),
			zap.String("path", abs),
		)
		return &Resolution{
			Path:      abs,
			Temporary: lo.Contains(s.temps, abs),
			Strategy:  st.name,
			temps:     s.temps,
		}, nil
	}

	removeAll(s.temps)
	ins := Inspect(v)
	r.log.Error("could not extract video file path", zap.String("inspection", ins.String()))
	return nil, &ExtractionError{Inspection: ins}
}

// outputDir returns the host output directory, or the temp directory when
// the host cannot answer.
func (r *Resolver) outputDir() string {
	if r.outputs != nil {
		dir, err := r.outputs.OutputDirectory()
		if err == nil && dir != "" {
			return dir
		}
		if err != nil {
			r.log.Debug("output directory unavailable, using temp dir", zap.Error(err))
		}
	}
	return r.tempDir
}

func removeAll(paths []string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = os.Remove(p)
		}
	}
}
