package video

import (
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
)

// tempPattern mirrors the .mp4 suffix host players expect.
const tempPattern = "uguu-*.mp4"

// session holds the state of one Resolve call. Every file it creates is
// tracked so the caller can remove them after the upload.
type session struct {
	r     *Resolver
	temps []string
}

func (s *session) track(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s.temps = append(s.temps, path)
}

// create opens a new tracked temp file.
func (s *session) create() (*os.File, error) {
	f, err := os.CreateTemp(s.r.tempDir, tempPattern)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	s.track(f.Name())
	return f, nil
}

func (s *session) writeTemp(data []byte) (string, error) {
	f, err := s.create()
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return f.Name(), nil
}

// copyTemp drains r into a temp file, closing r if it is closable.
func (s *session) copyTemp(r io.Reader) (string, error) {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	f, err := s.create()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("reading stream: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return f.Name(), nil
}

// writeChunks writes every []byte chunk and skips anything else. It yields
// no path when not a single chunk was written.
func (s *session) writeChunks(chunks iter.Seq[any]) (string, error) {
	f, err := s.create()
	if err != nil {
		return "", err
	}
	defer f.Close()

	wrote := false
	var werr error
	for chunk := range chunks {
		b, ok := chunk.([]byte)
		if !ok {
			continue
		}
		if _, werr = f.Write(b); werr != nil {
			break
		}
		wrote = true
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", fmt.Errorf("writing chunks: %w", werr)
	}
	if !wrote {
		return "", nil
	}
	return f.Name(), nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
