package video

import (
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// An extractor returns ("", nil) when the value does not have its shape or
// carries nothing usable, and an error when the shape matched but
// extraction broke. Either way the next strategy runs.
type extractor func(s *session, v any) (string, error)

type strategy struct {
	name string
	try  extractor
}

var strategies = []strategy{
	{"sequence", fromSequence},
	{"path", fromPathString},
	{"bytes", fromBytes},
	{"mapping", fromMapping},
	{"save_to", fromSaver},
	{"stream_source", fromStreamSourcer},
	{"components", fromComponents},
	{"attributes", fromAttributes},
	{"reader", fromReader},
}

// run invokes a strategy, converting a panic in host code into an error.
func (s *session) run(st strategy, v any) (path string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			path, err = "", fmt.Errorf("%s: panic: %v", st.name, rec)
		}
	}()
	return st.try(s, v)
}

// fromSequence handles (filename, subfolder, ...) tuples. The joined path is
// returned whether or not the file exists yet.
func fromSequence(s *session, v any) (string, error) {
	var filename, subfolder string
	switch seq := v.(type) {
	case []string:
		if len(seq) == 0 {
			return "", nil
		}
		filename = seq[0]
		if len(seq) >= 2 {
			subfolder = seq[1]
		}
	case []any:
		if len(seq) == 0 {
			return "", nil
		}
		name, ok := seq[0].(string)
		if !ok {
			return "", nil
		}
		filename = name
		if len(seq) >= 2 {
			subfolder, _ = seq[1].(string)
		}
	default:
		return "", nil
	}

	path := filepath.Join(s.r.outputDir(), subfolder, filename)
	if !isFile(path) {
		s.r.log.Debug("sequence path does not exist yet", zap.String("path", path))
	}
	return path, nil
}

func fromPathString(_ *session, v any) (string, error) {
	p, ok := v.(string)
	if !ok || strings.TrimSpace(p) == "" {
		return "", nil
	}
	return p, nil
}

func fromBytes(s *session, v any) (string, error) {
	data, ok := v.([]byte)
	if !ok {
		return "", nil
	}
	return s.writeTemp(data)
}

func fromMapping(s *session, v any) (string, error) {
	lookup, ok := mappingLookup(v)
	if !ok {
		return "", nil
	}
	return s.probe(lookup, mappingKeys)
}

// fromSaver asks the value to export itself, trying each calling convention
// in turn. A convention that errors or panics moves on to the next one.
func fromSaver(s *session, v any) (string, error) {
	saver, ok := v.(Saver)
	if !ok {
		return "", nil
	}

	name := "uguu_export_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".mp4"
	target := filepath.Join(s.r.outputDir(), name)

	var lastErr error
	for _, conv := range saveConventions {
		if err := callSave(saver, conv, target); err != nil {
			s.r.log.Debug("save_to convention rejected",
				zap.Stringer("convention", conv),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		s.track(target)
		if !isFile(target) {
			s.r.log.Warn("save_to reported success but file is missing", zap.String("path", target))
		}
		return target, nil
	}
	return "", fmt.Errorf("save_to: all conventions failed: %w", lastErr)
}

func callSave(saver Saver, conv SaveConvention, target string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return saver.SaveTo(conv, target)
}

func fromStreamSourcer(s *session, v any) (string, error) {
	src, ok := v.(StreamSourcer)
	if !ok {
		return "", nil
	}
	out, err := src.GetStreamSource()
	if err != nil {
		return "", fmt.Errorf("get_stream_source: %w", err)
	}
	s.r.log.Debug("get_stream_source returned", zap.String("type", fmt.Sprintf("%T", out)))
	return s.fromSource(out)
}

// fromSource classifies what a stream source handed back.
func (s *session) fromSource(src any) (string, error) {
	switch x := src.(type) {
	case string:
		if isFile(x) {
			return x, nil
		}
		return "", nil
	case []byte:
		return s.writeTemp(x)
	case io.Reader:
		return s.copyTemp(x)
	}
	if chunks, ok := chunksOf(src); ok {
		return s.writeChunks(chunks)
	}
	return "", nil
}

func fromComponents(s *session, v any) (string, error) {
	getter, ok := v.(ComponentsGetter)
	if !ok {
		return "", nil
	}
	comps, err := getter.GetComponents()
	if err != nil {
		return "", fmt.Errorf("get_components: %w", err)
	}
	s.r.log.Debug("get_components returned", zap.String("type", fmt.Sprintf("%T", comps)))

	if lookup, ok := mappingLookup(comps); ok {
		if p, err := s.probe(lookup, attributeNames); p != "" || err != nil {
			return p, err
		}
	}
	if a, ok := comps.(Attributer); ok {
		if p, err := s.probe(attributesLookup(a), attributeNames); p != "" || err != nil {
			return p, err
		}
	}
	if _, ok := comps.(StreamSourcer); ok {
		return fromStreamSourcer(s, comps)
	}
	return "", nil
}

func fromAttributes(s *session, v any) (string, error) {
	a, ok := v.(Attributer)
	if !ok {
		return "", nil
	}
	return s.probe(attributesLookup(a), attributeNames)
}

func fromReader(s *session, v any) (string, error) {
	r, ok := v.(io.Reader)
	if !ok {
		return "", nil
	}
	return s.copyTemp(r)
}

// probe returns the first key whose value is an existing file path or raw
// bytes. Other values are skipped.
func (s *session) probe(lookup func(string) (any, bool), keys []string) (string, error) {
	for _, k := range keys {
		val, ok := lookup(k)
		if !ok {
			continue
		}
		switch x := val.(type) {
		case string:
			if isFile(x) {
				s.r.log.Debug("found path", zap.String("key", k), zap.String("path", x))
				return x, nil
			}
		case []byte:
			s.r.log.Debug("found raw bytes", zap.String("key", k), zap.Int("bytes", len(x)))
			return s.writeTemp(x)
		}
	}
	return "", nil
}

func mappingLookup(v any) (func(string) (any, bool), bool) {
	switch m := v.(type) {
	case map[string]any:
		return func(k string) (any, bool) { x, ok := m[k]; return x, ok }, true
	case map[string]string:
		return func(k string) (any, bool) { x, ok := m[k]; return x, ok }, true
	case map[string][]byte:
		return func(k string) (any, bool) { x, ok := m[k]; return x, ok }, true
	}
	return nil, false
}

func attributesLookup(a Attributer) func(string) (any, bool) {
	attrs := a.Attributes()
	return func(k string) (any, bool) {
		x, ok := attrs[k]
		return x, ok
	}
}

// chunksOf adapts the iterable forms a stream source may return.
func chunksOf(v any) (iter.Seq[any], bool) {
	switch c := v.(type) {
	case [][]byte:
		return func(yield func(any) bool) {
			for _, b := range c {
				if !yield(b) {
					return
				}
			}
		}, true
	case []any:
		return func(yield func(any) bool) {
			for _, x := range c {
				if !yield(x) {
					return
				}
			}
		}, true
	case iter.Seq[any]:
		return c, true
	case func(func(any) bool):
		return c, true
	case iter.Seq[[]byte]:
		return seqOfBytes(c), true
	case func(func([]byte) bool):
		return seqOfBytes(c), true
	case chan []byte:
		return chunksOf((<-chan []byte)(c))
	case chan any:
		return chunksOf((<-chan any)(c))
	case <-chan []byte:
		return func(yield func(any) bool) {
			for b := range c {
				if !yield(b) {
					return
				}
			}
		}, true
	case <-chan any:
		return func(yield func(any) bool) {
			for x := range c {
				if !yield(x) {
					return
				}
			}
		}, true
	}
	return nil, false
}

func seqOfBytes(seq iter.Seq[[]byte]) iter.Seq[any] {
	return func(yield func(any) bool) {
		for b := range seq {
			if !yield(b) {
				return
			}
		}
	}
}
