// Package video turns the opaque "video" value a node-graph host hands to
// the uploader node into a readable file on local disk.
//
// Hosts have represented videos in several incompatible ways over time, so
// the resolver recognises a small closed set of shapes and tries them in a
// fixed order, from the most specific to the most generic:
//
//	[]string / []any        (filename, subfolder) under the host output dir
//	string                  a filesystem path
//	[]byte                  raw file contents
//	map[string]any          path or bytes under a well-known key
//	Saver                   can write itself to a path
//	StreamSourcer           exposes a path, bytes, reader or chunk stream
//	ComponentsGetter        exposes sub-components inspected the same way
//	Attributer              path or bytes under a well-known attribute
//	io.Reader               raw stream of the file contents
package video

import "errors"

// SaveConvention names one way of asking a Saver to write itself out.
// Host objects historically accepted the target as a positional argument,
// as a "path" keyword or as a "filename" keyword.
type SaveConvention int

const (
	SavePositional SaveConvention = iota
	SaveNamedPath
	SaveNamedFilename
)

// saveConventions is the order conventions are tried in.
var saveConventions = []SaveConvention{SavePositional, SaveNamedPath, SaveNamedFilename}

func (c SaveConvention) String() string {
	switch c {
	case SavePositional:
		return "positional"
	case SaveNamedPath:
		return "path"
	case SaveNamedFilename:
		return "filename"
	default:
		return "unknown"
	}
}

// ErrUnsupportedConvention is returned by a Saver that does not accept the
// requested calling convention. Any other error is treated the same way.
var ErrUnsupportedConvention = errors.New("save convention not supported")

// Saver is a video that can export itself to a target path.
type Saver interface {
	SaveTo(conv SaveConvention, target string) error
}

// StreamSourcer is a video that can hand out its underlying source.
// The source may be a path string, []byte, an io.Reader, or an iterable of
// byte chunks ([][]byte, []any, iter.Seq[[]byte], iter.Seq[any] or a
// receive channel of either).
type StreamSourcer interface {
	GetStreamSource() (any, error)
}

// ComponentsGetter is a video assembled from parts. The returned value is
// inspected as a mapping, an Attributer or a StreamSourcer.
type ComponentsGetter interface {
	GetComponents() (any, error)
}

// Attributer exposes named attributes of a host object.
type Attributer interface {
	Attributes() map[string]any
}

// OutputDirectory answers where the host writes its rendered files.
type OutputDirectory interface {
	OutputDirectory() (string, error)
}

// Keys probed on mapping inputs, in priority order.
var mappingKeys = []string{"video_path", "path", "file_path", "filename"}

// Names probed on attribute-bearing inputs and on components.
var attributeNames = []string{"video_path", "path", "file_path", "filename", "output_path", "outpath", "file"}
