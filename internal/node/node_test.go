package node

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uguulink/internal/uguu"
	"uguulink/internal/video"
)

type fakeUploader struct {
	link    string
	err     error
	panics  bool
	gotPath string
	gotData []byte
	format  string
}

func (f *fakeUploader) Upload(_ context.Context, path, format string) (string, error) {
	if f.panics {
		panic("uploader exploded")
	}
	f.gotPath = path
	f.format = format
	f.gotData, _ = os.ReadFile(path)
	return f.link, f.err
}

type memRecorder struct {
	links []string
	err   error
}

func (m *memRecorder) Record(_ context.Context, _, _, link string) error {
	m.links = append(m.links, link)
	return m.err
}

type attrs map[string]any

func (a attrs) Attributes() map[string]any { return a }

func newResolver(t *testing.T) (*video.Resolver, string) {
	t.Helper()
	tmp := t.TempDir()
	return video.NewResolver(video.WithTempDir(tmp)), tmp
}

func TestUploadVideo_MappingPlainText(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("ABC"), 0o644))

	var received []byte
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("files[]")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		received, _ = io.ReadAll(f)
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "https://uguu.se/abc.mp4")
	}))
	defer srv.Close()

	client, err := uguu.New(srv.URL+"/upload", uguu.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	r, _ := newResolver(t)

	out := New(r, client).UploadVideo(context.Background(), map[string]any{"path": clip}, "text")
	assert.Equal(t, "https://uguu.se/abc.mp4", out)
	assert.Equal(t, []byte("ABC"), received)
}

func TestUploadVideo_JSONResponse(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("ABC"), 0o644))

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"files":[{"url":"https://x/y.mp4"}]}`)
	}))
	defer srv.Close()

	client, err := uguu.New(srv.URL+"/upload", uguu.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	r, _ := newResolver(t)

	out := New(r, client).UploadVideo(context.Background(), clip, "json")
	assert.Equal(t, "https://x/y.mp4", out)
}

func TestUploadVideo_HTTP500(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("ABC"), 0o644))

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := uguu.New(srv.URL+"/upload", uguu.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	r, _ := newResolver(t)

	var out string
	require.NotPanics(t, func() {
		out = New(r, client).UploadVideo(context.Background(), clip, "text")
	})
	assert.True(t, strings.HasPrefix(out, "HTTP Error:"), out)
	assert.Contains(t, out, "storage full")
}

func TestUploadVideo_ExtractionFailed(t *testing.T) {
	r, _ := newResolver(t)
	up := &fakeUploader{link: "unused"}

	out := New(r, up).UploadVideo(context.Background(), map[string]any{"filename": "/nonexistent/clip.mp4"}, "text")
	assert.True(t, strings.HasPrefix(out, "Error: Could not extract video file path"), out)
	assert.Empty(t, up.gotPath, "uploader must not run")
}

func TestUploadVideo_FileNotFound(t *testing.T) {
	r, _ := newResolver(t)
	up := &fakeUploader{link: "unused"}
	missing := filepath.Join(t.TempDir(), "renders", "missing.mp4")

	out := New(r, up).UploadVideo(context.Background(), missing, "text")
	assert.Equal(t, "Error: file not found at "+missing, out)
	assert.Empty(t, up.gotPath)
}

func TestUploadVideo_TempFilesRemoved(t *testing.T) {
	tests := []struct {
		name     string
		uploader *fakeUploader
		expected string
	}{
		{"success", &fakeUploader{link: "https://uguu.se/ok.mp4"}, "https://uguu.se/ok.mp4"},
		{"invalid response", &fakeUploader{err: uguu.ErrInvalidResponse}, "Error: empty or invalid upload response"},
		{"http error", &fakeUploader{err: &uguu.HTTPError{Status: "502 Bad Gateway"}}, "HTTP Error: 502 Bad Gateway"},
		{"unexpected error", &fakeUploader{err: errors.New("disk on fire")}, "Error: disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, tmp := newResolver(t)
			payload := []byte("temporary video bytes")

			out := New(r, tt.uploader).UploadVideo(context.Background(), attrs{"file": payload}, "text")
			assert.Equal(t, tt.expected, out)

			// The uploader saw the bytes in a resolver-owned temp file...
			assert.Equal(t, payload, tt.uploader.gotData)
			assert.Equal(t, tmp, filepath.Dir(tt.uploader.gotPath))
			// ...which no longer exists.
			assert.NoFileExists(t, tt.uploader.gotPath)
			entries, err := os.ReadDir(tmp)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestUploadVideo_PanicRecovered(t *testing.T) {
	r, tmp := newResolver(t)

	out := New(r, &fakeUploader{panics: true}).UploadVideo(context.Background(), []byte("x"), "text")
	assert.Equal(t, "Error: uploader exploded", out)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "cleanup runs even when the uploader panics")
}

func TestUploadVideo_Recorder(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("ABC"), 0o644))
	r, _ := newResolver(t)

	rec := &memRecorder{err: errors.New("db locked")}
	up := &fakeUploader{link: "https://uguu.se/r.mp4"}

	out := New(r, up, WithRecorder(rec)).UploadVideo(context.Background(), clip, "csv")
	assert.Equal(t, "https://uguu.se/r.mp4", out, "recorder errors do not change the output")
	assert.Equal(t, []string{"https://uguu.se/r.mp4"}, rec.links)
	assert.Equal(t, "csv", up.format)
}

func TestRegister(t *testing.T) {
	m := Register()

	def, ok := m.ClassMappings["UguuUploader"]
	require.True(t, ok)
	assert.Equal(t, "🚀 Uguu.se Video Uploader", m.DisplayNameMappings["UguuUploader"])
	assert.Equal(t, []string{"uguu_link"}, def.ReturnNames)
	assert.Equal(t, "File Upload", def.Category)

	require.Len(t, def.Inputs, 2)
	assert.Equal(t, Input{Name: "video", Type: "VIDEO", Required: true}, def.Inputs[0])
	assert.Equal(t, "text", def.Inputs[1].Default)
	assert.False(t, def.Inputs[1].Required)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"node_class_mappings"`)
}

func TestIsError(t *testing.T) {
	assert.True(t, IsError("Error: file not found at /x"))
	assert.True(t, IsError("HTTP Error: 500 Internal Server Error"))
	assert.False(t, IsError("https://uguu.se/abc.mp4"))
	assert.False(t, IsError(""))
}
