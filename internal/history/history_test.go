package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"uguulink/internal/media"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "uguulink", "history.db"))
	if err != nil {
		t.Skipf("sqlite not available: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	rec := media.UploadRecord{
		Path:       "/renders/clip.mp4",
		Format:     media.FormatJSON,
		Link:       "https://uguu.se/abc.mp4",
		UploadedAt: at,
	}

	id, err := s.Save(ctx, rec)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if id == 0 {
		t.Error("Save() returned zero ID")
	}

	records, err := s.Load(ctx, 0)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	if got.Link != rec.Link {
		t.Errorf("Link = %q, want %q", got.Link, rec.Link)
	}
	if got.Format != media.FormatJSON {
		t.Errorf("Format = %q, want json", got.Format)
	}
	if !got.UploadedAt.Equal(at) {
		t.Errorf("UploadedAt = %v, want %v", got.UploadedAt, at)
	}
}

func TestLoadNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, link := range []string{"https://uguu.se/1", "https://uguu.se/2", "https://uguu.se/3"} {
		if err := s.Record(ctx, "/tmp/v.mp4", "text", link); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	records, err := s.Load(ctx, 2)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Link != "https://uguu.se/3" || records[1].Link != "https://uguu.se/2" {
		t.Errorf("unexpected order: %q, %q", records[0].Link, records[1].Link)
	}
	if records[0].UploadedAt.IsZero() {
		t.Error("Record() should stamp the upload time")
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, _ := s.Save(ctx, media.UploadRecord{Path: "a", Link: "https://uguu.se/a"})
	s.Save(ctx, media.UploadRecord{Path: "b", Link: "https://uguu.se/b"})

	if err := s.Remove(ctx, a); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	records, _ := s.Load(ctx, 0)
	if len(records) != 1 || records[0].Link != "https://uguu.se/b" {
		t.Fatalf("after remove got %+v", records)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	records, _ = s.Load(ctx, 0)
	if len(records) != 0 {
		t.Errorf("expected empty history after clear, got %d", len(records))
	}
}

func TestOpenDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	s, err := OpenDefault()
	if err != nil {
		t.Skipf("sqlite not available: %v", err)
	}
	defer s.Close()

	if err := s.Record(context.Background(), "/x.mp4", "", "https://uguu.se/x"); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	records, _ := s.Load(context.Background(), 0)
	if len(records) != 1 || records[0].Format != media.FormatText {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestFormatForDisplay(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 5, 0, 0, time.Local)
	records := []media.UploadRecord{
		{Path: "/renders/clip.mp4", Format: media.FormatText, Link: "https://uguu.se/a.mp4", UploadedAt: at},
		{Path: "/tmp/uguu-1.mp4", Format: media.FormatJSON, Link: "https://uguu.se/b.mp4", UploadedAt: at},
	}

	items := FormatForDisplay(records)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0] != "2026-10-19 09:05  text   https://uguu.se/a.mp4  (clip.mp4)" {
		t.Errorf("item 0 = %q", items[0])
	}
	if items[1] != "2026-10-19 09:05  json   https://uguu.se/b.mp4  (uguu-1.mp4)" {
		t.Errorf("item 1 = %q", items[1])
	}
}
