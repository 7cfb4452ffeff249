package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func readAll(t *testing.T, s Store, name string) string {
	t.Helper()
	r, err := s.Get(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(got)
}

func TestLocalPutGet(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	if err := s.Put(ctx, "songs/scale.txt", strings.NewReader("beep(262, 500);")); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, s, "songs/scale.txt"); got != "beep(262, 500);" {
		t.Errorf("got %q", got)
	}

	if err := s.Put(ctx, "songs/scale.txt", strings.NewReader("short")); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, s, "songs/scale.txt"); got != "short" {
		t.Errorf("after overwrite got %q", got)
	}

	entries, _ := os.ReadDir(filepath.Join(s.Root(), "songs"))
	if len(entries) != 1 {
		t.Errorf("songs/ holds %d entries, want only the object", len(entries))
	}
}

func TestLocalGetMissing(t *testing.T) {
	s := newTestLocal(t)
	if _, err := s.Get(context.Background(), "nope.wav"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestLocalExistsDelete(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	if ok, err := s.Exists(ctx, "a.mid"); err != nil || ok {
		t.Fatalf("Exists before Put = %v, %v", ok, err)
	}
	s.Put(ctx, "a.mid", strings.NewReader("MThd"))
	if ok, _ := s.Exists(ctx, "a.mid"); !ok {
		t.Fatal("Exists after Put = false")
	}
	if err := s.Delete(ctx, "a.mid"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "a.mid"); ok {
		t.Fatal("Exists after Delete = true")
	}
	if err := s.Delete(ctx, "a.mid"); err != nil {
		t.Errorf("second Delete = %v", err)
	}
}

func TestLocalRejectsEscape(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	for _, name := range []string{"../x", "a/../../x", "/etc/passwd", ""} {
		if err := s.Put(ctx, name, strings.NewReader("x")); err == nil {
			t.Errorf("Put(%q) succeeded", name)
		}
		if _, err := s.Get(ctx, name); err == nil {
			t.Errorf("Get(%q) succeeded", name)
		}
	}
}

func TestNewLocalCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	s, err := NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(s.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("root = %v, %v", info, err)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"song.wav":      "audio/wav",
		"SONG.WAV":      "audio/wav",
		"song.mid":      "audio/midi",
		"song.c":        "text/plain; charset=utf-8",
		"tunes/a.yaml":  "application/yaml",
		"noext":         "text/plain; charset=utf-8",
		"dir.json/file": "text/plain; charset=utf-8",
	}
	for name, want := range tests {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Target{Kind: KindLocal, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Local); !ok {
		t.Errorf("Open(local) = %T", s)
	}
	s, err = Open(Target{Kind: KindS3, Bucket: "b", Endpoint: "http://127.0.0.1:9000", AccessKey: "k", SecretKey: "s"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*S3); !ok {
		t.Errorf("Open(s3) = %T", s)
	}

	for _, bad := range []Target{{Kind: KindLocal}, {Kind: KindS3}, {Kind: "ftp", Dir: dir}} {
		if _, err := Open(bad); err == nil {
			t.Errorf("Open(%+v) succeeded", bad)
		}
	}
}
