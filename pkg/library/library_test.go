package library

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newLibraries(t *testing.T) map[string]*Library {
	t.Helper()
	b, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return map[string]*Library{"badger": b, "memory": NewMemory()}
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	for name, lib := range newLibraries(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := lib.Get(ctx, "scale"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get before Put = %v, want ErrNotFound", err)
			}

			put, err := lib.Put(ctx, "scale", "", "c d e f g")
			if err != nil {
				t.Fatal(err)
			}
			if put.ID == "" || put.Grammar != "musicstring" {
				t.Errorf("Put = %+v", put)
			}

			got, err := lib.Get(ctx, "scale")
			if err != nil {
				t.Fatal(err)
			}
			if got.ID != put.ID || got.Source != "c d e f g" || !got.Created.Equal(put.Created) {
				t.Errorf("Get = %+v, want %+v", got, put)
			}

			s, err := got.Compile()
			if err != nil {
				t.Fatal(err)
			}
			if s.Tones() != 5 {
				t.Errorf("compiled %d tones, want 5", s.Tones())
			}
		})
	}
}

func TestPutKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	for name, lib := range newLibraries(t) {
		t.Run(name, func(t *testing.T) {
			clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			lib.now = func() time.Time { return clock }

			first, err := lib.Put(ctx, "tune", "musicstring", "c")
			if err != nil {
				t.Fatal(err)
			}
			clock = clock.Add(time.Hour)
			second, err := lib.Put(ctx, "tune", "rtttl", "x:d=4:c")
			if err != nil {
				t.Fatal(err)
			}
			if second.ID != first.ID {
				t.Errorf("id changed from %s to %s", first.ID, second.ID)
			}
			if !second.Created.Equal(first.Created) || !second.Updated.Equal(clock) {
				t.Errorf("times = %v / %v", second.Created, second.Updated)
			}
			got, _ := lib.Get(ctx, "tune")
			if got.Grammar != "rtttl" || got.Source != "x:d=4:c" {
				t.Errorf("Get = %+v", got)
			}
		})
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, lib := range newLibraries(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"waltz", "alpha", "march"} {
				if _, err := lib.Put(ctx, n, "", "c"); err != nil {
					t.Fatal(err)
				}
			}
			tunes, err := lib.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			var names []string
			for _, tune := range tunes {
				names = append(names, tune.Name)
			}
			if len(names) != 3 || names[0] != "alpha" || names[1] != "march" || names[2] != "waltz" {
				t.Errorf("List = %v", names)
			}

			if err := lib.Delete(ctx, "march"); err != nil {
				t.Fatal(err)
			}
			if err := lib.Delete(ctx, "march"); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete = %v, want ErrNotFound", err)
			}
			tunes, _ = lib.List(ctx)
			if len(tunes) != 2 {
				t.Errorf("List after Delete = %d tunes", len(tunes))
			}
		})
	}
}

func TestPutRejects(t *testing.T) {
	ctx := context.Background()
	lib := NewMemory()
	tests := []struct {
		name, grammar string
	}{
		{"", "musicstring"},
		{"  ", "musicstring"},
		{"two\nlines", "musicstring"},
		{"ok", "abc"},
	}
	for _, tt := range tests {
		if _, err := lib.Put(ctx, tt.name, tt.grammar, "c"); err == nil {
			t.Errorf("Put(%q, %q) succeeded", tt.name, tt.grammar)
		}
	}
}

func TestOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	lib, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Put(ctx, "kept", "", "c e g"); err != nil {
		t.Fatal(err)
	}
	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}

	lib, err = Open(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()
	got, err := lib.Get(ctx, "kept")
	if err != nil {
		t.Fatal(err)
	}
	if got.Source != "c e g" {
		t.Errorf("Source = %q", got.Source)
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Error("Open without Dir succeeded")
	}
}
