package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testJob struct {
	Name    string `yaml:"name" json:"name"`
	Grammar string `yaml:"grammar" json:"grammar"`
	Source  string `yaml:"source" json:"source"`
	From    int    `yaml:"from" json:"from"`
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     testJob
		wantErr  bool
	}{
		{
			name:     "yaml",
			filename: "job.yaml",
			data:     "name: scale\ngrammar: musicstring\nsource: c d e f g\nfrom: 2\n",
			want:     testJob{Name: "scale", Grammar: "musicstring", Source: "c d e f g", From: 2},
		},
		{
			name:     "yml block scalar",
			filename: "job.yml",
			data:     "name: twinkle\nsource: |\n  c c g g\n  a a gh\n",
			want:     testJob{Name: "twinkle", Source: "c c g g\na a gh\n"},
		},
		{
			name:     "json",
			filename: "job.json",
			data:     `{"name":"nokia","grammar":"rtttl","source":"Nokia:d=4:e5"}`,
			want:     testJob{Name: "nokia", Grammar: "rtttl", Source: "Nokia:d=4:e5"},
		},
		{
			name:     "unknown extension",
			filename: "job.txt",
			data:     `{"name":"x"}`,
			want:     testJob{Name: "x"},
		},
		{
			name:     "bad json",
			filename: "job.json",
			data:     "{",
			wantErr:  true,
		},
		{
			name:     "bad yaml",
			filename: "job.yaml",
			data:     "name: [",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got testJob
			err := ParseRequest([]byte(tt.data), tt.filename, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequest error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte("name: ode\nsource: e e f g\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var job testJob
	if err := LoadRequest(path, &job); err != nil {
		t.Fatalf("LoadRequest error: %v", err)
	}
	if job.Name != "ode" || job.Source != "e e f g" {
		t.Errorf("job = %+v", job)
	}

	if err := LoadRequest(filepath.Join(t.TempDir(), "missing.yaml"), &job); err == nil {
		t.Error("LoadRequest should fail for a missing file")
	}
}

func TestLoadRequestFrom(t *testing.T) {
	var job testJob
	if err := LoadRequestFrom(strings.NewReader("name: piped\nfrom: 4\n"), &job); err != nil {
		t.Fatalf("LoadRequestFrom error: %v", err)
	}
	if job.Name != "piped" || job.From != 4 {
		t.Errorf("job = %+v", job)
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tune.ms")
	if err := os.WriteFile(path, []byte("t140 c d e"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource error: %v", err)
	}
	if got != "t140 c d e" {
		t.Errorf("ReadSource = %q", got)
	}
	if _, err := ReadSource(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("ReadSource should fail for a missing file")
	}
}
