package songs

import (
	"testing"

	"github.com/haivivi/tonescribe/pkg/song"
)

func TestAllCompile(t *testing.T) {
	seen := map[string]bool{}
	for _, tune := range All {
		t.Run(tune.ID, func(t *testing.T) {
			if tune.ID == "" || tune.Name == "" {
				t.Fatalf("tune %+v is missing an id or name", tune)
			}
			if seen[tune.ID] {
				t.Fatalf("duplicate id %q", tune.ID)
			}
			seen[tune.ID] = true

			s, err := tune.Compile()
			if err != nil {
				t.Fatal(err)
			}
			if s.Tones() == 0 {
				t.Error("no tones")
			}
			if s.Length() <= 0 {
				t.Errorf("Length() = %v", s.Length())
			}
		})
	}
}

func TestByID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"twinkle_star", "Twinkle Twinkle Little Star"},
		{"fur_elise", "Fur Elise"},
		{"nokia", "Nokia Tune"},
		{"nonexistent", ""},
	}
	for _, tt := range tests {
		tune := ByID(tt.id)
		switch {
		case tt.want == "" && tune != nil:
			t.Errorf("ByID(%q) = %v, want nil", tt.id, tune)
		case tt.want != "" && tune == nil:
			t.Errorf("ByID(%q) = nil", tt.id)
		case tune != nil && tune.Name != tt.want:
			t.Errorf("ByID(%q).Name = %q, want %q", tt.id, tune.Name, tt.want)
		}
	}
}

func TestByName(t *testing.T) {
	if tune := ByName("Ode to Joy"); tune == nil || tune.ID != "ode_to_joy" {
		t.Errorf("ByName(Ode to Joy) = %v", tune)
	}
	if ByName("nope") != nil {
		t.Error("ByName(nope) != nil")
	}
}

func TestIDsAndNames(t *testing.T) {
	ids := IDs()
	if len(ids) != len(All) || len(Names()) != len(All) {
		t.Fatalf("IDs() = %d, Names() = %d, want %d", len(ids), len(Names()), len(All))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("IDs not sorted: %q before %q", ids[i-1], ids[i])
		}
	}
}

func TestCompiler(t *testing.T) {
	for _, g := range []string{MusicString, RTTTL, ""} {
		if _, err := Compiler(g); err != nil {
			t.Errorf("Compiler(%q) = %v", g, err)
		}
	}
	if _, err := Compiler("abc"); err == nil {
		t.Error("Compiler(abc) succeeded")
	}
}

func TestAccelerandoSpeedsUp(t *testing.T) {
	s, err := ByID("accelerando").Compile()
	if err != nil {
		t.Fatal(err)
	}
	var tones []song.Tone
	for _, ev := range s.Events {
		if tone, ok := ev.(song.Tone); ok {
			tones = append(tones, tone)
		}
	}
	if tones[7].Length >= tones[0].Length {
		t.Errorf("last ramp note %v not shorter than first %v", tones[7].Length, tones[0].Length)
	}
	// The second half is transposed up a fifth.
	if got, want := tones[8].Freq, song.NoteFreq(72+7); got != want {
		t.Errorf("transposed c5 = %v, want %v", got, want)
	}
}
