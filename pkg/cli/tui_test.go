package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFrame_Render(t *testing.T) {
	f := Frame{
		Styles: NewStyles(DefaultTheme),
		Title:  "tonescribe watch",
		Status: "ok",
		Sections: []Section{
			{Label: "Output", Lines: []string{"beep(261, 500);", "beep(293, 500);", "delayMS(500);"}},
			{Label: "Log", Lines: []string{"compiled 2 tones"}},
		},
		Help: "ctrl-c to quit",
	}

	const width, height = 40, 20
	out := f.Render(width, height)
	lines := strings.Split(out, "\n")
	if len(lines) > height {
		t.Fatalf("rendered %d lines, want at most %d", len(lines), height)
	}
	for i, line := range lines[:len(lines)-1] {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, width, line)
		}
	}
	for _, want := range []string{"tonescribe watch", "[ok]", "Output", "delayMS(500);", "compiled 2 tones", "ctrl-c to quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestFrame_KeepsLastLines(t *testing.T) {
	var many []string
	for i := range 50 {
		many = append(many, strings.Repeat("x", i%5)+"line")
	}
	many[49] = "newest"
	f := Frame{
		Styles:   NewStyles(DefaultTheme),
		Sections: []Section{{Label: "Log", Lines: many}},
	}
	if out := f.Render(30, 10); !strings.Contains(out, "newest") {
		t.Errorf("newest line not shown:\n%s", out)
	}
}

func TestFrame_TooSmall(t *testing.T) {
	if got := (Frame{}).Render(0, 0); got != "Loading..." {
		t.Errorf("Render(0,0) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"beep(440, 500);", 20, "beep(440, 500);"},
		{"beep(440, 500);", 8, "beep(44…"},
		{"音乐音乐", 5, "音乐…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.s, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}
