package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type eventTable struct {
	rows [][]string
}

func (e eventTable) Header() []string { return []string{"TIME", "FREQ"} }
func (e eventTable) Rows() [][]string { return e.rows }

type label string

func (l label) String() string { return "label:" + string(l) }

func TestOutput_Formats(t *testing.T) {
	data := map[string]any{"name": "twinkle", "events": 42}

	tests := []struct {
		name   string
		format OutputFormat
		want   []string
	}{
		{"yaml", FormatYAML, []string{"name: twinkle", "events: 42"}},
		{"default", "", []string{"name: twinkle"}},
		{"json", FormatJSON, []string{`"name": "twinkle"`}},
		{"table fallback", FormatTable, []string{"name: twinkle"}},
		{"raw fallback", FormatRaw, []string{"events: 42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(data, OutputOptions{Format: tt.format, Writer: &buf}); err != nil {
				t.Fatalf("Output error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestOutput_JSONValid(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(map[string]int{"tones": 3}, OutputOptions{Format: FormatJSON, Writer: &buf, Indent: "    "}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	var result map[string]int
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if result["tones"] != 3 {
		t.Errorf("tones = %d, want 3", result["tones"])
	}
	if !strings.Contains(buf.String(), "    \"tones\"") {
		t.Errorf("Output should be indented, got: %s", buf.String())
	}
}

func TestOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	tab := eventTable{rows: [][]string{{"0.000", "261.63"}, {"0.500", "293.66"}}}
	if err := Output(tab, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	for _, w := range []string{"TIME", "FREQ", "261.63", "0.500"} {
		if !strings.Contains(buf.String(), w) {
			t.Errorf("table missing %q:\n%s", w, buf.String())
		}
	}
}

func TestOutput_Raw(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"bytes", []byte("beep(439, 500);"), "beep(439, 500);"},
		{"string", "delayMS(250);", "delayMS(250);"},
		{"stringer", label("x"), "label:x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(tt.data, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
				t.Fatalf("Output error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Output("data", OutputOptions{Format: "xml", Writer: &buf}); err == nil {
		t.Error("Output should fail for unsupported format")
	}
}

func TestOutput_ToFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "output.json")

	if err := Output(map[string]string{"key": "value"}, OutputOptions{Format: FormatJSON, File: filePath}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	var result map[string]string
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("Invalid JSON in file: %v", err)
	}
	if result["key"] != "value" {
		t.Errorf("key = %q, want %q", result["key"], "value")
	}
}

func TestOutputBytes(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "song.wav")
	data := []byte{0x52, 0x49, 0x46, 0x46}

	if err := OutputBytes(data, filePath); err != nil {
		t.Fatalf("OutputBytes error: %v", err)
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !bytes.Equal(content, data) {
		t.Errorf("File content = %v, want %v", content, data)
	}

	if err := OutputBytes(data, ""); err == nil {
		t.Error("OutputBytes should fail for empty path")
	}
}

func TestPrintHelpers(t *testing.T) {
	var out, errOut bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	defer func() { Stdout, Stderr = oldOut, oldErr }()

	PrintSuccess("saved %s", "a.wav")
	PrintInfo("%d tones", 3)
	PrintError("bad %s", "tempo")
	PrintWarning("slow")
	PrintVerbose(false, "hidden")
	PrintVerbose(true, "shown")

	if got := out.String(); got != "✓ saved a.wav\nℹ 3 tones\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "Error: bad tempo\n⚠ slow\n[verbose] shown\n" {
		t.Errorf("stderr = %q", got)
	}
}
