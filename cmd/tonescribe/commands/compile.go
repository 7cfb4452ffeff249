package commands

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/cli"
	"github.com/haivivi/tonescribe/pkg/song"
)

// CompileReport is what `tonescribe compile` prints.
type CompileReport struct {
	Name      string         `yaml:"name" json:"name"`
	Grammar   string         `yaml:"grammar" json:"grammar"`
	Length    float64        `yaml:"length" json:"length"`
	Tones     int            `yaml:"tones" json:"tones"`
	Selection *SelectionView `yaml:"selection,omitempty" json:"selection,omitempty"`
	Events    []EventView    `yaml:"events" json:"events"`
	Errors    []*song.Error  `yaml:"errors,omitempty" json:"errors,omitempty"`
}

// SelectionView is a song's selection window. It is omitted from the
// report when the window is open ended.
type SelectionView struct {
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// EventView is one timeline event.
type EventView struct {
	Kind   string  `yaml:"kind" json:"kind"`
	Time   float64 `yaml:"time" json:"time"`
	Length float64 `yaml:"length" json:"length"`
	Freq   float64 `yaml:"freq,omitempty" json:"freq,omitempty"`
}

func newCompileReport(in *input, s *song.Song) *CompileReport {
	r := &CompileReport{
		Name:    in.Name,
		Grammar: in.Grammar,
		Length:  s.Length(),
		Tones:   s.Tones(),
		Events:  make([]EventView, 0, len(s.Events)),
		Errors:  s.Errors,
	}
	if !math.IsInf(s.Selection.End, 1) {
		r.Selection = &SelectionView{Start: s.Selection.Start, End: s.Selection.End}
	}
	for _, ev := range s.Events {
		switch e := ev.(type) {
		case song.Tone:
			r.Events = append(r.Events, EventView{Kind: "tone", Time: e.Time, Length: e.Length, Freq: e.Freq})
		case song.Rest:
			r.Events = append(r.Events, EventView{Kind: "rest", Time: e.Time, Length: e.Length})
		}
	}
	return r
}

// Header implements cli.Tabular.
func (r *CompileReport) Header() []string {
	return []string{"#", "KIND", "TIME", "LENGTH", "FREQ"}
}

// Rows implements cli.Tabular.
func (r *CompileReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Events))
	for i, ev := range r.Events {
		freq := ""
		if ev.Kind == "tone" {
			freq = cli.FormatFreq(ev.Freq)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			ev.Kind,
			fmt.Sprintf("%.3f", ev.Time),
			cli.FormatSeconds(ev.Length),
			freq,
		})
	}
	return rows
}

var (
	compileSource sourceOptions
	compileTable  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [FILE|-]",
	Short: "Compile a tune and print its events and errors",
	Long: `Compile a tune and print the resulting timeline.

The compile range follows the editor's three modes:
  --from N --to M   selection: only tokens touching [N, M] produce events
  --from N          from cursor: from N to the end of the text
  (neither)         the whole text

Compile errors are part of the report; the command exits non-zero when
there is at least one.

Examples:
  tonescribe compile twinkle.ms
  tonescribe compile twinkle.ms --from 12 --to 30 --json
  echo 'Nokia:d=4,o=5,b=180:8e6,8d6,4f#' | tonescribe compile --grammar rtttl
  tonescribe compile --song accelerando --table`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := compileSource.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		s, err := in.compile()
		if err != nil {
			return err
		}

		report := newCompileReport(in, s)
		if compileTable && !outputJSON {
			err = cli.Output(report, cli.OutputOptions{Format: cli.FormatTable, File: outputFile})
		} else {
			err = outputResult(report, outputFile, outputJSON)
		}
		if err != nil {
			return err
		}

		if len(s.Errors) > 0 {
			for _, e := range s.Errors {
				cli.PrintError("%s", compileError(in.Name, e))
			}
			return fmt.Errorf("%d compile error(s)", len(s.Errors))
		}
		printVerbose("%d tones, %s", report.Tones, cli.FormatSeconds(report.Length))
		return nil
	},
}

func init() {
	compileSource.bind(compileCmd)
	compileCmd.Flags().BoolVar(&compileTable, "table", false, "print events as a table")
}
