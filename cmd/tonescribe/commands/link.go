package commands

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/song/linker"
)

var (
	linkSource sourceOptions
	linkName   string
	linkExport string
	linkList   bool
)

// linkerTable lists the registered linkers.
type linkerTable []linker.Info

func (t linkerTable) Header() []string { return []string{"NAME", "EXT", "DESCRIPTION"} }

func (t linkerTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, info := range t {
		rows = append(rows, []string{info.Name, info.Ext, info.Description})
	}
	return rows
}

var linkCmd = &cobra.Command{
	Use:   "link [FILE|-]",
	Short: "Link a tune to C code or a MIDI file",
	Long: `Link a compiled tune for another target:
  generic  beep(freq, ms); and delayMS(ms); calls
  beep     beep(freq, ms); and __delay_cycles(us); calls
  precise  a complete MSP430 program with its own beep()
  midi     a Standard MIDI File (needs -o or --export)

Text output goes to stdout unless -o or --export is given. The default
linker comes from the context.

Examples:
  tonescribe link twinkle.ms
  tonescribe link twinkle.ms --linker precise -o twinkle.c
  tonescribe link --song ode_to_joy --linker midi --export ode.mid
  tonescribe link --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if linkList {
			return outputTable(linkerTable(linker.All()), outputJSON)
		}

		in, err := linkSource.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		settings, err := getSettings()
		if err != nil {
			return err
		}
		name := firstNonEmpty(linkName, in.Job.Linker, settings.Linker)
		l, info, err := linker.ByName(name)
		if err != nil {
			return err
		}

		s, err := in.compileClean()
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := l.Link(&buf, s); err != nil {
			return err
		}
		printVerbose("Linked %s with %s: %d bytes", in.Name, info.Name, buf.Len())

		export := firstNonEmpty(linkExport, in.Job.Export)
		if export != "" && !strings.Contains(export, ".") {
			export += info.Ext
		}
		return writeArtifact(cmd.Context(), buf.Bytes(), export, info.Binary)
	},
}

func init() {
	linkSource.bind(linkCmd)
	linkCmd.Flags().StringVarP(&linkName, "linker", "l", "", "linker: "+strings.Join(linker.Names(), ", "))
	linkCmd.Flags().StringVar(&linkExport, "export", "", "save under this name in the context's export target")
	linkCmd.Flags().BoolVar(&linkList, "list", false, "list the available linkers")
}
