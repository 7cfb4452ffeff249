package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/audio/square"
	"github.com/haivivi/tonescribe/pkg/audio/wavfile"
	"github.com/haivivi/tonescribe/pkg/cli"
)

var (
	renderSource sourceOptions
	renderExport string
)

var renderCmd = &cobra.Command{
	Use:   "render [FILE|-]",
	Short: "Render a tune to an 8-bit WAVE file",
	Long: `Render a tune as a square wave (8-bit signed, stereo, 44100 Hz) and save
it as a WAVE file. Without -o or --export the file is written to NAME.wav in
the current directory.

Examples:
  tonescribe render twinkle.ms -o twinkle.wav
  tonescribe render --song fur_elise --export fur_elise.wav
  tonescribe render -f job.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := renderSource.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		s, err := in.compileClean()
		if err != nil {
			return err
		}

		pcmData := square.New().Render(s)
		printVerbose("Rendered %s: %s of audio, %s PCM",
			in.Name, cli.FormatSeconds(s.Length()), cli.FormatBytes(len(pcmData)))

		data, err := wavfile.Bytes(square.Format, pcmData)
		if err != nil {
			return err
		}

		export := firstNonEmpty(renderExport, in.Job.Export)
		if export == "" && outputFile == "" {
			outputFile = in.Name + ".wav"
		}
		return writeArtifact(cmd.Context(), data, export, true)
	},
}

func init() {
	renderSource.bind(renderCmd)
	renderCmd.Flags().StringVar(&renderExport, "export", "", "save under this name in the context's export target")
}
