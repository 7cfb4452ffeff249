package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/audio/songs"
	"github.com/haivivi/tonescribe/pkg/audio/square"
	"github.com/haivivi/tonescribe/pkg/audio/wavfile"
	"github.com/haivivi/tonescribe/pkg/cli"
	"github.com/haivivi/tonescribe/pkg/song"
)

// tuneTable lists built-in tunes.
type tuneTable []songs.Tune

func (t tuneTable) Header() []string { return []string{"ID", "NAME", "GRAMMAR"} }

func (t tuneTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, tune := range t {
		rows = append(rows, []string{tune.ID, tune.Name, tune.Grammar})
	}
	return rows
}

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Built-in tune catalog",
	Long: `Browse, play and render the built-in tunes.

Examples:
  tonescribe songs list
  tonescribe songs show twinkle_star
  tonescribe songs play nokia accelerando
  tonescribe songs render fur_elise -o fur_elise.wav`,
}

var songsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in tunes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return outputTable(tuneTable(songs.All), outputJSON)
	},
}

var songsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a built-in tune's source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := lookupTune(args[0])
		if err != nil {
			return err
		}
		return outputResult(t, outputFile, outputJSON)
	},
}

var songsPlayCmd = &cobra.Command{
	Use:   "play <id>...",
	Short: "Play built-in tunes; several IDs play at the same time",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ss []*song.Song
		for _, id := range args {
			t, err := lookupTune(id)
			if err != nil {
				return err
			}
			s, err := t.Compile()
			if err != nil {
				return err
			}
			ss = append(ss, s)
		}
		settings, err := getSettings()
		if err != nil {
			return err
		}
		name := args[0]
		if len(args) > 1 {
			name = fmt.Sprintf("%d tunes", len(args))
		}
		return playSongs(cmdContext(cmd), settings, name, ss...)
	},
}

var songsRenderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Render a built-in tune to a WAVE file (default ID.wav)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := lookupTune(args[0])
		if err != nil {
			return err
		}
		s, err := t.Compile()
		if err != nil {
			return err
		}
		data, err := wavfile.Bytes(square.Format, square.New().Render(s))
		if err != nil {
			return err
		}
		if outputFile == "" {
			outputFile = t.ID + ".wav"
		}
		return writeArtifact(cmd.Context(), data, "", true)
	},
}

func lookupTune(ref string) (*songs.Tune, error) {
	if t := songs.ByID(ref); t != nil {
		return t, nil
	}
	if t := songs.ByName(ref); t != nil {
		return t, nil
	}
	cli.PrintInfo("Available: %v", songs.IDs())
	return nil, fmt.Errorf("unknown built-in tune %q", ref)
}

func init() {
	songsCmd.AddCommand(songsListCmd)
	songsCmd.AddCommand(songsShowCmd)
	songsCmd.AddCommand(songsPlayCmd)
	songsCmd.AddCommand(songsRenderCmd)
}
