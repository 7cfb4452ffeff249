package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/audio/square"
	"github.com/haivivi/tonescribe/pkg/cli"
	"github.com/haivivi/tonescribe/pkg/player"
	"github.com/haivivi/tonescribe/pkg/song"
)

var playSource sourceOptions

var playCmd = &cobra.Command{
	Use:   "play [FILE|-]",
	Short: "Render and play a tune",
	Long: `Render a tune and play it on the sound device, waiting until it ends.
Ctrl-C stops playback.

The backend (oto or portaudio) and device rate come from the context.

Examples:
  tonescribe play twinkle.ms
  tonescribe play --song nokia
  tonescribe play twinkle.ms --from 40`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := playSource.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		s, err := in.compileClean()
		if err != nil {
			return err
		}
		settings, err := getSettings()
		if err != nil {
			return err
		}
		return playSongs(cmdContext(cmd), settings, in.Name, s)
	},
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// playSongs renders songs with one renderer, starts them together and
// waits until all are done. Ctrl-C stops everything still sounding.
func playSongs(ctx context.Context, settings cli.Context, name string, ss ...*song.Song) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	p, closePlayer, err := newPlayer(settings)
	if err != nil {
		return err
	}
	defer closePlayer()

	r := square.New()
	var (
		handles []*player.Handle
		total   float64
	)
	for _, s := range ss {
		h, err := p.Play(r.Render(s))
		if err != nil {
			p.StopAll()
			return err
		}
		handles = append(handles, h)
		total = max(total, s.Length())
	}
	cli.PrintInfo("Playing %s (%s)", name, cli.FormatSeconds(total))

	for _, h := range handles {
		if err := h.Wait(ctx); err != nil {
			p.StopAll()
			cli.PrintInfo("Stopped")
			return nil
		}
	}
	return nil
}
