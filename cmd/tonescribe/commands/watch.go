package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/audio/songs"
	"github.com/haivivi/tonescribe/pkg/cli"
	"github.com/haivivi/tonescribe/pkg/song/linker"
	"github.com/haivivi/tonescribe/pkg/watch"
)

var (
	watchGrammar  string
	watchLinker   string
	watchFrom     int
	watchTo       int
	watchWidth    int
	watchHeight   int
	watchPlain    bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Recompile a file whenever it changes",
	Long: `Watch a tune file and recompile it half a second after the last edit,
showing the linker output or the first compile error.

Examples:
  tonescribe watch twinkle.ms
  tonescribe watch twinkle.ms --linker beep --from 20
  tonescribe watch ring.rtttl --plain`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		settings, err := getSettings()
		if err != nil {
			return err
		}
		grammar := firstNonEmpty(watchGrammar, grammarOfPath(path), settings.Grammar)
		c, err := songs.Compiler(grammar)
		if err != nil {
			return err
		}
		l, info, err := linker.ByName(firstNonEmpty(watchLinker, settings.Linker))
		if err != nil {
			return err
		}

		w := watch.New(path, watch.Options{
			Compiler: c,
			Linker:   l,
			From:     watchFrom,
			To:       watchTo,
			Debounce: watchDebounce,
		})

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
		defer stop()

		var screen watchScreen
		screen.title = "tonescribe watch " + path
		screen.help = fmt.Sprintf("grammar %s, linker %s, ctrl-c to quit", grammar, info.Name)
		screen.binary = info.Binary
		screen.logs = cli.NewLogWriter(200)
		if !watchPlain {
			prev := slog.Default()
			slog.SetDefault(slog.New(slog.NewTextHandler(screen.logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
			defer slog.SetDefault(prev)
		}

		err = w.Run(ctx, func(r watch.Result) {
			if watchPlain {
				screen.printPlain(r)
				return
			}
			screen.update(r)
			fmt.Print("\033[H\033[2J" + screen.frame().Render(watchWidth, watchHeight) + "\n")
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

type watchScreen struct {
	title  string
	help   string
	binary bool
	logs   *cli.LogWriter

	status string
	output []string
	failed bool
}

func (s *watchScreen) update(r watch.Result) {
	stamp := r.At.Format("15:04:05")
	if r.Err != nil {
		s.status = "error " + stamp
		s.failed = true
		s.output = []string{resultError(r)}
		return
	}
	s.status = fmt.Sprintf("ok %s, %d tones, %s", stamp, r.Song.Tones(), cli.FormatSeconds(r.Song.Length()))
	s.failed = false
	if s.binary {
		s.output = []string{fmt.Sprintf("%s of MIDI data", cli.FormatBytes(len(r.Output)))}
		return
	}
	s.output = strings.Split(strings.TrimRight(string(r.Output), "\n"), "\n")
}

func (s *watchScreen) frame() cli.Frame {
	return cli.Frame{
		Styles: cli.NewStyles(cli.DefaultTheme),
		Title:  s.title,
		Status: s.status,
		Sections: []cli.Section{
			{Label: "Output", Lines: s.output, Failed: s.failed},
			{Label: "Log", Lines: s.logs.Lines()},
		},
		Help: s.help,
	}
}

func (s *watchScreen) printPlain(r watch.Result) {
	stamp := r.At.Format("15:04:05")
	if r.Err != nil {
		fmt.Printf("[%s] %s\n", stamp, resultError(r))
		return
	}
	fmt.Printf("[%s] ok: %d tones, %s\n", stamp, r.Song.Tones(), cli.FormatSeconds(r.Song.Length()))
	if !s.binary {
		os.Stdout.Write(r.Output)
	}
}

func resultError(r watch.Result) string {
	if r.Song != nil && len(r.Song.Errors) > 0 {
		e := r.Song.Errors[0]
		if e.Offset >= 0 {
			return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
		}
	}
	return r.Err.Error()
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchGrammar, "grammar", "", "tune grammar: musicstring or rtttl")
	f.StringVarP(&watchLinker, "linker", "l", "", "linker for the output pane")
	f.IntVar(&watchFrom, "from", -1, "compile from this character offset")
	f.IntVar(&watchTo, "to", -1, "compile up to this character offset")
	f.IntVar(&watchWidth, "width", 80, "screen width")
	f.IntVar(&watchHeight, "height", 24, "screen height")
	f.BoolVar(&watchPlain, "plain", false, "print results line by line instead of a screen")
	f.DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet time after an edit before recompiling")
}
