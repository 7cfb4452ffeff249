package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/audio/pcm"
	"github.com/haivivi/tonescribe/pkg/audio/songs"
	"github.com/haivivi/tonescribe/pkg/cli"
	"github.com/haivivi/tonescribe/pkg/library"
	"github.com/haivivi/tonescribe/pkg/player"
	"github.com/haivivi/tonescribe/pkg/song"
	"github.com/haivivi/tonescribe/pkg/storage"
)

// Job is a job file loaded with -f. Exactly one of Source, File, Song or
// Tune names the tune text.
type Job struct {
	Name    string `yaml:"name" json:"name"`
	Grammar string `yaml:"grammar" json:"grammar"`

	// Source is inline tune text.
	Source string `yaml:"source" json:"source"`
	// File is a tune file, relative to the job file.
	File string `yaml:"file" json:"file"`
	// Song is a built-in tune ID or name.
	Song string `yaml:"song" json:"song"`
	// Tune is a library tune name.
	Tune string `yaml:"tune" json:"tune"`

	// From and To select the compile range in characters.
	From *int `yaml:"from" json:"from"`
	To   *int `yaml:"to" json:"to"`

	Linker string `yaml:"linker" json:"linker"`
	// Export is the artifact name in the context's export target.
	Export string `yaml:"export" json:"export"`
}

// input is a resolved tune ready to compile.
type input struct {
	Name    string
	Grammar string
	Source  string
	From    int
	To      int
	Job     Job
}

// sourceOptions are the flags shared by every command that compiles.
type sourceOptions struct {
	cmd     *cobra.Command
	grammar string
	from    int
	to      int
	song    string
	tune    string
}

func (o *sourceOptions) bind(cmd *cobra.Command) {
	o.cmd = cmd
	f := cmd.Flags()
	f.StringVar(&o.grammar, "grammar", "", "tune grammar: musicstring or rtttl (default from context or file extension)")
	f.IntVar(&o.from, "from", -1, "compile from this character offset (selection start or cursor)")
	f.IntVar(&o.to, "to", -1, "compile up to this character offset (default: end of text)")
	f.StringVar(&o.song, "song", "", "use a built-in tune by ID or name")
	f.StringVar(&o.tune, "tune", "", "use a tune from the library")
}

// load resolves the tune text from, in order: --song, --tune, the job
// file, or the FILE argument (stdin when absent or "-").
func (o *sourceOptions) load(ctx context.Context, args []string) (*input, error) {
	settings, err := getSettings()
	if err != nil {
		return nil, err
	}

	in := &input{From: -1, To: -1}
	if inputFile != "" {
		if err := cli.LoadRequest(inputFile, &in.Job); err != nil {
			return nil, err
		}
		printVerbose("Loaded job file: %s", inputFile)
	}
	job := &in.Job
	if job.From != nil {
		in.From = *job.From
	}
	if job.To != nil {
		in.To = *job.To
	}
	if o.cmd != nil && o.cmd.Flags().Changed("from") {
		in.From = o.from
	}
	if o.cmd != nil && o.cmd.Flags().Changed("to") {
		in.To = o.to
	}

	songRef := firstNonEmpty(o.song, job.Song)
	tuneRef := firstNonEmpty(o.tune, job.Tune)
	switch {
	case songRef != "":
		t := songs.ByID(songRef)
		if t == nil {
			t = songs.ByName(songRef)
		}
		if t == nil {
			return nil, fmt.Errorf("unknown built-in tune %q (see 'tonescribe songs list')", songRef)
		}
		in.Name, in.Grammar, in.Source = t.ID, t.Grammar, t.Source

	case tuneRef != "":
		lib, err := openLibrary(settings)
		if err != nil {
			return nil, err
		}
		defer lib.Close()
		t, err := lib.Get(ctx, tuneRef)
		if err != nil {
			return nil, err
		}
		in.Name, in.Grammar, in.Source = t.Name, t.Grammar, t.Source

	case job.Source != "":
		in.Source = job.Source

	case job.File != "":
		path := job.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(inputFile), path)
		}
		if in.Source, err = cli.ReadSource(path); err != nil {
			return nil, err
		}
		in.Name = baseName(path)
		in.Grammar = grammarOfPath(path)

	default:
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		if in.Source, err = cli.ReadSource(path); err != nil {
			return nil, err
		}
		if path != "-" {
			in.Name = baseName(path)
			in.Grammar = grammarOfPath(path)
		}
	}

	if job.Name != "" {
		in.Name = job.Name
	}
	if job.Grammar != "" {
		in.Grammar = job.Grammar
	}
	if o.grammar != "" {
		in.Grammar = o.grammar
	}
	if in.Grammar == "" {
		in.Grammar = settings.Grammar
	}
	if in.Name == "" {
		in.Name = "untitled"
	}
	return in, nil
}

// compile compiles the input. Compile errors are in the returned song, not
// in err.
func (in *input) compile() (*song.Song, error) {
	c, err := songs.Compiler(in.Grammar)
	if err != nil {
		return nil, err
	}
	s := song.CompileSpan(c, in.Source, in.From, in.To)
	slog.Debug("compiled", "name", in.Name, "grammar", in.Grammar,
		"events", len(s.Events), "length", s.Length(), "errors", len(s.Errors))
	return s, nil
}

// compileClean compiles the input and fails on the first compile error.
func (in *input) compileClean() (*song.Song, error) {
	s, err := in.compile()
	if err != nil {
		return nil, err
	}
	if e := s.Err(); e != nil {
		return nil, compileError(in.Name, s.Errors[0])
	}
	return s, nil
}

func compileError(name string, e *song.Error) error {
	if e.Offset >= 0 {
		return fmt.Errorf("%s: offset %d: %s", name, e.Offset, e.Message)
	}
	return fmt.Errorf("%s: %s", name, e.Message)
}

func grammarOfPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rtttl", ".rtx":
		return songs.RTTTL
	}
	return ""
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func openLibrary(settings cli.Context) (*library.Library, error) {
	printVerbose("Opening library: %s", settings.LibraryDir)
	return library.Open(library.Options{Dir: settings.LibraryDir})
}

// exportStore opens the context's export target, or ~/.tonescribe/exports
// when the context has none.
func exportStore(settings cli.Context) (storage.Store, error) {
	if settings.Export != nil {
		return storage.Open(*settings.Export)
	}
	paths, err := cli.NewPaths()
	if err != nil {
		return nil, err
	}
	return storage.Open(storage.Target{Kind: storage.KindLocal, Dir: paths.ExportDir()})
}

// writeArtifact sends data to the export target when exportName is set,
// else to the -o file, else to stdout unless the data is binary.
func writeArtifact(ctx context.Context, data []byte, exportName string, binary bool) error {
	switch {
	case exportName != "":
		settings, err := getSettings()
		if err != nil {
			return err
		}
		store, err := exportStore(settings)
		if err != nil {
			return err
		}
		if err := store.Put(ctx, exportName, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("export %s: %w", exportName, err)
		}
		cli.PrintSuccess("Exported %s (%s)", exportName, cli.FormatBytes(len(data)))
		return nil

	case outputFile != "":
		if err := cli.OutputBytes(data, outputFile); err != nil {
			return err
		}
		if binary {
			cli.PrintSuccess("Wrote %s (%s)", outputFile, cli.FormatBytes(len(data)))
		}
		return nil

	case binary:
		return fmt.Errorf("binary output needs -o FILE or --export NAME")

	default:
		_, err := os.Stdout.Write(data)
		return err
	}
}

// newPlayer opens the context's playback backend. The returned close func
// drains the player and releases the backend.
func newPlayer(settings cli.Context) (*player.Player, func() error, error) {
	var opts []player.Option
	if settings.DeviceRate != 0 {
		f, err := pcm.L16(settings.DeviceRate)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, player.WithFormat(f))
	}

	sink, release, err := openBackend(settings.Backend)
	if err != nil {
		return nil, nil, err
	}
	p := player.New(sink, opts...)
	printVerbose("Playback: backend=%s format=%s", settings.Backend, p.Format())
	return p, func() error {
		err := p.Close()
		if release != nil {
			if rerr := release(); err == nil {
				err = rerr
			}
		}
		return err
	}, nil
}
