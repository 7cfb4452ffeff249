package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/cli"
	"github.com/haivivi/tonescribe/pkg/library"
)

// tuneList lists library tunes.
type tuneList []*library.Tune

func (t tuneList) Header() []string { return []string{"NAME", "GRAMMAR", "UPDATED", "ID"} }

func (t tuneList) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, tune := range t {
		rows = append(rows, []string{tune.Name, tune.Grammar, tune.Updated.Local().Format("2006-01-02 15:04"), tune.ID})
	}
	return rows
}

// ImportFile is the file read by `library import`.
type ImportFile struct {
	Tunes []ImportTune `yaml:"tunes" json:"tunes"`
}

// ImportTune is one entry of an ImportFile.
type ImportTune struct {
	Name    string `yaml:"name" json:"name"`
	Grammar string `yaml:"grammar" json:"grammar"`
	Source  string `yaml:"source" json:"source"`
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Saved tune library",
	Long: `Save tune sources by name in the tune library
(default ~/.tonescribe/library, set library_dir in the context).

Library tunes can be used by every compiling command with --tune NAME.

Examples:
  tonescribe library put twinkle twinkle.ms
  tonescribe library put ring ring.rtttl --grammar rtttl
  tonescribe library list
  tonescribe compile --tune twinkle
  tonescribe library import -f tunes.yaml`,
}

var libraryPutGrammar string

var libraryPutCmd = &cobra.Command{
	Use:   "put <name> [FILE|-]",
	Short: "Save a tune source",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 2 {
			path = args[1]
		}
		source, err := cli.ReadSource(path)
		if err != nil {
			return err
		}
		settings, err := getSettings()
		if err != nil {
			return err
		}
		grammar := firstNonEmpty(libraryPutGrammar, grammarOfPath(path), settings.Grammar)
		return withLibrary(settings, func(lib *library.Library) error {
			return putTune(cmd, lib, args[0], grammar, source)
		})
	},
}

var libraryGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a saved tune",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := getSettings()
		if err != nil {
			return err
		}
		return withLibrary(settings, func(lib *library.Library) error {
			t, err := lib.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return outputResult(t, outputFile, outputJSON)
		})
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved tunes",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := getSettings()
		if err != nil {
			return err
		}
		return withLibrary(settings, func(lib *library.Library) error {
			tunes, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(tunes) == 0 && !outputJSON {
				fmt.Println("No tunes saved")
				return nil
			}
			return outputTable(tuneList(tunes), outputJSON)
		})
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved tune",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := getSettings()
		if err != nil {
			return err
		}
		return withLibrary(settings, func(lib *library.Library) error {
			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cli.PrintSuccess("Tune '%s' deleted", args[0])
			return nil
		})
	},
}

var libraryImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tunes from a YAML or JSON file (-f)",
	Long: `Import tunes listed in a file given with -f:

  tunes:
    - name: twinkle
      source: c c g g a a gh
    - name: nokia
      grammar: rtttl
      source: "Nokia:d=4,o=5,b=180:8e6,8d6,4f#,4g#"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == "" {
			return fmt.Errorf("-f FILE is required")
		}
		var file ImportFile
		if err := cli.LoadRequest(inputFile, &file); err != nil {
			return err
		}
		settings, err := getSettings()
		if err != nil {
			return err
		}
		return withLibrary(settings, func(lib *library.Library) error {
			for _, t := range file.Tunes {
				grammar := firstNonEmpty(t.Grammar, settings.Grammar)
				if err := putTune(cmd, lib, t.Name, grammar, t.Source); err != nil {
					return err
				}
			}
			cli.PrintInfo("Imported %d tune(s)", len(file.Tunes))
			return nil
		})
	},
}

func withLibrary(settings cli.Context, fn func(*library.Library) error) error {
	lib, err := openLibrary(settings)
	if err != nil {
		return err
	}
	err = fn(lib)
	if cerr := lib.Close(); err == nil {
		err = cerr
	}
	return err
}

// putTune saves a tune and warns when it does not compile cleanly.
func putTune(cmd *cobra.Command, lib *library.Library, name, grammar, source string) error {
	t, err := lib.Put(cmd.Context(), name, grammar, source)
	if err != nil {
		return err
	}
	if _, err := t.Compile(); err != nil {
		cli.PrintWarning("%s does not compile: %v", name, err)
	}
	cli.PrintSuccess("Saved '%s' (%s)", t.Name, t.Grammar)
	return nil
}

func init() {
	libraryPutCmd.Flags().StringVar(&libraryPutGrammar, "grammar", "", "tune grammar: musicstring or rtttl")

	libraryCmd.AddCommand(libraryPutCmd)
	libraryCmd.AddCommand(libraryGetCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
	libraryCmd.AddCommand(libraryImportCmd)
}
