package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tonescribe",
	Short: "MusicString and RTTTL tune compiler",
	Long: `tonescribe - compile, render, play and link square-wave tunes.

Tunes are written in MusicString notation (the default) or as RTTTL ring
tones. A compiled tune can be rendered to an 8-bit WAVE file, played on the
sound device, or linked to C code for a microcontroller beeper or to a
Standard MIDI File.

Configuration is stored in ~/.tonescribe/ and supports multiple contexts,
similar to kubectl's context management.

Examples:
  # Compile a tune and print its events
  tonescribe compile twinkle.ms

  # Compile from a cursor position to the end of the text
  tonescribe compile twinkle.ms --from 12

  # Render to a WAVE file
  tonescribe render twinkle.ms -o twinkle.wav

  # Play a built-in tune
  tonescribe play --song twinkle_star

  # Link to C for an MSP430
  tonescribe link twinkle.ms --linker precise -o twinkle.c
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command returns the root cobra command for mounting into a parent CLI.
func Command() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.tonescribe/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "job file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(songsCmd)
	rootCmd.AddCommand(libraryCmd)
}

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		// Compile and render still work without a config file.
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", err)
	}
}

// getConfig returns the global configuration
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// getSettings returns the effective preferences of the selected context.
// Without a config file or a current context the defaults apply.
func getSettings() (cli.Context, error) {
	if globalConfig == nil {
		var eff cli.Context
		eff.Grammar = cli.DefaultGrammar
		eff.Linker = cli.DefaultLinker
		eff.Backend = cli.DefaultBackend
		if paths, err := cli.NewPaths(); err == nil {
			eff.LibraryDir = paths.LibraryDir()
		}
		return eff, nil
	}
	return globalConfig.Settings(contextName)
}

// outputResult outputs the result using cli package
func outputResult(result any, outputPath string, asJSON bool) error {
	format := cli.FormatYAML
	if asJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputPath,
	})
}

// outputTable prints a table unless JSON output was asked for.
func outputTable(result cli.Tabular, asJSON bool) error {
	if asJSON {
		return outputResult(result, outputFile, true)
	}
	return cli.Output(result, cli.OutputOptions{Format: cli.FormatTable, File: outputFile})
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
