package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/tonescribe/pkg/cli"
	"github.com/haivivi/tonescribe/pkg/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage tonescribe configuration.

Configuration is stored in ~/.tonescribe/config.yaml.
Multiple contexts can be defined, each with its own grammar, linker,
playback backend, device rate, library directory and export target.`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add or replace a context",
	Long: `Add a context. Unset preferences fall back to the defaults
(grammar musicstring, linker generic, backend oto, device rate 44100).

Examples:
  tonescribe config add-context ring --grammar rtttl --linker beep
  tonescribe config add-context studio --backend portaudio --device-rate 48000
  tonescribe config add-context cloud --export-kind s3 --bucket tunes --prefix renders \
      --region us-east-1 --access-key AKIA... --secret-key ...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		f := cmd.Flags()
		ctx := &cli.Context{Name: name}
		ctx.Grammar, _ = f.GetString("grammar")
		ctx.Linker, _ = f.GetString("linker")
		ctx.Backend, _ = f.GetString("backend")
		ctx.DeviceRate, _ = f.GetInt("device-rate")
		ctx.LibraryDir, _ = f.GetString("library-dir")

		kind, _ := f.GetString("export-kind")
		if kind != "" {
			t := &storage.Target{Kind: kind}
			t.Dir, _ = f.GetString("export-dir")
			t.Bucket, _ = f.GetString("bucket")
			t.Prefix, _ = f.GetString("prefix")
			t.Region, _ = f.GetString("region")
			t.Endpoint, _ = f.GetString("endpoint")
			t.AccessKey, _ = f.GetString("access-key")
			t.SecretKey, _ = f.GetString("secret-key")
			switch kind {
			case storage.KindLocal:
				if t.Dir == "" {
					return fmt.Errorf("--export-dir is required for a local export target")
				}
			case storage.KindS3:
				if t.Bucket == "" {
					return fmt.Errorf("--bucket is required for an s3 export target")
				}
			}
			ctx.Export = t
		}

		extra, _ := f.GetStringArray("extra")
		for _, kv := range extra {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid --extra %q, want key=value", kv)
			}
			ctx.SetExtra(k, v)
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context '%s' added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context '%s' deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the default context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context '%s'", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context [name]",
	Short: "Show a context with defaults applied (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		name := contextName
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" && cfg.CurrentContext == "" {
			cli.PrintInfo("No current context set, showing defaults")
		}
		eff, err := cfg.Settings(name)
		if err != nil {
			return err
		}
		return outputResult(eff.Masked(), outputFile, outputJSON)
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}
		for _, name := range names {
			marker := "  "
			if name == cfg.CurrentContext {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, name)
		}
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View full configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		view := struct {
			Path           string                  `yaml:"path" json:"path"`
			CurrentContext string                  `yaml:"current_context,omitempty" json:"current_context,omitempty"`
			Contexts       map[string]*cli.Context `yaml:"contexts,omitempty" json:"contexts,omitempty"`
		}{
			Path:           cfg.Path(),
			CurrentContext: cfg.CurrentContext,
			Contexts:       make(map[string]*cli.Context, len(cfg.Contexts)),
		}
		for name, ctx := range cfg.Contexts {
			view.Contexts[name] = ctx.Masked()
		}
		return outputResult(view, outputFile, outputJSON)
	},
}

func init() {
	f := configAddContextCmd.Flags()
	f.String("grammar", "", "tune grammar: musicstring or rtttl")
	f.String("linker", "", "default linker: generic, beep, precise or midi")
	f.String("backend", "", "playback backend: oto or portaudio")
	f.Int("device-rate", 0, "device sample rate (0 plays at 44100 Hz)")
	f.String("library-dir", "", "tune library directory (default ~/.tonescribe/library)")
	f.String("export-kind", "", "export target kind: local or s3")
	f.String("export-dir", "", "local export directory")
	f.String("bucket", "", "S3 bucket")
	f.String("prefix", "", "S3 key prefix")
	f.String("region", "", "S3 region")
	f.String("endpoint", "", "S3-compatible endpoint URL")
	f.String("access-key", "", "S3 access key")
	f.String("secret-key", "", "S3 secret key")
	f.StringArray("extra", nil, "extra key=value setting (repeatable)")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
