// Package cli holds the shared pieces of the tonescribe command line.
//
// This package includes:
//   - Configuration contexts (grammar, linker, backend, device rate,
//     library directory and export target), stored like kubectl contexts
//     in ~/.tonescribe/config.yaml
//   - Output formatting (YAML, JSON, table, raw) and print helpers
//   - Job and tune file loading (YAML/JSON)
//   - The watch screen frame and its log ring
//
// Example usage:
//
//	cfg, err := cli.LoadConfig()
//	settings, err := cfg.Settings("")
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
