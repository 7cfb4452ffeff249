// Package main provides the tonescribe CLI.
//
// Usage:
//
//	tonescribe [flags] <command> [args]
//
// Commands:
//
//	compile  - Compile a tune and print its events and errors
//	render   - Render a tune to an 8-bit WAVE file
//	play     - Render and play a tune
//	link     - Link a tune to C code or a MIDI file
//	watch    - Recompile a file whenever it changes
//	songs    - Built-in tune catalog
//	library  - Saved tune library
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.tonescribe/config.yaml.
//	Use 'tonescribe config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/tonescribe/cmd/tonescribe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
