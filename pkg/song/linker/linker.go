// Package linker turns compiled songs into code and files for other targets:
// C snippets for microcontroller beepers and Standard MIDI Files.
//
// Every linker skips events that start outside the song's selection window,
// and refuses to link a song that has compile errors.
package linker

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/haivivi/tonescribe/pkg/song"
)

var (
	// ErrUnknown is returned by ByName for an unregistered linker name.
	ErrUnknown = errors.New("linker: unknown linker")
	// ErrSongHasErrors is returned when linking a song that failed to compile.
	ErrSongHasErrors = errors.New("linker: song has compile errors")
)

// Linker writes a song in a target format.
type Linker interface {
	Link(w io.Writer, s *song.Song) error
}

// Func adapts a function to the Linker interface.
type Func func(w io.Writer, s *song.Song) error

// Link implements Linker.
func (f Func) Link(w io.Writer, s *song.Song) error {
	return f(w, s)
}

// Info describes a registered linker.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Ext         string `json:"ext" yaml:"ext"` // file extension for its output
	Binary      bool   `json:"binary" yaml:"binary"`
}

type entry struct {
	info   Info
	linker Linker
}

var registry = map[string]entry{
	"generic": {
		Info{Name: "generic", Description: "beep(freq, ms); and delayMS(ms); calls", Ext: ".c"},
		Generic,
	},
	"beep": {
		Info{Name: "beep", Description: "beep(freq, ms); and __delay_cycles(us); calls", Ext: ".c"},
		Beep,
	},
	"precise": {
		Info{Name: "precise", Description: "complete MSP430 program with a cycle counted beep()", Ext: ".c"},
		Precise,
	},
	"midi": {
		Info{Name: "midi", Description: "Standard MIDI File, one track", Ext: ".mid", Binary: true},
		MIDI,
	},
}

// ByName returns the linker registered under name.
func ByName(name string) (Linker, Info, error) {
	e, ok := registry[name]
	if !ok {
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return e.linker, e.info, nil
}

// Names returns the registered linker names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the descriptions of all registered linkers, sorted by name.
func All() []Info {
	var out []Info
	for _, name := range Names() {
		out = append(out, registry[name].info)
	}
	return out
}

func checkSong(s *song.Song) error {
	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSongHasErrors, err)
	}
	return nil
}
