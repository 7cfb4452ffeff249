// Package rtttl compiles Nokia Ring Tone Text Transfer Language into a
// song.Song.
//
// An RTTTL tune has three colon separated sections, a name, settings and
// notes:
//
//	Beep:d=8,o=5,b=120:c,e,g,2c6,p,4.g#4
//
// The compiler accepts standard RTTTL plus two extensions: flats ("eb") and a
// dot written before the note letter ("8.c").
package rtttl

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/haivivi/tonescribe/pkg/song"
)

const maxNameLength = 10

// Settings defaults.
const (
	DefaultDuration = 4
	DefaultOctave   = 6
	DefaultTempo    = 63
)

// Compiler compiles RTTTL text. It is stateless and safe for concurrent use.
type Compiler struct{}

// New returns an RTTTL compiler.
func New() *Compiler {
	return &Compiler{}
}

var _ song.Compiler = (*Compiler)(nil)

// Settings is the parsed settings section.
type Settings struct {
	Duration int // default note duration, as a divisor of a whole note
	Octave   int
	Tempo    int // beats per minute
}

// Compile compiles the whole text. RTTTL has no selection support, so
// selStart and selEnd are ignored. Compilation stops at the first error.
func (c *Compiler) Compile(text string, _, _ int) *song.Song {
	s := song.New()
	if err := compile(s, text); err != nil {
		s.AddError(err.kind, err.offset, err.msg)
		slog.Debug("rtttl: compile stopped", "offset", err.offset, "error", err.msg)
		return s
	}
	slog.Debug("rtttl: compiled", "events", len(s.Events), "length", s.Length())
	return s
}

type compileError struct {
	kind   error
	offset int
	msg    string
}

func fail(kind error, offset int, msg string) *compileError {
	return &compileError{kind: kind, offset: offset, msg: msg}
}

func compile(s *song.Song, text string) *compileError {
	sections := split(text, ":")
	switch {
	case len(sections) > 3:
		return fail(song.ErrStructure, -1, "Too many sections: remove extra colons (only 2 allowed in file)")
	case len(sections) < 3:
		return fail(song.ErrStructure, -1, "Missing sections: add either a name, settings, or notes until there are 3 sections of this song separated by colons (':')")
	}

	name := strings.TrimSpace(sections[0].text)
	if utf8.RuneCountInString(name) > maxNameLength {
		return fail(song.ErrStructure, sections[0].offset(text), "Name of song must be 10 letters or less.")
	}

	settings, err := parseSettings(sections[1].text)
	if err != nil {
		err.offset = sections[1].offset(text)
		return err
	}

	notesStart := sections[2].start
	for _, part := range split(sections[2].text, ",") {
		part.start += notesStart
		n, err := parseNote(strings.ToLower(strings.TrimSpace(part.text)), settings)
		if err != nil {
			err.offset = part.offset(text)
			return err
		}
		if n.rest {
			s.AddRest(song.WholeToSeconds(n.whole, float64(settings.Tempo)))
		} else {
			s.AddNoteWhole(n.whole, float64(settings.Tempo), n.value)
		}
	}
	return nil
}

// ParseSettings parses a settings section such as "d=4,o=5,b=120".
func ParseSettings(section string) (Settings, error) {
	st, err := parseSettings(section)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %s", err.kind, err.msg)
	}
	return st, nil
}

func parseSettings(section string) (Settings, *compileError) {
	st := Settings{Duration: DefaultDuration, Octave: DefaultOctave, Tempo: DefaultTempo}
	bad := fail(song.ErrMalformedSettings, -1, "Cannot read settings section. Look at a working example for help.")
	for _, part := range split(section, ",") {
		key := strings.ToLower(strings.TrimSpace(part.text))
		if key == "" {
			return st, bad
		}
		v, err := strconv.Atoi(key[strings.IndexByte(key, '=')+1:])
		if err != nil {
			return st, bad
		}
		switch key[0] {
		case 'd':
			st.Duration = v
		case 'o':
			st.Octave = v
		case 'b':
			st.Tempo = v
		default:
			return st, fail(song.ErrMalformedSettings, -1, "Value "+part.text+" in settings section is not allowed.")
		}
	}
	if st.Duration <= 0 || st.Tempo <= 0 {
		return st, bad
	}
	return st, nil
}

type note struct {
	rest  bool
	value int
	whole float64
}

// scale maps note letters to semitones above C.
var scale = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// parseNote parses one lower-cased, trimmed note such as "4.c#5".
func parseNote(word string, st Settings) (note, *compileError) {
	broken := fail(song.ErrMalformedNote, -1, "Cannot read note; something is wrong.")

	i := 0
	for i < 2 && i < len(word) && isDigit(word[i]) {
		i++
	}
	duration := st.Duration
	if i > 0 {
		duration, _ = strconv.Atoi(word[:i])
	}
	dotted := false
	if i < len(word) && word[i] == '.' {
		dotted = true
		i++
	}

	if i >= len(word) {
		return note{}, broken
	}
	var n note
	switch letter := word[i]; {
	case letter == 'p':
		n.rest = true
	case strings.IndexByte("cdefgab", letter) >= 0:
		n.value = scale[letter]
	default:
		return note{}, fail(song.ErrMalformedNote, -1, "Cannot read note: "+word)
	}
	i++
	if i < len(word) && (word[i] == '#' || word[i] == 'b') {
		if word[i] == 'b' {
			n.value--
		} else {
			n.value++
		}
		i++
	}

	octave := st.Octave
	if i < len(word) && isDigit(word[i]) {
		if word[i] < '4' || word[i] > '7' {
			return note{}, fail(song.ErrMalformedNote, -1, "RTTTL only allows octaves 4-7.")
		}
		octave = int(word[i] - '0')
		i++
	}
	if i < len(word) && word[i] == '.' {
		dotted = true
	}

	if duration <= 0 {
		return note{}, broken
	}
	n.whole = 1 / float64(duration)
	if dotted {
		n.whole *= 1.5
	}
	if !n.rest {
		n.value += (octave + 1) * 12
	}
	return n, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// section is a piece of the source text and its byte offset.
type section struct {
	text  string
	start int
}

// offset returns the character offset of the section in text.
func (s section) offset(text string) int {
	return utf8.RuneCountInString(text[:s.start])
}

// split splits s around sep and drops trailing empty pieces, so "a:b:" has
// two sections, not three.
func split(s, sep string) []section {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	out := make([]section, len(parts))
	pos := 0
	for i, p := range parts {
		out[i] = section{text: p, start: pos}
		pos += len(p) + len(sep)
	}
	return out
}
