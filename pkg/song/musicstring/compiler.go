package musicstring

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/haivivi/tonescribe/pkg/song"
)

const defaultTempo = 120

// Tremolo alternates between the note and a pitch 1% above it, eight times
// per beat.
const (
	tremolosPerBeat = 8
	tremoloDetune   = 0.01
)

// Compiler compiles MusicString text. It holds no state between calls, so a
// single Compiler may be shared by several goroutines.
type Compiler struct{}

// New returns a MusicString compiler.
func New() *Compiler {
	return &Compiler{}
}

var _ song.Compiler = (*Compiler)(nil)

// state is the per-call compiler state. It is created fresh by Compile and
// dropped when Compile returns.
type state struct {
	clock    clock
	tran     int
	key      int
	selStart int
	selEnd   int
	song     *song.Song
}

func newState(selStart, selEnd int) *state {
	return &state{
		clock:    clock{tempo: defaultTempo},
		selStart: selStart,
		selEnd:   selEnd,
		song:     song.New(),
	}
}

// Compile compiles text. Only notes and rests whose character range
// intersects [selStart, selEnd] are added to the song, but every note
// advances the clock so selected events keep their absolute times.
// Compilation stops at the first error, which is recorded in the song.
func (c *Compiler) Compile(text string, selStart, selEnd int) *song.Song {
	st := newState(selStart, selEnd)
	for _, tok := range Tokenize(text) {
		if err := st.word(tok); err != nil {
			st.song.AddError(err.kind, tok.Start, err.msg)
			slog.Debug("musicstring: compile stopped", "offset", tok.Start, "word", tok.Text, "error", err.msg)
			return st.song
		}
	}
	slog.Debug("musicstring: compiled", "events", len(st.song.Events), "length", st.song.Length())
	return st.song
}

type wordError struct {
	kind error
	msg  string
}

func (st *state) word(tok Token) *wordError {
	word := strings.ToLower(tok.Text)
	if strings.HasPrefix(word, "tran") {
		delta, reset, ok := parseTran(word)
		if !ok {
			return &wordError{song.ErrMalformedTransposition, `Cannot read a "tran" token.`}
		}
		if reset {
			st.tran = 0
		} else {
			st.tran += delta
		}
		return nil
	}

	switch word[0] {
	case 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'r':
		n, ok := parseNote(word)
		if !ok {
			return &wordError{song.ErrMalformedNote, "Cannot read note: " + tok.Text}
		}
		st.note(tok, n)
	case 'k':
		key, ok := KeySignature(word)
		if !ok {
			return &wordError{song.ErrUnknownKey, "Could not read key signature: " + tok.Text}
		}
		st.key = key
	case 't':
		tc, ok := parseTempo(word)
		if !ok {
			return &wordError{song.ErrMalformedTempo, "Cannot read tempo change: " + tok.Text}
		}
		if !st.tempo(tc) {
			return &wordError{song.ErrMalformedTempo, fmt.Sprintf("Cannot read tempo change: %s (tempo must stay above zero)", tok.Text)}
		}
	default:
		return &wordError{song.ErrUnknownToken, "Cannot read this word: " + tok.Text + " . Try putting a '#' in front of it."}
	}
	return nil
}

// tempo applies a tempo change. It reports false if the resulting tempo is
// not positive; the word is then an ErrMalformedTempo error, since every
// duration divides by the tempo.
func (st *state) tempo(tc tempoChange) bool {
	old := st.clock.tempo
	next := tc.amount
	if tc.relative {
		next = old + tc.amount
	}
	if next <= 0 {
		return false
	}
	st.clock.tempo = next
	if tc.whole > 0 {
		st.clock.ramp = ramp{
			start:   st.clock.beat,
			length:  tc.whole * 4,
			initial: old,
			final:   next,
		}
	}
	return true
}

func (st *state) selected(tok Token) bool {
	return tok.Start <= st.selEnd && tok.End() >= st.selStart
}

func (st *state) note(tok Token, n note) {
	at := st.clock.seconds()
	beats := n.whole * 4
	ms := st.clock.advance(beats)
	if !st.selected(tok) {
		return
	}
	if n.rest {
		st.song.AddRestAt(at, ms/1000)
		return
	}
	freq := song.NoteFreq(n.value(st.key) + st.tran)
	if !n.tremolo {
		st.song.AddToneAt(at, ms/1000, freq)
		return
	}

	count := int(math.Ceil(beats * tremolosPerBeat))
	sub := ms / float64(count) / 1000
	for i := range count {
		st.song.AddToneAt(at+float64(i)*sub, sub, freq*(1+tremoloDetune*float64(i%2)))
	}
}
