package song

import (
	"math"
	"unicode/utf8"
)

// Window is a closed time range in seconds.
type Window struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// All is the window covering the whole timeline.
var All = Window{Start: 0, End: math.Inf(1)}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// Song is a compiled timeline. Events are kept in append order, which is
// also chronological order: every append starts at or after the end of the
// previous event.
type Song struct {
	Events []Event
	Errors []*Error

	// Selection limits which events consumers such as linkers export.
	// It defaults to All.
	Selection Window

	length float64
}

// New returns an empty Song with the default selection window.
func New() *Song {
	return &Song{Selection: All}
}

// Length returns the end time in seconds of the last appended event.
func (s *Song) Length() float64 {
	return s.length
}

// AddTone appends a tone at the current end of the song.
func (s *Song) AddTone(dur, freq float64) {
	s.AddToneAt(s.length, dur, freq)
}

// AddToneAt appends a tone starting at the given clock time. Times earlier
// than Length are moved to Length so the timeline never runs backwards.
func (s *Song) AddToneAt(at, dur, freq float64) {
	at = math.Max(at, s.length)
	s.Events = append(s.Events, Tone{Time: at, Length: dur, Freq: freq})
	s.length = at + dur
}

// AddNote appends a tone for a note number at the current end of the song.
func (s *Song) AddNote(dur float64, note int) {
	s.AddTone(dur, NoteFreq(note))
}

// AddNoteWhole appends a tone whose duration is given as a fraction of a
// whole note at the given tempo.
func (s *Song) AddNoteWhole(whole, bpm float64, note int) {
	s.AddNote(WholeToSeconds(whole, bpm), note)
}

// AddRest appends a rest at the current end of the song.
func (s *Song) AddRest(dur float64) {
	s.AddRestAt(s.length, dur)
}

// AddRestAt appends a rest starting at the given clock time, with the same
// clamping as AddToneAt.
func (s *Song) AddRestAt(at, dur float64) {
	at = math.Max(at, s.length)
	s.Events = append(s.Events, Rest{Time: at, Length: dur})
	s.length = at + dur
}

// AddError records a compile error of the given kind.
func (s *Song) AddError(kind error, offset int, msg string) {
	s.Errors = append(s.Errors, &Error{Kind: kind, Offset: offset, Message: msg})
}

// Err returns the first compile error, or nil if the song compiled cleanly.
func (s *Song) Err() error {
	if len(s.Errors) == 0 {
		return nil
	}
	return s.Errors[0]
}

// Tones returns the number of tone events.
func (s *Song) Tones() int {
	n := 0
	for _, ev := range s.Events {
		if _, ok := ev.(Tone); ok {
			n++
		}
	}
	return n
}

// InSelection reports whether ev starts inside the selection window.
func (s *Song) InSelection(ev Event) bool {
	return s.Selection.Contains(ev.Start())
}

// Selected returns the events that start inside the selection window.
func (s *Song) Selected() []Event {
	var out []Event
	for _, ev := range s.Events {
		if s.InSelection(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// NoteFreq returns the frequency in Hz of a MIDI-style note number, where 60
// is middle C.
func NoteFreq(note int) float64 {
	return 8.1757989156 * math.Pow(2, float64(note)/12)
}

// WholeToSeconds converts a duration in whole notes to seconds at a constant
// tempo in quarter-note beats per minute.
func WholeToSeconds(whole, bpm float64) float64 {
	return whole * 4 * 60 / bpm
}

// Compiler turns source text into a Song. selStart and selEnd are character
// offsets into text; grammars that support selection only append events for
// tokens intersecting that range.
type Compiler interface {
	Compile(text string, selStart, selEnd int) *Song
}

// Span resolves a compile range over text in characters. A negative from
// means the start of the text and a negative to means its end, so (-1, -1)
// is the whole text and (n, -1) runs from a cursor at n to the end.
func Span(text string, from, to int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to < 0 {
		to = utf8.RuneCountInString(text)
	}
	return from, to
}

// CompileSpan compiles text with c over the range Span resolves.
func CompileSpan(c Compiler, text string, from, to int) *Song {
	from, to = Span(text, from, to)
	return c.Compile(text, from, to)
}
