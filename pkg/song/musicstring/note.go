package musicstring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	noteAccidentalFirst = regexp.MustCompile(`^[abcdefg][#bn]?[0-9]?([whqistxo]\.?)*\*?!?$`)
	noteOctaveFirst     = regexp.MustCompile(`^[abcdefg][0-9]?[#bn]?([whqistxo]\.?)*\*?!?$`)
	restPattern         = regexp.MustCompile(`^r([whqistxo]\.?)*\*?$`)
	tempoPattern        = regexp.MustCompile(`^t[+-]?[0-9]+([whqistxo]\.?)*\*?$`)
	tranPattern         = regexp.MustCompile(`^tran([+-]?[0-9]+|reset)$`)
)

const durationLetters = "whqistxo"

// pitchOffsets maps note letters to semitones above C.
var pitchOffsets = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

const (
	defaultOctave   = 4
	defaultDuration = 0.25
)

// note is a parsed note or rest word.
type note struct {
	rest       bool
	pitch      int // semitones above C of the given octave, accidentals applied
	octave     int
	accidental bool
	whole      float64 // duration in whole notes
	tremolo    bool
}

// value returns the note number before transposition.
func (n note) value(key int) int {
	pitch := n.pitch
	if !n.accidental {
		pitch = applyKey(pitch, key)
	}
	return pitch + (n.octave+1)*12
}

func validNote(word string) bool {
	return noteAccidentalFirst.MatchString(word) ||
		noteOctaveFirst.MatchString(word) ||
		restPattern.MatchString(word)
}

// parseNote parses a lower-cased note or rest word. It reports false when the
// word does not have the shape of a note.
func parseNote(word string) (note, bool) {
	if !validNote(word) {
		return note{}, false
	}
	n := note{octave: defaultOctave}
	if word[0] == 'r' {
		n.rest = true
	} else {
		n.pitch = pitchOffsets[word[0]]
	}

	var triplet bool
	for i := 1; i < len(word); i++ {
		c := word[i]
		switch {
		case c == 'b':
			n.pitch--
			n.accidental = true
		case c == 'n':
			n.accidental = true
		case c == '#':
			n.pitch++
			n.accidental = true
		case c == '*':
			triplet = true
		case c == '!':
			n.tremolo = true
		case c >= '0' && c <= '9':
			n.octave = int(c - '0')
		default:
			d, dotted := durationAt(word, i)
			if dotted {
				i++
			}
			n.whole += d
		}
	}
	n.whole = finishDuration(n.whole, triplet, true)
	return n, true
}

// durationAt returns the whole-note fraction of the duration letter at word[i]
// and whether it is followed by a dot. Non-duration characters count as zero.
func durationAt(word string, i int) (float64, bool) {
	idx := strings.IndexByte(durationLetters, word[i])
	if idx < 0 {
		return 0, false
	}
	d := 1 / math.Pow(2, float64(idx))
	if i+1 < len(word) && word[i+1] == '.' {
		return d * 1.5, true
	}
	return d, false
}

// finishDuration applies the default and the triplet factor to a summed
// duration.
func finishDuration(whole float64, triplet, useDefault bool) float64 {
	if whole == 0 && useDefault {
		whole = defaultDuration
	}
	if triplet {
		whole *= 2.0 / 3.0
	}
	return whole
}

// tempoChange is a parsed tempo word.
type tempoChange struct {
	relative bool
	amount   float64 // signed when relative
	whole    float64 // ramp length in whole notes, zero for an immediate change
}

// parseTempo parses a lower-cased tempo word such as "t120", "t-20" or
// "t+60hh".
func parseTempo(word string) (tempoChange, bool) {
	if !tempoPattern.MatchString(word) {
		return tempoChange{}, false
	}
	rest := word[1:]
	var tc tempoChange
	negative := false
	if rest[0] == '+' || rest[0] == '-' {
		tc.relative = true
		negative = rest[0] == '-'
		rest = rest[1:]
	}
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	amount, err := strconv.Atoi(rest[:digits])
	if err != nil {
		return tempoChange{}, false
	}
	tc.amount = float64(amount)
	if negative {
		tc.amount = -tc.amount
	}

	rest = rest[digits:]
	var triplet bool
	for i := 0; i < len(rest); i++ {
		if rest[i] == '*' {
			triplet = true
			continue
		}
		d, dotted := durationAt(rest, i)
		if dotted {
			i++
		}
		tc.whole += d
	}
	tc.whole = finishDuration(tc.whole, triplet, false)
	return tc, true
}

// parseTran parses a lower-cased transposition word. reset is true for
// "tranreset"; otherwise delta is the semitone change.
func parseTran(word string) (delta int, reset, ok bool) {
	m := tranPattern.FindStringSubmatch(word)
	if m == nil {
		return 0, false, false
	}
	if m[1] == "reset" {
		return 0, true, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false, false
	}
	return n, false, true
}
