package musicstring

import (
	"sort"
	"strings"
)

// keySignatures maps lower-cased key words to the number of accidentals in
// the key: negative for flats, positive for sharps.
var keySignatures = map[string]int{
	"kcbmajor": -7,
	"kgbmajor": -6,
	"kdbmajor": -5,
	"kabmajor": -4,
	"kebmajor": -3,
	"kbbmajor": -2,
	"kfmajor":  -1,
	"kcmajor":  0,
	"kgmajor":  1,
	"kdmajor":  2,
	"kamajor":  3,
	"kemajor":  4,
	"kbmajor":  5,
	"kf#major": 6,
	"kc#major": 7,

	"kabminor": -7,
	"kebminor": -6,
	"kbbminor": -5,
	"kfminor":  -4,
	"kcminor":  -3,
	"kgminor":  -2,
	"kdminor":  -1,
	"kaminor":  0,
	"keminor":  1,
	"kbminor":  2,
	"kf#minor": 3,
	"kgbminor": 3,
	"kc#minor": 4,
	"kdbminor": 4,
	"kg#minor": 5,
	"kd#minor": 6,
	"ka#minor": 7,
}

// KeySignature returns the accidental count for a key word such as
// "KGbMajor". Lookup is case-insensitive.
func KeySignature(word string) (int, bool) {
	n, ok := keySignatures[strings.ToLower(word)]
	return n, ok
}

// KeyNames returns the recognized key words in their canonical spelling,
// sorted by accidental count.
func KeyNames() []string {
	names := make([]string, 0, len(keySignatures))
	for k := range keySignatures {
		names = append(names, canonicalKey(k))
	}
	sort.Slice(names, func(i, j int) bool {
		ki, _ := KeySignature(names[i])
		kj, _ := KeySignature(names[j])
		if ki != kj {
			return ki < kj
		}
		return names[i] < names[j]
	})
	return names
}

// canonicalKey turns "kbbmajor" into "KBbMajor".
func canonicalKey(k string) string {
	mode := "Major"
	tonic := strings.TrimSuffix(k[1:], "major")
	if strings.HasSuffix(k, "minor") {
		mode = "Minor"
		tonic = strings.TrimSuffix(k[1:], "minor")
	}
	return "K" + strings.ToUpper(tonic[:1]) + tonic[1:] + mode
}

// Semitone offsets from C, in the order flats are added to a key signature.
// Sharps are added in the reverse order.
var flatOrder = [7]int{11, 4, 9, 2, 7, 0, 5}

// applyKey adjusts a pitch (semitones from C, before the octave is added)
// for a key signature with the given accidental count. Each step tests the
// already adjusted value.
func applyKey(pitch, key int) int {
	for i := 0; i < 7; i++ {
		if key <= -(i+1) && pitch%12 == flatOrder[i] {
			pitch--
		}
	}
	for i := 0; i < 7; i++ {
		if key >= i+1 && pitch%12 == flatOrder[6-i] {
			pitch++
		}
	}
	return pitch
}
