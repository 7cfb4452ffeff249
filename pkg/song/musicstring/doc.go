// Package musicstring compiles MusicString notation into a song.Song.
//
// MusicString is a whitespace separated list of words:
//
//	t120 KFMajor      # tempo and key signature
//	c d e f g a b5 rq # notes, octave 5, quarter rest
//	c#h. ebq* g!      # accidentals, dotted half, triplet, tremolo
//	tran+2 t+60ww     # transpose, ramp tempo up by 60 over two whole notes
//	tranreset
//
// Notes are a letter a-g followed, in any order, by an accidental (b, n or #),
// an octave digit (default 4) and duration letters w h q i s t x o (whole down
// to 1/128, each optionally dotted). Durations in one word add up. A trailing
// '*' makes a triplet and '!' a tremolo. 'r' is a rest. Words starting with
// '#' comment out the rest of the line.
//
// Time is tracked in beats (quarter notes) and milliseconds. A tempo word
// with duration letters ramps the tempo linearly, and elapsed time across the
// ramp follows a closed form in which the beat period moves linearly.
package musicstring
