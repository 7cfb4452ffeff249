package linker

import (
	"io"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/haivivi/tonescribe/pkg/song"
)

// MIDI timing. Songs are already in seconds, so the file uses a fixed tempo
// and converts seconds straight to ticks.
const (
	midiTicksPerQuarter = 960
	midiTempo           = 120
	midiTicksPerSecond  = midiTicksPerQuarter * midiTempo / 60
	midiChannel         = 0
	midiVelocity        = 100
)

// MIDI writes a format 0 Standard MIDI File with one note per tone.
var MIDI Linker = Func(linkMIDI)

func linkMIDI(w io.Writer, s *song.Song) error {
	if err := checkSong(s); err != nil {
		return err
	}
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("tonescribe"))
	tr.Add(0, smf.MetaTempo(midiTempo))

	var last uint32
	for _, ev := range s.Selected() {
		tone, ok := ev.(song.Tone)
		if !ok {
			continue
		}
		on, off := ticks(tone.Time), ticks(tone.Time+tone.Length)
		if on < last {
			on = last
		}
		if off < on {
			off = on
		}
		key := MIDIKey(tone.Freq)
		tr.Add(on-last, midi.NoteOn(midiChannel, key, midiVelocity))
		tr.Add(off-on, midi.NoteOff(midiChannel, key))
		last = off
	}
	tr.Close(0)

	f := smf.New()
	f.TimeFormat = smf.MetricTicks(midiTicksPerQuarter)
	if err := f.Add(tr); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

func ticks(sec float64) uint32 {
	return uint32(math.Round(sec * midiTicksPerSecond))
}

// MIDIKey returns the MIDI key closest to freq, clamped to 0..127.
func MIDIKey(freq float64) uint8 {
	if freq <= 0 {
		return 0
	}
	k := math.Round(69 + 12*math.Log2(freq/440))
	return uint8(max(0, min(127, k)))
}
