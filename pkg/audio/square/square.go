// Package square renders compiled songs as square-wave audio.
//
// Output is interleaved 8-bit signed stereo at 44.1 kHz (pcm.S8Stereo44K).
// A Renderer keeps its wave polarity between tones and between renders so
// consecutive tones continue the same cycle. Call Reset before a render
// that must be reproducible.
package square

import (
	"math"

	"github.com/haivivi/tonescribe/pkg/audio/pcm"
	"github.com/haivivi/tonescribe/pkg/song"
)

const (
	// SampleRate is the output sample rate in Hz.
	SampleRate = 44100

	// Channels is the number of interleaved output channels.
	Channels = 2

	// Slack stretches buffer sizing and every tone offset alike.
	Slack = 1.05

	// Volume is the high level of the wave. The low level is -Volume-1.
	Volume = 127 / 2
)

// Format is the PCM layout Render produces.
const Format = pcm.S8Stereo44K

// BufferSize returns the byte size of a render of a song lengthSec long:
// the song stretched by Slack, truncated, plus SampleRate bytes (half a
// second of stereo).
func BufferSize(lengthSec float64) int {
	return int(float64(Channels*SampleRate)*lengthSec*Slack) + SampleRate
}

// Renderer synthesizes songs. It is not safe for concurrent use.
type Renderer struct {
	low bool
}

// New returns a renderer starting on the high half of the wave.
func New() *Renderer {
	return &Renderer{}
}

// Reset returns the polarity to its initial state.
func (r *Renderer) Reset() {
	r.low = false
}

// Render returns the audio for every tone in s. Rests stay silent. Samples
// that would land past the end of the buffer are dropped.
func (r *Renderer) Render(s *song.Song) []byte {
	buf := make([]byte, BufferSize(s.Length()))
	for _, ev := range s.Events {
		switch ev := ev.(type) {
		case song.Tone:
			r.tone(buf, ev)
		case song.Rest:
		}
	}
	return buf
}

// RenderChunk is Render wrapped as a chunk of Format.
func (r *Renderer) RenderChunk(s *song.Song) pcm.Chunk {
	return Format.DataChunk(r.Render(s))
}

func (r *Renderer) tone(buf []byte, t song.Tone) {
	if t.Freq <= 0 {
		return
	}
	offset := int(math.Round(SampleRate * t.Time * Slack))
	samples := int(math.Round(SampleRate * t.Length))
	period := SampleRate / t.Freq

	var remaining float32
	for i := range samples {
		v := int8(Volume)
		if r.low {
			v = -Volume - 1
		}

		remaining--
		if remaining < -1 {
			remaining = -1
		}
		if remaining <= 0 {
			remaining = float32(float64(remaining) + period)
			r.low = !r.low
		}

		at := (offset + i) * Channels
		if at+Channels > len(buf) {
			return
		}
		for ch := range Channels {
			buf[at+ch] = byte(v)
		}
	}
}
