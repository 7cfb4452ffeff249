package pcm

import (
	"fmt"
	"io"
	"time"
)

const (
	// S8Stereo44K is 8-bit signed, 2 channels, 44100 Hz. Rendered songs use it.
	S8Stereo44K Format = iota
	// L16Stereo44K is 16-bit signed little-endian, 2 channels, 44100 Hz.
	L16Stereo44K
	// L16Stereo48K is 16-bit signed little-endian, 2 channels, 48000 Hz.
	L16Stereo48K
	// L16Mono44K is 16-bit signed little-endian, 1 channel, 44100 Hz.
	L16Mono44K
)

// Chunk is a chunk of audio data.
type Chunk interface {
	Len() int64
	Format() Format
	WriteTo(w io.Writer) (int64, error)
}

// Format identifies a PCM layout: sample rate, channel count and bit depth.
// Samples are interleaved by channel.
type Format int

type layout struct {
	rate     int
	channels int
	depth    int
	name     string
}

var layouts = [...]layout{
	S8Stereo44K:  {44100, 2, 8, "audio/S8; rate=44100; channels=2"},
	L16Stereo44K: {44100, 2, 16, "audio/L16; rate=44100; channels=2"},
	L16Stereo48K: {48000, 2, 16, "audio/L16; rate=48000; channels=2"},
	L16Mono44K:   {44100, 1, 16, "audio/L16; rate=44100; channels=1"},
}

func (f Format) layout() layout {
	if f < 0 || int(f) >= len(layouts) {
		panic("pcm: invalid audio format")
	}
	return layouts[f]
}

// L16 returns the 16-bit stereo format for a sample rate.
func L16(rate int) (Format, error) {
	for f, l := range layouts {
		if l.rate == rate && l.depth == 16 && l.channels == 2 {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("pcm: no 16-bit stereo format at %d Hz", rate)
}

// SampleRate returns the sample rate in Hz.
func (f Format) SampleRate() int { return f.layout().rate }

// Channels returns the number of interleaved channels.
func (f Format) Channels() int { return f.layout().channels }

// Depth returns the bits per sample.
func (f Format) Depth() int { return f.layout().depth }

// FrameSize returns the bytes in one sample of every channel.
func (f Format) FrameSize() int {
	return f.Channels() * f.Depth() / 8
}

// Samples returns the number of samples per channel in the given bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes / int64(f.FrameSize())
}

// SamplesInDuration returns the number of samples per channel in d.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate()) * d / time.Second)
}

// BytesInDuration returns the number of bytes in d.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * int64(f.FrameSize())
}

// Duration returns the play time of the given bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.SampleRate())
}

// BytesRate returns bytes per second.
func (f Format) BytesRate() int {
	return f.SampleRate() * f.FrameSize()
}

// SilenceChunk returns a silence chunk of the given duration.
func (f Format) SilenceChunk(duration time.Duration) Chunk {
	return &SilenceChunk{
		Duration: duration,
		len:      f.BytesInDuration(duration),
		fmt:      f,
	}
}

// DataChunk wraps data as a chunk of this format.
func (f Format) DataChunk(data []byte) Chunk {
	return &DataChunk{Data: data, fmt: f}
}

func (f Format) String() string {
	return f.layout().name
}

// DataChunk is a chunk of audio data.
type DataChunk struct {
	Data []byte
	fmt  Format
}

// Len returns the length of the audio data in bytes.
func (c *DataChunk) Len() int64 { return int64(len(c.Data)) }

// Format returns the audio format of this chunk.
func (c *DataChunk) Format() Format { return c.fmt }

// WriteTo writes the audio data to w.
func (c *DataChunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Data)
	return int64(n), err
}

// SilenceChunk is a chunk of silence.
type SilenceChunk struct {
	Duration time.Duration
	len      int64
	fmt      Format
}

// Len returns the length of the silence in bytes.
func (c *SilenceChunk) Len() int64 { return c.len }

// Format returns the audio format of this chunk.
func (c *SilenceChunk) Format() Format { return c.fmt }

var zeros [8192]byte

// WriteTo writes zero bytes to w. Zero is silence for every signed format.
func (c *SilenceChunk) WriteTo(w io.Writer) (int64, error) {
	var wn int64
	for wn < c.len {
		n, err := w.Write(zeros[:min(int64(len(zeros)), c.len-wn)])
		wn += int64(n)
		if err != nil {
			return wn, err
		}
	}
	return wn, nil
}
