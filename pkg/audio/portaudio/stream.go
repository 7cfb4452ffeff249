package portaudio

import (
	"fmt"
	"io"
	"time"

	"github.com/haivivi/tonescribe/pkg/audio/pcm"
)

// DefaultBuffer is the buffer length used when a Sink has none set.
const DefaultBuffer = 20 * time.Millisecond

// OutputStream plays 16-bit PCM written to it on the default output device.
// Write blocks until the device has taken the audio.
type OutputStream struct {
	s      *stream
	format pcm.Format
	block  int
}

// NewOutputStream opens the default output device for format, which must be
// 16-bit.
func NewOutputStream(format pcm.Format, buffer time.Duration) (*OutputStream, error) {
	if format.Depth() != 16 {
		return nil, fmt.Errorf("portaudio: %v: only 16-bit output is supported", format)
	}
	frames := int(format.SamplesInDuration(buffer))
	s, err := openStream(format.Channels(), float64(format.SampleRate()), frames)
	if err != nil {
		return nil, err
	}
	return &OutputStream{s: s, format: format, block: frames * format.FrameSize()}, nil
}

// Format returns the stream's PCM format.
func (o *OutputStream) Format() pcm.Format {
	return o.format
}

// Write implements io.Writer. A trailing partial frame is not played but is
// counted as written.
func (o *OutputStream) Write(p []byte) (int, error) {
	for off := 0; off < len(p); off += o.block {
		end := min(off+o.block, len(p))
		if err := o.s.write(p[off:end]); err != nil {
			return off, err
		}
	}
	return len(p), nil
}

// Close stops playback and releases the device.
func (o *OutputStream) Close() error {
	return o.s.close()
}

// Sink opens output streams on the default device.
type Sink struct {
	// Buffer is the device buffer length. Zero means DefaultBuffer.
	Buffer time.Duration
}

// Open opens an output stream for format.
func (s Sink) Open(format pcm.Format) (io.WriteCloser, error) {
	buf := s.Buffer
	if buf <= 0 {
		buf = DefaultBuffer
	}
	return NewOutputStream(format, buf)
}
