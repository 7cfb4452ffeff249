package resampler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/haivivi/tonescribe/pkg/audio/pcm"
)

// ErrClosed is returned by Read after Close.
var ErrClosed = errors.New("resampler: closed")

// Reader reads from a source in one 16-bit format and returns the audio in
// another. Channel conversion happens before rate conversion.
type Reader struct {
	from, to pcm.Format
	src      io.Reader

	mu       sync.Mutex
	err      error
	rs       resampling.Resampler
	raw      []byte
	leftover []byte
}

// New returns a Reader converting src from one format to another. Both must
// be 16-bit.
func New(src io.Reader, from, to pcm.Format) (*Reader, error) {
	if from.Depth() != 16 || to.Depth() != 16 {
		return nil, fmt.Errorf("resampler: %v to %v: only 16-bit formats are supported", from, to)
	}
	r := &Reader{
		from: from,
		to:   to,
		src:  newFrameReader(src, from.FrameSize()),
	}
	if from.SampleRate() != to.SampleRate() {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(from.SampleRate()),
			OutputRate: float64(to.SampleRate()),
			Channels:   to.Channels(),
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("resampler: %w", err)
		}
		r.rs = rs
	}
	return r, nil
}

// Convert returns all of data converted between formats.
func Convert(data []byte, from, to pcm.Format) ([]byte, error) {
	if from == to {
		return data, nil
	}
	r, err := New(bytes.NewReader(data), from, to)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Read implements io.Reader. It is safe to call Close concurrently.
func (r *Reader) Read(p []byte) (int, error) {
	frame := r.to.FrameSize()
	if len(p) < frame {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)-len(p)%frame]

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.leftover) > 0 {
		n := copy(p, r.leftover)
		r.leftover = r.leftover[n:]
		return n, nil
	}
	if r.err != nil {
		return 0, r.err
	}

	for {
		n, err := r.fill(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

// fill reads one block from the source, converts it and copies it to p.
func (r *Reader) fill(p []byte) (int, error) {
	want := len(p) / r.to.FrameSize() * r.from.FrameSize()
	if r.rs != nil {
		ratio := float64(r.from.SampleRate()) / float64(r.to.SampleRate())
		want = int(float64(want)*ratio)/r.from.FrameSize()*r.from.FrameSize() + 4*r.from.FrameSize()
	}
	if cap(r.raw) < want {
		r.raw = make([]byte, want)
	}
	n, readErr := r.src.Read(r.raw[:want])
	if readErr == io.ErrUnexpectedEOF {
		n -= n % r.from.FrameSize()
		readErr = io.EOF
	}
	if n == 0 {
		if readErr == nil {
			return 0, nil
		}
		return 0, readErr
	}

	samples := remix(pcm.Int16s(r.raw[:n]), r.from.Channels(), r.to.Channels())
	if r.rs != nil {
		in := make([]float64, len(samples))
		for i, s := range samples {
			in[i] = float64(s) / 32768
		}
		out, err := r.rs.Process(in)
		if err != nil {
			return 0, fmt.Errorf("resampler: %w", err)
		}
		samples = samples[:0]
		for _, v := range out {
			samples = append(samples, toInt16(v))
		}
		samples = samples[:len(samples)-len(samples)%r.to.Channels()]
	}

	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	c := copy(p, out)
	r.leftover = append(r.leftover, out[c:]...)
	if c == 0 {
		return 0, readErr
	}
	if readErr == io.EOF && len(r.leftover) > 0 {
		readErr = nil
		r.err = io.EOF
	}
	return c, readErr
}

// Close releases the converter. Later reads return ErrClosed.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = ErrClosed
	r.leftover = nil
	r.rs = nil
	return nil
}

func toInt16(v float64) int16 {
	switch {
	case v >= 1:
		return 32767
	case v < -1:
		return -32768
	}
	return int16(v * 32767)
}

// remix converts interleaved samples between mono and stereo. Stereo is
// folded to mono by averaging.
func remix(in []int16, from, to int) []int16 {
	switch {
	case from == to:
		return in
	case from == 2 && to == 1:
		out := make([]int16, len(in)/2)
		for i := range out {
			out[i] = int16((int32(in[2*i]) + int32(in[2*i+1])) / 2)
		}
		return out
	default:
		out := make([]int16, 2*len(in))
		for i, s := range in {
			out[2*i], out[2*i+1] = s, s
		}
		return out
	}
}
