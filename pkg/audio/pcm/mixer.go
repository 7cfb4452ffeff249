package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ErrMixerClosed is returned by Add after Close.
var ErrMixerClosed = errors.New("pcm/mixer: closed")

// MixerOption configures a Mixer.
type MixerOption func(*Mixer)

// WithAutoClose makes Read return io.EOF as soon as no clip is left instead
// of waiting for the next Add.
func WithAutoClose() MixerOption {
	return func(mx *Mixer) { mx.autoClose = true }
}

// WithOnClipDone sets a callback run after a clip finishes or is stopped.
// It runs with the mixer locked and must not call back into the mixer.
func WithOnClipDone(fn func(*Clip)) MixerOption {
	return func(mx *Mixer) { mx.onClipDone = fn }
}

// WithReadPeriod sets the most audio a single Read returns. Defaults to
// CopyPeriod.
func WithReadPeriod(d time.Duration) MixerOption {
	return func(mx *Mixer) { mx.readChunk = int(mx.output.BytesInDuration(d)) }
}

// Mixer sums clips of 16-bit audio into one stream readable with Read. All
// methods are safe for concurrent use.
type Mixer struct {
	output     Format
	readChunk  int
	autoClose  bool
	onClipDone func(*Clip)

	mu     sync.Mutex
	clips  []*Clip
	closed bool
	added  chan struct{}

	acc []int32
}

// NewMixer returns a mixer producing output, which must be a 16-bit format.
func NewMixer(output Format, opts ...MixerOption) *Mixer {
	if output.Depth() != 16 {
		panic(fmt.Sprintf("pcm/mixer: output must be 16-bit, got %v", output))
	}
	mx := &Mixer{
		output: output,
		added:  make(chan struct{}, 1),
	}
	mx.readChunk = int(output.BytesInDuration(CopyPeriod))
	for _, opt := range opts {
		opt(mx)
	}
	return mx
}

// Output returns the mixer's output format.
func (mx *Mixer) Output() Format {
	return mx.output
}

// Add starts a clip of data, which must be in the mixer's output format.
func (mx *Mixer) Add(data []byte, label string) (*Clip, error) {
	mx.mu.Lock()
	defer mx.mu.Unlock()
	if mx.closed {
		return nil, ErrMixerClosed
	}
	c := &Clip{
		label: label,
		data:  data[:len(data)-len(data)%mx.output.FrameSize()],
		done:  make(chan struct{}),
	}
	c.SetGain(1)
	mx.clips = append(mx.clips, c)
	select {
	case mx.added <- struct{}{}:
	default:
	}
	return c, nil
}

// Active returns the number of clips still playing.
func (mx *Mixer) Active() int {
	mx.mu.Lock()
	defer mx.mu.Unlock()
	return len(mx.clips)
}

// StopAll stops every playing clip. It does not wait for Read.
func (mx *Mixer) StopAll() {
	mx.mu.Lock()
	clips := append([]*Clip(nil), mx.clips...)
	mx.mu.Unlock()
	for _, c := range clips {
		c.Stop()
	}
}

// Close stops and drops every clip and makes Read return io.EOF.
func (mx *Mixer) Close() error {
	mx.mu.Lock()
	defer mx.mu.Unlock()
	if mx.closed {
		return nil
	}
	mx.closed = true
	close(mx.added)
	for _, c := range mx.clips {
		c.Stop()
	}
	mx.reapLocked()
	return nil
}

// Read fills p with the sum of all playing clips and returns no more than
// the longest of them has left. Read blocks while no clip is playing unless
// the mixer auto-closes, and returns io.EOF once the mixer is closed and
// empty.
func (mx *Mixer) Read(p []byte) (int, error) {
	if len(p) > mx.readChunk {
		p = p[:mx.readChunk]
	}
	p = p[:len(p)-len(p)%mx.output.FrameSize()]
	if len(p) == 0 {
		return 0, nil
	}

	for {
		mx.mu.Lock()
		mx.reapLocked()
		if len(mx.clips) == 0 {
			closed := mx.closed
			mx.mu.Unlock()
			if closed || mx.autoClose {
				return 0, io.EOF
			}
			<-mx.added
			continue
		}
		n := mx.mixLocked(p)
		mx.reapLocked()
		mx.mu.Unlock()
		if n > 0 {
			return n, nil
		}
	}
}

func (mx *Mixer) mixLocked(p []byte) int {
	samples := len(p) / 2
	if cap(mx.acc) < samples {
		mx.acc = make([]int32, samples)
	}
	acc := mx.acc[:samples]
	clear(acc)
	longest := 0
	for _, c := range mx.clips {
		longest = max(longest, c.mixInto(acc))
	}
	for i, v := range acc[:longest] {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(clamp16(v)))
	}
	return 2 * longest
}

// reapLocked drops finished and stopped clips.
func (mx *Mixer) reapLocked() {
	kept := mx.clips[:0]
	for _, c := range mx.clips {
		if c.finished() {
			c.finish()
			if mx.onClipDone != nil {
				mx.onClipDone(c)
			}
			continue
		}
		kept = append(kept, c)
	}
	clear(mx.clips[len(kept):])
	mx.clips = kept
}

func clamp16(v int32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}

// Clip is one sound playing in a Mixer.
type Clip struct {
	label   string
	data    []byte
	pos     int           // guarded by the mixer lock
	gain    atomic.Uint32 // float32 bits
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// Label returns the label given to Add.
func (c *Clip) Label() string { return c.label }

// SetGain sets a linear volume multiplier; 1 is unchanged.
func (c *Clip) SetGain(g float32) { c.gain.Store(math.Float32bits(g)) }

// Stop ends the clip at the next mixer read. It never blocks.
func (c *Clip) Stop() { c.stopped.Store(true) }

// Stopped reports whether Stop was called.
func (c *Clip) Stopped() bool { return c.stopped.Load() }

// Done is closed once the mixer has dropped the clip.
func (c *Clip) Done() <-chan struct{} { return c.done }

func (c *Clip) finished() bool {
	return c.stopped.Load() || c.pos >= len(c.data)
}

func (c *Clip) finish() {
	c.once.Do(func() { close(c.done) })
}

// mixInto adds the clip's next samples to acc and returns how many it added.
func (c *Clip) mixInto(acc []int32) int {
	if c.stopped.Load() {
		return 0
	}
	gain := math.Float32frombits(c.gain.Load())
	n := min(len(acc), (len(c.data)-c.pos)/2)
	for i := range n {
		s := int16(binary.LittleEndian.Uint16(c.data[c.pos+2*i:]))
		if gain == 1 {
			acc[i] += int32(s)
		} else {
			acc[i] += int32(float32(s) * gain)
		}
	}
	c.pos += 2 * n
	return n
}
