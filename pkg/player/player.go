// Package player plays rendered songs on an audio device.
//
// A Player mixes any number of overlapping sounds into one device output.
// Play and StopAll never wait for the device and may be called from any
// goroutine.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/haivivi/tonescribe/pkg/audio/pcm"
	"github.com/haivivi/tonescribe/pkg/audio/resampler"
)

// ErrClosed is returned by Play after Close.
var ErrClosed = errors.New("player: closed")

// Output is an open device stream. Write blocks until the device accepts
// the audio. Close flushes it.
type Output = io.WriteCloser

// Sink opens device outputs.
type Sink interface {
	Open(format pcm.Format) (Output, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(format pcm.Format) (Output, error)

// Open implements Sink.
func (f SinkFunc) Open(format pcm.Format) (Output, error) {
	return f(format)
}

// Option configures a Player.
type Option func(*Player)

// WithFormat sets the device format. It must be 16-bit. The default is
// pcm.L16Stereo44K.
func WithFormat(f pcm.Format) Option {
	return func(p *Player) { p.format = f }
}

// Player plays PCM buffers through a Sink.
type Player struct {
	sink   Sink
	format pcm.Format
	mixer  *pcm.Mixer

	mu       sync.Mutex
	out      Output
	closed   bool
	pumpDone chan struct{}
	pumpErr  error
}

// New returns a player for sink. The device is opened on the first Play.
func New(sink Sink, opts ...Option) *Player {
	p := &Player{
		sink:   sink,
		format: pcm.L16Stereo44K,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.mixer = pcm.NewMixer(p.format, pcm.WithOnClipDone(func(c *pcm.Clip) {
		slog.Debug("playback done", "id", c.Label(), "stopped", c.Stopped())
	}))
	return p
}

// Format returns the device format.
func (p *Player) Format() pcm.Format {
	return p.format
}

// Play starts playing buf, a render in pcm.S8Stereo44K, and returns without
// waiting for it.
func (p *Player) Play(buf []byte) (*Handle, error) {
	return p.PlayPCM(pcm.S8Stereo44K, buf)
}

// PlayPCM starts playing data in any format pcm knows, converting it to the
// device format first.
func (p *Player) PlayPCM(format pcm.Format, data []byte) (*Handle, error) {
	data, err := p.convert(format, data)
	if err != nil {
		return nil, err
	}
	if err := p.start(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	clip, err := p.mixer.Add(data, id)
	if err != nil {
		if errors.Is(err, pcm.ErrMixerClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}
	slog.Debug("playback started", "id", id, "duration", p.format.Duration(int64(len(data))))
	return &Handle{id: id, clip: clip}, nil
}

func (p *Player) convert(format pcm.Format, data []byte) ([]byte, error) {
	if format.Depth() == 8 {
		wide, err := pcm.L16(format.SampleRate())
		if err != nil {
			return nil, fmt.Errorf("player: %w", err)
		}
		data, format = pcm.Widen(data), wide
	}
	if format == p.format {
		return data, nil
	}
	out, err := resampler.Convert(data, format, p.format)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	return out, nil
}

// start opens the device and starts the pump on first use.
func (p *Player) start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.out != nil {
		return nil
	}
	out, err := p.sink.Open(p.format)
	if err != nil {
		return fmt.Errorf("player: open device: %w", err)
	}
	p.out = out
	p.pumpDone = make(chan struct{})
	go p.pump(out)
	return nil
}

// pump copies the mix to the device until the mixer is closed.
func (p *Player) pump(out Output) {
	defer close(p.pumpDone)
	if _, err := io.Copy(out, p.mixer); err != nil {
		slog.Warn("playback device failed", "error", err)
		p.mu.Lock()
		p.pumpErr = err
		p.mu.Unlock()
		p.mixer.Close()
	}
}

// Active returns the number of sounds still playing.
func (p *Player) Active() int {
	return p.mixer.Active()
}

// StopAll stops every playing sound. It does not wait for the device.
func (p *Player) StopAll() {
	p.mixer.StopAll()
}

// Close stops playback, waits for the device to flush and closes it.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	out, done := p.out, p.pumpDone
	p.mu.Unlock()

	p.mixer.Close()
	if out == nil {
		return nil
	}
	<-done
	err := out.Close()
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.pumpErr, err)
}

// Handle refers to one sound started by Play.
type Handle struct {
	id   string
	clip *pcm.Clip
}

// ID returns the handle's unique id.
func (h *Handle) ID() string { return h.id }

// Stop stops this sound. It does not block.
func (h *Handle) Stop() { h.clip.Stop() }

// Done is closed once the sound has been fully handed to the device or
// stopped.
func (h *Handle) Done() <-chan struct{} { return h.clip.Done() }

// Wait blocks until the sound is done or ctx ends.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.clip.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
