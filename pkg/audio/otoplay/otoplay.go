// Package otoplay plays PCM through the pure-Go oto audio library.
package otoplay

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/haivivi/tonescribe/pkg/audio/pcm"
)

// drainPoll is how often Close checks whether the device has played the
// last of the buffered audio.
const drainPoll = 10 * time.Millisecond

// Sink opens outputs on a shared oto context. oto allows one context per
// process, so every Open after the first must ask for the same format.
type Sink struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format pcm.Format
}

// NewSink returns a sink that creates its context on first Open.
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) context(format pcm.Format) (*oto.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		if format != s.format {
			return nil, fmt.Errorf("otoplay: context runs %v, cannot open %v", s.format, format)
		}
		return s.ctx, nil
	}
	if format.Depth() != 16 {
		return nil, fmt.Errorf("otoplay: %v: only 16-bit output is supported", format)
	}
	ctx, ready, err := oto.NewContext(format.SampleRate(), format.Channels(), 2)
	if err != nil {
		return nil, fmt.Errorf("otoplay: %w", err)
	}
	<-ready
	s.ctx, s.format = ctx, format
	return ctx, nil
}

// Open starts an output that plays what is written to it.
func (s *Sink) Open(format pcm.Format) (io.WriteCloser, error) {
	ctx, err := s.context(format)
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	p := ctx.NewPlayer(pr)
	p.Play()
	return &output{pw: pw, player: p}, nil
}

// output feeds an oto player through a pipe, so Write blocks until the
// player has pulled the data.
type output struct {
	pw     *io.PipeWriter
	player oto.Player
	once   sync.Once
	err    error
}

func (o *output) Write(p []byte) (int, error) {
	return o.pw.Write(p)
}

// Close ends the stream and waits for buffered audio to finish playing.
func (o *output) Close() error {
	o.once.Do(func() {
		o.pw.Close()
		for o.player.IsPlaying() {
			time.Sleep(drainPoll)
		}
		o.err = o.player.Close()
	})
	return o.err
}
