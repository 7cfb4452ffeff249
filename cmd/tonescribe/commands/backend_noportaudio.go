//go:build !portaudio

package commands

import (
	"errors"

	"github.com/haivivi/tonescribe/pkg/player"
)

func openPortAudio() (player.Sink, func() error, error) {
	return nil, nil, errors.New("this build has no PortAudio support (rebuild with -tags portaudio)")
}
