package commands

import (
	"fmt"

	"github.com/haivivi/tonescribe/pkg/audio/otoplay"
	"github.com/haivivi/tonescribe/pkg/player"
)

// openBackend returns the sink for a backend name and an optional release
// func to call once playback is over.
func openBackend(name string) (player.Sink, func() error, error) {
	switch name {
	case "oto", "":
		return otoplay.NewSink(), nil, nil
	case "portaudio":
		return openPortAudio()
	}
	return nil, nil, fmt.Errorf("unknown playback backend %q (want oto or portaudio)", name)
}
