//go:build portaudio

package commands

import (
	"github.com/haivivi/tonescribe/pkg/audio/portaudio"
	"github.com/haivivi/tonescribe/pkg/player"
)

func openPortAudio() (player.Sink, func() error, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, nil, err
	}
	if dev, err := portaudio.DefaultDevice(); err == nil {
		printVerbose("PortAudio device: %s (%.0f Hz)", dev.Name, dev.SampleRate)
	}
	return portaudio.Sink{}, portaudio.Terminate, nil
}
