// Package audio groups the sound side of tonescribe.
//
//   - pcm: PCM formats, chunks, 8 to 16 bit widening and the clip mixer
//   - square: the square wave renderer for compiled songs
//   - wavfile: WAVE container encoding and decoding
//   - resampler: sample rate and channel adaptation for output devices
//   - otoplay, portaudio: output sinks for the player
//   - songs: the built-in tune catalog
//
// Example usage:
//
//	s := musicstring.New().Compile(text, 0, len(text))
//	buf := square.New().Render(s)
//	err := wavfile.WriteFile("tune.wav", square.Format, buf)
package audio
