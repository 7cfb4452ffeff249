// Package pcm describes raw PCM audio and moves it around.
//
// Format names the layouts tonescribe uses: rendered songs are 8-bit signed
// stereo at 44100 Hz (S8Stereo44K); output devices take 16-bit stereo
// (L16Stereo44K, or L16Stereo48K after resampling). Widen converts the
// former into the latter.
//
// Mixer sums any number of clips into one 16-bit stream so several songs can
// play over one device at once. Each clip has a Clip handle that stops it
// from any goroutine without blocking.
//
//	mx := pcm.NewMixer(pcm.L16Stereo44K)
//	clip, _ := mx.Add(pcm.Widen(rendered))
//	go io.Copy(device, mx)
//	<-clip.Done()
package pcm
