// Package resampler adapts 16-bit PCM between sample rates and channel
// counts, for audio devices that do not run at the render rate.
//
//	r, err := resampler.New(src, pcm.L16Stereo44K, pcm.L16Stereo48K)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	io.Copy(device, r)
package resampler
