// Package wavfile stores rendered PCM in RIFF/WAVE containers.
package wavfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/haivivi/tonescribe/pkg/audio/pcm"
)

// Encode writes data, raw PCM in format, to w as a WAVE file. 8-bit input is
// signed and is stored unsigned as WAVE requires. A trailing partial frame
// is dropped.
func Encode(w io.WriteSeeker, format pcm.Format, data []byte) error {
	data = data[:len(data)-len(data)%format.FrameSize()]
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: format.Channels(),
			SampleRate:  format.SampleRate(),
		},
		SourceBitDepth: format.Depth(),
	}
	switch format.Depth() {
	case 8:
		buf.Data = make([]int, len(data))
		for i, b := range data {
			buf.Data[i] = int(int8(b)) + 128
		}
	case 16:
		buf.Data = make([]int, len(data)/2)
		for i := range buf.Data {
			buf.Data[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
		}
	default:
		return fmt.Errorf("wavfile: unsupported depth %d", format.Depth())
	}

	enc := wav.NewEncoder(w, format.SampleRate(), format.Depth(), format.Channels(), 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavfile: write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavfile: close: %w", err)
	}
	return nil
}

// Bytes returns data encoded as a complete WAVE file.
func Bytes(format pcm.Format, data []byte) ([]byte, error) {
	var ws writeSeeker
	if err := Encode(&ws, format, data); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// WriteFile encodes data into a WAVE file at path.
func WriteFile(path string, format pcm.Format, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, format, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode reads a WAVE file back into raw PCM. Only the layouts pcm knows
// are accepted.
func Decode(r io.ReadSeeker) (pcm.Format, []byte, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, nil, errors.New("wavfile: not a WAVE file")
	}
	format, err := formatOf(int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth))
	if err != nil {
		return 0, nil, err
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return 0, nil, fmt.Errorf("wavfile: read: %w", err)
	}
	switch format.Depth() {
	case 8:
		out := make([]byte, len(buf.Data))
		for i, v := range buf.Data {
			out[i] = byte(int8(v - 128))
		}
		return format, out, nil
	default:
		out := make([]byte, 2*len(buf.Data))
		for i, v := range buf.Data {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
		}
		return format, out, nil
	}
}

func formatOf(rate, channels, depth int) (pcm.Format, error) {
	for _, f := range []pcm.Format{pcm.S8Stereo44K, pcm.L16Stereo44K, pcm.L16Stereo48K, pcm.L16Mono44K} {
		if f.SampleRate() == rate && f.Channels() == channels && f.Depth() == depth {
			return f, nil
		}
	}
	return 0, fmt.Errorf("wavfile: unsupported layout %d Hz, %d channels, %d bits", rate, channels, depth)
}

// writeSeeker is an in-memory io.WriteSeeker; the encoder seeks back to
// patch chunk sizes on Close.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("wavfile: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("wavfile: negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
