package resampler

import "io"

// frameReader makes every Read from r return whole frames, holding back a
// partial frame until the rest of it arrives.
type frameReader struct {
	r       io.Reader
	size    int
	partial []byte
}

func newFrameReader(r io.Reader, size int) *frameReader {
	return &frameReader{r: r, size: size, partial: make([]byte, 0, size)}
}

// Read returns a multiple of the frame size, or io.ErrUnexpectedEOF with
// the stray bytes when the source ends mid-frame.
func (fr *frameReader) Read(p []byte) (int, error) {
	if len(p) < fr.size {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)-len(p)%fr.size]
	n := copy(p, fr.partial)
	fr.partial = fr.partial[:0]

	rn, err := fr.r.Read(p[n:])
	n += rn
	extra := n % fr.size
	switch {
	case extra == 0:
		return n, err
	case err == io.EOF:
		return n, io.ErrUnexpectedEOF
	case err != nil:
		return n, err
	}
	n -= extra
	fr.partial = append(fr.partial, p[n:n+extra]...)
	return n, nil
}
