package pcm

import (
	"errors"
	"io"
	"time"
)

// Writer consumes audio chunks.
type Writer interface {
	Write(Chunk) error
}

var _ Writer = WriteFunc(nil)

// WriteFunc adapts a function to Writer.
type WriteFunc func(Chunk) error

// Write implements Writer.
func (f WriteFunc) Write(c Chunk) error {
	return f(c)
}

// Discard is a Writer that drops every chunk.
var Discard Writer = discard{}

type discard struct{}

func (discard) Write(Chunk) error { return nil }

// ChunkWriter writes chunks to w as raw bytes.
func ChunkWriter(w io.Writer) Writer {
	return chunkWriter{w: w}
}

type chunkWriter struct {
	w io.Writer
}

func (w chunkWriter) Write(c Chunk) error {
	_, err := c.WriteTo(w.w)
	return err
}

// CopyPeriod is the minimum amount of audio Copy hands to a Writer at once.
const CopyPeriod = 20 * time.Millisecond

// Copy reads r until EOF and writes what it reads to w as chunks of format,
// each at least CopyPeriod long except possibly the last. Partial frames at
// EOF are dropped.
func Copy(w Writer, r io.Reader, format Format) error {
	minChunk := int(format.BytesInDuration(CopyPeriod))
	buf := make([]byte, 10*minChunk)
	frame := format.FrameSize()
	for {
		n, err := io.ReadAtLeast(r, buf, minChunk)
		n -= n % frame
		if n > 0 {
			if werr := w.Write(format.DataChunk(buf[:n])); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
	}
}
