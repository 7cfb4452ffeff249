package square

import (
	"bytes"
	"testing"

	"github.com/haivivi/tonescribe/pkg/song"
	"github.com/haivivi/tonescribe/pkg/song/musicstring"
)

const (
	high = byte(63)
	low  = byte(0xc0) // -64
)

func TestBufferSize(t *testing.T) {
	tests := []struct {
		length float64
		want   int
	}{
		{0, 44100},
		{0.5, 46305 + 44100},
		{2, 185220 + 44100},
	}
	for _, tt := range tests {
		if got := BufferSize(tt.length); got != tt.want {
			t.Errorf("BufferSize(%v) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestRenderTone(t *testing.T) {
	s := musicstring.New().Compile("c", 0, 1)
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	buf := New().Render(s)
	if len(buf) != BufferSize(0.5) {
		t.Fatalf("len = %d, want %d", len(buf), BufferSize(0.5))
	}

	if buf[0] != high || buf[1] != high {
		t.Errorf("first frame = %d,%d, want high", int8(buf[0]), int8(buf[1]))
	}
	// C4 has a period of about 168.6 samples and the wave flips once per
	// period: the first flip lands after sample 0, the next 168 samples later.
	for i := 1; i <= 168; i++ {
		if buf[2*i] != low {
			t.Fatalf("sample %d = %d, want low", i, int8(buf[2*i]))
		}
	}
	if buf[2*169] != high {
		t.Errorf("sample 169 = %d, want high", int8(buf[2*169]))
	}

	flips := 0
	for i := 1; i < 22050; i++ {
		if buf[2*i] != buf[2*i-2] {
			flips++
		}
		if buf[2*i] != buf[2*i+1] {
			t.Fatalf("channels differ at sample %d", i)
		}
	}
	// One flip per period for half a second of 261.6 Hz.
	if flips < 129 || flips > 133 {
		t.Errorf("flips = %d, want about 131", flips)
	}
	for i := 2 * 22050; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Fatalf("byte %d after the tone = %d, want silence", i, buf[i])
		}
	}
}

func TestRenderRestIsSilent(t *testing.T) {
	s := musicstring.New().Compile("r c", 0, 3)
	buf := New().Render(s)
	offset := 23153 // round(44100 * 0.5 * 1.05)
	for i := 0; i < 2*offset; i++ {
		if buf[i] != 0 {
			t.Fatalf("byte %d in the rest = %d", i, buf[i])
		}
	}
	if buf[2*offset] != high {
		t.Errorf("first tone sample = %d, want high", int8(buf[2*offset]))
	}
}

func TestResetMakesRendersIdentical(t *testing.T) {
	s := musicstring.New().Compile("t140 KDMajor c d e f gq. ai bi c5 r e*", 0, 100)
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	r := New()
	first := r.Render(s)
	r.Reset()
	second := r.Render(s)
	if !bytes.Equal(first, second) {
		t.Error("renders after Reset differ")
	}
}

func TestPolarityPersists(t *testing.T) {
	s := song.New()
	s.AddTone(0.01, 440)
	r := New()
	r.Render(s)
	wasLow := r.low

	buf := r.Render(s)
	want := high
	if wasLow {
		want = low
	}
	if buf[0] != want {
		t.Errorf("second render starts at %d, want %d", int8(buf[0]), int8(want))
	}
}

func TestRenderClipsPastBuffer(t *testing.T) {
	s := song.New()
	s.Events = append(s.Events, song.Tone{Time: 10, Length: 1, Freq: 440})
	buf := New().Render(s)
	if len(buf) != SampleRate {
		t.Fatalf("len = %d", len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %d, want silence", i, b)
		}
	}
}

func TestRenderChunk(t *testing.T) {
	s := song.New()
	s.AddTone(0.1, 880)
	c := New().RenderChunk(s)
	if c.Format() != Format || c.Len() != int64(BufferSize(0.1)) {
		t.Errorf("chunk = %v, %d bytes", c.Format(), c.Len())
	}
}
