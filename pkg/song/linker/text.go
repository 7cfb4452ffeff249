package linker

import (
	"bufio"
	"fmt"
	"io"

	"github.com/haivivi/tonescribe/pkg/song"
)

// textLinker writes one C statement per selected event.
type textLinker struct {
	tone func(freq, ms int) string
	rest func(sec float64) string
}

func (l textLinker) Link(w io.Writer, s *song.Song) error {
	if err := checkSong(s); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, ev := range s.Selected() {
		var line string
		switch ev := ev.(type) {
		case song.Tone:
			line = l.tone(int(ev.Freq), millis(ev.Length))
		case song.Rest:
			line = l.rest(ev.Length)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func millis(sec float64) int {
	return int(sec * 1000)
}

func micros(sec float64) int {
	return int(sec * 1000000)
}

func beepCall(freq, ms int) string {
	return fmt.Sprintf("beep(%d, %d);", freq, ms)
}

// Generic emits beep(freq, ms); for tones and delayMS(ms); for rests.
var Generic Linker = textLinker{
	tone: beepCall,
	rest: func(sec float64) string { return fmt.Sprintf("delayMS(%d);", millis(sec)) },
}

// Beep emits beep(freq, ms); for tones and __delay_cycles(us); for rests,
// assuming a 1 MHz clock.
var Beep Linker = textLinker{
	tone: beepCall,
	rest: func(sec float64) string { return fmt.Sprintf("__delay_cycles(%d);", micros(sec)) },
}
