package linker

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"text/template"

	"github.com/haivivi/tonescribe/pkg/song"
)

// preciseProgram is an MSP430 program at 1 MHz. beep() toggles P1.0 every
// half period, with the half period taken from a switch over the frequencies
// the song uses, highest first since those cases are most sensitive to the
// cycles spent in the switch.
var preciseProgram = template.Must(template.New("precise").Parse(`// Generated by tonescribe.
#include <msp430.h>

static void beep(unsigned int freq, unsigned long ms)
{
	unsigned long cycles = (unsigned long)freq * ms / 1000;
	while (cycles--) {
		P1OUT ^= BIT0;
		switch (freq) {
{{- range .Freqs}}
		case {{.Freq}}:
			__delay_cycles({{.HalfPeriod}});
			break;
{{- end}}
		}
		P1OUT ^= BIT0;
		switch (freq) {
{{- range .Freqs}}
		case {{.Freq}}:
			__delay_cycles({{.HalfPeriod}});
			break;
{{- end}}
		}
	}
}

int main(void)
{
	WDTCTL = WDTPW | WDTHOLD;
	BCSCTL1 = CALBC1_1MHZ;
	DCOCTL = CALDCO_1MHZ;
	P1DIR |= BIT0;
	P1OUT &= ~BIT0;

{{range .Body}}	{{.}}
{{end}}
	for (;;) {
		__bis_SR_register(LPM4_bits);
	}
}
`))

type preciseFreq struct {
	Freq       int
	HalfPeriod int // cycles at 1 MHz
}

type preciseData struct {
	Freqs []preciseFreq
	Body  []string
}

// Precise emits a complete MSP430 program whose beep() is cycle counted for
// exactly the frequencies in the song.
var Precise Linker = Func(linkPrecise)

func linkPrecise(w io.Writer, s *song.Song) error {
	if err := checkSong(s); err != nil {
		return err
	}
	var data preciseData
	seen := make(map[int]bool)
	for _, ev := range s.Selected() {
		switch ev := ev.(type) {
		case song.Tone:
			freq := int(ev.Freq)
			if freq <= 0 {
				continue
			}
			if !seen[freq] {
				seen[freq] = true
				data.Freqs = append(data.Freqs, preciseFreq{Freq: freq, HalfPeriod: 1000000 / freq / 2})
			}
			data.Body = append(data.Body, beepCall(freq, millis(ev.Length)))
		case song.Rest:
			data.Body = append(data.Body, fmt.Sprintf("__delay_cycles(%d);", micros(ev.Length)))
		}
	}
	sort.Slice(data.Freqs, func(i, j int) bool { return data.Freqs[i].Freq > data.Freqs[j].Freq })

	bw := bufio.NewWriter(w)
	if err := preciseProgram.Execute(bw, data); err != nil {
		return err
	}
	return bw.Flush()
}
