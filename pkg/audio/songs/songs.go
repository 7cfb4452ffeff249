// Package songs is a catalog of built-in tunes for trying out the compilers,
// the renderer and playback.
package songs

import (
	"fmt"
	"slices"

	"github.com/haivivi/tonescribe/pkg/song"
	"github.com/haivivi/tonescribe/pkg/song/musicstring"
	"github.com/haivivi/tonescribe/pkg/song/rtttl"
)

// Grammars a tune can be written in.
const (
	MusicString = "musicstring"
	RTTTL       = "rtttl"
)

// Tune is a built-in piece of source text.
type Tune struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Grammar string `json:"grammar" yaml:"grammar"`
	Source  string `json:"source" yaml:"source"`
}

// Compiler returns the compiler for grammar.
func Compiler(grammar string) (song.Compiler, error) {
	switch grammar {
	case MusicString, "":
		return musicstring.New(), nil
	case RTTTL:
		return rtttl.New(), nil
	}
	return nil, fmt.Errorf("songs: unknown grammar %q", grammar)
}

// Compile compiles the whole tune.
func (t Tune) Compile() (*song.Song, error) {
	c, err := Compiler(t.Grammar)
	if err != nil {
		return nil, err
	}
	s := c.Compile(t.Source, 0, len([]rune(t.Source)))
	if err := s.Err(); err != nil {
		return s, fmt.Errorf("songs: %s: %w", t.ID, err)
	}
	return s, nil
}

// All lists the catalog in display order.
var All = []Tune{
	TuneTwinkleStar,
	TuneHappyBirthday,
	TuneTwoTigers,
	TuneOdeToJoy,
	TuneFurElise,
	TuneScaleC,
	TuneAccelerando,
	TuneTremolo,
	TuneNokia,
}

// ByID returns the tune with id, or nil.
func ByID(id string) *Tune {
	for i := range All {
		if All[i].ID == id {
			return &All[i]
		}
	}
	return nil
}

// ByName returns the tune named name, or nil.
func ByName(name string) *Tune {
	for i := range All {
		if All[i].Name == name {
			return &All[i]
		}
	}
	return nil
}

// IDs returns every tune id, sorted.
func IDs() []string {
	ids := make([]string, len(All))
	for i, t := range All {
		ids[i] = t.ID
	}
	slices.Sort(ids)
	return ids
}

// Names returns every tune name in catalog order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

var TuneTwinkleStar = Tune{
	ID:      "twinkle_star",
	Name:    "Twinkle Twinkle Little Star",
	Grammar: MusicString,
	Source: `# Twinkle Twinkle Little Star
t100 KCMajor
c c g g a a gh
f f e e d d ch
g g f f e e dh
g g f f e e dh
c c g g a a gh
f f e e d d ch
`,
}

var TuneHappyBirthday = Tune{
	ID:      "happy_birthday",
	Name:    "Happy Birthday",
	Grammar: MusicString,
	Source: `# Happy Birthday, in 3/4
t120 KCMajor
gi. gs aq gq c5q bh
gi. gs aq gq d5q c5h
gi. gs g5q e5q c5q bq aq
f5i. f5s e5q c5q d5q c5h.
`,
}

var TuneTwoTigers = Tune{
	ID:      "two_tigers",
	Name:    "Two Tigers",
	Grammar: MusicString,
	Source: `# Two Tigers (Frere Jacques)
t120
c d e c  c d e c
e f gh   e f gh
gi ai gi fi e c   gi ai gi fi e c
c g3 ch  c g3 ch
`,
}

var TuneOdeToJoy = Tune{
	ID:      "ode_to_joy",
	Name:    "Ode to Joy",
	Grammar: MusicString,
	Source: `# Ode to Joy, in D major
t116 KDMajor
f f g a a g f e d d e f fq. ei eh
f f g a a g f e d d e f eq. di dh
`,
}

var TuneFurElise = Tune{
	ID:      "fur_elise",
	Name:    "Fur Elise",
	Grammar: MusicString,
	Source: `# Fur Elise, opening
t130 KAMinor
e5i d#5i e5i d#5i e5i bi d5i c5i aq. ri
ci ei ai bq. ri ei g#i bi c5q. ri ei
e5i d#5i e5i d#5i e5i bi d5i c5i aq. ri
ci ei ai bq. ri ei c5i bi ah
`,
}

var TuneScaleC = Tune{
	ID:      "scale_c",
	Name:    "C Major Scale",
	Grammar: MusicString,
	Source: `t160 c d e f g a b c5 c5 b a g f e d ch
`,
}

var TuneAccelerando = Tune{
	ID:      "accelerando",
	Name:    "Accelerando",
	Grammar: MusicString,
	Source: `# The scale speeds up from 60 to 240 bpm over two whole notes,
# then comes back down a fifth higher.
t60 t240ww c d e f g a b c5
tran+7 t60ww c5 b a g f e d c
tranreset ch
`,
}

var TuneTremolo = Tune{
	ID:      "tremolo",
	Name:    "Tremolo and Triplets",
	Grammar: MusicString,
	Source: `t90
ch! eh! gh! c5h!
ci* di* ei* fi* gi* ai* bh
`,
}

var TuneNokia = Tune{
	ID:      "nokia",
	Name:    "Nokia Tune",
	Grammar: RTTTL,
	Source:  "Nokia:d=4,o=5,b=180:8e6,8d6,f#,g#,8c#6,8b,d,e,8b,8a,c#,e,2a",
}
