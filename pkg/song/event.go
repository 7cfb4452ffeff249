package song

// Event is one entry of a Song timeline. The set of implementations is
// closed: every Event is either a Tone or a Rest.
type Event interface {
	// Start returns the absolute start time in seconds.
	Start() float64
	// Duration returns the length in seconds.
	Duration() float64

	event()
}

// Tone is a square-wave tone at a fixed frequency.
type Tone struct {
	Time   float64 `json:"time" yaml:"time"`
	Length float64 `json:"duration" yaml:"duration"`
	Freq   float64 `json:"freq" yaml:"freq"`
}

// Rest is silence.
type Rest struct {
	Time   float64 `json:"time" yaml:"time"`
	Length float64 `json:"duration" yaml:"duration"`
}

func (t Tone) Start() float64    { return t.Time }
func (t Tone) Duration() float64 { return t.Length }
func (Tone) event()              {}

func (r Rest) Start() float64    { return r.Time }
func (r Rest) Duration() float64 { return r.Length }
func (Rest) event()              {}

// End returns the time at which ev stops sounding.
func End(ev Event) float64 {
	return ev.Start() + ev.Duration()
}
