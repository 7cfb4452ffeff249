package musicstring

// ramp is a linear tempo change from initial to final BPM over length beats,
// starting at beat start. A zero length means no ramp.
type ramp struct {
	start   float64
	length  float64
	initial float64
	final   float64
}

func (r ramp) end() float64 {
	return r.start + r.length
}

// minutes returns the minutes elapsed from the start of the ramp to x beats
// into it: the integral of the beat period as it moves linearly from
// 1/initial to 1/final minutes over length beats.
func (r ramp) minutes(x float64) float64 {
	return x/r.initial + ((1/r.final-1/r.initial)/(2*r.length))*x*x
}

// clock tracks elapsed musical time in beats and milliseconds.
type clock struct {
	beat  float64
	ms    float64
	tempo float64
	ramp  ramp
}

// advance moves the clock forward by beats and returns the milliseconds that
// elapsed. Beats inside an active ramp use the ramp integral; the rest use
// the current tempo.
func (c *clock) advance(beats float64) float64 {
	before := c.ms
	constant := beats
	if end := c.ramp.end(); c.beat < end {
		constant = c.beat + beats - end
		upper := min(c.beat+beats, end) - c.ramp.start
		lower := c.beat - c.ramp.start
		c.ms += (c.ramp.minutes(upper) - c.ramp.minutes(lower)) * 60 * 1000
	}
	if constant > 0 {
		c.ms += constant * (1 / c.tempo) * 60 * 1000
	}
	c.beat += beats
	return c.ms - before
}

// seconds returns the current clock time in seconds.
func (c *clock) seconds() float64 {
	return c.ms / 1000
}
