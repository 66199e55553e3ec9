package audio

import (
	"math"
	"math/rand"
	"sync/atomic"
)

const (
	twoPi = 2 * math.Pi

	// smoothing is the blend factor of the one-pole low-pass applied to
	// periodic waveforms when smoothing is enabled.
	smoothing = 0.1

	maxSawHarmonics = 64
	maxOddHarmonics = 32
)

// Oscillator generates one sample at a time from the parameters in a Params
// store. It's not safe for concurrent use except for the Set methods, which
// may be called from any goroutine.
type Oscillator struct {
	params     *Params
	sampleRate float64
	sampler    *sampler
	rand       *rand.Rand

	phase     float64 // position within a period, always in [0, 1)
	lastPhase float64
	prev      float64

	bandLimited atomic.Bool
	smooth      atomic.Bool
}

// NewOscillator returns an oscillator with band-limiting enabled and
// smoothing disabled. Output is published to scope if it's not nil.
func NewOscillator(params *Params, sampleRate float64, scope *Scope, seed int64) *Oscillator {
	o := &Oscillator{
		params:     params,
		sampleRate: sampleRate,
		sampler:    newSampler(scope, sampleRate),
		rand:       rand.New(rand.NewSource(seed)),
	}
	o.bandLimited.Store(true)
	return o
}

func (o *Oscillator) SetBandLimited(b bool) { o.bandLimited.Store(b) }
func (o *Oscillator) BandLimited() bool     { return o.bandLimited.Load() }
func (o *Oscillator) SetSmoothing(b bool)   { o.smooth.Store(b) }
func (o *Oscillator) Smoothing() bool       { return o.smooth.Load() }

func (o *Oscillator) Phase() float64 { return o.phase }

func (o *Oscillator) ResetPhase() {
	o.phase = 0
	o.lastPhase = 0
}

// NextSample returns the next output sample and advances the phase.
func (o *Oscillator) NextSample() float64 {
	p := o.params.Load()

	inc := p.Frequency / o.sampleRate
	if !(p.Frequency > 0) || !(o.sampleRate > 0) || math.IsInf(inc, 0) || math.IsNaN(inc) {
		// nothing sensible to synthesize; stay silent and keep the phase
		o.prev = 0
		return 0
	}

	sample := o.generate(p.Waveform, p.Frequency)
	if p.Waveform != Noise && o.smooth.Load() {
		sample = o.prev + (sample-o.prev)*smoothing
	}
	o.prev = sample

	out := sample * p.Volume
	o.sampler.observe(p.Waveform, out, p.Frequency, o.lastPhase, o.phase)

	o.lastPhase = o.phase
	o.phase += inc
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return out
}

// Process writes one sample per frame to every channel of buf.
func (o *Oscillator) Process(buf [][]float32) {
	if len(buf) == 0 {
		return
	}
	for n := range buf[0] {
		v := float32(o.NextSample())
		for ch := range buf {
			buf[ch][n] = v
		}
	}
}

func (o *Oscillator) generate(wave Waveform, freq float64) float64 {
	bl := o.bandLimited.Load()
	nyquist := o.sampleRate / 2
	switch wave {
	case Sine:
		return math.Sin(twoPi * o.phase)
	case Sawtooth:
		if bl {
			return sawtoothBL(o.phase, freq, nyquist)
		}
		return sawtooth(o.phase)
	case Triangle:
		if bl {
			return triangleBL(o.phase, freq, nyquist)
		}
		return triangle(o.phase)
	case Square:
		if bl {
			return squareBL(o.phase, freq, nyquist)
		}
		return square(o.phase)
	case Noise:
		return 2*o.rand.Float64() - 1
	}
	return 0
}

func sawtooth(phase float64) float64 { return 2*phase - 1 }

func triangle(phase float64) float64 {
	if phase < 0.5 {
		return 4*phase - 1
	}
	return 3 - 4*phase
}

func square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// The band-limited variants sum sine harmonics below the Nyquist frequency.
// Callers guarantee freq > 0.

func sawtoothBL(phase, freq, nyquist float64) float64 {
	var sum float64
	for h := 1; h <= maxSawHarmonics && freq*float64(h) <= nyquist; h++ {
		n := float64(h)
		sum += math.Sin(twoPi*phase*n) / n
	}
	return sum * 2 / math.Pi
}

func triangleBL(phase, freq, nyquist float64) float64 {
	var sum float64
	for h := 1; h <= maxOddHarmonics; h++ {
		n := float64(2*h - 1)
		if freq*n > nyquist {
			break
		}
		sign := 1.0
		if h%2 == 0 {
			sign = -1
		}
		sum += sign * math.Sin(twoPi*phase*n) / (n * n)
	}
	return sum * 8 / (math.Pi * math.Pi)
}

func squareBL(phase, freq, nyquist float64) float64 {
	var sum float64
	for h := 1; h <= maxOddHarmonics; h++ {
		n := float64(2*h - 1)
		if freq*n > nyquist {
			break
		}
		sum += math.Sin(twoPi*phase*n) / n
	}
	return sum * 4 / math.Pi
}
