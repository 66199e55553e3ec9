package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Property keys accepted by Params.Set and Params.Get.
const (
	PropWave   = "wave"
	PropFreq   = "freq"
	PropVolume = "volume"
)

// Parameters is a snapshot of the values driving the oscillator.
type Parameters struct {
	Waveform  Waveform
	Frequency float64
	Volume    float64
}

// NewParameters returns parameters with volume clamped to [0, 1].
func NewParameters(w Waveform, freq, volume float64) Parameters {
	return Parameters{Waveform: w, Frequency: freq, Volume: clampVolume(volume)}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Params stores the oscillator parameters so they can be read without locks
// from the audio thread. Every update publishes a new immutable snapshot, so
// readers never see a mix of old and new fields.
type Params struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Value
}

func NewParams(p Parameters) *Params {
	var params Params
	params.Store(p)
	return &params
}

// Load returns the current snapshot.
func (p *Params) Load() Parameters {
	return p.snap.Load().(Parameters)
}

// Store replaces all parameters at once. Volume is clamped.
func (p *Params) Store(v Parameters) {
	v.Volume = clampVolume(v.Volume)
	p.mu.Lock()
	p.snap.Store(v)
	p.mu.Unlock()
}

func (p *Params) update(f func(*Parameters)) {
	p.mu.Lock()
	v := p.snap.Load().(Parameters)
	f(&v)
	p.snap.Store(v)
	p.mu.Unlock()
}

func (p *Params) SetWaveform(w Waveform) {
	p.update(func(v *Parameters) { v.Waveform = w })
}

// SetFrequency stores freq as is. Callers are responsible for sane ranges;
// the oscillator emits silence for non-positive values.
func (p *Params) SetFrequency(freq float64) {
	p.update(func(v *Parameters) { v.Frequency = freq })
}

// SetVolume stores the volume clamped to [0, 1].
func (p *Params) SetVolume(volume float64) {
	p.update(func(v *Parameters) { v.Volume = clampVolume(volume) })
}

// Set updates a property by name. Values usually come from user input, so
// they're validated instead of stored blindly.
func (p *Params) Set(key string, value interface{}) error {
	switch key {
	case PropWave:
		w, err := toWaveform(value)
		if err != nil {
			return fmt.Errorf("set property %s: %w", key, err)
		}
		p.SetWaveform(w)
	case PropFreq:
		f, err := toFloat64(value)
		if err != nil {
			return fmt.Errorf("set property %s: %w", key, err)
		}
		if !(f > 0) {
			return fmt.Errorf("set property %s: frequency must be positive: %v", key, f)
		}
		p.SetFrequency(f)
	case PropVolume:
		f, err := toFloat64(value)
		if err != nil {
			return fmt.Errorf("set property %s: %w", key, err)
		}
		p.SetVolume(f)
	default:
		return fmt.Errorf("unknown property %s", key)
	}
	return nil
}

func (p *Params) Get(key string) (interface{}, error) {
	v := p.Load()
	switch key {
	case PropWave:
		return v.Waveform, nil
	case PropFreq:
		return v.Frequency, nil
	case PropVolume:
		return v.Volume, nil
	}
	return nil, fmt.Errorf("unknown property %s", key)
}

func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value is not a number: %v", v)
	}
}

func toWaveform(v interface{}) (Waveform, error) {
	switch w := v.(type) {
	case Waveform:
		return w, nil
	case string:
		return ParseWaveform(w)
	default:
		return Sine, fmt.Errorf("value is not a waveform: %v", v)
	}
}
