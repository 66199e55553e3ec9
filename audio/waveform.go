package audio

import (
	"errors"
	"fmt"
	"strings"
)

// Waveform is the shape produced by the oscillator.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Triangle
	Square
	Noise
)

const numWaveforms = 5

var ErrInvalidWaveform = errors.New("invalid waveform")

var waveformNames = [numWaveforms]string{
	Sine:     "sine",
	Sawtooth: "sawtooth",
	Triangle: "triangle",
	Square:   "square",
	Noise:    "noise",
}

// ParseWaveform accepts a waveform name or its three letter abbreviation,
// ignoring case.
func ParseWaveform(s string) (Waveform, error) {
	switch strings.ToLower(s) {
	case "sine", "sin":
		return Sine, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "triangle", "tri":
		return Triangle, nil
	case "square", "squ":
		return Square, nil
	case "noise", "noi":
		return Noise, nil
	}
	return Sine, fmt.Errorf("%w: %q", ErrInvalidWaveform, s)
}

func (w Waveform) String() string {
	if w < 0 || w >= numWaveforms {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// Set implements flag.Value.
func (w *Waveform) Set(s string) error {
	v, err := ParseWaveform(s)
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// Next returns the waveform following w, wrapping around after Noise.
func (w Waveform) Next() Waveform { return (w + 1) % numWaveforms }

// Prev returns the waveform preceding w, wrapping around before Sine.
func (w Waveform) Prev() Waveform { return (w + numWaveforms - 1) % numWaveforms }
