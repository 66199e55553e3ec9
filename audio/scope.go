package audio

import (
	"math"
	"sync"
)

const (
	// ScopeSize is the maximum number of points published to a Scope.
	ScopeSize = 300

	cyclesPerScope = 3
	noiseInterval  = 100 // keep every n-th noise sample
	noiseTrim      = 100 // drop this many of the oldest noise samples when full
)

// Scope holds a recent, downsampled rendering of the oscillator output for
// display. The audio thread is the only writer and never waits for readers:
// if a reader holds the lock, the update is dropped.
type Scope struct {
	mu      sync.Mutex
	samples []float64
}

func NewScope() *Scope {
	// one extra slot so the noise window can overflow before being trimmed
	return &Scope{samples: make([]float64, 0, ScopeSize+1)}
}

// Samples returns a copy of the published points.
func (s *Scope) Samples() []float64 {
	return s.AppendTo(nil)
}

// AppendTo appends the published points to dst and returns the result.
func (s *Scope) AppendTo(dst []float64) []float64 {
	s.mu.Lock()
	dst = append(dst, s.samples...)
	s.mu.Unlock()
	return dst
}

// replace overwrites the published points with src.
func (s *Scope) replace(src []float64) bool {
	if !s.mu.TryLock() {
		return false
	}
	s.samples = append(s.samples[:0], src...)
	s.mu.Unlock()
	return true
}

// push appends v to a rolling window of at most ScopeSize points.
func (s *Scope) push(v float64) bool {
	if !s.mu.TryLock() {
		return false
	}
	s.samples = append(s.samples, v)
	if len(s.samples) > ScopeSize {
		n := copy(s.samples, s.samples[noiseTrim:])
		s.samples = s.samples[:n]
	}
	s.mu.Unlock()
	return true
}

// sampler picks phase-aligned groups of cycles out of the oscillator output
// and publishes them to a scope. Long groups are decimated while they're
// collected, so memory use doesn't depend on the frequency.
type sampler struct {
	scope      *Scope
	sampleRate float64
	noiseCount int

	collecting bool
	target     int // samples in the group being collected
	stride     int // keep every stride-th sample of the group
	seen       int
	points     []float64
}

func newSampler(scope *Scope, sampleRate float64) *sampler {
	return &sampler{
		scope:      scope,
		sampleRate: sampleRate,
		points:     make([]float64, 0, ScopeSize),
	}
}

// observe is called for every output sample with the phase values from
// before the sample's phase advance.
func (s *sampler) observe(wave Waveform, sample, freq, lastPhase, phase float64) {
	if s.scope == nil {
		return
	}
	if wave == Noise {
		s.collecting = false
		if s.noiseCount%noiseInterval == 0 {
			s.scope.push(sample)
		}
		s.noiseCount++
		return
	}
	if !(freq > 0) || !(s.sampleRate > 0) {
		s.collecting = false
		return
	}

	if lastPhase > 0.5 && phase < 0.5 && !s.collecting {
		s.start(freq)
	}
	if !s.collecting {
		return
	}

	if s.seen%s.stride == 0 {
		s.points = append(s.points, sample)
	}
	s.seen++
	if s.seen < s.target {
		return
	}
	s.collecting = false
	s.scope.replace(s.points)
}

// start begins a group of cyclesPerScope periods at freq. The stride is
// ceil(target/ScopeSize), which keeps the group within ScopeSize points.
func (s *sampler) start(freq float64) {
	period := math.Round(s.sampleRate / freq)
	target := cyclesPerScope * period
	if target > math.MaxInt32 {
		target = math.MaxInt32
	}
	s.target = max(int(target), 1)
	s.stride = (s.target-1)/ScopeSize + 1
	s.seen = 0
	s.points = s.points[:0]
	s.collecting = true
}
