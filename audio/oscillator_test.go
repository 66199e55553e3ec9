package audio

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestOscillator(w Waveform, freq, volume, sampleRate float64) (*Oscillator, *Params, *Scope) {
	params := NewParams(NewParameters(w, freq, volume))
	scope := NewScope()
	return NewOscillator(params, sampleRate, scope, 1), params, scope
}

func TestPhaseWrapping(t *testing.T) {
	tests := []struct {
		freq, sampleRate float64
	}{
		{1000, 1000},
		{440, 44100},
		{30_000, 44100}, // above nyquist
		{100_000, 48000},
		{0.5, 8000},
	}
	for _, test := range tests {
		for _, w := range []Waveform{Sine, Sawtooth, Triangle, Square, Noise} {
			osc, _, _ := newTestOscillator(w, test.freq, 1, test.sampleRate)
			for i := 0; i < 2000; i++ {
				osc.NextSample()
				if p := osc.Phase(); p < 0 || p >= 1 {
					t.Fatalf("%v %vHz@%v: phase out of range after %d samples: %v",
						w, test.freq, test.sampleRate, i+1, p)
				}
			}
		}
	}
}

func TestSinePeriod(t *testing.T) {
	// 375/48000 is exactly 2^-7, so one period is 128 samples
	osc, _, _ := newTestOscillator(Sine, 375, 1, 48000)
	if got := osc.NextSample(); math.Abs(got) > 1e-12 {
		t.Errorf("want ~0 at phase 0, got %v", got)
	}
	for i := 1; i < 128; i++ {
		osc.NextSample()
	}
	if p := osc.Phase(); math.Min(p, 1-p) > 1e-9 {
		t.Errorf("want phase back at 0 after one period, got %v", p)
	}

	// same with a period that isn't exactly representable
	osc, _, _ = newTestOscillator(Sine, 441, 1, 44100)
	for i := 0; i < 100; i++ {
		osc.NextSample()
	}
	if p := osc.Phase(); math.Min(p, 1-p) > 1e-9 {
		t.Errorf("want phase back at 0 after one period, got %v", p)
	}
}

func TestNaiveWaveforms(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(float64) float64
		phase float64
		want  float64
	}{
		{"saw", sawtooth, 0, -1},
		{"saw", sawtooth, 0.5, 0},
		{"saw", sawtooth, 0.75, 0.5},
		{"triangle", triangle, 0, -1},
		{"triangle", triangle, 0.25, 0},
		{"triangle", triangle, 0.5, 1},
		{"triangle", triangle, 0.75, 0},
		{"square", square, 0, 1},
		{"square", square, 0.25, 1},
		{"square", square, 0.5, -1},
		{"square", square, 0.99, -1},
	}
	for _, test := range tests {
		if got := test.fn(test.phase); got != test.want {
			t.Errorf("%s(%v): want %v, got %v", test.name, test.phase, test.want, got)
		}
	}
}

func TestBandLimitedSquare(t *testing.T) {
	const freq, sampleRate = 100, 44100
	if want, got := 1.0, square(0.25); want != got {
		t.Errorf("naive: want %v, got %v", want, got)
	}
	got := squareBL(0.25, freq, sampleRate/2)
	if math.Abs(got) >= 1 || got < -1.2 || got > 1.2 {
		t.Errorf("band-limited: want |v| < 1 within [-1.2, 1.2], got %v", got)
	}
	if got < 0.9 {
		t.Errorf("band-limited: expected value near 1, got %v", got)
	}
}

func TestBandLimitedShapes(t *testing.T) {
	const freq, nyquist = 100, 22050
	tests := []struct {
		name string
		fn   func(phase, freq, nyquist float64) float64
	}{
		{"saw", sawtoothBL},
		{"triangle", triangleBL},
		{"square", squareBL},
	}
	for _, test := range tests {
		for _, phase := range []float64{0.1, 0.2, 0.3, 0.4} {
			v := test.fn(phase, freq, nyquist)
			if v < -1.2 || v > 1.2 {
				t.Errorf("%s(%v) = %v: out of range", test.name, phase, v)
			}
		}
	}
	if got := triangleBL(0.25, freq, nyquist); math.Abs(got-1) > 0.01 {
		t.Errorf("triangle peak: want ~1, got %v", got)
	}
	if got := sawtoothBL(0.5, freq, nyquist); math.Abs(got) > 1e-9 {
		t.Errorf("saw midpoint: want ~0, got %v", got)
	}
}

func TestBandLimitedHarmonicLimit(t *testing.T) {
	// above the nyquist frequency no harmonic fits
	for _, fn := range []func(phase, freq, nyquist float64) float64{sawtoothBL, triangleBL, squareBL} {
		if got := fn(0.25, 30_000, 22050); got != 0 {
			t.Errorf("want 0 above nyquist, got %v", got)
		}
	}
	// with only the fundamental below nyquist the result is a scaled sine
	want := math.Sin(twoPi*0.1) * 4 / math.Pi
	if got := squareBL(0.1, 10_000, 22050); math.Abs(got-want) > 1e-12 {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestBandLimitedToggle(t *testing.T) {
	osc, params, _ := newTestOscillator(Square, 100, 1, 44100)
	osc.SetBandLimited(false)
	if osc.BandLimited() {
		t.Fatal("expected band-limiting to be off")
	}
	if want, got := 1.0, osc.NextSample(); want != got {
		t.Errorf("naive square at phase 0: want %v, got %v", want, got)
	}
	osc.SetBandLimited(true)
	osc.ResetPhase()
	if got := osc.NextSample(); math.Abs(got) > 1e-12 {
		t.Errorf("band-limited square at phase 0: want ~0, got %v", got)
	}
	params.SetWaveform(Sawtooth)
	osc.SetBandLimited(false)
	osc.ResetPhase()
	if want, got := -1.0, osc.NextSample(); want != got {
		t.Errorf("naive saw at phase 0: want %v, got %v", want, got)
	}
}

func TestVolume(t *testing.T) {
	osc, _, _ := newTestOscillator(Square, 100, 0.25, 44100)
	osc.SetBandLimited(false)
	if want, got := 0.25, osc.NextSample(); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestSmoothing(t *testing.T) {
	osc, params, _ := newTestOscillator(Square, 100, 1, 44100)
	osc.SetBandLimited(false)
	osc.SetSmoothing(true)

	want := []float64{0.1, 0.19, 0.271}
	var got []float64
	for range want {
		got = append(got, osc.NextSample())
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(approx)); diff != "" {
		t.Errorf("smoothed output mismatch (-want +got):\n%s", diff)
	}

	// noise isn't smoothed, so it can jump the full range
	params.SetWaveform(Noise)
	var maxStep float64
	prev := osc.NextSample()
	for i := 0; i < 1000; i++ {
		v := osc.NextSample()
		maxStep = math.Max(maxStep, math.Abs(v-prev))
		prev = v
	}
	if maxStep < 0.5 {
		t.Errorf("noise looks smoothed, max step %v", maxStep)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNoise(t *testing.T) {
	const n = 10_000
	osc, _, _ := newTestOscillator(Noise, 440, 1, 44100)
	ref, _, _ := newTestOscillator(Sine, 440, 1, 44100)

	samples := make([]float64, n)
	phases := make([]float64, n)
	for i := range samples {
		phases[i] = osc.Phase()
		samples[i] = osc.NextSample()
		ref.NextSample()
		if v := samples[i]; v < -1 || v > 1 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
		if osc.Phase() != ref.Phase() {
			t.Fatalf("sample %d: noise phase %v differs from sine phase %v", i, osc.Phase(), ref.Phase())
		}
	}
	if r := correlation(samples, phases); math.Abs(r) > 0.1 {
		t.Errorf("noise correlates with phase: r=%v", r)
	}
}

func TestNoiseSeed(t *testing.T) {
	params := NewParams(NewParameters(Noise, 440, 1))
	a := NewOscillator(params, 44100, nil, 42)
	b := NewOscillator(params, 44100, nil, 42)
	c := NewOscillator(params, 44100, nil, 43)
	var differ bool
	for i := 0; i < 100; i++ {
		va, vb, vc := a.NextSample(), b.NextSample(), c.NextSample()
		if va != vb {
			t.Fatalf("sample %d: same seed, different output: %v != %v", i, va, vb)
		}
		if va != vc {
			differ = true
		}
	}
	if !differ {
		t.Error("different seeds produced identical output")
	}
}

func correlation(xs, ys []float64) float64 {
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(len(xs))
	my /= float64(len(ys))
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	return cov / math.Sqrt(vx*vy)
}

func TestNonPositiveFrequency(t *testing.T) {
	for _, freq := range []float64{0, -440, math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, w := range []Waveform{Sine, Sawtooth, Triangle, Square, Noise} {
			osc, _, scope := newTestOscillator(w, freq, 1, 44100)
			for i := 0; i < 100; i++ {
				if got := osc.NextSample(); got != 0 {
					t.Fatalf("%v at %vHz: want silence, got %v", w, freq, got)
				}
			}
			if got := osc.Phase(); got != 0 {
				t.Errorf("%v at %vHz: phase moved to %v", w, freq, got)
			}
			if n := len(scope.Samples()); n != 0 {
				t.Errorf("%v at %vHz: scope has %d samples", w, freq, n)
			}
		}
	}

	params := NewParams(NewParameters(Square, 440, 1))
	osc := NewOscillator(params, 0, nil, 1)
	if got := osc.NextSample(); got != 0 {
		t.Errorf("zero sample rate: want silence, got %v", got)
	}

	// the increment overflows even though both values are positive
	osc = NewOscillator(params, math.SmallestNonzeroFloat64, nil, 1)
	if got := osc.NextSample(); got != 0 || osc.Phase() != 0 {
		t.Errorf("tiny sample rate: want silence at phase 0, got %v at %v", got, osc.Phase())
	}
}

func TestRecoverFromInfiniteFrequency(t *testing.T) {
	osc, params, _ := newTestOscillator(Sine, math.Inf(1), 1, 44100)
	osc.NextSample()
	params.SetFrequency(440)
	for i := 0; i < 1000; i++ {
		v := osc.NextSample()
		if math.IsNaN(v) {
			t.Fatalf("sample %d is NaN", i)
		}
		if p := osc.Phase(); !(p >= 0 && p < 1) {
			t.Fatalf("sample %d: phase out of range: %v", i, p)
		}
	}
	if osc.Phase() == 0 {
		t.Error("phase didn't advance after restoring the frequency")
	}
}

func TestProcess(t *testing.T) {
	osc, _, _ := newTestOscillator(Sine, 441, 1, 44100)
	ref, _, _ := newTestOscillator(Sine, 441, 1, 44100)

	buf := [][]float32{make([]float32, 64), make([]float32, 64)}
	osc.Process(buf)
	for n := range buf[0] {
		want := float32(ref.NextSample())
		if buf[0][n] != want || buf[1][n] != want {
			t.Fatalf("frame %d: want %v on both channels, got %v %v", n, want, buf[0][n], buf[1][n])
		}
	}
	osc.Process(nil)
}
