package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/mrdg/wavegen/audio"
	"golang.org/x/sync/errgroup"
)

func main() {
	wave := audio.Sine
	flag.Var(&wave, "wave", "waveform: sine, sawtooth, triangle, square or noise")
	var (
		freq       = flag.Float64("freq", 440, "frequency in Hz")
		volume     = flag.Float64("volume", 0.5, "volume (0.0 to 1.0)")
		preset     = flag.String("preset", "", "load a preset, overriding -wave, -freq and -volume")
		duration   = flag.Duration("duration", time.Second, "how long to play (non-interactive mode only)")
		tui        = flag.Bool("tui", false, "interactive display controlled with the keyboard")
		repl       = flag.Bool("repl", false, "interactive command prompt")
		out        = flag.String("out", "", "render -duration of audio to this WAV file instead of playing it")
		backend    = flag.String("backend", "portaudio", "audio backend: portaudio or oto")
		sampleRate = flag.Int("rate", 44100, "sample rate in Hz")
		channels   = flag.Int("channels", 2, "number of output channels")
		bufferSize = flag.Int("buffer", 512, "frames per buffer (portaudio only)")
		naive      = flag.Bool("naive", false, "disable band-limited synthesis")
		smooth     = flag.Bool("smooth", true, "smooth sample to sample changes")
		seed       = flag.Int64("seed", 0, "noise seed, 0 picks one from the clock")
		history    = flag.String("history", "", "history file for the command prompt")
	)
	flag.Parse()

	if *volume < 0 || *volume > 1 {
		log.Fatal("volume must be between 0.0 and 1.0")
	}
	if *freq <= 0 {
		log.Fatal("frequency must be positive")
	}
	if *sampleRate <= 0 || *channels <= 0 {
		log.Fatal("sample rate and channels must be positive")
	}
	if *tui && *repl {
		log.Fatal("-tui and -repl can't be combined")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	params := audio.NewParams(audio.NewParameters(wave, *freq, *volume))
	if *preset != "" {
		if err := audio.LoadPreset(*preset, params); err != nil {
			log.Fatal(err)
		}
	}
	scope := audio.NewScope()
	osc := audio.NewOscillator(params, float64(*sampleRate), scope, *seed)
	osc.SetBandLimited(!*naive)
	osc.SetSmoothing(*smooth)

	if *out != "" {
		if err := render(*out, osc, *sampleRate, *channels, *duration); err != nil {
			log.Fatal(err)
		}
		return
	}

	output, err := newOutput(*backend, osc, *sampleRate, *channels, *bufferSize)
	if err != nil {
		log.Fatal(err)
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(base)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return audio.Play(ctx, output)
	})
	g.Go(func() error {
		defer cancel()
		switch {
		case *tui:
			return runTUI(ctx, params, osc, scope)
		case *repl:
			return runREPL(ctx, &env{params: params, osc: osc, scope: scope}, *history)
		default:
			p := params.Load()
			log.Printf("Playing %s wave at %.0fHz for %v at %.0f%% volume",
				p.Waveform, p.Frequency, *duration, p.Volume*100)
			select {
			case <-time.After(*duration):
			case <-ctx.Done():
			}
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func newOutput(backend string, src audio.Source, sampleRate, channels, bufferSize int) (audio.Output, error) {
	log.Printf("Output backend: %s, %dHz, %d channels", backend, sampleRate, channels)
	switch backend {
	case "portaudio":
		return audio.NewSink(src, float64(sampleRate), channels, bufferSize)
	case "oto":
		return audio.NewOtoSink(src, sampleRate, channels)
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}

func render(path string, src audio.Source, sampleRate, channels int, duration time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	frames := int(duration.Seconds() * float64(sampleRate))
	if err := audio.RenderWAV(f, src, sampleRate, channels, frames); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Wrote %v of audio to %s", duration, path)
	return nil
}
