package audio

import (
	"context"

	"github.com/gordonklaus/portaudio"
)

// Source fills a non-interleaved buffer, one slice per channel.
type Source interface {
	Process([][]float32)
}

// Output is an audio backend that pulls samples from a Source while started.
type Output interface {
	Start() error
	Stop() error
}

// Play starts out and keeps it running until ctx is done.
func Play(ctx context.Context, out Output) error {
	if err := out.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return out.Stop()
}

// Sink plays a source on the default portaudio output device.
type Sink struct {
	source Source
	stream *portaudio.Stream
}

func NewSink(source Source, sampleRate float64, channels, bufferSize int) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	s := &Sink{source: source}
	stream, err := portaudio.OpenDefaultStream(0, channels, sampleRate, bufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Stop() error {
	err := s.stream.Stop()
	s.stream.Close()
	portaudio.Terminate()
	return err
}

func (s *Sink) Process(samples [][]float32) {
	s.source.Process(samples)
}
