package audio

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const bytesPerSample = 4 // float32

// OtoSink plays a source through oto. Oto pulls interleaved bytes, so the
// source output is converted frame by frame into a reused buffer.
type OtoSink struct {
	source   Source
	channels int
	ctx      *oto.Context
	player   *oto.Player
	buf      [][]float32
	view     [][]float32 // buf resliced to the frames of the current Read

	mu      sync.Mutex // setup and control only
	started bool
}

func NewOtoSink(source Source, sampleRate, channels int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	s := &OtoSink{
		source:   source,
		channels: channels,
		ctx:      ctx,
		buf:      makeBuffer(channels, 1024),
		view:     make([][]float32, channels),
	}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

func makeBuffer(channels, frames int) [][]float32 {
	buf := make([][]float32, channels)
	for ch := range buf {
		buf[ch] = make([]float32, frames)
	}
	return buf
}

// Read implements io.Reader for the oto player.
func (s *OtoSink) Read(p []byte) (int, error) {
	frameSize := bytesPerSample * s.channels
	frames := len(p) / frameSize
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	if frames > len(s.buf[0]) {
		// only happens if oto asks for more than the initial guess
		s.buf = makeBuffer(s.channels, frames)
	}
	for ch := range s.view {
		s.view[ch] = s.buf[ch][:frames]
	}
	s.source.Process(s.view)
	interleave(p, s.view)
	return frames * frameSize, nil
}

// interleave encodes buf as little endian float32 frames into p.
func interleave(p []byte, buf [][]float32) {
	i := 0
	for n := range buf[0] {
		for ch := range buf {
			binary.LittleEndian.PutUint32(p[i:], math.Float32bits(buf[ch][n]))
			i += bytesPerSample
		}
	}
}

func (s *OtoSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.player.Play()
		s.started = true
	}
	return s.player.Err()
}

func (s *OtoSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	return s.player.Close()
}
