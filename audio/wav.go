package audio

import (
	"fmt"
	"io"

	wav "github.com/youpy/go-wav"
)

const (
	bitsPerSample = 16
	renderBlock   = 512
)

// RenderWAV writes frames of source output to w as 16 bit PCM. At most two
// channels are supported by the WAV writer.
func RenderWAV(w io.Writer, source Source, sampleRate, channels, frames int) error {
	if channels < 1 || channels > 2 {
		return fmt.Errorf("render wav: unsupported channel count %d", channels)
	}
	ww := wav.NewWriter(w, uint32(frames), uint16(channels), uint32(sampleRate), bitsPerSample)

	const scale = 1<<(bitsPerSample-1) - 1
	buf := makeBuffer(channels, renderBlock)
	samples := make([]wav.Sample, renderBlock)
	block := make([][]float32, channels)

	for done := 0; done < frames; {
		n := min(renderBlock, frames-done)
		for ch := range block {
			block[ch] = buf[ch][:n]
		}
		source.Process(block)
		for i := 0; i < n; i++ {
			for ch := range block {
				samples[i].Values[ch] = int(scale * clampSample(block[ch][i]))
			}
		}
		if err := ww.WriteSamples(samples[:n]); err != nil {
			return fmt.Errorf("render wav: %w", err)
		}
		done += n
	}
	return nil
}

func clampSample(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
