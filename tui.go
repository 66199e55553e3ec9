package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mrdg/wavegen/audio"
	"golang.org/x/term"
)

const (
	redrawInterval = 50 * time.Millisecond
	minFrequency   = 20.0
	maxFrequency   = 20_000.0
	freqStep       = 1.05
	volumeStep     = 0.05
)

type key int

const (
	keyRune key = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyEsc
	keyInterrupt // ctrl-c
)

type keyEvent struct {
	key key
	r   rune
}

// decodeKeys splits raw terminal input into key events. Arrow keys arrive
// as escape sequences, either ESC [ x or ESC O x.
func decodeKeys(b []byte) []keyEvent {
	var events []keyEvent
	for i := 0; i < len(b); i++ {
		switch c := b[i]; {
		case c == 0x1b:
			if i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				if k, ok := arrows[b[i+2]]; ok {
					events = append(events, keyEvent{key: k})
					i += 2
					continue
				}
			}
			events = append(events, keyEvent{key: keyEsc})
		case c == 0x03:
			events = append(events, keyEvent{key: keyInterrupt})
		default:
			events = append(events, keyEvent{key: keyRune, r: rune(c)})
		}
	}
	return events
}

var arrows = map[byte]key{
	'A': keyUp,
	'B': keyDown,
	'C': keyRight,
	'D': keyLeft,
}

type engine interface {
	SetBandLimited(bool)
	BandLimited() bool
	SetSmoothing(bool)
	Smoothing() bool
}

// controls maps key presses to parameter changes.
type controls struct {
	params   *audio.Params
	engine   engine
	selected int
}

// handle applies ev and reports whether the user asked to quit.
func (c *controls) handle(ev keyEvent) bool {
	switch ev.key {
	case keyEsc, keyInterrupt:
		return true
	case keyUp:
		if c.selected > 0 {
			c.selected--
		}
	case keyDown:
		if c.selected < numParams-1 {
			c.selected++
		}
	case keyLeft:
		c.adjust(-1)
	case keyRight:
		c.adjust(1)
	case keyRune:
		switch ev.r {
		case 'q':
			return true
		case '1', '2', '3', '4', '5':
			c.params.SetWaveform(audio.Waveform(ev.r - '1'))
		case 'b':
			c.engine.SetBandLimited(!c.engine.BandLimited())
		case 's':
			c.engine.SetSmoothing(!c.engine.Smoothing())
		}
	}
	return false
}

func (c *controls) adjust(dir int) {
	p := c.params.Load()
	switch c.selected {
	case paramWaveform:
		if dir > 0 {
			c.params.SetWaveform(p.Waveform.Next())
		} else {
			c.params.SetWaveform(p.Waveform.Prev())
		}
	case paramFrequency:
		if dir > 0 {
			c.params.SetFrequency(min(p.Frequency*freqStep, maxFrequency))
		} else {
			c.params.SetFrequency(max(p.Frequency/freqStep, minFrequency))
		}
	case paramVolume:
		c.params.SetVolume(p.Volume + float64(dir)*volumeStep)
	}
}

// runTUI shows the live display and handles key presses until the user quits
// or ctx is done.
func runTUI(ctx context.Context, params *audio.Params, osc *audio.Oscillator, scope *audio.Scope) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("tui: stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("tui: set raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprint(out, "\033[?1049h\033[?25l") // alternate screen, hide cursor
	defer func() {
		fmt.Fprint(out, "\033[?25h\033[?1049l")
		out.Flush()
	}()

	input := make(chan []byte)
	go func() {
		// this goroutine is left blocked in Read when the display exits
		for {
			buf := make([]byte, 16)
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			select {
			case input <- buf[:n]:
			case <-ctx.Done():
				return
			}
		}
	}()

	c := &controls{params: params, engine: osc}
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	var samples []float64
	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-input:
			for _, ev := range decodeKeys(b) {
				if c.handle(ev) {
					return nil
				}
			}
		case <-ticker.C:
			width, height, err := term.GetSize(fd)
			if err != nil {
				width, height = 80, 24
			}
			samples = scope.AppendTo(samples[:0])
			renderScreen(out, view{
				params:      params.Load(),
				selected:    c.selected,
				samples:     samples,
				bandLimited: osc.BandLimited(),
				smoothing:   osc.Smoothing(),
				width:       width,
				height:      height,
			})
			if err := out.Flush(); err != nil {
				return err
			}
		}
	}
}
