package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/wavegen/audio"
	"github.com/mrdg/wavegen/dub"
)

var errQuit = errors.New("quit")

type env struct {
	params *audio.Params
	osc    *audio.Oscillator
	scope  *audio.Scope
}

func (e *env) eval(input string) (string, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return "", err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(command.Args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil && err != errQuit {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, err
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func runREPL(ctx context.Context, e *env, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		HistoryFile:  historyFile,
		AutoComplete: completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := e.eval(line)
		if err == errQuit {
			return nil
		}
		if err != nil {
			fmt.Println(err)
		} else if result != "" {
			fmt.Println(result)
		}
	}
}

func completer() *readline.PrefixCompleter {
	var waves []readline.PrefixCompleterInterface
	for w := audio.Sine; w <= audio.Noise; w++ {
		waves = append(waves, readline.PcItem(w.String()))
	}
	var presets []readline.PrefixCompleterInterface
	for _, name := range audio.PresetNames() {
		presets = append(presets, readline.PcItem(name))
	}
	onOff := []readline.PrefixCompleterInterface{readline.PcItem("on"), readline.PcItem("off")}

	items := []readline.PrefixCompleterInterface{
		readline.PcItem("wave", waves...),
		readline.PcItem("preset", presets...),
		readline.PcItem("band", onOff...),
		readline.PcItem("smooth", onOff...),
		readline.PcItem("set",
			readline.PcItem(audio.PropWave),
			readline.PcItem(audio.PropFreq),
			readline.PcItem(audio.PropVolume),
		),
	}
	for _, cmd := range commands {
		switch cmd.name {
		case "wave", "preset", "band", "smooth", "set":
		default:
			items = append(items, readline.PcItem(cmd.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

type command struct {
	name  string
	help  string
	run   func(*env, []dub.Node) (string, error)
	arity int
}

var commands []command

func init() {
	// assigned in init because helpCommand refers to commands
	commands = []command{
		{"wave", "wave <sine|saw|tri|square|noise>: select the waveform", waveCommand, 1},
		{"freq", "freq <hz>: set the frequency", freqCommand, 1},
		{"vol", "vol <0..1>: set the volume", volCommand, 1},
		{"set", "set <property> <value>: set wave, freq or volume", setCommand, 2},
		{"band", "band <on|off>: toggle band-limited synthesis", bandCommand, 1},
		{"smooth", "smooth <on|off>: toggle smoothing", smoothCommand, 1},
		{"preset", "preset <name>: load a preset", presetCommand, 1},
		{"show", "show: print the current settings", showCommand, 0},
		{"scope", "scope: plot the most recent waveform snapshot", scopeCommand, 0},
		{"help", "help: list commands", helpCommand, 0},
		{"quit", "quit: stop playing and exit", quitCommand, 0},
	}
}

func waveCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	return "", env.params.Set(audio.PropWave, name)
}

func freqCommand(env *env, args []dub.Node) (string, error) {
	var freq float64
	if err := readArgs(args, &freq); err != nil {
		return "", err
	}
	return "", env.params.Set(audio.PropFreq, freq)
}

func volCommand(env *env, args []dub.Node) (string, error) {
	var vol float64
	if err := readArgs(args, &vol); err != nil {
		return "", err
	}
	return "", env.params.Set(audio.PropVolume, vol)
}

func setCommand(env *env, args []dub.Node) (string, error) {
	var prop string
	if err := readArgs(args[:1], &prop); err != nil {
		return "", err
	}
	switch v := args[1].(type) {
	case dub.Int:
		return "", env.params.Set(prop, int(v))
	case dub.Float:
		return "", env.params.Set(prop, float64(v))
	case dub.String:
		return "", env.params.Set(prop, string(v))
	case dub.Identifier:
		return "", env.params.Set(prop, string(v))
	default:
		return "", fmt.Errorf("unsupported property type: %v", v)
	}
}

func bandCommand(env *env, args []dub.Node) (string, error) {
	var on bool
	if err := readArgs(args, &on); err != nil {
		return "", err
	}
	env.osc.SetBandLimited(on)
	return "", nil
}

func smoothCommand(env *env, args []dub.Node) (string, error) {
	var on bool
	if err := readArgs(args, &on); err != nil {
		return "", err
	}
	env.osc.SetSmoothing(on)
	return "", nil
}

func presetCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	return "", audio.LoadPreset(name, env.params)
}

func showCommand(env *env, args []dub.Node) (string, error) {
	p := env.params.Load()
	return fmt.Sprintf("%s %.1fHz volume %.0f%% band-limited %s smoothing %s",
		p.Waveform, p.Frequency, p.Volume*100, onOff(env.osc.BandLimited()), onOff(env.osc.Smoothing())), nil
}

const (
	scopeWidth  = 72
	scopeHeight = 13
)

func scopeCommand(env *env, args []dub.Node) (string, error) {
	lines := renderChart(env.params.Load(), env.scope.Samples(), scopeWidth, scopeHeight)
	return strings.Join(lines, "\n"), nil
}

func helpCommand(env *env, args []dub.Node) (string, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, cmd.help)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

func quitCommand(env *env, args []dub.Node) (string, error) {
	return "", errQuit
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch n := arg.(type) {
			case dub.Int:
				*p = float64(n)
			case dub.Float:
				*p = float64(n)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *bool:
			s, ok := arg.(dub.Identifier)
			if !ok || (s != "on" && s != "off") {
				return fmt.Errorf("argument error: expected on or off")
			}
			*p = s == "on"
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
