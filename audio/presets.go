package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	"a440": {
		PropWave:   "sine",
		PropFreq:   440.0,
		PropVolume: 0.5,
	},
	"lame-bass": {
		PropWave:   "saw",
		PropFreq:   55.0,
		PropVolume: 0.6,
	},
	"chip": {
		PropWave:   "square",
		PropFreq:   880.0,
		PropVolume: 0.3,
	},
	"flute": {
		PropWave:   "triangle",
		PropFreq:   523.25,
		PropVolume: 0.5,
	},
	"hiss": {
		PropWave:   "noise",
		PropVolume: 0.2,
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	// apply in a fixed order so a failing property leaves a predictable state
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := d.Set(k, p[k]); err != nil {
			return err
		}
	}
	return nil
}

// PresetNames returns the names of all presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
