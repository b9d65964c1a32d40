package quality

import (
	"fmt"
	"strings"
)

// Level is an ordinal rendering quality label. Levels order low < balanced <
// high < ultra; the adaptive monitor steps between adjacent levels only.
type Level string

const (
	Low      Level = "low"
	Balanced Level = "balanced"
	High     Level = "high"
	Ultra    Level = "ultra"
)

var ladder = []Level{Low, Balanced, High, Ultra}

var levelIndex = func() map[Level]int {
	idx := make(map[Level]int, len(ladder))
	for i, level := range ladder {
		idx[level] = i
	}
	return idx
}()

// Parse returns the Level for a label, case-insensitively.
func Parse(value string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := levelIndex[level]; !ok {
		return "", fmt.Errorf("unknown quality level %q (expected low, balanced, high, or ultra)", value)
	}
	return level, nil
}

// Levels returns the ladder from lowest to highest.
func Levels() []Level {
	out := make([]Level, len(ladder))
	copy(out, ladder)
	return out
}

func (l Level) String() string { return string(l) }

// Index returns the ordinal position of the level, or -1 when unknown.
func (l Level) Index() int {
	if idx, ok := levelIndex[l]; ok {
		return idx
	}
	return -1
}

// StepDown returns the next lower level, or the same level at the bottom.
func (l Level) StepDown() Level {
	idx := l.Index()
	if idx <= 0 {
		return Low
	}
	return ladder[idx-1]
}

// StepUp returns the next higher level, or the same level at the top.
func (l Level) StepUp() Level {
	idx := l.Index()
	if idx < 0 {
		return Balanced
	}
	if idx >= len(ladder)-1 {
		return Ultra
	}
	return ladder[idx+1]
}

// Clamp bounds the level to [min, max] on the ladder.
func (l Level) Clamp(min, max Level) Level {
	idx := l.Index()
	if idx < 0 {
		return min
	}
	if lo := min.Index(); lo >= 0 && idx < lo {
		return min
	}
	if hi := max.Index(); hi >= 0 && idx > hi {
		return max
	}
	return l
}

// CRF returns the x264 constant rate factor for the level. Lower is better.
func (l Level) CRF() int {
	switch l {
	case Low:
		return 28
	case High:
		return 20
	case Ultra:
		return 17
	default:
		return 23
	}
}

// SpeedPreset returns the x264 speed preset for the level. Slower presets
// spend more encode time per frame.
func (l Level) SpeedPreset() string {
	switch l {
	case Low:
		return "veryfast"
	case High:
		return "slow"
	case Ultra:
		return "slower"
	default:
		return "medium"
	}
}
