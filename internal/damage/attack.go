package damage

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMode = errors.New("damage: unknown attack mode")

type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeAccelerated Mode = "accelerated"
	ModeExplosive   Mode = "explosive"
)

var multipliers = map[Mode]float64{
	ModeNormal:      1.0,
	ModeAccelerated: 1.3,
	ModeExplosive:   1.5,
}

// Modes lists the recognized attack modes in increasing strength.
func Modes() []Mode {
	return []Mode{ModeNormal, ModeAccelerated, ModeExplosive}
}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeNormal, nil
	}
	if _, ok := multipliers[m]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMode, s)
	}
	return m, nil
}

// MultiplierFor returns the force multiplier of an attack mode. The empty
// mode is normal.
func MultiplierFor(m Mode) (float64, error) {
	if m == "" {
		m = ModeNormal
	}
	f, ok := multipliers[m]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMode, m)
	}
	return f, nil
}
