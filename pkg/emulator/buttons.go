package emulator

import (
	"sort"
	"strings"
)

// Button bit positions shared by GB and GBA cores.
const (
	ButtonA      = 0
	ButtonB      = 1
	ButtonSelect = 2
	ButtonStart  = 3
	ButtonRight  = 4
	ButtonLeft   = 5
	ButtonUp     = 6
	ButtonDown   = 7
	ButtonR      = 8 // GBA only
	ButtonL      = 9 // GBA only
)

var buttonBits = map[string]uint{
	"a":      ButtonA,
	"b":      ButtonB,
	"select": ButtonSelect,
	"start":  ButtonStart,
	"right":  ButtonRight,
	"left":   ButtonLeft,
	"up":     ButtonUp,
	"down":   ButtonDown,
	"r":      ButtonR,
	"l":      ButtonL,
}

// Buttons returns the valid button set for the platform.
// GB-family pads have no shoulder buttons.
func (p Platform) Buttons() map[string]uint {
	if p == PlatformGBA {
		return buttonBits
	}
	gb := make(map[string]uint, len(buttonBits)-2)
	for k, v := range buttonBits {
		if k == "l" || k == "r" {
			continue
		}
		gb[k] = v
	}
	return gb
}

// buttonMask resolves a case-insensitive button name into its key bit.
func (p Platform) buttonMask(button string) (uint32, error) {
	set := p.Buttons()
	bit, ok := set[strings.ToLower(button)]
	if !ok {
		names := make([]string, 0, len(set))
		for k := range set {
			names = append(names, k)
		}
		sort.Strings(names)
		return 0, errf("invalid button: %s, valid buttons: %s", button, strings.Join(names, ", "))
	}
	return 1 << bit, nil
}

// buttonsMask resolves a list of names into a combined bitmask.
// The whole list is validated before any state is touched.
func (p Platform) buttonsMask(buttons []string) (uint32, error) {
	var mask uint32
	for _, b := range buttons {
		m, err := p.buttonMask(b)
		if err != nil {
			return 0, err
		}
		mask |= m
	}
	return mask, nil
}
