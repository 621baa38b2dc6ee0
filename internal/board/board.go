// Package board holds the few facts about Arduino boards that block field
// dropdowns need. It is not a pin capability database.
package board

import (
	"fmt"
	"sort"
	"strconv"
)

// Profile describes one board.
type Profile struct {
	Name         string
	DigitalPins  []string
	AnalogPins   []string
	PWMPins      []string
	SerialSpeeds []string
	BuiltinLED   string
}

// Default is the board used when none is configured.
const Default = "uno"

var profiles = map[string]Profile{
	"uno": {
		Name:         "uno",
		DigitalPins:  pinRange("", 0, 13),
		AnalogPins:   pinRange("A", 0, 5),
		PWMPins:      []string{"3", "5", "6", "9", "10", "11"},
		SerialSpeeds: serialSpeeds,
		BuiltinLED:   "13",
	},
	"mega": {
		Name:         "mega",
		DigitalPins:  pinRange("", 0, 53),
		AnalogPins:   pinRange("A", 0, 15),
		PWMPins:      append(pinRange("", 2, 13), pinRange("", 44, 46)...),
		SerialSpeeds: serialSpeeds,
		BuiltinLED:   "13",
	},
}

var serialSpeeds = []string{"300", "600", "1200", "2400", "4800", "9600", "14400", "19200", "28800", "31250", "38400", "57600", "115200"}

// Get returns the named profile.
func Get(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown board %q (known: %v)", name, Names())
	}
	return p, nil
}

// Names returns the known board names, sorted.
func Names() []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func pinRange(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, prefix+strconv.Itoa(i))
	}
	return out
}
