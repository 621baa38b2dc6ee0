package app

import (
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/modules/core"
	"github.com/specialistvlad/ardublockgo/modules/io"
	"github.com/specialistvlad/ardublockgo/modules/serial"
	"github.com/specialistvlad/ardublockgo/modules/servo"
	"github.com/specialistvlad/ardublockgo/modules/timing"
	"github.com/specialistvlad/ardublockgo/modules/ultrasonic"
)

// coreModules is the definitive list of all block modules that are compiled
// into the ardublockgo binary.
var coreModules = []registry.Module{
	&core.Module{},
	&io.Module{},
	&timing.Module{},
	&serial.Module{},
	&ultrasonic.Module{},
	&servo.Module{},
}
