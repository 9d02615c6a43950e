// Package qr turns a payload string into a QR symbol and rasterizes it.
//
// Encoding is delegated to third-party engines (skip2/go-qrcode by default,
// boombuler/barcode as an alternative). This package only normalizes their
// output into a Symbol and draws it with a fixed module size and quiet zone.
package qr

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrCapacityExceeded is returned when the payload does not fit into the
// requested version at the requested error-correction level.
var ErrCapacityExceeded = errors.New("payload exceeds symbol capacity")

// AutoFit lets the encoder pick the smallest version that holds the payload.
const AutoFit = 0

// MaxVersion is the largest QR symbol version.
const MaxVersion = 40

// Level is a QR error-correction level.
type Level int

const (
	LevelLow      Level = iota // ~7% recoverable
	LevelMedium                // ~15%
	LevelQuartile              // ~25%
	LevelHigh                  // ~30%
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelMedium:
		return "M"
	case LevelQuartile:
		return "Q"
	case LevelHigh:
		return "H"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Request describes a single encoding. It is built once and never mutated.
type Request struct {
	Payload    string
	Level      Level
	Version    int // AutoFit or 1..MaxVersion
	ModuleSize int // pixels per module
	Border     int // quiet zone width in modules

	Foreground color.Color
	Background color.Color
}

// Validate checks the parameters the engines do not check themselves.
func (r Request) Validate() error {
	if r.Level < LevelLow || r.Level > LevelHigh {
		return fmt.Errorf("invalid error-correction level %d", int(r.Level))
	}
	if r.Version < AutoFit || r.Version > MaxVersion {
		return fmt.Errorf("invalid version %d (expected 1-%d or auto-fit)", r.Version, MaxVersion)
	}
	if r.ModuleSize <= 0 {
		return fmt.Errorf("module size must be positive, got %d", r.ModuleSize)
	}
	if r.Border < 0 {
		return fmt.Errorf("border must not be negative, got %d", r.Border)
	}
	return nil
}

// Symbol is an encoded QR matrix without quiet zone. Modules[y][x] is true
// for a dark module. Engine names the encoder that built it, which can differ
// from the one asked for.
type Symbol struct {
	Engine  string
	Version int
	Modules [][]bool
}

// Size returns the side length of the symbol in modules.
func (s *Symbol) Size() int {
	return len(s.Modules)
}

// sideForVersion returns the module count of one side for a version.
func sideForVersion(version int) int {
	return 17 + 4*version
}

// versionForSide is the inverse of sideForVersion.
func versionForSide(side int) int {
	return (side - 17) / 4
}
