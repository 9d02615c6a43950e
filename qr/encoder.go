package qr

import (
	"fmt"

	barcodeqr "github.com/boombuler/barcode/qr"
	"github.com/skip2/go-qrcode"
)

// Engine names accepted by NewEncoder.
const (
	EngineSkip2     = "skip2"
	EngineBoombuler = "boombuler"
)

// Encoder encodes a Request into a Symbol.
type Encoder interface {
	Encode(req Request) (*Symbol, error)
	Name() string
}

// NewEncoder returns the encoder registered under engine.
func NewEncoder(engine string) (Encoder, error) {
	switch engine {
	case "", EngineSkip2:
		return skip2Encoder{}, nil
	case EngineBoombuler:
		return boombulerEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown encoder engine %q", engine)
	}
}

// --- skip2/go-qrcode ---------------------------------------------------------

type skip2Encoder struct{}

func (skip2Encoder) Name() string { return EngineSkip2 }

func (skip2Encoder) Encode(req Request) (*Symbol, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// go-qrcode refuses zero-length content; boombuler encodes it as an
	// empty numeric segment in a version 1 symbol.
	if req.Payload == "" {
		return boombulerEncoder{}.Encode(req)
	}

	var (
		code *qrcode.QRCode
		err  error
	)
	if req.Version == AutoFit {
		code, err = qrcode.New(req.Payload, skip2Level(req.Level))
	} else {
		code, err = qrcode.NewWithForcedVersion(req.Payload, req.Version, skip2Level(req.Level))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
	}

	// Quiet zone is drawn by Render.
	code.DisableBorder = true
	return &Symbol{
		Engine:  EngineSkip2,
		Version: code.VersionNumber,
		Modules: code.Bitmap(),
	}, nil
}

func skip2Level(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelMedium:
		return qrcode.Medium
	case LevelQuartile:
		return qrcode.High
	case LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Low
	}
}

// --- boombuler/barcode -------------------------------------------------------

type boombulerEncoder struct{}

func (boombulerEncoder) Name() string { return EngineBoombuler }

func (boombulerEncoder) Encode(req Request) (*Symbol, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	code, err := barcodeqr.Encode(req.Payload, boombulerLevel(req.Level), barcodeqr.Auto)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
	}

	bounds := code.Bounds()
	side := bounds.Dx()
	version := versionForSide(side)

	// boombuler always picks the smallest version; a forced version is
	// honored only when that choice matches it.
	if req.Version != AutoFit {
		if version > req.Version {
			return nil, fmt.Errorf("%w: needs version %d, forced %d", ErrCapacityExceeded, version, req.Version)
		}
		if version < req.Version {
			return nil, fmt.Errorf("boombuler engine cannot pad to version %d (payload fits version %d)", req.Version, version)
		}
	}

	modules := make([][]bool, side)
	for y := 0; y < side; y++ {
		row := make([]bool, side)
		for x := 0; x < side; x++ {
			r, _, _, _ := code.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			row[x] = r == 0
		}
		modules[y] = row
	}

	return &Symbol{Engine: EngineBoombuler, Version: version, Modules: modules}, nil
}

func boombulerLevel(l Level) barcodeqr.ErrorCorrectionLevel {
	switch l {
	case LevelMedium:
		return barcodeqr.M
	case LevelQuartile:
		return barcodeqr.Q
	case LevelHigh:
		return barcodeqr.H
	default:
		return barcodeqr.L
	}
}
