// Package generator produces the AgroColetor download QR code: it encodes the
// release URL, rasterizes the symbol, writes download_qrcode.png and prints
// usage instructions.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SauloRodrigues20/agroqr/qr"
	"github.com/SauloRodrigues20/agroqr/store"
)

const (
	// DownloadURL is the payload of the generated code.
	DownloadURL = "https://github.com/SauloRodrigues20/Agrogeocolector/releases/latest"

	// OutputFile is written to the output directory, replacing any file of
	// the same name.
	OutputFile = "download_qrcode.png"

	moduleSize = 10
	border     = 4
)

// ErrFileWrite is returned when the image cannot be written.
var ErrFileWrite = errors.New("cannot write image file")

// Recorder stores a finished generation. It is satisfied by
// *store.HistoryStore.
type Recorder interface {
	Record(ctx context.Context, g *store.Generation) error
}

// Result describes a written image.
type Result struct {
	Path     string
	URL      string
	Engine   string
	Version  int
	Modules  int
	Width    int
	Height   int
	Checksum string
}

// Generator runs the configure, encode, render, persist and report steps.
type Generator struct {
	encoder  qr.Encoder
	out      io.Writer
	log      *slog.Logger
	dir      string
	recorder Recorder
	now      func() time.Time
}

// Option customizes a Generator.
type Option func(g *Generator)

// WithDir writes the image into dir instead of the working directory.
func WithDir(dir string) Option {
	return func(g *Generator) { g.dir = dir }
}

// WithRecorder records every successful generation.
func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// New creates a Generator that encodes with enc and prints its report to out.
func New(enc qr.Encoder, out io.Writer, log *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		encoder: enc,
		out:     out,
		log:     log,
		dir:     ".",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Configure returns the fixed encoding request for payload.
func Configure(payload string) qr.Request {
	return qr.Request{
		Payload:    payload,
		Level:      qr.LevelLow,
		Version:    qr.AutoFit,
		ModuleSize: moduleSize,
		Border:     border,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Run generates the image for DownloadURL.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	return g.Generate(ctx, DownloadURL)
}

// Generate encodes payload, writes the image and prints the report. Nothing
// is printed unless the file was written.
func (g *Generator) Generate(ctx context.Context, payload string) (*Result, error) {
	req := Configure(payload)

	sym, err := g.encoder.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	g.log.Debug("payload encoded", "engine", sym.Engine, "version", sym.Version, "modules", sym.Size())

	data, bounds, err := qr.EncodePNG(sym, req)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	path := filepath.Join(g.dir, OutputFile)
	if err := persist(path, data); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	res := &Result{
		Path:     path,
		URL:      payload,
		Engine:   sym.Engine,
		Version:  sym.Version,
		Modules:  sym.Size(),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Checksum: hex.EncodeToString(sum[:]),
	}
	g.log.Info("qr code written", "path", res.Path, "width", res.Width, "height", res.Height, "version", res.Version)

	if g.recorder != nil {
		if err := g.recorder.Record(ctx, g.generation(res, req)); err != nil {
			return nil, fmt.Errorf("record history: %w", err)
		}
	}

	if err := Report(g.out, res); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return res, nil
}

func (g *Generator) generation(res *Result, req qr.Request) *store.Generation {
	return &store.Generation{
		Path:      res.Path,
		Payload:   res.URL,
		Engine:    res.Engine,
		Level:     req.Level.String(),
		Version:   res.Version,
		Width:     res.Width,
		Height:    res.Height,
		Checksum:  res.Checksum,
		CreatedAt: g.now().Unix(),
	}
}

// persist writes data to path, truncating any existing file.
func persist(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	return nil
}
