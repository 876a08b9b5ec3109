// Package output writes captured plane payloads to disk, one file per
// active display plane.
package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"github.com/1broseidon/kmsgrab/internal/kms"
	"github.com/1broseidon/kmsgrab/internal/pixel"
)

// PlaneSink receives the payloads of one display plane's memory planes.
// Close must be called exactly once, after the last payload.
type PlaneSink interface {
	WriteMemoryPlane(mp kms.MemoryPlane, data []byte) error
	Close() error
}

// Writer opens one sink per active display plane.
type Writer interface {
	OpenPlane(planeIndex int, fb *kms.Framebuffer) (PlaneSink, error)
}

// RawWriter writes each memory plane's mapped bytes verbatim to
// <prefix>-<planeIndex>.raw.
type RawWriter struct {
	Prefix string
}

// NewRawWriter returns a Writer producing raw per-plane dumps.
func NewRawWriter(prefix string) *RawWriter {
	return &RawWriter{Prefix: prefix}
}

// OpenPlane creates the plane's output file. Existing files are truncated.
func (w *RawWriter) OpenPlane(planeIndex int, _ *kms.Framebuffer) (PlaneSink, error) {
	name := fmt.Sprintf("%s-%d.raw", w.Prefix, planeIndex)
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", name, err)
	}
	return &rawSink{f: f}, nil
}

type rawSink struct {
	f *os.File
}

func (s *rawSink) WriteMemoryPlane(_ kms.MemoryPlane, data []byte) error {
	if _, err := s.f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", s.f.Name(), err)
	}
	return nil
}

func (s *rawSink) Close() error {
	return s.f.Close()
}

// PNGWriter encodes memory plane 0 of convertible buffers to
// <prefix>-<planeIndex>.png. Buffers whose format the converter does not
// understand fall back to a raw dump for that plane.
type PNGWriter struct {
	Prefix string
	logger *slog.Logger
	raw    *RawWriter
}

// NewPNGWriter returns a Writer producing PNG images where possible.
func NewPNGWriter(prefix string, logger *slog.Logger) *PNGWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PNGWriter{
		Prefix: prefix,
		logger: logger,
		raw:    NewRawWriter(prefix),
	}
}

func (w *PNGWriter) OpenPlane(planeIndex int, fb *kms.Framebuffer) (PlaneSink, error) {
	if fb.BPP == 0 {
		w.logger.Warn("format not convertible, writing raw",
			"plane", planeIndex, "format", kms.FormatName(fb.PixelFormat))
		return w.raw.OpenPlane(planeIndex, fb)
	}
	name := fmt.Sprintf("%s-%d.png", w.Prefix, planeIndex)
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", name, err)
	}
	return &pngSink{f: f, fb: fb, logger: w.logger}, nil
}

type pngSink struct {
	f      *os.File
	fb     *kms.Framebuffer
	logger *slog.Logger
}

func (s *pngSink) WriteMemoryPlane(mp kms.MemoryPlane, data []byte) error {
	if mp.Index != 0 {
		// A convertible packed-RGB buffer has a single image plane;
		// extra memory planes have no place in the encoded file.
		s.logger.Warn("skipping extra memory plane in PNG output",
			"memory_plane", mp.Index)
		return nil
	}

	packed, err := dropRowPadding(data, mp.Pitch, s.fb)
	if err != nil {
		return fmt.Errorf("convert %s: %w", s.f.Name(), err)
	}
	samples, err := pixel.Convert(packed, s.fb.Width, s.fb.Height, s.fb.BPP)
	if err != nil {
		return fmt.Errorf("convert %s: %w", s.f.Name(), err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(s.fb.Width), int(s.fb.Height)))
	for i, sm := range samples {
		x := i % int(s.fb.Width)
		y := i / int(s.fb.Width)
		img.SetNRGBA(x, y, color.NRGBA{R: sm.R, G: sm.G, B: sm.B, A: 0xff})
	}
	if err := png.Encode(s.f, img); err != nil {
		return fmt.Errorf("encode %s: %w", s.f.Name(), err)
	}
	return nil
}

func (s *pngSink) Close() error {
	return s.f.Close()
}

// dropRowPadding strips the per-row alignment padding from a mapped plane.
// Drivers commonly align the pitch past width*bytes-per-pixel; the
// converter wants a flat pixel array.
func dropRowPadding(data []byte, pitch uint32, fb *kms.Framebuffer) ([]byte, error) {
	rowBytes := int(fb.Width) * int(fb.BPP) / 8
	stride := int(pitch)
	if stride == 0 || stride == rowBytes {
		return data, nil
	}
	if stride < rowBytes {
		return nil, fmt.Errorf("pitch %d shorter than row of %d bytes", stride, rowBytes)
	}

	packed := make([]byte, 0, rowBytes*int(fb.Height))
	for y := 0; y < int(fb.Height); y++ {
		start := y * stride
		if start+rowBytes > len(data) {
			return nil, fmt.Errorf("short pixel buffer: row %d ends past %d bytes", y, len(data))
		}
		packed = append(packed, data[start:start+rowBytes]...)
	}
	return packed, nil
}
