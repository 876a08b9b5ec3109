// Package capture drives one pass over a device's active planes: resolve
// each plane's framebuffer, map every present memory plane, hand the bytes
// to a writer, and release each mapping before the next is touched.
package capture

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/kmsgrab/internal/kms"
	"github.com/1broseidon/kmsgrab/internal/output"
)

// Region is a mapped memory plane. Close releases the mapping and the
// descriptor backing it.
type Region interface {
	Bytes() []byte
	Close() error
}

// Device is the slice of kms.Device the capture loop needs. Keeping it an
// interface lets tests run the loop against an in-memory device.
type Device interface {
	ActivePlanes() ([]kms.ActivePlane, error)
	Framebuffer(id uint32) (*kms.Framebuffer, error)
	MapPlane(mp kms.MemoryPlane, height uint32) (Region, error)
}

// Run captures every active plane. Failures local to one memory plane
// (export, map) are logged and skipped; a framebuffer that cannot be
// resolved or a payload that cannot be written aborts the run. Output
// files written before an abort are left on disk.
func Run(dev Device, out output.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	planes, err := dev.ActivePlanes()
	if err != nil {
		return err
	}
	logger.Info("capturing planes", "count", len(planes))

	for _, plane := range planes {
		fb, err := dev.Framebuffer(plane.FramebufferID)
		if err != nil {
			return err
		}
		logger.Debug("resolved framebuffer",
			"plane", plane.Index,
			"fb", fb.ID,
			"size", fmt.Sprintf("%dx%d", fb.Width, fb.Height),
			"format", kms.FormatName(fb.PixelFormat),
			"memory_planes", len(fb.Planes))

		if err := capturePlane(dev, out, plane, fb, logger); err != nil {
			return err
		}
	}
	return nil
}

func capturePlane(dev Device, out output.Writer, plane kms.ActivePlane, fb *kms.Framebuffer, logger *slog.Logger) error {
	sink, err := out.OpenPlane(plane.Index, fb)
	if err != nil {
		return err
	}

	for _, mp := range fb.Planes {
		region, err := dev.MapPlane(mp, fb.Height)
		if err != nil {
			logger.Warn("skipping memory plane",
				"plane", plane.Index, "memory_plane", mp.Index, "err", err)
			continue
		}

		werr := sink.WriteMemoryPlane(mp, region.Bytes())
		if cerr := region.Close(); cerr != nil {
			logger.Warn("releasing mapping failed",
				"plane", plane.Index, "memory_plane", mp.Index, "err", cerr)
		}
		if werr != nil {
			if cerr := sink.Close(); cerr != nil {
				logger.Warn("closing output failed",
					"plane", plane.Index, "err", cerr)
			}
			return werr
		}
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("close output for plane %d: %w", plane.Index, err)
	}
	return nil
}
