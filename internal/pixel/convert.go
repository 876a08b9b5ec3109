// Package pixel converts packed scanout pixels into 8-bit RGB samples.
package pixel

import (
	"encoding/binary"
	"fmt"
)

// Sample is one converted pixel. There is no alpha channel; the source
// buffer's alpha or padding byte is discarded.
type Sample struct {
	R, G, B uint8
}

// FromRGB16 expands a packed RGB565 pixel. The low bits of each channel
// stay zero; no rounding or dithering is applied.
func FromRGB16(px uint16) Sample {
	return Sample{
		B: uint8(px&0x1f) << 3,
		G: uint8((px & 0x7e0) >> 3),
		R: uint8((px & 0xf800) >> 8),
	}
}

// FromRGB32 takes the low three bytes of a packed 32-bit pixel as blue,
// green and red, discarding the top byte.
func FromRGB32(px uint32) Sample {
	return Sample{
		B: uint8(px),
		G: uint8(px >> 8),
		R: uint8(px >> 16),
	}
}

// Convert reads width*height packed little-endian pixels from data and
// returns the samples in row-major order. Only 16 and 32 bits per pixel
// are supported; anything else is an error rather than a misread. Like the
// scanout hardware's packed layout, data is treated as a flat pixel array,
// so the caller must not include row padding.
func Convert(data []byte, width, height, bpp uint32) ([]Sample, error) {
	count := int(width) * int(height)

	var bytesPP int
	switch bpp {
	case 16:
		bytesPP = 2
	case 32:
		bytesPP = 4
	default:
		return nil, fmt.Errorf("unsupported depth: %d bits per pixel", bpp)
	}
	if need := count * bytesPP; len(data) < need {
		return nil, fmt.Errorf("short pixel buffer: have %d bytes, need %d", len(data), need)
	}

	samples := make([]Sample, count)
	if bpp == 16 {
		for i := range samples {
			samples[i] = FromRGB16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		return samples, nil
	}
	for i := range samples {
		samples[i] = FromRGB32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples, nil
}
