package kms

// MemoryPlane is one physically separate allocation backing a framebuffer:
// luma, chroma, or the whole image for packed formats. Index is the slot
// (0–3) it occupied in the kernel reply.
type MemoryPlane struct {
	Index  int
	Handle uint32
	Pitch  uint32
	Offset uint32
}

// Framebuffer describes the geometry and backing memory of one scanout
// buffer. Planes holds only the memory planes that are actually present;
// absent slots are dropped at construction instead of being carried around
// as zero-handle sentinels.
type Framebuffer struct {
	ID          uint32
	Width       uint32
	Height      uint32
	PixelFormat uint32

	// BPP is derived from PixelFormat; 0 means the format is not one the
	// converter understands.
	BPP uint32

	Planes []MemoryPlane
}

func newFramebuffer(id, width, height, format uint32, handles, pitches, offsets [4]uint32) *Framebuffer {
	fb := &Framebuffer{
		ID:          id,
		Width:       width,
		Height:      height,
		PixelFormat: format,
		BPP:         FormatBPP(format),
	}
	for i := range handles {
		if handles[i] == 0 {
			continue
		}
		fb.Planes = append(fb.Planes, MemoryPlane{
			Index:  i,
			Handle: handles[i],
			Pitch:  pitches[i],
			Offset: offsets[i],
		})
	}
	return fb
}
