package pixel

import (
	"strings"
	"testing"
)

func TestFromRGB16_LowChannelBitsAlwaysZero(t *testing.T) {
	for px := 0; px <= 0xffff; px++ {
		s := FromRGB16(uint16(px))
		if s.B&0x07 != 0 {
			t.Fatalf("pixel %#04x: blue low 3 bits not zero: %#02x", px, s.B)
		}
		if s.G&0x03 != 0 {
			t.Fatalf("pixel %#04x: green low 2 bits not zero: %#02x", px, s.G)
		}
		if s.R&0x07 != 0 {
			t.Fatalf("pixel %#04x: red low 3 bits not zero: %#02x", px, s.R)
		}
	}
}

func TestFromRGB16_RequantizeRoundTrip(t *testing.T) {
	for px := 0; px <= 0xffff; px++ {
		s := FromRGB16(uint16(px))
		back := uint16(s.B>>3) | uint16(s.G>>2)<<5 | uint16(s.R>>3)<<11
		if back != uint16(px) {
			t.Fatalf("pixel %#04x: requantized to %#04x", px, back)
		}
		if FromRGB16(back) != s {
			t.Fatalf("pixel %#04x: round trip changed sample %+v", px, s)
		}
	}
}

func TestFromRGB16_KnownValues(t *testing.T) {
	cases := []struct {
		px   uint16
		want Sample
	}{
		{0x0000, Sample{0, 0, 0}},
		{0xffff, Sample{R: 0xf8, G: 0xfc, B: 0xf8}},
		{0x001f, Sample{B: 0xf8}},
		{0x07e0, Sample{G: 0xfc}},
		{0xf800, Sample{R: 0xf8}},
	}
	for _, c := range cases {
		if got := FromRGB16(c.px); got != c.want {
			t.Fatalf("FromRGB16(%#04x) = %+v, want %+v", c.px, got, c.want)
		}
	}
}

func TestFromRGB32_DiscardsTopByteOnly(t *testing.T) {
	cases := []struct {
		px   uint32
		want Sample
	}{
		{0x00000000, Sample{}},
		{0xff000000, Sample{}},
		{0x00ffffff, Sample{R: 0xff, G: 0xff, B: 0xff}},
		{0x00302010, Sample{R: 0x30, G: 0x20, B: 0x10}},
		{0x7f302010, Sample{R: 0x30, G: 0x20, B: 0x10}},
	}
	for _, c := range cases {
		if got := FromRGB32(c.px); got != c.want {
			t.Fatalf("FromRGB32(%#08x) = %+v, want %+v", c.px, got, c.want)
		}
	}
}

func TestConvert_TwoPixel32BitScenario(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0xff, 0x00,
		0x10, 0x20, 0x30, 0x00,
	}
	samples, err := Convert(data, 2, 1, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0] != (Sample{R: 0, G: 0, B: 0xff}) {
		t.Fatalf("sample 0 = %+v", samples[0])
	}
	if samples[1] != (Sample{R: 0x30, G: 0x20, B: 0x10}) {
		t.Fatalf("sample 1 = %+v", samples[1])
	}
}

func TestConvert_16BitRowMajor(t *testing.T) {
	// Two RGB565 pixels: pure blue, pure red (little endian).
	data := []byte{0x1f, 0x00, 0x00, 0xf8}
	samples, err := Convert(data, 2, 1, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if samples[0] != (Sample{B: 0xf8}) {
		t.Fatalf("sample 0 = %+v", samples[0])
	}
	if samples[1] != (Sample{R: 0xf8}) {
		t.Fatalf("sample 1 = %+v", samples[1])
	}
}

func TestConvert_RejectsUnsupportedDepth(t *testing.T) {
	for _, bpp := range []uint32{0, 8, 15, 24, 64} {
		_, err := Convert(make([]byte, 64), 2, 2, bpp)
		if err == nil {
			t.Fatalf("expected error for %d bpp", bpp)
		}
		if !strings.Contains(err.Error(), "unsupported depth") {
			t.Fatalf("unexpected error for %d bpp: %v", bpp, err)
		}
	}
}

func TestConvert_RejectsShortBuffer(t *testing.T) {
	if _, err := Convert(make([]byte, 7), 2, 1, 32); err == nil {
		t.Fatalf("expected error for short buffer")
	}
}
