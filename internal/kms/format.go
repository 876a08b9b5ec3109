package kms

// DRM fourcc pixel format codes for the formats the converter understands.
const (
	FormatRGB565   = 'R' | 'G'<<8 | '1'<<16 | '6'<<24
	FormatBGR565   = 'B' | 'G'<<8 | '1'<<16 | '6'<<24
	FormatXRGB8888 = 'X' | 'R'<<8 | '2'<<16 | '4'<<24
	FormatXBGR8888 = 'X' | 'B'<<8 | '2'<<16 | '4'<<24
	FormatRGBX8888 = 'R' | 'X'<<8 | '2'<<16 | '4'<<24
	FormatBGRX8888 = 'B' | 'X'<<8 | '2'<<16 | '4'<<24
	FormatARGB8888 = 'A' | 'R'<<8 | '2'<<16 | '4'<<24
	FormatABGR8888 = 'A' | 'B'<<8 | '2'<<16 | '4'<<24
	FormatRGBA8888 = 'R' | 'A'<<8 | '2'<<16 | '4'<<24
	FormatBGRA8888 = 'B' | 'A'<<8 | '2'<<16 | '4'<<24
)

// FormatBPP maps a fourcc code to the packed bits-per-pixel the converter
// is keyed on. Unknown formats map to 0 and are rejected downstream rather
// than misread.
func FormatBPP(format uint32) uint32 {
	switch format {
	case FormatRGB565, FormatBGR565:
		return 16
	case FormatXRGB8888, FormatXBGR8888, FormatRGBX8888, FormatBGRX8888,
		FormatARGB8888, FormatABGR8888, FormatRGBA8888, FormatBGRA8888:
		return 32
	}
	return 0
}

// FormatName renders a fourcc code as its four characters, for log output.
func FormatName(format uint32) string {
	return string([]byte{
		byte(format),
		byte(format >> 8),
		byte(format >> 16),
		byte(format >> 24),
	})
}
