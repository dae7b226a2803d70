package render

// Color channels are linear 0..1.
type Color struct{ R, G, B float32 }

// RGB8 converts 8-bit channels.
func RGB8(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// Driver abstracts the LED transport; rgb holds 3 bytes per physical cell.
type Driver interface {
	Write(rgb []byte) error
}

// Segment is a contiguous range of logical positions painted with one color.
type Segment struct {
	Name        string
	Start, Stop int
	Color       Color
	On          bool
}

func clamp255(x float32) byte {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return byte(x * 255.0)
}

// Bytes packs buf as R,G,B bytes.
func Bytes(buf []Color) []byte {
	rgb := make([]byte, len(buf)*3)
	for i := range buf {
		rgb[i*3+0] = clamp255(buf[i].R)
		rgb[i*3+1] = clamp255(buf[i].G)
		rgb[i*3+2] = clamp255(buf[i].B)
	}
	return rgb
}
