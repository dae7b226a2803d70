package led

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// RefreshRate is the WS2812 bit rate in kHz.
const RefreshRate physic.Frequency = 800

// Drawer writes frames to a periph display.Drawer as a 1×N image.
type Drawer struct {
	mu     sync.Mutex
	count  int
	order  [3]int // source channel for each byte handed to the drawer
	drawer display.Drawer
	port   io.Closer
}

// NewDrawer wraps d for count cells. port, if not nil, is closed with the driver.
func NewDrawer(d display.Drawer, count int, port io.Closer) *Drawer {
	return &Drawer{count: count, order: [3]int{0, 1, 2}, drawer: d, port: port}
}

// NewConsole prints frames as ANSI colored blocks on the terminal.
func NewConsole(count int) *Drawer {
	return NewDrawer(screen.New(count), count, nil)
}

// NewSPI opens an SPI port (name "" picks the first one) and drives a
// WS2812 strip through nrzled. colorOrder is the wire order of the strip;
// speedHz <= 0 selects the default SPI clock.
func NewSPI(name string, count int, colorOrder string, speedHz int) (*Drawer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", name, err)
	}
	freq := ((RefreshRate * 3) + 100) * physic.KiloHertz
	if speedHz > 0 {
		freq = physic.Frequency(speedHz) * physic.Hertz
	}
	d, err := newNRZ(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	dr := NewDrawer(d, count, p)
	dr.order = nrzOrder(colorOrder)
	return dr, nil
}

func newNRZ(p spi.Port, count int, freq physic.Frequency) (*nrzled.Dev, error) {
	opts := nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	return d, nil
}

// nrzOrder returns, for each RGB input slot of nrzled, the source channel so
// that the wire carries colorOrder. nrzled sends its input as G,R,B.
func nrzOrder(colorOrder string) [3]int {
	idx := func(ch byte) int {
		switch ch {
		case 'R':
			return 0
		case 'G':
			return 1
		default:
			return 2
		}
	}
	if len(colorOrder) != 3 {
		colorOrder = "GRB"
	}
	var o [3]int
	o[1] = idx(colorOrder[0])
	o[0] = idx(colorOrder[1])
	o[2] = idx(colorOrder[2])
	return o
}

func (d *Drawer) image(rgb []byte) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, d.count, 1))
	for x := 0; x < d.count; x++ {
		px := rgb[x*3 : x*3+3]
		im.SetNRGBA(x, 0, color.NRGBA{R: px[d.order[0]], G: px[d.order[1]], B: px[d.order[2]], A: 255})
	}
	return im
}

func (d *Drawer) Write(rgb []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawer == nil {
		return ErrClosed
	}
	if len(rgb) != d.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), d.count)
	}
	if err := d.drawer.Draw(d.drawer.Bounds(), d.image(rgb), image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (d *Drawer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawer == nil {
		return nil
	}
	err := d.drawer.Halt()
	d.drawer = nil
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
