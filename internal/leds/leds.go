// Package leds drives the WS2812 chain behind the seven-segment face over SPI.
package leds

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/thatsimonsguy/ledclock/internal/render"
)

type Strip struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	buf  []byte
}

// Open initialises the host drivers and the LED chain on the named SPI port.
// An empty name picks the first port.
func Open(spiPort string, hz int64) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", spiPort, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = render.LEDCount
	opts.Channels = 3
	opts.Freq = physic.Frequency(hz) * physic.Hertz

	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open led chain: %w", err)
	}
	return &Strip{port: port, dev: dev, buf: make([]byte, 3*render.LEDCount)}, nil
}

func (s *Strip) Show(f render.Frame) error {
	pack(f, s.buf)
	if _, err := s.dev.Write(s.buf); err != nil {
		return fmt.Errorf("write leds: %w", err)
	}
	return nil
}

// Close blanks the chain and releases the port.
func (s *Strip) Close() error {
	if err := s.dev.Halt(); err != nil {
		s.port.Close()
		return fmt.Errorf("halt leds: %w", err)
	}
	return s.port.Close()
}

// pack lays the frame out as consecutive RGB triplets in LED order.
func pack(f render.Frame, buf []byte) {
	for i, c := range f {
		buf[3*i] = c.R
		buf[3*i+1] = c.G
		buf[3*i+2] = c.B
	}
}
