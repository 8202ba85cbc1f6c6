// Package radio tunes a TEA5767 FM receiver over I2C.
package radio

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	DefaultAddr = 0x60

	intermediateHz = 225_000
	referenceHz    = 32_768

	muteBit     = 0x80
	highSideBit = 0x10
	monoBit     = 0x08
	xtalBit     = 0x10
)

// TEA5767 is write-only apart from Probe; every change rewrites the whole
// five byte control word.
type TEA5767 struct {
	mu     sync.Mutex
	dev    *i2c.Dev
	bus    i2c.BusCloser
	tenths int
	muted  bool
	mono   bool
}

// Open initialises the host drivers and opens the receiver on the named bus.
func Open(busName string, addr uint16) (*TEA5767, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	r := New(bus, addr)
	r.bus = bus
	return r, nil
}

// New starts muted and in mono.
func New(bus i2c.Bus, addr uint16) *TEA5767 {
	return &TEA5767{dev: &i2c.Dev{Bus: bus, Addr: addr}, muted: true, mono: true}
}

// Probe reads the status word. An error means no receiver answered.
func (r *TEA5767) Probe() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := make([]byte, 5)
	if err := r.dev.Tx(nil, status); err != nil {
		return fmt.Errorf("probe tea5767: %w", err)
	}
	return nil
}

// Init writes the muted, mono state.
func (r *TEA5767) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write()
}

// Tune sets the frequency in tenths of a MHz.
func (r *TEA5767) Tune(tenths int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenths = tenths
	return r.write()
}

func (r *TEA5767) SetMute(muted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = muted
	return r.write()
}

func (r *TEA5767) Close() error {
	if r.bus == nil {
		return nil
	}
	return r.bus.Close()
}

func (r *TEA5767) write() error {
	w := controlWord(r.tenths, r.muted, r.mono)
	if err := r.dev.Tx(w[:], nil); err != nil {
		return fmt.Errorf("write tea5767: %w", err)
	}
	return nil
}

// controlWord builds the write register set for high-side injection with a
// 32.768 kHz crystal.
func controlWord(tenths int, muted, mono bool) [5]byte {
	pll := 4 * (tenths*100_000 + intermediateHz) / referenceHz

	var w [5]byte
	w[0] = byte(pll>>8) & 0x3F
	if muted {
		w[0] |= muteBit
	}
	w[1] = byte(pll)
	w[2] = highSideBit
	if mono {
		w[2] |= monoBit
	}
	w[3] = xtalBit
	return w
}
