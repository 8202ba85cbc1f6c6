// Package ambient reads the light-dependent resistor through an ADS1115.
package ambient

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/thatsimonsguy/ledclock/internal/render"
)

// adcFullScale is the largest positive ADS1115 reading.
const adcFullScale = 32767

type LightSensor struct {
	bus i2c.BusCloser
	pin ads1x15.PinADC
}

// Open reads channel 0 against a 3.3 V full scale.
func Open(busName string, addr uint16) (*LightSensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: addr})
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open ads1115: %w", err)
	}
	pin, err := adc.PinForChannel(ads1x15.Channel0, 3300*physic.MilliVolt, 8*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("configure ads1115 channel 0: %w", err)
	}
	return &LightSensor{bus: bus, pin: pin}, nil
}

// Sample returns the light level scaled to 0..render.MaxLightSample.
func (s *LightSensor) Sample() (int, error) {
	smp, err := s.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("read light level: %w", err)
	}
	return Scale(smp.Raw), nil
}

func (s *LightSensor) Close() error {
	if err := s.pin.Halt(); err != nil {
		s.bus.Close()
		return fmt.Errorf("halt ads1115: %w", err)
	}
	return s.bus.Close()
}

// Scale maps a raw single-ended reading onto the 12-bit range the
// brightness calculation expects.
func Scale(raw int32) int {
	switch {
	case raw <= 0:
		return 0
	case raw >= adcFullScale:
		return render.MaxLightSample
	}
	return int(int64(raw) * render.MaxLightSample / adcFullScale)
}

// Fixed reports a constant light level, for setups without a sensor.
type Fixed int

func (f Fixed) Sample() (int, error) {
	return int(f), nil
}
