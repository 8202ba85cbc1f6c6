//go:build linux

package gpio

import (
	"fmt"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
)

// RealPanel uses actual Raspberry Pi hardware. The button and switches are
// wired to ground with pull-ups, so they are requested active-low.
type RealPanel struct {
	chip        *gpiocdev.Chip
	encoder     *gpiocdev.Lines
	button      *gpiocdev.Line
	alarmSwitch *gpiocdev.Line
	noAlarm     *gpiocdev.Line
	buzzer      *gpiocdev.Line
}

func NewRealPanel(chipName string, pins Pins, dec Decoder) (*RealPanel, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	p := &RealPanel{chip: chip}

	// Edge events arrive on the request's own goroutine, possibly before
	// RequestLines has returned.
	var lines atomic.Pointer[gpiocdev.Lines]
	vals := make([]int, 2)
	handler := func(gpiocdev.LineEvent) {
		l := lines.Load()
		if l == nil {
			return
		}
		if err := l.Values(vals); err != nil {
			return
		}
		dec.OnEdge(vals[0] == 1, vals[1] == 1)
	}

	p.encoder, err = chip.RequestLines([]int{pins.EncoderA, pins.EncoderB},
		gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithBothEdges, gpiocdev.WithEventHandler(handler))
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("request encoder pins %d,%d: %w", pins.EncoderA, pins.EncoderB, err)
	}
	idle := make([]int, 2)
	if err := p.encoder.Values(idle); err != nil {
		p.Close()
		return nil, fmt.Errorf("read encoder pins: %w", err)
	}
	dec.Seed(idle[0] == 1, idle[1] == 1)
	lines.Store(p.encoder)

	inputs := []struct {
		name string
		pin  int
		line **gpiocdev.Line
	}{
		{"button", pins.Button, &p.button},
		{"alarm switch", pins.AlarmSwitch, &p.alarmSwitch},
		{"no-alarm jumper", pins.NoAlarm, &p.noAlarm},
	}
	for _, in := range inputs {
		*in.line, err = chip.RequestLine(in.pin, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", in.name, in.pin, err)
		}
	}

	p.buzzer, err = chip.RequestLine(pins.Buzzer, gpiocdev.AsOutput(0))
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("request buzzer pin %d: %w", pins.Buzzer, err)
	}

	return p, nil
}

func (p *RealPanel) ButtonPressed() (bool, error) {
	return readLine(p.button, "button")
}

func (p *RealPanel) AlarmSwitchEnabled() (bool, error) {
	return readLine(p.alarmSwitch, "alarm switch")
}

func (p *RealPanel) AlarmsDisabled() (bool, error) {
	return readLine(p.noAlarm, "no-alarm jumper")
}

func readLine(l *gpiocdev.Line, name string) (bool, error) {
	v, err := l.Value()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	return v == 1, nil
}

func (p *RealPanel) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := p.buzzer.SetValue(v); err != nil {
		return fmt.Errorf("set buzzer: %w", err)
	}
	return nil
}

// Close turns the buzzer off and returns every line to an input with
// pull-down, matching the Pi boot defaults.
func (p *RealPanel) Close() error {
	var errs []error

	if p.buzzer != nil {
		if err := p.buzzer.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("buzzer off: %w", err))
		}
	}
	for _, l := range []*gpiocdev.Line{p.button, p.alarmSwitch, p.noAlarm, p.buzzer} {
		if l == nil {
			continue
		}
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if p.encoder != nil {
		if err := p.encoder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close encoder pins: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
