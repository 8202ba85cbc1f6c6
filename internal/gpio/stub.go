//go:build !linux

package gpio

import "errors"

// RealPanel is not available on non-Linux platforms.
type RealPanel struct{}

func NewRealPanel(string, Pins, Decoder) (*RealPanel, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

func (p *RealPanel) ButtonPressed() (bool, error) {
	return false, errors.New("gpio: not supported")
}

func (p *RealPanel) AlarmSwitchEnabled() (bool, error) {
	return false, errors.New("gpio: not supported")
}

func (p *RealPanel) AlarmsDisabled() (bool, error) {
	return false, errors.New("gpio: not supported")
}

func (p *RealPanel) Set(bool) error {
	return errors.New("gpio: not supported")
}

func (p *RealPanel) Close() error {
	return nil
}
