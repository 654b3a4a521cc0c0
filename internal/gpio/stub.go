//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(pins [NumPumps]int) (*RealOutputs, error) {
	return nil, errUnsupported
}

func (o *RealOutputs) Set(pump int, on bool) error { return errUnsupported }
func (o *RealOutputs) AllOff() error               { return errUnsupported }
func (o *RealOutputs) Close() error                { return nil }

// RealFloat is not available on non-Linux platforms.
type RealFloat struct{}

// NewRealFloat returns an error on non-Linux platforms.
func NewRealFloat(pin int) (*RealFloat, error) {
	return nil, errUnsupported
}

func (f *RealFloat) Read() (bool, error) { return false, errUnsupported }
func (f *RealFloat) Close() error        { return nil }

// RealButtons is not available on non-Linux platforms.
type RealButtons struct{}

// NewRealButtons returns an error on non-Linux platforms.
func NewRealButtons(pinAdvance, pinIncrease, pinDecrease int) (*RealButtons, error) {
	return nil, errUnsupported
}

func (b *RealButtons) Read() (advance, increase, decrease bool, err error) {
	return false, false, false, errUnsupported
}
func (b *RealButtons) Close() error { return nil }
