//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const chipName = "gpiochip0"

// RealOutputs drives the pump relays through the Linux GPIO character device.
type RealOutputs struct {
	chip  *gpiocdev.Chip
	lines [NumPumps]*gpiocdev.Line
}

// NewRealOutputs requests the six pump pins as outputs, initially low.
func NewRealOutputs(pins [NumPumps]int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	o := &RealOutputs{chip: chip}
	for i, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("request pump %d pin %d: %w", i+1, pin, err)
		}
		o.lines[i] = line
	}
	return o, nil
}

// Set drives one pump line.
func (o *RealOutputs) Set(pump int, on bool) error {
	if pump < 0 || pump >= NumPumps {
		return fmt.Errorf("pump %d out of range", pump)
	}
	v := 0
	if on {
		v = 1
	}
	if err := o.lines[pump].SetValue(v); err != nil {
		return fmt.Errorf("set pump %d: %w", pump+1, err)
	}
	return nil
}

// AllOff drives every pump line low.
func (o *RealOutputs) AllOff() error {
	var errs []error
	for i := 0; i < NumPumps; i++ {
		if o.lines[i] == nil {
			continue
		}
		if err := o.lines[i].SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("pump %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("all off: %v", errs)
	}
	return nil
}

// Close drives all lines low, reconfigures them to inputs matching Pi boot
// defaults, and releases them. A relay left energized across a restart
// would run a pump dry.
func (o *RealOutputs) Close() error {
	var errs []error
	for i, line := range o.lines {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("lower pump %d: %w", i+1, err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pump %d: %w", i+1, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pump %d: %w", i+1, err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealFloat reads the float switch from actual hardware.
type RealFloat struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealFloat requests the float pin as input with pull-down.
func NewRealFloat(pin int) (*RealFloat, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request float pin %d: %w", pin, err)
	}
	return &RealFloat{chip: chip, line: line}, nil
}

// Read returns true while the switch is raised by water.
func (f *RealFloat) Read() (bool, error) {
	v, err := f.line.Value()
	if err != nil {
		return false, fmt.Errorf("read float pin: %w", err)
	}
	return v == 1, nil
}

// Close releases the float pin.
func (f *RealFloat) Close() error {
	var errs []error
	if f.line != nil {
		if err := f.line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.chip != nil {
		if err := f.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealButtons reads the three button lines from actual hardware.
type RealButtons struct {
	chip  *gpiocdev.Chip
	lines [3]*gpiocdev.Line
}

// NewRealButtons requests the advance, increase and decrease pins as
// inputs with pull-down; the buttons pull the lines high when pressed.
func NewRealButtons(pinAdvance, pinIncrease, pinDecrease int) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	b := &RealButtons{chip: chip}
	for i, pin := range []int{pinAdvance, pinIncrease, pinDecrease} {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request button pin %d: %w", pin, err)
		}
		b.lines[i] = line
	}
	return b, nil
}

// Read returns the raw pressed levels.
func (b *RealButtons) Read() (advance, increase, decrease bool, err error) {
	var vals [3]bool
	for i, line := range b.lines {
		v, err := line.Value()
		if err != nil {
			return false, false, false, fmt.Errorf("read button line: %w", err)
		}
		vals[i] = v == 1
	}
	return vals[0], vals[1], vals[2], nil
}

// Close releases the button pins.
func (b *RealButtons) Close() error {
	var errs []error
	for _, line := range b.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
