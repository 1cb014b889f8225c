//go:build rp2040

package hal

import (
	"machine"
	"sync"

	"lightcode-go/errcode"
	"lightcode-go/x/timex"
)

// RP2040 provider: pins map 1:1 to GP numbering, PWM channels ride the
// eight hardware slices. All LED channels are expected to share one carrier
// frequency; the first Configure on a slice fixes it and later claimants
// must match.

// DefaultFactories returns the board's pin and PWM factories.
func DefaultFactories() (PinFactory, PWMFactory) {
	return rp2PinFactory{}, rp2PWMFactory{}
}

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (IRQPin, bool) {
	// Constrain to the RP2040's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull Pull) error {
	var mode machine.PinMode
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) Get() bool   { return r.p.Get() }
func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) SetIRQ(edge Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e Edge) machine.PinChange {
	switch e {
	case EdgeRising:
		return machine.PinRising
	case EdgeFalling:
		return machine.PinFalling
	case EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}

// -----------------------------------------------------------------------------
// PWM
// -----------------------------------------------------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// Per-slice frequency compatibility accounting.
var globalPWM struct {
	mu   sync.Mutex
	freq map[int]uint64 // slice -> configured carrier, 0 = unset
}

func init() {
	globalPWM.freq = make(map[int]uint64)
}

type rp2PWMFactory struct{}

func (rp2PWMFactory) ByPin(n int) (PWMChannel, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	sliceNum, err := machine.PWMPeripheral(machine.Pin(n))
	if err != nil {
		return nil, false
	}
	return &rp2PWM{
		pin:   n,
		ctrl:  pwmGroupBySlice(sliceNum),
		slice: int(sliceNum),
	}, true
}

type rp2PWM struct {
	mu sync.Mutex

	pin   int
	ctrl  pwmCtrl
	slice int
	chIdx uint8

	reqTop uint16 // logical resolution, duty range is 0..reqTop
	hwTop  uint32 // controller top after Configure
	level  uint16
}

func (p *rp2PWM) Configure(freqHz uint64, top uint16) error {
	if freqHz == 0 || top == 0 {
		return errcode.InvalidParams
	}

	globalPWM.mu.Lock()
	cur := globalPWM.freq[p.slice]
	if cur == 0 {
		// First claimant configures the slice carrier.
		if err := p.ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(freqHz)}); err != nil {
			globalPWM.mu.Unlock()
			return err
		}
		globalPWM.freq[p.slice] = freqHz
	} else if cur != freqHz {
		globalPWM.mu.Unlock()
		return errcode.Conflict
	}
	globalPWM.mu.Unlock()

	ch, err := p.ctrl.Channel(machine.Pin(p.pin))
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.chIdx = ch
	p.reqTop = top
	p.hwTop = p.ctrl.Top()
	p.ctrl.Set(p.chIdx, 0)
	p.level = 0
	p.mu.Unlock()
	return nil
}

func (p *rp2PWM) Set(level uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reqTop == 0 || p.hwTop == 0 {
		return
	}
	if level > p.reqTop {
		level = p.reqTop
	}
	// Scale from logical [0..reqTop] to hardware [0..hwTop].
	p.ctrl.Set(p.chIdx, uint32(level)*p.hwTop/uint32(p.reqTop))
	p.level = level
}

func (p *rp2PWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reqTop
}
