//go:build !rp2040

package hal

// Host build: no hardware. The fake board stands in so the firmware wiring
// can be exercised on a workstation.

// DefaultFactories returns the board's pin and PWM factories.
func DefaultFactories() (PinFactory, PWMFactory) {
	b := NewFakeBoard()
	return b, b
}
