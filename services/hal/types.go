package hal

// Hardware abstractions for the lamp: GPIO inputs with edge interrupts and
// PWM output channels. Platform providers live behind build tags; host
// builds and tests use the fakes in fake.go.

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	Get() bool
	Number() int
}

// IRQPin extends GPIOPin with edge interrupts. The handler runs in interrupt
// context: it must not block, allocate, or take locks.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PWMChannel drives one LED pin. Configure sets the shared carrier frequency
// and the logical counter top once; Set writes a duty in [0..top].
type PWMChannel interface {
	Configure(freqHz uint64, top uint16) error
	Set(level uint16)
	Top() uint16
}

// PinFactory supplies IRQ-capable GPIO pins by board pin number.
type PinFactory interface {
	ByNumber(n int) (IRQPin, bool)
}

// PWMFactory supplies PWM channels by board pin number.
type PWMFactory interface {
	ByPin(n int) (PWMChannel, bool)
}
