package hal

import "sync"

// In-memory pin and PWM implementations. They back the host build (no
// hardware) and every package's tests; firing edges through FakePin.Drive
// exercises the same handler path the RP2040 IRQ uses.

type FakePin struct {
	mu      sync.Mutex
	n       int
	level   bool
	pull    Pull
	edge    Edge
	handler func()
}

func (p *FakePin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	p.pull = pull
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Number() int { return p.n }

func (p *FakePin) SetIRQ(edge Edge, handler func()) error {
	p.mu.Lock()
	p.edge = edge
	p.handler = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.edge = EdgeNone
	p.handler = nil
	p.mu.Unlock()
	return nil
}

// Set changes the pin level without firing the IRQ handler (e.g. to preset
// channel B of an encoder before driving an edge on channel A).
func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// Drive changes the pin level and fires the registered handler when the
// transition matches the configured edge.
func (p *FakePin) Drive(level bool) {
	p.mu.Lock()
	prev := p.level
	p.level = level
	h := p.handler
	e := p.edge
	p.mu.Unlock()

	if h == nil || prev == level {
		return
	}
	rising := level && !prev
	switch e {
	case EdgeRising:
		if rising {
			h()
		}
	case EdgeFalling:
		if !rising {
			h()
		}
	case EdgeBoth:
		h()
	}
}

type FakePWM struct {
	mu         sync.Mutex
	n          int
	freqHz     uint64
	top        uint16
	level      uint16
	configured bool
	sets       int
}

func (p *FakePWM) Configure(freqHz uint64, top uint16) error {
	p.mu.Lock()
	p.freqHz = freqHz
	p.top = top
	p.configured = true
	p.mu.Unlock()
	return nil
}

func (p *FakePWM) Set(level uint16) {
	p.mu.Lock()
	if level > p.top {
		level = p.top
	}
	p.level = level
	p.sets++
	p.mu.Unlock()
}

func (p *FakePWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

// Test accessors.

func (p *FakePWM) Level() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePWM) Configured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configured
}

func (p *FakePWM) SetCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

// FakeBoard implements PinFactory and PWMFactory over lazily created fakes.
type FakeBoard struct {
	mu   sync.Mutex
	pins map[int]*FakePin
	pwms map[int]*FakePWM
}

func NewFakeBoard() *FakeBoard {
	return &FakeBoard{
		pins: make(map[int]*FakePin),
		pwms: make(map[int]*FakePWM),
	}
}

func (b *FakeBoard) ByNumber(n int) (IRQPin, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	return b.Pin(n), true
}

func (b *FakeBoard) ByPin(n int) (PWMChannel, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	return b.PWM(n), true
}

// Pin returns the fake behind pin n, creating it on first use.
func (b *FakeBoard) Pin(n int) *FakePin {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pins[n]
	if !ok {
		p = &FakePin{n: n}
		b.pins[n] = p
	}
	return p
}

// PWM returns the fake PWM behind pin n, creating it on first use.
func (b *FakeBoard) PWM(n int) *FakePWM {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pwms[n]
	if !ok {
		p = &FakePWM{n: n}
		b.pwms[n] = p
	}
	return p
}
