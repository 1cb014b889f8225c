package hal

import (
	"sync"

	"lightcode-go/errcode"
)

// Registry hands out pins and PWM channels and enforces single ownership
// per pin. Claims happen once at boot; a failed claim leaves the capability
// dark rather than crashing the lamp.
type Registry struct {
	mu     sync.Mutex
	pins   PinFactory
	pwms   PWMFactory
	owners map[int]string // pin -> owner id
}

func NewRegistry(pins PinFactory, pwms PWMFactory) *Registry {
	return &Registry{
		pins:   pins,
		pwms:   pwms,
		owners: make(map[int]string),
	}
}

func (r *Registry) claim(owner string, n int) error {
	if cur, inUse := r.owners[n]; inUse && cur != owner {
		return errcode.PinInUse
	}
	r.owners[n] = owner
	return nil
}

// ClaimInput claims pin n as an interrupt-capable input with the given pull.
func (r *Registry) ClaimInput(owner string, n int, pull Pull) (IRQPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pins.ByNumber(n)
	if !ok {
		return nil, errcode.UnknownPin
	}
	if err := r.claim(owner, n); err != nil {
		return nil, err
	}
	if err := p.ConfigureInput(pull); err != nil {
		delete(r.owners, n)
		return nil, err
	}
	return p, nil
}

// ClaimPWM claims pin n as a PWM output channel.
func (r *Registry) ClaimPWM(owner string, n int) (PWMChannel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.pwms.ByPin(n)
	if !ok {
		return nil, errcode.UnknownPin
	}
	if err := r.claim(owner, n); err != nil {
		return nil, err
	}
	return ch, nil
}

// Release returns pin n to the pool if owner holds it.
func (r *Registry) Release(owner string, n int) {
	r.mu.Lock()
	if cur, ok := r.owners[n]; ok && cur == owner {
		delete(r.owners, n)
	}
	r.mu.Unlock()
}
