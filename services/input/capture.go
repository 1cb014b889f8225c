package input

import (
	"context"
	"sync/atomic"
	"time"

	"lightcode-go/bus"
	"lightcode-go/errcode"
	"lightcode-go/services/config"
	"lightcode-go/services/hal"
	"lightcode-go/types"
	"lightcode-go/x/evring"
)

// Capture turns GPIO edges into InputEvents on the shared ring.
//
// Two stages: the ISR handlers do a register read plus a non-blocking send
// into isrQ, nothing else; the service goroutine applies debounce, decodes
// the edge and pushes the event. The ring's producer side is therefore a
// single goroutine, the consumer is the lighting controller.
//
// Quadrature decode is single-edge: on a rising edge of channel A the
// instantaneous level of channel B picks the direction. Fast rotation can
// miss or misattribute steps; known limitation, kept as-is.

const serviceName = "input"

var (
	topicConfigInput = bus.T("config", "input")
	topicRotate      = bus.T("input", "rotate")
)

type watchKind uint8

const (
	wButton watchKind = iota // toggle switch: press and release events
	wEncoderA                // encoder channel A: aux carries channel B level
	wStepUp                  // discrete button emitting +1 on press
	wStepDown                // discrete button emitting -1 on press
)

// isrEvent is what an ISR hands to the service goroutine.
type isrEvent struct {
	idx   uint8 // watch index
	level bool  // watched pin level, captured in the ISR
	aux   bool  // encoder channel B level, captured in the ISR
}

type watch struct {
	kind     watchKind
	pin      hal.IRQPin
	debounce time.Duration
	lastEdge time.Time // last accepted edge; touched only by the service goroutine
}

type Service struct {
	ring *evring.Ring
	conn *bus.Connection

	isrQ     chan isrEvent
	watches  []*watch
	cancels  []func()
	isrDrops atomic.Uint32
}

func New(ring *evring.Ring, conn *bus.Connection) *Service {
	return &Service{
		ring: ring,
		conn: conn,
		isrQ: make(chan isrEvent, 64),
	}
}

// Start waits for the retained input config, claims pins and serves ISR
// events until the context is cancelled.
func (s *Service) Start(ctx context.Context, reg *hal.Registry) {
	go func() {
		cfgSub := s.conn.Subscribe(topicConfigInput)
		defer s.conn.Unsubscribe(cfgSub)

		var cfg types.InputConfig
		select {
		case <-ctx.Done():
			return
		case msg := <-cfgSub.Channel():
			if err := config.Decode(msg.Payload, &cfg); err != nil {
				println("Error: input: bad config:", err.Error())
				return
			}
		}

		if err := s.setup(cfg, reg); err != nil {
			println("Error: input: setup:", err.Error())
			return
		}
		println("Info: input: capturing,", cfg.Backend, "backend")
		s.serve(ctx)
	}()
}

func (s *Service) serve(ctx context.Context) {
	defer s.teardown()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.isrQ:
			s.handleISR(ev)
		}
	}
}

func (s *Service) teardown() {
	for _, c := range s.cancels {
		c()
	}
	s.cancels = nil
}

// setup claims pins and installs IRQ handlers per the configured backend.
func (s *Service) setup(cfg types.InputConfig, reg *hal.Registry) error {
	deb := time.Duration(cfg.DebounceMS) * time.Millisecond

	switch cfg.Backend {
	case "", types.BackendEncoder:
		return s.setupEncoder(cfg.Encoder, deb, reg)
	case types.BackendButtons:
		return s.setupButtons(cfg.Buttons, deb, reg)
	case types.BackendQuadrature:
		return s.setupQuadrature(cfg.Encoder, deb, reg)
	default:
		return &errcode.E{C: errcode.InvalidConfig, Op: "input.setup", Msg: "unknown backend " + cfg.Backend}
	}
}

func (s *Service) setupEncoder(pins types.EncoderPins, deb time.Duration, reg *hal.Registry) error {
	sw, err := reg.ClaimInput(serviceName, pins.SW, hal.PullUp)
	if err != nil {
		return err
	}
	a, err := reg.ClaimInput(serviceName, pins.A, hal.PullNone)
	if err != nil {
		return err
	}
	b, err := reg.ClaimInput(serviceName, pins.B, hal.PullNone)
	if err != nil {
		return err
	}

	if err := s.addWatch(wButton, sw, hal.EdgeBoth, deb, nil); err != nil {
		return err
	}
	// Channel B has no IRQ of its own; its level is sampled in A's handler.
	return s.addWatch(wEncoderA, a, hal.EdgeRising, 0, b)
}

func (s *Service) setupButtons(pins types.ButtonPins, deb time.Duration, reg *hal.Registry) error {
	claim := func(n int, k watchKind, edge hal.Edge) error {
		p, err := reg.ClaimInput(serviceName, n, hal.PullUp)
		if err != nil {
			return err
		}
		return s.addWatch(k, p, edge, deb, nil)
	}
	if err := claim(pins.Toggle, wButton, hal.EdgeBoth); err != nil {
		return err
	}
	if err := claim(pins.Up, wStepUp, hal.EdgeFalling); err != nil {
		return err
	}
	return claim(pins.Down, wStepDown, hal.EdgeFalling)
}

// addWatch registers an IRQ whose handler captures levels and posts to isrQ.
// The handler body is the whole ISR budget: two pin reads and one
// non-blocking channel send.
func (s *Service) addWatch(kind watchKind, pin hal.IRQPin, edge hal.Edge, deb time.Duration, aux hal.IRQPin) error {
	idx := uint8(len(s.watches))
	w := &watch{kind: kind, pin: pin, debounce: deb}
	s.watches = append(s.watches, w)

	handler := func() {
		ev := isrEvent{idx: idx, level: pin.Get()}
		if aux != nil {
			ev.aux = aux.Get()
		}
		select {
		case s.isrQ <- ev:
		default:
			s.isrDrops.Add(1) // protect the ISR path
		}
	}
	if err := pin.SetIRQ(edge, handler); err != nil {
		return err
	}
	s.cancels = append(s.cancels, func() { _ = pin.ClearIRQ() })
	return nil
}

func (s *Service) handleISR(ev isrEvent) {
	if int(ev.idx) >= len(s.watches) {
		return
	}
	w := s.watches[ev.idx]
	now := time.Now()

	// Debounce: ignore edges inside the window since the last accepted one.
	if w.debounce > 0 && !w.lastEdge.IsZero() && now.Sub(w.lastEdge) < w.debounce {
		return
	}
	w.lastEdge = now

	switch w.kind {
	case wButton:
		// Pull-up switch: low level means pressed.
		data := int8(0)
		if !ev.level {
			data = 1
		}
		s.push(types.InputEvent{Kind: types.EventButton, Data: data, TSms: now.UnixMilli()})

	case wEncoderA:
		// Rising edge of A; B's level picks the direction.
		step := int8(1)
		if ev.aux {
			step = -1
		}
		s.push(types.InputEvent{Kind: types.EventEncoder, Data: step, TSms: now.UnixMilli()})
		s.conn.Publish(s.conn.NewMessage(topicRotate, int(step), false))

	case wStepUp:
		s.push(types.InputEvent{Kind: types.EventEncoder, Data: 1, TSms: now.UnixMilli()})

	case wStepDown:
		s.push(types.InputEvent{Kind: types.EventEncoder, Data: -1, TSms: now.UnixMilli()})
	}
}

// push is non-blocking: a full ring drops the event (the ring counts it).
func (s *Service) push(ev types.InputEvent) {
	s.ring.TryPush(ev)
}

// ISRDrops reports edges lost between interrupt context and the service
// goroutine (distinct from ring overflow, see evring.Ring.Drops).
func (s *Service) ISRDrops() uint32 { return s.isrDrops.Load() }
