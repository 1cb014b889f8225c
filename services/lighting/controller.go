package lighting

import (
	"context"
	"sync"
	"time"

	"lightcode-go/bus"
	"lightcode-go/errcode"
	"lightcode-go/services/config"
	"lightcode-go/services/hal"
	"lightcode-go/types"
	"lightcode-go/x/evring"
	"lightcode-go/x/mathx"
	"lightcode-go/x/ramp"
)

// Controller owns the lamp state. Every tick it drains the input ring
// completely, applies the events, reprograms the PWM channels and idles
// again. Two states, Off and On; brightness is a sub-state of On and is
// remembered across Off.

const serviceName = "lighting"

var (
	topicConfigLighting = bus.T("config", "lighting")
	topicState          = bus.T("light", "state")
	topicCtrlSet        = bus.T("light", "control", "set")
	topicCtrlToggle     = bus.T("light", "control", "toggle")
)

type Controller struct {
	ring *evring.Ring
	conn *bus.Connection

	cfg   types.LightingConfig
	chans []hal.PWMChannel

	on         bool
	brightness uint16 // remembered level, 0..cfg.Top

	// Duty actually on the wire; differs from brightness while off or
	// mid-fade. Guarded by mu because the fade goroutine writes it too.
	mu         sync.Mutex
	duty       uint16
	rampCancel chan struct{}
	rampAlive  bool
}

func New(ring *evring.Ring, conn *bus.Connection) *Controller {
	return &Controller{ring: ring, conn: conn}
}

// Start waits for the retained lighting config, claims the LED pins and
// runs the drain loop until the context is cancelled.
func (c *Controller) Start(ctx context.Context, reg *hal.Registry) {
	go func() {
		cfgSub := c.conn.Subscribe(topicConfigLighting)
		defer c.conn.Unsubscribe(cfgSub)

		var cfg types.LightingConfig
		select {
		case <-ctx.Done():
			return
		case msg := <-cfgSub.Channel():
			if err := config.Decode(msg.Payload, &cfg); err != nil {
				println("Error: lighting: bad config:", err.Error())
				return
			}
		}

		if err := c.setup(cfg, reg); err != nil {
			println("Error: lighting: setup:", err.Error())
			return
		}
		println("Info: lighting: driving", len(c.chans), "channels at top", int(c.cfg.Top))
		c.run(ctx)
	}()
}

func (c *Controller) setup(cfg types.LightingConfig, reg *hal.Registry) error {
	if len(cfg.LEDs) == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "lighting.setup", Msg: "no LED pins"}
	}
	if cfg.FreqHz == 0 {
		cfg.FreqHz = 1000
	}
	if cfg.Top == 0 {
		cfg.Top = 999
	}
	if cfg.Step == 0 {
		cfg.Step = 50
	}
	if cfg.TickMS <= 0 {
		cfg.TickMS = 10
	}
	c.cfg = cfg

	for _, pin := range cfg.LEDs {
		ch, err := reg.ClaimPWM(serviceName, pin)
		if err != nil {
			return err
		}
		if err := ch.Configure(cfg.FreqHz, cfg.Top); err != nil {
			return err
		}
		c.chans = append(c.chans, ch)
	}

	// Power on dark, with the mid level remembered for the first press.
	c.on = false
	c.brightness = cfg.Top / 2
	c.setAll(0)
	c.publishState()
	return nil
}

func (c *Controller) run(ctx context.Context) {
	setSub := c.conn.Subscribe(topicCtrlSet)
	toggleSub := c.conn.Subscribe(topicCtrlToggle)
	defer c.conn.Unsubscribe(setSub)
	defer c.conn.Unsubscribe(toggleSub)

	tick := time.NewTicker(time.Duration(c.cfg.TickMS) * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			c.stopRamp()
			return

		case <-tick.C:
			if c.drain() {
				c.publishState()
			}

		case msg := <-setSub.Channel():
			var set types.LightSet
			if err := config.Decode(msg.Payload, &set); err != nil {
				continue
			}
			c.handleSet(set.Brightness)
			c.publishState()

		case <-toggleSub.Channel():
			c.handlePress()
			c.publishState()
		}
	}
}

// drain applies every queued event and reports whether state changed.
func (c *Controller) drain() bool {
	changed := false
	for {
		ev, ok := c.ring.TryPop()
		if !ok {
			return changed
		}
		if c.apply(ev) {
			changed = true
		}
	}
}

// apply handles one input event; reports whether lamp state changed.
func (c *Controller) apply(ev types.InputEvent) bool {
	switch ev.Kind {
	case types.EventButton:
		if ev.Data != 1 {
			return false // releases are queued but unused today
		}
		c.handlePress()
		return true

	case types.EventEncoder:
		if !c.on {
			return false // brightness is a sub-state of On
		}
		c.handleStep(ev.Data)
		return true
	}
	return false
}

func (c *Controller) handlePress() {
	switch {
	case !c.on:
		c.on = true
		c.transition(c.brightness)
	case c.brightness == 0:
		// Dimmed to nothing: a press restores the mid level, stays on.
		c.brightness = c.cfg.Top / 2
		c.transition(c.brightness)
	default:
		c.on = false
		c.transition(0) // brightness stays remembered
	}
}

func (c *Controller) handleStep(dir int8) {
	c.brightness = mathx.AddClamped(c.brightness, int32(dir)*int32(c.cfg.Step), c.cfg.Top)
	c.setAll(c.brightness)
}

// handleSet updates the remembered level; the duty follows only while on.
func (c *Controller) handleSet(level uint16) {
	c.brightness = mathx.Min(level, c.cfg.Top)
	if c.on {
		c.setAll(c.brightness)
	}
}

// transition moves the duty to target, fading when configured.
func (c *Controller) transition(target uint16) {
	if c.cfg.FadeMS == 0 {
		c.setAll(target)
		return
	}
	c.fadeTo(target)
}

// setAll cancels any fade and writes the duty to every channel at once.
func (c *Controller) setAll(level uint16) {
	c.mu.Lock()
	if c.rampAlive {
		close(c.rampCancel)
		c.rampAlive = false
	}
	c.writeDuty(level)
	c.mu.Unlock()
}

// caller holds mu
func (c *Controller) writeDuty(level uint16) {
	for _, ch := range c.chans {
		ch.Set(level)
	}
	c.duty = level
}

func (c *Controller) stopRamp() {
	c.mu.Lock()
	if c.rampAlive {
		close(c.rampCancel)
		c.rampAlive = false
	}
	c.mu.Unlock()
}

func (c *Controller) fadeTo(target uint16) {
	c.mu.Lock()
	if c.rampAlive {
		close(c.rampCancel)
	}
	cancel := make(chan struct{})
	c.rampCancel, c.rampAlive = cancel, true
	start := c.duty
	c.mu.Unlock()

	steps := uint16(c.cfg.FadeMS / uint32(c.cfg.TickMS))
	if steps < 2 {
		steps = 2
	}

	go func() {
		defer func() {
			c.mu.Lock()
			if c.rampCancel == cancel {
				c.rampAlive = false
			}
			c.mu.Unlock()
		}()
		tick := func(d time.Duration) bool {
			select {
			case <-cancel:
				return false
			case <-time.After(d):
				return true
			}
		}
		ramp.Linear(start, target, c.cfg.Top, c.cfg.FadeMS, steps, tick, func(lvl uint16) {
			c.mu.Lock()
			// A cancelled ramp must not stomp a level set after it.
			if c.rampAlive && c.rampCancel == cancel {
				c.writeDuty(lvl)
			}
			c.mu.Unlock()
		})
	}()
}

func (c *Controller) publishState() {
	c.conn.Publish(c.conn.NewMessage(topicState, types.LightState{
		On:         c.on,
		Brightness: c.brightness,
		Drops:      c.ring.Drops(),
	}, true))
}
