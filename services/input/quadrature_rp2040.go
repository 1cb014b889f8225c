//go:build rp2040

package input

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/encoders"

	"lightcode-go/services/hal"
	"lightcode-go/types"
)

// Full-quadrature backend on the tinygo drivers encoder. It removes the
// single-edge misdetect at high rotation speed, at the cost of owning both
// channel pins outright. Steps are funnelled through isrQ as synthesized
// channel-A events so the service goroutine stays the ring's only producer.

func (s *Service) setupQuadrature(pins types.EncoderPins, deb time.Duration, reg *hal.Registry) error {
	sw, err := reg.ClaimInput(serviceName, pins.SW, hal.PullUp)
	if err != nil {
		return err
	}
	if err := s.addWatch(wButton, sw, hal.EdgeBoth, deb, nil); err != nil {
		return err
	}

	// The driver owns A and B; claim them so nothing else can.
	if _, err := reg.ClaimInput(serviceName, pins.A, hal.PullNone); err != nil {
		return err
	}
	if _, err := reg.ClaimInput(serviceName, pins.B, hal.PullNone); err != nil {
		return err
	}

	encIdx := uint8(len(s.watches))
	s.watches = append(s.watches, &watch{kind: wEncoderA})

	enc := encoders.NewQuadratureViaInterrupt(machine.Pin(pins.A), machine.Pin(pins.B))
	if err := enc.Configure(encoders.QuadratureConfig{Precision: 4}); err != nil {
		return err
	}

	done := make(chan struct{})
	s.cancels = append(s.cancels, func() { close(done) })

	go func() {
		last := enc.Position()
		tick := time.NewTicker(5 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-tick.C:
			}
			pos := enc.Position()
			for pos > last {
				s.postStep(encIdx, +1)
				last++
			}
			for pos < last {
				s.postStep(encIdx, -1)
				last--
			}
		}
	}()
	return nil
}

// postStep synthesizes a channel-A isrEvent for one detent step.
func (s *Service) postStep(idx uint8, dir int8) {
	ev := isrEvent{idx: idx, aux: dir < 0}
	select {
	case s.isrQ <- ev:
	default:
		s.isrDrops.Add(1)
	}
}
