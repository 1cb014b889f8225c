//go:build !rp2040

package input

import (
	"time"

	"lightcode-go/errcode"
	"lightcode-go/services/hal"
	"lightcode-go/types"
)

// The full-quadrature backend rides the MCU-only tinygo drivers encoder.
func (s *Service) setupQuadrature(types.EncoderPins, time.Duration, *hal.Registry) error {
	return &errcode.E{C: errcode.Unsupported, Op: "input.setup", Msg: "quadrature backend needs rp2040"}
}
