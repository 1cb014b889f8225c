package diag

import (
	"context"

	"lightcode-go/bus"
	"lightcode-go/services/config"
	"lightcode-go/types"
)

// Diagnostics mirror selected bus traffic to a serial line: rotation
// direction and lamp state transitions. Strictly an aid for bring-up and
// bench debugging, not an interface anything should parse.

var (
	topicConfigDiag = bus.T("config", "diag")
	topicRotate     = bus.T("input", "rotate")
	topicState      = bus.T("light", "state")
)

// Sink is one diagnostics output line destination.
type Sink interface {
	WriteLine(s string)
}

type consoleSink struct{}

func (consoleSink) WriteLine(s string) { println(s) }

type Service struct {
	conn *bus.Connection
	sink Sink // nil until config decides; tests may preset it
}

func New(conn *bus.Connection) *Service {
	return &Service{conn: conn}
}

func (s *Service) Start(ctx context.Context) {
	go s.serviceLoop(ctx)
}

func (s *Service) serviceLoop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfigDiag)
	rotSub := s.conn.Subscribe(topicRotate)
	stateSub := s.conn.Subscribe(topicState)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(rotSub)
	defer s.conn.Unsubscribe(stateSub)

	if s.sink == nil {
		var cfg types.DiagConfig
		select {
		case <-ctx.Done():
			return
		case msg := <-cfgSub.Channel():
			if err := config.Decode(msg.Payload, &cfg); err != nil {
				println("Error: diag: bad config:", err.Error())
			}
		}
		s.sink = openSink(cfg)
	}

	var last types.LightState
	seen := false

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-rotSub.Channel():
			if dir, ok := msg.Payload.(int); ok {
				if dir < 0 {
					s.sink.WriteLine("rotating left")
				} else {
					s.sink.WriteLine("rotating right")
				}
			}

		case msg := <-stateSub.Channel():
			st, ok := msg.Payload.(types.LightState)
			if !ok {
				continue
			}
			if seen && st == last {
				continue
			}
			last, seen = st, true
			if st.On {
				s.sink.WriteLine("light on at " + itoa(int(st.Brightness)))
			} else {
				s.sink.WriteLine("light off")
			}
		}
	}
}

// tiny helper (no fmt)
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	sign := ""
	if i < 0 {
		sign = "-"
		i = -i
	}
	var buf [12]byte
	b := len(buf)
	for i > 0 {
		b--
		buf[b] = byte('0' + (i % 10))
		i /= 10
	}
	return sign + string(buf[b:])
}
