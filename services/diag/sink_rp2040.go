//go:build rp2040

package diag

import (
	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"lightcode-go/types"
)

// openSink wires the configured UART, falling back to the USB console.
// Zero pins in the uartx config select the board defaults.
func openSink(cfg types.DiagConfig) Sink {
	var hw *uartx.UART
	switch cfg.UART {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return consoleSink{}
	}

	baud := cfg.Baud
	if baud == 0 {
		baud = 115200
	}
	if err := hw.Configure(uartx.UARTConfig{BaudRate: baud}); err != nil {
		println("Error: diag: uart configure:", err.Error())
		return consoleSink{}
	}
	return &uartSink{u: hw}
}

type uartSink struct {
	u *uartx.UART
}

func (s *uartSink) WriteLine(line string) {
	_, _ = s.u.Write([]byte(line))
	_, _ = s.u.Write([]byte("\r\n"))
}
