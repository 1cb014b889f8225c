package types

// Configuration documents. The config service publishes one retained message
// per top-level key of the embedded device config ("config/input",
// "config/lighting", "config/diag").

// Input backends.
const (
	BackendEncoder    = "encoder"    // single-edge quadrature sampling (default)
	BackendButtons    = "buttons"    // discrete up/down/toggle buttons
	BackendQuadrature = "quadrature" // full quadrature via tinygo.org/x/drivers (MCU only)
)

// InputConfig arrives on "config/input".
type InputConfig struct {
	Backend    string      `json:"backend,omitempty"` // default "encoder"
	DebounceMS int         `json:"debounce_ms"`
	Encoder    EncoderPins `json:"encoder"`
	Buttons    ButtonPins  `json:"buttons,omitempty"`
}

// EncoderPins: A/B float (no pulls), SW with pull-up, matching the knob
// breakout this firmware was written for.
type EncoderPins struct {
	A  int `json:"a"`
	B  int `json:"b"`
	SW int `json:"sw"`
}

type ButtonPins struct {
	Up     int `json:"up"`
	Down   int `json:"down"`
	Toggle int `json:"toggle"`
}

// LightingConfig arrives on "config/lighting".
type LightingConfig struct {
	LEDs   []int  `json:"leds"`
	FreqHz uint64 `json:"freq_hz"` // shared PWM carrier for all LED channels
	Top    uint16 `json:"top"`     // logical duty range is 0..Top
	Step   uint16 `json:"step"`    // brightness change per encoder detent
	TickMS int    `json:"tick_ms"` // controller drain period
	FadeMS uint32 `json:"fade_ms"` // 0 = instantaneous on/off transitions
}

// DiagConfig arrives on "config/diag".
type DiagConfig struct {
	UART string `json:"uart,omitempty"` // "uart0"/"uart1"; empty = console only
	Baud uint32 `json:"baud,omitempty"`
}
