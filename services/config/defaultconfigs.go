package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
//
// Pin numbers match the knob breakout this firmware ships on: encoder A/B on
// GP10/GP11 (no pulls), switch on GP12 (pull-up), LEDs on GP22/21/20.
// -----------------------------------------------------------------------------

const cfgPico = `{
  "input": {
    "backend": "encoder",
    "debounce_ms": 20,
    "encoder": {"a": 10, "b": 11, "sw": 12}
  },
  "lighting": {
    "leds": [22, 21, 20],
    "freq_hz": 1000,
    "top": 999,
    "step": 50,
    "tick_ms": 10,
    "fade_ms": 0
  },
  "diag": {
    "uart": "uart0",
    "baud": 115200
  }
}`

// Same lamp driven by three discrete buttons instead of the encoder.
const cfgPicoButtons = `{
  "input": {
    "backend": "buttons",
    "debounce_ms": 20,
    "buttons": {"up": 13, "down": 14, "toggle": 12}
  },
  "lighting": {
    "leds": [22, 21, 20],
    "freq_hz": 1000,
    "top": 999,
    "step": 50,
    "tick_ms": 10,
    "fade_ms": 0
  },
  "diag": {}
}`

var embeddedConfigs = map[string][]byte{
	"pico":         []byte(cfgPico),
	"pico-buttons": []byte(cfgPicoButtons),
}
