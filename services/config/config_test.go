package config

import (
	"context"
	"testing"
	"time"

	"lightcode-go/bus"
	"lightcode-go/types"
)

func TestPublishConfigSections(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("cfg")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")

	svc := NewService()
	if err := svc.publishConfig(ctx, conn); err != nil {
		t.Fatalf("publishConfig: %v", err)
	}

	// Retained: a late subscriber still gets every section.
	sub := conn.Subscribe(bus.T("config", "lighting"))
	select {
	case msg := <-sub.Channel():
		var lc types.LightingConfig
		if err := Decode(msg.Payload, &lc); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if lc.Top != 999 || lc.Step != 50 || lc.TickMS != 10 {
			t.Errorf("unexpected lighting config: %+v", lc)
		}
		if len(lc.LEDs) != 3 || lc.LEDs[0] != 22 {
			t.Errorf("unexpected LED pins: %v", lc.LEDs)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for config/lighting")
	}

	sub2 := conn.Subscribe(bus.T("config", "input"))
	select {
	case msg := <-sub2.Channel():
		var ic types.InputConfig
		if err := Decode(msg.Payload, &ic); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if ic.Backend != types.BackendEncoder || ic.DebounceMS != 20 {
			t.Errorf("unexpected input config: %+v", ic)
		}
		if ic.Encoder.A != 10 || ic.Encoder.B != 11 || ic.Encoder.SW != 12 {
			t.Errorf("unexpected encoder pins: %+v", ic.Encoder)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for config/input")
	}
}

func TestPublishConfigUnknownDevice(t *testing.T) {
	b := bus.NewBus(2)
	conn := b.NewConnection("cfg")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "nope")

	if err := NewService().publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestPublishConfigMissingDevice(t *testing.T) {
	b := bus.NewBus(2)
	conn := b.NewConnection("cfg")

	if err := NewService().publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID")
	}
}

func TestDecodeStructuredPayload(t *testing.T) {
	// Values re-published as structs round-trip through Decode.
	in := types.LightState{On: true, Brightness: 500}
	var out types.LightState
	if err := Decode(in, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestButtonsProfile(t *testing.T) {
	raw, ok := EmbeddedConfigLookup("pico-buttons")
	if !ok {
		t.Fatal("missing pico-buttons profile")
	}
	var doc struct {
		Input types.InputConfig `json:"input"`
	}
	if err := Decode(raw, &doc); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Input.Backend != types.BackendButtons {
		t.Errorf("backend = %q, want buttons", doc.Input.Backend)
	}
	if doc.Input.Buttons.Up != 13 || doc.Input.Buttons.Down != 14 || doc.Input.Buttons.Toggle != 12 {
		t.Errorf("unexpected button pins: %+v", doc.Input.Buttons)
	}
}
