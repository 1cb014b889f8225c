// cmd/boardtest/main.go
//
// Bench bring-up firmware. Drives the LED PWM channels through a
// brightness sweep and echoes raw input pin levels so a board can be
// checked without flashing the full firmware. No bus, no services.
package main

import (
	"time"

	"lightcode-go/services/hal"
)

const (
	pinA  = 10
	pinB  = 11
	pinSW = 12

	pwmFreqHz = 1000
	pwmTop    = 999

	sweepStep  = 25
	sweepDelay = 20 * time.Millisecond
	dwell      = 500 * time.Millisecond
)

var ledPins = []int{22, 21, 20}

func main() {
	time.Sleep(3 * time.Second)
	println("[boardtest] starting")

	pins, pwms := hal.DefaultFactories()
	reg := hal.NewRegistry(pins, pwms)

	chans := make([]hal.PWMChannel, 0, len(ledPins))
	for _, n := range ledPins {
		ch, err := reg.ClaimPWM("boardtest", n)
		if err != nil {
			println("[boardtest] claim pwm", n, "failed:", err.Error())
			continue
		}
		if err := ch.Configure(pwmFreqHz, pwmTop); err != nil {
			println("[boardtest] configure pwm", n, "failed:", err.Error())
			continue
		}
		chans = append(chans, ch)
	}
	if len(chans) == 0 {
		println("[boardtest] no PWM channels, halting")
		return
	}

	a, errA := reg.ClaimInput("boardtest", pinA, hal.PullNone)
	bp, errB := reg.ClaimInput("boardtest", pinB, hal.PullNone)
	sw, errSW := reg.ClaimInput("boardtest", pinSW, hal.PullUp)
	if errA != nil || errB != nil || errSW != nil {
		println("[boardtest] input claim failed; sweep only")
	}

	cycle := 0
	for {
		cycle++
		println("=== boardtest: cycle", cycle, "===")

		// Up then down on all channels together.
		for lvl := 0; lvl <= pwmTop; lvl += sweepStep {
			setAll(chans, uint16(lvl))
			time.Sleep(sweepDelay)
		}
		setAll(chans, pwmTop)
		time.Sleep(dwell)
		for lvl := pwmTop; lvl >= 0; lvl -= sweepStep {
			setAll(chans, uint16(lvl))
			time.Sleep(sweepDelay)
		}
		setAll(chans, 0)

		// Walk channels one at a time so miswired LEDs stand out.
		for i, ch := range chans {
			println("[boardtest] channel", i, "solo")
			ch.Set(pwmTop / 2)
			time.Sleep(dwell)
			ch.Set(0)
		}

		if a != nil && bp != nil && sw != nil {
			println("[boardtest] inputs a:", a.Get(), "b:", bp.Get(), "sw:", sw.Get())
		}
		time.Sleep(dwell)
	}
}

func setAll(chans []hal.PWMChannel, lvl uint16) {
	for _, ch := range chans {
		ch.Set(lvl)
	}
}
