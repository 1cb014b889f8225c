package main

import (
	"context"
	"runtime"
	"time"

	"lightcode-go/bus"
	"lightcode-go/services/config"
	"lightcode-go/services/diag"
	"lightcode-go/services/hal"
	"lightcode-go/services/input"
	"lightcode-go/services/lighting"
	"lightcode-go/x/evring"
)

// Device ID selecting the embedded config profile. Build the buttons
// variant by changing this to "pico-buttons".
const device = "pico"

const eventQueueCap = 32

func main() {
	// Give USB CDC time to enumerate so early prints are not lost.
	time.Sleep(3 * time.Second)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, device)

	println("[main] bootstrapping bus ...")
	b := bus.NewBus(4)

	pins, pwms := hal.DefaultFactories()
	reg := hal.NewRegistry(pins, pwms)

	ring := evring.New(eventQueueCap)

	println("[main] starting services ...")
	diag.New(b.NewConnection("diag")).Start(ctx)
	input.New(ring, b.NewConnection("input")).Start(ctx, reg)
	lighting.New(ring, b.NewConnection("lighting")).Start(ctx, reg)

	// Config goes last: the services above wait on retained config topics,
	// but publishing first would also work since retained messages replay.
	config.NewService().Start(ctx, b.NewConnection("config"))

	println("[main] running")
	for {
		time.Sleep(30 * time.Second)
		printMem()
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
// Uses builtin println to avoid fmt overhead/allocations.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
