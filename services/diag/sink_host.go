//go:build !rp2040

package diag

import "lightcode-go/types"

// Host build: diagnostics go to the console regardless of config.
func openSink(types.DiagConfig) Sink { return consoleSink{} }
