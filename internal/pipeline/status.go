package pipeline

import "github.com/facturascan/facturascan/constants"

// ProcessingStatus is the transient progress record for one in-flight
// document. Progress is monotonically non-decreasing within a run except on
// error, where it resets to zero.
type ProcessingStatus struct {
	Stage    constants.Stage `json:"status"`
	Progress int             `json:"progress"`
	Message  string          `json:"message"`
	Error    string          `json:"error,omitempty"`
}

// StatusFunc receives one status per stage transition, invoked synchronously
// before the stage's work runs.
type StatusFunc func(ProcessingStatus)

// ChannelStatus adapts a channel into a StatusFunc. Sends are best-effort:
// a slow consumer drops intermediate checkpoints rather than stalling the
// pipeline.
func ChannelStatus(ch chan<- ProcessingStatus) StatusFunc {
	return func(st ProcessingStatus) {
		select {
		case ch <- st:
		default:
		}
	}
}

// MultiStatus fans one status stream out to several consumers.
func MultiStatus(fns ...StatusFunc) StatusFunc {
	return func(st ProcessingStatus) {
		for _, fn := range fns {
			if fn != nil {
				fn(st)
			}
		}
	}
}
