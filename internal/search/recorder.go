package search

import "time"

// Recorder receives search and sync measurements.
type Recorder interface {
	ObserveSearch(backend string, d time.Duration)
	IncSearchFallback(reason string)
	IncSync(op, result string)
	SetIndexHealthy(healthy bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(string, time.Duration) {}
func (nopRecorder) IncSearchFallback(string)            {}
func (nopRecorder) IncSync(string, string)              {}
func (nopRecorder) SetIndexHealthy(bool)                {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
