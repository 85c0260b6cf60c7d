// Package domain provides shared types for the estimation models: time unit
// conversions and the error taxonomy every model reports through.
package domain

// All model arithmetic is carried out in microseconds. Reports render derived
// quantities in several units, so the conversion constants live in one place.
const (
	// MicrosecondsPerMillisecond converts μs to ms.
	MicrosecondsPerMillisecond = 1000.0

	// MicrosecondsPerSecond converts μs to s.
	MicrosecondsPerSecond = 1e6

	// SecondsPerHour converts s to hours.
	SecondsPerHour = 3600.0
)

// MicrosecondsToMilliseconds converts a duration in microseconds to milliseconds.
func MicrosecondsToMilliseconds(us float64) float64 {
	return us / MicrosecondsPerMillisecond
}

// MicrosecondsToSeconds converts a duration in microseconds to seconds.
func MicrosecondsToSeconds(us float64) float64 {
	return us / MicrosecondsPerSecond
}

// SecondsToHours converts a duration in seconds to hours.
func SecondsToHours(s float64) float64 {
	return s / SecondsPerHour
}
