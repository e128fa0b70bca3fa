package sonify

import "errors"

var (
	// ErrInvalidTrajectory reports an empty trajectory or breakpoint times
	// that are not strictly increasing.
	ErrInvalidTrajectory = errors.New("sonify: invalid trajectory")

	// ErrLengthMismatch reports two arrays that must be parallel but differ
	// in length (gains vs. breakpoints, partials vs. amplitudes, ...).
	ErrLengthMismatch = errors.New("sonify: length mismatch")

	// ErrUnknownPreset reports a preset registry lookup miss.
	ErrUnknownPreset = errors.New("sonify: unknown preset")

	// ErrEmptyVoiceSet reports a mix call with zero voices.
	ErrEmptyVoiceSet = errors.New("sonify: empty voice set")
)
