package processor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates that channels or sample rate are unset.
	ErrNotConfigured = errors.New("processor: not configured")
	// ErrInvalidSetting indicates an unknown, read-only or out-of-range setting.
	ErrInvalidSetting = errors.New("processor: invalid setting")
	// ErrInvalidRatio indicates a rate, tempo or pitch that is not positive
	// and finite.
	ErrInvalidRatio = errors.New("processor: ratio must be positive and finite")
	// ErrInvalidChannels indicates a channel count outside [MinChannels, MaxChannels].
	ErrInvalidChannels = errors.New("processor: invalid channel count")
	// ErrInvalidSampleRate indicates a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("processor: invalid sample rate")
	// ErrShortBuffer indicates a sample slice holding fewer values than the
	// requested frame count needs.
	ErrShortBuffer = errors.New("processor: short sample buffer")
	// ErrChannelMismatch indicates a PCM buffer whose channel count differs
	// from the processor's.
	ErrChannelMismatch = errors.New("processor: channel count mismatch")
	// ErrClosed indicates use of a closed processor.
	ErrClosed = errors.New("processor: closed")
)

// ConfigError reports an operation invoked before the processor was fully
// configured. It matches ErrNotConfigured with errors.Is.
type ConfigError struct {
	Op      string
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("processor: %s: %s not set", e.Op, e.Missing)
}

func (e *ConfigError) Unwrap() error { return ErrNotConfigured }

// SettingError reports a rejected SetSetting call. It matches
// ErrInvalidSetting with errors.Is.
type SettingError struct {
	ID     SettingID
	Value  int
	Reason string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("processor: setting %s = %d: %s", e.ID, e.Value, e.Reason)
}

func (e *SettingError) Unwrap() error { return ErrInvalidSetting }
