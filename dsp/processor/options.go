package processor

import (
	"log/slog"

	"github.com/cwbudde/algo-stretch/dsp/interp"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

type config struct {
	channels   int
	sampleRate int
	kernel     interp.Kernel
	aaWindow   window.Type
	aaOpts     []window.Option
	seeker     stretch.Seeker
	logger     *slog.Logger
}

func defaultConfig() config {
	return config{
		kernel:   interp.Cubic{},
		aaWindow: window.TypeHamming,
		seeker:   stretch.ExhaustiveSeeker{},
	}
}

// Option configures a Processor at construction.
type Option func(*config)

// WithChannels sets the channel count. Invalid counts are reported by New.
func WithChannels(n int) Option {
	return func(cfg *config) {
		cfg.channels = n
	}
}

// WithSampleRate sets the sample rate in Hz. Invalid rates are reported by
// New.
func WithSampleRate(hz int) Option {
	return func(cfg *config) {
		cfg.sampleRate = hz
	}
}

// WithInterpolation selects the resampler's interpolation kernel. The
// default is interp.Cubic.
func WithInterpolation(k interp.Kernel) Option {
	return func(cfg *config) {
		if k != nil {
			cfg.kernel = k
		}
	}
}

// WithAntiAliasWindow selects the window used to design the resampler's
// anti-alias filter. The default is window.TypeHamming.
func WithAntiAliasWindow(win window.Type, opts ...window.Option) Option {
	return func(cfg *config) {
		cfg.aaWindow = win
		cfg.aaOpts = opts
	}
}

// WithSeeker selects the stretcher's similarity search. It is used while
// SettingUseQuickSeek is 0.
func WithSeeker(s stretch.Seeker) Option {
	return func(cfg *config) {
		if s != nil {
			cfg.seeker = s
		}
	}
}

// WithLogger sets the logger for configuration events. If nil, uses
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}
