package processor

import "fmt"

// SettingID addresses one entry of the processor's tuning table.
type SettingID int

const (
	// SettingUseAAFilter enables (1) or disables (0) the resampler's
	// anti-alias filter.
	SettingUseAAFilter SettingID = iota
	// SettingAAFilterLength is the anti-alias FIR length in taps. Values are
	// rounded down to a multiple of four.
	SettingAAFilterLength
	// SettingUseQuickSeek selects the coarse-to-fine similarity search.
	SettingUseQuickSeek
	// SettingSequenceMs is the stretch sequence length in milliseconds;
	// 0 picks it from the tempo.
	SettingSequenceMs
	// SettingSeekWindowMs is the similarity search range in milliseconds;
	// 0 picks it from the tempo.
	SettingSeekWindowMs
	// SettingOverlapMs is the cross-fade length in milliseconds.
	SettingOverlapMs
	// SettingNominalInputSequence reports the input frames consumed per
	// stretch iteration. Read-only.
	SettingNominalInputSequence
	// SettingNominalOutputSequence reports the output frames produced per
	// stretch iteration. Read-only.
	SettingNominalOutputSequence
	// SettingInitialLatency reports the pipeline delay in input frames.
	// Read-only.
	SettingInitialLatency
	// SettingSingleChannelSeek restricts the similarity search to the first
	// channel.
	SettingSingleChannelSeek
	// SettingSpeechOptimized selects the speech-tuned automatic lengths.
	SettingSpeechOptimized

	numSettings
)

// SettingUnknown is returned by [Processor.Setting] for unknown ids.
const SettingUnknown = -1

type settingSpec struct {
	name     string
	min, max int
	def      int
	readOnly bool
}

var settingSpecs = [numSettings]settingSpec{
	SettingUseAAFilter:           {name: "UseAAFilter", min: 0, max: 1, def: 1},
	SettingAAFilterLength:        {name: "AAFilterLength", min: 8, max: 128, def: 64},
	SettingUseQuickSeek:          {name: "UseQuickSeek", min: 0, max: 1, def: 0},
	SettingSequenceMs:            {name: "SequenceMs", min: 0, max: 200, def: 0},
	SettingSeekWindowMs:          {name: "SeekWindowMs", min: 0, max: 100, def: 0},
	SettingOverlapMs:             {name: "OverlapMs", min: 1, max: 50, def: 8},
	SettingNominalInputSequence:  {name: "NominalInputSequence", readOnly: true},
	SettingNominalOutputSequence: {name: "NominalOutputSequence", readOnly: true},
	SettingInitialLatency:        {name: "InitialLatency", readOnly: true},
	SettingSingleChannelSeek:     {name: "SingleChannelSeek", min: 0, max: 1, def: 0},
	SettingSpeechOptimized:       {name: "SpeechOptimized", min: 0, max: 1, def: 0},
}

func (id SettingID) valid() bool { return id >= 0 && id < numSettings }

func (id SettingID) String() string {
	if !id.valid() {
		return fmt.Sprintf("SettingID(%d)", int(id))
	}
	return settingSpecs[id].name
}

// Range returns the accepted value range of a writable setting. ok is false
// for unknown and read-only ids.
func (id SettingID) Range() (min, max int, ok bool) {
	if !id.valid() || settingSpecs[id].readOnly {
		return 0, 0, false
	}
	s := settingSpecs[id]
	return s.min, s.max, true
}

// settings holds the writable values; read-only slots stay zero.
type settings [numSettings]int

func defaultSettings() settings {
	var s settings
	for id, spec := range settingSpecs {
		s[id] = spec.def
	}
	return s
}

// validate checks value against the table and returns the value to store.
func (s *settings) validate(id SettingID, value int) (int, error) {
	if !id.valid() {
		return 0, &SettingError{ID: id, Value: value, Reason: "unknown setting"}
	}
	spec := settingSpecs[id]
	if spec.readOnly {
		return 0, &SettingError{ID: id, Value: value, Reason: "read-only"}
	}
	if value < spec.min || value > spec.max {
		return 0, &SettingError{ID: id, Value: value,
			Reason: fmt.Sprintf("out of range [%d, %d]", spec.min, spec.max)}
	}
	if id == SettingAAFilterLength {
		value -= value % 4
	}
	return value, nil
}

func (s *settings) flag(id SettingID) bool { return s[id] != 0 }
