package cfg

import (
	"time"

	"github.com/ftl/hamradio/cfg"
	"github.com/pkg/errors"

	"github.com/ftl/scansim/core"
)

const (
	tickPeriodMs cfg.Key = "scansim.tickPeriodMs"
	initialGain  cfg.Key = "scansim.initialGain"
	phaseWrap    cfg.Key = "scansim.phaseWrap"
	seed         cfg.Key = "scansim.seed"
	sampleBuffer cfg.Key = "scansim.sampleBuffer"
	frameBuffer  cfg.Key = "scansim.frameBuffer"
	logBuffer    cfg.Key = "scansim.logBuffer"
	historySize  cfg.Key = "scansim.historySize"
)

// Getter provides configuration values by key, falling back to the given default value.
type Getter interface {
	Get(key cfg.Key, defaultValue interface{}) interface{}
}

// GetterFunc adapts a function to the Getter interface.
type GetterFunc func(key cfg.Key, defaultValue interface{}) interface{}

// Get the value for the given key.
func (f GetterFunc) Get(key cfg.Key, defaultValue interface{}) interface{} {
	return f(key, defaultValue)
}

// Load the configuration from the default configuration file.
func Load() (core.Configuration, error) {
	configuration, err := cfg.LoadDefault()
	if err != nil {
		return core.Configuration{}, errors.Wrap(err, "cannot load configuration")
	}
	return FromGetter(GetterFunc(configuration.Get)), nil
}

// FromGetter reads the configuration from the given getter. Missing values are replaced by
// their defaults. Numbers are expected as float64, like they come out of JSON.
func FromGetter(configuration Getter) core.Configuration {
	defaults := Static()
	result := core.Configuration{
		TickPeriod:   time.Duration(getFloat(configuration, tickPeriodMs, float64(defaults.TickPeriod/time.Millisecond)) * float64(time.Millisecond)),
		InitialGain:  getFloat(configuration, initialGain, defaults.InitialGain),
		PhaseWrap:    getBool(configuration, phaseWrap, defaults.PhaseWrap),
		Seed:         uint64(getFloat(configuration, seed, float64(defaults.Seed))),
		SampleBuffer: int(getFloat(configuration, sampleBuffer, float64(defaults.SampleBuffer))),
		FrameBuffer:  int(getFloat(configuration, frameBuffer, float64(defaults.FrameBuffer))),
		LogBuffer:    int(getFloat(configuration, logBuffer, float64(defaults.LogBuffer))),
		HistorySize:  int(getFloat(configuration, historySize, float64(defaults.HistorySize))),
	}
	return result.Normalized()
}

// Static returns the built-in configuration.
func Static() core.Configuration {
	return core.DefaultConfiguration()
}

func getFloat(configuration Getter, key cfg.Key, defaultValue float64) float64 {
	value, ok := configuration.Get(key, defaultValue).(float64)
	if !ok {
		return defaultValue
	}
	return value
}

func getBool(configuration Getter, key cfg.Key, defaultValue bool) bool {
	value, ok := configuration.Get(key, defaultValue).(bool)
	if !ok {
		return defaultValue
	}
	return value
}
