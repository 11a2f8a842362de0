package cfg

import (
	"testing"
	"time"

	"github.com/ftl/hamradio/cfg"
	"github.com/stretchr/testify/assert"

	"github.com/ftl/scansim/core"
)

func TestFromGetter(t *testing.T) {
	tt := []struct {
		name     string
		values   mockGetter
		expected core.Configuration
	}{
		{
			name:     "empty",
			values:   mockGetter{},
			expected: core.DefaultConfiguration(),
		},
		{
			name: "all values",
			values: mockGetter{
				tickPeriodMs: 10.0,
				initialGain:  1.5,
				phaseWrap:    false,
				seed:         42.0,
				sampleBuffer: 16.0,
				frameBuffer:  1.0,
				logBuffer:    8.0,
				historySize:  128.0,
			},
			expected: core.Configuration{
				TickPeriod:   10 * time.Millisecond,
				InitialGain:  1.5,
				PhaseWrap:    false,
				Seed:         42,
				SampleBuffer: 16,
				FrameBuffer:  1,
				LogBuffer:    8,
				HistorySize:  128,
			},
		},
		{
			name: "wrong types and invalid values",
			values: mockGetter{
				tickPeriodMs: "fast",
				initialGain:  -2.0,
				phaseWrap:    "yes",
				frameBuffer:  0.0,
			},
			expected: core.DefaultConfiguration(),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			actual := FromGetter(tc.values)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

type mockGetter map[cfg.Key]interface{}

func (m mockGetter) Get(key cfg.Key, defaultValue interface{}) interface{} {
	value, ok := m[key]
	if !ok {
		return defaultValue
	}
	return value
}
