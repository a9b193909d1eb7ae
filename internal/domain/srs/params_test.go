package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.Equal(t, 1.3, params.MinEaseFactor)
	assert.Equal(t, 0, params.MinQuality)
	assert.Equal(t, 5, params.MaxQuality)
	assert.Equal(t, 3, params.PassingQuality)
	assert.Equal(t, 1, params.FailedInterval)
	assert.Equal(t, 1, params.FirstInterval)
	assert.Equal(t, 6, params.SecondInterval)
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		config   ParamsConfig
		validate func(t *testing.T, p *Params)
	}{
		{
			name:   "empty config keeps defaults",
			config: ParamsConfig{},
			validate: func(t *testing.T, p *Params) {
				assert.Equal(t, NewDefaultParams(), p)
			},
		},
		{
			name:   "override ease floor",
			config: ParamsConfig{MinEaseFactor: 1.5},
			validate: func(t *testing.T, p *Params) {
				assert.Equal(t, 1.5, p.MinEaseFactor)
			},
		},
		{
			name:   "override passing quality",
			config: ParamsConfig{PassingQuality: 4},
			validate: func(t *testing.T, p *Params) {
				assert.Equal(t, 4, p.PassingQuality)
			},
		},
		{
			name:   "out of range passing quality ignored",
			config: ParamsConfig{PassingQuality: 9},
			validate: func(t *testing.T, p *Params) {
				assert.Equal(t, 3, p.PassingQuality)
			},
		},
		{
			name:   "override intervals",
			config: ParamsConfig{FailedInterval: 2, FirstInterval: 3, SecondInterval: 7},
			validate: func(t *testing.T, p *Params) {
				assert.Equal(t, 2, p.FailedInterval)
				assert.Equal(t, 3, p.FirstInterval)
				assert.Equal(t, 7, p.SecondInterval)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.validate(t, NewParams(tc.config))
		})
	}
}
