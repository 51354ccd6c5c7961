package service

import (
	"context"
	"testing"

	"github.com/fnolab/pulse/shared"
	"github.com/peterldowns/testy/assert"
)

func TestPulseConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PulseConfig
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: PulseConfig{
				Symbol: "NIFTY",
				Cancel: func() {},
			},
			wantErr: false,
		},
		{
			name: "missing symbol",
			cfg: PulseConfig{
				Cancel: func() {},
			},
			wantErr: true,
		},
		{
			name: "missing cancel func",
			cfg: PulseConfig{
				Symbol: "NIFTY",
			},
			wantErr: true,
		},
	}

	for _, test := range tests {
		err := test.cfg.Validate()
		if test.wantErr && err == nil {
			t.Errorf("%s: expected a validation error", test.name)
		}
		if !test.wantErr && err != nil {
			t.Errorf("%s: unexpected validation error: %v", test.name, err)
		}
	}
}

func TestNewPulse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure the service assembles without a classifier key or database
	// endpoint, degrading to fallback reasoning and in-memory results.
	pulse, err := NewPulse(ctx, &PulseConfig{
		Symbol: "NIFTY",
		Cancel: cancel,
	})
	assert.NoError(t, err)

	// Ensure no analysis is reported before the first cycle completes.
	if result := pulse.LatestAnalysis(shared.FiveMinute); result != nil {
		t.Errorf("expected no analysis before the first cycle, got %+v", result)
	}

	// Ensure an invalid config is rejected.
	_, err = NewPulse(ctx, &PulseConfig{})
	assert.Error(t, err)
}
