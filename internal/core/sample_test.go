package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSample(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		want    []EventKind
		wantErr bool
	}{
		{
			name:   "humidity only",
			fields: map[string]string{"hum": "55"},
			want:   []EventKind{EventHumidity},
		},
		{
			name:   "all readings",
			fields: map[string]string{"hum": "55", "temp": "21.5", "ldr": "812", "pir": "1"},
			want:   []EventKind{EventHumidity, EventTemperature, EventLightIntensity, EventMotionDetected},
		},
		{
			name:   "blank values are absent",
			fields: map[string]string{"hum": "", "temp": "  ", "pir": "false"},
			want:   []EventKind{EventMotionDetected},
		},
		{
			name:   "nothing reported",
			fields: map[string]string{},
			want:   []EventKind{},
		},
		{
			name:    "malformed temperature",
			fields:  map[string]string{"temp": "warm"},
			wantErr: true,
		},
		{
			name:    "not a number humidity",
			fields:  map[string]string{"hum": "NaN"},
			wantErr: true,
		},
		{
			name:    "infinite temperature",
			fields:  map[string]string{"temp": "Inf"},
			wantErr: true,
		},
		{
			name:    "negative infinite light",
			fields:  map[string]string{"ldr": "-Inf"},
			wantErr: true,
		},
		{
			name:    "malformed motion",
			fields:  map[string]string{"pir": "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSample("home-1", tt.fields)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSample))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "home-1", s.HomeID)

			kinds := make([]EventKind, 0)
			for _, ev := range s.Events() {
				kinds = append(kinds, ev.Kind)
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}

func TestParseSampleValues(t *testing.T) {
	s, err := ParseSample("", map[string]string{"temp": "21.5", "pir": "0"})
	require.NoError(t, err)
	require.NotNil(t, s.Temperature)
	require.NotNil(t, s.Motion)
	assert.Equal(t, 21.5, *s.Temperature)
	assert.False(t, *s.Motion)
	assert.Nil(t, s.Humidity)
	assert.False(t, s.Empty())
}

func TestEventKindNames(t *testing.T) {
	assert.Equal(t, "humidity", EventHumidity.String())
	assert.Equal(t, "temperature", EventTemperature.String())
	assert.Equal(t, "lightintensity", EventLightIntensity.String())
	assert.Equal(t, "motiondetection", EventMotionDetected.String())
	assert.Equal(t, "test", EventDiagnostic.String())
}
