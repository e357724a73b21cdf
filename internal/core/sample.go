package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field keys used by sensor devices, both as HTTP query parameters and in
// MQTT payloads.
const (
	FieldHumidity       = "hum"
	FieldTemperature    = "temp"
	FieldLightIntensity = "ldr"
	FieldMotion         = "pir"
)

// Sample is a partial set of readings reported by one device. Nil fields
// were not reported.
type Sample struct {
	HomeID         string
	Humidity       *float64
	Temperature    *float64
	LightIntensity *float64
	Motion         *bool
}

// Empty reports whether the sample carries no reading at all.
func (s Sample) Empty() bool {
	return s.Humidity == nil && s.Temperature == nil && s.LightIntensity == nil && s.Motion == nil
}

// Events returns one event per present reading, in device report order.
func (s Sample) Events() []*Event {
	events := make([]*Event, 0, 4)
	if s.Humidity != nil {
		events = append(events, HumidityEvent(*s.Humidity))
	}
	if s.Temperature != nil {
		events = append(events, TemperatureEvent(*s.Temperature))
	}
	if s.LightIntensity != nil {
		events = append(events, LightIntensityEvent(*s.LightIntensity))
	}
	if s.Motion != nil {
		events = append(events, MotionEvent(*s.Motion))
	}
	return events
}

// ParseSample builds a sample from string-encoded device fields. Missing or
// blank fields are skipped; malformed ones fail with ErrInvalidSample.
func ParseSample(homeID string, fields map[string]string) (Sample, error) {
	s := Sample{HomeID: homeID}

	var err error
	if s.Humidity, err = parseReading(fields, FieldHumidity); err != nil {
		return Sample{}, err
	}
	if s.Temperature, err = parseReading(fields, FieldTemperature); err != nil {
		return Sample{}, err
	}
	if s.LightIntensity, err = parseReading(fields, FieldLightIntensity); err != nil {
		return Sample{}, err
	}

	if raw := strings.TrimSpace(fields[FieldMotion]); raw != "" {
		detected, perr := strconv.ParseBool(raw)
		if perr != nil {
			return Sample{}, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidSample, FieldMotion, raw)
		}
		s.Motion = &detected
	}
	return s, nil
}

func parseReading(fields map[string]string, key string) (*float64, error) {
	raw := strings.TrimSpace(fields[key])
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidSample, key, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %s=%q is not a finite number", ErrInvalidSample, key, raw)
	}
	return &v, nil
}
