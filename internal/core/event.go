package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventHumidity carries a relative humidity reading.
	EventHumidity EventKind = iota
	// EventTemperature carries a temperature reading.
	EventTemperature
	// EventLightIntensity carries a light sensor (LDR) reading.
	EventLightIntensity
	// EventMotionDetected carries the PIR sensor state.
	EventMotionDetected
	// EventDiagnostic is a manual verification event sent to one room.
	EventDiagnostic

	// EventJoined acknowledges a join to the requesting client.
	EventJoined
	// EventLeft acknowledges a leave to the requesting client.
	EventLeft
	// EventError notifies a client about a domain error.
	EventError
)

var eventNames = map[EventKind]string{
	EventHumidity:       "humidity",
	EventTemperature:    "temperature",
	EventLightIntensity: "lightintensity",
	EventMotionDetected: "motiondetection",
	EventDiagnostic:     "test",
	EventJoined:         "joined",
	EventLeft:           "left",
	EventError:          "error",
}

// String returns the event name used on the wire.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is sent to clients to describe what happened in the system.
// Only the payload field matching Kind is meaningful.
type Event struct {
	Kind   EventKind
	Room   string
	Value  float64    // humidity, temperature, light intensity
	Motion bool       // motion detected
	Text   string     // diagnostic
	Error  *CoreError // EventError
}

// Payload returns the typed value carried by the event.
func (e *Event) Payload() any {
	switch e.Kind {
	case EventHumidity, EventTemperature, EventLightIntensity:
		return e.Value
	case EventMotionDetected:
		return e.Motion
	case EventDiagnostic:
		return e.Text
	default:
		return nil
	}
}

// HumidityEvent builds a humidity reading event.
func HumidityEvent(v float64) *Event { return &Event{Kind: EventHumidity, Value: v} }

// TemperatureEvent builds a temperature reading event.
func TemperatureEvent(v float64) *Event { return &Event{Kind: EventTemperature, Value: v} }

// LightIntensityEvent builds a light intensity reading event.
func LightIntensityEvent(v float64) *Event { return &Event{Kind: EventLightIntensity, Value: v} }

// MotionEvent builds a motion detection event.
func MotionEvent(detected bool) *Event { return &Event{Kind: EventMotionDetected, Motion: detected} }

// DiagnosticEvent builds the manual verification event.
func DiagnosticEvent(text string) *Event { return &Event{Kind: EventDiagnostic, Text: text} }
