package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin  = "join"
	InboundTypeLeave = "leave"
	// InboundTypeDis is the leave message name sent by legacy dashboard clients.
	InboundTypeDis = "dis"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// RoomData names the room (home id) to join or leave. Clients may also send
// the bare room id as a JSON string.
type RoomData struct {
	Room string `json:"room"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// SensorData is the payload shape accepted from devices over MQTT. Values
// may be JSON strings or numbers.
type SensorData struct {
	Humidity       Scalar `json:"hum,omitempty"`
	Temperature    Scalar `json:"temp,omitempty"`
	LightIntensity Scalar `json:"ldr,omitempty"`
	Motion         Scalar `json:"pir,omitempty"`
}

// Fields returns the readings keyed by device field name.
func (d SensorData) Fields() map[string]string {
	return map[string]string{
		"hum":  string(d.Humidity),
		"temp": string(d.Temperature),
		"ldr":  string(d.LightIntensity),
		"pir":  string(d.Motion),
	}
}

// Scalar is a string-encoded reading that also decodes from JSON numbers
// and booleans.
type Scalar string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = Scalar(b)
	return nil
}
