package proto

import (
	"encoding/json"
	"testing"
)

func TestSensorDataDecodesStringsAndNumbers(t *testing.T) {
	var d SensorData
	payload := `{"hum":"55","temp":21.5,"ldr":null,"pir":true}`
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	fields := d.Fields()
	want := map[string]string{"hum": "55", "temp": "21.5", "ldr": "", "pir": "true"}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %q, want %q", k, fields[k], v)
		}
	}
}
