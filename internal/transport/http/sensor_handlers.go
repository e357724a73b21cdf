package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/core"
	"github.com/RahulSaini202/home-automation/internal/proto"
)

// SensorHandlers accepts device readings and hands them to the relay.
type SensorHandlers struct {
	relay *core.Relay
	log   *zerolog.Logger
}

// NewSensorHandlers creates a new sensor handlers instance.
func NewSensorHandlers(relay *core.Relay, logger *zerolog.Logger) *SensorHandlers {
	return &SensorHandlers{relay: relay, log: logger}
}

// AckResponse acknowledges an accepted sample.
type AckResponse struct {
	Success bool `json:"Success"`
}

// IngestSensorValues relays whichever readings the device reported.
// GET|POST /home/sensors?hum=&pir=&temp=&ldr=[&userId=]
func (h *SensorHandlers) IngestSensorValues(c *gin.Context) {
	fields := map[string]string{
		core.FieldHumidity:       c.Query(core.FieldHumidity),
		core.FieldTemperature:    c.Query(core.FieldTemperature),
		core.FieldLightIntensity: c.Query(core.FieldLightIntensity),
		core.FieldMotion:         c.Query(core.FieldMotion),
	}

	if c.Request.Method == http.MethodPost && strings.HasPrefix(c.ContentType(), "application/json") {
		var body proto.SensorData
		if err := c.ShouldBindJSON(&body); err != nil {
			h.log.Debug().Err(err).Msg("invalid sensor body")
			badRequest(c, "invalid request body")
			return
		}
		for k, v := range body.Fields() {
			if v != "" {
				fields[k] = v
			}
		}
	}

	sample, err := core.ParseSample(c.Query("userId"), fields)
	if err != nil {
		if errors.Is(err, core.ErrInvalidSample) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("failed to parse sample")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	ack := h.relay.Publish(c.Request.Context(), sample)
	c.JSON(http.StatusCreated, AckResponse{Success: ack.Success})
}
