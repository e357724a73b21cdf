package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/service/homes"
)

// HomeHandlers provides HTTP handlers for per-home settings.
type HomeHandlers struct {
	service *homes.Service
	log     *zerolog.Logger
}

// NewHomeHandlers creates a new home handlers instance.
func NewHomeHandlers(service *homes.Service, logger *zerolog.Logger) *HomeHandlers {
	return &HomeHandlers{
		service: service,
		log:     logger,
	}
}

// SetMotionDetectionRequest is the body of a motion detection update.
// JSON and urlencoded bodies are both accepted.
type SetMotionDetectionRequest struct {
	UserID string `json:"userId" form:"userId"`
	Status *bool  `json:"status" form:"status" binding:"required"`
}

// MotionDetectionResponse carries the stored flag.
type MotionDetectionResponse struct {
	Status bool `json:"status"`
}

// SetMotionDetectionStatus enables or disables motion detection for a home.
// POST /home/motion-detection
func (h *HomeHandlers) SetMotionDetectionStatus(c *gin.Context) {
	var req SetMotionDetectionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid motion detection request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status, err := h.service.SetMotionDetectionStatus(c.Request.Context(), req.UserID, *req.Status)
	if err != nil {
		h.writeError(c, err, req.UserID)
		return
	}

	h.log.Info().Str("user_id", req.UserID).Bool("status", status).Msg("motion detection updated")
	c.JSON(http.StatusCreated, MotionDetectionResponse{Status: status})
}

// GetMotionDetectionStatus returns the motion detection flag for a home.
// GET /home/motion-detection?userId=
func (h *HomeHandlers) GetMotionDetectionStatus(c *gin.Context) {
	userID := c.Query("userId")

	status, err := h.service.GetMotionDetectionStatus(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, MotionDetectionResponse{Status: status})
}

func (h *HomeHandlers) writeError(c *gin.Context, err error, userID string) {
	if errors.Is(err, homes.ErrNotFound) {
		h.log.Debug().Str("user_id", userID).Msg("home not found")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Home not found!"})
		return
	}
	h.log.Error().Err(err).Str("user_id", userID).Msg("motion detection request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
