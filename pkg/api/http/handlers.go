package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/aescanero/kfp-webhook/internal/application/relay"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TriggerResponse is returned for a created run
type TriggerResponse struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	RunID      interface{}       `json:"run_id"`
	Parameters map[string]string `json:"parameters"`
}

// StatusResponse is returned for trigger failures after authentication
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleIndex describes the available endpoints
func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Kubeflow Pipeline Webhook Server",
		"endpoints": gin.H{
			"/health":  "Check server status",
			"/trigger": "Trigger Kubeflow Pipeline (POST)",
		},
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	tokenStatus := "not available"
	if s.token != nil && s.token.Available() {
		tokenStatus = "available"
	}

	pipelineID := s.defaultPipelineID
	if pipelineID == "" {
		pipelineID = "not set"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"kubeflow_endpoint": s.kubeflowEndpoint,
		"pipeline_id":       pipelineID,
		"kubeflow_token":    tokenStatus,
	})
}

// handleTrigger creates a pipeline run from the webhook body
func (s *Server) handleTrigger(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes))
	if err != nil {
		s.writeTriggerError(c, &relay.BadRequestError{Err: err})
		return
	}

	req, err := relay.DecodeTriggerRequest(body)
	if err != nil {
		s.writeTriggerError(c, err)
		return
	}

	result, err := s.relay.Trigger(c.Request.Context(), req)
	if err != nil {
		s.writeTriggerError(c, err)
		return
	}

	c.JSON(http.StatusOK, TriggerResponse{
		Status:     "success",
		Message:    "Pipeline triggered successfully",
		RunID:      result.RunID,
		Parameters: result.Parameters,
	})
}

// writeTriggerError maps relay errors to responses
func (s *Server) writeTriggerError(c *gin.Context, err error) {
	var (
		badReq     *relay.BadRequestError
		downstream *relay.DownstreamError
		internal   *relay.InternalError
	)

	switch {
	case errors.Is(err, relay.ErrNoPipelineID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No pipeline_id provided and no default set"})

	case errors.As(err, &badReq):
		s.logger.Warn("invalid trigger request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		s.relay.RecordBadRequest()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + badReq.Err.Error()})

	case errors.As(err, &downstream):
		c.JSON(http.StatusInternalServerError, StatusResponse{
			Status:  "error",
			Message: "Failed to trigger pipeline: " + downstream.Err.Error(),
		})

	default:
		detail := err.Error()
		if errors.As(err, &internal) {
			detail = internal.Err.Error()
		}
		s.logger.Error("unexpected trigger failure",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, StatusResponse{
			Status:  "error",
			Message: "Internal server error: " + detail,
		})
	}
}
