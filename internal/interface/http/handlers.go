package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/application/command"
	"github.com/dailywarden/warden/internal/application/query"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/internal/interface/http/handlers"
)

type apiHandler struct {
	deps   Dependencies
	logger *zap.Logger
}

func (h *apiHandler) routes(r *gin.Engine) {
	r.GET("/healthz", h.handleHealth)

	v1 := r.Group("/api/v1")

	participants := v1.Group("/participants/:id")
	participants.PUT("/registration", h.handleRegister)
	participants.DELETE("/registration", h.handleUnregister)
	participants.POST("/updates", h.handleSubmit)
	participants.GET("/status", h.handleStatus)
	participants.GET("/history", h.handleHistory)

	v1.GET("/updates/today", h.handleToday)

	v1.PUT("/target", h.handleSetTarget)
	v1.DELETE("/target", h.handleClearTarget)
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (h *apiHandler) handleHealth(c *gin.Context) {
	status := h.deps.Health.Check(c.Request.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARTICIPANTS
// ══════════════════════════════════════════════════════════════════════════════

type membershipResponse struct {
	ParticipantID string `json:"participant_id"`
	Registered    bool   `json:"registered"`
	Changed       bool   `json:"changed"`
}

func toMembershipResponse(r *command.MembershipResult) membershipResponse {
	return membershipResponse{
		ParticipantID: r.ParticipantID.String(),
		Registered:    r.Registered,
		Changed:       r.Changed,
	}
}

func (h *apiHandler) handleRegister(c *gin.Context) {
	res, err := h.deps.Register.Handle(c.Request.Context(), command.RegisterCommand{ParticipantID: c.Param("id")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMembershipResponse(res))
}

func (h *apiHandler) handleUnregister(c *gin.Context) {
	res, err := h.deps.Unregister.Handle(c.Request.Context(), command.UnregisterCommand{ParticipantID: c.Param("id")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMembershipResponse(res))
}

type submitRequest struct {
	DisplayLabel string `json:"display_label"`
	Body         string `json:"body"`
}

type submitResponse struct {
	ParticipantID string `json:"participant_id"`
	Day           string `json:"day"`
	DisplayLabel  string `json:"display_label"`
	Body          string `json:"body"`
	SubmittedAt   string `json:"submitted_at"`
	Registered    bool   `json:"registered"`
}

func (h *apiHandler) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "body must be a JSON object"})
		return
	}

	res, err := h.deps.Submit.Handle(c.Request.Context(), command.SubmitUpdateCommand{
		ParticipantID: c.Param("id"),
		DisplayLabel:  req.DisplayLabel,
		Body:          req.Body,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submitResponse{
		ParticipantID: res.Record.ParticipantID.String(),
		Day:           res.DayKey.String(),
		DisplayLabel:  res.Record.DisplayLabel,
		Body:          res.Record.Body,
		SubmittedAt:   res.Record.SubmittedAt.Format(time.RFC3339Nano),
		Registered:    res.Registered,
	})
}

func (h *apiHandler) handleStatus(c *gin.Context) {
	dto, err := h.deps.Status.Handle(c.Request.Context(), query.GetStatusQuery{ParticipantID: c.Param("id")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *apiHandler) handleHistory(c *gin.Context) {
	days := query.DefaultHistoryDays
	if raw, ok := c.GetQuery("days"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "days must be an integer"})
			return
		}
		days = n
	}

	dto, err := h.deps.History.Handle(c.Request.Context(), query.GetHistoryQuery{
		ParticipantID: c.Param("id"),
		Days:          days,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *apiHandler) handleToday(c *gin.Context) {
	dto, err := h.deps.Today.Handle(c.Request.Context(), query.GetTodayReportQuery{})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ══════════════════════════════════════════════════════════════════════════════
// TARGET
// ══════════════════════════════════════════════════════════════════════════════

type targetRequest struct {
	ChatID string `json:"chat_id"`
}

type targetResponse struct {
	Target     string `json:"target"`
	Previous   string `json:"previous,omitempty"`
	Configured bool   `json:"configured"`
}

func toTargetResponse(r *command.TargetResult) targetResponse {
	return targetResponse{
		Target:     r.Target.String(),
		Previous:   r.Previous.String(),
		Configured: r.Configured,
	}
}

func (h *apiHandler) handleSetTarget(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "body must be a JSON object"})
		return
	}
	res, err := h.deps.SetTarget.Handle(c.Request.Context(), command.SetTargetCommand{ChatID: req.ChatID})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("reminder target changed",
		zap.String("target", res.Target.String()),
		handlers.RequestIDField(c),
	)
	c.JSON(http.StatusOK, toTargetResponse(res))
}

func (h *apiHandler) handleClearTarget(c *gin.Context) {
	res := h.deps.SetTarget.Clear(c.Request.Context())
	h.logger.Info("reminder target cleared", handlers.RequestIDField(c))
	c.JSON(http.StatusOK, toTargetResponse(res))
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case shared.IsValidation(err):
		return http.StatusBadRequest, "invalid_request"
	case shared.IsPersistence(err):
		return http.StatusServiceUnavailable, "persistence_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (h *apiHandler) writeError(c *gin.Context, err error) {
	code, kind := statusFor(err)
	_ = c.Error(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err), handlers.RequestIDField(c))
	}
	c.JSON(code, gin.H{"error": kind, "message": err.Error()})
}
