package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"codetrack/model"
	"codetrack/service"
)

func (h *Handler) ListRevisions(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	f := service.RevisionFilter{
		Status:     c.Query("status"),
		Difficulty: c.Query("difficulty"),
		Category:   c.Query("category"),
		Page:       queryInt64(c, "page", 1),
		Limit:      queryInt64(c, "limit", 10),
	}
	list, err := h.svc.ListRevisions(c.Request.Context(), uid, f)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) MarkRevised(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	pid, ok := pathID(c)
	if !ok {
		return
	}
	var req model.MarkRevisedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", model.ErrValidation, err))
		return
	}
	problem, err := h.svc.MarkRevised(c.Request.Context(), uid, pid, req.TimeTaken, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, problem)
}

func (h *Handler) Reschedule(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	pid, ok := pathID(c)
	if !ok {
		return
	}
	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", model.ErrValidation, err))
		return
	}
	problem, err := h.svc.Reschedule(c.Request.Context(), uid, pid, req.RevisionDate)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, problem)
}

func (h *Handler) RevisionStats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	out, err := h.svc.RevisionStats(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) Notifications(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	out, err := h.svc.Notifications(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}
