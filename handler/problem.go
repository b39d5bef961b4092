package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codetrack/model"
	"codetrack/repository"
	"codetrack/utils"
)

func (h *Handler) CreateProblem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req model.CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", model.ErrValidation, err))
		return
	}
	// Tolerate common platform misspellings from clients.
	req.Platform = utils.NormalizePlatform(string(req.Platform))
	problem, err := h.svc.CreateProblem(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, problem)
}

func (h *Handler) GetProblem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	pid, ok := pathID(c)
	if !ok {
		return
	}
	problem, err := h.svc.GetProblem(c.Request.Context(), uid, pid)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, problem)
}

func (h *Handler) ListProblems(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	f := repository.ProblemFilter{
		Status:        c.Query("status"),
		Platform:      c.Query("platform"),
		Difficulty:    c.Query("difficulty"),
		Category:      c.Query("category"),
		Pattern:       c.Query("pattern"),
		FavoritesOnly: c.Query("favorites") == "true",
		Search:        c.Query("search"),
		SortBy:        c.Query("sortBy"),
		SortOrder:     c.Query("sortOrder"),
		Page:          queryInt64(c, "page", 1),
		Limit:         queryInt64(c, "limit", 10),
	}
	list, err := h.svc.ListProblems(c.Request.Context(), uid, f)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) UpdateProblem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	pid, ok := pathID(c)
	if !ok {
		return
	}
	var req model.UpdateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", model.ErrValidation, err))
		return
	}
	problem, err := h.svc.UpdateProblem(c.Request.Context(), uid, pid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, problem)
}

func (h *Handler) DeleteProblem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	pid, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteProblem(c.Request.Context(), uid, pid); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": pid.Hex()})
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	pid, ok := pathID(c)
	if !ok {
		return
	}
	problem, err := h.svc.ToggleFavorite(c.Request.Context(), uid, pid)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, problem)
}

func (h *Handler) ScheduleRevision(c *gin.Context) {
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
	problem, err := h.svc.ScheduleRevision(c.Request.Context(), uid, pid, req.RevisionDate)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, problem)
}

func (h *Handler) DashboardStats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	out, err := h.svc.DashboardStats(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func queryInt64(c *gin.Context, key string, def int64) int64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}
