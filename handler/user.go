package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"codetrack/model"
)

func (h *Handler) Profile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	out, err := h.svc.Profile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) Activity(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	period := int(queryInt64(c, "period", 30))
	out, err := h.svc.Activity(c.Request.Context(), uid, period)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var prefs model.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		respondError(c, fmt.Errorf("%w: %v", model.ErrValidation, err))
		return
	}
	user, err := h.svc.UpdatePreferences(c.Request.Context(), uid, prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *Handler) UpdatePlatformUsernames(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var names model.PlatformUsernames
	if err := c.ShouldBindJSON(&names); err != nil {
		respondError(c, fmt.Errorf("%w: %v", model.ErrValidation, err))
		return
	}
	user, err := h.svc.UpdatePlatformUsernames(c.Request.Context(), uid, names)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}
