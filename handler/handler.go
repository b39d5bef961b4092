package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"codetrack/model"
	"codetrack/service"
)

// Handler adapts the service to HTTP. Every response goes through the
// GenericResponse envelope so clients get one shape for success and failure.
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the API under /api. Everything except auth requires
// a bearer token resolved by the auth middleware.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	problems := api.Group("/problems", requireAuth)
	problems.POST("", h.CreateProblem)
	problems.GET("", h.ListProblems)
	problems.GET("/stats", h.DashboardStats)
	problems.GET("/:id", h.GetProblem)
	problems.PUT("/:id", h.UpdateProblem)
	problems.DELETE("/:id", h.DeleteProblem)
	problems.PUT("/:id/favorite", h.ToggleFavorite)
	problems.PUT("/:id/schedule-revision", h.ScheduleRevision)

	revisions := api.Group("/revisions", requireAuth)
	revisions.GET("", h.ListRevisions)
	revisions.GET("/stats", h.RevisionStats)
	revisions.GET("/notifications", h.Notifications)
	revisions.PUT("/:id/mark-revised", h.MarkRevised)
	revisions.PUT("/:id/reschedule", h.Reschedule)

	users := api.Group("/users", requireAuth)
	users.GET("/profile", h.Profile)
	users.GET("/activity", h.Activity)
	users.PUT("/update-preferences", h.UpdatePreferences)
	users.PUT("/update-platform-usernames", h.UpdatePlatformUsernames)
}

func respond(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, model.GenericResponse{
		Success: true,
		Status:  status,
		Payload: payload,
	})
}

func respondError(c *gin.Context, err error) {
	status, errorType := classifyError(err)
	c.JSON(status, model.GenericResponse{
		Success: false,
		Status:  status,
		Error: &model.ErrorInfo{
			ErrorType: errorType,
			Code:      status,
			Message:   err.Error(),
		},
	})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, model.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL"
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, model.ErrInconsistentState):
		return http.StatusInternalServerError, "INCONSISTENT_STATE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// userID reads the authenticated user set by the auth middleware.
func userID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		respondError(c, model.ErrUnauthorized)
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	if !ok {
		respondError(c, model.ErrUnauthorized)
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses the :id parameter as an ObjectID.
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: invalid id %q", model.ErrValidation, c.Param("id")))
		return primitive.NilObjectID, false
	}
	return id, true
}
