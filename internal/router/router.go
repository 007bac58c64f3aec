package router

import (
	"fmt"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/neighborly/api/handler"
	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/domain"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Message *apiHandler.MessageHandler
	Review  *apiHandler.ReviewHandler
	Health  *apiHandler.HealthHandler
}

// Guard wraps handlers with caller resolution.
type Guard interface {
	Required(next fasthttp.RequestHandler) fasthttp.RequestHandler
	Optional(next fasthttp.RequestHandler) fasthttp.RequestHandler
}

func New(handlers Handlers, guard Guard, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := router.New()
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, rcv interface{}) {
		logger.Error("handler panic", zap.String("path", string(ctx.Path())), zap.String("panic", fmt.Sprint(rcv)))
		transport.WriteJSON(ctx, http.StatusInternalServerError,
			transport.NewError(string(domain.ErrCodeInternal), "internal error", nil))
	}

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", guard.Required(handlers.Auth.Refresh))
	r.POST("/api/v1/auth/logout", guard.Required(handlers.Auth.Logout))

	// Tasks
	r.POST("/api/v1/tasks", guard.Required(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/nearby", guard.Optional(handlers.Task.Nearby))
	r.GET("/api/v1/tasks/mine", guard.Optional(handlers.Task.Mine))
	r.GET("/api/v1/tasks/{id}", guard.Optional(handlers.Task.GetTask))
	r.POST("/api/v1/tasks/{id}/apply", guard.Required(handlers.Task.Apply))
	r.POST("/api/v1/tasks/{id}/assign", guard.Required(handlers.Task.Assign))
	r.POST("/api/v1/tasks/{id}/start", guard.Required(handlers.Task.Start))
	r.POST("/api/v1/tasks/{id}/complete", guard.Required(handlers.Task.Complete))

	// Messages
	r.GET("/api/v1/tasks/{id}/messages", guard.Optional(handlers.Message.List))
	r.POST("/api/v1/tasks/{id}/messages", guard.Required(handlers.Message.Send))
	r.POST("/api/v1/tasks/{id}/messages/read", guard.Required(handlers.Message.MarkRead))

	// Reviews
	r.GET("/api/v1/tasks/{id}/reviews", handlers.Review.ForTask)
	r.POST("/api/v1/reviews", guard.Required(handlers.Review.Create))
	r.GET("/api/v1/users/{id}/reviews", handlers.Review.ForUser)

	// Profiles
	r.GET("/api/v1/users/{id}", handlers.Profile.GetUser)
	r.GET("/api/v1/profile", guard.Optional(handlers.Profile.GetProfile))
	r.POST("/api/v1/profile", guard.Required(handlers.Profile.CreateProfile))
	r.PUT("/api/v1/profile", guard.Required(handlers.Profile.UpdateProfile))
	r.GET("/api/v1/profile/points", guard.Required(handlers.Review.Points))
	r.GET("/api/v1/helpers/nearby", handlers.Profile.NearbyHelpers)

	return r
}
