package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Routes struct {
	BasePath     string
	Auth         *AuthenticationHandler
	Tasks        *TaskHandler
	System       *SystemHandler
	Authenticate func(http.Handler) http.Handler
	Logger       *zap.Logger
}

// Mount регистрирует маршруты API. Защищенные маршруты проходят через Authenticate.
func (routes Routes) Mount(router chi.Router) {
	router.Use(middleware.RequestID, middleware.RealIP, Logging(routes.Logger), Recover(routes.Logger))

	router.Get("/", routes.System.Welcome)
	router.Get("/healthz", routes.System.Health)

	router.Route(routes.BasePath, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/users/register", routes.Auth.Register)
			r.Post("/users/login", routes.Auth.Login)
			r.Post("/users/refresh-token", routes.Auth.RefreshToken)
		})
		r.Group(func(r chi.Router) {
			r.Use(routes.Authenticate)
			r.Post("/users/logout", routes.Auth.Logout)
			r.Post("/users/change-password", routes.Auth.ChangePassword)
			r.Get("/users/current-user", routes.Auth.GetCurrentUser)

			r.Get("/tasks", routes.Tasks.ListTasks)
			r.Post("/task", routes.Tasks.CreateTask)
			r.Get("/task/{taskId}", routes.Tasks.GetTask)
			r.Patch("/task/{taskId}", routes.Tasks.UpdateTask)
			r.Put("/task/{taskId}", routes.Tasks.ReplaceTask)
			r.Delete("/task/{taskId}", routes.Tasks.DeleteTask)
		})
	})
}
