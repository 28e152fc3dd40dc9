package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers the RPC procedures and the health endpoint.
// Procedures are addressed by name, tRPC style: queries over GET,
// mutations over POST.
func SetupRoutes(app *fiber.App, handlers *Handlers) {
	app.Get("/health", handlers.Health)

	rpc := app.Group("/rpc")
	rpc.Get("/post.getAll", handlers.GetAll)
	rpc.Get("/post.getLatest", handlers.GetLatest)
	rpc.Post("/post.create", RequireCaller(), handlers.Create)
}
