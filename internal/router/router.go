package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/emagraphy/backend/api/handler"
	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/internal/middleware"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	User    *apiHandler.UserHandler
	Class   *apiHandler.ClassHandler
	Booking *apiHandler.BookingHandler
	Payment *apiHandler.PaymentHandler
	Health  *apiHandler.HealthHandler
}

// New builds the route table. Role-gated routes go through the full guard
// chain; authenticated routes verify the token only; /session, the public
// listing and /health are open.
func New(handlers Handlers, guard *middleware.Guard) *router.Router {
	r := router.New()

	requireAdmin := guard.RequireRole(domain.RoleAdmin)
	requireInstructor := guard.RequireRole(domain.RoleInstructor)

	r.GET("/health", handlers.Health.Check)

	// Session issuance; upstream authentication is assumed.
	r.POST("/session", handlers.Auth.IssueSession)

	// Identities. Registration is open, everything else is admin surface;
	// promotion especially must never be reachable without the admin role.
	r.POST("/users", handlers.User.Register)
	r.GET("/users", requireAdmin(handlers.User.List))
	r.PATCH("/users/admin/{id}", requireAdmin(handlers.User.PromoteToAdmin))
	r.PATCH("/users/instructor/{id}", requireAdmin(handlers.User.PromoteToInstructor))

	// Classes.
	r.GET("/classes", handlers.Class.List)
	r.POST("/classes", requireInstructor(handlers.Class.Create))
	r.GET("/classes/mine", requireInstructor(handlers.Class.ListMine))
	r.PATCH("/classes/{id}/status", requireAdmin(handlers.Class.SetStatus))

	// Bookings and payments require a verified identity, any role.
	r.POST("/bookings", guard.Authenticate(handlers.Booking.Create))
	r.GET("/bookings", guard.Authenticate(handlers.Booking.List))
	r.DELETE("/bookings/{id}", guard.Authenticate(handlers.Booking.Cancel))

	r.POST("/payments", guard.Authenticate(handlers.Payment.Charge))
	r.GET("/payments", guard.Authenticate(handlers.Payment.List))

	return r
}
