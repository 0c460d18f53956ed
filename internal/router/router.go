package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/mobiway/pmr-assist/internal/handler"    // import the handlers that implement business logic
	"github.com/mobiway/pmr-assist/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to issue a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Register a POST endpoint to log out using a refresh token.  The
	// handler accepts a JSON body containing a `refresh_token` and will
	// invalidate that token.  If the token is valid, a 204 response is
	// returned; otherwise 400/401/500 are possible depending on the error.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Accept both USER and AGENT roles on generic authenticated endpoints.
	// The middleware will reject requests with missing or unknown roles.
	auth.Use(middleware.RequireRole("USER", "AGENT"))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)

	// Additionally map POST /v1/logout to the same handler.  This route lives
	// at the top level (outside of the protected group) so it does not
	// require a JWT.  Clients can therefore call either /v1/auth/logout or
	// /v1/logout with a valid refresh token in the body to terminate a
	// session.
	e.POST("/v1/logout", a.Logout)
}

// RegisterItineraries registers the journey-search endpoints under
// /v1/itineraries.  Searching and quoting are passenger operations.
func RegisterItineraries(e *echo.Echo, i *handler.ItineraryHandler, jwtSecret string) {
	g := e.Group("/v1/itineraries")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER"))
	g.POST("/search", i.Search)
	g.POST("/quote", i.Quote)
}

// RegisterReservations registers the assistance-reservation endpoints under
// /api/Reservation.  All routes require a valid access token.  Creation and
// the "mine" listing are passenger (USER) operations; the pending queue and
// the lifecycle transitions belong to assistance agents (AGENT).  Listing
// everything is open to both roles so a passenger's app can render shared
// journey history screens.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/api/Reservation")
	g.Use(middleware.JWTAuth(jwtSecret))

	// Passenger operations.
	g.POST("", r.Create, middleware.RequireRole("USER"))
	g.GET("/mine", r.ListMine, middleware.RequireRole("USER"))

	// Shared listings.
	g.GET("", r.ListAll, middleware.RequireRole("USER", "AGENT"))

	// Agent work queue and lifecycle.
	g.GET("/pending", r.ListPending, middleware.RequireRole("AGENT"))
	g.GET("/accepted/:agentID", r.ListAcceptedBy, middleware.RequireRole("AGENT"))
	g.POST("/:id/accept", r.Accept, middleware.RequireRole("AGENT"))
	g.POST("/:id/release", r.Release, middleware.RequireRole("AGENT"))
	g.POST("/:id/complete", r.Complete, middleware.RequireRole("AGENT"))
	// Cancelling is allowed for both sides: the passenger withdraws the
	// request, or the agent cancels an accepted journey.
	g.POST("/:id/cancel", r.Cancel, middleware.RequireRole("USER", "AGENT"))
}
