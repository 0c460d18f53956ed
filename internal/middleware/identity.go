package middleware

// identity.go defines helper functions shared across middleware files.
// Currently it provides a userID extraction function that reads the uid
// claim stashed by JWTAuth. When no token is present, "guest" is
// returned so unauthenticated traffic shares one cache and rate-limit
// bucket.

import (
    "github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the request context. It returns
// "guest" when no user is authenticated or the claim is missing.
func userID(c echo.Context) string {
    if v, ok := c.Get("uid").(string); ok && v != "" {
        return v
    }
    return "guest"
}
