package handlers

import (
	"net/http"

	"spendsense/api/middleware"
	"spendsense/api/session"

	"github.com/gin-gonic/gin"
)

var routeClasses = map[string]session.RouteClass{
	"public":    session.RoutePublic,
	"auth":      session.RouteAuth,
	"protected": session.RouteProtected,
}

// HandleGetSession reports the caller's session state and, for a requested
// route class, the gate's decision. The client router uses this instead of
// re-deriving redirect rules.
func HandleGetSession(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	state := session.Derive(claims, nil)

	resp := gin.H{"state": state.String()}

	if routeParam := c.Query("route"); routeParam != "" {
		class, ok := routeClasses[routeParam]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown route class"})
			return
		}
		resp["decision"] = session.Decide(state, class)
	}

	c.JSON(http.StatusOK, resp)
}
