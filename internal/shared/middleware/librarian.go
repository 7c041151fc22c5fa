package middleware

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// LibrarianOnly gates catalog and loan mutations. Must run after
// AuthMiddleware.
func LibrarianOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := shared.GetPrincipal(c)
		if !ok {
			response.Forbidden(c, "access denied: librarian role required")
			c.Abort()
			return
		}

		if !principal.IsLibrarian() {
			response.Forbidden(c, "access denied: librarian role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
