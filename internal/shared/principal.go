package shared

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Roles a user can hold. The set is closed; anything else is rejected at
// the boundary.
const (
	RoleLibrarian = "librarian"
	RoleMember    = "member"
)

// Principal is the authenticated caller. The auth middleware builds it from
// the verified token and handlers pass it into services explicitly, so no
// service ever reaches into ambient request state.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (p Principal) IsLibrarian() bool {
	return p.Role == RoleLibrarian
}

const principalKey = "principal"

// SetPrincipal stores the principal on the gin context for downstream
// handlers. Only the auth middleware calls this.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal retrieves the principal set by the auth middleware.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
