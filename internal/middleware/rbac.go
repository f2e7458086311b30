package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sistema-pagamento-api/pkg/errors"
	"github.com/noah-isme/sistema-pagamento-api/pkg/response"
)

// Roles recognised in access tokens.
const (
	RoleAdmin     = "ADMIN"
	RoleValidator = "VALIDATOR"
)

// RequireRoles allows the request only when the JWT role is one of roles. It must run after JWT.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[strings.ToUpper(claims.Role)]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role not allowed to perform this action"))
			c.Abort()
			return
		}
		c.Next()
	}
}
