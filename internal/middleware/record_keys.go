package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdash/internal/authz"
)

const (
	headerProjectID = "X-Project-Id"
	headerPublicKey = "X-Public-Key"
)

// RecordAPI guards the raw record protocol. Callers pass either the
// configured project id / public key pair or an admin bearer token.
func RecordAPI(j *JWT, projectID, publicKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if projectID != "" && publicKey != "" {
			pid := c.GetHeader(headerProjectID)
			key := c.GetHeader(headerPublicKey)
			if pid != "" || key != "" {
				if subtle.ConstantTimeCompare([]byte(pid), []byte(projectID)) != 1 ||
					subtle.ConstantTimeCompare([]byte(key), []byte(publicKey)) != 1 {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid project credentials"})
					return
				}
				c.Set(CtxRoleID, authz.RoleAdmin)
				c.Next()
				return
			}
		}

		tokenStr := bearer(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := j.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if !authz.IsElevated(claims.RoleID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRoleID, claims.RoleID)
		c.Next()
	}
}
