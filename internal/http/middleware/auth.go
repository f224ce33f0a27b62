package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/domain"
)

const sessionKey = "session"

// SessionParser turns a bearer token into a session.
type SessionParser interface {
	Parse(token string) (domain.Session, error)
}

// Session puts the caller's session in the context. Requests without a token
// continue as anonymous; a bad token is rejected.
func Session(parser SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Set(sessionKey, domain.Session{Role: domain.RoleCustomer})
			c.Next()
			return
		}
		sess, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      err.Error(),
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// GetSession returns the session set by Session, anonymous when absent.
func GetSession(c *gin.Context) domain.Session {
	if c != nil {
		if v, ok := c.Get(sessionKey); ok {
			if s, ok := v.(domain.Session); ok {
				return s
			}
		}
	}
	return domain.Session{Role: domain.RoleCustomer}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
