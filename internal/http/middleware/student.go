package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rao305/boilerai-transcript/internal/http/response"
)

const studentIDKey = "student_id"

// RequireStudent reads the upstream-authenticated student identity from the
// X-Student-ID header. Authentication itself happens outside this service.
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Student-ID")
		if id == "" {
			response.RespondError(c, http.StatusUnauthorized, "missing_student_id", nil)
			c.Abort()
			return
		}
		c.Set(studentIDKey, id)
		c.Next()
	}
}

// StudentID returns the student identity attached by RequireStudent.
func StudentID(c *gin.Context) string {
	return c.GetString(studentIDKey)
}
