package ginmw

import (
	"github.com/gin-gonic/gin"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
	"github.com/reoring/recskema/middleware"
)

// ValidateJSON validates the request body with schema s, stores the instance
// in the request context, and on failure aborts with the Report payload.
func ValidateJSON(s *g.Schema, opt recskema.ParseOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		inst, err := middleware.Decode(c.Request.Context(), s, c.Request, opt)
		if err != nil {
			code, rep := middleware.ErrorPayload(err)
			c.AbortWithStatusJSON(code, rep)
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInstance(c.Request.Context(), inst))
		c.Next()
	}
}

// GetInstance fetches the validated instance from gin.Context.
func GetInstance(c *gin.Context) (*g.Instance, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
