package echomw

import (
	"github.com/labstack/echo/v4"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
	"github.com/reoring/recskema/middleware"
)

// ValidateJSON validates the request body with schema s, stores the instance
// in the request context on success, or responds with the Report on failure.
func ValidateJSON(s *g.Schema, opt recskema.ParseOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inst, err := middleware.Decode(c.Request().Context(), s, c.Request(), opt)
			if err != nil {
				code, rep := middleware.ErrorPayload(err)
				return c.JSON(code, rep)
			}
			ctx := middleware.ContextWithInstance(c.Request().Context(), inst)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetInstance fetches the validated instance from echo.Context.
func GetInstance(c echo.Context) (*g.Instance, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
