package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/httputil"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/security"
)

// securityContextKey is the gin context key the security pipeline's
// result is stashed under for downstream handlers.
const securityContextKey = "security_context"

// SecurityMiddleware adapts security.Pipeline.Evaluate into a gin
// handler: it builds a security.Request from the incoming *gin.Context,
// runs the seven fixed-order stages, and aborts the request on the
// first rejection.
//
// A non-empty Authorization header is treated as "authenticated" solely
// for picking which rate limit bucket applies; it does not gate access
// to any route.
func SecurityMiddleware(pipeline *security.Pipeline, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := security.Request{
			IP:             c.ClientIP(),
			Path:           c.Request.URL.Path,
			RawQuery:       c.Request.URL.RawQuery,
			ContentLength:  c.Request.ContentLength,
			Authenticated:  c.GetHeader("Authorization") != "",
			SessionID:      c.GetHeader("X-Session-Id"),
			ForwardedProto: c.GetHeader("X-Forwarded-Proto"),
			TLSVersion:     c.GetHeader("X-TLS-Version"),
		}

		secCtx, err := pipeline.Evaluate(req)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Set(securityContextKey, secCtx)
		c.Next()
	}
}

// SecurityContext retrieves the *security.Context attached by
// SecurityMiddleware, if any.
func SecurityContext(c *gin.Context) (*security.Context, bool) {
	v, ok := c.Get(securityContextKey)
	if !ok {
		return nil, false
	}
	secCtx, ok := v.(*security.Context)
	return secCtx, ok
}
