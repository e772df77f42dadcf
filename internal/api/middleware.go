package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/letterbox/letterbox/internal/auth"
	"github.com/letterbox/letterbox/pkg/telemetry"
)

// CredentialCookie is the cookie carrying the opaque credential token
const CredentialCookie = "credential"

// userIDKey is the gin context key holding the resolved user id
const userIDKey = "user_id"

// Trace starts a span per request, the way the JSON-RPC dispatch used to
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "http "+c.Request.Method+" "+c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// BodyLimit rejects request bodies over maxBytes before anything is
// persisted
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			Fail(c, PayloadTooLarge())
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// Authenticate resolves the credential cookie through the gate and stores
// the user id on the context. Auth failures map to 401; a storage fault
// maps to 500, never to "please log in".
func Authenticate(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, _ := c.Cookie(CredentialCookie)

		userID, authErr := gate.Resolve(c.Request.Context(), credential)
		if authErr != nil {
			switch authErr.Reason {
			case auth.StorageError:
				Fail(c, Storage(authErr))
			case auth.MissingCredential:
				Fail(c, AuthRequired("credential required"))
			default:
				Fail(c, AuthRequired("invalid or expired credential"))
			}
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the user id set by Authenticate
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
