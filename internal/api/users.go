package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// loginRequest is the body of POST /login
type loginRequest struct {
	Password string `json:"password"`
}

// registerUser handles POST /users. The generated password is returned in
// this response and nowhere else.
func (r *Router) registerUser(c *gin.Context) {
	userID, password, err := r.credentials.CreateUser(c.Request.Context())
	if err != nil {
		Fail(c, Storage(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       userID,
		"password": password,
	})
}

// login handles POST /login: authenticates the password, issues or
// refreshes the session token, and sets the credential cookie
func (r *Router) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, Validation("password is required"))
		return
	}
	if req.Password == "" {
		Fail(c, Validation("password is required"))
		return
	}

	ctx := c.Request.Context()
	user, err := r.credentials.Authenticate(ctx, req.Password)
	if err != nil {
		Fail(c, Storage(err))
		return
	}
	if user == nil {
		Fail(c, AuthRequired("invalid password"))
		return
	}

	token, err := r.credentials.Login(ctx, user.ID)
	if err != nil {
		Fail(c, Storage(err))
		return
	}

	maxAge := int(r.cfg.Auth.TokenTTL.Seconds())
	c.SetCookie(CredentialCookie, user.PasswordHash, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"user_id":    user.ID,
		"expires_at": token.ExpiresAt,
	})
}

// deleteUser handles DELETE /users/me
func (r *Router) deleteUser(c *gin.Context) {
	userID := currentUserID(c)

	deleted, err := r.credentials.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		Fail(c, Storage(err))
		return
	}
	if !deleted {
		Fail(c, NotFound("user not found"))
		return
	}

	c.SetCookie(CredentialCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
