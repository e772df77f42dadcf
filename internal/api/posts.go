package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/letterbox/letterbox/internal/db"
	"github.com/letterbox/letterbox/internal/models"
)

// postRequest is the body of POST /posts
type postRequest struct {
	Content string `json:"content"`
}

// createPost handles POST /posts
func (r *Router) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, Validation("content is required"))
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		Fail(c, Validation("content must not be empty"))
		return
	}

	post := &models.Post{
		UserID:    currentUserID(c),
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	repo := db.NewPostRepository(r.repo)
	if err := repo.Create(c.Request.Context(), post); err != nil {
		Fail(c, Storage(err))
		return
	}

	c.JSON(http.StatusCreated, post)
}

// getPost handles GET /posts/:id
func (r *Router) getPost(c *gin.Context) {
	postID, verr := parseID(c, "id")
	if verr != nil {
		Fail(c, verr)
		return
	}

	repo := db.NewPostRepository(r.repo)
	post, err := repo.GetByID(c.Request.Context(), postID)
	if err != nil {
		Fail(c, Storage(err))
		return
	}
	if post == nil {
		Fail(c, NotFound("post not found"))
		return
	}

	c.JSON(http.StatusOK, post)
}

// listPosts handles GET /posts with page, limit, sort, and an optional
// user filter
func (r *Router) listPosts(c *gin.Context) {
	params, verr := parsePageParams(c, &r.cfg.Pagination)
	if verr != nil {
		Fail(c, verr)
		return
	}

	scope := db.PostsScope()
	if raw := c.Query("user"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID < 1 {
			Fail(c, Validation("user must be a positive integer"))
			return
		}
		scope = db.PostsByUserScope(userID)
	}

	page, err := db.GetPage[models.Post](c.Request.Context(), r.paginator, scope, params.Page, params.Limit, params.Sort)
	if err != nil {
		Fail(c, Storage(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       page.Items,
		"total_count": page.TotalCount,
		"page":        params.Page,
		"last_page":   db.LastPage(page.TotalCount, params.Limit),
	})
}

// searchPosts handles GET /posts/search?q=. Results are capped at one
// page; search has no pagination.
func (r *Router) searchPosts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		Fail(c, Validation("q is required"))
		return
	}

	scope := db.PostsScope()
	if raw := c.Query("user"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID < 1 {
			Fail(c, Validation("user must be a positive integer"))
			return
		}
		scope = db.PostsByUserScope(userID)
	}

	items, err := db.Match[models.Post](c.Request.Context(), r.paginator, scope, term, r.cfg.Pagination.PageSize)
	if err != nil {
		Fail(c, Storage(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// deletePost handles DELETE /posts/:id. Absent and not-owned posts get the
// same response on purpose.
func (r *Router) deletePost(c *gin.Context) {
	postID, verr := parseID(c, "id")
	if verr != nil {
		Fail(c, verr)
		return
	}

	repo := db.NewPostRepository(r.repo)
	deleted, err := repo.Delete(c.Request.Context(), postID, currentUserID(c))
	if err != nil {
		Fail(c, Storage(err))
		return
	}
	if !deleted {
		Fail(c, NotFound("post not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
