package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/letterbox/letterbox/internal/db"
	"github.com/letterbox/letterbox/internal/models"
)

// replyRequest is the body of POST /posts/:id/replies
type replyRequest struct {
	Content string `json:"content"`
}

// createReply handles POST /posts/:id/replies. Whether the route sits
// behind the auth gate is a configuration decision
// (LETTERBOX_REQUIRE_REPLY_AUTH); by default anyone may reply to any post.
func (r *Router) createReply(c *gin.Context) {
	postID, verr := parseID(c, "id")
	if verr != nil {
		Fail(c, verr)
		return
	}

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, Validation("content is required"))
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		Fail(c, Validation("content must not be empty"))
		return
	}

	ctx := c.Request.Context()
	post, err := db.NewPostRepository(r.repo).GetByID(ctx, postID)
	if err != nil {
		Fail(c, Storage(err))
		return
	}
	if post == nil {
		Fail(c, NotFound("post not found"))
		return
	}

	reply, err := r.aggregator.RecordReply(ctx, post, req.Content)
	if err != nil {
		Fail(c, Storage(err))
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// listReplies handles GET /posts/:id/replies with pagination
func (r *Router) listReplies(c *gin.Context) {
	postID, verr := parseID(c, "id")
	if verr != nil {
		Fail(c, verr)
		return
	}

	params, verr := parsePageParams(c, &r.cfg.Pagination)
	if verr != nil {
		Fail(c, verr)
		return
	}

	ctx := c.Request.Context()
	post, err := db.NewPostRepository(r.repo).GetByID(ctx, postID)
	if err != nil {
		Fail(c, Storage(err))
		return
	}
	if post == nil {
		Fail(c, NotFound("post not found"))
		return
	}

	page, err := db.GetPage[models.Reply](ctx, r.paginator, db.RepliesScope(postID), params.Page, params.Limit, params.Sort)
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
