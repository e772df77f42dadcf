package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/letterbox/letterbox/internal/db"
	"github.com/letterbox/letterbox/internal/models"
)

// listNotifications handles GET /notifications for the authenticated user
func (r *Router) listNotifications(c *gin.Context) {
	params, verr := parsePageParams(c, &r.cfg.Pagination)
	if verr != nil {
		Fail(c, verr)
		return
	}

	userID := currentUserID(c)
	page, err := db.GetPage[models.Notification](c.Request.Context(), r.paginator,
		db.NotificationsScope(userID), params.Page, params.Limit, params.Sort)
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

// countNotifications handles GET /notifications/count
func (r *Router) countNotifications(c *gin.Context) {
	count, err := db.NewNotificationRepository(r.repo).
		CountByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		Fail(c, Storage(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// dismissNotification handles DELETE /notifications/:id. Dismissal is the
// acknowledge action; a repeat call reports not-found, not an error.
func (r *Router) dismissNotification(c *gin.Context) {
	notifID, verr := parseID(c, "id")
	if verr != nil {
		Fail(c, verr)
		return
	}

	deleted, err := r.aggregator.Dismiss(c.Request.Context(), notifID, currentUserID(c))
	if err != nil {
		Fail(c, Storage(err))
		return
	}
	if !deleted {
		Fail(c, NotFound("notification not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
