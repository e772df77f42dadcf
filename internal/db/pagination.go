package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/letterbox/letterbox/internal/cache"
	"github.com/letterbox/letterbox/internal/models"
)

// DefaultPageSize is the fixed page size used when the caller supplies none
const DefaultPageSize = 20

// countCacheTTL is short enough that write invalidation is unnecessary
const countCacheTTL = 5 * time.Second

// Sort selects the ordering of a page
type Sort string

// Sort modes. Asc and Desc order by creation time with an id tie-break;
// Rand shuffles and makes no stability promise across calls.
const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
	SortRand Sort = "rand"
)

// ParseSort validates a sort query parameter
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case SortAsc, SortDesc, SortRand:
		return Sort(s), nil
	case "":
		return SortDesc, nil
	}
	return "", fmt.Errorf("invalid sort: %q", s)
}

// Scope narrows a paginated query to one slice of the data set
type Scope struct {
	name  string
	model interface{}
	query string
	args  []interface{}
}

// PostsScope selects all posts
func PostsScope() Scope {
	return Scope{name: "posts", model: &models.Post{}}
}

// PostsByUserScope selects one user's posts
func PostsByUserScope(userID int64) Scope {
	return Scope{name: "posts", model: &models.Post{}, query: "user_id = ?", args: []interface{}{userID}}
}

// RepliesScope selects the replies under a post
func RepliesScope(postID int64) Scope {
	return Scope{name: "replies", model: &models.Reply{}, query: "post_id = ?", args: []interface{}{postID}}
}

// NotificationsScope selects a user's open notifications
func NotificationsScope(userID int64) Scope {
	return Scope{name: "notifications", model: &models.Notification{}, query: "user_id = ?", args: []interface{}{userID}}
}

func (s Scope) cacheKey() string {
	if len(s.args) == 0 {
		return "count:" + s.name
	}
	return fmt.Sprintf("count:%s:%v", s.name, s.args)
}

// Page is one page of items plus the true total across all pages
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
}

// Paginator runs offset-based page queries with an optional count cache
type Paginator struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewPaginator creates a new paginator. The cache may be nil.
func NewPaginator(db *gorm.DB, countCache *cache.Cache) *Paginator {
	return &Paginator{db: db, cache: countCache}
}

func (p *Paginator) scoped(ctx context.Context, scope Scope) *gorm.DB {
	q := p.db.WithContext(ctx).Model(scope.model)
	if scope.query != "" {
		q = q.Where(scope.query, scope.args...)
	}
	return q
}

// Count returns the total number of rows in the scope, consulting the
// short-TTL cache first. The store stays the source of truth: cache errors
// fall through to a real count.
func (p *Paginator) Count(ctx context.Context, scope Scope) (int64, error) {
	key := scope.cacheKey()
	if n, ok := p.cache.GetInt64(ctx, key); ok {
		return n, nil
	}
	var count int64
	if err := p.scoped(ctx, scope).Count(&count).Error; err != nil {
		return 0, err
	}
	p.cache.SetInt64(ctx, key, count, countCacheTTL)
	return count, nil
}

// LastPage computes the highest valid page number, with a floor of 1 for
// an empty scope
func LastPage(totalCount int64, pageSize int) int {
	if totalCount <= 0 {
		return 1
	}
	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}

// GetPage returns the 1-based page of a scope. Pages before 1 or past the
// end yield an empty item set with the true total, never an error. Rand
// ordering is not stable between calls; repeating a rand page may return
// different rows.
func GetPage[T any](ctx context.Context, p *Paginator, scope Scope, page, pageSize int, sort Sort) (*Page[T], error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total, err := p.Count(ctx, scope)
	if err != nil {
		return nil, err
	}

	result := &Page[T]{Items: []T{}, TotalCount: total}
	if page < 1 {
		return result, nil
	}
	offset := (page - 1) * pageSize
	if int64(offset) >= total {
		return result, nil
	}

	q := p.scoped(ctx, scope)
	switch sort {
	case SortAsc:
		q = q.Order("created_at ASC, id ASC")
	case SortRand:
		q = q.Order("RANDOM()")
	default:
		q = q.Order("created_at DESC, id DESC")
	}

	if err := q.Offset(offset).Limit(pageSize).Find(&result.Items).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Match returns rows of a scope whose content contains term, case
// insensitively, capped at one page. There is no pagination: search is
// first-page-only by design.
func Match[T any](ctx context.Context, p *Paginator, scope Scope, term string, pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	items := []T{}
	err := p.scoped(ctx, scope).
		Where("LOWER(content) LIKE ?", "%"+strings.ToLower(term)+"%").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
