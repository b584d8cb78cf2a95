package post

import (
	"strconv"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedHandler 处理各类信息流请求
type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	return page, pageSize
}

func feedResponse(c *gin.Context, posts []*model.Post, total, page, pageSize int) {
	errors.HandleSuccess(c, gin.H{
		"posts": posts,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	}, "")
}

// HomeFeed 当前用户的首页信息流
func (h *FeedHandler) HomeFeed(c *gin.Context) {
	page, pageSize := parsePagination(c)
	posts, total, err := h.feedService.HomeFeed(c.GetInt("user_id"), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	feedResponse(c, posts, total, page, pageSize)
}

// DiscoverFeed 全站公开帖子
func (h *FeedHandler) DiscoverFeed(c *gin.Context) {
	page, pageSize := parsePagination(c)
	posts, total, err := h.feedService.DiscoverFeed(c.GetInt("user_id"), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	feedResponse(c, posts, total, page, pageSize)
}

// UserFeed 指定用户的帖子
func (h *FeedHandler) UserFeed(c *gin.Context) {
	page, pageSize := parsePagination(c)
	posts, total, err := h.feedService.UserFeed(c.Param("username"), c.GetInt("user_id"), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	feedResponse(c, posts, total, page, pageSize)
}

// FeedByTag 按标签筛选公开帖子
func (h *FeedHandler) FeedByTag(c *gin.Context) {
	page, pageSize := parsePagination(c)
	posts, total, err := h.feedService.FeedByTag(c.Param("tag"), c.GetInt("user_id"), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	feedResponse(c, posts, total, page, pageSize)
}

// TrendingTags 热门标签,最多20个
func (h *FeedHandler) TrendingTags(c *gin.Context) {
	tags, err := h.feedService.TrendingTags()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, tags, "")
}
