package social

import (
	"vently-backend/internal/errors"
	"vently-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SocialHandler 处理关注关系相关请求。路由以用户名定位目标用户
type SocialHandler struct {
	graphService *service.GraphService
	userService  *service.UserService
}

func NewSocialHandler(graphService *service.GraphService, userService *service.UserService) *SocialHandler {
	return &SocialHandler{
		graphService: graphService,
		userService:  userService,
	}
}

func parsePagination(c *gin.Context) (int, int) {
	page, pageSize := parsePagination(c)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	return page, pageSize
}

func (h *SocialHandler) resolveTarget(c *gin.Context) (int, bool) {
	targetID, err := h.userService.ResolveUsername(c.Param("username"))
	if err != nil {
		errors.HandleError(c, err)
		return 0, false
	}
	return targetID, true
}

// Follow 关注指定用户
func (h *SocialHandler) Follow(c *gin.Context) {
	targetID, ok := h.resolveTarget(c)
	if !ok {
		return
	}

	if err := h.graphService.Follow(c.GetInt("user_id"), targetID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "关注成功")
}

// Unfollow 取消关注
func (h *SocialHandler) Unfollow(c *gin.Context) {
	targetID, ok := h.resolveTarget(c)
	if !ok {
		return
	}

	if err := h.graphService.Unfollow(c.GetInt("user_id"), targetID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "已取消关注")
}

// GetFollowers 分页查询粉丝列表
func (h *SocialHandler) GetFollowers(c *gin.Context) {
	targetID, ok := h.resolveTarget(c)
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)

	users, total, err := h.graphService.GetFollowers(targetID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"users": users,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	}, "")
}

// GetFollowing 分页查询关注列表
func (h *SocialHandler) GetFollowing(c *gin.Context) {
	targetID, ok := h.resolveTarget(c)
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)

	users, total, err := h.graphService.GetFollowing(targetID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"users": users,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	}, "")
}
