package engagement

import (
	"strconv"

	"vently-backend/internal/errors"
	"vently-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// EngagementHandler 处理点赞、评论、分享请求
type EngagementHandler struct {
	engagementService *service.EngagementService
}

func NewEngagementHandler(engagementService *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	return page, pageSize
}

// ToggleLike 点赞或取消点赞,返回操作后的状态和点赞数
func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	isLiked, likeCount, err := h.engagementService.ToggleLike(c.GetInt("user_id"), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"is_liked":   isLiked,
		"like_count": likeCount,
	}, "")
}

type commentRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

// AddComment 发表评论
func (h *EngagementHandler) AddComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论内容", err))
		return
	}

	comment, err := h.engagementService.AddComment(c.GetInt("user_id"), postID, req.Text)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comment, "评论成功")
}

// GetComments 分页查询帖子评论
func (h *EngagementHandler) GetComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	page, pageSize := parsePagination(c)

	comments, total, err := h.engagementService.GetComments(postID, c.GetInt("user_id"), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"comments": comments,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	}, "")
}

// DeleteComment 删除评论,评论作者或帖子作者可操作
func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的评论ID"))
		return
	}

	if err := h.engagementService.DeleteComment(commentID, c.GetInt("user_id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "评论删除成功")
}

// ToggleCommentLike 评论点赞或取消点赞
func (h *EngagementHandler) ToggleCommentLike(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的评论ID"))
		return
	}

	isLiked, err := h.engagementService.ToggleCommentLike(c.GetInt("user_id"), commentID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"is_liked": isLiked}, "")
}

// Share 分享帖子
func (h *EngagementHandler) Share(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	if err := h.engagementService.Share(c.GetInt("user_id"), postID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "分享成功")
}
