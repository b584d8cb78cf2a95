package engagement

import (
	"strconv"

	"vently-backend/internal/errors"
	"vently-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 处理通知相关请求
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List 分页查询当前用户的通知,附带未读数
func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	notifications, total, unread, err := h.notificationService.List(c.GetInt("user_id"), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	}, "")
}

// MarkRead 标记单条通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的通知ID"))
		return
	}

	if err := h.notificationService.MarkRead(id, c.GetInt("user_id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "已标记为已读")
}

// MarkAllRead 标记全部通知已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.GetInt("user_id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "全部已读")
}
