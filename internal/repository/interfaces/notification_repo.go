package interfaces

import "vently-backend/internal/model"

// NotificationRepository 定义了通知的数据库操作接口
type NotificationRepository interface {
	Create(notification *model.Notification) error
	ListByRecipient(recipientID, page, pageSize int) ([]*model.Notification, int, error)
	CountUnread(recipientID int) (int, error)
	MarkRead(id, recipientID int) (bool, error)
	MarkAllRead(recipientID int) error
}
