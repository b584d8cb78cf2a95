package service

import (
	"vently-backend/internal/common"
	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

const notifyMaxRetries = 3

// NotificationService 消费互动事件并落库为通知
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
}

func NewNotificationService(notificationRepo interfaces.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify 尽力而为地投递通知:不给自己发通知,落库失败重试后只记日志,
// 绝不让通知失败影响触发它的互动操作
func (s *NotificationService) Notify(event *model.NotificationEvent) {
	if event.RecipientID == event.SenderID {
		return
	}

	notification := &model.Notification{
		RecipientID: event.RecipientID,
		SenderID:    event.SenderID,
		Kind:        event.Kind,
		PostID:      event.PostID,
		CommentID:   event.CommentID,
	}

	err := common.WithRetry(func() error {
		return s.notificationRepo.Create(notification)
	}, notifyMaxRetries)
	if err != nil {
		util.Logger.Warn("通知投递失败",
			zap.Error(err),
			zap.String("kind", event.Kind),
			zap.Int("recipient_id", event.RecipientID),
			zap.Int("sender_id", event.SenderID))
	}
}

// List 返回用户的通知列表、总数和未读数
func (s *NotificationService) List(recipientID, page, pageSize int) ([]*model.Notification, int, int, error) {
	notifications, total, err := s.notificationRepo.ListByRecipient(recipientID, page, pageSize)
	if err != nil {
		return nil, 0, 0, errors.Wrap(errors.ErrDatabase, "查询通知失败", err)
	}
	unread, err := s.notificationRepo.CountUnread(recipientID)
	if err != nil {
		return nil, 0, 0, errors.Wrap(errors.ErrDatabase, "查询未读数失败", err)
	}
	return notifications, total, unread, nil
}

// MarkRead 标记单条通知已读,只有接收者本人可以操作
func (s *NotificationService) MarkRead(id, recipientID int) error {
	ok, err := s.notificationRepo.MarkRead(id, recipientID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "标记已读失败", err)
	}
	if !ok {
		return errors.New(errors.ErrNotificationNotFound, "通知不存在")
	}
	return nil
}

// MarkAllRead 标记用户全部通知为已读
func (s *NotificationService) MarkAllRead(recipientID int) error {
	if err := s.notificationRepo.MarkAllRead(recipientID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "标记全部已读失败", err)
	}
	return nil
}
