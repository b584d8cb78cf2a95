package mysql

import (
	"database/sql"

	"vently-backend/internal/model"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	query := `INSERT INTO notifications (recipient_id, sender_id, kind, post_id, comment_id, is_read, created_at)
              VALUES (?, ?, ?, ?, ?, FALSE, NOW())`
	result, err := r.db.Exec(query, notification.RecipientID, notification.SenderID,
		notification.Kind, notification.PostID, notification.CommentID)
	if err != nil {
		util.Logger.Error("创建通知失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	notification.ID = int(id)
	return nil
}

func (r *notificationRepository) ListByRecipient(recipientID, page, pageSize int) ([]*model.Notification, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE recipient_id = ?`, recipientID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT n.id, n.recipient_id, n.sender_id, n.kind, n.post_id, n.comment_id, n.is_read, n.created_at,
               u.username, u.display_name, u.avatar_url,
               p.caption, p.audio_url
        FROM notifications n
        JOIN users u ON n.sender_id = u.id
        LEFT JOIN posts p ON n.post_id = p.id
        WHERE n.recipient_id = ?
        ORDER BY n.created_at DESC, n.id DESC
        LIMIT ? OFFSET ?`, recipientID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		var sender model.User
		var postCaption, postAudioURL sql.NullString
		err := rows.Scan(
			&n.ID, &n.RecipientID, &n.SenderID, &n.Kind, &n.PostID, &n.CommentID,
			&n.IsRead, &n.CreatedAt,
			&sender.Username, &sender.DisplayName, &sender.AvatarURL,
			&postCaption, &postAudioURL,
		)
		if err != nil {
			return nil, 0, err
		}
		sender.ID = n.SenderID
		n.Sender = &sender
		// 帖子已被删除时只保留 post_id,不附带摘要
		if n.PostID != nil && postAudioURL.Valid {
			n.Post = &model.Post{ID: *n.PostID, Caption: postCaption.String, AudioURL: postAudioURL.String}
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(recipientID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = FALSE`,
		recipientID).Scan(&count)
	return count, err
}

// MarkRead 只允许接收者本人标记已读,返回是否命中记录。
// 驱动默认统计的是发生变更的行数,重复标记已读会得到0,
// 因此命中为0时再确认记录归属,重复标记视为成功
func (r *notificationRepository) MarkRead(id, recipientID int) (bool, error) {
	result, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = ? AND recipient_id = ?`,
		id, recipientID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}

	var count int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE id = ? AND recipient_id = ?`,
		id, recipientID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *notificationRepository) MarkAllRead(recipientID int) error {
	_, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE recipient_id = ? AND is_read = FALSE`,
		recipientID)
	return err
}
