package model

import "time"

// 通知类型
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationShare   = "share"
)

// Notification 表示一条通知。只持有单向外键（post_id/comment_id），
// 被引用实体上不存反向指针
type Notification struct {
	ID          int       `json:"id"`
	RecipientID int       `json:"recipient_id"`
	SenderID    int       `json:"sender_id"`
	Kind        string    `json:"kind"`
	PostID      *int      `json:"post_id,omitempty"`
	CommentID   *int      `json:"comment_id,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	Sender      *User     `json:"sender,omitempty"`
	Post        *Post     `json:"post,omitempty"`
}

// NotificationEvent 是互动产生的通知事件，由业务服务显式发出，
// 由通知服务消费落库
type NotificationEvent struct {
	Kind        string
	RecipientID int
	SenderID    int
	PostID      *int
	CommentID   *int
}
