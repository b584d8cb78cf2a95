package interfaces

import "vently-backend/internal/model"

// EngagementRepository 定义了点赞、评论、分享等互动操作接口
// 所有计数更新均为原子增量,避免读-改-写竞争
type EngagementRepository interface {
	CreateLike(userID, postID int) error
	DeleteLike(userID, postID int) (bool, error)
	IsPostLikedByUser(postID, userID int) (bool, error)
	CreateComment(comment *model.Comment) error
	GetCommentByID(id int) (*model.Comment, error)
	DeleteComment(id int) error
	GetCommentsByPostID(postID, viewerID, page, pageSize int) ([]*model.Comment, int, error)
	CreateCommentLike(userID, commentID int) error
	DeleteCommentLike(userID, commentID int) (bool, error)
	IncrementShareCount(postID int) error
}
