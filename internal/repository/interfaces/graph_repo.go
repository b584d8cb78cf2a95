package interfaces

import "vently-backend/internal/model"

// GraphRepository 定义了关注关系图的数据库操作接口
// 关注关系以单行边记录存储,插入/删除即保证双向视图一致
type GraphRepository interface {
	CreateFollow(follow *model.Follow) error
	DeleteFollow(followerID, followedID int) (bool, error)
	IsFollowing(followerID, followedID int) (bool, error)
	GetFollowers(userID, page, pageSize int) ([]*model.User, int, error)
	GetFollowing(userID, page, pageSize int) ([]*model.User, int, error)
	GetFollowerCount(userID int) (int, error)
	GetFollowingCount(userID int) (int, error)
}
