package interfaces

import "vently-backend/internal/model"

// PostRepository 定义了音频帖子相关的数据库操作接口
type PostRepository interface {
	CreatePost(post *model.Post, tags []string) error
	GetPostByID(id int) (*model.Post, error)
	DeletePost(id int) error
	IncrementPlayCount(id int) error
	GetHomeFeed(userID int, page, pageSize int) ([]*model.Post, int, error)
	GetDiscoverFeed(page, pageSize int) ([]*model.Post, int, error)
	GetUserPosts(userID int, includePrivate bool, page, pageSize int) ([]*model.Post, int, error)
	GetPostsByTag(tag string, page, pageSize int) ([]*model.Post, int, error)
	GetTrendingTags(limit int) ([]*model.TagCount, error)
}
