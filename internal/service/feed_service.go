package service

import (
	"strings"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
)

const trendingTagLimit = 20

// FeedService 组装各类信息流
type FeedService struct {
	postRepo       interfaces.PostRepository
	engagementRepo interfaces.EngagementRepository
	userRepo       interfaces.UserRepository
}

func NewFeedService(postRepo interfaces.PostRepository, engagementRepo interfaces.EngagementRepository, userRepo interfaces.UserRepository) *FeedService {
	return &FeedService{
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
		userRepo:       userRepo,
	}
}

// HomeFeed 返回用户自己和其关注对象的帖子,按发布时间倒序
func (s *FeedService) HomeFeed(userID, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.postRepo.GetHomeFeed(userID, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询首页信息流失败", err)
	}
	if err := s.attachIsLiked(posts, userID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// DiscoverFeed 返回全站公开帖子,按时间倒序、同时间按播放数倒序
func (s *FeedService) DiscoverFeed(viewerID, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.postRepo.GetDiscoverFeed(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询发现页失败", err)
	}
	if err := s.attachIsLiked(posts, viewerID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UserFeed 按用户名查询其帖子,本人可见私密帖子
func (s *FeedService) UserFeed(username string, viewerID, page, pageSize int) ([]*model.Post, int, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(username))
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, 0, errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	includePrivate := viewerID == user.ID
	posts, total, err := s.postRepo.GetUserPosts(user.ID, includePrivate, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询用户帖子失败", err)
	}
	if err := s.attachIsLiked(posts, viewerID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FeedByTag 按标签查询公开帖子,标签按同样的规则规整后匹配
func (s *FeedService) FeedByTag(tag string, viewerID, page, pageSize int) ([]*model.Post, int, error) {
	normalized := NormalizeTags([]string{tag})
	if len(normalized) == 0 {
		return nil, 0, errors.New(errors.ErrValidation, "标签不能为空")
	}

	posts, total, err := s.postRepo.GetPostsByTag(normalized[0], page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "按标签查询失败", err)
	}
	if err := s.attachIsLiked(posts, viewerID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// TrendingTags 返回最多20个热门标签,按出现次数倒序,次数相同按字典序
func (s *FeedService) TrendingTags() ([]*model.TagCount, error) {
	tags, err := s.postRepo.GetTrendingTags(trendingTagLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询热门标签失败", err)
	}
	return tags, nil
}

func (s *FeedService) attachIsLiked(posts []*model.Post, viewerID int) error {
	if viewerID <= 0 {
		return nil
	}
	for _, post := range posts {
		liked, err := s.engagementRepo.IsPostLikedByUser(post.ID, viewerID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "查询点赞状态失败", err)
		}
		post.IsLiked = liked
	}
	return nil
}
