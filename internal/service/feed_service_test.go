package service

import (
	"testing"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

// TestHomeFeed 首页信息流透传分页并补充点赞状态
func TestHomeFeed(t *testing.T) {
	postRepo := new(MockPostRepository)
	engagementRepo := new(MockEngagementRepository)
	service := NewFeedService(postRepo, engagementRepo, new(MockUserRepository))

	posts := []*model.Post{
		{ID: 1, AuthorID: 2},
		{ID: 2, AuthorID: 3},
	}
	postRepo.On("GetHomeFeed", 1, 2, 10).Return(posts, 25, nil)
	engagementRepo.On("IsPostLikedByUser", 1, 1).Return(true, nil)
	engagementRepo.On("IsPostLikedByUser", 2, 1).Return(false, nil)

	result, total, err := service.HomeFeed(1, 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, result, 2)
	assert.True(t, result[0].IsLiked)
	assert.False(t, result[1].IsLiked)
}

// TestDiscoverFeedAnonymous 匿名访问发现页不查询点赞状态
func TestDiscoverFeedAnonymous(t *testing.T) {
	postRepo := new(MockPostRepository)
	engagementRepo := new(MockEngagementRepository)
	service := NewFeedService(postRepo, engagementRepo, new(MockUserRepository))

	postRepo.On("GetDiscoverFeed", 1, 10).Return([]*model.Post{{ID: 1}}, 1, nil)

	result, total, err := service.DiscoverFeed(0, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, result, 1)
	engagementRepo.AssertNotCalled(t, "IsPostLikedByUser", 1, 0)
}

// TestUserFeed 本人可见私密帖子,他人只能看到公开帖子
func TestUserFeed(t *testing.T) {
	postRepo := new(MockPostRepository)
	engagementRepo := new(MockEngagementRepository)
	userRepo := new(MockUserRepository)
	service := NewFeedService(postRepo, engagementRepo, userRepo)

	userRepo.On("FindByUsername", "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)
	postRepo.On("GetUserPosts", 1, true, 1, 10).Return([]*model.Post{{ID: 1}, {ID: 2}}, 2, nil)
	postRepo.On("GetUserPosts", 1, false, 1, 10).Return([]*model.Post{{ID: 1}}, 1, nil)
	engagementRepo.On("IsPostLikedByUser", 1, 1).Return(true, nil)
	engagementRepo.On("IsPostLikedByUser", 2, 1).Return(false, nil)

	// 本人视角
	_, total, err := service.UserFeed("Alice", 1, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)

	// 访客视角
	_, total, err = service.UserFeed("alice", 0, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestUserFeedUnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewFeedService(new(MockPostRepository), new(MockEngagementRepository), userRepo)

	userRepo.On("FindByUsername", "ghost").Return(nil, nil)

	_, _, err := service.UserFeed("ghost", 0, 1, 10)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

// TestFeedByTag 标签在查询前按统一规则规整
func TestFeedByTag(t *testing.T) {
	postRepo := new(MockPostRepository)
	service := NewFeedService(postRepo, new(MockEngagementRepository), new(MockUserRepository))

	postRepo.On("GetPostsByTag", "golang", 1, 10).Return([]*model.Post{{ID: 1}}, 1, nil)

	_, total, err := service.FeedByTag("#GoLang", 0, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)

	// 空标签拒绝
	_, _, err = service.FeedByTag("  #  ", 0, 1, 10)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

// TestTrendingTags 最多返回20个热门标签
func TestTrendingTags(t *testing.T) {
	postRepo := new(MockPostRepository)
	service := NewFeedService(postRepo, new(MockEngagementRepository), new(MockUserRepository))

	expected := []*model.TagCount{{Tag: "music", Count: 10}, {Tag: "chill", Count: 3}}
	postRepo.On("GetTrendingTags", 20).Return(expected, nil)

	tags, err := service.TrendingTags()
	assert.NoError(t, err)
	assert.Equal(t, expected, tags)
	postRepo.AssertCalled(t, "GetTrendingTags", 20)
}
