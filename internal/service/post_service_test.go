package service

import (
	"database/sql"
	"strings"
	"testing"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestNormalizeTags 测试标签规整规则
func TestNormalizeTags(t *testing.T) {
	tags := NormalizeTags([]string{" #GoLang ", "#music", "music", "", "  ", "#", "Chill"})
	assert.Equal(t, []string{"golang", "music", "music", "chill"}, tags)

	// 重复标签保留
	assert.Len(t, NormalizeTags([]string{"a", "a", "a"}), 3)

	assert.Nil(t, NormalizeTags(nil))
}

// TestCreatePost 测试帖子创建与校验
func TestCreatePost(t *testing.T) {
	postRepo := new(MockPostRepository)
	service := NewPostService(postRepo, new(MockEngagementRepository), nil)

	post := &model.Post{AuthorID: 1, AudioURL: "audio/a.mp3", Duration: 60, Caption: "hello", IsPublic: true}
	postRepo.On("CreatePost", post, []string{"golang", "music"}).Return(nil)

	err := service.CreatePost(post, []string{"#GoLang", " music "})
	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestCreatePostValidation(t *testing.T) {
	postRepo := new(MockPostRepository)
	service := NewPostService(postRepo, new(MockEngagementRepository), nil)

	// 缺少音频地址
	err := service.CreatePost(&model.Post{AuthorID: 1, Duration: 60}, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	// 描述超长
	err = service.CreatePost(&model.Post{AuthorID: 1, AudioURL: "a.mp3", Duration: 60, Caption: strings.Repeat("x", 301)}, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	// 时长超出上限
	err = service.CreatePost(&model.Post{AuthorID: 1, AudioURL: "a.mp3", Duration: 301}, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	postRepo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
}

// TestGetPost 私密帖子仅作者可见
func TestGetPostPrivate(t *testing.T) {
	postRepo := new(MockPostRepository)
	engagementRepo := new(MockEngagementRepository)
	service := NewPostService(postRepo, engagementRepo, nil)

	private := &model.Post{ID: 5, AuthorID: 1, IsPublic: false}
	postRepo.On("GetPostByID", 5).Return(private, nil)
	engagementRepo.On("IsPostLikedByUser", 5, 1).Return(false, nil)

	// 作者本人可见
	post, err := service.GetPost(5, 1)
	assert.NoError(t, err)
	assert.Equal(t, 5, post.ID)

	// 其他人表现为不存在
	_, err = service.GetPost(5, 2)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestDeletePost 仅作者可以删除
func TestDeletePostForbidden(t *testing.T) {
	postRepo := new(MockPostRepository)
	service := NewPostService(postRepo, new(MockEngagementRepository), nil)

	postRepo.On("GetPostByID", 5).Return(&model.Post{ID: 5, AuthorID: 1}, nil)

	err := service.DeletePost(5, 2)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	postRepo.AssertNotCalled(t, "DeletePost", mock.Anything)
}

// TestIncrementPlay 播放计数
func TestIncrementPlay(t *testing.T) {
	postRepo := new(MockPostRepository)
	service := NewPostService(postRepo, new(MockEngagementRepository), nil)

	postRepo.On("IncrementPlayCount", 5).Return(nil)
	assert.NoError(t, service.IncrementPlay(5))

	postRepo.On("IncrementPlayCount", 99).Return(sql.ErrNoRows)
	err := service.IncrementPlay(99)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}
