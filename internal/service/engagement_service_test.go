package service

import (
	"testing"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newEngagementService(engagementRepo *MockEngagementRepository, postRepo *MockPostRepository, notificationRepo *MockNotificationRepository) *EngagementService {
	return NewEngagementService(engagementRepo, postRepo, NewNotificationService(notificationRepo))
}

// TestToggleLike 点赞后再次调用应取消点赞
func TestToggleLike(t *testing.T) {
	engagementRepo := new(MockEngagementRepository)
	postRepo := new(MockPostRepository)
	notificationRepo := new(MockNotificationRepository)
	service := newEngagementService(engagementRepo, postRepo, notificationRepo)

	post := &model.Post{ID: 5, AuthorID: 2, LikeCount: 1}
	postRepo.On("GetPostByID", 5).Return(post, nil)
	notificationRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(nil)

	// 第一次:未点赞 -> 点赞
	engagementRepo.On("IsPostLikedByUser", 5, 1).Return(false, nil).Once()
	engagementRepo.On("CreateLike", 1, 5).Return(nil).Once()

	liked, count, err := service.ToggleLike(1, 5)
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	// 点赞应通知帖子作者
	notificationRepo.AssertCalled(t, "Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.Kind == model.NotificationLike && n.RecipientID == 2 && n.SenderID == 1
	}))

	// 第二次:已点赞 -> 取消
	engagementRepo.On("IsPostLikedByUser", 5, 1).Return(true, nil).Once()
	engagementRepo.On("DeleteLike", 1, 5).Return(true, nil).Once()

	liked, _, err = service.ToggleLike(1, 5)
	assert.NoError(t, err)
	assert.False(t, liked)
	engagementRepo.AssertExpectations(t)
}

// TestToggleLikeOwnPost 给自己的帖子点赞不产生通知
func TestToggleLikeOwnPost(t *testing.T) {
	engagementRepo := new(MockEngagementRepository)
	postRepo := new(MockPostRepository)
	notificationRepo := new(MockNotificationRepository)
	service := newEngagementService(engagementRepo, postRepo, notificationRepo)

	postRepo.On("GetPostByID", 5).Return(&model.Post{ID: 5, AuthorID: 1}, nil)
	engagementRepo.On("IsPostLikedByUser", 5, 1).Return(false, nil)
	engagementRepo.On("CreateLike", 1, 5).Return(nil)

	liked, _, err := service.ToggleLike(1, 5)
	assert.NoError(t, err)
	assert.True(t, liked)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestToggleLikeMissingPost 点赞不存在的帖子
func TestToggleLikeMissingPost(t *testing.T) {
	postRepo := new(MockPostRepository)
	service := newEngagementService(new(MockEngagementRepository), postRepo, new(MockNotificationRepository))

	postRepo.On("GetPostByID", 99).Return(nil, nil)

	_, _, err := service.ToggleLike(1, 99)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestAddComment 评论成功并通知作者
func TestAddComment(t *testing.T) {
	engagementRepo := new(MockEngagementRepository)
	postRepo := new(MockPostRepository)
	notificationRepo := new(MockNotificationRepository)
	service := newEngagementService(engagementRepo, postRepo, notificationRepo)

	postRepo.On("GetPostByID", 5).Return(&model.Post{ID: 5, AuthorID: 2}, nil)
	engagementRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Comment).ID = 7
	}).Return(nil)
	engagementRepo.On("GetCommentByID", 7).Return(&model.Comment{ID: 7, PostID: 5, AuthorID: 1, Text: "nice"}, nil)
	notificationRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(nil)

	comment, err := service.AddComment(1, 5, "  nice  ")
	assert.NoError(t, err)
	assert.Equal(t, 7, comment.ID)
	assert.Equal(t, "nice", comment.Text)

	notificationRepo.AssertCalled(t, "Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.Kind == model.NotificationComment && n.RecipientID == 2 && n.CommentID != nil && *n.CommentID == 7
	}))
}

func TestAddCommentValidation(t *testing.T) {
	service := newEngagementService(new(MockEngagementRepository), new(MockPostRepository), new(MockNotificationRepository))

	_, err := service.AddComment(1, 5, "   ")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

// TestDeleteComment 只有评论作者本人可删除
func TestDeleteComment(t *testing.T) {
	engagementRepo := new(MockEngagementRepository)
	service := newEngagementService(engagementRepo, new(MockPostRepository), new(MockNotificationRepository))

	comment := &model.Comment{ID: 7, PostID: 5, AuthorID: 1}
	engagementRepo.On("GetCommentByID", 7).Return(comment, nil)
	engagementRepo.On("DeleteComment", 7).Return(nil)

	// 评论作者
	assert.NoError(t, service.DeleteComment(7, 1))
	// 帖子作者同样禁止
	err := service.DeleteComment(7, 2)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	// 无关用户
	err = service.DeleteComment(7, 3)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	engagementRepo.AssertNumberOfCalls(t, "DeleteComment", 1)
}

// TestToggleCommentLike 评论点赞不产生通知
func TestToggleCommentLike(t *testing.T) {
	engagementRepo := new(MockEngagementRepository)
	notificationRepo := new(MockNotificationRepository)
	service := newEngagementService(engagementRepo, new(MockPostRepository), notificationRepo)

	engagementRepo.On("GetCommentByID", 7).Return(&model.Comment{ID: 7, PostID: 5, AuthorID: 2}, nil)
	engagementRepo.On("DeleteCommentLike", 1, 7).Return(false, nil).Once()
	engagementRepo.On("CreateCommentLike", 1, 7).Return(nil).Once()

	liked, err := service.ToggleCommentLike(1, 7)
	assert.NoError(t, err)
	assert.True(t, liked)

	engagementRepo.On("DeleteCommentLike", 1, 7).Return(true, nil).Once()
	liked, err = service.ToggleCommentLike(1, 7)
	assert.NoError(t, err)
	assert.False(t, liked)

	notificationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestShare 分享递增计数并通知作者
func TestShare(t *testing.T) {
	engagementRepo := new(MockEngagementRepository)
	postRepo := new(MockPostRepository)
	notificationRepo := new(MockNotificationRepository)
	service := newEngagementService(engagementRepo, postRepo, notificationRepo)

	postRepo.On("GetPostByID", 5).Return(&model.Post{ID: 5, AuthorID: 2}, nil)
	engagementRepo.On("IncrementShareCount", 5).Return(nil)
	notificationRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(nil)

	assert.NoError(t, service.Share(1, 5))
	notificationRepo.AssertCalled(t, "Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.Kind == model.NotificationShare && n.RecipientID == 2
	}))
}

// TestShareFailureDoesNotBlock 通知失败不影响分享结果
func TestShareNotificationFailure(t *testing.T) {
	engagementRepo := new(MockEngagementRepository)
	postRepo := new(MockPostRepository)
	notificationRepo := new(MockNotificationRepository)
	service := newEngagementService(engagementRepo, postRepo, notificationRepo)

	postRepo.On("GetPostByID", 5).Return(&model.Post{ID: 5, AuthorID: 2}, nil)
	engagementRepo.On("IncrementShareCount", 5).Return(nil)
	notificationRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(assert.AnError)

	assert.NoError(t, service.Share(1, 5))
}
