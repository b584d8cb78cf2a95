package service

import (
	"database/sql"
	"strings"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
)

const maxCommentLength = 500

// EngagementService 处理点赞、评论、分享等互动逻辑
type EngagementService struct {
	engagementRepo interfaces.EngagementRepository
	postRepo       interfaces.PostRepository
	notification   *NotificationService
}

func NewEngagementService(engagementRepo interfaces.EngagementRepository, postRepo interfaces.PostRepository, notification *NotificationService) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
		notification:   notification,
	}
}

// ToggleLike 点赞/取消点赞。返回操作后的点赞状态和最新点赞数。
// 并发重复请求由唯一键仲裁,胜出一方生效,另一方观察到已是目标状态
func (s *EngagementService) ToggleLike(userID, postID int) (bool, int, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return false, 0, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	liked, err := s.engagementRepo.IsPostLikedByUser(postID, userID)
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "查询点赞状态失败", err)
	}

	var nowLiked bool
	if liked {
		if _, err := s.engagementRepo.DeleteLike(userID, postID); err != nil {
			return false, 0, errors.Wrap(errors.ErrDatabase, "取消点赞失败", err)
		}
		nowLiked = false
	} else {
		err := s.engagementRepo.CreateLike(userID, postID)
		switch err {
		case nil:
			s.notification.Notify(&model.NotificationEvent{
				Kind:        model.NotificationLike,
				RecipientID: post.AuthorID,
				SenderID:    userID,
				PostID:      &postID,
			})
		case interfaces.ErrDuplicateKey:
			// 并发下另一请求已点赞,幂等处理
		default:
			return false, 0, errors.Wrap(errors.ErrDatabase, "点赞失败", err)
		}
		nowLiked = true
	}

	updated, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	likeCount := 0
	if updated != nil {
		likeCount = updated.LikeCount
	}
	return nowLiked, likeCount, nil
}

// AddComment 添加评论,同一事务内递增帖子评论数
func (s *EngagementService) AddComment(userID, postID int, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New(errors.ErrValidation, "评论内容不能为空")
	}
	if len(text) > maxCommentLength {
		return nil, errors.New(errors.ErrValidation, "评论不能超过500个字符")
	}

	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	comment := &model.Comment{PostID: postID, AuthorID: userID, Text: text}
	if err := s.engagementRepo.CreateComment(comment); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "创建评论失败", err)
	}

	s.notification.Notify(&model.NotificationEvent{
		Kind:        model.NotificationComment,
		RecipientID: post.AuthorID,
		SenderID:    userID,
		PostID:      &postID,
		CommentID:   &comment.ID,
	})

	return s.engagementRepo.GetCommentByID(comment.ID)
}

// DeleteComment 删除评论,仅评论作者本人可操作
func (s *EngagementService) DeleteComment(commentID, requesterID int) error {
	comment, err := s.engagementRepo.GetCommentByID(commentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	if comment.AuthorID != requesterID {
		return errors.New(errors.ErrForbidden, "只有评论作者可以删除评论")
	}

	if err := s.engagementRepo.DeleteComment(commentID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除评论失败", err)
	}
	return nil
}

// GetComments 分页查询帖子的评论
func (s *EngagementService) GetComments(postID, viewerID, page, pageSize int) ([]*model.Comment, int, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, 0, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	comments, total, err := s.engagementRepo.GetCommentsByPostID(postID, viewerID, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	return comments, total, nil
}

// ToggleCommentLike 评论点赞/取消点赞。评论点赞不产生通知
func (s *EngagementService) ToggleCommentLike(userID, commentID int) (bool, error) {
	comment, err := s.engagementRepo.GetCommentByID(commentID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return false, errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	// 以点赞表为准:先尝试取消,没有记录再点赞
	removed, err := s.engagementRepo.DeleteCommentLike(userID, commentID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "取消点赞失败", err)
	}
	if removed {
		return false, nil
	}

	err = s.engagementRepo.CreateCommentLike(userID, commentID)
	switch err {
	case nil, interfaces.ErrDuplicateKey:
		return true, nil
	default:
		return false, errors.Wrap(errors.ErrDatabase, "点赞失败", err)
	}
}

// Share 记录一次分享并通知作者
func (s *EngagementService) Share(userID, postID int) error {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if err := s.engagementRepo.IncrementShareCount(postID); err != nil {
		if err == sql.ErrNoRows {
			return errors.New(errors.ErrPostNotFound, "帖子不存在")
		}
		return errors.Wrap(errors.ErrDatabase, "更新分享数失败", err)
	}

	s.notification.Notify(&model.NotificationEvent{
		Kind:        model.NotificationShare,
		RecipientID: post.AuthorID,
		SenderID:    userID,
		PostID:      &postID,
	})
	return nil
}
