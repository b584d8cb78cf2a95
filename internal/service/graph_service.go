package service

import (
	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

// GraphService 处理关注关系图的业务逻辑
type GraphService struct {
	graphRepo    interfaces.GraphRepository
	userRepo     interfaces.UserRepository
	notification *NotificationService
}

func NewGraphService(graphRepo interfaces.GraphRepository, userRepo interfaces.UserRepository, notification *NotificationService) *GraphService {
	return &GraphService{
		graphRepo:    graphRepo,
		userRepo:     userRepo,
		notification: notification,
	}
}

// Follow 建立关注关系。不允许关注自己,重复关注返回冲突错误
func (s *GraphService) Follow(followerID, followedID int) error {
	if followerID == followedID {
		return errors.New(errors.ErrSelfFollow, "不能关注自己")
	}

	target, err := s.userRepo.FindByID(followedID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if target == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	follow := &model.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := s.graphRepo.CreateFollow(follow); err != nil {
		if err == interfaces.ErrDuplicateKey {
			return errors.New(errors.ErrAlreadyFollowing, "已经关注了该用户")
		}
		return errors.Wrap(errors.ErrDatabase, "创建关注关系失败", err)
	}

	s.notification.Notify(&model.NotificationEvent{
		Kind:        model.NotificationFollow,
		RecipientID: followedID,
		SenderID:    followerID,
	})

	util.Logger.Info("关注成功", zap.Int("follower_id", followerID), zap.Int("followed_id", followedID))
	return nil
}

// Unfollow 解除关注关系,未关注时返回冲突错误
func (s *GraphService) Unfollow(followerID, followedID int) error {
	if followerID == followedID {
		return errors.New(errors.ErrSelfFollow, "不能对自己执行此操作")
	}

	removed, err := s.graphRepo.DeleteFollow(followerID, followedID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除关注关系失败", err)
	}
	if !removed {
		return errors.New(errors.ErrNotFollowing, "尚未关注该用户")
	}
	return nil
}

func (s *GraphService) IsFollowing(followerID, followedID int) (bool, error) {
	isFollowing, err := s.graphRepo.IsFollowing(followerID, followedID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询关注关系失败", err)
	}
	return isFollowing, nil
}

// GetFollowers 分页查询用户的粉丝列表
func (s *GraphService) GetFollowers(userID, page, pageSize int) ([]*model.User, int, error) {
	if err := s.ensureUserExists(userID); err != nil {
		return nil, 0, err
	}
	users, total, err := s.graphRepo.GetFollowers(userID, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询粉丝列表失败", err)
	}
	return users, total, nil
}

// GetFollowing 分页查询用户的关注列表
func (s *GraphService) GetFollowing(userID, page, pageSize int) ([]*model.User, int, error) {
	if err := s.ensureUserExists(userID); err != nil {
		return nil, 0, err
	}
	users, total, err := s.graphRepo.GetFollowing(userID, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询关注列表失败", err)
	}
	return users, total, nil
}

func (s *GraphService) ensureUserExists(userID int) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return nil
}
