package service

import (
	"strings"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
	"vently-backend/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minSearchQueryLength = 2
	maxSearchResults     = 20
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo     interfaces.UserRepository
	graphRepo    interfaces.GraphRepository
	emailService *EmailService
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, graphRepo interfaces.GraphRepository, emailService *EmailService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		graphRepo:    graphRepo,
		emailService: emailService,
	}
}

// Register 注册新用户。用户名统一转为小写存储,作为大小写不敏感的唯一标识
func (s *UserService) Register(user *model.User, password string) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))

	if len(password) < 6 {
		return errors.New(errors.ErrWeakPassword, "密码长度至少为6位")
	}

	existing, err := s.userRepo.FindByUsername(user.Username)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "用户名已被占用")
	}

	if user.Email != "" {
		existing, err = s.userRepo.FindByEmail(user.Email)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
		}
		if existing != nil {
			return errors.New(errors.ErrUserExists, "邮箱已被注册")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}
	user.PasswordHash = string(hash)

	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}

	if err := s.userRepo.Create(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	// 验证邮件发送失败不影响注册结果
	if user.Email != "" {
		if err := s.emailService.SendVerificationEmail(user); err != nil {
			util.Logger.Warn("发送验证邮件失败", zap.Error(err), zap.Int("user_id", user.ID))
		}
	}

	util.Logger.Info("用户注册成功", zap.String("username", user.Username))
	return nil
}

// Login 校验凭证并签发令牌,identifier 可以是用户名或邮箱
func (s *UserService) Login(identifier, password string) (string, *model.User, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.userRepo.FindByUsername(strings.ToLower(identifier))
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil && strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(identifier)
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
		}
	}
	if user == nil {
		return "", nil, errors.New(errors.ErrInvalidCredentials, "用户名或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.New(errors.ErrInvalidCredentials, "用户名或密码错误")
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInternal, "生成令牌失败", err)
	}

	if err := s.userRepo.UpdateLastActive(user.ID); err != nil {
		util.Logger.Warn("更新最后活跃时间失败", zap.Error(err), zap.Int("user_id", user.ID))
	}

	return token, user, nil
}

// Logout 将令牌加入黑名单
func (s *UserService) Logout(token string) error {
	if err := s.userRepo.AddToBlacklist(token); err != nil {
		return errors.Wrap(errors.ErrDatabase, "注销失败", err)
	}
	return nil
}

func (s *UserService) IsTokenBlacklisted(token string) (bool, error) {
	return s.userRepo.IsTokenBlacklisted(token)
}

// GetUserByID 获取用户并补充派生计数
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	if err := s.attachCounts(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResolveUsername 将用户名解析为用户ID
func (s *UserService) ResolveUsername(username string) (int, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(username))
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return 0, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user.ID, nil
}

// GetProfile 按用户名查询公开资料,并返回观察者是否已关注该用户
func (s *UserService) GetProfile(username string, viewerID int) (*model.User, bool, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(username))
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, false, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	if err := s.attachCounts(user); err != nil {
		return nil, false, err
	}

	isFollowing := false
	if viewerID > 0 && viewerID != user.ID {
		isFollowing, err = s.graphRepo.IsFollowing(viewerID, user.ID)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrDatabase, "查询关注关系失败", err)
		}
	}

	// 他人视角不暴露邮箱
	if viewerID != user.ID {
		user.Email = ""
	}
	return user, isFollowing, nil
}

// UpdateProfile 更新当前用户的资料字段
func (s *UserService) UpdateProfile(user *model.User) error {
	existing, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	existing.DisplayName = user.DisplayName
	existing.Bio = user.Bio
	if user.AvatarURL != "" {
		existing.AvatarURL = user.AvatarURL
	}

	if err := s.userRepo.Update(existing); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新用户失败", err)
	}
	*user = *existing
	return nil
}

// SetAvatar 更新用户头像地址
func (s *UserService) SetAvatar(userID int, avatarURL string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	user.AvatarURL = avatarURL
	if err := s.userRepo.Update(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新用户失败", err)
	}
	return nil
}

// SearchUsers 按用户名或昵称搜索,查询词至少2个字符,最多返回20条
func (s *UserService) SearchUsers(query string) ([]*model.User, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchQueryLength {
		return nil, errors.New(errors.ErrValidation, "搜索词至少需要2个字符")
	}

	users, err := s.userRepo.Search(strings.ToLower(query), maxSearchResults)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "搜索用户失败", err)
	}
	return users, nil
}

// VerifyEmail 校验验证令牌并标记邮箱已验证
func (s *UserService) VerifyEmail(token string) error {
	userID, err := util.ValidatePurposeToken(token, "verify_email")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidToken, "验证链接无效或已过期", err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	user.IsVerified = true
	if err := s.userRepo.Update(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新用户失败", err)
	}
	util.Logger.Info("邮箱验证成功", zap.Int("user_id", userID))
	return nil
}

// RequestPasswordReset 发送密码重置邮件。为避免泄露账号是否存在,邮箱未注册时也返回成功
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		util.Logger.Info("密码重置请求的邮箱未注册", zap.String("email", email))
		return nil
	}
	return s.emailService.SendPasswordResetEmail(user)
}

// ResetPassword 校验重置令牌并更新密码
func (s *UserService) ResetPassword(token, newPassword string) error {
	userID, err := util.ValidatePurposeToken(token, "reset_password")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidToken, "重置链接无效或已过期", err)
	}
	if len(newPassword) < 6 {
		return errors.New(errors.ErrWeakPassword, "密码长度至少为6位")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Update(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新用户失败", err)
	}
	util.Logger.Info("密码重置成功", zap.Int("user_id", userID))
	return nil
}

func (s *UserService) attachCounts(user *model.User) error {
	followerCount, err := s.graphRepo.GetFollowerCount(user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询粉丝数失败", err)
	}
	followingCount, err := s.graphRepo.GetFollowingCount(user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询关注数失败", err)
	}
	postCount, err := s.userRepo.GetPostCount(user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子数失败", err)
	}

	user.FollowerCount = followerCount
	user.FollowingCount = followingCount
	user.PostCount = postCount
	return nil
}
