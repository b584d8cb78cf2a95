package service

import (
	"testing"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(userRepo *MockUserRepository, graphRepo *MockGraphRepository) *UserService {
	return NewUserService(userRepo, graphRepo, NewEmailService())
}

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockGraphRepository))

	userRepo.On("FindByUsername", "newuser").Return(nil, nil)
	userRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	// 用户名统一转为小写存储
	user := &model.User{Username: "  NewUser "}
	err := service.Register(user, "password123")
	assert.NoError(t, err)
	assert.Equal(t, "newuser", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Equal(t, "newuser", user.DisplayName)
	userRepo.AssertExpectations(t)
}

func TestRegisterUsernameTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockGraphRepository))

	userRepo.On("FindByUsername", "taken").Return(&model.User{ID: 1, Username: "taken"}, nil)

	err := service.Register(&model.User{Username: "Taken"}, "password123")
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegisterWeakPassword(t *testing.T) {
	service := newUserService(new(MockUserRepository), new(MockGraphRepository))

	err := service.Register(&model.User{Username: "alice"}, "123")
	assert.True(t, errors.Is(err, errors.ErrWeakPassword))
}

// TestLogin 测试登录
func TestLogin(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockGraphRepository))

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &model.User{ID: 1, Username: "alice", PasswordHash: string(hash)}

	userRepo.On("FindByUsername", "alice").Return(stored, nil)
	userRepo.On("UpdateLastActive", 1).Return(nil)

	token, user, err := service.Login("Alice", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, user.ID)

	// 密码错误
	_, _, err = service.Login("alice", "wrong")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestLoginUnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockGraphRepository))

	userRepo.On("FindByUsername", "ghost").Return(nil, nil)

	_, _, err := service.Login("ghost", "password123")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestGetProfile 资料查询补充派生计数和关注状态
func TestGetProfile(t *testing.T) {
	userRepo := new(MockUserRepository)
	graphRepo := new(MockGraphRepository)
	service := newUserService(userRepo, graphRepo)

	stored := &model.User{ID: 2, Username: "bob", Email: "bob@example.com"}
	userRepo.On("FindByUsername", "bob").Return(stored, nil)
	userRepo.On("GetPostCount", 2).Return(4, nil)
	graphRepo.On("GetFollowerCount", 2).Return(10, nil)
	graphRepo.On("GetFollowingCount", 2).Return(7, nil)
	graphRepo.On("IsFollowing", 1, 2).Return(true, nil)

	profile, isFollowing, err := service.GetProfile("Bob", 1)
	assert.NoError(t, err)
	assert.True(t, isFollowing)
	assert.Equal(t, 10, profile.FollowerCount)
	assert.Equal(t, 7, profile.FollowingCount)
	assert.Equal(t, 4, profile.PostCount)
	// 他人视角不暴露邮箱
	assert.Empty(t, profile.Email)
}

// TestSearchUsers 查询词长度校验
func TestSearchUsers(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockGraphRepository))

	_, err := service.SearchUsers("a")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	userRepo.On("Search", "al", 20).Return([]*model.User{{ID: 1, Username: "alice"}}, nil)
	users, err := service.SearchUsers(" Al ")
	assert.NoError(t, err)
	assert.Len(t, users, 1)
}
