package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"vently-backend/config"
	"vently-backend/internal/model"
	"vently-backend/internal/service"
	"vently-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
	config.AppConfig.JWTSecret = "test-secret"
	os.Exit(m.Run())
}

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastActive(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Search(query string, limit int) ([]*model.User, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) GetPostCount(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) AddToBlacklist(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockUserRepository) IsTokenBlacklisted(token string) (bool, error) {
	args := m.Called(token)
	return args.Bool(0), args.Error(1)
}

// MockGraphRepository 是 GraphRepository 接口的模拟实现
type MockGraphRepository struct {
	mock.Mock
}

func (m *MockGraphRepository) CreateFollow(follow *model.Follow) error {
	args := m.Called(follow)
	return args.Error(0)
}

func (m *MockGraphRepository) DeleteFollow(followerID, followedID int) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGraphRepository) IsFollowing(followerID, followedID int) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGraphRepository) GetFollowers(userID, page, pageSize int) ([]*model.User, int, error) {
	args := m.Called(userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.User), args.Int(1), args.Error(2)
}

func (m *MockGraphRepository) GetFollowing(userID, page, pageSize int) ([]*model.User, int, error) {
	args := m.Called(userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.User), args.Int(1), args.Error(2)
}

func (m *MockGraphRepository) GetFollowerCount(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockGraphRepository) GetFollowingCount(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func setupAuthRouter(userRepo *MockUserRepository) *gin.Engine {
	userService := service.NewUserService(userRepo, new(MockGraphRepository), service.NewEmailService())
	handler := NewAuthHandler(userService)

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)
	return router
}

// TestRegisterHandler 测试注册接口
func TestRegisterHandler(t *testing.T) {
	userRepo := new(MockUserRepository)
	router := setupAuthRouter(userRepo)

	userRepo.On("FindByUsername", "alice").Return(nil, nil)
	userRepo.On("Create", mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*model.User).ID = 1
	}).Return(nil)

	body, _ := json.Marshal(gin.H{"username": "Alice", "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "alice", resp.Data.User.Username)
}

func TestRegisterHandlerConflict(t *testing.T) {
	userRepo := new(MockUserRepository)
	router := setupAuthRouter(userRepo)

	userRepo.On("FindByUsername", "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

	body, _ := json.Marshal(gin.H{"username": "alice", "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestLoginHandler 测试登录接口
func TestLoginHandler(t *testing.T) {
	userRepo := new(MockUserRepository)
	router := setupAuthRouter(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &model.User{ID: 1, Username: "alice", PasswordHash: string(hash)}
	userRepo.On("FindByUsername", "alice").Return(stored, nil)
	userRepo.On("UpdateLastActive", 1).Return(nil)

	body, _ := json.Marshal(gin.H{"identifier": "alice", "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	router := setupAuthRouter(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &model.User{ID: 1, Username: "alice", PasswordHash: string(hash)}
	userRepo.On("FindByUsername", "alice").Return(stored, nil)

	body, _ := json.Marshal(gin.H{"identifier": "alice", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
