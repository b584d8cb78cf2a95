package interfaces

import "vently-backend/internal/model"

// UserRepository 接口定义了用户仓库应该实现的方法
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	UpdateLastActive(id int) error
	Search(query string, limit int) ([]*model.User, error)
	GetPostCount(userID int) (int, error)
	AddToBlacklist(token string) error
	IsTokenBlacklisted(token string) (bool, error)
}
