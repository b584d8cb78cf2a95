package mysql

import (
	"database/sql"

	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, display_name, bio, avatar_url, is_verified, created_at, last_active)
              VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash,
		user.DisplayName, user.Bio, user.AvatarURL, user.IsVerified)
	if err != nil {
		if isDuplicateEntry(err) {
			return interfaces.ErrDuplicateKey
		}
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

const userColumns = `id, username, email, password_hash, display_name, bio, avatar_url, is_verified, created_at, last_active`

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.Bio, &user.AvatarURL, &user.IsVerified,
		&user.CreatedAt, &user.LastActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id int) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users SET password_hash = ?, display_name = ?, bio = ?, avatar_url = ?, is_verified = ? WHERE id = ?`
	_, err := r.db.Exec(query, user.PasswordHash, user.DisplayName, user.Bio, user.AvatarURL, user.IsVerified, user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.Int("user_id", user.ID))
	}
	return err
}

func (r *userRepository) UpdateLastActive(id int) error {
	_, err := r.db.Exec(`UPDATE users SET last_active = NOW() WHERE id = ?`, id)
	return err
}

// Search 按用户名或昵称模糊搜索,精确命中优先,其次前缀命中,再按注册时间倒序
func (r *userRepository) Search(query string, limit int) ([]*model.User, error) {
	substring := "%" + query + "%"
	prefix := query + "%"
	rows, err := r.db.Query(`
        SELECT id, username, display_name, bio, avatar_url, is_verified, created_at
        FROM users
        WHERE username LIKE ? OR display_name LIKE ?
        ORDER BY (username = ?) DESC, (username LIKE ?) DESC, created_at DESC
        LIMIT ?`, substring, substring, query, prefix, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.DisplayName,
			&user.Bio, &user.AvatarURL, &user.IsVerified, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (r *userRepository) GetPostCount(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = ?`, userID).Scan(&count)
	return count, err
}

func (r *userRepository) AddToBlacklist(token string) error {
	_, err := r.db.Exec(`INSERT INTO token_blacklist (token, created_at) VALUES (?, NOW())`, token)
	if err != nil && isDuplicateEntry(err) {
		return nil // 重复登出视为成功
	}
	return err
}

func (r *userRepository) IsTokenBlacklisted(token string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM token_blacklist WHERE token = ?`, token).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
