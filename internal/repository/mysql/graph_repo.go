package mysql

import (
	"database/sql"

	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

type graphRepository struct {
	db *sql.DB
}

func NewGraphRepository(db *sql.DB) *graphRepository {
	return &graphRepository{db: db}
}

// CreateFollow 插入一条关注边,唯一键 (follower_id, followed_id) 防止重复关注
func (r *graphRepository) CreateFollow(follow *model.Follow) error {
	query := `INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, NOW())`
	result, err := r.db.Exec(query, follow.FollowerID, follow.FollowedID)
	if err != nil {
		if isDuplicateEntry(err) {
			return interfaces.ErrDuplicateKey
		}
		util.Logger.Error("创建关注关系失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	follow.ID = int(id)
	return nil
}

// DeleteFollow 删除关注边,返回是否真正删除了记录
func (r *graphRepository) DeleteFollow(followerID, followedID int) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID)
	if err != nil {
		util.Logger.Error("删除关注关系失败", zap.Error(err))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *graphRepository) IsFollowing(followerID, followedID int) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *graphRepository) GetFollowers(userID, page, pageSize int) ([]*model.User, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE followed_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT u.id, u.username, u.display_name, u.bio, u.avatar_url, u.is_verified, u.created_at
        FROM follows f
        JOIN users u ON f.follower_id = u.id
        WHERE f.followed_id = ?
        ORDER BY f.created_at DESC
        LIMIT ? OFFSET ?`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *graphRepository) GetFollowing(userID, page, pageSize int) ([]*model.User, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT u.id, u.username, u.display_name, u.bio, u.avatar_url, u.is_verified, u.created_at
        FROM follows f
        JOIN users u ON f.followed_id = u.id
        WHERE f.follower_id = ?
        ORDER BY f.created_at DESC
        LIMIT ? OFFSET ?`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func scanUserRows(rows *sql.Rows) ([]*model.User, error) {
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

func (r *graphRepository) GetFollowerCount(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE followed_id = ?`, userID).Scan(&count)
	return count, err
}

func (r *graphRepository) GetFollowingCount(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID).Scan(&count)
	return count, err
}
