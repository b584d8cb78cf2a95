package mysql

import (
	"database/sql"

	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

type engagementRepository struct {
	db *sql.DB
}

func NewEngagementRepository(db *sql.DB) *engagementRepository {
	return &engagementRepository{db: db}
}

// CreateLike 插入点赞记录并原子增加帖子点赞数
// 唯一键 (user_id, post_id) 在并发重复点赞时仲裁,只有一方成功
func (r *engagementRepository) CreateLike(userID, postID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, NOW())`, userID, postID)
	if err != nil {
		if isDuplicateEntry(err) {
			return interfaces.ErrDuplicateKey
		}
		util.Logger.Error("创建点赞失败", zap.Error(err))
		return err
	}

	result, err := tx.Exec(`UPDATE posts SET like_count = like_count + 1 WHERE id = ?`, postID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// DeleteLike 删除点赞记录,仅当记录存在时才递减计数
func (r *engagementRepository) DeleteLike(userID, postID int) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		util.Logger.Error("删除点赞失败", zap.Error(err))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.Exec(`UPDATE posts SET like_count = GREATEST(like_count - 1, 0) WHERE id = ?`, postID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *engagementRepository) IsPostLikedByUser(postID, userID int) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE post_id = ? AND user_id = ?`,
		postID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateComment 插入评论并在同一事务中递增帖子评论数
func (r *engagementRepository) CreateComment(comment *model.Comment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO comments (post_id, author_id, text, created_at) VALUES (?, ?, ?, NOW())`
	result, err := tx.Exec(query, comment.PostID, comment.AuthorID, comment.Text)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return err
	}

	commentID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(commentID)

	updateResult, err := tx.Exec(`UPDATE posts SET comment_count = comment_count + 1 WHERE id = ?`, comment.PostID)
	if err != nil {
		return err
	}
	affected, err := updateResult.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}
	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID))
	return nil
}

func (r *engagementRepository) GetCommentByID(id int) (*model.Comment, error) {
	query := `
        SELECT c.id, c.post_id, c.author_id, c.text, c.like_count, c.created_at,
               u.username, u.display_name, u.avatar_url
        FROM comments c
        JOIN users u ON c.author_id = u.id
        WHERE c.id = ?`

	var comment model.Comment
	var author model.User
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text,
		&comment.LikeCount, &comment.CreatedAt,
		&author.Username, &author.DisplayName, &author.AvatarURL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	author.ID = comment.AuthorID
	comment.Author = &author
	return &comment, nil
}

// DeleteComment 删除评论并容忍计数下限,帖子计数不会降到负数
func (r *engagementRepository) DeleteComment(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var postID int
	err = tx.QueryRow(`SELECT post_id FROM comments WHERE id = ?`, id).Scan(&postID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM comment_likes WHERE comment_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM comments WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
		return err
	}
	if _, err := tx.Exec(`UPDATE posts SET comment_count = GREATEST(comment_count - 1, 0) WHERE id = ?`, postID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *engagementRepository) GetCommentsByPostID(postID, viewerID, page, pageSize int) ([]*model.Comment, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT c.id, c.post_id, c.author_id, c.text, c.like_count, c.created_at,
               u.username, u.display_name, u.avatar_url,
               EXISTS(SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = ?) AS is_liked
        FROM comments c
        JOIN users u ON c.author_id = u.id
        WHERE c.post_id = ?
        ORDER BY c.created_at ASC, c.id ASC
        LIMIT ? OFFSET ?`, viewerID, postID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var comment model.Comment
		var author model.User
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text,
			&comment.LikeCount, &comment.CreatedAt,
			&author.Username, &author.DisplayName, &author.AvatarURL,
			&comment.IsLiked,
		)
		if err != nil {
			return nil, 0, err
		}
		author.ID = comment.AuthorID
		comment.Author = &author
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// CreateCommentLike 评论点赞,唯一键 (user_id, comment_id) 防重
func (r *engagementRepository) CreateCommentLike(userID, commentID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO comment_likes (user_id, comment_id, created_at) VALUES (?, ?, NOW())`,
		userID, commentID)
	if err != nil {
		if isDuplicateEntry(err) {
			return interfaces.ErrDuplicateKey
		}
		return err
	}

	result, err := tx.Exec(`UPDATE comments SET like_count = like_count + 1 WHERE id = ?`, commentID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

func (r *engagementRepository) DeleteCommentLike(userID, commentID int) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM comment_likes WHERE user_id = ? AND comment_id = ?`,
		userID, commentID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.Exec(`UPDATE comments SET like_count = GREATEST(like_count - 1, 0) WHERE id = ?`, commentID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// IncrementShareCount 原子增加分享数
func (r *engagementRepository) IncrementShareCount(postID int) error {
	result, err := r.db.Exec(`UPDATE posts SET share_count = share_count + 1 WHERE id = ?`, postID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
