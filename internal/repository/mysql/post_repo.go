package mysql

import (
	"database/sql"
	"strings"

	"vently-backend/internal/model"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

// CreatePost 在同一事务中插入帖子与标签,标签允许重复出现
func (r *postRepository) CreatePost(post *model.Post, tags []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO posts (author_id, audio_url, duration, caption, is_public, created_at)
              VALUES (?, ?, ?, ?, ?, NOW())`
	result, err := tx.Exec(query, post.AuthorID, post.AudioURL, post.Duration, post.Caption, post.IsPublic)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新帖子ID失败", zap.Error(err))
		return err
	}
	post.ID = int(postID)

	if len(tags) > 0 {
		query = `INSERT INTO post_tags (post_id, tag) VALUES (?, ?)`
		for _, tag := range tags {
			if _, err = tx.Exec(query, postID, tag); err != nil {
				util.Logger.Error("插入帖子标签失败", zap.Error(err))
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	post.Tags = tags
	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

const postColumns = `p.id, p.author_id, p.audio_url, p.duration, p.caption, p.is_public,
               p.like_count, p.comment_count, p.share_count, p.play_count, p.created_at,
               u.username, u.display_name, u.avatar_url, u.is_verified`

func (r *postRepository) GetPostByID(id int) (*model.Post, error) {
	query := `
        SELECT ` + postColumns + `
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE p.id = ?`

	var post model.Post
	var author model.User
	err := r.db.QueryRow(query, id).Scan(
		&post.ID, &post.AuthorID, &post.AudioURL, &post.Duration, &post.Caption, &post.IsPublic,
		&post.LikeCount, &post.CommentCount, &post.ShareCount, &post.PlayCount, &post.CreatedAt,
		&author.Username, &author.DisplayName, &author.AvatarURL, &author.IsVerified,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	author.ID = post.AuthorID
	post.Author = &author

	if err := r.attachTags([]*model.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost 级联删除帖子及其标签、点赞、评论和相关通知
func (r *postRepository) DeletePost(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE cl FROM comment_likes cl JOIN comments c ON cl.comment_id = c.id WHERE c.post_id = ?`,
		`DELETE FROM comments WHERE post_id = ?`,
		`DELETE FROM likes WHERE post_id = ?`,
		`DELETE FROM post_tags WHERE post_id = ?`,
		`DELETE FROM notifications WHERE post_id = ?`,
		`DELETE FROM posts WHERE id = ?`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt, id); err != nil {
			util.Logger.Error("级联删除帖子失败", zap.Error(err), zap.Int("post_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}
	util.Logger.Info("帖子删除成功", zap.Int("post_id", id))
	return nil
}

// IncrementPlayCount 原子增加播放数
func (r *postRepository) IncrementPlayCount(id int) error {
	result, err := r.db.Exec(`UPDATE posts SET play_count = play_count + 1 WHERE id = ?`, id)
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

// GetHomeFeed 返回用户自己和其关注对象的帖子,按时间倒序
func (r *postRepository) GetHomeFeed(userID int, page, pageSize int) ([]*model.Post, int, error) {
	where := `(p.author_id = ? OR (p.is_public = TRUE AND p.author_id IN
              (SELECT followed_id FROM follows WHERE follower_id = ?)))`

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts p WHERE `+where, userID, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT `+postColumns+`
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE `+where+`
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ? OFFSET ?`, userID, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := r.scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetDiscoverFeed 返回所有公开帖子,先按时间倒序,再按播放数倒序
func (r *postRepository) GetDiscoverFeed(page, pageSize int) ([]*model.Post, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE is_public = TRUE`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT `+postColumns+`
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE p.is_public = TRUE
        ORDER BY p.created_at DESC, p.play_count DESC, p.id DESC
        LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := r.scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) GetUserPosts(userID int, includePrivate bool, page, pageSize int) ([]*model.Post, int, error) {
	where := `p.author_id = ?`
	if !includePrivate {
		where += ` AND p.is_public = TRUE`
	}

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts p WHERE `+where, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT `+postColumns+`
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE `+where+`
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ? OFFSET ?`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := r.scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) GetPostsByTag(tag string, page, pageSize int) ([]*model.Post, int, error) {
	where := `p.is_public = TRUE AND p.id IN (SELECT post_id FROM post_tags WHERE tag = ?)`

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts p WHERE `+where, tag).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
        SELECT `+postColumns+`
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE `+where+`
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ? OFFSET ?`, tag, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := r.scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetTrendingTags 统计公开帖子的标签出现次数,同一帖子的重复标签也计入
// 次数相同时按标签字典序升序
func (r *postRepository) GetTrendingTags(limit int) ([]*model.TagCount, error) {
	rows, err := r.db.Query(`
        SELECT pt.tag, COUNT(*) AS cnt
        FROM post_tags pt
        JOIN posts p ON pt.post_id = p.id
        WHERE p.is_public = TRUE
        GROUP BY pt.tag
        ORDER BY cnt DESC, pt.tag ASC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*model.TagCount
	for rows.Next() {
		var tc model.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, &tc)
	}
	return tags, rows.Err()
}

func (r *postRepository) scanPosts(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		var author model.User
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.AudioURL, &post.Duration, &post.Caption, &post.IsPublic,
			&post.LikeCount, &post.CommentCount, &post.ShareCount, &post.PlayCount, &post.CreatedAt,
			&author.Username, &author.DisplayName, &author.AvatarURL, &author.IsVerified,
		)
		if err != nil {
			return nil, err
		}
		author.ID = post.AuthorID
		post.Author = &author
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachTags 批量加载帖子标签,避免逐条查询
func (r *postRepository) attachTags(posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int]*model.Post, len(posts))
	args := make([]interface{}, 0, len(posts))
	for _, post := range posts {
		byID[post.ID] = post
		args = append(args, post.ID)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(posts)), ",")
	rows, err := r.db.Query(`SELECT post_id, tag FROM post_tags WHERE post_id IN (`+placeholders+`) ORDER BY id ASC`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int
		var tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return err
		}
		if post, ok := byID[postID]; ok {
			post.Tags = append(post.Tags, tag)
		}
	}
	return rows.Err()
}
