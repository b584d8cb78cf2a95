package model

import "time"

// Post 表示一条音频帖子。点赞数由 likes 表派生；
// comment_count/share_count/play_count 只通过原子增量更新，绝不在内存中读改写
type Post struct {
	ID           int       `json:"id"`
	AuthorID     int       `json:"author_id"`
	AudioURL     string    `json:"audio_url"`
	Duration     int       `json:"duration"`
	Caption      string    `json:"caption"`
	Tags         []string  `json:"tags"`
	IsPublic     bool      `json:"is_public"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	ShareCount   int       `json:"share_count"`
	PlayCount    int       `json:"play_count"`
	CreatedAt    time.Time `json:"created_at"`
	Author       *User     `json:"author,omitempty"`
	IsLiked      bool      `json:"is_liked"`
}

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	AuthorID  int       `json:"author_id"`
	Text      string    `json:"text"`
	LikeCount int       `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	CreatedAt time.Time `json:"created_at"`
	Author    *User     `json:"author,omitempty"`
}

// TagCount 热门标签聚合结果
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
