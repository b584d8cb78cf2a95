package model

import "time"

// User 结构体表示用户模型。用户名全部以小写存储，作为大小写不敏感的唯一标识
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // 密码哈希不应在JSON中暴露
	DisplayName  string    `json:"display_name"`
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"avatar_url"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`

	// 以下字段由查询派生，不存储在用户表中
	FollowerCount  int `json:"follower_count,omitempty"`
	FollowingCount int `json:"following_count,omitempty"`
	PostCount      int `json:"post_count,omitempty"`
}

// Follow 表示一条关注边。一行同时承载"A关注B"和"B被A关注"两个方向，
// 插入和删除天然原子，不存在只更新一侧的中间状态
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id"`
	FollowedID int       `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
