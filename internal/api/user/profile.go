package user

import (
	"fmt"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/service"
	"vently-backend/internal/storage"
	"vently-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 处理用户资料的查询与更新
type ProfileHandler struct {
	userService *service.UserService
	fileStorage storage.FileStorage
}

func NewProfileHandler(userService *service.UserService, fileStorage storage.FileStorage) *ProfileHandler {
	return &ProfileHandler{userService: userService, fileStorage: fileStorage}
}

// GetProfile 按用户名查询公开资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	viewerID := c.GetInt("user_id")

	profile, isFollowing, err := h.userService.GetProfile(username, viewerID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user":         profile,
		"is_following": isFollowing,
	}, "")
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"omitempty,max=50"`
	Bio         string `json:"bio" binding:"omitempty,max=200"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,url"`
}

// UpdateProfile 更新当前用户资料
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的资料数据", err))
		return
	}

	user := &model.User{
		ID:          c.GetInt("user_id"),
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	}
	if err := h.userService.UpdateProfile(user); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "资料更新成功")
}

// UploadAvatar 上传头像文件并更新当前用户的头像地址
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少头像文件", err))
		return
	}

	path := fmt.Sprintf("avatars/%s", util.GenerateUniqueFilename(file.Filename))
	url, err := h.fileStorage.UploadFile(file, path)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "头像上传失败", err))
		return
	}

	if err := h.userService.SetAvatar(c.GetInt("user_id"), url); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"avatar_url": url}, "头像更新成功")
}

// SearchUsers 搜索用户,查询词至少2个字符
func (h *ProfileHandler) SearchUsers(c *gin.Context) {
	users, err := h.userService.SearchUsers(c.Query("q"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, users, "")
}
