package post

import (
	"strconv"
	"strings"

	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/service"
	"vently-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理音频帖子的创建、查询和删除
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type createPostRequest struct {
	AudioURL string   `json:"audio_url" binding:"required"`
	Duration int      `json:"duration" binding:"required,audio_duration"`
	Caption  string   `json:"caption" binding:"omitempty,max=300"`
	Tags     []string `json:"tags"`
	IsPublic *bool    `json:"is_public"`
}

// CreatePost 创建帖子。音频可以多部分表单直接上传,
// 也可以先上传后以 JSON 提交音频地址
func (h *PostHandler) CreatePost(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		h.createPostJSON(c)
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法解析表单数据", err))
		return
	}

	duration, err := strconv.Atoi(c.PostForm("duration"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的音频时长"))
		return
	}

	isPublic := true
	if v := c.PostForm("is_public"); v != "" {
		isPublic, _ = strconv.ParseBool(v)
	}

	audioURL := c.PostForm("audio_url")
	if file, err := c.FormFile("audio"); err == nil {
		audioURL, err = h.postService.UploadAudio(file)
		if err != nil {
			util.Logger.Error("音频上传失败", zap.Error(err))
			errors.HandleError(c, err)
			return
		}
	}

	var tags []string
	if form, err := c.MultipartForm(); err == nil && len(form.Value["tags[]"]) > 0 {
		tags = form.Value["tags[]"]
	} else if raw := c.PostForm("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	post := &model.Post{
		AuthorID: c.GetInt("user_id"),
		AudioURL: audioURL,
		Duration: duration,
		Caption:  c.PostForm("caption"),
		IsPublic: isPublic,
	}
	if err := h.postService.CreatePost(post, tags); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, post, "帖子发布成功")
}

func (h *PostHandler) createPostJSON(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子数据", err))
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := &model.Post{
		AuthorID: c.GetInt("user_id"),
		AudioURL: req.AudioURL,
		Duration: req.Duration,
		Caption:  req.Caption,
		IsPublic: isPublic,
	}
	if err := h.postService.CreatePost(post, req.Tags); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "帖子发布成功")
}

// GetPost 查询单个帖子
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	post, err := h.postService.GetPost(id, c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "")
}

// DeletePost 删除帖子,仅作者可操作
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	if err := h.postService.DeletePost(id, c.GetInt("user_id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "帖子删除成功")
}

// Play 记录一次播放
func (h *PostHandler) Play(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	if err := h.postService.IncrementPlay(id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "")
}
