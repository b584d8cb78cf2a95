package service

import (
	"database/sql"
	"fmt"
	"mime/multipart"
	"strings"

	"vently-backend/config"
	"vently-backend/internal/errors"
	"vently-backend/internal/model"
	"vently-backend/internal/repository/interfaces"
	"vently-backend/internal/storage"
	"vently-backend/internal/util"

	"go.uber.org/zap"
)

const maxCaptionLength = 300

// PostService 处理音频帖子的业务逻辑
type PostService struct {
	postRepo       interfaces.PostRepository
	engagementRepo interfaces.EngagementRepository
	fileStorage    storage.FileStorage
}

func NewPostService(postRepo interfaces.PostRepository, engagementRepo interfaces.EngagementRepository, fileStorage storage.FileStorage) *PostService {
	return &PostService{
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
		fileStorage:    fileStorage,
	}
}

// NormalizeTags 规整标签:去首尾空白,去掉开头的#,转小写,丢弃空标签。
// 同一帖子内的重复标签保留,热门统计会将其计入多次
func NormalizeTags(tags []string) []string {
	var normalized []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, "#")
		tag = strings.ToLower(tag)
		if tag == "" {
			continue
		}
		normalized = append(normalized, tag)
	}
	return normalized
}

// CreatePost 创建帖子,标签在落库前统一规整
func (s *PostService) CreatePost(post *model.Post, tags []string) error {
	if post.AudioURL == "" {
		return errors.New(errors.ErrValidation, "音频地址不能为空")
	}
	if len(post.Caption) > maxCaptionLength {
		return errors.New(errors.ErrValidation, "描述不能超过300个字符")
	}
	if post.Duration <= 0 || post.Duration > config.AppConfig.MaxAudioDuration {
		return errors.New(errors.ErrValidation, "音频时长超出允许范围")
	}

	if err := s.postRepo.CreatePost(post, NormalizeTags(tags)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建帖子失败", err)
	}
	return nil
}

// UploadAudio 上传音频文件并返回访问地址
func (s *PostService) UploadAudio(file *multipart.FileHeader) (string, error) {
	filename := util.GenerateUniqueFilename(file.Filename)
	path := fmt.Sprintf("audio/%s", filename)

	url, err := s.fileStorage.UploadFile(file, path)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "音频上传失败", err)
	}
	return url, nil
}

// GetPost 查询单个帖子。私密帖子仅作者本人可见,对其他人表现为不存在
func (s *PostService) GetPost(id, viewerID int) (*model.Post, error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil || (!post.IsPublic && post.AuthorID != viewerID) {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if viewerID > 0 {
		liked, err := s.engagementRepo.IsPostLikedByUser(post.ID, viewerID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "查询点赞状态失败", err)
		}
		post.IsLiked = liked
	}
	return post, nil
}

// DeletePost 删除帖子及其所有关联数据,仅作者本人可操作
func (s *PostService) DeletePost(id, requesterID int) error {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.AuthorID != requesterID {
		return errors.New(errors.ErrForbidden, "只有作者可以删除帖子")
	}

	if err := s.postRepo.DeletePost(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除帖子失败", err)
	}

	// 存储中的音频文件清理失败不影响删除结果
	if s.fileStorage != nil {
		if err := s.fileStorage.DeleteFile(post.AudioURL); err != nil {
			util.Logger.Warn("删除音频文件失败", zap.Error(err), zap.String("audio_url", post.AudioURL))
		}
	}
	return nil
}

// IncrementPlay 原子增加播放数,播放不产生通知
func (s *PostService) IncrementPlay(id int) error {
	if err := s.postRepo.IncrementPlayCount(id); err != nil {
		if err == sql.ErrNoRows {
			return errors.New(errors.ErrPostNotFound, "帖子不存在")
		}
		return errors.Wrap(errors.ErrDatabase, "更新播放数失败", err)
	}
	return nil
}
