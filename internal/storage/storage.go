package storage

import (
	"fmt"
	"mime/multipart"

	"vently-backend/config"
)

// FileStorage 音频文件存储接口
type FileStorage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
	DeleteFile(path string) error
}

// NewFromConfig 根据配置选择存储后端,优先 S3,其次 GCS,默认本地存储
func NewFromConfig(cfg *config.Config) (FileStorage, error) {
	switch {
	case cfg.S3Bucket != "":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case cfg.GCSBucketName != "":
		return NewGCSClient(cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	case cfg.LocalStoragePath != "":
		return NewLocalStorage(cfg.LocalStoragePath)
	}
	return nil, fmt.Errorf("未配置任何存储后端")
}
