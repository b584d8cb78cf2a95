package util

import (
	"vently-backend/config"

	"github.com/go-playground/validator/v10"
)

// ValidateAudioDuration 验证音频时长是否在允许范围内
func ValidateAudioDuration(fl validator.FieldLevel) bool {
	duration, ok := fl.Field().Interface().(int)
	if !ok {
		return false
	}
	return duration > 0 && duration <= config.AppConfig.MaxAudioDuration
}
