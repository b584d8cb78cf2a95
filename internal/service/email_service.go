package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"vently-backend/config"
	"vently-backend/internal/model"
	"vently-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
}

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost: config.AppConfig.SMTPHost,
		smtpPort: config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUsername,
		password: config.AppConfig.SMTPPassword,
	}
}

// SendVerificationEmail 发送邮箱验证邮件,链接24小时内有效
func (s *EmailService) SendVerificationEmail(user *model.User) error {
	token, err := util.GeneratePurposeToken(user.ID, "verify_email", 24*time.Hour)
	if err != nil {
		util.Logger.Error("生成验证令牌失败", zap.Error(err))
		return fmt.Errorf("生成验证令牌失败: %w", err)
	}

	verificationLink := fmt.Sprintf("%s/verify-email?token=%s", config.AppConfig.FrontendURL, token)
	subject := "验证您的邮箱"
	body := fmt.Sprintf("亲爱的 %s，\n\n请点击以下链接验证您的邮箱：\n%s\n\n此链接将在24小时后过期。", user.Username, verificationLink)

	s.sendEmailAsync(user.Email, subject, body)
	return nil
}

// SendPasswordResetEmail 发送密码重置邮件,链接1小时内有效
func (s *EmailService) SendPasswordResetEmail(user *model.User) error {
	token, err := util.GeneratePurposeToken(user.ID, "reset_password", time.Hour)
	if err != nil {
		util.Logger.Error("生成重置令牌失败", zap.Error(err))
		return fmt.Errorf("生成重置令牌失败: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)
	subject := "重置您的密码"
	body := fmt.Sprintf("亲爱的 %s，\n\n请点击以下链接重置您的密码：\n%s\n\n此链接将在1小时后过期。如果这不是您本人的操作，请忽略此邮件。", user.Username, resetLink)

	s.sendEmailAsync(user.Email, subject, body)
	return nil
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}
