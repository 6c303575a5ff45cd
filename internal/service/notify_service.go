package service

import (
	"context"
	"fmt"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/config"
	"github.com/IxSyZ/my-life-diary/internal/domain"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// NotifyService delivers best-effort email notifications to the user's own
// registered address. Failures are logged, never surfaced: a broken SMTP
// relay must not fail a backup that already succeeded.
// NotifyService 向用户注册邮箱发送尽力而为的邮件通知；SMTP 故障只记日志。
type NotifyService interface {
	// Enabled 通知是否可用
	Enabled() bool

	// BackupFailed 备份失败后通知用户
	BackupFailed(ctx context.Context, uid int64, configID int64, backupType string, message string)

	// GitMirrorFailed Git 镜像同步失败后通知用户
	GitMirrorFailed(ctx context.Context, uid int64, repoURL string, message string)
}

type notifyService struct {
	userRepo domain.UserRepository
	config   *config.MailConfig
	logger   *zap.Logger
}

// NewNotifyService 创建 NotifyService 实例
func NewNotifyService(userRepo domain.UserRepository, cfg *config.MailConfig, logger *zap.Logger) NotifyService {
	return &notifyService{
		userRepo: userRepo,
		config:   cfg,
		logger:   logger,
	}
}

// Enabled 通知是否可用
func (s *notifyService) Enabled() bool {
	return s.config != nil && s.config.IsEnabled && s.config.Host != ""
}

// BackupFailed 备份失败后通知用户
func (s *notifyService) BackupFailed(ctx context.Context, uid int64, configID int64, backupType string, message string) {
	subject := fmt.Sprintf("Diary backup failed (config #%d)", configID)
	body := fmt.Sprintf(
		"Your %s backup did not complete.\n\nConfig: #%d\nTime: %s\nReason: %s\n\nThe next scheduled run will retry automatically.",
		backupType, configID, time.Now().Format(time.RFC1123), message,
	)
	s.send(ctx, uid, subject, body)
}

// GitMirrorFailed Git 镜像同步失败后通知用户
func (s *notifyService) GitMirrorFailed(ctx context.Context, uid int64, repoURL string, message string) {
	subject := "Diary git mirror sync failed"
	body := fmt.Sprintf(
		"Mirroring your diary to %s failed.\n\nTime: %s\nReason: %s\n\nThe mirror will retry on the next journal change.",
		repoURL, time.Now().Format(time.RFC1123), message,
	)
	s.send(ctx, uid, subject, body)
}

// send 解析收件地址并投递；未启用、无邮箱或游客时静默跳过
func (s *notifyService) send(ctx context.Context, uid int64, subject, body string) {
	if !s.Enabled() {
		return
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		s.logger.Warn("notify recipient lookup failed", zap.Int64("uid", uid), zap.Error(err))
		return
	}
	if !user.HasEmail() || user.IsGuest {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	if err := d.DialAndSend(m); err != nil {
		s.logger.Warn("notification mail send failed",
			zap.Int64("uid", uid),
			zap.String("subject", subject),
			zap.Error(err))
		return
	}
	s.logger.Info("notification mail sent", zap.Int64("uid", uid), zap.String("subject", subject))
}

var _ NotifyService = (*notifyService)(nil)
