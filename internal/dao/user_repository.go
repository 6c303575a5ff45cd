// Package dao 实现数据访问层
package dao

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/model"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"gorm.io/gorm"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// user 获取完成迁移的用户查询会话
func (r *userRepository) user() *gorm.DB {
	return r.dao.Use("User")
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		Username:  m.Username,
		Nickname:  m.Nickname,
		Password:  m.Password,
		Avatar:    m.Avatar,
		IsGuest:   m.IsGuest,
		IsDeleted: m.IsDeleted,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
		DeletedAt: time.Time(m.DeletedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *userRepository) toModel(user *domain.User) *model.User {
	if user == nil {
		return nil
	}
	return &model.User{
		UID:       user.UID,
		Email:     user.Email,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Password:  user.Password,
		Avatar:    user.Avatar,
		IsGuest:   user.IsGuest,
		IsDeleted: user.IsDeleted,
		CreatedAt: timex.Time(user.CreatedAt),
		UpdatedAt: timex.Time(user.UpdatedAt),
		DeletedAt: timex.Time(user.DeletedAt),
	}
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	var m model.User
	err := r.user().WithContext(ctx).
		Where("uid = ? AND is_deleted = ?", uid, false).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m model.User
	err := r.user().WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m model.User
	err := r.user().WithContext(ctx).
		Where("username = ? AND is_deleted = ?", username, false).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := r.toModel(user)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	if err := r.user().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdatePassword 更新用户密码
func (r *userRepository) UpdatePassword(ctx context.Context, password string, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return r.user().WithContext(ctx).
			Model(&model.User{}).
			Where("uid = ?", uid).
			Updates(map[string]interface{}{
				"password":   password,
				"updated_at": timex.Now(),
			}).Error
	})
}

// UpdateProfile 更新昵称与头像
func (r *userRepository) UpdateProfile(ctx context.Context, nickname, avatar string, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return r.user().WithContext(ctx).
			Model(&model.User{}).
			Where("uid = ?", uid).
			Updates(map[string]interface{}{
				"nickname":   nickname,
				"avatar":     avatar,
				"updated_at": timex.Now(),
			}).Error
	})
}

// GetAllUIDs 获取所有用户UID
func (r *userRepository) GetAllUIDs(ctx context.Context) ([]int64, error) {
	var uids []int64
	err := r.user().WithContext(ctx).
		Model(&model.User{}).
		Where("is_deleted = ?", false).
		Pluck("uid", &uids).Error
	if err != nil {
		return nil, err
	}
	return uids, nil
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)
