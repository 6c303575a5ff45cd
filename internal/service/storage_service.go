package service

import (
	"context"
	"errors"

	"github.com/IxSyZ/my-life-diary/internal/config"
	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/storage"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"gorm.io/gorm"
)

// StorageService manages the per-user backup target configurations and
// hands out ready clients for them. Which storage types may be configured
// at all is a server-level switch.
// StorageService 管理按用户的备份目标配置并提供可用客户端；
// 可配置的存储类型由服务端开关决定。
type StorageService interface {
	// CreateOrUpdate 创建或更新存储配置，id 为 0 时创建
	CreateOrUpdate(ctx context.Context, uid int64, id int64, storageDTO *dto.StorageDTO) (*dto.StorageDTO, error)

	// Get 获取存储配置
	Get(ctx context.Context, uid int64, id int64) (*dto.StorageDTO, error)

	// List 获取当前用户的存储配置列表
	List(ctx context.Context, uid int64) ([]*dto.StorageDTO, error)

	// Delete 删除存储配置
	Delete(ctx context.Context, uid int64, id int64) error

	// GetEnabledTypes 获取服务端启用的存储类型列表
	GetEnabledTypes() []string

	// Client builds a storage client for one configured target. Backups and
	// exports ship files through it.
	// Client 按配置构建存储客户端，备份与导出经由它上传。
	Client(ctx context.Context, uid int64, id int64) (storage.Storager, error)
}

type storageService struct {
	repo   domain.StorageRepository
	config *config.StorageConfig
}

// NewStorageService 创建 StorageService 实例
func NewStorageService(repo domain.StorageRepository, config *config.StorageConfig) StorageService {
	return &storageService{repo: repo, config: config}
}

func (s *storageService) domainToDTO(m *domain.Storage) *dto.StorageDTO {
	if m == nil {
		return nil
	}
	return &dto.StorageDTO{
		ID:              m.ID,
		UID:             m.UID,
		Type:            m.Type,
		Endpoint:        m.Endpoint,
		Region:          m.Region,
		AccountID:       m.AccountID,
		BucketName:      m.BucketName,
		AccessKeyID:     m.AccessKeyID,
		AccessKeySecret: m.AccessKeySecret,
		CustomPath:      m.CustomPath,
		User:            m.User,
		Password:        m.Password,
		CreatedAt:       timex.Time(m.CreatedAt),
		UpdatedAt:       timex.Time(m.UpdatedAt),
	}
}

func (s *storageService) dtoToDomain(d *dto.StorageDTO) *domain.Storage {
	if d == nil {
		return nil
	}
	return &domain.Storage{
		ID:              d.ID,
		UID:             d.UID,
		Type:            d.Type,
		Endpoint:        d.Endpoint,
		Region:          d.Region,
		AccountID:       d.AccountID,
		BucketName:      d.BucketName,
		AccessKeyID:     d.AccessKeyID,
		AccessKeySecret: d.AccessKeySecret,
		CustomPath:      d.CustomPath,
		User:            d.User,
		Password:        d.Password,
	}
}

// CreateOrUpdate 创建或更新存储配置
func (s *storageService) CreateOrUpdate(ctx context.Context, uid int64, id int64, storageDTO *dto.StorageDTO) (*dto.StorageDTO, error) {
	if !storage.StorageTypeMap[storageDTO.Type] {
		return nil, code.ErrorInvalidStorageType.WithDetails(storageDTO.Type)
	}
	if !s.isStorageTypeEnabled(storageDTO.Type) {
		return nil, code.ErrorStorageTypeDisabled.WithDetails(storageDTO.Type)
	}

	m := s.dtoToDomain(storageDTO)
	m.UID = uid

	var result *domain.Storage
	var err error
	if id > 0 {
		m.ID = id
		err = s.repo.Update(ctx, m, uid)
		result = m
	} else {
		result, err = s.repo.Create(ctx, m, uid)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorStorageNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(result), nil
}

// Get 获取存储配置
func (s *storageService) Get(ctx context.Context, uid int64, id int64) (*dto.StorageDTO, error) {
	result, err := s.repo.GetByID(ctx, id, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorStorageNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(result), nil
}

// List 获取当前用户的存储配置列表
func (s *storageService) List(ctx context.Context, uid int64) ([]*dto.StorageDTO, error) {
	results, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	dtos := make([]*dto.StorageDTO, 0, len(results))
	for _, r := range results {
		dtos = append(dtos, s.domainToDTO(r))
	}
	return dtos, nil
}

// Delete 删除存储配置（软删除）
func (s *storageService) Delete(ctx context.Context, uid int64, id int64) error {
	if err := s.repo.Delete(ctx, id, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorStorageNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// GetEnabledTypes 获取服务端启用的存储类型列表
func (s *storageService) GetEnabledTypes() []string {
	var types []string
	if s.config.LocalFS.IsEnabled {
		types = append(types, string(storage.LOCAL))
	}
	if s.config.AliyunOSS.IsEnabled {
		types = append(types, string(storage.OSS))
	}
	if s.config.AwsS3.IsEnabled {
		types = append(types, string(storage.S3))
	}
	if s.config.CloudflareR2.IsEnabled {
		types = append(types, string(storage.R2))
	}
	if s.config.MinIO.IsEnabled {
		types = append(types, string(storage.MinIO))
	}
	if s.config.WebDAV.IsEnabled {
		types = append(types, string(storage.WebDAV))
	}
	return types
}

// Client 按配置构建存储客户端
func (s *storageService) Client(ctx context.Context, uid int64, id int64) (storage.Storager, error) {
	m, err := s.repo.GetByID(ctx, id, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorStorageNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !s.isStorageTypeEnabled(m.Type) {
		return nil, code.ErrorStorageTypeDisabled.WithDetails(m.Type)
	}

	cfg := &storage.Config{
		Type:            m.Type,
		IsEnabled:       true,
		CustomPath:      m.CustomPath,
		Endpoint:        m.Endpoint,
		Region:          m.Region,
		BucketName:      m.BucketName,
		AccessKeyID:     m.AccessKeyID,
		AccessKeySecret: m.AccessKeySecret,
		AccountID:       m.AccountID,
		User:            m.User,
		Password:        m.Password,
	}
	// 本地目标的落盘根目录由服务端配置决定，用户行里只有桶内前缀
	if m.Type == storage.LOCAL {
		cfg.SavePath = s.config.LocalFS.SavePath
	}
	return storage.NewClient(cfg)
}

func (s *storageService) isStorageTypeEnabled(t string) bool {
	switch storage.Type(t) {
	case storage.LOCAL:
		return s.config.LocalFS.IsEnabled
	case storage.OSS:
		return s.config.AliyunOSS.IsEnabled
	case storage.S3:
		return s.config.AwsS3.IsEnabled
	case storage.R2:
		return s.config.CloudflareR2.IsEnabled
	case storage.MinIO:
		return s.config.MinIO.IsEnabled
	case storage.WebDAV:
		return s.config.WebDAV.IsEnabled
	default:
		return false
	}
}

var _ StorageService = (*storageService)(nil)
