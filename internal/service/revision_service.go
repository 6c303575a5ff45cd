package service

import (
	"context"
	"errors"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RevisionService exposes the per-entry edit history. Every text change
// stores the superseded text as a new revision; restoring goes through the
// normal edit path so the pre-restore text is itself preserved.
// RevisionService 提供条目编辑历史。每次文本变更都会把被替换的文本存为
// 新版本，恢复走普通编辑路径，恢复前的文本同样会被保留。
type RevisionService interface {
	// List 按条目标识分页获取历史版本，新在前
	List(ctx context.Context, uid int64, key string, page, pageSize int) (*dto.RevisionListDTO, error)

	// Get 按ID获取一个历史版本
	Get(ctx context.Context, uid int64, id int64) (*dto.RevisionDTO, error)

	// Restore 将条目文本恢复到指定版本，返回恢复后的条目
	Restore(ctx context.Context, uid int64, id int64) (*dto.EntryDTO, error)

	// Prune drops revisions beyond the keep count for every entry of the
	// user and clears revisions whose entry no longer exists.
	// Prune 清理超出保留数的版本与孤儿版本
	Prune(ctx context.Context, uid int64) error
}

type revisionService struct {
	entryRepo    domain.EntryRepository
	revisionRepo domain.EntryRevisionRepository
	entrySvc     EntryService
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewRevisionService 创建 RevisionService 实例
func NewRevisionService(
	entryRepo domain.EntryRepository,
	revisionRepo domain.EntryRevisionRepository,
	entrySvc EntryService,
	logger *zap.Logger,
	config *ServiceConfig,
) RevisionService {
	return &revisionService{
		entryRepo:    entryRepo,
		revisionRepo: revisionRepo,
		entrySvc:     entrySvc,
		logger:       logger,
		config:       config,
	}
}

func (s *revisionService) domainToDTO(r *domain.EntryRevision, entryKey string) *dto.RevisionDTO {
	return &dto.RevisionDTO{
		ID:        r.ID,
		EntryKey:  entryKey,
		Version:   r.Version,
		Text:      r.Text,
		Inserted:  r.Inserted,
		Deleted:   r.Deleted,
		CreatedAt: timex.Time(r.CreatedAt),
	}
}

// List 分页获取某条目的历史版本
func (s *revisionService) List(ctx context.Context, uid int64, key string, page, pageSize int) (*dto.RevisionListDTO, error) {
	entry, err := s.entryRepo.GetByKey(ctx, key, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorEntryNotFound
		}
		s.logger.Error("revision list entry lookup failed", zap.Int64("uid", uid), zap.String("key", key), zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	revisions, count, err := s.revisionRepo.ListByEntryID(ctx, entry.ID, page, pageSize, uid)
	if err != nil {
		s.logger.Error("revision list failed", zap.Int64("uid", uid), zap.Int64("entryID", entry.ID), zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	list := make([]*dto.RevisionDTO, 0, len(revisions))
	for _, r := range revisions {
		list = append(list, s.domainToDTO(r, entry.Key))
	}
	return &dto.RevisionListDTO{List: list, Count: count}, nil
}

// Get 按ID获取一个历史版本
func (s *revisionService) Get(ctx context.Context, uid int64, id int64) (*dto.RevisionDTO, error) {
	revision, err := s.revisionRepo.GetByID(ctx, id, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorHistoryNotFound
		}
		s.logger.Error("revision get failed", zap.Int64("uid", uid), zap.Int64("id", id), zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	entry, err := s.entryRepo.GetByID(ctx, revision.EntryID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 条目已删除，版本成为孤儿
			return nil, code.ErrorEntryNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(revision, entry.Key), nil
}

// Restore 恢复条目文本到指定版本。复用普通编辑路径，因此恢复前的文本
// 会作为新版本留存，恢复操作本身可再次撤销。
func (s *revisionService) Restore(ctx context.Context, uid int64, id int64) (*dto.EntryDTO, error) {
	revision, err := s.revisionRepo.GetByID(ctx, id, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorHistoryNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	entry, err := s.entryRepo.GetByID(ctx, revision.EntryID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorEntryNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	_, restored, err := s.entrySvc.ModifyOrCreate(ctx, uid, &dto.EntryModifyRequest{
		Key:  entry.Key,
		Text: revision.Text,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("entry restored to revision",
		zap.Int64("uid", uid),
		zap.String("key", entry.Key),
		zap.Int64("version", revision.Version))
	return restored, nil
}

// Prune 清理历史版本：条目已删除的版本整组移除，存活条目按保留数截断
func (s *revisionService) Prune(ctx context.Context, uid int64) error {
	entryIDs, err := s.revisionRepo.ListEntryIDs(ctx, uid)
	if err != nil {
		return err
	}

	keep := defaultRevisionKeepCount
	if s.config != nil && s.config.App.RevisionKeepCount > 0 {
		keep = s.config.App.RevisionKeepCount
	}

	for _, entryID := range entryIDs {
		_, err := s.entryRepo.GetByID(ctx, entryID, uid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.revisionRepo.DeleteByEntryID(ctx, entryID, uid); err != nil {
				s.logger.Warn("orphan revision cleanup failed", zap.Int64("entryID", entryID), zap.Error(err))
			}
			continue
		}
		if err != nil {
			s.logger.Warn("revision prune entry lookup failed", zap.Int64("entryID", entryID), zap.Error(err))
			continue
		}
		if err := s.revisionRepo.DeleteOldVersions(ctx, entryID, keep, uid); err != nil {
			s.logger.Warn("revision prune failed", zap.Int64("entryID", entryID), zap.Error(err))
		}
	}
	return nil
}

var _ RevisionService = (*revisionService)(nil)
