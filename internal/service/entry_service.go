package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// defaultRevisionKeepCount 未配置时每条目保留的历史版本数
const defaultRevisionKeepCount = 50

// EntryService defines the journal entry store operations. Text is the only
// mutable field of an entry; key and timestamp are fixed at creation and the
// timestamp is always assigned server-side.
// EntryService 定义日记条目存储操作。条目只有文本可变，标识与时间戳创建后不可变。
type EntryService interface {
	// ModifyOrCreate creates an entry when the key is empty, otherwise updates
	// the entry text. Empty or whitespace-only text on create is a silent
	// no-op. The returned bool reports whether a new entry was created.
	// ModifyOrCreate 创建或修改条目；创建时空白文本静默忽略
	ModifyOrCreate(ctx context.Context, uid int64, params *dto.EntryModifyRequest) (bool, *dto.EntryDTO, error)

	// CreateFromTranscript 由语音转写创建条目，来源标记为 voice
	CreateFromTranscript(ctx context.Context, uid int64, text string) (*dto.EntryDTO, error)

	// Get 根据对外标识获取条目
	Get(ctx context.Context, uid int64, key string) (*dto.EntryDTO, error)

	// List 分页获取条目，keyword 为大小写不敏感子串过滤
	List(ctx context.Context, uid int64, keyword string, page, pageSize int) (*dto.EntryListDTO, error)

	// ListAll 获取用户全部条目，时间戳倒序
	ListAll(ctx context.Context, uid int64) ([]*dto.EntryDTO, error)

	// Snapshot assembles the authoritative full snapshot pushed over the
	// websocket; concurrent requests for the same user are deduplicated.
	// Snapshot 组装推送用的权威全量快照，同一用户的并发请求会被合并
	Snapshot(ctx context.Context, uid int64) (*dto.EntrySyncPushMessage, error)

	// Delete 在单个事务中删除一批条目，返回删除数
	Delete(ctx context.Context, uid int64, keys []string) (int64, error)

	// DeleteAll 删除用户全部条目，返回删除数
	DeleteAll(ctx context.Context, uid int64) (int64, error)
}

// entryService 实现 EntryService 接口
type entryService struct {
	entryRepo    domain.EntryRepository
	revisionRepo domain.EntryRevisionRepository
	logger       *zap.Logger
	config       *ServiceConfig
	sf           *singleflight.Group
}

// NewEntryService 创建 EntryService 实例
func NewEntryService(entryRepo domain.EntryRepository, revisionRepo domain.EntryRevisionRepository, logger *zap.Logger, config *ServiceConfig) EntryService {
	return &entryService{
		entryRepo:    entryRepo,
		revisionRepo: revisionRepo,
		logger:       logger,
		config:       config,
		sf:           &singleflight.Group{},
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *entryService) domainToDTO(e *domain.Entry) *dto.EntryDTO {
	if e == nil {
		return nil
	}
	var recordedAt int64
	if e.HasTimestamp() {
		recordedAt = e.RecordedAt.Unix()
	}
	return &dto.EntryDTO{
		Key:        e.Key,
		Text:       e.Text,
		Source:     string(e.Source),
		Revision:   e.Revision,
		RecordedAt: recordedAt,
		UpdatedAt:  timex.Time(e.UpdatedAt),
		CreatedAt:  timex.Time(e.CreatedAt),
	}
}

// revisionKeepCount 每条目保留的历史版本数
func (s *entryService) revisionKeepCount() int {
	if s.config != nil && s.config.App.RevisionKeepCount > 0 {
		return s.config.App.RevisionKeepCount
	}
	return defaultRevisionKeepCount
}

// ModifyOrCreate 创建或修改条目
func (s *entryService) ModifyOrCreate(ctx context.Context, uid int64, params *dto.EntryModifyRequest) (bool, *dto.EntryDTO, error) {
	text := strings.TrimSpace(params.Text)

	if params.Key == "" {
		entry, err := s.create(ctx, uid, text, domain.EntrySourceText)
		if err != nil {
			return false, nil, err
		}
		// 空白文本：静默忽略，不视为错误
		if entry == nil {
			return false, nil, nil
		}
		return true, s.domainToDTO(entry), nil
	}

	entry, err := s.entryRepo.GetByKey(ctx, params.Key, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, code.ErrorEntryNotFound
		}
		return false, nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	// 空白更新与无变化更新都不产生新版本
	if text == "" || text == entry.Text {
		return false, s.domainToDTO(entry), nil
	}

	// 先落历史版本再改文本；恢复操作复用同一路径，所以恢复本身也会留版本
	s.recordRevision(ctx, entry, text, uid)

	if err := s.entryRepo.UpdateText(ctx, entry.ID, text, entry.Revision+1, uid); err != nil {
		return false, nil, code.ErrorEntryUpdateFailed.WithDetails(err.Error())
	}

	entry.Text = text
	entry.Revision++
	entry.UpdatedAt = time.Now()

	notifyEntryChange(uid)
	return false, s.domainToDTO(entry), nil
}

// CreateFromTranscript 由语音转写创建条目
func (s *entryService) CreateFromTranscript(ctx context.Context, uid int64, text string) (*dto.EntryDTO, error) {
	entry, err := s.create(ctx, uid, strings.TrimSpace(text), domain.EntrySourceVoice)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return s.domainToDTO(entry), nil
}

// create 创建条目；空白文本返回 (nil, nil)，时间戳由服务端赋值
func (s *entryService) create(ctx context.Context, uid int64, text string, source domain.EntrySource) (*domain.Entry, error) {
	if text == "" {
		return nil, nil
	}

	newEntry := &domain.Entry{
		Key:        uuid.NewString(),
		UID:        uid,
		Text:       text,
		Source:     source,
		Revision:   1,
		RecordedAt: time.Now(),
	}

	entry, err := s.entryRepo.Create(ctx, newEntry, uid)
	if err != nil {
		return nil, code.ErrorEntryCreateFailed.WithDetails(err.Error())
	}

	notifyEntryChange(uid)
	return entry, nil
}

// recordRevision stores the entry's current text as a revision before an
// edit replaces it, with insert/delete rune counts against the new text.
// Revision write failures are logged and never block the edit.
// recordRevision 在文本被替换前落一条历史版本，失败只记日志不阻断编辑。
func (s *entryService) recordRevision(ctx context.Context, entry *domain.Entry, newText string, uid int64) {
	inserted, deleted := diffCounts(entry.Text, newText)

	_, err := s.revisionRepo.Create(ctx, &domain.EntryRevision{
		EntryID:  entry.ID,
		UID:      uid,
		Version:  entry.Revision,
		Text:     entry.Text,
		Inserted: inserted,
		Deleted:  deleted,
	}, uid)
	if err != nil {
		s.logger.Warn("record entry revision failed",
			zap.Int64("uid", uid),
			zap.Int64("entryId", entry.ID),
			zap.Int64("version", entry.Revision),
			zap.Error(err),
		)
		return
	}

	if err := s.revisionRepo.DeleteOldVersions(ctx, entry.ID, s.revisionKeepCount(), uid); err != nil {
		s.logger.Warn("prune entry revisions failed",
			zap.Int64("uid", uid),
			zap.Int64("entryId", entry.ID),
			zap.Error(err),
		)
	}
}

// Get 根据对外标识获取条目
func (s *entryService) Get(ctx context.Context, uid int64, key string) (*dto.EntryDTO, error) {
	entry, err := s.entryRepo.GetByKey(ctx, key, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorEntryNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(entry), nil
}

// List 分页获取条目
func (s *entryService) List(ctx context.Context, uid int64, keyword string, page, pageSize int) (*dto.EntryListDTO, error) {
	entries, err := s.entryRepo.List(ctx, page, pageSize, uid, keyword)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	count, err := s.entryRepo.ListCount(ctx, uid, keyword)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	list := make([]*dto.EntryDTO, 0, len(entries))
	for _, e := range entries {
		list = append(list, s.domainToDTO(e))
	}
	return &dto.EntryListDTO{List: list, Count: count}, nil
}

// ListAll 获取用户全部条目
func (s *entryService) ListAll(ctx context.Context, uid int64) ([]*dto.EntryDTO, error) {
	entries, err := s.entryRepo.ListAll(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	list := make([]*dto.EntryDTO, 0, len(entries))
	for _, e := range entries {
		list = append(list, s.domainToDTO(e))
	}
	return list, nil
}

// Snapshot 组装全量快照
func (s *entryService) Snapshot(ctx context.Context, uid int64) (*dto.EntrySyncPushMessage, error) {
	res, err, _ := s.sf.Do(fmt.Sprintf("snapshot:%d", uid), func() (any, error) {
		list, err := s.ListAll(ctx, uid)
		if err != nil {
			return nil, err
		}
		return &dto.EntrySyncPushMessage{
			Entries:  list,
			Count:    int64(len(list)),
			LastTime: time.Now().Unix(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*dto.EntrySyncPushMessage), nil
}

// Delete 在单个事务中删除一批条目
func (s *entryService) Delete(ctx context.Context, uid int64, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	// 删除前先取条目ID，用于清理对应的历史版本
	var ids []int64
	for _, key := range keys {
		entry, err := s.entryRepo.GetByKey(ctx, key, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, code.ErrorDBQuery.WithDetails(err.Error())
		}
		ids = append(ids, entry.ID)
	}

	count, err := s.entryRepo.DeleteByKeys(ctx, keys, uid)
	if err != nil {
		return 0, code.ErrorEntryDeleteFailed.WithDetails(err.Error())
	}

	// 历史版本清理是尽力而为，残留孤儿由修剪任务兜底
	for _, id := range ids {
		if err := s.revisionRepo.DeleteByEntryID(ctx, id, uid); err != nil {
			s.logger.Warn("delete entry revisions failed",
				zap.Int64("uid", uid),
				zap.Int64("entryId", id),
				zap.Error(err),
			)
		}
	}

	if count > 0 {
		notifyEntryChange(uid)
	}
	return count, nil
}

// DeleteAll 删除用户全部条目
func (s *entryService) DeleteAll(ctx context.Context, uid int64) (int64, error) {
	ids, err := s.revisionRepo.ListEntryIDs(ctx, uid)
	if err != nil {
		s.logger.Warn("list revision entry ids failed", zap.Int64("uid", uid), zap.Error(err))
	}

	count, err := s.entryRepo.DeleteAll(ctx, uid)
	if err != nil {
		return 0, code.ErrorEntryDeleteFailed.WithDetails(err.Error())
	}

	for _, id := range ids {
		if err := s.revisionRepo.DeleteByEntryID(ctx, id, uid); err != nil {
			s.logger.Warn("delete entry revisions failed",
				zap.Int64("uid", uid),
				zap.Int64("entryId", id),
				zap.Error(err),
			)
		}
	}

	if count > 0 {
		notifyEntryChange(uid)
	}
	return count, nil
}

// diffCounts returns inserted and deleted rune counts between two texts.
// diffmatchpatch can panic on malformed UTF-8, so inputs are sanitized and a
// recover guard degrades to zero counts instead of failing the edit.
// diffCounts 计算两段文本的插入与删除字符数。
func diffCounts(before, after string) (inserted int, deleted int) {
	defer func() {
		if r := recover(); r != nil {
			inserted, deleted = 0, 0
		}
	}()

	before = strings.ToValidUTF8(before, "�")
	after = strings.ToValidUTF8(after, "�")

	dmp := diffmatchpatch.New()
	for _, d := range dmp.DiffMain(before, after, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += utf8.RuneCountInString(d.Text)
		}
	}
	return inserted, deleted
}

// 确保 entryService 实现了 EntryService 接口
var _ EntryService = (*entryService)(nil)
