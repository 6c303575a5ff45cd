package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/export"
	"github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/timex"
	"github.com/IxSyZ/my-life-diary/pkg/util"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var errNoUpdates = errors.New("no updates found")

// BackupService archives the journal to the user's configured storage
// targets. Full and incremental backups render per-day markdown files and
// upload one zip archive; sync mirrors the day files directly.
// BackupService 将日记归档到用户配置的存储目标；全量/增量备份打包 ZIP 上传，
// sync 类型直接逐文件镜像按天 Markdown。
type BackupService interface {
	GetConfigs(ctx context.Context, uid int64) ([]*dto.BackupConfigDTO, error)
	DeleteConfig(ctx context.Context, uid int64, configID int64) error
	UpdateConfig(ctx context.Context, uid int64, req *dto.BackupConfigRequest) (*dto.BackupConfigDTO, error)
	ListHistory(ctx context.Context, uid int64, configID int64, pager *app.Pager) ([]*dto.BackupHistoryDTO, int64, error)
	ExecuteUserBackup(ctx context.Context, uid int64, configID int64) error
	ExecuteTaskBackups(ctx context.Context) error
	NotifyUpdated(uid int64)
	Shutdown(ctx context.Context) error
}

type backupService struct {
	backupRepo   domain.BackupRepository
	entryRepo    domain.EntryRepository
	storageSvc   StorageService
	notifySvc    NotifyService
	logger       *zap.Logger
	config       *ServiceConfig
	loc          *time.Location
	syncTimers   map[int64]*time.Timer
	timerMu      sync.Mutex
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	pendingSyncs sync.Map                     // key: uid (int64), value: bool
	runningTasks map[int64]context.CancelFunc // key: configID
	runningMu    sync.Mutex
}

// NewBackupService creates BackupService instance
// 创建 BackupService 实例
func NewBackupService(
	backupRepo domain.BackupRepository,
	entryRepo domain.EntryRepository,
	storageSvc StorageService,
	notifySvc NotifyService,
	logger *zap.Logger,
	config *ServiceConfig,
) BackupService {
	ctx, cancel := context.WithCancel(context.Background())
	return &backupService{
		backupRepo:   backupRepo,
		entryRepo:    entryRepo,
		storageSvc:   storageSvc,
		notifySvc:    notifySvc,
		logger:       logger,
		config:       config,
		loc:          loadLocation(config, logger),
		syncTimers:   make(map[int64]*time.Timer),
		runningTasks: make(map[int64]context.CancelFunc),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// GetConfigs Get user's backup configurations
// 获取用户的备份配置列表
func (s *backupService) GetConfigs(ctx context.Context, uid int64) ([]*dto.BackupConfigDTO, error) {
	configs, err := s.backupRepo.ListConfigs(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var results []*dto.BackupConfigDTO
	for _, c := range configs {
		results = append(results, s.configToDTO(c))
	}
	return results, nil
}

// UpdateConfig Update or create backup configuration
// 更新或创建备份配置
func (s *backupService) UpdateConfig(ctx context.Context, uid int64, req *dto.BackupConfigRequest) (*dto.BackupConfigDTO, error) {
	// Validate storage IDs
	var storageIds []int64
	if err := json.Unmarshal([]byte(req.StorageIds), &storageIds); err != nil || len(storageIds) == 0 {
		return nil, code.ErrorBackupStorageIDs
	}
	for _, sid := range storageIds {
		if _, err := s.storageSvc.Get(ctx, uid, sid); err != nil {
			return nil, code.ErrorStorageNotFound
		}
	}

	// Validate custom cron expression up front so a bad one never reaches
	// the scheduler
	if req.CronStrategy == "custom" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(req.CronExpression); err != nil {
			return nil, code.ErrorBackupCronInvalid.WithDetails(err.Error())
		}
	}

	config := &domain.BackupConfig{
		ID:             req.ID,
		UID:            uid,
		Type:           req.Type,
		StorageIds:     req.StorageIds,
		IsEnabled:      req.IsEnabled,
		CronStrategy:   req.CronStrategy,
		CronExpression: req.CronExpression,
		RetentionDays:  req.RetentionDays,
	}

	// Preserve state fields if updating existing config
	if req.ID > 0 {
		old, err := s.backupRepo.GetConfigByID(ctx, req.ID, uid)
		if err != nil || old == nil {
			return nil, code.ErrorBackupConfigNotFound
		}
		config.LastRunTime = old.LastRunTime
		config.LastStatus = old.LastStatus
		config.LastMessage = old.LastMessage
	}

	s.calculateNextRunTime(config)

	if req.ID > 0 {
		if err := s.backupRepo.UpdateConfig(ctx, config, uid); err != nil {
			return nil, code.ErrorConfigSaveFailed.WithDetails(err.Error())
		}
	} else {
		created, err := s.backupRepo.CreateConfig(ctx, config, uid)
		if err != nil {
			return nil, code.ErrorConfigSaveFailed.WithDetails(err.Error())
		}
		config = created
	}

	// A freshly enabled sync mirror catches up immediately
	if config.IsEnabled && config.Type == domain.BackupTypeSync {
		s.pendingSyncs.Store(uid, true)
	}

	return s.configToDTO(config), nil
}

// DeleteConfig Deletes a backup configuration
// 删除备份配置
func (s *backupService) DeleteConfig(ctx context.Context, uid int64, configID int64) error {
	config, err := s.backupRepo.GetConfigByID(ctx, configID, uid)
	if err != nil || config == nil {
		return code.ErrorBackupConfigNotFound
	}
	if err := s.backupRepo.DeleteConfig(ctx, configID, uid); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// ListHistory List backup history with pagination
// 分页查询备份历史记录
func (s *backupService) ListHistory(ctx context.Context, uid int64, configID int64, pager *app.Pager) ([]*dto.BackupHistoryDTO, int64, error) {
	histories, count, err := s.backupRepo.ListHistory(ctx, configID, pager.Page, pager.PageSize, uid)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}

	var results []*dto.BackupHistoryDTO
	for _, h := range histories {
		results = append(results, s.historyToDTO(h))
	}
	return results, count, nil
}

func (s *backupService) configToDTO(d *domain.BackupConfig) *dto.BackupConfigDTO {
	if d == nil {
		return nil
	}
	return &dto.BackupConfigDTO{
		ID:             d.ID,
		UID:            d.UID,
		Type:           d.Type,
		StorageIds:     d.StorageIds,
		IsEnabled:      d.IsEnabled,
		CronStrategy:   d.CronStrategy,
		CronExpression: d.CronExpression,
		RetentionDays:  d.RetentionDays,
		LastRunTime:    timex.Time(d.LastRunTime),
		NextRunTime:    timex.Time(d.NextRunTime),
		LastStatus:     d.LastStatus,
		LastMessage:    d.LastMessage,
		CreatedAt:      timex.Time(d.CreatedAt),
		UpdatedAt:      timex.Time(d.UpdatedAt),
	}
}

func (s *backupService) historyToDTO(d *domain.BackupHistory) *dto.BackupHistoryDTO {
	if d == nil {
		return nil
	}
	return &dto.BackupHistoryDTO{
		ID:        d.ID,
		UID:       d.UID,
		ConfigID:  d.ConfigID,
		StorageID: d.StorageID,
		Type:      d.Type,
		StartTime: timex.Time(d.StartTime),
		EndTime:   timex.Time(d.EndTime),
		Status:    d.Status,
		FileSize:  d.FileSize,
		FileCount: d.FileCount,
		Message:   d.Message,
		FilePath:  d.FilePath,
		CreatedAt: timex.Time(d.CreatedAt),
		UpdatedAt: timex.Time(d.UpdatedAt),
	}
}

// ExecuteUserBackup Manually execute user backup task
// 手动执行用户备份任务
func (s *backupService) ExecuteUserBackup(ctx context.Context, uid int64, configID int64) error {
	if configID <= 0 {
		return code.ErrorInvalidParams
	}

	config, err := s.backupRepo.GetConfigByID(ctx, configID, uid)
	if err != nil || config == nil {
		return code.ErrorBackupConfigNotFound
	}
	if !config.IsEnabled {
		return code.ErrorBackupDisabled
	}

	if err := s.handleBackup(ctx, config, true); err != nil {
		// Service shutdown errors bypass finishTask and are not persisted to history
		if s.ctx.Err() != nil {
			return err
		}
		s.logger.Warn("Manual backup completed with errors",
			zap.Int64("uid", uid),
			zap.Int64("configID", configID),
			zap.Error(err),
		)
	}
	return nil
}

// ExecuteTaskBackups Poll and process all scheduled backup tasks
// 轮询处理所有待执行的定时备份任务
func (s *backupService) ExecuteTaskBackups(ctx context.Context) error {
	configs, err := s.backupRepo.ListEnabledConfigs(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, config := range configs {
		if !config.IsEnabled {
			continue
		}

		// Check if user has pending changes
		_, pending := s.pendingSyncs.LoadAndDelete(config.UID)

		isScheduled := config.NextRunTime.Before(now)
		shouldTrigger := false

		if isScheduled {
			shouldTrigger = true
		} else if pending && config.Type == domain.BackupTypeSync {
			// Only sync mirrors may be triggered directly by changes (debounced)
			shouldTrigger = true
		}

		if shouldTrigger {
			s.logger.Info("Triggering backup task",
				zap.Int64("uid", config.UID),
				zap.String("type", config.Type),
				zap.Bool("isScheduled", isScheduled),
				zap.Bool("isPending", pending),
			)
			go func(cfg *domain.BackupConfig, p bool) {
				// Use service context to support graceful shutdown
				if err := s.handleBackup(s.ctx, cfg, p); err != nil {
					s.logger.Error("Backup execution failed", zap.Int64("uid", cfg.UID), zap.Error(err))
				}
			}(config, pending)
		}
	}

	return nil
}

// calculateNextRunTime Calculate next run time based on Cron strategy
// 根据 Cron 策略计算下次运行时间
func (s *backupService) calculateNextRunTime(config *domain.BackupConfig) {
	if !config.IsEnabled {
		return
	}

	if config.Type == domain.BackupTypeSync {
		// Sync mirrors are change-driven, never clock-driven
		config.NextRunTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
		return
	}

	expr := ""
	switch config.CronStrategy {
	case "daily":
		expr = "0 0 * * *" // Midnight daily
	case "weekly":
		expr = "0 0 * * 0" // Midnight Sunday
	case "monthly":
		expr = "0 0 1 * *" // Midnight 1st of month
	case "custom":
		expr = config.CronExpression
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		s.logger.Error("Failed to parse cron expression", zap.String("expr", expr), zap.Error(err))
		return
	}

	config.NextRunTime = schedule.Next(time.Now())
}

// handleBackup Core entry point for performing an archive or mirror run
// 执行归档/镜像的核心入口
func (s *backupService) handleBackup(ctx context.Context, config *domain.BackupConfig, isPending bool) error {
	uid := config.UID
	configID := config.ID

	// 并发冲突处理策略
	s.runningMu.Lock()
	if cancel, running := s.runningTasks[configID]; running {
		if config.Type == domain.BackupTypeSync {
			// 同步任务策略：取消旧任务，执行新任务
			s.logger.Info("Cancelling existing sync task to start a newer one", zap.Int64("uid", uid), zap.Int64("configID", configID))
			cancel()
			delete(s.runningTasks, configID)
		} else {
			// 归档策略：保留旧任务，忽略新任务
			s.runningMu.Unlock()
			s.logger.Info("Backup task already running, skipping this trigger", zap.Int64("uid", uid), zap.Int64("configID", configID), zap.String("type", config.Type))
			return nil
		}
	}

	taskCtx, taskCancel := context.WithCancel(ctx)
	s.runningTasks[configID] = taskCancel
	s.runningMu.Unlock()

	defer func() {
		s.runningMu.Lock()
		delete(s.runningTasks, configID)
		s.runningMu.Unlock()
		taskCancel()
	}()

	s.wg.Add(1)
	defer s.wg.Done()

	select {
	case <-taskCtx.Done():
		return taskCtx.Err()
	default:
	}

	startTime := time.Now()
	prevRunTime := config.LastRunTime // 记录本次执行前的上一次执行时间

	shouldRun := false
	switch config.Type {
	case domain.BackupTypeFull:
		shouldRun = true
	case domain.BackupTypeIncremental, domain.BackupTypeSync:
		// First run (prevRunTime is zero) must execute to create a base backup
		if isPending || prevRunTime.IsZero() || config.NextRunTime.Before(startTime) {
			shouldRun = true
		}
	default:
		return code.ErrorBackupTypeUnknown
	}

	if !shouldRun {
		s.logger.Info("Skipping backup: no pending changes", zap.Int64("uid", uid), zap.String("type", config.Type))
		return s.finishTask(config, errNoUpdates, 0, 0, startTime)
	}

	s.logger.Info("handleBackup start", zap.Int64("uid", uid), zap.String("type", config.Type))

	// 设置运行状态 (Running)
	s.updateRunStatus(config, domain.BackupStatusRunning, "Backup running", startTime)

	var fileCount, fileSize int64
	var backupErr error

	switch config.Type {
	case domain.BackupTypeFull, domain.BackupTypeIncremental:
		fileCount, fileSize, backupErr = s.runArchive(taskCtx, config, startTime, prevRunTime)
	case domain.BackupTypeSync:
		fileCount, fileSize, backupErr = s.runSync(taskCtx, config, startTime, prevRunTime)
	}

	return s.finishTask(config, backupErr, fileCount, fileSize, startTime)
}

// renderDayFiles renders the journal as per-day markdown files for the run.
// Full backups render everything, incremental and sync runs only the days
// touched since the previous run.
// renderDayFiles 渲染本次运行的按天 Markdown；全量渲染全部，
// 增量与同步只渲染上次运行以来有变更的天。
func (s *backupService) renderDayFiles(ctx context.Context, config *domain.BackupConfig, lastRun time.Time) (map[string][]byte, error) {
	entries, err := s.entryRepo.ListAll(ctx, config.UID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if config.Type == domain.BackupTypeFull {
		return export.DayFiles(entries, s.loc), nil
	}
	return export.ChangedDayFiles(entries, lastRun, s.loc), nil
}

// runArchive Execute archive backup (full/incremental)
// 1. Render per-day markdown files
// 2. Archive to ZIP
// 3. Upload to all configured storage targets
// 执行压缩归档备份 (全量/增量)
// 1. 渲染按天 Markdown 文件
// 2. 打包为 ZIP
// 3. 上传到配置的所有存储目标
func (s *backupService) runArchive(ctx context.Context, config *domain.BackupConfig, startTime time.Time, lastRun time.Time) (int64, int64, error) {
	uid := config.UID

	files, err := s.renderDayFiles(ctx, config, lastRun)
	if err != nil {
		return 0, 0, err
	}
	if len(files) == 0 {
		s.recordNoUpdateHistory(config, startTime)
		return 0, 0, errNoUpdates
	}

	count := int64(len(files))
	size := int64(0)
	for _, content := range files {
		size += int64(len(content))
	}

	tempDir := s.config.App.TempPath
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return 0, 0, err
	}

	zipName := fmt.Sprintf("diary_%s_%d_%s.zip", config.Type, uid, startTime.Format("20060102_150405"))
	zipPath := filepath.Join(tempDir, zipName)
	defer os.Remove(zipPath)

	if err := util.ZipBytes(files, zipPath); err != nil {
		return 0, 0, err
	}

	var storageIds []int64
	if err := json.Unmarshal([]byte(config.StorageIds), &storageIds); err != nil {
		return count, size, code.ErrorBackupStorageIDs
	}

	for _, sid := range storageIds {
		s.uploadArchive(ctx, config, sid, zipPath, zipName, startTime, count, size)
	}

	return count, size, nil
}

// runSync Mirror changed day files directly to every storage target
// 将变更的按天文件直接镜像到所有存储目标 (不打包)
func (s *backupService) runSync(ctx context.Context, config *domain.BackupConfig, startTime time.Time, lastRun time.Time) (int64, int64, error) {
	var storageIds []int64
	if err := json.Unmarshal([]byte(config.StorageIds), &storageIds); err != nil {
		return 0, 0, code.ErrorBackupStorageIDs
	}

	files, err := s.renderDayFiles(ctx, config, lastRun)
	if err != nil {
		return 0, 0, err
	}
	if len(files) == 0 {
		s.recordNoUpdateHistory(config, startTime)
		return 0, 0, errNoUpdates
	}

	totalCount := int64(0)
	totalSize := int64(0)
	var syncErrs []error

	for _, sid := range storageIds {
		h := &domain.BackupHistory{
			UID:       config.UID,
			ConfigID:  config.ID,
			StorageID: sid,
			Type:      domain.BackupTypeSync,
			StartTime: startTime,
			Status:    domain.BackupStatusRunning,
		}
		h, err := s.backupRepo.CreateHistory(ctx, h, config.UID)
		if err != nil {
			s.logger.Error("Failed to create sync history", zap.Error(err))
			syncErrs = append(syncErrs, err)
			continue
		}

		client, err := s.storageSvc.Client(ctx, config.UID, sid)
		if err != nil {
			s.updateHistory(h, domain.BackupStatusFailed, err.Error())
			syncErrs = append(syncErrs, err)
			continue
		}

		count, size := int64(0), int64(0)
		var lastSendErr error
		failed := int64(0)
		for name, content := range files {
			if ctx.Err() != nil {
				s.updateHistory(h, domain.BackupStatusStopped, "Sync stopped")
				return totalCount, totalSize, ctx.Err()
			}
			if _, sendErr := client.SendContent(name, content, startTime); sendErr != nil {
				failed++
				lastSendErr = sendErr
				s.logger.Warn("Sync upload failed", zap.String("path", name), zap.Error(sendErr))
				continue
			}
			count++
			size += int64(len(content))
		}

		h.FileCount = count
		h.FileSize = size
		if failed > 0 {
			msg := fmt.Sprintf("Partial failure: %d files synced, %d failed. Last error: %v", count, failed, lastSendErr)
			s.updateHistory(h, domain.BackupStatusFailed, msg)
			syncErrs = append(syncErrs, lastSendErr)
		} else {
			s.updateHistory(h, domain.BackupStatusSuccess, "Success")
		}
		totalCount += count
		totalSize += size
	}

	if len(syncErrs) > 0 {
		return totalCount, totalSize, fmt.Errorf("sync completed with %d storage errors, last: %w", len(syncErrs), syncErrs[len(syncErrs)-1])
	}
	return totalCount, totalSize, nil
}

// finishTask Update final status, clean old archives and notify on failure
// 任务完成后的状态更新、归档清理与失败通知
func (s *backupService) finishTask(config *domain.BackupConfig, err error, fileCount, fileSize int64, startTime time.Time) error {
	config.LastRunTime = startTime

	var status int
	var message string
	if s.ctx.Err() != nil {
		// Service shutdown or context cancelled
		status = domain.BackupStatusStopped
		message = "Backup stopped by system"
		if err != nil {
			message += fmt.Sprintf(": %v", err)
		}
	} else if err == nil {
		status = domain.BackupStatusSuccess
		message = fmt.Sprintf("Backup completed: %d files, %d bytes", fileCount, fileSize)
	} else if errors.Is(err, errNoUpdates) {
		status = domain.BackupStatusNoUpdate
		message = "Backup success, no updates found"
		err = nil // Clear error for return
	} else {
		status = domain.BackupStatusFailed
		message = fmt.Sprintf("Backup failed: %v", err)
	}

	// Use a fresh context so the final status persists even when the task
	// context is already cancelled
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.calculateNextRunTime(config)
	config.LastStatus = status
	config.LastMessage = message
	if upErr := s.backupRepo.UpdateRunStatus(saveCtx, config.ID, config.UID, status, message,
		config.LastRunTime.Unix(), config.NextRunTime.Unix()); upErr != nil {
		s.logger.Error("Failed to persist backup run status", zap.Error(upErr))
	}

	if status == domain.BackupStatusFailed {
		s.notifySvc.BackupFailed(saveCtx, config.UID, config.ID, config.Type, message)
	}

	s.cleanupOldArchives(saveCtx, config, startTime)

	return err
}

// cleanupOldArchives enforces RetentionDays by removing expired remote
// archives and their history rows. -1 keeps only the current run.
// cleanupOldArchives 按保留天数清理过期的远端归档与历史记录，-1 只保留本次。
func (s *backupService) cleanupOldArchives(ctx context.Context, config *domain.BackupConfig, startTime time.Time) {
	if config.RetentionDays == 0 {
		return
	}

	var cutoffTime time.Time
	if config.RetentionDays == -1 {
		cutoffTime = startTime
	} else if config.RetentionDays > 0 {
		cutoffTime = time.Now().AddDate(0, 0, -config.RetentionDays)
	}
	if cutoffTime.IsZero() {
		return
	}

	oldHistories, err := s.backupRepo.ListHistoryBefore(ctx, config.ID, cutoffTime.Unix(), config.UID)
	if err != nil {
		s.logger.Error("Failed to list old backup history for cleanup", zap.Error(err))
		return
	}

	// Remove remote archive files before dropping the rows that name them
	for _, history := range oldHistories {
		if history.Type == domain.BackupTypeSync || history.FilePath == "" {
			continue
		}
		client, err := s.storageSvc.Client(ctx, history.UID, history.StorageID)
		if err != nil {
			s.logger.Warn("Could not get storage client for cleanup", zap.Int64("sid", history.StorageID), zap.Error(err))
			continue
		}
		if err := client.Delete(history.FilePath); err != nil {
			s.logger.Warn("Failed to delete old backup file", zap.String("file", history.FilePath), zap.Error(err))
		} else {
			s.logger.Info("Deleted old backup file", zap.String("file", history.FilePath))
		}
	}

	if _, err := s.backupRepo.DeleteHistoryBefore(ctx, config.ID, cutoffTime.Unix(), config.UID); err != nil {
		s.logger.Error("Failed to delete old backup history records", zap.Error(err))
	}
}

// uploadArchive Upload the archived ZIP file to one storage target
// 将打包好的 ZIP 文件上传到指定的存储目标
func (s *backupService) uploadArchive(ctx context.Context, config *domain.BackupConfig, storageID int64, filePath, fileName string, startTime time.Time, count, size int64) {
	h := &domain.BackupHistory{
		UID:       config.UID,
		ConfigID:  config.ID,
		StorageID: storageID,
		Type:      config.Type,
		StartTime: startTime,
		Status:    domain.BackupStatusRunning,
		FileCount: count,
		FileSize:  size,
		FilePath:  fileName,
	}

	h, err := s.backupRepo.CreateHistory(ctx, h, config.UID)
	if err != nil {
		s.logger.Error("Failed to create backup history", zap.Error(err))
		return
	}

	client, err := s.storageSvc.Client(ctx, config.UID, storageID)
	if err != nil {
		s.updateHistory(h, domain.BackupStatusFailed, err.Error())
		return
	}

	f, err := os.Open(filePath)
	if err != nil {
		s.updateHistory(h, domain.BackupStatusFailed, fmt.Sprintf("Failed to open backup file: %v", err))
		return
	}
	defer f.Close()

	if _, err := client.SendFile(fileName, f, "application/zip", startTime); err != nil {
		s.updateHistory(h, domain.BackupStatusFailed, fmt.Sprintf("Upload failed: %v", err))
		return
	}

	s.updateHistory(h, domain.BackupStatusSuccess, "Success")
}

func (s *backupService) updateRunStatus(config *domain.BackupConfig, status int, message string, runTime time.Time) {
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.backupRepo.UpdateRunStatus(saveCtx, config.ID, config.UID, status, message,
		runTime.Unix(), config.NextRunTime.Unix()); err != nil {
		s.logger.Error("Failed to update backup run status", zap.Error(err))
	}
}

func (s *backupService) updateHistory(h *domain.BackupHistory, status int, message string) {
	h.Status = status
	h.Message = message
	h.EndTime = time.Now()

	// Use a fresh context so the history row survives task cancellation
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.backupRepo.UpdateHistory(saveCtx, h, h.UID); err != nil {
		s.logger.Error("Failed to update backup history", zap.Error(err))
	}
}

func (s *backupService) recordNoUpdateHistory(config *domain.BackupConfig, startTime time.Time) {
	var storageIds []int64
	if err := json.Unmarshal([]byte(config.StorageIds), &storageIds); err != nil {
		return
	}

	for _, sid := range storageIds {
		h := &domain.BackupHistory{
			UID:       config.UID,
			ConfigID:  config.ID,
			StorageID: sid,
			Type:      config.Type,
			StartTime: startTime,
			Status:    domain.BackupStatusNoUpdate,
			Message:   "No updates",
			EndTime:   time.Now(),
		}
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := s.backupRepo.CreateHistory(saveCtx, h, config.UID); err != nil {
			s.logger.Error("Failed to record no-update history", zap.Error(err))
		}
		cancel()
	}
}

const syncDebounceDelay = 30 * time.Second

// NotifyUpdated Trigger debounced mirror sync
// Called when a journal entry changes, marks the user pending after
// syncDebounceDelay so the scheduler picks it up
// 触发防抖的镜像同步；条目变更后延迟 syncDebounceDelay 标记待同步
func (s *backupService) NotifyUpdated(uid int64) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if timer, ok := s.syncTimers[uid]; ok {
		timer.Stop()
	}

	s.syncTimers[uid] = time.AfterFunc(syncDebounceDelay, func() {
		s.logger.Info("Triggering debounced sync", zap.Int64("uid", uid))

		// In-memory flag instead of a DB write
		s.pendingSyncs.Store(uid, true)

		s.timerMu.Lock()
		delete(s.syncTimers, uid)
		s.timerMu.Unlock()
	})
}

// Shutdown Clean up resources and handle state changes during shutdown
// 停止服务，清理资源并处理关闭时的状态变更
func (s *backupService) Shutdown(ctx context.Context) error {
	// Signal all background tasks to stop
	s.cancel()

	s.timerMu.Lock()
	for uid, timer := range s.syncTimers {
		if timer.Stop() {
			s.logger.Info("Stopped pending sync timer during shutdown", zap.Int64("uid", uid))
		}
	}
	s.syncTimers = make(map[int64]*time.Timer)
	s.timerMu.Unlock()

	// Wait for active backup tasks to finish or abort
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("All backup tasks finished successfully during shutdown")
	case <-ctx.Done():
		s.logger.Warn("Shutdown context expired before all backup tasks finished")
		return ctx.Err()
	}

	return nil
}

var _ BackupService = (*backupService)(nil)
