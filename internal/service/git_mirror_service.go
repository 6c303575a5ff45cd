package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/export"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/timex"
	"go.uber.org/zap"
)

// 镜像同步状态
const (
	GitMirrorStatusIdle    = 0
	GitMirrorStatusRunning = 1
	GitMirrorStatusSuccess = 2
	GitMirrorStatusFailed  = 3
)

// 提交作者缺省值
const (
	defaultMirrorAuthorName  = "My Life Diary"
	defaultMirrorAuthorEmail = "diary@localhost"
)

// GitMirrorService mirrors the journal into a remote git repository as
// per-day markdown files. Every enabled mirror re-renders its worktree,
// commits the diff and pushes; syncs are debounced per config after a
// journal change.
// GitMirrorService 将日记以按天 Markdown 镜像到远端 Git 仓库；
// 变更后按配置的延迟防抖触发同步。
type GitMirrorService interface {
	GetConfigs(ctx context.Context, uid int64) ([]*dto.GitMirrorConfigDTO, error)
	GetConfig(ctx context.Context, uid int64, id int64) (*dto.GitMirrorConfigDTO, error)
	UpdateConfig(ctx context.Context, uid int64, params *dto.GitMirrorConfigRequest) (*dto.GitMirrorConfigDTO, error)
	DeleteConfig(ctx context.Context, uid int64, id int64) error
	Validate(ctx context.Context, params *dto.GitMirrorValidateRequest) error
	ExecuteSync(ctx context.Context, uid int64, id int64) error
	CleanWorkspace(ctx context.Context, uid int64, configID int64) error
	NotifyUpdated(uid int64)
	Shutdown(ctx context.Context) error
}

type gitMirrorService struct {
	repo      domain.GitMirrorRepository
	entryRepo domain.EntryRepository
	notifySvc NotifyService
	logger    *zap.Logger
	config    *ServiceConfig
	loc       *time.Location
	mu        sync.Mutex
	running   map[int64]bool        // configID -> isRunning
	timers    map[int64]*time.Timer // configID -> timer
	wg        sync.WaitGroup
	closed    bool
}

// NewGitMirrorService 创建 GitMirrorService 实例
func NewGitMirrorService(repo domain.GitMirrorRepository, entryRepo domain.EntryRepository, notifySvc NotifyService, logger *zap.Logger, config *ServiceConfig) GitMirrorService {
	return &gitMirrorService{
		repo:      repo,
		entryRepo: entryRepo,
		notifySvc: notifySvc,
		logger:    logger,
		config:    config,
		loc:       loadLocation(config, logger),
		running:   make(map[int64]bool),
		timers:    make(map[int64]*time.Timer),
	}
}

func (s *gitMirrorService) domainToDTO(conf *domain.GitMirrorConfig) *dto.GitMirrorConfigDTO {
	if conf == nil {
		return nil
	}
	res := &dto.GitMirrorConfigDTO{
		ID:          conf.ID,
		UID:         conf.UID,
		RepoURL:     conf.RepoURL,
		Username:    conf.Username,
		Branch:      conf.Branch,
		AuthorName:  conf.AuthorName,
		AuthorEmail: conf.AuthorEmail,
		IsEnabled:   conf.IsEnabled,
		Delay:       conf.Delay,
		LastStatus:  conf.LastStatus,
		LastMessage: conf.LastMessage,
		CreatedAt:   timex.Time(conf.CreatedAt),
		UpdatedAt:   timex.Time(conf.UpdatedAt),
	}
	if conf.LastSyncTime != nil {
		res.LastSyncTime = timex.Time(*conf.LastSyncTime)
	}
	return res
}

func (s *gitMirrorService) GetConfigs(ctx context.Context, uid int64) ([]*dto.GitMirrorConfigDTO, error) {
	configs, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var res []*dto.GitMirrorConfigDTO
	for _, c := range configs {
		res = append(res, s.domainToDTO(c))
	}
	return res, nil
}

func (s *gitMirrorService) GetConfig(ctx context.Context, uid int64, id int64) (*dto.GitMirrorConfigDTO, error) {
	conf, err := s.repo.GetByID(ctx, id, uid)
	if err != nil || conf == nil {
		return nil, code.ErrorGitMirrorNotFound
	}
	return s.domainToDTO(conf), nil
}

func (s *gitMirrorService) UpdateConfig(ctx context.Context, uid int64, params *dto.GitMirrorConfigRequest) (*dto.GitMirrorConfigDTO, error) {
	conf := &domain.GitMirrorConfig{
		ID:          params.ID,
		UID:         uid,
		RepoURL:     params.RepoURL,
		Username:    params.Username,
		Password:    params.Password,
		Branch:      params.Branch,
		AuthorName:  params.AuthorName,
		AuthorEmail: params.AuthorEmail,
		IsEnabled:   params.IsEnabled,
		Delay:       params.Delay,
	}
	if conf.Branch == "" {
		conf.Branch = "main"
	}

	if params.ID > 0 {
		old, err := s.repo.GetByID(ctx, params.ID, uid)
		if err != nil || old == nil {
			return nil, code.ErrorGitMirrorNotFound
		}
		// Keep the stored credential when the client omits it on update
		if conf.Password == "" {
			conf.Password = old.Password
		}
		conf.LastSyncTime = old.LastSyncTime
		conf.LastStatus = old.LastStatus
		conf.LastMessage = old.LastMessage
		if err := s.repo.Update(ctx, conf, uid); err != nil {
			return nil, code.ErrorConfigSaveFailed.WithDetails(err.Error())
		}
		return s.domainToDTO(conf), nil
	}

	created, err := s.repo.Create(ctx, conf, uid)
	if err != nil {
		return nil, code.ErrorConfigSaveFailed.WithDetails(err.Error())
	}
	return s.domainToDTO(created), nil
}

func (s *gitMirrorService) DeleteConfig(ctx context.Context, uid int64, id int64) error {
	conf, err := s.repo.GetByID(ctx, id, uid)
	if err != nil || conf == nil {
		return code.ErrorGitMirrorNotFound
	}

	if err := s.repo.Delete(ctx, id, uid); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// Validate checks repo visibility, credentials and branch existence via
// ls-remote without touching the workspace.
// Validate 通过 ls-remote 校验仓库可见性、凭证与分支存在性，不动工作区。
func (s *gitMirrorService) Validate(ctx context.Context, params *dto.GitMirrorValidateRequest) error {
	branch := params.Branch
	if branch == "" {
		branch = "main"
	}

	auth := &http.BasicAuth{
		Username: params.Username,
		Password: params.Password,
	}

	rem := git.NewRemote(nil, &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{params.RepoURL},
	})

	refs, err := rem.List(&git.ListOptions{
		Auth: auth,
	})
	if err != nil {
		return code.ErrorGitMirrorValidate.WithDetails(err.Error())
	}

	branchRef := plumbing.NewBranchReferenceName(branch)
	found := false
	for _, ref := range refs {
		if ref.Name() == branchRef || ref.Name() == plumbing.HEAD {
			found = true
			break
		}
	}

	if !found {
		return code.ErrorGitMirrorValidate.WithDetails("branch not found in remote")
	}

	return nil
}

func (s *gitMirrorService) ExecuteSync(ctx context.Context, uid int64, id int64) error {
	conf, err := s.repo.GetByID(ctx, id, uid)
	if err != nil || conf == nil {
		return code.ErrorGitMirrorNotFound
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return code.ErrorServerInternal.WithDetails("service is shutting down")
	}
	if s.running[id] {
		s.mu.Unlock()
		return code.ErrorGitMirrorRunning
	}
	s.running[id] = true
	s.wg.Add(1)
	s.mu.Unlock()

	// Run in background
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.running, id)
			s.mu.Unlock()
			s.wg.Done()
		}()

		s.syncTask(context.Background(), conf)
	}()

	return nil
}

func (s *gitMirrorService) CleanWorkspace(ctx context.Context, uid int64, configID int64) error {
	path := s.getWorkspacePath(uid, configID)
	if err := os.RemoveAll(path); err != nil {
		return code.ErrorServerInternal.WithDetails("failed to cleanup workspace: " + err.Error())
	}
	return nil
}

// Internal methods

func (s *gitMirrorService) getWorkspacePath(uid, configID int64) string {
	root := s.config.App.GitWorkspacePath
	if root == "" {
		root = filepath.Join("storage", "git_workspace")
	}
	return filepath.Join(root, fmt.Sprintf("%d", uid), fmt.Sprintf("%d", configID))
}

func (s *gitMirrorService) syncTask(ctx context.Context, conf *domain.GitMirrorConfig) {
	s.logger.Info("Starting git mirror sync", zap.Int64("configId", conf.ID), zap.Int64("uid", conf.UID))

	_ = s.repo.UpdateSyncStatus(ctx, conf.ID, conf.UID, GitMirrorStatusRunning, "Sync running", 0)

	err := s.doSync(ctx, conf, false)

	now := time.Now()
	if err != nil {
		s.logger.Error("Git mirror sync failed", zap.Int64("configId", conf.ID), zap.Error(err))
		_ = s.repo.UpdateSyncStatus(ctx, conf.ID, conf.UID, GitMirrorStatusFailed, err.Error(), now.Unix())
		s.notifySvc.GitMirrorFailed(ctx, conf.UID, conf.RepoURL, err.Error())
		return
	}

	s.logger.Info("Git mirror sync success", zap.Int64("configId", conf.ID))
	_ = s.repo.UpdateSyncStatus(ctx, conf.ID, conf.UID, GitMirrorStatusSuccess,
		"Sync completed at "+now.Format("2006-01-02 15:04:05"), now.Unix())
}

// doSync clones or opens the workspace, pulls, re-renders the day files and
// pushes the diff. retried guards the single re-clone after a corrupt open.
// doSync 克隆/打开工作区，拉取后重渲按天文件并推送差异；retried 防止重复重建。
func (s *gitMirrorService) doSync(ctx context.Context, conf *domain.GitMirrorConfig, retried bool) error {
	wsPath := s.getWorkspacePath(conf.UID, conf.ID)
	auth := &http.BasicAuth{
		Username: conf.Username,
		Password: conf.Password,
	}

	var r *git.Repository
	var err error

	// Check/Init local repo
	if _, statErr := os.Stat(filepath.Join(wsPath, ".git")); os.IsNotExist(statErr) {
		s.logger.Info("Initializing mirror worktree", zap.String("path", wsPath))
		_ = os.RemoveAll(wsPath)
		r, err = git.PlainClone(wsPath, false, &git.CloneOptions{
			URL:           conf.RepoURL,
			Auth:          auth,
			ReferenceName: plumbing.NewBranchReferenceName(conf.Branch),
			SingleBranch:  true,
		})
		if err != nil {
			return fmt.Errorf("git clone failed: %w", err)
		}
	} else {
		r, err = git.PlainOpen(wsPath)
		if err != nil {
			if retried {
				return fmt.Errorf("git open failed after re-clone: %w", err)
			}
			// Corrupt workspace, rebuild once
			_ = os.RemoveAll(wsPath)
			return s.doSync(ctx, conf, true)
		}
	}

	wt, err := r.Worktree()
	if err != nil {
		return err
	}

	// Pull latest
	err = wt.Pull(&git.PullOptions{
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(conf.Branch),
		SingleBranch:  true,
		Force:         true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("git pull failed: %w", err)
	}

	// Re-render the journal into the worktree
	if err := s.mirrorJournalToWorkspace(ctx, conf, wsPath); err != nil {
		return fmt.Errorf("mirror to workspace failed: %w", err)
	}

	// Commit and push
	status, err := wt.Status()
	if err != nil {
		return err
	}
	if status.IsClean() {
		s.logger.Info("No changes to commit", zap.Int64("configId", conf.ID))
		return nil
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return err
	}

	authorName := conf.AuthorName
	if authorName == "" {
		authorName = defaultMirrorAuthorName
	}
	authorEmail := conf.AuthorEmail
	if authorEmail == "" {
		authorEmail = defaultMirrorAuthorEmail
	}

	_, err = wt.Commit("Journal update "+time.Now().In(s.loc).Format("2006-01-02 15:04"), &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return err
	}

	s.logger.Info("Pushing mirror changes", zap.Int64("configId", conf.ID))
	if err := r.Push(&git.PushOptions{Auth: auth}); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}

	return nil
}

// mirrorJournalToWorkspace writes every rendered day file into the worktree
// and removes day files whose entries are gone, so the repository always
// matches the journal exactly.
// mirrorJournalToWorkspace 写入全部按天文件并删除条目已清空的天文件，
// 仓库内容与日记严格一致。
func (s *gitMirrorService) mirrorJournalToWorkspace(ctx context.Context, conf *domain.GitMirrorConfig, wsPath string) error {
	entries, err := s.entryRepo.ListAll(ctx, conf.UID)
	if err != nil {
		return err
	}

	files := export.DayFiles(entries, s.loc)

	for name, content := range files {
		fullPath := filepath.Join(wsPath, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, content, 0644); err != nil {
			s.logger.Warn("Failed to write day file to workspace", zap.String("path", name), zap.Error(err))
		}
	}

	// Drop stale day files left behind by deleted entries
	return filepath.WalkDir(wsPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(wsPath, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasSuffix(rel, ".md") || !isDayFilePath(rel) {
			return nil
		}
		if _, ok := files[rel]; !ok {
			_ = os.Remove(p)
		}
		return nil
	})
}

// isDayFilePath reports whether a repo-relative path follows the
// YYYY/MM/YYYY-MM-DD.md layout. Foreign files in the repo are left alone.
// isDayFilePath 判断路径是否符合 YYYY/MM/YYYY-MM-DD.md 布局；无关文件不动。
func isDayFilePath(rel string) bool {
	parts := strings.Split(rel, "/")
	if len(parts) != 3 {
		return false
	}
	if len(parts[0]) != 4 || len(parts[1]) != 2 {
		return false
	}
	name := strings.TrimSuffix(parts[2], ".md")
	_, err := time.Parse("2006-01-02", name)
	return err == nil
}

// NotifyUpdated arms the per-config debounce timers after a journal change.
// A config with Delay <= 0 only syncs manually.
// NotifyUpdated 在日记变更后为每个配置装载防抖定时器；Delay <= 0 只手动同步。
func (s *gitMirrorService) NotifyUpdated(uid int64) {
	configs, err := s.repo.List(context.Background(), uid)
	if err != nil {
		return
	}

	for _, conf := range configs {
		if !conf.IsEnabled || conf.Delay <= 0 {
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if timer, ok := s.timers[conf.ID]; ok {
			timer.Stop()
		}

		id := conf.ID
		configUID := uid
		s.timers[id] = time.AfterFunc(time.Duration(conf.Delay)*time.Second, func() {
			s.mu.Lock()
			delete(s.timers, id)
			s.mu.Unlock()

			_ = s.ExecuteSync(context.Background(), configUID, id)
		})
		s.mu.Unlock()
	}
}

// Shutdown stops pending debounce timers and waits for running syncs.
// Shutdown 停止待触发的防抖定时器并等待运行中的同步结束。
func (s *gitMirrorService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("Shutdown context expired before all mirror syncs finished")
		return ctx.Err()
	}
}

var _ GitMirrorService = (*gitMirrorService)(nil)
