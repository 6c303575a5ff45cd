package service

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/journal"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"go.uber.org/zap"
)

// JournalService assembles the grouped journal view pushed to clients: the
// current day flat on top, everything older under collapsible year and month
// nodes. Grouping rules live in internal/journal; this service loads the
// user's entries and folds the per-session expansion state into the tree.
// JournalService 组装推送给客户端的分组日记视图：今天平铺在顶部，更早的条目
// 收纳进可折叠的年月节点。
type JournalService interface {
	// View rebuilds the grouped view. searchChanged 在搜索词相比会话上一次
	// 发生变化时必须为 true，清空的搜索词才能将树恢复为默认折叠态。
	View(ctx context.Context, uid int64, term string, state *journal.ExpansionState, searchChanged bool) (*dto.JournalViewDTO, error)
}

type journalService struct {
	entryRepo domain.EntryRepository
	logger    *zap.Logger
	loc       *time.Location
}

// NewJournalService 创建 JournalService 实例；分组用时区取自配置，
// 无效或缺省时退回服务器本地时区。
func NewJournalService(entryRepo domain.EntryRepository, logger *zap.Logger, config *ServiceConfig) JournalService {
	return &journalService{
		entryRepo: entryRepo,
		logger:    logger,
		loc:       loadLocation(config, logger),
	}
}

// View 重建分组视图
func (s *journalService) View(ctx context.Context, uid int64, term string, state *journal.ExpansionState, searchChanged bool) (*dto.JournalViewDTO, error) {
	entries, err := s.entryRepo.ListAll(ctx, uid)
	if err != nil {
		s.logger.Error("journal view list entries failed", zap.Int64("uid", uid), zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	grouped := journal.Group(entries, term, time.Now(), s.loc)

	// 只在搜索词变化时重放自动展开；同词重建（手动折叠、快照推送触发的
	// 刷新）保留用户的手动开合。
	if searchChanged {
		state.ApplySearch(term, grouped)
	}

	return s.assemble(term, grouped, state), nil
}

// assemble 将分组结果与展开状态合成视图 DTO
func (s *journalService) assemble(term string, grouped *journal.Grouped, state *journal.ExpansionState) *dto.JournalViewDTO {
	view := &dto.JournalViewDTO{
		Term:        term,
		Today:       make([]*dto.EntryDTO, 0, len(grouped.Today)),
		Past:        make([]*dto.JournalYearDTO, 0, len(grouped.Past)),
		PastVisible: state.PastVisible(),
		PastCount:   grouped.PastEntryCount(),
	}

	for _, e := range grouped.Today {
		view.Today = append(view.Today, s.domainToDTO(e))
	}

	for _, y := range grouped.Past {
		yearKey := journal.YearKey(y.Year)
		yearDTO := &dto.JournalYearDTO{
			Year:     y.Year,
			Key:      yearKey,
			Expanded: state.IsExpanded(yearKey),
			Months:   make([]*dto.JournalMonthDTO, 0, len(y.Months)),
		}
		for _, m := range y.Months {
			monthKey := journal.MonthKey(y.Year, m.Month)
			monthDTO := &dto.JournalMonthDTO{
				Month:    int(m.Month),
				Label:    m.Label(),
				Key:      monthKey,
				Expanded: state.IsExpanded(monthKey),
				Days:     make([]*dto.JournalDayDTO, 0, len(m.Days)),
			}
			for _, d := range m.Days {
				dayDTO := &dto.JournalDayDTO{
					Day:     d.Day,
					Entries: make([]*dto.EntryDTO, 0, len(d.Entries)),
				}
				for _, e := range d.Entries {
					dayDTO.Entries = append(dayDTO.Entries, s.domainToDTO(e))
				}
				monthDTO.Days = append(monthDTO.Days, dayDTO)
			}
			yearDTO.Months = append(yearDTO.Months, monthDTO)
		}
		view.Past = append(view.Past, yearDTO)
	}
	return view
}

func (s *journalService) domainToDTO(e *domain.Entry) *dto.EntryDTO {
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

var _ JournalService = (*journalService)(nil)
