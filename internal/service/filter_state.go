package service

import (
	"errors"
	"sync"
	"time"

	"github.com/user/moovie-discover/internal/model"
)

// FilterPhase 筛选状态所处阶段
type FilterPhase int

const (
	// PhaseCommitted 没有打开的草稿
	PhaseCommitted FilterPhase = iota
	// PhaseDraft 筛选面板打开，草稿可编辑
	PhaseDraft
)

func (p FilterPhase) String() string {
	if p == PhaseDraft {
		return "draft"
	}
	return "committed"
}

var (
	ErrNoDraft        = errors.New("filter draft is not open")
	ErrDraftUnchanged = errors.New("filter draft has no changes")
)

// 年代预设再次点击时恢复的默认起始年份
const minSelectableYear = 1950

// FilterState 已提交的筛选条件 + 可丢弃的草稿
type FilterState struct {
	mu        sync.Mutex
	committed model.MovieFilters
	draft     *model.MovieFilters
	dirty     bool
	onCommit  func(model.MovieFilters)
	now       func() time.Time
}

// NewFilterState onCommit 在每次提交后（锁外）被调用
func NewFilterState(onCommit func(model.MovieFilters)) *FilterState {
	return &FilterState{
		committed: model.DefaultMovieFilters(),
		onCommit:  onCommit,
		now:       time.Now,
	}
}

// Phase 当前阶段
func (s *FilterState) Phase() FilterPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil {
		return PhaseDraft
	}
	return PhaseCommitted
}

// Committed 当前生效的筛选条件
func (s *FilterState) Committed() model.MovieFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.Clone()
}

// Draft 当前草稿，未打开时 ok 为 false
func (s *FilterState) Draft() (filters model.MovieFilters, dirty bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return model.MovieFilters{}, false, false
	}
	return s.draft.Clone(), s.dirty, true
}

// Edit 打开草稿（复制已提交的条件），已打开时保持原草稿
func (s *FilterState) Edit() model.MovieFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		d := s.committed.Clone()
		s.draft = &d
		s.dirty = false
	}
	return s.draft.Clone()
}

// ToggleGenre 选中/取消类型
func (s *FilterState) ToggleGenre(genre string) error {
	return s.mutate(func(f *model.MovieFilters) {
		if f.HasGenre(genre) {
			kept := make([]string, 0, len(f.Genres))
			for _, g := range f.Genres {
				if g != genre {
					kept = append(kept, g)
				}
			}
			f.Genres = kept
			return
		}
		f.Genres = append(f.Genres, genre)
	})
}

// ToggleRating 设置最低评分，重复点击同一分值时清零
func (s *FilterState) ToggleRating(rating float64) error {
	return s.mutate(func(f *model.MovieFilters) {
		if f.UserRating == rating {
			f.UserRating = 0
			return
		}
		f.UserRating = rating
	})
}

// ToggleDecade 选择年代预设，重复选择时恢复为 1950 至今
func (s *FilterState) ToggleDecade(decade model.YearRange) error {
	return s.mutate(func(f *model.MovieFilters) {
		if f.ReleaseYear == decade {
			f.ReleaseYear = model.YearRange{Min: minSelectableYear, Max: s.now().Year()}
			return
		}
		f.ReleaseYear = decade
	})
}

// SetYearRange 直接设置年份区间
func (s *FilterState) SetYearRange(r model.YearRange) error {
	return s.mutate(func(f *model.MovieFilters) {
		f.ReleaseYear = r
	})
}

// Replace 整体替换草稿
func (s *FilterState) Replace(filters model.MovieFilters) error {
	return s.mutate(func(f *model.MovieFilters) {
		*f = filters.Clone()
	})
}

// Reset 草稿恢复默认值（仍需提交才生效）
func (s *FilterState) Reset() error {
	return s.mutate(func(f *model.MovieFilters) {
		*f = model.DefaultMovieFilters()
	})
}

// Commit 原子地用草稿替换已提交的条件并关闭草稿
func (s *FilterState) Commit() (model.MovieFilters, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return model.MovieFilters{}, ErrNoDraft
	}
	if !s.dirty {
		s.mu.Unlock()
		return model.MovieFilters{}, ErrDraftUnchanged
	}
	if err := s.draft.Validate(); err != nil {
		s.mu.Unlock()
		return model.MovieFilters{}, err
	}
	s.committed = s.draft.Clone()
	s.draft = nil
	s.dirty = false
	committed := s.committed.Clone()
	s.mu.Unlock()

	if s.onCommit != nil {
		s.onCommit(committed.Clone())
	}
	return committed, nil
}

// Discard 丢弃草稿
func (s *FilterState) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	s.dirty = false
}

func (s *FilterState) mutate(fn func(*model.MovieFilters)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNoDraft
	}
	fn(s.draft)
	s.dirty = true
	return nil
}
