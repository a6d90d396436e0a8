package model

import (
	"errors"
	"slices"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// YearRange 上映年份区间，0 表示不限
type YearRange struct {
	Min int `json:"min" validate:"omitempty,gte=1874,lte=2100"`
	Max int `json:"max" validate:"omitempty,gte=1874,lte=2100"`
}

// IsZero 是否未设置
func (r YearRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// MovieFilters 发现页筛选条件
type MovieFilters struct {
	Genres      []string  `json:"genres" validate:"dive,numeric"`
	UserRating  float64   `json:"user_rating" validate:"gte=0,lte=10"`
	ReleaseYear YearRange `json:"release_year"`
}

// ErrInvalidYearRange 年份区间上下限颠倒
var ErrInvalidYearRange = errors.New("release year min must not exceed max")

var validate = validator.New()

// DefaultMovieFilters 默认筛选条件
func DefaultMovieFilters() MovieFilters {
	return MovieFilters{Genres: []string{}}
}

// Validate 校验筛选条件
func (f MovieFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	if f.ReleaseYear.Min != 0 && f.ReleaseYear.Max != 0 && f.ReleaseYear.Min > f.ReleaseYear.Max {
		return ErrInvalidYearRange
	}
	return nil
}

// Clone 深拷贝
func (f MovieFilters) Clone() MovieFilters {
	out := f
	out.Genres = append([]string{}, f.Genres...)
	return out
}

// Equal 比较两组筛选条件，类型按集合比较
func (f MovieFilters) Equal(other MovieFilters) bool {
	if f.UserRating != other.UserRating || f.ReleaseYear != other.ReleaseYear {
		return false
	}
	return slices.Equal(f.SortedGenres(), other.SortedGenres())
}

// HasGenre 是否已选该类型
func (f MovieFilters) HasGenre(genre string) bool {
	return slices.Contains(f.Genres, genre)
}

// SortedGenres 去重并按数值排序的类型 ID
func (f MovieFilters) SortedGenres() []string {
	seen := make(map[string]struct{}, len(f.Genres))
	out := make([]string, 0, len(f.Genres))
	for _, g := range f.Genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		if errA != nil || errB != nil {
			return out[i] < out[j]
		}
		return a < b
	})
	return out
}

// FilterOption 筛选项
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DecadeOption 年代预设
type DecadeOption struct {
	Value YearRange `json:"value"`
	Label string    `json:"label"`
}

// MovieGenres 可选类型（TMDB genre id）
var MovieGenres = []FilterOption{
	{Value: "28", Label: "Action"},
	{Value: "12", Label: "Adventure"},
	{Value: "16", Label: "Animation"},
	{Value: "35", Label: "Comedy"},
	{Value: "80", Label: "Crime"},
	{Value: "18", Label: "Drama"},
	{Value: "14", Label: "Fantasy"},
	{Value: "27", Label: "Horror"},
	{Value: "10749", Label: "Romance"},
	{Value: "878", Label: "Sci-Fi"},
	{Value: "53", Label: "Thriller"},
}

// Decades 年代预设
var Decades = []DecadeOption{
	{Value: YearRange{Min: 1960, Max: 1969}, Label: "60s"},
	{Value: YearRange{Min: 1970, Max: 1979}, Label: "70s"},
	{Value: YearRange{Min: 1980, Max: 1989}, Label: "80s"},
	{Value: YearRange{Min: 1990, Max: 1999}, Label: "90s"},
	{Value: YearRange{Min: 2000, Max: 2009}, Label: "00s"},
	{Value: YearRange{Min: 2010, Max: 2019}, Label: "10s"},
	{Value: YearRange{Min: 2020, Max: 2024}, Label: "20s"},
}

// FindDecade 按标签查找年代预设
func FindDecade(label string) (DecadeOption, bool) {
	for _, d := range Decades {
		if d.Label == label {
			return d, true
		}
	}
	return DecadeOption{}, false
}

// IsKnownGenre 是否为可选类型
func IsKnownGenre(value string) bool {
	for _, g := range MovieGenres {
		if g.Value == value {
			return true
		}
	}
	return false
}
