package model

import (
	"fmt"
	"strconv"
)

// ImageBaseURL TMDB 图片地址前缀
const ImageBaseURL = "https://image.tmdb.org/t/p/"

// Movie 电影模型（TMDB 信息），拉取后只读
type Movie struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Overview      string   `json:"overview"`
	Tagline       string   `json:"tagline,omitempty"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	ReleaseDate   string   `json:"release_date"`
	Runtime       int      `json:"runtime,omitempty"`
	Genres        []Genre  `json:"genres,omitempty"`
	GenreIDs      []int    `json:"genre_ids,omitempty"`
	Credits       *Credits `json:"credits,omitempty"`
}

// Genre 类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits 演职员
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember 演员
type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

// CrewMember 幕后人员
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

// Year 上映年份，未知时为 0
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// RuntimeLabel 片长，如 "2h 16m"
func (m *Movie) RuntimeLabel() string {
	return fmt.Sprintf("%dh %dm", m.Runtime/60, m.Runtime%60)
}

// GenreNames 类型名称列表
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// TopCast 前 n 位演员，不修改 Credits
func (m *Movie) TopCast(n int) []string {
	if m.Credits == nil || n <= 0 {
		return nil
	}
	cast := m.Credits.Cast
	if len(cast) > n {
		cast = cast[:n]
	}
	names := make([]string, 0, len(cast))
	for _, c := range cast {
		names = append(names, c.Name)
	}
	return names
}

// Directors 导演
func (m *Movie) Directors() []string {
	if m.Credits == nil {
		return nil
	}
	var names []string
	for _, c := range m.Credits.Crew {
		if c.Job == "Director" {
			names = append(names, c.Name)
		}
	}
	return names
}

// PosterURL 海报地址，size 如 w200 / w300 / original
func (m *Movie) PosterURL(size string) string {
	if m.PosterPath == "" {
		return ""
	}
	return ImageBaseURL + size + m.PosterPath
}

// BackdropURL 背景图地址
func (m *Movie) BackdropURL(size string) string {
	if m.BackdropPath == "" {
		return ""
	}
	return ImageBaseURL + size + m.BackdropPath
}

// PagedResult 分页列表结果
type PagedResult struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

// EmptyPagedResult 失败或无数据时返回的空结果
func EmptyPagedResult() PagedResult {
	return PagedResult{Results: []Movie{}}
}
