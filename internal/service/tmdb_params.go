package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/moovie-discover/internal/model"
)

// 目录接口路径
const (
	EndpointPopular  = "movie/popular"
	EndpointTopRated = "movie/top_rated"
	EndpointTrending = "trending/movie/week"
	EndpointDiscover = "discover/movie"
	EndpointSearch   = "search/movie"
)

// Params 请求参数，空值的键不会发送
type Params map[string]string

// DefaultParams 每次请求都会携带的默认参数
func DefaultParams(language string) Params {
	return Params{
		"language":           language,
		"sort_by":            "revenue.desc",
		"append_to_response": "credits",
		"vote_count.gte":     "1000",
		"include_adult":      "false",
	}
}

// Merge 合并参数，overrides 中的同名键覆盖默认值
func (p Params) Merge(overrides Params) Params {
	out := make(Params, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Values 转为查询参数，忽略空值
func (p Params) Values() url.Values {
	values := url.Values{}
	for k, v := range p {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values
}

// PageParams 仅指定页码
func PageParams(page int) Params {
	return Params{"page": strconv.Itoa(page)}
}

// YearParams 某一年份的分页参数
func YearParams(year, page int) Params {
	return Params{
		"page":                 strconv.Itoa(page),
		"primary_release_year": strconv.Itoa(year),
	}
}

// DiscoverParams 将筛选条件转换为 discover/movie 的查询参数
// 年份为 0 的一端不发送，{0,0} 时两端都不发送
func DiscoverParams(filters model.MovieFilters, page int) Params {
	params := Params{
		"page":             strconv.Itoa(page),
		"vote_average.gte": strconv.FormatFloat(filters.UserRating, 'f', -1, 64),
	}
	if genres := filters.SortedGenres(); len(genres) > 0 {
		params["with_genres"] = strings.Join(genres, ",")
	}
	if filters.ReleaseYear.Min != 0 {
		params["primary_release_date.gte"] = fmt.Sprintf("%04d-01-01", filters.ReleaseYear.Min)
	}
	if filters.ReleaseYear.Max != 0 {
		params["primary_release_date.lte"] = fmt.Sprintf("%04d-12-31", filters.ReleaseYear.Max)
	}
	return params
}
