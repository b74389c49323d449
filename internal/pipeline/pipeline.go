// Package pipeline は表示結果の計算パイプラインを提供する。
// ベースとなるBook列に対してフィルタ・ソート・ページ分割を適用し、
// 現在表示すべきページを純粋関数として算出する。
// 隠れた状態を持たず、同一入力に対して常に同一出力を返す。
package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hitoshi/bookfinder/internal/model"
)

// PageSize は1ページあたりの表示件数。
// 上流への検索リクエストの固定結果件数と同じ値。
const PageSize = 12

// Page は表示結果の1ページ分を表す。
type Page struct {
	// Books は現在のページに表示するBook列。
	Books []model.Book
	// Number は1始まりのページ番号（ViewStateのPageをそのまま反映）。
	Number int
	// TotalPages はフィルタ適用後の総ページ数（ceil(N/PageSize)）。
	TotalPages int
	// TotalCount はフィルタ適用後の総件数。
	TotalCount int
}

// Apply はビュー状態に従ってベース列からの表示ページを算出する。
// 入力のbaseは変更されない。範囲外のページ番号にはエラーではなく
// 空のBook列を返す。
func Apply(base []model.Book, view model.ViewState) Page {
	filtered := filterByYear(base, view.FilterYear)
	sorted := sortBooks(filtered, view.SortBy)
	return paginate(sorted, view.Page)
}

// filterByYear はfilterYearが空でない場合、出版年の文字列表現に
// filterYearを部分文字列として含むレコードのみを残す。
// 完全一致ではなく部分一致（"20"は2020にも1920にもマッチする）。
// 相対順序は維持される。
func filterByYear(books []model.Book, filterYear string) []model.Book {
	if filterYear == "" {
		return books
	}

	filtered := make([]model.Book, 0, len(books))
	for _, book := range books {
		if strings.Contains(book.Year, filterYear) {
			filtered = append(filtered, book)
		}
	}
	return filtered
}

// sortBooks はソート順に従ってBook列を安定ソートした新しいスライスを返す。
// relevanceの場合は並べ替えを行わず、ベース順をそのまま維持する。
// 書名・著者名はロケールを考慮した照合順序で比較する。
func sortBooks(books []model.Book, sortBy model.SortOrder) []model.Book {
	sorted := make([]model.Book, len(books))
	copy(sorted, books)

	switch sortBy {
	case model.SortTitle:
		c := collate.New(language.English)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case model.SortAuthor:
		c := collate.New(language.English)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Author, sorted[j].Author) < 0
		})
	case model.SortYearAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return yearSortValue(sorted[i].Year) < yearSortValue(sorted[j].Year)
		})
	case model.SortYearDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return yearSortValue(sorted[i].Year) > yearSortValue(sorted[j].Year)
		})
	}

	return sorted
}

// yearSortValue は出版年文字列を数値として解釈する。
// "Unknown"等の非数値は0として扱う。
func yearSortValue(year string) int {
	v, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return v
}

// paginate はソート済みの列をPageSize件ごとに分割し、
// 指定ページ（1始まり）のスライスを返す。
// 範囲外のページ番号には空のBook列を返す。
func paginate(books []model.Book, page int) Page {
	totalCount := len(books)
	totalPages := (totalCount + PageSize - 1) / PageSize

	result := Page{
		Books:      []model.Book{},
		Number:     page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}

	if page < 1 {
		return result
	}

	start := (page - 1) * PageSize
	if start >= totalCount {
		return result
	}

	end := start + PageSize
	if end > totalCount {
		end = totalCount
	}

	result.Books = books[start:end]
	return result
}
