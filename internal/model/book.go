// Package model はドメインモデルを定義する。
package model

// 欠損フィールドの表示用フォールバック値。
// 上流APIにフィールドが存在しない場合、正規化時にこの値をそのまま埋め込む。
const (
	// UnknownAuthor は著者名が存在しない場合のフォールバック。
	UnknownAuthor = "Unknown Author"
	// UnknownPublisher は出版社が存在しない場合のフォールバック。
	UnknownPublisher = "Unknown Publisher"
	// UnknownValue は数値フィールド（出版年・ページ数）が存在しない場合のセンチネル。
	// 表示用にそのまま保持するため、文字列リテラルとして扱う。
	UnknownValue = "Unknown"
)

// Book は書誌検索結果1件の正規化済み表示レコードを表す。
// YearとPageCountは10進数文字列またはセンチネル"Unknown"を保持する。
// 数値として解釈する場合（ソート等）はパースし、非数値は0として扱う。
type Book struct {
	// Key は上流の安定した外部識別子（例: "/works/OL82563W"）。必須。
	Key string `json:"key"`
	// Title は書名。
	Title string `json:"title"`
	// Author は著者名。複数著者は", "で結合済み。
	Author string `json:"author"`
	// Year は初版出版年の10進数文字列、または"Unknown"。
	Year string `json:"year"`
	// Cover は中サイズのカバー画像URL。カバーが無い場合は空文字列。
	Cover string `json:"cover,omitempty"`
	// Publisher は出版社名（先頭1件）。
	Publisher string `json:"publisher"`
	// Subjects は主題タグ（先頭3件まで）。空の場合もある。
	Subjects []string `json:"subjects"`
	// ISBN はISBN（先頭1件）。無い場合は空文字列。
	ISBN string `json:"isbn,omitempty"`
	// PageCount はページ数中央値の10進数文字列、または"Unknown"。
	PageCount string `json:"page_count"`
}

// SearchType は検索対象フィールドの種別を表す。
// 上流APIのクエリパラメータ名と1対1に対応する。
type SearchType string

const (
	// SearchTypeTitle は書名検索。
	SearchTypeTitle SearchType = "title"
	// SearchTypeAuthor は著者名検索。
	SearchTypeAuthor SearchType = "author"
	// SearchTypeSubject は主題検索。
	SearchTypeSubject SearchType = "subject"
)

// IsValid は検索種別が有効かを返す。
func (t SearchType) IsValid() bool {
	switch t {
	case SearchTypeTitle, SearchTypeAuthor, SearchTypeSubject:
		return true
	}
	return false
}

// SortOrder は表示結果のソート順を表す。
type SortOrder string

const (
	// SortRelevance は上流のレスポンス順（関連度順）を維持する。
	SortRelevance SortOrder = "relevance"
	// SortTitle は書名の辞書順昇順。
	SortTitle SortOrder = "title"
	// SortAuthor は著者名の辞書順昇順。
	SortAuthor SortOrder = "author"
	// SortYearAsc は出版年の数値昇順。非数値の年は0として扱う。
	SortYearAsc SortOrder = "year_asc"
	// SortYearDesc は出版年の数値降順。非数値の年は0として扱う。
	SortYearDesc SortOrder = "year_desc"
)

// IsValid はソート順が有効かを返す。
func (s SortOrder) IsValid() bool {
	switch s {
	case SortRelevance, SortTitle, SortAuthor, SortYearAsc, SortYearDesc:
		return true
	}
	return false
}

// ViewState は表示ページを一意に決定するビュー状態のタプル。
// 状態は差分更新されず、変更のたびに表示ページ全体を再計算する。
type ViewState struct {
	Query             string     `json:"query"`
	SearchType        SearchType `json:"search_type"`
	SortBy            SortOrder  `json:"sort_by"`
	FilterYear        string     `json:"filter_year"`
	ShowFavoritesOnly bool       `json:"show_favorites_only"`
	Page              int        `json:"page"`
}

// DefaultViewState は初期状態のViewStateを返す。
// 書名検索・関連度順・フィルタなし・1ページ目。
func DefaultViewState() ViewState {
	return ViewState{
		SearchType: SearchTypeTitle,
		SortBy:     SortRelevance,
		Page:       1,
	}
}
