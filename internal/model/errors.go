// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, search, favorites, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEmptyQuery        = "EMPTY_QUERY"
	ErrCodeInvalidSearchType = "INVALID_SEARCH_TYPE"
	ErrCodeInvalidSort       = "INVALID_SORT"
	ErrCodeInvalidPage       = "INVALID_PAGE"
	ErrCodeSearchFailed      = "SEARCH_FAILED"
	ErrCodeSearchInProgress  = "SEARCH_IN_PROGRESS"
	ErrCodeStoreError        = "STORE_ERROR"
)

// NewEmptyQueryError は空クエリのバリデーションエラーを生成する。
// 空白のみのクエリもネットワークリクエストを発行せずにこのエラーになる。
func NewEmptyQueryError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyQuery,
		Message:  "検索キーワードが入力されていません。",
		Category: "validation",
		Action:   "書名・著者名・主題のいずれかのキーワードを入力してください。",
	}
}

// NewInvalidSearchTypeError は無効な検索種別エラーを生成する。
func NewInvalidSearchTypeError(searchType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSearchType,
		Message:  fmt.Sprintf("無効な検索種別です: %s", searchType),
		Category: "validation",
		Action:   "検索種別には title、author、subject のいずれかを指定してください。",
	}
}

// NewInvalidSortError は無効なソート順エラーを生成する。
func NewInvalidSortError(sortBy string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSort,
		Message:  fmt.Sprintf("無効なソート順です: %s", sortBy),
		Category: "validation",
		Action:   "ソート順には relevance、title、author、year_asc、year_desc のいずれかを指定してください。",
	}
}

// NewInvalidPageError は無効なページ番号エラーを生成する。
func NewInvalidPageError(page int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPage,
		Message:  fmt.Sprintf("無効なページ番号です: %d", page),
		Category: "validation",
		Action:   "ページ番号には1以上の整数を指定してください。",
	}
}

// NewSearchFailedError は書誌検索APIの呼び出し失敗エラーを生成する。
// 直前の検索結果は破棄されず保持される。
func NewSearchFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeSearchFailed,
		Message:  "書籍の検索に失敗しました。",
		Category: "search",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewSearchInProgressError は検索実行中の二重リクエストエラーを生成する。
func NewSearchInProgressError() *APIError {
	return &APIError{
		Code:     ErrCodeSearchInProgress,
		Message:  "前回の検索がまだ完了していません。",
		Category: "search",
		Action:   "検索の完了を待ってから再度お試しください。",
	}
}

// NewStoreError はお気に入りストアの操作失敗エラーを生成する。
// 失敗時はローカル状態を一切変更しない。
func NewStoreError(operation string) *APIError {
	return &APIError{
		Code:     ErrCodeStoreError,
		Message:  fmt.Sprintf("お気に入りの%sに失敗しました。", operation),
		Category: "favorites",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
