// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/bookfinder/internal/model"
	"github.com/hitoshi/bookfinder/internal/pipeline"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// bookResponse は書籍1件のAPIレスポンス。
// 正規化済みのBookにお気に入り状態と詳細ページURLを重ねる。
type bookResponse struct {
	model.Book
	IsFavorite bool   `json:"is_favorite"`
	DetailURL  string `json:"detail_url,omitempty"`
}

// pageResponse は表示ページのAPIレスポンス。
type pageResponse struct {
	Books      []bookResponse  `json:"books"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalCount int             `json:"total_count"`
	View       model.ViewState `json:"view"`
}

// toPageResponse はパイプラインの算出結果をAPIレスポンスに変換する。
// favoriteKeysに含まれる書籍にはis_favorite=trueを付与する。
func toPageResponse(page pipeline.Page, view model.ViewState, favoriteKeys map[string]bool, siteBaseURL string) pageResponse {
	books := make([]bookResponse, 0, len(page.Books))
	for _, book := range page.Books {
		books = append(books, toBookResponse(book, favoriteKeys[book.Key], siteBaseURL))
	}

	return pageResponse{
		Books:      books,
		Page:       page.Number,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
		View:       view,
	}
}

// toBookResponse はBookからAPIレスポンスに変換する。
func toBookResponse(book model.Book, isFavorite bool, siteBaseURL string) bookResponse {
	resp := bookResponse{
		Book:       book,
		IsFavorite: isFavorite,
	}
	if siteBaseURL != "" && book.Key != "" {
		resp.DetailURL = siteBaseURL + book.Key
	}
	return resp
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSONResponse(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeUnauthorizedResponse は識別ミドルウェアを通過していないリクエストへの応答を書き込む。
func writeUnauthorizedResponse(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "ユーザー識別に失敗しました。",
		Category: "system",
		Action:   "Cookieを有効にして再度お試しください。",
	})
}

// writeInvalidRequestResponse はリクエストボディの解析失敗への応答を書き込む。
func writeInvalidRequestResponse(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeEmptyQuery, model.ErrCodeInvalidSearchType,
		model.ErrCodeInvalidSort, model.ErrCodeInvalidPage:
		return http.StatusBadRequest
	case model.ErrCodeSearchFailed:
		return http.StatusBadGateway
	case model.ErrCodeSearchInProgress:
		return http.StatusConflict
	case model.ErrCodeStoreError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
