package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/bookfinder/internal/favorites"
	"github.com/hitoshi/bookfinder/internal/middleware"
	"github.com/hitoshi/bookfinder/internal/model"
)

// FavoriteTogglerInterface はお気に入りトグルのインターフェース。
type FavoriteTogglerInterface interface {
	// Toggle は書籍のお気に入り状態を反転し、新しい状態を返す。
	Toggle(ctx context.Context, userID string, book model.Book) (*favorites.ToggleResult, error)
}

// ToggleMetricsRecorder はトグル結果のメトリクス記録インターフェース。
type ToggleMetricsRecorder interface {
	RecordFavoriteToggle(added bool)
}

// FavoritesHandler はお気に入り管理のHTTPハンドラー。
type FavoritesHandler struct {
	service     FavoritesServiceInterface
	toggler     FavoriteTogglerInterface
	metrics     ToggleMetricsRecorder
	siteBaseURL string
}

// NewFavoritesHandler はFavoritesHandlerを生成する。
// metricsはnilでもよい。
func NewFavoritesHandler(service FavoritesServiceInterface, toggler FavoriteTogglerInterface, metrics ToggleMetricsRecorder, siteBaseURL string) *FavoritesHandler {
	return &FavoritesHandler{
		service:     service,
		toggler:     toggler,
		metrics:     metrics,
		siteBaseURL: siteBaseURL,
	}
}

// favoritesListResponse はお気に入り一覧のAPIレスポンス。
type favoritesListResponse struct {
	Books      []bookResponse `json:"books"`
	TotalCount int            `json:"total_count"`
}

// toggleFavoriteRequest はトグルリクエストのボディ。
// 正規化済みの書籍レコード全体を受け取り、追加時にストアへ保存する。
type toggleFavoriteRequest struct {
	Book model.Book `json:"book"`
}

// toggleFavoriteResponse はトグル結果のAPIレスポンス。
type toggleFavoriteResponse struct {
	BookKey    string `json:"book_key"`
	IsFavorite bool   `json:"is_favorite"`
}

// ListFavorites はユーザーの全お気に入りを保存順で返す。
// GET /api/favorites
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	books, err := h.service.ListBooks(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := favoritesListResponse{
		Books:      make([]bookResponse, 0, len(books)),
		TotalCount: len(books),
	}
	for _, book := range books {
		resp.Books = append(resp.Books, toBookResponse(book, true, h.siteBaseURL))
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// ToggleFavorite は書籍のお気に入り状態を反転する。
// POST /api/favorites/toggle
//
// ストア操作が成功した場合にのみ新しい状態を返す。失敗した場合は
// エラーを返し、お気に入りの状態は変更されない。
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	if req.Book.Key == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "書籍キーが指定されていません。",
			Category: "validation",
			Action:   "bookフィールドにkeyを含めてリクエストしてください。",
		})
		return
	}

	result, err := h.toggler.Toggle(r.Context(), userID, req.Book)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordFavoriteToggle(result.IsFavorite)
	}

	writeJSONResponse(w, http.StatusOK, toggleFavoriteResponse{
		BookKey:    req.Book.Key,
		IsFavorite: result.IsFavorite,
	})
}
