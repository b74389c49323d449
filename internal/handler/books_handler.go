package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/bookfinder/internal/middleware"
	"github.com/hitoshi/bookfinder/internal/model"
	"github.com/hitoshi/bookfinder/internal/pipeline"
)

// FavoritesServiceInterface はハンドラーが必要とするお気に入りサービスのインターフェース。
type FavoritesServiceInterface interface {
	// ListBooks はユーザーの全お気に入りを表示用のBook列として返す。
	ListBooks(ctx context.Context, userID string) ([]model.Book, error)
	// Membership はユーザーのお気に入りに含まれる書籍キーの集合を返す。
	Membership(ctx context.Context, userID string) (map[string]bool, error)
}

// BooksHandler は現在の表示ページを返すHTTPハンドラー。
type BooksHandler struct {
	sessions    SessionStoreInterface
	favorites   FavoritesServiceInterface
	siteBaseURL string
}

// NewBooksHandler はBooksHandlerを生成する。
func NewBooksHandler(sessions SessionStoreInterface, favorites FavoritesServiceInterface, siteBaseURL string) *BooksHandler {
	return &BooksHandler{
		sessions:    sessions,
		favorites:   favorites,
		siteBaseURL: siteBaseURL,
	}
}

// ListBooks は現在のビュー状態に基づく表示ページを返す。
// GET /api/books
//
// 表示内容は保存済みの状態ではなく、ベース列とビュー状態から
// リクエストごとに再計算される。お気に入りのみ表示の場合、
// ベース列は検索結果ではなくお気に入りストアの内容になる。
func (h *BooksHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	snap := h.sessions.Get(userID)

	page, favoriteKeys, err := computePage(r.Context(), h.favorites, userID, snap.Results, snap.View)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPageResponse(page, snap.View, favoriteKeys, h.siteBaseURL))
}

// computePage はビュー状態に応じたベース列の選択とパイプラインの適用を行う。
// 戻り値のfavoriteKeysはis_favoriteオーバーレイに使う。
func computePage(ctx context.Context, favorites FavoritesServiceInterface, userID string, results []model.Book, view model.ViewState) (pipeline.Page, map[string]bool, error) {
	favoriteKeys, err := favorites.Membership(ctx, userID)
	if err != nil {
		return pipeline.Page{}, nil, err
	}

	base := results
	if view.ShowFavoritesOnly {
		base, err = favorites.ListBooks(ctx, userID)
		if err != nil {
			return pipeline.Page{}, nil, err
		}
	}

	return pipeline.Apply(base, view), favoriteKeys, nil
}
