package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/bookfinder/internal/middleware"
	"github.com/hitoshi/bookfinder/internal/model"
	"github.com/hitoshi/bookfinder/internal/pipeline"
	"github.com/hitoshi/bookfinder/internal/session"
)

// SearchServiceInterface は検索ハンドラーが必要とする検索クライアントのインターフェース。
type SearchServiceInterface interface {
	// Search はクエリを実行し正規化済みのBook列を返す。
	Search(ctx context.Context, query string, searchType model.SearchType) ([]model.Book, error)
}

// SessionStoreInterface はハンドラーが必要とするセッションストアのインターフェース。
type SessionStoreInterface interface {
	BeginSearch(userID string) error
	EndSearch(userID string)
	SetResults(userID, query string, searchType model.SearchType, results []model.Book)
	UpdateView(userID string, patch pipeline.ViewPatch) (model.ViewState, error)
	Get(userID string) session.Snapshot
}

// SearchHandler は書誌検索のHTTPハンドラー。
type SearchHandler struct {
	service     SearchServiceInterface
	sessions    SessionStoreInterface
	favorites   FavoritesServiceInterface
	siteBaseURL string
}

// NewSearchHandler はSearchHandlerを生成する。
func NewSearchHandler(service SearchServiceInterface, sessions SessionStoreInterface, favorites FavoritesServiceInterface, siteBaseURL string) *SearchHandler {
	return &SearchHandler{
		service:     service,
		sessions:    sessions,
		favorites:   favorites,
		siteBaseURL: siteBaseURL,
	}
}

// searchRequest は検索リクエストのボディ。
type searchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
}

// Search は書誌検索を処理する。
// POST /api/search
//
// 検索成功時はセッションの結果セットを置き換え、ビュー状態を新しい
// クエリでリセットした上で1ページ目を返す。検索失敗時は直前の結果
// セットを保持したままエラーを返す。同一ユーザーの検索実行中は
// 409 Conflictで拒否する。
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	searchType := model.SearchType(req.SearchType)
	if req.SearchType == "" {
		searchType = model.SearchTypeTitle
	}

	if err := h.sessions.BeginSearch(userID); err != nil {
		handleServiceError(w, err)
		return
	}
	defer h.sessions.EndSearch(userID)

	books, err := h.service.Search(r.Context(), req.Query, searchType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.sessions.SetResults(userID, req.Query, searchType, books)

	snap := h.sessions.Get(userID)
	page, favoriteKeys, err := computePage(r.Context(), h.favorites, userID, snap.Results, snap.View)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPageResponse(page, snap.View, favoriteKeys, h.siteBaseURL))
}
