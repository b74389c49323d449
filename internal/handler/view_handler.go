package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/bookfinder/internal/middleware"
	"github.com/hitoshi/bookfinder/internal/model"
	"github.com/hitoshi/bookfinder/internal/pipeline"
)

// ViewHandler はビュー状態の更新を処理するHTTPハンドラー。
type ViewHandler struct {
	sessions    SessionStoreInterface
	favorites   FavoritesServiceInterface
	siteBaseURL string
}

// NewViewHandler はViewHandlerを生成する。
func NewViewHandler(sessions SessionStoreInterface, favorites FavoritesServiceInterface, siteBaseURL string) *ViewHandler {
	return &ViewHandler{
		sessions:    sessions,
		favorites:   favorites,
		siteBaseURL: siteBaseURL,
	}
}

// updateViewRequest はビュー状態更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateViewRequest struct {
	SortBy            *string `json:"sort_by"`
	FilterYear        *string `json:"filter_year"`
	ShowFavoritesOnly *bool   `json:"show_favorites_only"`
	Page              *int    `json:"page"`
}

// UpdateView はビュー状態の部分更新を処理し、更新後の表示ページを返す。
// PUT /api/view
//
// ページ以外のフィールドが実際に値を変えた場合、ページは1にリセットされる。
func (h *ViewHandler) UpdateView(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req updateViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	patch := pipeline.ViewPatch{
		FilterYear:        req.FilterYear,
		ShowFavoritesOnly: req.ShowFavoritesOnly,
		Page:              req.Page,
	}
	if req.SortBy != nil {
		sortBy := model.SortOrder(*req.SortBy)
		patch.SortBy = &sortBy
	}

	view, err := h.sessions.UpdateView(userID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	snap := h.sessions.Get(userID)
	page, favoriteKeys, err := computePage(r.Context(), h.favorites, userID, snap.Results, view)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPageResponse(page, view, favoriteKeys, h.siteBaseURL))
}
