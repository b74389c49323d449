package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bookfinder/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	IdentityConfig    middleware.IdentityConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusMetrics     middleware.StatusRecorder

	// 検索
	SearchService SearchServiceInterface
	Sessions      SessionStoreInterface

	// お気に入り
	FavoritesService FavoritesServiceInterface
	FavoriteToggler  FavoriteTogglerInterface
	ToggleMetrics    ToggleMetricsRecorder

	// レスポンス構築
	SiteBaseURL string

	// 運用エンドポイント
	MetricsHandler http.Handler
	HealthChecker  func() error
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Identity → RateLimit(General)
//
// /health と /metrics はユーザー識別とレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusMetrics))

	searchHandler := NewSearchHandler(deps.SearchService, deps.Sessions, deps.FavoritesService, deps.SiteBaseURL)
	booksHandler := NewBooksHandler(deps.Sessions, deps.FavoritesService, deps.SiteBaseURL)
	viewHandler := NewViewHandler(deps.Sessions, deps.FavoritesService, deps.SiteBaseURL)
	favoritesHandler := NewFavoritesHandler(deps.FavoritesService, deps.FavoriteToggler, deps.ToggleMetrics, deps.SiteBaseURL)

	// --- 運用エンドポイント ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	// ミドルウェアスタック: Identity → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityMiddleware(deps.IdentityConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// POST /api/search - 書誌検索（検索専用レート制限を追加）
		r.With(deps.RateLimiter.SearchMiddleware()).Post("/api/search", searchHandler.Search)

		// 表示ページとビュー状態
		r.Get("/api/books", booksHandler.ListBooks)
		r.Put("/api/view", viewHandler.UpdateView)

		// お気に入り管理
		r.Route("/api/favorites", func(r chi.Router) {
			r.Get("/", favoritesHandler.ListFavorites)
			r.Post("/toggle", favoritesHandler.ToggleFavorite)
		})
	})

	return r
}

// newHealthHandler はヘルスチェックエンドポイントのハンドラーを返す。
// checkerがnilでなく失敗した場合は503を返す。
func newHealthHandler(checker func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker(); err != nil {
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
