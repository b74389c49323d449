package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/hitoshi/bookfinder/internal/favorites"
	"github.com/hitoshi/bookfinder/internal/middleware"
	"github.com/hitoshi/bookfinder/internal/model"
	"github.com/hitoshi/bookfinder/internal/session"
)

// --- テスト用モック ---

// mockSearchService はテスト用のSearchServiceInterfaceモック。
type mockSearchService struct {
	searchFunc func(ctx context.Context, query string, searchType model.SearchType) ([]model.Book, error)
}

func (m *mockSearchService) Search(ctx context.Context, query string, searchType model.SearchType) ([]model.Book, error) {
	return m.searchFunc(ctx, query, searchType)
}

// mockFavoritesService はテスト用のFavoritesServiceInterfaceモック。
// デフォルトではお気に入り無しとして振る舞う。
type mockFavoritesService struct {
	listBooksFunc  func(ctx context.Context, userID string) ([]model.Book, error)
	membershipFunc func(ctx context.Context, userID string) (map[string]bool, error)
}

func (m *mockFavoritesService) ListBooks(ctx context.Context, userID string) ([]model.Book, error) {
	if m.listBooksFunc == nil {
		return []model.Book{}, nil
	}
	return m.listBooksFunc(ctx, userID)
}

func (m *mockFavoritesService) Membership(ctx context.Context, userID string) (map[string]bool, error) {
	if m.membershipFunc == nil {
		return map[string]bool{}, nil
	}
	return m.membershipFunc(ctx, userID)
}

// mockToggler はテスト用のFavoriteTogglerInterfaceモック。
type mockToggler struct {
	toggleFunc func(ctx context.Context, userID string, book model.Book) (*favorites.ToggleResult, error)
}

func (m *mockToggler) Toggle(ctx context.Context, userID string, book model.Book) (*favorites.ToggleResult, error) {
	return m.toggleFunc(ctx, userID, book)
}

// newTestSessionStore はテスト用の実セッションストアを生成する。
func newTestSessionStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(session.DefaultStoreConfig(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	t.Cleanup(store.Stop)
	return store
}

// withUserID はリクエストにユーザーIDコンテキストを注入する。
func withUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

// sampleBooks はテスト用のBook列を返す。
func sampleBooks() []model.Book {
	return []model.Book{
		{
			Key:       "/works/OL1W",
			Title:     "Dune",
			Author:    "Frank Herbert",
			Year:      "1965",
			Publisher: "Chilton Books",
			Subjects:  []string{"Science fiction"},
			PageCount: "412",
		},
		{
			Key:       "/works/OL2W",
			Title:     "Hyperion",
			Author:    "Dan Simmons",
			Year:      "1989",
			Publisher: "Doubleday",
			Subjects:  []string{},
			PageCount: model.UnknownValue,
		},
	}
}
