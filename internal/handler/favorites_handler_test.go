package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/bookfinder/internal/favorites"
	"github.com/hitoshi/bookfinder/internal/model"
)

// toggleCounts はテスト用のToggleMetricsRecorder。
type toggleCounts struct {
	added   int
	removed int
}

func (c *toggleCounts) RecordFavoriteToggle(added bool) {
	if added {
		c.added++
	} else {
		c.removed++
	}
}

// お気に入り一覧が保存順で返りis_favorite=trueが付与されることを検証
func TestFavoritesHandler_List(t *testing.T) {
	favs := &mockFavoritesService{
		listBooksFunc: func(_ context.Context, userID string) ([]model.Book, error) {
			if userID != "user_1" {
				t.Errorf("userID = %q", userID)
			}
			return sampleBooks(), nil
		},
	}
	h := NewFavoritesHandler(favs, &mockToggler{}, nil, "https://openlibrary.org")

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/favorites", nil), "user_1")
	w := httptest.NewRecorder()
	h.ListFavorites(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp favoritesListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.TotalCount != 2 || len(resp.Books) != 2 {
		t.Fatalf("resp = %+v, want 2 books", resp)
	}
	for _, book := range resp.Books {
		if !book.IsFavorite {
			t.Errorf("book %s: is_favorite = false, want true", book.Key)
		}
	}
	if resp.Books[0].DetailURL != "https://openlibrary.org/works/OL1W" {
		t.Errorf("detail_url = %q", resp.Books[0].DetailURL)
	}
}

// トグル成功で新しい状態が返りメトリクスが記録されることを検証
func TestFavoritesHandler_Toggle(t *testing.T) {
	toggler := &mockToggler{
		toggleFunc: func(_ context.Context, userID string, book model.Book) (*favorites.ToggleResult, error) {
			if userID != "user_1" || book.Key != "/works/OL1W" {
				t.Errorf("Toggle(%q, %q)", userID, book.Key)
			}
			return &favorites.ToggleResult{IsFavorite: true}, nil
		},
	}
	counts := &toggleCounts{}
	h := NewFavoritesHandler(&mockFavoritesService{}, toggler, counts, "")

	body := `{"book":{"key":"/works/OL1W","title":"Dune","author":"Frank Herbert","year":"1965"}}`
	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/favorites/toggle", strings.NewReader(body)), "user_1")
	w := httptest.NewRecorder()
	h.ToggleFavorite(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp toggleFavoriteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.IsFavorite || resp.BookKey != "/works/OL1W" {
		t.Errorf("resp = %+v", resp)
	}
	if counts.added != 1 || counts.removed != 0 {
		t.Errorf("metrics = %+v, want added=1", counts)
	}
}

// 書籍キー欠落のトグルリクエストが400になることを検証
func TestFavoritesHandler_ToggleMissingKey(t *testing.T) {
	h := NewFavoritesHandler(&mockFavoritesService{}, &mockToggler{}, nil, "")

	body := `{"book":{"title":"Dune"}}`
	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/favorites/toggle", strings.NewReader(body)), "user_1")
	w := httptest.NewRecorder()
	h.ToggleFavorite(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ストア障害のトグルが502で返り、メトリクスが記録されないことを検証
func TestFavoritesHandler_ToggleStoreFailure(t *testing.T) {
	toggler := &mockToggler{
		toggleFunc: func(_ context.Context, _ string, _ model.Book) (*favorites.ToggleResult, error) {
			return nil, model.NewStoreError("更新")
		},
	}
	counts := &toggleCounts{}
	h := NewFavoritesHandler(&mockFavoritesService{}, toggler, counts, "")

	body := `{"book":{"key":"/works/OL1W"}}`
	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/favorites/toggle", strings.NewReader(body)), "user_1")
	w := httptest.NewRecorder()
	h.ToggleFavorite(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var resp apiErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != model.ErrCodeStoreError {
		t.Errorf("code = %q, want STORE_ERROR", resp.Code)
	}
	if counts.added != 0 && counts.removed != 0 {
		t.Errorf("metrics should not be recorded on failure: %+v", counts)
	}
}

// ユーザーID無しのリクエストが401になることを検証
func TestFavoritesHandler_MissingUserID(t *testing.T) {
	h := NewFavoritesHandler(&mockFavoritesService{}, &mockToggler{}, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	w := httptest.NewRecorder()
	h.ListFavorites(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
