// Package favorites はお気に入り書籍の管理サービスを提供する。
// お気に入りはユーザーごとにスコープされたストアに永続化され、
// 検索結果の上に「お気に入りかどうか」のオーバーレイとして重ねられる。
package favorites

import (
	"context"
	"log/slog"

	"github.com/hitoshi/bookfinder/internal/model"
	"github.com/hitoshi/bookfinder/internal/repository"
)

// ToggleResult はトグル操作の結果を表す。
type ToggleResult struct {
	// IsFavorite はトグル後の状態。追加されたならtrue、解除されたならfalse。
	IsFavorite bool
}

// Service はお気に入りの参照・トグルを提供する。
// ストア操作が失敗した場合、状態は一切変更されない。
type Service struct {
	repo   repository.FavoriteRepository
	logger *slog.Logger
}

// NewService はServiceを生成する。
func NewService(repo repository.FavoriteRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List はユーザーの全お気に入りを保存順（created_at昇順）で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Favorite, error) {
	favs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("お気に入り一覧の取得に失敗しました",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, model.NewStoreError("取得")
	}
	return favs, nil
}

// ListBooks はユーザーの全お気に入りを表示用のBook列として返す。
func (s *Service) ListBooks(ctx context.Context, userID string) ([]model.Book, error) {
	favs, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0, len(favs))
	for _, fav := range favs {
		books = append(books, fav.Book())
	}
	return books, nil
}

// Membership はユーザーのお気に入りに含まれる書籍キーの集合を返す。
// 検索結果へのオーバーレイ表示に使う。
func (s *Service) Membership(ctx context.Context, userID string) (map[string]bool, error) {
	favs, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(favs))
	for _, fav := range favs {
		keys[fav.BookKey] = true
	}
	return keys, nil
}

// Toggle は書籍のお気に入り状態を反転する。
// 現在お気に入りであれば解除（削除）し、そうでなければ追加（作成）する。
// ストア操作が成功した場合にのみ新しい状態を返す。失敗した場合は
// STORE_ERRORを返し、状態は変更されない。
func (s *Service) Toggle(ctx context.Context, userID string, book model.Book) (*ToggleResult, error) {
	exists, err := s.repo.Exists(ctx, userID, book.Key)
	if err != nil {
		s.logger.Error("お気に入り状態の確認に失敗しました",
			slog.String("user_id", userID),
			slog.String("book_key", book.Key),
			slog.String("error", err.Error()))
		return nil, model.NewStoreError("更新")
	}

	if exists {
		deleted, err := s.repo.Delete(ctx, userID, book.Key)
		if err != nil {
			s.logger.Error("お気に入りの削除に失敗しました",
				slog.String("user_id", userID),
				slog.String("book_key", book.Key),
				slog.String("error", err.Error()))
			return nil, model.NewStoreError("解除")
		}
		// 確認から削除までの間に他のリクエストが消していても結果は同じ
		_ = deleted

		s.logger.Info("お気に入りを解除しました",
			slog.String("user_id", userID),
			slog.String("book_key", book.Key))
		return &ToggleResult{IsFavorite: false}, nil
	}

	fav := model.NewFavoriteFromBook(userID, book)
	if _, err := s.repo.Insert(ctx, fav); err != nil {
		s.logger.Error("お気に入りの追加に失敗しました",
			slog.String("user_id", userID),
			slog.String("book_key", book.Key),
			slog.String("error", err.Error()))
		return nil, model.NewStoreError("追加")
	}

	s.logger.Info("お気に入りを追加しました",
		slog.String("user_id", userID),
		slog.String("book_key", book.Key))
	return &ToggleResult{IsFavorite: true}, nil
}
