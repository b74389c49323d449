package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/bookfinder/internal/model"
)

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// ListByUserID はユーザーの全お気に入りをcreated_at昇順で返す。
// 1件もない場合は空スライスを返す。
func (r *PostgresFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, book_key, book_title, book_author, book_cover, book_year, book_publisher, created_at
		 FROM favorites WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	favorites := make([]*model.Favorite, 0)
	for rows.Next() {
		fav := &model.Favorite{}
		if err := rows.Scan(
			&fav.ID, &fav.UserID, &fav.BookKey,
			&fav.BookTitle, &fav.BookAuthor, &fav.BookCover,
			&fav.BookYear, &fav.BookPublisher, &fav.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("お気に入り行の読み取りに失敗しました: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("お気に入り一覧の走査に失敗しました: %w", err)
	}

	return favorites, nil
}

// Insert はお気に入りを1件作成し、採番済みの行を返す。
// ID・CreatedAtはここで設定する。
func (r *PostgresFavoriteRepo) Insert(ctx context.Context, fav *model.Favorite) (*model.Favorite, error) {
	inserted := *fav
	inserted.ID = uuid.New().String()
	inserted.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, book_key, book_title, book_author, book_cover, book_year, book_publisher, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inserted.ID, inserted.UserID, inserted.BookKey,
		inserted.BookTitle, inserted.BookAuthor, inserted.BookCover,
		inserted.BookYear, inserted.BookPublisher, inserted.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入りの作成に失敗しました: %w", err)
	}

	return &inserted, nil
}

// Delete はuser_idとbook_keyでお気に入りを1件削除する。
// 削除された場合はtrueを、該当行がない場合はfalseを返す。
func (r *PostgresFavoriteRepo) Delete(ctx context.Context, userID, bookKey string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND book_key = $2`,
		userID, bookKey,
	)
	if err != nil {
		return false, fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除行数の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// Exists は指定のuser_idとbook_keyのお気に入りが存在するかを返す。
func (r *PostgresFavoriteRepo) Exists(ctx context.Context, userID, bookKey string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND book_key = $2)`,
		userID, bookKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("お気に入りの存在確認に失敗しました: %w", err)
	}

	return exists, nil
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
