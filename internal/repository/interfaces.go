// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/bookfinder/internal/model"
)

// FavoriteRepository はお気に入り書籍の永続化インターフェース。
// ストアはuser_idでスコープされ、list-all / insert-one / delete-one の
// 3操作のみを提供する。レコードの更新は行わない。
type FavoriteRepository interface {
	// ListByUserID はユーザーの全お気に入りをcreated_at昇順で返す。
	// 1件もない場合は空スライスを返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error)

	// Insert はお気に入りを1件作成し、採番済みの行を返す。
	// ID・CreatedAtはリポジトリが設定する。
	// 同一(user_id, book_key)が既に存在する場合はエラーを返す。
	Insert(ctx context.Context, fav *model.Favorite) (*model.Favorite, error)

	// Delete はuser_idとbook_keyでお気に入りを1件削除する。
	// 削除された場合はtrueを、該当行がない場合はfalseを返す。
	Delete(ctx context.Context, userID, bookKey string) (bool, error)

	// Exists は指定のuser_idとbook_keyのお気に入りが存在するかを返す。
	Exists(ctx context.Context, userID, bookKey string) (bool, error)
}
