// Package model はドメインモデルを定義する。
package model

import "time"

// Favorite はユーザーが保存したお気に入り書籍の永続化レコードを表す。
// 「追加」で作成され「解除」で削除される。更新は行わない。
type Favorite struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	BookKey       string    `json:"book_key"`
	BookTitle     string    `json:"book_title"`
	BookAuthor    string    `json:"book_author"`
	BookCover     string    `json:"book_cover,omitempty"`
	BookYear      string    `json:"book_year"`
	BookPublisher string    `json:"book_publisher"`
	CreatedAt     time.Time `json:"created_at"`
}

// Book はお気に入りレコードを表示用のBookに変換する。
// お気に入りストアはsubjects・isbn・page_countを保持しないため、
// Subjectsは空、ISBNは空文字列、PageCountは"Unknown"に固定される。
func (f *Favorite) Book() Book {
	return Book{
		Key:       f.BookKey,
		Title:     f.BookTitle,
		Author:    f.BookAuthor,
		Year:      f.BookYear,
		Cover:     f.BookCover,
		Publisher: f.BookPublisher,
		Subjects:  []string{},
		PageCount: UnknownValue,
	}
}

// NewFavoriteFromBook はBookからお気に入りレコードを構築する。
// ID・CreatedAtはリポジトリが採番する。
func NewFavoriteFromBook(userID string, book Book) *Favorite {
	return &Favorite{
		UserID:        userID,
		BookKey:       book.Key,
		BookTitle:     book.Title,
		BookAuthor:    book.Author,
		BookCover:     book.Cover,
		BookYear:      book.Year,
		BookPublisher: book.Publisher,
	}
}
