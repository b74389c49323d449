package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hitoshi/bookfinder/internal/model"
)

// maxSubjects はBookに取り込む主題タグの上限数。
const maxSubjects = 3

// searchResponse は上流検索エンドポイントのレスポンスボディを表す。
type searchResponse struct {
	NumFound int      `json:"numFound"`
	Docs     []rawDoc `json:"docs"`
}

// rawDoc は上流の生の書誌レコードを表す。
// すべてのフィールドが省略されうる。
type rawDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	CoverID             int64    `json:"cover_i"`
	Publisher           []string `json:"publisher"`
	Subject             []string `json:"subject"`
	ISBN                []string `json:"isbn"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
}

// normalize は生レコードを表示用のBookに変換する。
// 正規化規則:
//   - author: 全著者名を", "で結合。無い場合は"Unknown Author"
//   - year: 初版出版年の10進数文字列。無い場合は"Unknown"
//   - cover: cover_iがあれば中サイズ画像URL。無い場合は空文字列
//   - publisher: 出版社リストの先頭。無い場合は"Unknown Publisher"
//   - subjects: 主題リストの先頭3件。無い場合は空スライス
//   - isbn: ISBNリストの先頭。無い場合は空文字列
//   - pageCount: ページ数中央値の10進数文字列。無い場合は"Unknown"
//
// 文字列フィールドはすべてサニタイズ済みの値が入る。
func (c *Client) normalize(doc rawDoc) model.Book {
	book := model.Book{
		Key:       doc.Key,
		Title:     c.sanitizer.SanitizeText(doc.Title),
		Author:    model.UnknownAuthor,
		Year:      model.UnknownValue,
		Publisher: model.UnknownPublisher,
		Subjects:  []string{},
		PageCount: model.UnknownValue,
	}

	if len(doc.AuthorName) > 0 {
		book.Author = strings.Join(c.sanitizer.SanitizeAll(doc.AuthorName), ", ")
	}

	if doc.FirstPublishYear != 0 {
		book.Year = strconv.Itoa(doc.FirstPublishYear)
	}

	if doc.CoverID != 0 {
		book.Cover = fmt.Sprintf("%s/b/id/%d-M.jpg", c.config.CoverBaseURL, doc.CoverID)
	}

	if len(doc.Publisher) > 0 {
		book.Publisher = c.sanitizer.SanitizeText(doc.Publisher[0])
	}

	if len(doc.Subject) > 0 {
		subjects := doc.Subject
		if len(subjects) > maxSubjects {
			subjects = subjects[:maxSubjects]
		}
		book.Subjects = c.sanitizer.SanitizeAll(subjects)
	}

	if len(doc.ISBN) > 0 {
		book.ISBN = doc.ISBN[0]
	}

	if doc.NumberOfPagesMedian > 0 {
		book.PageCount = strconv.Itoa(doc.NumberOfPagesMedian)
	}

	return book
}
