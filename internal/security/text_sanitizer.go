// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は上流の書誌検索APIから受け取った文字列フィールド
// （書名・著者名・出版社・主題タグ）からHTMLを除去し、プレーンテキストとして
// 安全に保存・表示できる形にする。bluemondayのStrictPolicyで全タグを除去し、
// その際エスケープされたエンティティを復元してテキスト表現を維持する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキストサニタイズ機能のインターフェースを定義する。
// 正規化時、Bookモデルに取り込む前の全文字列フィールドに適用される。
type TextSanitizerService interface {
	// SanitizeText は文字列から全HTMLタグを除去したプレーンテキストを返す。
	// "War & Peace" のようなエンティティを含むテキストはそのまま維持される。
	// 前後の空白は除去される。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string

	// SanitizeAll は文字列スライスの各要素をSanitizeTextで処理して返す。
	// nilにはnilを返す。
	SanitizeAll(raw []string) []string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。書誌データの文字列フィールドは
// プレーンテキストであるべきで、許可するタグは存在しない。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は文字列から全HTMLタグを除去したプレーンテキストを返す。
// bluemondayはタグ除去後にエンティティをエスケープするため、
// html.UnescapeStringで復元して元のテキスト表現を保つ。
func (s *textSanitizer) SanitizeText(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// SanitizeAll は文字列スライスの各要素をSanitizeTextで処理して返す。
func (s *textSanitizer) SanitizeAll(raw []string) []string {
	if raw == nil {
		return nil
	}
	cleaned := make([]string, len(raw))
	for i, v := range raw {
		cleaned[i] = s.SanitizeText(v)
	}
	return cleaned
}
