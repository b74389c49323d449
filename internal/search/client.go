// Package search は書誌検索APIのクライアントと検索結果の正規化を提供する。
// 上流（OpenLibrary互換の検索エンドポイント）への1クエリ1リクエストの発行と、
// 異種混在の生レコードから安定した表示モデルBookへの変換を行う。
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/hitoshi/bookfinder/internal/model"
)

// json は標準ライブラリ互換設定のjsoniterインスタンス。
// 検索レスポンスのdocsは1件あたりのフィールド数が多いため、デコードにはこちらを使う。
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// defaultResultLimit は1回の検索で上流に要求する固定の結果件数。
const defaultResultLimit = 12

// Sanitizer は上流文字列フィールドのサニタイズに必要なインターフェース。
// security.TextSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	SanitizeText(raw string) string
	SanitizeAll(raw []string) []string
}

// MetricsRecorder は検索メトリクスの記録に必要なインターフェース。
type MetricsRecorder interface {
	RecordSearchSuccess()
	RecordSearchFailure()
	RecordSearchLatency(duration time.Duration)
}

// ClientConfig はClientの設定を保持する。
type ClientConfig struct {
	// BaseURL は検索エンドポイントのベースURL（例: "https://openlibrary.org"）。
	BaseURL string
	// CoverBaseURL はカバー画像エンドポイントのベースURL。
	CoverBaseURL string
	// ResultLimit は1回の検索で要求する結果件数。0の場合は12。
	ResultLimit int
	// MaxResponseSize はレスポンスボディの読み取り上限バイト数。
	MaxResponseSize int64
}

// Client は書誌検索APIのクライアント。
// 1回の検索につき上流へちょうど1リクエストを発行し、
// レスポンス順（関連度順とみなす）を維持したBook列を返す。
type Client struct {
	httpClient *http.Client
	sanitizer  Sanitizer
	metrics    MetricsRecorder
	logger     *slog.Logger
	config     ClientConfig
}

// NewClient はClientの新しいインスタンスを生成する。
// httpClientにはSSRF防止機能付きのクライアントを渡すことを想定している。
func NewClient(
	httpClient *http.Client,
	sanitizer Sanitizer,
	metrics MetricsRecorder,
	logger *slog.Logger,
	config ClientConfig,
) *Client {
	if config.ResultLimit <= 0 {
		config.ResultLimit = defaultResultLimit
	}
	return &Client{
		httpClient: httpClient,
		sanitizer:  sanitizer,
		metrics:    metrics,
		logger:     logger,
		config:     config,
	}
}

// Search は指定の検索種別でクエリを実行し、正規化済みのBook列を返す。
// クエリが空白のみの場合はネットワークリクエストを発行せずバリデーションエラーを返す。
// ネットワーク失敗・非成功ステータス・パース失敗はいずれもSEARCH_FAILEDとして返し、
// 呼び出し元は直前の結果セットを保持したままにできる。
func (c *Client) Search(ctx context.Context, query string, searchType model.SearchType) ([]model.Book, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, model.NewEmptyQueryError()
	}
	if !searchType.IsValid() {
		return nil, model.NewInvalidSearchTypeError(string(searchType))
	}

	start := time.Now()

	// リクエストURL構築: 検索種別がそのままクエリパラメータ名になる
	reqURL, err := url.Parse(c.config.BaseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("検索エンドポイントURLのパースに失敗しました: %w", err)
	}
	q := reqURL.Query()
	q.Set(string(searchType), trimmed)
	q.Set("limit", strconv.Itoa(c.config.ResultLimit))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "Bookfinder/1.0 Book Search")
	req.Header.Set("Accept", "application/json")

	// HTTPリクエスト実行
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("書誌検索APIの呼び出しに失敗しました",
			slog.String("search_type", string(searchType)),
			slog.String("error", err.Error()),
		)
		c.metrics.RecordSearchFailure()
		return nil, model.NewSearchFailedError()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("書誌検索APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("search_type", string(searchType)),
		)
		c.metrics.RecordSearchFailure()
		return nil, model.NewSearchFailedError()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		c.metrics.RecordSearchFailure()
		return nil, model.NewSearchFailedError()
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("書誌検索APIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		c.metrics.RecordSearchFailure()
		return nil, model.NewSearchFailedError()
	}

	// レスポンス順を維持したまま正規化する。重複キーの排除は行わない。
	books := make([]model.Book, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		books = append(books, c.normalize(doc))
	}

	c.metrics.RecordSearchSuccess()
	c.metrics.RecordSearchLatency(time.Since(start))

	c.logger.Info("書誌検索が完了しました",
		slog.String("search_type", string(searchType)),
		slog.Int("result_count", len(books)),
		slog.Int("num_found", payload.NumFound),
	)

	return books, nil
}
