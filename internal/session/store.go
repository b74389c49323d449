// Package session はユーザーごとの検索セッションを管理する。
// セッションは直近の検索結果（ベース列）と現在のビュー状態を保持し、
// 表示内容はリクエストごとにパイプラインで再計算される。
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/bookfinder/internal/model"
	"github.com/hitoshi/bookfinder/internal/pipeline"
)

// StoreConfig はセッションストアの設定を保持する。
type StoreConfig struct {
	TTL             time.Duration // 最終アクセスからセッションを破棄するまでの期間
	CleanupInterval time.Duration // 期限切れセッションのクリーンアップ間隔
}

// DefaultStoreConfig はデフォルトのセッションストア設定を返す。
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		TTL:             30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// searchSession は1ユーザー分の検索セッション。
type searchSession struct {
	results    []model.Book
	view       model.ViewState
	inFlight   bool
	lastAccess time.Time
}

// Snapshot はセッションの読み取り専用コピー。
type Snapshot struct {
	Results []model.Book
	View    model.ViewState
}

// Store はユーザーIDをキーとする検索セッションの集合を管理する。
// すべての操作は並行アクセスに対して安全。
type Store struct {
	config StoreConfig
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*searchSession

	stopCh chan struct{}
}

// NewStore は新しいStoreを生成する。
// バックグラウンドで期限切れセッションのクリーンアップを開始する。
func NewStore(config StoreConfig, logger *slog.Logger) *Store {
	s := &Store{
		config:   config,
		logger:   logger,
		sessions: make(map[string]*searchSession),
		stopCh:   make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (s *Store) Stop() {
	close(s.stopCh)
}

// BeginSearch はユーザーの検索開始を記録する。
// 同一ユーザーの検索がすでに実行中の場合はSEARCH_IN_PROGRESSを返し、
// セッションは変更されない。
func (s *Store) BeginSearch(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	if sess.inFlight {
		return model.NewSearchInProgressError()
	}

	sess.inFlight = true
	sess.lastAccess = time.Now()
	return nil
}

// EndSearch はユーザーの検索終了を記録する。
// 検索の成否にかかわらず必ず呼び出すこと。失敗した検索では
// 直前の結果とビュー状態がそのまま保持される。
func (s *Store) EndSearch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.inFlight = false
		sess.lastAccess = time.Now()
	}
}

// SetResults は検索成功時に新しいベース列を保存し、ビュー状態を
// 新しいクエリと検索種別でリセットする（ソート順relevance、
// フィルタ無し、1ページ目）。
func (s *Store) SetResults(userID, query string, searchType model.SearchType, results []model.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	sess.results = results
	sess.view = model.DefaultViewState()
	sess.view.Query = query
	sess.view.SearchType = searchType
	sess.lastAccess = time.Now()
}

// UpdateView はビュー状態に部分更新を適用し、更新後の状態を返す。
// ページ以外のフィールドが変わった場合、ページは1にリセットされる。
func (s *Store) UpdateView(userID string, patch pipeline.ViewPatch) (model.ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	next, err := pipeline.ApplyPatch(sess.view, patch)
	if err != nil {
		return sess.view, err
	}

	sess.view = next
	sess.lastAccess = time.Now()
	return next, nil
}

// Get はユーザーのセッションのスナップショットを返す。
// セッションが存在しない場合は空の結果とデフォルトのビュー状態を返す。
func (s *Store) Get(userID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Snapshot{
			Results: []model.Book{},
			View:    model.DefaultViewState(),
		}
	}

	sess.lastAccess = time.Now()

	results := make([]model.Book, len(sess.results))
	copy(results, sess.results)

	return Snapshot{
		Results: results,
		View:    sess.view,
	}
}

// Count は現在管理されているセッション数を返す。
// テストおよびメトリクス用。
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// getOrCreateLocked はセッションを取得または作成する。
// 呼び出し側がs.muを保持していること。
func (s *Store) getOrCreateLocked(userID string) *searchSession {
	if sess, ok := s.sessions[userID]; ok {
		return sess
	}

	sess := &searchSession{
		results:    []model.Book{},
		view:       model.DefaultViewState(),
		lastAccess: time.Now(),
	}
	s.sessions[userID] = sess
	return sess
}

// cleanupLoop はバックグラウンドで期限切れセッションを定期的にクリーンアップする。
func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がTTLを超えたセッションを削除する。
// 実行中の検索を持つセッションは削除しない。
func (s *Store) cleanup() {
	now := time.Now()

	s.mu.Lock()
	removed := 0
	for userID, sess := range s.sessions {
		if !sess.inFlight && now.Sub(sess.lastAccess) > s.config.TTL {
			delete(s.sessions, userID)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Info("期限切れの検索セッションを削除しました",
			slog.Int("removed_count", removed))
	}
}
