package studio

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store はセッションIDをキーにワークスペースを保持するインメモリストアです。
// アクセスのたびに有効期限が延長され、期限切れになったワークスペースは解放されます。
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore は ttl の間アクセスされなかったワークスペースを破棄するストアを生成します。
func NewStore(ttl time.Duration) *Store {
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, v interface{}) {
		if ws, ok := v.(*Workspace); ok {
			ws.Release()
			slog.Debug("Workspace released", "workspace_id", id)
		}
	})
	return &Store{cache: c, ttl: ttl}
}

// Get は id のワークスペースを返し、有効期限を延長します。
func (s *Store) Get(id string) (*Workspace, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	ws, ok := v.(*Workspace)
	if !ok {
		return nil, false
	}
	s.cache.Set(id, ws, cache.DefaultExpiration)
	return ws, true
}

// Create は新しいIDでワークスペースを生成して登録します。
func (s *Store) Create() *Workspace {
	ws := NewWorkspace(uuid.NewString())
	s.cache.Set(ws.ID, ws, cache.DefaultExpiration)
	return ws
}

// GetOrCreate は id のワークスペースを返します。存在しない場合は新しく生成します。
// 戻り値の bool は新規作成かどうかです。
func (s *Store) GetOrCreate(id string) (*Workspace, bool) {
	if ws, ok := s.Get(id); ok {
		return ws, false
	}
	return s.Create(), true
}

// Delete はワークスペースを破棄し、保持していたリソースを解放します。
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len は保持しているワークスペース数を返します。
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// Close は保持しているすべてのワークスペースを解放します。
func (s *Store) Close() {
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
}
