package cartengine

import (
	"sync"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// CatalogSnapshot is the client-held cache of variant price profiles for one
// editing session. It lets the resolver run on every keystroke without a
// catalog round trip. The snapshot is read-only while editing: an upstream
// price change is not seen until Replace re-fetches. That staleness window
// is accepted; the authoritative price is always re-derived server-side at
// order time.
type CatalogSnapshot struct {
	mu       sync.RWMutex
	profiles map[LineKey]models.VariantPriceProfile
}

func NewCatalogSnapshot() *CatalogSnapshot {
	return &CatalogSnapshot{profiles: map[LineKey]models.VariantPriceProfile{}}
}

// Put stores one profile. Used while assembling the snapshot, not for
// in-session mutation.
func (s *CatalogSnapshot) Put(key LineKey, profile models.VariantPriceProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[key] = profile
}

// Replace swaps the whole snapshot. It is the only supported refresh.
func (s *CatalogSnapshot) Replace(profiles map[LineKey]models.VariantPriceProfile) {
	copied := make(map[LineKey]models.VariantPriceProfile, len(profiles))
	for k, v := range profiles {
		copied[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = copied
}

// Profile implements ProfileSource.
func (s *CatalogSnapshot) Profile(key LineKey) (models.VariantPriceProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[key]
	return profile, ok
}
