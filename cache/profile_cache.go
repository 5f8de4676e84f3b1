package profile_cache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

const TTL = 5 * time.Minute

// ── Variant price profile cache ──────────────────────────────────────────────
// One entry per sellable variant: base price, active flag and the full tier
// table, ordered for resolution. Cart pricing reads from here so a catalog
// hit is not needed on every mutation; tier edits invalidate.

type profileEntry struct {
	profile   models.VariantPriceProfile
	fetchedAt time.Time
}

var (
	mu       sync.RWMutex
	profiles = map[uuid.UUID]profileEntry{}
)

func Get(variantID uuid.UUID) (models.VariantPriceProfile, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if e, ok := profiles[variantID]; ok && time.Since(e.fetchedAt) < TTL {
		return e.profile, true
	}
	return models.VariantPriceProfile{}, false
}

func Set(profile models.VariantPriceProfile) {
	mu.Lock()
	defer mu.Unlock()
	profiles[profile.VariantID] = profileEntry{profile: profile, fetchedAt: time.Now()}
}

// ── Invalidation (call on any tier table or variant change) ──────────────────

func Invalidate(variantID uuid.UUID) {
	mu.Lock()
	defer mu.Unlock()
	delete(profiles, variantID)
}

func InvalidateAll() {
	mu.Lock()
	defer mu.Unlock()
	profiles = map[uuid.UUID]profileEntry{}
}
