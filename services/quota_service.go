package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// DefaultMonthlyQuota applies when MONTHLY_QUOTA_LIMIT is not configured.
const DefaultMonthlyQuota = 100

const quotaCacheTTLCap = 10 * time.Minute

// QuotaService computes the per-user purchase ceiling for the current
// calendar month. Usage is summed over settled order items with a raw query
// and cached in Redis until the period ends (capped, so fresh orders show up
// within minutes).
type QuotaService struct {
	db    *pgxpool.Pool
	redis *redis.Client
	limit int
}

// NewQuotaService creates a new quota service
func NewQuotaService(db *pgxpool.Pool, redisClient *redis.Client) *QuotaService {
	limit := DefaultMonthlyQuota
	if v := os.Getenv("MONTHLY_QUOTA_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		} else {
			log.Printf("⚠️ Invalid MONTHLY_QUOTA_LIMIT %q, using default %d", v, DefaultMonthlyQuota)
		}
	}
	return &QuotaService{db: db, redis: redisClient, limit: limit}
}

// Snapshot returns the user's quota for the current period.
func (s *QuotaService) Snapshot(ctx context.Context, userID uuid.UUID) (*models.QuotaInfo, error) {
	periodStart, periodEnd := currentPeriod(time.Now().UTC())
	key := quotaCacheKey(userID, periodStart)

	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, key).Result(); err == nil {
			var info models.QuotaInfo
			if err := json.Unmarshal([]byte(raw), &info); err == nil {
				return &info, nil
			}
		}
	}

	used, err := s.usedInPeriod(ctx, userID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	remaining := s.limit - used
	if remaining < 0 {
		remaining = 0
	}
	info := &models.QuotaInfo{
		Limit:       s.limit,
		Used:        used,
		Remaining:   remaining,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	if s.redis != nil {
		ttl := time.Until(periodEnd)
		if ttl > quotaCacheTTLCap {
			ttl = quotaCacheTTLCap
		}
		if raw, err := json.Marshal(info); err == nil && ttl > 0 {
			s.redis.Set(ctx, key, raw, ttl)
		}
	}

	return info, nil
}

// Invalidate drops the cached snapshot, called after order creation.
func (s *QuotaService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	periodStart, _ := currentPeriod(time.Now().UTC())
	if err := s.redis.Del(ctx, quotaCacheKey(userID, periodStart)).Err(); err != nil {
		log.Printf("⚠️ Failed to invalidate quota cache for user %s: %v", userID, err)
	}
}

// usedInPeriod sums purchased quantity over non-cancelled orders.
func (s *QuotaService) usedInPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		INNER JOIN orders o ON oi.order_id = o.id
		WHERE o.user_id = $1
		  AND o.status <> 'cancelled'
		  AND o.created_at >= $2
		  AND o.created_at < $3
	`

	var used int
	if err := s.db.QueryRow(ctx, query, userID, from, to).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to sum quota usage: %w", err)
	}
	return used, nil
}

// currentPeriod returns the UTC calendar month containing now.
func currentPeriod(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

func quotaCacheKey(userID uuid.UUID, periodStart time.Time) string {
	return "quota:" + userID.String() + ":" + periodStart.Format("2006-01")
}
