// Package redis backs the ledger with a shared Redis instance so multiple
// engine nodes agree on daily deployment totals.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"fundline/internal/ledger"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// Store keeps one hash per bucket; the whole reserve-if-room check runs
// inside a single Lua script, which Redis executes atomically. Amounts are
// held as integer cents so the script can use HINCRBY.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// bucketTTL keeps finished days around long enough for reporting before
// Redis reclaims them.
const defaultBucketTTL = 72 * time.Hour

// reserveScript performs the atomic read-check-write.
//
// KEYS[1] bucket hash
// ARGV[1] amount cents
// ARGV[2] limit cents, -1 when unlimited
// ARGV[3] tier cap cents, -1 when unchecked
// ARGV[4] tier
// ARGV[5] ttl seconds
//
// Returns {status, total_cents, tier_total_cents}.
var reserveScript = redis.NewScript(`
local total = tonumber(redis.call('HGET', KEYS[1], 'total') or '0')
local tier_field = 'tier:' .. ARGV[4]
local tier_total = tonumber(redis.call('HGET', KEYS[1], tier_field) or '0')
local amount = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local tier_cap = tonumber(ARGV[3])

if limit >= 0 and total + amount > limit then
	return {'limit_exceeded', total, tier_total}
end
if tier_cap >= 0 and tier_total >= tier_cap then
	return {'risk_allocation_exceeded', total, tier_total}
end

total = redis.call('HINCRBY', KEYS[1], 'total', amount)
tier_total = redis.call('HINCRBY', KEYS[1], tier_field, amount)
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[5]))
return {'reserved', total, tier_total}
`)

// New creates a Redis-backed ledger store.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client, ttl: defaultBucketTTL}
}

func bucketKey(lenderID id.LenderID, ruleID id.RuleID, day string) string {
	return fmt.Sprintf("fundline:ledger:%s:%s:%s", lenderID, ruleID, day)
}

// cents converts a 2-decimal money amount into integer cents for HINCRBY.
func cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// Reserve implements ports.Store.
func (s *Store) Reserve(ctx context.Context, req ledger.ReserveRequest) (*ledger.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	limitCents := int64(-1)
	if req.Limit != nil {
		limitCents = cents(*req.Limit)
	}
	tierCapCents := int64(-1)
	if req.TierCap != nil {
		tierCapCents = cents(*req.TierCap)
	}

	raw, err := reserveScript.Run(ctx, s.client,
		[]string{bucketKey(req.LenderID, req.RuleID, req.Day)},
		cents(req.Amount), limitCents, tierCapCents, req.Tier, int64(s.ttl.Seconds()),
	).Slice()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "ledger reserve script failed")
	}
	if len(raw) != 3 {
		return nil, dErrors.Newf(dErrors.CodeInternal, "ledger reserve script returned %d values", len(raw))
	}

	status, ok := raw[0].(string)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal, "ledger reserve script returned non-string status")
	}
	total, err := scriptInt(raw[1])
	if err != nil {
		return nil, err
	}
	tierTotal, err := scriptInt(raw[2])
	if err != nil {
		return nil, err
	}

	return &ledger.Result{
		Status:    ledger.Status(status),
		Total:     fromCents(total),
		TierTotal: fromCents(tierTotal),
	}, nil
}

// TotalFor implements ports.Store.
func (s *Store) TotalFor(ctx context.Context, lenderID id.LenderID, ruleID id.RuleID, day string) (decimal.Decimal, error) {
	raw, err := s.client.HGet(ctx, bucketKey(lenderID, ruleID, day), "total").Int64()
	if err == redis.Nil {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeDependency, "ledger total read failed")
	}
	return fromCents(raw), nil
}

func scriptInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case string:
		var parsed int64
		if _, err := fmt.Sscan(n, &parsed); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "ledger reserve script returned non-numeric total")
		}
		return parsed, nil
	default:
		return 0, dErrors.New(dErrors.CodeInternal, "ledger reserve script returned unexpected total type")
	}
}
