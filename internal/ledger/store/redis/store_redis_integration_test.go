//go:build integration

package redis

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundline/internal/ledger"
	id "fundline/pkg/domain"
	"fundline/pkg/testutil/containers"
)

func TestRedisStore_Reserve(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := New(rc.Client)
	ctx := context.Background()

	lenderID, ruleID := id.NewLenderID(), id.NewRuleID()
	limit := decimal.NewFromInt(100000)

	req := func(amount int64) ledger.ReserveRequest {
		return ledger.ReserveRequest{
			LenderID: lenderID,
			RuleID:   ruleID,
			Day:      "2026-03-10",
			Tier:     "B",
			Amount:   decimal.NewFromInt(amount),
			Limit:    &limit,
		}
	}

	res, err := store.Reserve(ctx, req(45000))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusReserved, res.Status)

	res, err = store.Reserve(ctx, req(60000))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusLimitExceeded, res.Status)

	total, err := store.TotalFor(ctx, lenderID, ruleID, "2026-03-10")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(45000)))
}

// TestRedisStore_NeverOvershoots exercises the Lua script under real
// concurrency: combined requested amount is triple the limit.
func TestRedisStore_NeverOvershoots(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := New(rc.Client)
	ctx := context.Background()

	lenderID, ruleID := id.NewLenderID(), id.NewRuleID()
	limit := decimal.NewFromInt(100000)

	const goroutines = 60
	const amount = 5000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			_, err := store.Reserve(ctx, ledger.ReserveRequest{
				LenderID: lenderID,
				RuleID:   ruleID,
				Day:      "2026-03-10",
				Tier:     "C",
				Amount:   decimal.NewFromInt(amount),
				Limit:    &limit,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	total, err := store.TotalFor(ctx, lenderID, ruleID, "2026-03-10")
	require.NoError(t, err)
	assert.True(t, total.LessThanOrEqual(limit),
		"total %s exceeds limit %s", total, limit)
	assert.True(t, total.Equal(limit),
		"with triple demand the bucket should fill exactly, got %s", total)
}

func TestRedisStore_RiskAllocation(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := New(rc.Client)
	ctx := context.Background()

	lenderID, ruleID := id.NewLenderID(), id.NewRuleID()
	limit := decimal.NewFromInt(100000)
	tierCap := decimal.NewFromInt(30000)

	req := func(amount int64) ledger.ReserveRequest {
		return ledger.ReserveRequest{
			LenderID: lenderID,
			RuleID:   ruleID,
			Day:      "2026-03-10",
			Tier:     "D",
			Amount:   decimal.NewFromInt(amount),
			Limit:    &limit,
			TierCap:  &tierCap,
		}
	}

	res, err := store.Reserve(ctx, req(29000))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusReserved, res.Status)

	// Crossing loan admitted.
	res, err = store.Reserve(ctx, req(5000))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusReserved, res.Status)

	// Tier exhausted.
	res, err = store.Reserve(ctx, req(1000))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusRiskAllocationDenied, res.Status)
}
