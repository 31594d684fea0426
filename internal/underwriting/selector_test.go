package underwriting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "fundline/pkg/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func set(values ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func baseRequest() *LoanRequest {
	return &LoanRequest{
		ID:            id.NewLoanRequestID(),
		LenderID:      id.NewLenderID(),
		RetailerID:    id.NewRetailerID(),
		SupplierID:    id.NewSupplierID(),
		GoodsCategory: "Electronics",
		Region:        "North",
		LoanAmount:    dec(20000),
		CreditScore:   700,
		RequestedAt:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func activeRule(name string, createdAt time.Time) Rule {
	return Rule{
		ID:        id.NewRuleID(),
		LenderID:  id.NewLenderID(),
		Name:      name,
		Active:    true,
		CreatedAt: createdAt,
	}
}

func TestMatchRule_AmountBounds(t *testing.T) {
	rule := activeRule("bounded", time.Now())
	rule.MinLoanAmount = decPtr(5000)
	rule.MaxLoanAmount = decPtr(50000)

	t.Run("below minimum never matches", func(t *testing.T) {
		req := baseRequest()
		req.LoanAmount = dec(4999)
		assert.False(t, MatchRule(&rule, req))
	})

	t.Run("interval is closed at both ends", func(t *testing.T) {
		req := baseRequest()
		req.LoanAmount = dec(5000)
		assert.True(t, MatchRule(&rule, req))

		req.LoanAmount = dec(50000)
		assert.True(t, MatchRule(&rule, req))
	})

	t.Run("above maximum never matches", func(t *testing.T) {
		req := baseRequest()
		req.LoanAmount = dec(50001)
		assert.False(t, MatchRule(&rule, req))
	})
}

func TestMatchRule_CategoryAndRegion(t *testing.T) {
	rule := activeRule("portfolio", time.Now())
	rule.PreferredCategories = set("Electronics", "Appliances")
	rule.PreferredRegions = set("North")

	t.Run("member of both sets matches", func(t *testing.T) {
		assert.True(t, MatchRule(&rule, baseRequest()))
	})

	t.Run("non-member category fails", func(t *testing.T) {
		req := baseRequest()
		req.GoodsCategory = "Clothing"
		assert.False(t, MatchRule(&rule, req))
	})

	t.Run("non-member region fails", func(t *testing.T) {
		req := baseRequest()
		req.Region = "South"
		assert.False(t, MatchRule(&rule, req))
	})

	t.Run("empty sets accept everything", func(t *testing.T) {
		open := activeRule("open", time.Now())
		req := baseRequest()
		req.GoodsCategory = "Anything"
		req.Region = "Anywhere"
		assert.True(t, MatchRule(&open, req))
	})
}

func TestMatchRule_CreditScore(t *testing.T) {
	rule := activeRule("vetted", time.Now())
	rule.MinCreditScore = 680

	t.Run("score at threshold matches", func(t *testing.T) {
		req := baseRequest()
		req.CreditScore = 680
		assert.True(t, MatchRule(&rule, req))
	})

	t.Run("score below threshold fails", func(t *testing.T) {
		req := baseRequest()
		req.CreditScore = 679
		assert.False(t, MatchRule(&rule, req))
	})

	t.Run("tier-scored request compared on tier rank", func(t *testing.T) {
		req := baseRequest()
		req.CreditScore = 0
		req.RiskTier = TierB // threshold 680 falls in tier B
		assert.True(t, MatchRule(&rule, req))

		req.RiskTier = TierC
		assert.False(t, MatchRule(&rule, req))
	})
}

func TestMatchRule_TrustedSupplierBypass(t *testing.T) {
	t.Run("waives credit score", func(t *testing.T) {
		rule := activeRule("trusted", time.Now())
		rule.MinCreditScore = 800
		rule.AutoApproveTrustedSuppliers = true

		req := baseRequest()
		req.CreditScore = 500
		req.SupplierIsTrusted = true
		assert.True(t, MatchRule(&rule, req))
	})

	t.Run("does not waive amount bounds", func(t *testing.T) {
		rule := activeRule("trusted-bounded", time.Now())
		rule.MinLoanAmount = decPtr(5000)
		rule.MaxLoanAmount = decPtr(50000)
		rule.AutoApproveTrustedSuppliers = true

		req := baseRequest()
		req.LoanAmount = dec(60000)
		req.SupplierIsTrusted = true
		assert.False(t, MatchRule(&rule, req))
	})

	t.Run("does not waive category membership", func(t *testing.T) {
		rule := activeRule("trusted-portfolio", time.Now())
		rule.PreferredCategories = set("Electronics")
		rule.AutoApproveTrustedSuppliers = true

		req := baseRequest()
		req.GoodsCategory = "Clothing"
		req.SupplierIsTrusted = true
		assert.False(t, MatchRule(&rule, req))
	})

	t.Run("untrusted supplier gets no bypass", func(t *testing.T) {
		rule := activeRule("trusted-only", time.Now())
		rule.MinCreditScore = 800
		rule.AutoApproveTrustedSuppliers = true

		req := baseRequest()
		req.CreditScore = 500
		req.SupplierIsTrusted = false
		assert.False(t, MatchRule(&rule, req))
	})
}

func TestSelectRule_Ordering(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(24 * time.Hour)

	first := activeRule("first", earlier)
	second := activeRule("second", later)

	t.Run("earliest created rule wins", func(t *testing.T) {
		// Present rules out of order; the selector must not care.
		selected := SelectRule(baseRequest(), []Rule{second, first})
		require.NotNil(t, selected)
		assert.Equal(t, first.ID, selected.ID)
	})

	t.Run("creation time ties break on ascending id", func(t *testing.T) {
		a := activeRule("a", earlier)
		b := activeRule("b", earlier)
		want := a
		if b.ID.String() < a.ID.String() {
			want = b
		}

		selected := SelectRule(baseRequest(), []Rule{a, b})
		require.NotNil(t, selected)
		assert.Equal(t, want.ID, selected.ID)
	})

	t.Run("skips non-matching earlier rules", func(t *testing.T) {
		strict := activeRule("strict", earlier)
		strict.MinLoanAmount = decPtr(100000)

		selected := SelectRule(baseRequest(), []Rule{strict, second})
		require.NotNil(t, selected)
		assert.Equal(t, second.ID, selected.ID)
	})

	t.Run("inactive rules never match", func(t *testing.T) {
		inactive := activeRule("inactive", earlier)
		inactive.Active = false

		assert.Nil(t, SelectRule(baseRequest(), []Rule{inactive}))
	})

	t.Run("no rules means no match", func(t *testing.T) {
		assert.Nil(t, SelectRule(baseRequest(), nil))
	})
}

func TestSelectRule_Deterministic(t *testing.T) {
	rules := []Rule{
		activeRule("r1", time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)),
		activeRule("r2", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		activeRule("r3", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
	}
	req := baseRequest()

	first := SelectRule(req, rules)
	require.NotNil(t, first)
	for range 50 {
		again := SelectRule(req, rules)
		require.NotNil(t, again)
		assert.Equal(t, first.ID, again.ID)
	}
}

func TestRuleValidate(t *testing.T) {
	t.Run("inverted amount bounds rejected", func(t *testing.T) {
		rule := activeRule("inverted", time.Now())
		rule.MinLoanAmount = decPtr(50000)
		rule.MaxLoanAmount = decPtr(5000)
		assert.Error(t, rule.Validate())
	})

	t.Run("allocation percent above 100 rejected", func(t *testing.T) {
		rule := activeRule("over-allocated", time.Now())
		rule.RiskAllocation = map[RiskTier]decimal.Decimal{TierA: dec(120)}
		assert.Error(t, rule.Validate())
	})

	t.Run("unknown allocation tier rejected", func(t *testing.T) {
		rule := activeRule("bad-tier", time.Now())
		rule.RiskAllocation = map[RiskTier]decimal.Decimal{"E": dec(10)}
		assert.Error(t, rule.Validate())
	})
}
