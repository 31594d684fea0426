package underwriting

import "sort"

// SelectRule scans the lender's active rules in match order and returns the
// first rule whose constraints the request satisfies, or nil.
// This is pure domain logic - no I/O, no side effects. Determinism: for a
// fixed rule slice and request the result is always the same rule.
//
// The input is re-sorted defensively so behavior never depends on a storage
// return order. Match order is (CreatedAt, ID) ascending.
func SelectRule(req *LoanRequest, rules []Rule) *Rule {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	SortRules(ordered)

	for i := range ordered {
		if MatchRule(&ordered[i], req) {
			return &ordered[i]
		}
	}
	return nil
}

// SortRules orders rules by (CreatedAt, ID) ascending in place. Stores call
// this too so every implementation honors the same contract.
func SortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if !rules[i].CreatedAt.Equal(rules[j].CreatedAt) {
			return rules[i].CreatedAt.Before(rules[j].CreatedAt)
		}
		return rules[i].ID.String() < rules[j].ID.String()
	})
}

// MatchRule evaluates one rule against one request.
// Check order (fail-fast):
//  1. Amount bounds - the closed interval [min, max] when set
//  2. Preferred categories - membership when the set is non-empty
//  3. Preferred regions - membership when the set is non-empty
//  4. Trusted-supplier bypass - a trusted supplier substitutes for
//     credit-score vetting, not for the portfolio-composition checks above
//  5. Minimum credit score
func MatchRule(rule *Rule, req *LoanRequest) bool {
	if !rule.Active {
		return false
	}

	// 1. Amount bounds
	if rule.MinLoanAmount != nil && req.LoanAmount.LessThan(*rule.MinLoanAmount) {
		return false
	}
	if rule.MaxLoanAmount != nil && req.LoanAmount.GreaterThan(*rule.MaxLoanAmount) {
		return false
	}

	// 2. Preferred categories
	if len(rule.PreferredCategories) > 0 {
		if _, ok := rule.PreferredCategories[req.GoodsCategory]; !ok {
			return false
		}
	}

	// 3. Preferred regions
	if len(rule.PreferredRegions) > 0 {
		if _, ok := rule.PreferredRegions[req.Region]; !ok {
			return false
		}
	}

	// 4. Trusted-supplier bypass
	if rule.AutoApproveTrustedSuppliers && req.SupplierIsTrusted {
		return true
	}

	// 5. Minimum credit score
	if rule.MinCreditScore > 0 {
		if req.CreditScore > 0 {
			if req.CreditScore < rule.MinCreditScore {
				return false
			}
		} else if req.Tier().Rank() < TierForScore(rule.MinCreditScore).Rank() {
			// Tier-scored requests are compared on the tier the
			// threshold falls into.
			return false
		}
	}

	return true
}
