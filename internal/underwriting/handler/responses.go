package handler

import (
	"time"

	"fundline/internal/underwriting"
)

// DecisionResponse is the HTTP response for POST /underwriting/evaluate.
type DecisionResponse struct {
	LoanRequestID string    `json:"loan_request_id"`
	Outcome       string    `json:"outcome"`
	Reason        string    `json:"reason"`
	MatchedRuleID *string   `json:"matched_rule_id,omitempty"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}

// FromDecision converts a domain Decision to an HTTP response.
func FromDecision(d *underwriting.Decision) *DecisionResponse {
	resp := &DecisionResponse{
		LoanRequestID: d.LoanRequestID.String(),
		Outcome:       string(d.Outcome),
		Reason:        string(d.Reason),
		EvaluatedAt:   d.EvaluatedAt,
	}
	if d.MatchedRuleID != nil {
		ruleID := d.MatchedRuleID.String()
		resp.MatchedRuleID = &ruleID
	}
	return resp
}
