package handler

import (
	"strings"

	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /underwriting/evaluate.
type EvaluateRequest struct {
	LoanRequestID string `json:"loan_request_id"`

	// Parsed values (populated by Validate)
	parsedLoanRequestID id.LoanRequestID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.LoanRequestID = strings.TrimSpace(r.LoanRequestID)
	if r.LoanRequestID == "" {
		return dErrors.New(dErrors.CodeValidation, "loan_request_id is required")
	}

	loanRequestID, err := id.ParseLoanRequestID(r.LoanRequestID)
	if err != nil {
		return err
	}
	r.parsedLoanRequestID = loanRequestID

	return nil
}

// ParsedLoanRequestID returns the validated loan request ID.
func (r *EvaluateRequest) ParsedLoanRequestID() id.LoanRequestID {
	return r.parsedLoanRequestID
}
