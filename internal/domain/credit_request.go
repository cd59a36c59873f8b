package domain

import "time"

type CreditRequestStatus string

const (
	CreditRequestPending  CreditRequestStatus = "PENDING"
	CreditRequestApproved CreditRequestStatus = "APPROVED"
	CreditRequestRejected CreditRequestStatus = "REJECTED"
)

type CreditAction string

const (
	CreditActionApprove CreditAction = "APPROVE"
	CreditActionReject  CreditAction = "REJECT"
)

// CreditRequest is a pending ask from a subordinate to its superior for
// funds. APPROVED and REJECTED are terminal.
type CreditRequest struct {
	ID          int64               `json:"id"`
	RequesterID int64               `json:"requester_id"`
	SuperiorID  int64               `json:"superior_id"`
	AmountCents int64               `json:"amount"`
	Status      CreditRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}
