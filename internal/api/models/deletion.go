package models

// DeletionRequestCreate is the request body for creating a deletion request.
type DeletionRequestCreate struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// DeletionRequest represents an account deletion request.
type DeletionRequest struct {
	ID                  string                `json:"id"`
	Status              DeletionRequestStatus `json:"status"`
	Reason              *string               `json:"reason,omitempty"`
	RequestedAt         Timestamp             `json:"requestedAt"`
	ScheduledFor        Timestamp             `json:"scheduledFor"`
	ScheduledForDisplay string                `json:"scheduledForDisplay"`
	CancelledAt         *Timestamp            `json:"cancelledAt,omitempty"`
}

// DeletionStatus reports whether an account has a pending deletion.
// Returned for every account, including those with no request on file.
type DeletionStatus struct {
	HasPendingDeletion bool       `json:"hasPendingDeletion"`
	RequestID          *string    `json:"requestId,omitempty"`
	RequestedAt        *Timestamp `json:"requestedAt,omitempty"`
	ScheduledFor       *Timestamp `json:"scheduledFor,omitempty"`
}

// DeletionCancelResponse is the response body for a successful cancellation.
type DeletionCancelResponse struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	CancelledAt Timestamp `json:"cancelledAt"`
}

// AccountSummary is a compact account representation for admin listings.
type AccountSummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// AdminDeletionRequest is a deletion request enriched with account details
// for the administrative listing.
type AdminDeletionRequest struct {
	DeletionRequest
	Account *AccountSummary `json:"account,omitempty"`
}

// AdminDeletionRequestList represents the administrative listing of all
// deletion requests.
type AdminDeletionRequestList struct {
	Items []AdminDeletionRequest `json:"items"`
	Total int                    `json:"total"`
}
