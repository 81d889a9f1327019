package domain

import "time"

// ReceiptPolicy controls when a multi-party order may be received at the
// warehouse.
type ReceiptPolicy string

const (
	// ReceiptPolicyAllParties requires every party's goods to be marked
	// received before the order-level receipt transition is allowed.
	ReceiptPolicyAllParties ReceiptPolicy = "all-parties"
	// ReceiptPolicyAnyParty allows order-level receipt once at least one
	// party's goods have arrived.
	ReceiptPolicyAnyParty ReceiptPolicy = "any-party"
)

// IsValid checks if the receipt policy is valid
func (p ReceiptPolicy) IsValid() bool {
	return p == ReceiptPolicyAllParties || p == ReceiptPolicyAnyParty
}

// DispatchState tracks one party's progress on a multi-party order. Each
// party independently accepts, dispatches and has its goods received; the
// order-level transitions gate on the aggregate of these states.
type DispatchState struct {
	AcceptedAt   *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	DispatchedAt *time.Time `bson:"dispatchedAt,omitempty" json:"dispatchedAt,omitempty"`
	ReceivedAt   *time.Time `bson:"receivedAt,omitempty" json:"receivedAt,omitempty"`
	Notes        string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// MarkAccepted records the party's acceptance. Idempotent.
func (s *DispatchState) MarkAccepted() {
	if s.AcceptedAt == nil {
		now := time.Now().UTC()
		s.AcceptedAt = &now
	}
}

// MarkDispatched records the party's dispatch. Idempotent.
func (s *DispatchState) MarkDispatched(notes string) {
	if s.DispatchedAt == nil {
		now := time.Now().UTC()
		s.DispatchedAt = &now
	}
	if notes != "" {
		s.Notes = notes
	}
}

// MarkReceived records warehouse receipt of the party's goods. Idempotent.
func (s *DispatchState) MarkReceived() {
	if s.ReceivedAt == nil {
		now := time.Now().UTC()
		s.ReceivedAt = &now
	}
}

// Received reports whether this party's goods have arrived at the warehouse
func (s *DispatchState) Received() bool {
	return s.ReceivedAt != nil
}
