package models

import "time"

// Audit actions recorded for entitlement-affecting changes.
const (
	AuditActionPremiumGranted      = "premium_granted"
	AuditActionPremiumRevoked      = "premium_revoked"
	AuditActionSubscriptionDeleted = "subscription_deleted"
	AuditActionTrialStarted        = "trial_started"
	AuditActionTrialCanceled       = "trial_canceled"
)

// AuditLog records who changed what. Admin grants and billing-driven plan
// changes are audited; regular CRUD is not.
type AuditLog struct {
	ID        string    `json:"id" firestore:"-"`
	Action    string    `json:"action" firestore:"action"`
	ActorID   string    `json:"actorId" firestore:"actorId"`
	TargetID  string    `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details   string    `json:"details,omitempty" firestore:"details,omitempty"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
