package models

import "time"

// Metric types a health record can carry.
const (
	MetricWeight   = "weight"
	MetricSleep    = "sleep"
	MetricActivity = "activity"
	MetricFood     = "food"
	MetricBehavior = "behavior"
)

// ValidMetricType reports whether t is one of the supported metric types.
func ValidMetricType(t string) bool {
	switch t {
	case MetricWeight, MetricSleep, MetricActivity, MetricFood, MetricBehavior:
		return true
	}
	return false
}

// HealthRecord is a single logged health metric for a pet.
type HealthRecord struct {
	ID         string    `json:"id" firestore:"-"`
	PetID      string    `json:"petId" firestore:"petId"`
	Type       string    `json:"type" firestore:"type"`
	Value      float64   `json:"value" firestore:"value"`
	Unit       string    `json:"unit,omitempty" firestore:"unit,omitempty"`
	Notes      string    `json:"notes,omitempty" firestore:"notes,omitempty"`
	RecordedAt time.Time `json:"recordedAt" firestore:"recordedAt"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
