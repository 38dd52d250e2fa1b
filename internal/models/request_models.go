package models

import "time"

// CreatePetRequest is the payload for creating a pet profile.
type CreatePetRequest struct {
	Name      string     `json:"name" binding:"required"`
	Species   string     `json:"species" binding:"required"`
	Breed     string     `json:"breed"`
	BirthDate *time.Time `json:"birthDate"`
	PhotoURL  string     `json:"photoURL"`
}

// UpdatePetRequest carries optional fields; nil pointers leave the stored
// value untouched.
type UpdatePetRequest struct {
	Name      *string    `json:"name"`
	Species   *string    `json:"species"`
	Breed     *string    `json:"breed"`
	BirthDate *time.Time `json:"birthDate"`
	PhotoURL  *string    `json:"photoURL"`
}

// SharePetRequest names the veterinarian (by account email) a pet is shared with.
type SharePetRequest struct {
	VetEmail string `json:"vetEmail" binding:"required,email"`
}

// CreateHealthRecordRequest is the payload for logging a health metric.
type CreateHealthRecordRequest struct {
	Type       string     `json:"type" binding:"required"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit"`
	Notes      string     `json:"notes"`
	RecordedAt *time.Time `json:"recordedAt"`
}

// ListHealthRecordsQuery filters a record listing. Zero values are ignored.
type ListHealthRecordsQuery struct {
	Type  string
	Since *time.Time
	Until *time.Time
	Limit int
}

// UpdateProfileRequest updates mutable account fields.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Role        *string `json:"role"`
}

// CreateForumPostRequest is the payload for a new discussion post.
type CreateForumPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category"`
}

// CreateForumReplyRequest is the payload for replying to a post.
type CreateForumReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// SetPremiumGrantRequest toggles an admin premium grant on a user.
type SetPremiumGrantRequest struct {
	Granted bool `json:"granted"`
}

// CreateCheckoutSessionRequest selects the plan being purchased.
type CreateCheckoutSessionRequest struct {
	Plan Plan `json:"plan" binding:"required"`
}
