package models

import "time"

// Pet is a pet profile owned by a single user. SharedVetIDs lists the user
// IDs of veterinarians the owner has shared this pet with.
type Pet struct {
	ID           string     `json:"id" firestore:"-"`
	OwnerID      string     `json:"ownerId" firestore:"ownerId"`
	Name         string     `json:"name" firestore:"name"`
	Species      string     `json:"species" firestore:"species"`
	Breed        string     `json:"breed,omitempty" firestore:"breed,omitempty"`
	BirthDate    *time.Time `json:"birthDate,omitempty" firestore:"birthDate,omitempty"`
	PhotoURL     string     `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	SharedVetIDs []string   `json:"sharedVetIds,omitempty" firestore:"sharedVetIds,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time  `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// SharedWith reports whether the pet has been shared with the given vet.
func (p *Pet) SharedWith(vetID string) bool {
	for _, id := range p.SharedVetIDs {
		if id == vetID {
			return true
		}
	}
	return false
}
