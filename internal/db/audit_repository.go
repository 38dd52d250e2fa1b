package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"petpulse-backend-go/internal/models"
)

const auditLogsCollection = "auditLogs"

// firestoreAuditRepository implements the AuditRepository interface using Firestore.
type firestoreAuditRepository struct {
	client *firestore.Client
}

// NewFirestoreAuditRepository creates a new instance of firestoreAuditRepository.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AuditRepository.")
	}
	return &firestoreAuditRepository{client: client}
}

// Create appends an audit log entry.
func (r *firestoreAuditRepository) Create(ctx context.Context, entry models.AuditLog) error {
	docRef := r.client.Collection(auditLogsCollection).NewDoc()
	if _, err := docRef.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create audit log entry (action: %s): %w", entry.Action, err)
	}
	return nil
}
