package core

import (
	"context"

	"go.uber.org/zap"

	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/models"
)

// auditService implements the AuditService interface. Audit writes are
// best-effort: a failed write is logged, never propagated, so auditing can
// never break the operation being audited.
type auditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{auditRepo: auditRepo, logger: logger}
}

// Record appends an audit log entry.
func (s *auditService) Record(ctx context.Context, action, actorID, targetID, details string) {
	entry := models.AuditLog{
		Action:   action,
		ActorID:  actorID,
		TargetID: targetID,
		Details:  details,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log entry",
			zap.String("action", action),
			zap.String("actorId", actorID),
			zap.String("targetId", targetID),
			zap.Error(err))
	}
}
