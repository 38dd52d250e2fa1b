// Package worker connects the reconciliation queue to the subscription
// resolver: a publisher implements the notifier contract and a consumer
// re-resolves queued users.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/pkg/messagequeue"
)

// reconcileJob is the queue payload.
type reconcileJob struct {
	UserID string `json:"userId"`
}

// QueueNotifier implements core.ReconciliationNotifier by publishing jobs to
// a message queue. Publishing is cheap; the actual resolution happens in the
// consumer, so callers never block on billing I/O.
type QueueNotifier struct {
	mq        messagequeue.MessageQueue
	queueName string
}

// NewQueueNotifier creates a queue-backed notifier.
func NewQueueNotifier(mq messagequeue.MessageQueue, queueName string) *QueueNotifier {
	return &QueueNotifier{mq: mq, queueName: queueName}
}

// ScheduleReconciliation enqueues a reconciliation job for the user.
func (n *QueueNotifier) ScheduleReconciliation(_ context.Context, userID string) error {
	body, err := json.Marshal(reconcileJob{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to marshal reconcile job for user '%s': %w", userID, err)
	}
	if err := n.mq.Publish(n.queueName, body); err != nil {
		return fmt.Errorf("failed to publish reconcile job for user '%s': %w", userID, err)
	}
	return nil
}

// Reconciler consumes reconcile jobs and forces a live resolution for each
// queued user. Reconcile performs the cache repair itself and never schedules
// another job, so every consumed message drains from the queue for good.
type Reconciler struct {
	mq        messagequeue.MessageQueue
	queueName string
	subs      core.SubscriptionService
	logger    *zap.Logger
}

// NewReconciler creates a reconcile-queue consumer.
func NewReconciler(mq messagequeue.MessageQueue, queueName string, subs core.SubscriptionService, logger *zap.Logger) *Reconciler {
	return &Reconciler{mq: mq, queueName: queueName, subs: subs, logger: logger}
}

// Start begins consuming. It returns once the consumer is registered; message
// handling continues on the queue library's delivery goroutine.
func (r *Reconciler) Start(ctx context.Context) error {
	return r.mq.Consume(r.queueName, func(body []byte) {
		var job reconcileJob
		if err := json.Unmarshal(body, &job); err != nil {
			r.logger.Warn("dropping malformed reconcile job", zap.Error(err))
			return
		}
		if job.UserID == "" {
			r.logger.Warn("dropping reconcile job without user id")
			return
		}
		status := r.subs.Reconcile(ctx, job.UserID)
		r.logger.Info("reconciled subscription state",
			zap.String("userId", job.UserID),
			zap.Bool("isActive", status.IsActive),
			zap.String("plan", string(status.Plan)))
	})
}
