package messagequeue

// MessageQueue is the broker contract for the subscription reconciliation
// pipeline. Payloads are small JSON job documents published as persistent
// messages; Consume registers the handler and returns, deliveries then arrive
// one at a time on the broker's goroutine.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	Consume(queueName string, handler func(body []byte)) error
	Close() error
}
