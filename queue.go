package sigsock

// QueuePolicy decides what happens when Send is called while the outbound queue is full.
type QueuePolicy int

const (
	// QueueDropOldest discards the message at the head of the queue to make room.
	QueueDropOldest QueuePolicy = iota

	// QueueDropNewest discards the message being sent.
	QueueDropNewest
)

func (p QueuePolicy) String() string {
	switch p {
	case QueueDropOldest:
		return "drop_oldest"
	case QueueDropNewest:
		return "drop_newest"
	}
	return "unknown"
}

// outboundQueue holds the messages sent while the Socket is not open. limit <= 0 means unbounded.
type outboundQueue struct {
	items []*Message
}

// push appends msg and returns the message dropped to respect limit, if any.
func (q *outboundQueue) push(msg *Message, limit int, policy QueuePolicy) *Message {
	if limit > 0 && len(q.items) >= limit {
		if policy == QueueDropNewest {
			return msg
		}
		dropped := q.items[0]
		q.items[0] = nil
		q.items = append(q.items[1:], msg)
		return dropped
	}
	q.items = append(q.items, msg)
	return nil
}

// pushFront returns msg to the head of the queue after a failed write. It ignores the limit.
func (q *outboundQueue) pushFront(msg *Message) {
	q.items = append([]*Message{msg}, q.items...)
}

func (q *outboundQueue) pop() (*Message, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return msg, true
}

func (q *outboundQueue) len() int {
	return len(q.items)
}
