package mqtt

import "log"

// queuedMsg stores a serialized MQTT message for replay after reconnection.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// sendQueue is a fixed-capacity FIFO holding messages while the broker is
// unreachable. A bedside Pi can sit through long WiFi outages, so the queue
// drops the oldest messages rather than grow without bound.
// Not safe for concurrent use — caller must synchronize.
type sendQueue struct {
	buf      []queuedMsg
	capacity int
	head     int // next write position
	count    int
	dropped  int // messages lost to overflow since last drain
}

func newSendQueue(capacity int) *sendQueue {
	return &sendQueue{
		buf:      make([]queuedMsg, capacity),
		capacity: capacity,
	}
}

func (q *sendQueue) push(msg queuedMsg) {
	if q.count == q.capacity {
		if q.dropped == 0 {
			log.Printf("mqtt: offline queue full (%d messages), dropping oldest", q.capacity)
		}
		q.dropped++
		// Overwrite oldest: head is already pointing at it
		q.buf[q.head] = msg
		q.head = (q.head + 1) % q.capacity
		return
	}
	q.buf[q.head] = msg
	q.head = (q.head + 1) % q.capacity
	q.count++
}

// drainAll returns the queued messages oldest-first and empties the queue.
func (q *sendQueue) drainAll() []queuedMsg {
	if q.count == 0 {
		return nil
	}

	result := make([]queuedMsg, q.count)
	start := (q.head - q.count + q.capacity) % q.capacity
	for i := 0; i < q.count; i++ {
		result[i] = q.buf[(start+i)%q.capacity]
	}

	q.count = 0
	q.head = 0
	q.dropped = 0
	return result
}

func (q *sendQueue) len() int {
	return q.count
}
