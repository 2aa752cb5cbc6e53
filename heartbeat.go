package sigsock

import "time"

// heartbeat calls beat every interval until stopped. Like reconnectTimer it is confined to the executor.
type heartbeat struct {
	post     func(func())
	beat     func()
	clock    Clock
	interval time.Duration
	timer    Timer
	seq      uint64
}

func newHeartbeat(post func(func()), beat func()) *heartbeat {
	return &heartbeat{post: post, beat: beat}
}

// Start cancels any running loop and starts a new one. A non-positive interval disables the loop.
func (h *heartbeat) Start(clock Clock, interval time.Duration) {
	h.Stop()
	if interval <= 0 {
		return
	}
	h.clock = clock
	h.interval = interval
	h.arm()
}

func (h *heartbeat) Stop() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.seq++
}

func (h *heartbeat) Active() bool {
	return h.timer != nil
}

func (h *heartbeat) arm() {
	h.seq++
	seq := h.seq
	h.timer = h.clock.AfterFunc(h.interval, func() {
		h.post(func() { h.fire(seq) })
	})
}

func (h *heartbeat) fire(seq uint64) {
	if seq != h.seq || h.timer == nil {
		return
	}
	h.beat()

	// beat may have stopped the loop
	if seq == h.seq {
		h.arm()
	}
}
