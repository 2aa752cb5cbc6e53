package sigsock

import (
	"time"
)

type timerCallback func()

type timerCalculator func(tries int) time.Duration

// reconnectTimer owns the single pending reconnect. It is only touched from the Socket's executor; the timer
// itself fires on the clock's goroutine and posts back through post.
type reconnectTimer struct {
	post      func(func())
	callback  timerCallback
	timerCalc timerCalculator
	timer     Timer
	tries     int
	seq       uint64
}

func newReconnectTimer(post func(func()), callback timerCallback, timerCalc timerCalculator) *reconnectTimer {
	return &reconnectTimer{
		post:      post,
		callback:  callback,
		timerCalc: timerCalc,
	}
}

// Reset clears the attempt counter. A pending timer is left alone.
func (t *reconnectTimer) Reset() {
	t.tries = 0
}

// Stop cancels the pending timer, if any.
func (t *reconnectTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
}

func (t *reconnectTimer) Pending() bool {
	return t.timer != nil
}

func (t *reconnectTimer) Tries() int {
	return t.tries
}

// Schedule arms the timer with the delay for the current attempt and counts the attempt. If a timer is already
// pending it does nothing and returns false.
func (t *reconnectTimer) Schedule(clock Clock) (time.Duration, bool) {
	if t.timer != nil {
		return 0, false
	}

	delay := t.timerCalc(t.tries)
	t.tries++
	t.seq++
	seq := t.seq
	t.timer = clock.AfterFunc(delay, func() {
		t.post(func() { t.fire(seq) })
	})
	return delay, true
}

func (t *reconnectTimer) fire(seq uint64) {
	// stopped or replaced after the clock fired
	if seq != t.seq || t.timer == nil {
		return
	}
	t.timer = nil
	t.callback()
}
