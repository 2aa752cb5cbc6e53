package sigsock

import "sync"

// executor runs posted tasks one at a time, in posting order. It keeps no goroutine alive while idle.
// Posting never blocks, so a task may post further tasks; those run after everything already posted.
type executor struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
}

func (e *executor) post(task func()) {
	e.mu.Lock()
	e.tasks = append(e.tasks, task)
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	go e.run()
}

func (e *executor) run() {
	for {
		e.mu.Lock()
		if len(e.tasks) == 0 {
			e.running = false
			e.tasks = nil
			e.mu.Unlock()
			return
		}
		task := e.tasks[0]
		e.tasks[0] = nil
		e.tasks = e.tasks[1:]
		e.mu.Unlock()

		task()
	}
}

// wait blocks until the executor has no pending tasks. It must not be called from a task.
func (e *executor) wait() {
	for {
		done := make(chan struct{})
		e.post(func() { close(done) })
		<-done

		e.mu.Lock()
		idle := len(e.tasks) == 0
		e.mu.Unlock()
		if idle {
			return
		}
	}
}
