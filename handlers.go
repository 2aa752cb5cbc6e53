package sigsock

// MessageHandler receives a decoded inbound message. Handlers run on the Socket's executor, one at a time.
type MessageHandler func(msg *Message)

type handlerTable struct {
	handlers  map[string]MessageHandler
	unhandled MessageHandler
}

func (t *handlerTable) set(msgType string, handler MessageHandler) {
	if t.handlers == nil {
		t.handlers = make(map[string]MessageHandler)
	}
	if handler == nil {
		delete(t.handlers, msgType)
		return
	}
	t.handlers[msgType] = handler
}

func (t *handlerTable) remove(msgType string) {
	delete(t.handlers, msgType)
}

func (t *handlerTable) lookup(msgType string) (MessageHandler, bool) {
	h, ok := t.handlers[msgType]
	return h, ok
}
