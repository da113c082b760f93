package live

// Mailbox is a one-slot channel that always holds the newest value. Put
// never blocks; an unread older value is replaced.
type Mailbox[T any] struct {
	ch chan T
}

func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

func (m *Mailbox[T]) Put(v T) {
	for {
		select {
		case m.ch <- v:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

func (m *Mailbox[T]) C() <-chan T { return m.ch }
