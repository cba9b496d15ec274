package dogs

import "sync"

// Notifier difunde avisos de cambio sobre la colección de perros.
// El aviso no lleva payload: el suscriptor debe re-consultar.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan struct{})}
}

// Subscribe devuelve un canal de avisos y su función de unsubscribe.
// El canal tiene buffer 1: ráfagas de cambios se coalescen en un aviso.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++

	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Publish avisa a todos los suscriptores sin bloquear.
func (n *Notifier) Publish() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
			// ya hay un aviso pendiente; se coalesce
		}
	}
}
