package dogs

import (
	"context"
	"sync"
	"time"

	"dogfarm/internal/platform/logger"
)

// Merge combina el snapshot remoto (ya ordenado, más recientes primero) con
// el catálogo estático en su orden de origen. El resultado es la secuencia
// de display completa: primero todo lo remoto, después lo estático.
//
// Un registro estático cuyo id colisiona con uno remoto se descarta: el
// remoto manda en la lista, igual que en la resolución de detalle manda el
// estático. Así un mismo id nunca se renderiza dos veces.
func Merge(remote, static []Dog) []Dog {
	out := make([]Dog, 0, len(remote)+len(static))

	seen := make(map[string]struct{}, len(remote))
	for _, d := range remote {
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}

	for _, d := range static {
		if _, shadowed := seen[d.ID]; shadowed {
			continue
		}
		out = append(out, d)
	}

	return out
}

// Catalog mantiene el último snapshot remoto y lo combina con el catálogo
// estático. Se refresca una vez al arrancar y después con cada aviso del
// Notifier; no hace polling.
type Catalog struct {
	svc    *Service
	static []Dog
	log    logger.Logger

	mu       sync.Mutex
	snapshot []Dog
	started  uint64 // secuencia del último fetch iniciado
	applied  uint64 // secuencia del último fetch aplicado

	stop chan struct{}
	done chan struct{}
}

func NewCatalog(svc *Service, log logger.Logger) *Catalog {
	return &Catalog{
		svc:    svc,
		static: StaticCatalog(),
		log:    log,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start hace el fetch inicial y deja corriendo el consumidor de avisos.
// Un error en el fetch inicial no es fatal: la lista arranca solo con el
// catálogo estático y se recupera en el próximo aviso.
func (c *Catalog) Start(ctx context.Context, notifier *Notifier) {
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("initial catalog fetch failed", map[string]any{"error": err.Error()})
	}

	events, unsubscribe := notifier.Subscribe()

	go func() {
		defer close(c.done)
		defer unsubscribe()

		for {
			select {
			case <-c.stop:
				return
			case <-events:
				rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := c.Refresh(rctx); err != nil {
					c.log.Warn("catalog refresh failed", map[string]any{"error": err.Error()})
				}
				cancel()
			}
		}
	}()
}

// Refresh re-consulta el snapshot remoto. Cada fetch lleva una secuencia
// creciente; si mientras tanto ya se aplicó un fetch más nuevo, la
// respuesta vieja se descarta en vez de pisar a la nueva.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.started++
	seq := c.started
	c.mu.Unlock()

	snap, err := c.svc.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		return nil // llegó fuera de orden, ya hay un snapshot más nuevo
	}
	c.applied = seq
	c.snapshot = snap
	return nil
}

// Merged devuelve la secuencia de display actual. Es una derivación pura
// sobre el último snapshot: segura de recomputar en cada request.
func (c *Catalog) Merged() []Dog {
	c.mu.Lock()
	snap := c.snapshot
	c.mu.Unlock()
	return Merge(snap, c.static)
}

func (c *Catalog) Close() {
	close(c.stop)
	<-c.done
}
