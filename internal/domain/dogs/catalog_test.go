package dogs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dogfarm/internal/platform/logger"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

func TestCatalog_StartsWithStaticOnly_WhenRemoteFails(t *testing.T) {
	repo := newTestRepo()
	repo.listErr = errors.New("remote down")

	notifier := NewNotifier()
	svc := NewService(repo, notifier)
	catalog := NewCatalog(svc, logger.NewNop())
	catalog.Start(context.Background(), notifier)
	defer catalog.Close()

	merged := catalog.Merged()
	static := StaticCatalog()
	if len(merged) != len(static) {
		t.Fatalf("expected only static dogs, got %d", len(merged))
	}
	if merged[0].ID != static[0].ID {
		t.Fatalf("expected static order preserved, got %s first", merged[0].ID)
	}
}

func TestCatalog_RefreshesOnChangeNotification(t *testing.T) {
	repo := newTestRepo()
	notifier := NewNotifier()
	svc := NewService(repo, notifier)

	catalog := NewCatalog(svc, logger.NewNop())
	catalog.Start(context.Background(), notifier)
	defer catalog.Close()

	d, err := svc.Create(context.Background(), CreateInput{Name: "Rocky", Breed: "Beagle"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	waitFor(t, func() bool {
		merged := catalog.Merged()
		return len(merged) > 0 && merged[0].ID == d.ID
	}, "new dog should appear first in merged list")

	// y desaparece al borrarlo
	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	waitFor(t, func() bool {
		for _, m := range catalog.Merged() {
			if m.ID == d.ID {
				return false
			}
		}
		return true
	}, "deleted dog should leave the merged list")
}

func TestCatalog_RecoversAfterFailedInitialFetch(t *testing.T) {
	repo := newTestRepo()
	repo.mu.Lock()
	repo.listErr = errors.New("remote down")
	repo.mu.Unlock()

	notifier := NewNotifier()
	svc := NewService(repo, notifier)
	catalog := NewCatalog(svc, logger.NewNop())
	catalog.Start(context.Background(), notifier)
	defer catalog.Close()

	repo.mu.Lock()
	repo.listErr = nil
	repo.mu.Unlock()

	d, err := svc.Create(context.Background(), CreateInput{Name: "Rocky", Breed: "Beagle"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	waitFor(t, func() bool {
		merged := catalog.Merged()
		return len(merged) > 0 && merged[0].ID == d.ID
	}, "catalog should recover on the next notification")
}

// gatedRepo deja en pausa cada List hasta que el test libere su gate, para
// forzar respuestas fuera de orden.
type gatedRepo struct {
	mu        sync.Mutex
	calls     int
	gates     []chan struct{}
	responses [][]Dog
}

func (r *gatedRepo) Create(ctx context.Context, d Dog) error      { return nil }
func (r *gatedRepo) Update(ctx context.Context, d Dog) error      { return nil }
func (r *gatedRepo) Delete(ctx context.Context, id string) error  { return nil }
func (r *gatedRepo) GetByID(ctx context.Context, id string) (Dog, error) {
	return Dog{}, ErrNotFound
}

func (r *gatedRepo) List(ctx context.Context) ([]Dog, error) {
	r.mu.Lock()
	i := r.calls
	r.calls++
	gate := r.gates[i]
	resp := r.responses[i]
	r.mu.Unlock()

	<-gate
	return resp, nil
}

func (r *gatedRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestCatalog_Refresh_DiscardsStaleResponse(t *testing.T) {
	gate1 := make(chan struct{})
	gate2 := make(chan struct{})
	repo := &gatedRepo{
		gates: []chan struct{}{gate1, gate2},
		responses: [][]Dog{
			{{ID: "old", Name: "Old"}},
			{{ID: "new", Name: "New"}},
		},
	}

	notifier := NewNotifier()
	svc := NewService(repo, notifier)
	catalog := NewCatalog(svc, logger.NewNop())

	var wg sync.WaitGroup
	done1 := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done1)
		_ = catalog.Refresh(context.Background())
	}()
	waitFor(t, func() bool { return repo.callCount() == 1 }, "first refresh in flight")

	done2 := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done2)
		_ = catalog.Refresh(context.Background())
	}()
	waitFor(t, func() bool { return repo.callCount() == 2 }, "second refresh in flight")

	// el fetch nuevo termina primero
	close(gate2)
	<-done2

	// la respuesta vieja llega después y debe descartarse
	close(gate1)
	<-done1
	wg.Wait()

	merged := catalog.Merged()
	if len(merged) == 0 || merged[0].ID != "new" {
		t.Fatalf("expected newest snapshot to win, got %+v", merged)
	}
	for _, d := range merged {
		if d.ID == "old" {
			t.Fatalf("stale snapshot should have been discarded")
		}
	}
}
