package ledger_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/copypoint/copypoint-api/internal/application/ledger"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
	"github.com/copypoint/copypoint-api/pkg/textutil"
)

// memStore implementación en memoria de los puertos de persistencia para los
// tests de casos de uso. Un RWMutex global hace de bloqueo de partición: las
// escrituras se serializan entre sí y contra las lecturas, igual que el
// SELECT FOR UPDATE por artículo en PostgreSQL (proceso único).
type memStore struct {
	mu        sync.RWMutex
	items     map[string]*entity.Item
	movements []*entity.Movement
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*entity.Item), nextID: 1}
}

// addItem helper de seed: crea un artículo TRACKED activo y devuelve su ID.
func (s *memStore) addItem(sku, name, category string, threshold int64) string {
	return s.addItemClassified(sku, name, category, entity.ClassificationTracked, threshold)
}

func (s *memStore) addItemClassified(sku, name, category, classification string, threshold int64) string {
	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		SKU:              sku,
		Name:             name,
		Classification:   classification,
		Category:         category,
		ReorderThreshold: threshold,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.items[item.ID] = item
	return item.ID
}

// seedMovement inserta un movimiento directamente (para tests de lectura que
// necesitan timestamps controlados).
func (s *memStore) seedMovement(itemID, kind string, delta int64, ts time.Time, docRef string) *entity.Movement {
	m := &entity.Movement{
		ID:        s.nextID,
		ItemID:    itemID,
		Kind:      kind,
		Quantity:  delta,
		Timestamp: ts,
		Actor:     "seed",
		DocRef:    docRef,
		CreatedAt: ts,
	}
	s.nextID++
	s.movements = append(s.movements, m)
	return m
}

// memTxRunner implementa ledger.TxRunner sobre el memStore, con rollback del
// libro si el callback falla (los movimientos agregados se descartan).
type memTxRunner struct {
	store *memStore
}

var _ ledger.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	checkpoint := len(r.store.movements)
	checkpointID := r.store.nextID
	if err := fn(&memMovementRepo{r.store}, &memItemRepo{r.store}); err != nil {
		r.store.movements = r.store.movements[:checkpoint]
		r.store.nextID = checkpointID
		return err
	}
	return nil
}

func (r *memTxRunner) RunSnapshot(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
) error) error {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(&memMovementRepo{r.store}, &memItemRepo{r.store})
}

// memMovementRepo opera sobre el store ya bloqueado por el runner.
type memMovementRepo struct {
	s *memStore
}

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Append(_ context.Context, m *entity.Movement) error {
	m.ID = r.s.nextID
	r.s.nextID++
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.From != nil && m.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Timestamp.After(*f.To) {
			continue
		}
		if f.DocRef != "" {
			ref := textutil.SanitizeAlnum(m.DocRef)
			if f.DocRefExact {
				if ref != f.DocRef {
					continue
				}
			} else if len(ref) < len(f.DocRef) || ref[:len(f.DocRef)] != f.DocRef {
				continue
			}
		}
		cp := *m
		out = append(out, &cp)
	}
	// Orden (timestamp ASC, id ASC).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func less(a, b *entity.Movement) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.ID < b.ID
}

func (r *memMovementRepo) SumDeltas(_ context.Context, itemID string, asOf *time.Time) (int64, error) {
	var sum int64
	for _, m := range r.s.movements {
		if m.ItemID != itemID {
			continue
		}
		if asOf != nil && m.Timestamp.After(*asOf) {
			continue
		}
		sum += m.Quantity
	}
	return sum, nil
}

func (r *memMovementRepo) SumDeltasBatch(_ context.Context, itemIDs []string) (map[string]int64, error) {
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	sums := make(map[string]int64)
	for _, m := range r.s.movements {
		if wanted[m.ItemID] {
			sums[m.ItemID] += m.Quantity
		}
	}
	return sums, nil
}

func (r *memMovementRepo) LastTimestamp(_ context.Context, itemID string) (time.Time, error) {
	var last time.Time
	for _, m := range r.s.movements {
		if m.ItemID == itemID && m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	return last, nil
}

func (r *memMovementRepo) ConsumptionSince(_ context.Context, itemIDs []string, since time.Time) (map[string]int64, error) {
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	out := make(map[string]int64)
	for _, m := range r.s.movements {
		if m.Kind == entity.MovementKindSale && wanted[m.ItemID] && !m.Timestamp.Before(since) {
			out[m.ItemID] += -m.Quantity
		}
	}
	return out, nil
}

func (r *memMovementRepo) Summary(_ context.Context, from, to *time.Time) ([]repository.KindSummary, error) {
	byKind := make(map[string]*repository.KindSummary)
	for _, m := range r.s.movements {
		if from != nil && m.Timestamp.Before(*from) {
			continue
		}
		if to != nil && m.Timestamp.After(*to) {
			continue
		}
		row, ok := byKind[m.Kind]
		if !ok {
			row = &repository.KindSummary{Kind: m.Kind}
			byKind[m.Kind] = row
		}
		row.Count++
		if m.Quantity < 0 {
			row.TotalItems += -m.Quantity
		} else {
			row.TotalItems += m.Quantity
		}
	}
	out := make([]repository.KindSummary, 0, len(byKind))
	for _, kind := range []string{entity.MovementKindReceipt, entity.MovementKindSale, entity.MovementKindAdjustment} {
		if row, ok := byKind[kind]; ok {
			out = append(out, *row)
		}
	}
	return out, nil
}

// memItemRepo catálogo en memoria.
type memItemRepo struct {
	s *memStore
}

var _ repository.ItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) Create(_ context.Context, item *entity.Item) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) Update(_ context.Context, item *entity.Item) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	for _, item := range r.s.items {
		if item.SKU == sku {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: el runner ya tiene el lock global.
func (r *memItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *memItemRepo) List(_ context.Context, category string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.s.items {
		if category != "" && item.Category != category {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memItemRepo) ListTracked(_ context.Context, category string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.s.items {
		if !item.Tracked() || !item.Active {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memItemRepo) Search(_ context.Context, term string, limit int) ([]*entity.Item, error) {
	norm := textutil.Normalize(term)
	var out []*entity.Item
	for _, item := range r.s.items {
		if item.SKU == term || contains(textutil.Normalize(item.Name), norm) {
			cp := *item
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
