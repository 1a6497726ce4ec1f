// Package testutil provee un almacén en memoria que implementa los puertos de repositorio
// y los TxRunner, para ejecutar los casos de uso de punta a punta sin PostgreSQL.
// Cada transacción trabaja sobre una copia del estado y solo la publica si fn no falla.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner                 = (*Store)(nil)
	_ purchasing.TxRunner                = (*Store)(nil)
	_ repository.StockItemRepository     = stockItemRepo{}
	_ repository.StockMovementRepository = movementRepo{}
	_ repository.StockAlertRepository    = alertRepo{}
	_ repository.SupplierRepository      = supplierRepo{}
	_ repository.PurchaseOrderRepository = orderRepo{}
	_ repository.SequenceRepository      = sequenceRepo{}
)

type state struct {
	items     map[string]entity.StockItem
	movements []entity.StockMovement
	alerts    map[string]entity.StockAlert
	suppliers map[string]entity.Supplier
	orders    map[string]entity.PurchaseOrder
	sequences map[string]int64
}

func newState() *state {
	return &state{
		items:     map[string]entity.StockItem{},
		alerts:    map[string]entity.StockAlert{},
		suppliers: map[string]entity.Supplier{},
		orders:    map[string]entity.PurchaseOrder{},
		sequences: map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.alerts {
		c.alerts[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// copyOrder copia la orden con sus líneas ordenadas por Position, como el adaptador de Postgres.
func copyOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	sort.SliceStable(po.Items, func(i, j int) bool { return po.Items[i].Position < po.Items[j].Position })
	return po
}

// Store almacén en memoria. Las transacciones se serializan con mu.
type Store struct {
	mu sync.Mutex
	st *state

	// FailMovementCreate hace fallar la inserción de movimientos (simula error de infraestructura).
	FailMovementCreate bool
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// core liga los repos a un estado: dentro de una tx usa la copia de trabajo,
// fuera de ella toma el mutex del Store en cada llamada.
type core struct {
	store *Store
	st    *state
	inTx  bool
}

type (
	stockItemRepo struct{ *core }
	movementRepo  struct{ *core }
	alertRepo     struct{ *core }
	supplierRepo  struct{ *core }
	orderRepo     struct{ *core }
	sequenceRepo  struct{ *core }
)

func (r *core) do(fn func(st *state) error) error {
	if r.inTx {
		return fn(r.st)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.st)
}

// Repos fuera de transacción (equivalentes a usar el pool).
func (s *Store) StockItems() repository.StockItemRepository { return stockItemRepo{&core{store: s}} }
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{&core{store: s}} }
func (s *Store) Alerts() repository.StockAlertRepository { return alertRepo{&core{store: s}} }
func (s *Store) Suppliers() repository.SupplierRepository { return supplierRepo{&core{store: s}} }
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository {
	return orderRepo{&core{store: s}}
}

func (s *Store) tx(fn func(c *core) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(&core{store: s, st: work, inTx: true}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(_ context.Context, fn func(
	stockRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	return s.tx(func(c *core) error { return fn(stockItemRepo{c}, movementRepo{c}, alertRepo{c}) })
}

// RunPurchasing implementa purchasing.TxRunner.
func (s *Store) RunPurchasing(_ context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return s.tx(func(c *core) error { return fn(orderRepo{c}, sequenceRepo{c}) })
}

// RunReceipt implementa purchasing.TxRunner.
func (s *Store) RunReceipt(_ context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	stockRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	return s.tx(func(c *core) error {
		return fn(orderRepo{c}, stockItemRepo{c}, movementRepo{c}, alertRepo{c})
	})
}

// ── Seeds y lecturas para asserts ─────────────────────────────────────────────

// AddStockItem crea un ítem para un producto sin variantes (o una variante si variantID != "").
func (s *Store) AddStockItem(productID, variantID string, qty int64) *entity.StockItem {
	item := entity.StockItem{ID: uuid.New().String(), ProductID: productID, Quantity: qty, UpdatedAt: time.Now()}
	if variantID != "" {
		v := variantID
		item.VariantID = &v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.items[item.ID] = item
	return &item
}

// AddParentWithVariants crea la fila de producto (HasVariants) que nunca se muta.
func (s *Store) AddParentWithVariants(productID string) *entity.StockItem {
	item := entity.StockItem{ID: uuid.New().String(), ProductID: productID, HasVariants: true, UpdatedAt: time.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.items[item.ID] = item
	return &item
}

// AddSupplier crea un proveedor activo.
func (s *Store) AddSupplier(name string) *entity.Supplier {
	sup := entity.Supplier{ID: uuid.New().String(), Name: name, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.suppliers[sup.ID] = sup
	return &sup
}

// SetSupplierActive cambia el estado del proveedor.
func (s *Store) SetSupplierActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sup := s.st.suppliers[id]
	sup.IsActive = active
	s.st.suppliers[id] = sup
}

// Quantity cantidad actual del ítem.
func (s *Store) Quantity(stockItemID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.items[stockItemID].Quantity
}

// MovementsOf movimientos del ítem en orden de inserción.
func (s *Store) MovementsOf(stockItemID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.st.movements {
		if m.StockItemID == stockItemID {
			out = append(out, m)
		}
	}
	return out
}

// MovementCount total de movimientos.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.movements)
}

// ── StockItemRepository ───────────────────────────────────────────────────────

func (r stockItemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.do(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r stockItemRepo) GetByRef(_ context.Context, ref entity.StockItemRef) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.do(func(st *state) error {
		for _, it := range st.items {
			if it.ProductID != ref.ProductID {
				continue
			}
			if ref.IsVariant() != (it.VariantID != nil) {
				continue
			}
			if ref.IsVariant() && *it.VariantID != *ref.VariantID {
				continue
			}
			it := it
			out = &it
			return nil
		}
		return nil
	})
	return out, err
}

func (r stockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r stockItemRepo) UpdateQuantity(_ context.Context, id string, quantity int64, at time.Time) error {
	return r.do(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return fmt.Errorf("update stock quantity: stock item %s no existe", id)
		}
		if quantity < 0 {
			return fmt.Errorf("update stock quantity: violación de CHECK quantity >= 0")
		}
		it.Quantity = quantity
		it.UpdatedAt = at
		st.items[id] = it
		return nil
	})
}

// ── StockMovementRepository ───────────────────────────────────────────────────

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if r.store.FailMovementCreate {
		return fmt.Errorf("insert stock movement: conexión perdida")
	}
	return r.do(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r movementRepo) ListByStockItem(_ context.Context, stockItemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.do(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.StockItemID != stockItemID {
				continue
			}
			if from != nil && m.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && m.CreatedAt.After(*to) {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	return paginate(out, limit, offset), err
}

// ── StockAlertRepository ──────────────────────────────────────────────────────

func (r alertRepo) Get(_ context.Context, stockItemID string) (*entity.StockAlert, error) {
	var out *entity.StockAlert
	err := r.do(func(st *state) error {
		if a, ok := st.alerts[stockItemID]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r alertRepo) Create(_ context.Context, a *entity.StockAlert) error {
	return r.do(func(st *state) error {
		if _, ok := st.alerts[a.StockItemID]; ok {
			return fmt.Errorf("%w: alerta para %s", domain.ErrAlreadyExists, a.StockItemID)
		}
		st.alerts[a.StockItemID] = *a
		return nil
	})
}

func (r alertRepo) Update(_ context.Context, a *entity.StockAlert) error {
	return r.do(func(st *state) error {
		st.alerts[a.StockItemID] = *a
		return nil
	})
}

func (r alertRepo) Delete(_ context.Context, stockItemID string) (bool, error) {
	var ok bool
	err := r.do(func(st *state) error {
		_, ok = st.alerts[stockItemID]
		delete(st.alerts, stockItemID)
		return nil
	})
	return ok, err
}

func (r alertRepo) ListNotified(_ context.Context, limit, offset int) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	err := r.do(func(st *state) error {
		for _, a := range st.alerts {
			if a.Notified {
				a := a
				out = append(out, &a)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].StockItemID < out[j].StockItemID })
		return nil
	})
	return paginate(out, limit, offset), err
}

// paginate aplica los mismos límites que el adaptador de Postgres.
func paginate[T any](list []T, limit, offset int) []T {
	limit, offset = repository.PageBounds(limit, offset)
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── SupplierRepository ────────────────────────────────────────────────────────

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.do(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r supplierRepo) HasReferences(_ context.Context, id string) (bool, error) {
	var found bool
	err := r.do(func(st *state) error {
		found = st.supplierReferenced(id)
		return nil
	})
	return found, err
}

// Delete replica la FK de Postgres: con referencias devuelve ErrInvalidState.
func (r supplierRepo) Delete(_ context.Context, id string) error {
	return r.do(func(st *state) error {
		if st.supplierReferenced(id) {
			return fmt.Errorf("%w: proveedor %s referenciado", domain.ErrInvalidState, id)
		}
		delete(st.suppliers, id)
		return nil
	})
}

func (st *state) supplierReferenced(id string) bool {
	for _, m := range st.movements {
		if m.SupplierID != nil && *m.SupplierID == id {
			return true
		}
	}
	for _, po := range st.orders {
		if po.SupplierID == id {
			return true
		}
	}
	return false
}

// ── PurchaseOrderRepository ───────────────────────────────────────────────────

func (r orderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.do(func(st *state) error {
		for _, o := range st.orders {
			if o.OrderNumber == po.OrderNumber {
				return fmt.Errorf("%w: orden %s", domain.ErrAlreadyExists, po.OrderNumber)
			}
		}
		st.orders[po.ID] = copyOrder(*po)
		return nil
	})
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.do(func(st *state) error {
		if po, ok := st.orders[id]; ok {
			c := copyOrder(po)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.do(func(st *state) error {
		for _, po := range st.orders {
			if status != "" && po.Status != status {
				continue
			}
			c := copyOrder(po)
			c.Items = nil
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
		return nil
	})
	return paginate(out, limit, offset), err
}

func (r orderRepo) UpdateStatus(_ context.Context, id, status string, receivedDate *time.Time, at time.Time) error {
	return r.do(func(st *state) error {
		po, ok := st.orders[id]
		if !ok {
			return fmt.Errorf("update purchase order status: %s no existe", id)
		}
		po.Status = status
		po.ReceivedDate = receivedDate
		po.UpdatedAt = at
		st.orders[id] = po
		return nil
	})
}

func (r orderRepo) ReplaceItems(_ context.Context, po *entity.PurchaseOrder) error {
	return r.do(func(st *state) error {
		cur, ok := st.orders[po.ID]
		if !ok {
			return fmt.Errorf("replace items: %s no existe", po.ID)
		}
		cur.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
		cur.Subtotal = po.Subtotal
		cur.Total = po.Total
		cur.UpdatedAt = po.UpdatedAt
		st.orders[po.ID] = cur
		return nil
	})
}

func (r orderRepo) GetItemForUpdate(_ context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	var out *entity.PurchaseOrderItem
	err := r.do(func(st *state) error {
		for _, po := range st.orders {
			for _, it := range po.Items {
				if it.ID == itemID {
					it := it
					out = &it
					return nil
				}
			}
		}
		return nil
	})
	return out, err
}

func (r orderRepo) AddReceived(_ context.Context, itemID string, qty int64) error {
	return r.do(func(st *state) error {
		for id, po := range st.orders {
			for i := range po.Items {
				it := &po.Items[i]
				if it.ID != itemID {
					continue
				}
				if qty < 0 || it.ReceivedQuantity+qty > it.Quantity {
					return fmt.Errorf("%w: línea %s", domain.ErrQuantityExceedsRemaining, itemID)
				}
				it.ReceivedQuantity += qty
				st.orders[id] = po
				return nil
			}
		}
		return fmt.Errorf("%w: línea %s", domain.ErrQuantityExceedsRemaining, itemID)
	})
}

// ── SequenceRepository ────────────────────────────────────────────────────────

func (r sequenceRepo) Next(_ context.Context, scope string) (int64, error) {
	var n int64
	err := r.do(func(st *state) error {
		st.sequences[scope]++
		n = st.sequences[scope]
		return nil
	})
	return n, err
}

// OrderNumbers números de orden emitidos, ordenados.
func (s *Store) OrderNumbers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, po := range s.st.orders {
		out = append(out, po.OrderNumber)
	}
	sort.Strings(out)
	return out
}
