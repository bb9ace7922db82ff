// Package testutil provee dobles de prueba compartidos por los tests de los casos de uso.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

var _ repository.TxRunner = (*MemStore)(nil)

type memData struct {
	orders       []entity.Order
	items        []entity.OrderItem
	packaging    []entity.Packaging
	socks        []entity.Sock
	materials    []entity.Material
	additions    []entity.OrderItemAddition
	orderHistory []entity.StatusHistory
	itemHistory  []entity.StatusHistory
	prefacturas  []entity.Prefactura
	quotations   []entity.Quotation
	clients      []entity.Client
	legal        []entity.LegalStatus
}

func (d *memData) clone() *memData {
	return &memData{
		orders:       slices.Clone(d.orders),
		items:        slices.Clone(d.items),
		packaging:    slices.Clone(d.packaging),
		socks:        slices.Clone(d.socks),
		materials:    slices.Clone(d.materials),
		additions:    slices.Clone(d.additions),
		orderHistory: slices.Clone(d.orderHistory),
		itemHistory:  slices.Clone(d.itemHistory),
		prefacturas:  slices.Clone(d.prefacturas),
		quotations:   slices.Clone(d.quotations),
		clients:      slices.Clone(d.clients),
		legal:        slices.Clone(d.legal),
	}
}

// MemStore almacén transaccional en memoria. Cada transacción trabaja sobre una copia
// que se publica en el commit; los savepoints restauran la copia previa si fn falla.
// Las transacciones se serializan.
type MemStore struct {
	mu        sync.Mutex
	committed *memData
	// codes ocupados por "otro escritor": sobreviven a rollbacks y cuentan en la unicidad.
	external map[string]struct{}

	// AdditionsMissing simula una base sin la tabla de adiciones.
	AdditionsMissing bool
	// OnCodeInsert, si devuelve true, simula que otro escritor confirmó ese código primero.
	OnCodeInsert func(code string) bool
	// OnReplaceMaterials, si devuelve error, hace fallar la escritura de materiales de esa línea.
	OnReplaceMaterials func(itemID string) error
}

// NewMemStore crea un almacén vacío.
func NewMemStore() *MemStore {
	return &MemStore{committed: &memData{}, external: make(map[string]struct{})}
}

// RunInTx implementa repository.TxRunner.
func (m *MemStore) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{store: m, data: m.committed.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	m.committed = tx.data
	return nil
}

// Seed ejecuta fn en una transacción y entra en pánico si devuelve error.
func (m *MemStore) Seed(fn func(tx repository.Store) error) {
	if err := m.RunInTx(context.Background(), fn); err != nil {
		panic(fmt.Sprintf("seed: %v", err))
	}
}

// AddClient registra un cliente confirmado.
func (m *MemStore) AddClient(c entity.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed.clients = append(m.committed.clients, c)
}

// AddQuotation registra una cotización confirmada.
func (m *MemStore) AddQuotation(q entity.Quotation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed.quotations = append(m.committed.quotations, q)
}

// Orders copia de los pedidos confirmados.
func (m *MemStore) Orders() []entity.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.committed.orders)
}

// Items copia de las líneas confirmadas de un pedido.
func (m *MemStore) Items(orderID string) []entity.OrderItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.OrderItem
	for _, it := range m.committed.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

// ItemCount cantidad de líneas confirmadas en todos los pedidos.
func (m *MemStore) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed.items)
}

// ItemHistoryCount cantidad de filas confirmadas del historial de líneas.
func (m *MemStore) ItemHistoryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed.itemHistory)
}

// Materials filas de materiales confirmadas de una línea.
func (m *MemStore) Materials(itemID string) []entity.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Material
	for _, row := range m.committed.materials {
		if row.OrderItemID == itemID {
			out = append(out, row)
		}
	}
	return out
}

// Additions copia de las adiciones confirmadas de una línea.
func (m *MemStore) Additions(itemID string) []entity.OrderItemAddition {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.OrderItemAddition
	for _, a := range m.committed.additions {
		if a.OrderItemID == itemID {
			out = append(out, a)
		}
	}
	return out
}

// OrderHistory filas confirmadas del historial de un pedido.
func (m *MemStore) OrderHistory(orderID string) []entity.StatusHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterHistory(m.committed.orderHistory, orderID)
}

// ItemHistory filas confirmadas del historial de una línea.
func (m *MemStore) ItemHistory(itemID string) []entity.StatusHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterHistory(m.committed.itemHistory, itemID)
}

// Prefacturas copia de las prefacturas confirmadas.
func (m *MemStore) Prefacturas() []entity.Prefactura {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.committed.prefacturas)
}

// Quotation copia de una cotización confirmada.
func (m *MemStore) Quotation(id string) *entity.Quotation {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.committed.quotations {
		if q.ID == id {
			return &q
		}
	}
	return nil
}

// Packaging filas de empaque confirmadas de una línea.
func (m *MemStore) Packaging(itemID string) []entity.Packaging {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Packaging
	for _, p := range m.committed.packaging {
		if p.OrderItemID == itemID {
			out = append(out, p)
		}
	}
	return out
}

func filterHistory(rows []entity.StatusHistory, ownerID string) []entity.StatusHistory {
	var out []entity.StatusHistory
	for _, h := range rows {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out
}

type memTx struct {
	store *MemStore
	data  *memData
}

func (t *memTx) Orders() repository.OrderRepository              { return memOrders{t} }
func (t *memTx) Items() repository.OrderItemRepository           { return memItems{t} }
func (t *memTx) History() repository.StatusHistoryRepository     { return memHistory{t} }
func (t *memTx) Prefacturas() repository.PrefacturaRepository    { return memPrefacturas{t} }
func (t *memTx) Quotations() repository.QuotationRepository      { return memQuotations{t} }
func (t *memTx) Clients() repository.ClientRepository            { return memClients{t} }
func (t *memTx) LegalStatuses() repository.LegalStatusRepository { return memLegal{t} }

func (t *memTx) Savepoint(ctx context.Context, fn func() error) error {
	snap := t.data.clone()
	if err := fn(); err != nil {
		t.data = snap
		return err
	}
	return nil
}

func (t *memTx) codeTaken(code string) bool {
	if _, ok := t.store.external[strings.ToUpper(code)]; ok {
		return true
	}
	if t.store.OnCodeInsert != nil && t.store.OnCodeInsert(code) {
		t.store.external[strings.ToUpper(code)] = struct{}{}
		return true
	}
	return false
}

func (t *memTx) externalCodes(prefix string) []string {
	var out []string
	for c := range t.store.external {
		if strings.HasPrefix(c, strings.ToUpper(prefix)) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

type memOrders struct{ t *memTx }

func (r memOrders) idx(id string) int {
	return slices.IndexFunc(r.t.data.orders, func(o entity.Order) bool { return o.ID == id })
}

func (r memOrders) Create(_ context.Context, o *entity.Order) error {
	for _, cur := range r.t.data.orders {
		if strings.EqualFold(cur.OrderCode, o.OrderCode) {
			return fmt.Errorf("order_code %s: %w", o.OrderCode, domain.ErrDuplicate)
		}
	}
	if r.t.codeTaken(o.OrderCode) {
		return fmt.Errorf("order_code %s: %w", o.OrderCode, domain.ErrDuplicate)
	}
	r.t.data.orders = append(r.t.data.orders, *o)
	return nil
}

func (r memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	if i := r.idx(id); i >= 0 {
		o := r.t.data.orders[i]
		return &o, nil
	}
	return nil, nil
}

func (r memOrders) GetByCode(_ context.Context, code string) (*entity.Order, error) {
	for _, o := range r.t.data.orders {
		if strings.EqualFold(o.OrderCode, code) {
			return &o, nil
		}
	}
	return nil, nil
}

func (r memOrders) ListCodesByPrefix(_ context.Context, prefix string) ([]string, error) {
	out := r.t.externalCodes(prefix)
	for _, o := range r.t.data.orders {
		if strings.HasPrefix(strings.ToUpper(o.OrderCode), strings.ToUpper(prefix)) {
			out = append(out, o.OrderCode)
		}
	}
	return out, nil
}

func (r memOrders) Count(context.Context) (int, error) {
	return len(r.t.data.orders), nil
}

func (r memOrders) List(_ context.Context, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for i := len(r.t.data.orders) - 1; i >= 0; i-- {
		o := r.t.data.orders[i]
		out = append(out, &o)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r memOrders) Update(_ context.Context, o *entity.Order) error {
	i := r.idx(o.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.t.data.orders[i] = *o
	return nil
}

func (r memOrders) UpdateStatus(_ context.Context, id, status string) error {
	i := r.idx(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.t.data.orders[i].Status = status
	return nil
}

func (r memOrders) UpdateTotal(_ context.Context, id string, total decimal.Decimal) error {
	i := r.idx(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.t.data.orders[i].Total = total
	return nil
}

func (r memOrders) Delete(_ context.Context, id string) error {
	r.t.data.orders = slices.DeleteFunc(r.t.data.orders, func(o entity.Order) bool { return o.ID == id })
	return nil
}

type memItems struct{ t *memTx }

func (r memItems) idx(id string) int {
	return slices.IndexFunc(r.t.data.items, func(it entity.OrderItem) bool { return it.ID == id })
}

func (r memItems) Create(_ context.Context, it *entity.OrderItem) error {
	if i := slices.IndexFunc(r.t.data.orders, func(o entity.Order) bool { return o.ID == it.OrderID }); i < 0 {
		return fmt.Errorf("order %s: %w", it.OrderID, domain.ErrNotFound)
	}
	r.t.data.items = append(r.t.data.items, *it)
	return nil
}

func (r memItems) GetByID(_ context.Context, id string) (*entity.OrderItem, error) {
	if i := r.idx(id); i >= 0 {
		it := r.t.data.items[i]
		return &it, nil
	}
	return nil, nil
}

func (r memItems) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.t.data.items {
		if it.OrderID == orderID {
			it := it
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r memItems) Update(_ context.Context, it *entity.OrderItem) error {
	i := r.idx(it.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.t.data.items[i] = *it
	return nil
}

func (r memItems) UpdateStatus(_ context.Context, id, status string) error {
	i := r.idx(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.t.data.items[i].Status = status
	return nil
}

func (r memItems) Delete(_ context.Context, id string) error {
	r.t.data.items = slices.DeleteFunc(r.t.data.items, func(it entity.OrderItem) bool { return it.ID == id })
	return nil
}

func (r memItems) ListPackaging(_ context.Context, itemID string) ([]*entity.Packaging, error) {
	var out []*entity.Packaging
	for _, p := range r.t.data.packaging {
		if p.OrderItemID == itemID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r memItems) ReplacePackaging(_ context.Context, itemID string, rows []*entity.Packaging) error {
	r.t.data.packaging = slices.DeleteFunc(r.t.data.packaging, func(p entity.Packaging) bool { return p.OrderItemID == itemID })
	for _, p := range rows {
		r.t.data.packaging = append(r.t.data.packaging, *p)
	}
	return nil
}

func (r memItems) ListSocks(_ context.Context, itemID string) ([]*entity.Sock, error) {
	var out []*entity.Sock
	for _, s := range r.t.data.socks {
		if s.OrderItemID == itemID {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r memItems) ReplaceSocks(_ context.Context, itemID string, rows []*entity.Sock) error {
	r.t.data.socks = slices.DeleteFunc(r.t.data.socks, func(s entity.Sock) bool { return s.OrderItemID == itemID })
	for _, s := range rows {
		r.t.data.socks = append(r.t.data.socks, *s)
	}
	return nil
}

func (r memItems) ListMaterials(_ context.Context, itemID string) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.t.data.materials {
		if m.OrderItemID == itemID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r memItems) ReplaceMaterials(_ context.Context, itemID string, rows []*entity.Material) error {
	if hook := r.t.store.OnReplaceMaterials; hook != nil {
		if err := hook(itemID); err != nil {
			return err
		}
	}
	r.t.data.materials = slices.DeleteFunc(r.t.data.materials, func(m entity.Material) bool { return m.OrderItemID == itemID })
	for _, m := range rows {
		r.t.data.materials = append(r.t.data.materials, *m)
	}
	return nil
}

func (r memItems) CreateAddition(_ context.Context, a *entity.OrderItemAddition) error {
	if r.t.store.AdditionsMissing {
		return fmt.Errorf("order_item_additions: %w", domain.ErrSchemaMissing)
	}
	r.t.data.additions = append(r.t.data.additions, *a)
	return nil
}

func (r memItems) ListAdditions(_ context.Context, itemID string) ([]*entity.OrderItemAddition, error) {
	if r.t.store.AdditionsMissing {
		return nil, nil
	}
	var out []*entity.OrderItemAddition
	for _, a := range r.t.data.additions {
		if a.OrderItemID == itemID {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r memItems) DeleteAdditions(_ context.Context, itemID string) error {
	r.t.data.additions = slices.DeleteFunc(r.t.data.additions, func(a entity.OrderItemAddition) bool { return a.OrderItemID == itemID })
	return nil
}

type memHistory struct{ t *memTx }

func (r memHistory) AppendOrder(_ context.Context, h *entity.StatusHistory) error {
	r.t.data.orderHistory = append(r.t.data.orderHistory, *h)
	return nil
}

func (r memHistory) AppendItem(_ context.Context, h *entity.StatusHistory) error {
	r.t.data.itemHistory = append(r.t.data.itemHistory, *h)
	return nil
}

func (r memHistory) ListByOrder(_ context.Context, orderID string) ([]*entity.StatusHistory, error) {
	return historyPtrs(r.t.data.orderHistory, orderID), nil
}

func (r memHistory) ListByItem(_ context.Context, itemID string) ([]*entity.StatusHistory, error) {
	return historyPtrs(r.t.data.itemHistory, itemID), nil
}

func (r memHistory) DeleteByOrder(_ context.Context, orderID string) error {
	r.t.data.orderHistory = slices.DeleteFunc(r.t.data.orderHistory, func(h entity.StatusHistory) bool { return h.OwnerID == orderID })
	return nil
}

func (r memHistory) DeleteByItem(_ context.Context, itemID string) error {
	r.t.data.itemHistory = slices.DeleteFunc(r.t.data.itemHistory, func(h entity.StatusHistory) bool { return h.OwnerID == itemID })
	return nil
}

func historyPtrs(rows []entity.StatusHistory, ownerID string) []*entity.StatusHistory {
	var out []*entity.StatusHistory
	for _, h := range rows {
		if h.OwnerID == ownerID {
			h := h
			out = append(out, &h)
		}
	}
	return out
}

type memPrefacturas struct{ t *memTx }

func (r memPrefacturas) idx(id string) int {
	return slices.IndexFunc(r.t.data.prefacturas, func(p entity.Prefactura) bool { return p.ID == id })
}

func (r memPrefacturas) Create(_ context.Context, p *entity.Prefactura) error {
	for _, cur := range r.t.data.prefacturas {
		if cur.QuotationID == p.QuotationID {
			return fmt.Errorf("quotation %s: %w", p.QuotationID, domain.ErrConflict)
		}
		if strings.EqualFold(cur.PrefacturaCode, p.PrefacturaCode) {
			return fmt.Errorf("prefactura_code %s: %w", p.PrefacturaCode, domain.ErrDuplicate)
		}
	}
	if r.t.codeTaken(p.PrefacturaCode) {
		return fmt.Errorf("prefactura_code %s: %w", p.PrefacturaCode, domain.ErrDuplicate)
	}
	r.t.data.prefacturas = append(r.t.data.prefacturas, *p)
	return nil
}

func (r memPrefacturas) GetByID(_ context.Context, id string) (*entity.Prefactura, error) {
	if i := r.idx(id); i >= 0 {
		p := r.t.data.prefacturas[i]
		return &p, nil
	}
	return nil, nil
}

func (r memPrefacturas) GetByQuotationID(_ context.Context, quotationID string) (*entity.Prefactura, error) {
	for _, p := range r.t.data.prefacturas {
		if p.QuotationID == quotationID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memPrefacturas) ListCodesByPrefix(_ context.Context, prefix string) ([]string, error) {
	out := r.t.externalCodes(prefix)
	for _, p := range r.t.data.prefacturas {
		if strings.HasPrefix(strings.ToUpper(p.PrefacturaCode), strings.ToUpper(prefix)) {
			out = append(out, p.PrefacturaCode)
		}
	}
	return out, nil
}

func (r memPrefacturas) LinkOrder(_ context.Context, id string, orderID *string) error {
	i := r.idx(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.t.data.prefacturas[i].OrderID = orderID
	return nil
}

func (r memPrefacturas) UnlinkOrder(_ context.Context, orderID string) error {
	for i, p := range r.t.data.prefacturas {
		if p.OrderID != nil && *p.OrderID == orderID {
			r.t.data.prefacturas[i].OrderID = nil
		}
	}
	return nil
}

type memQuotations struct{ t *memTx }

func (r memQuotations) GetByID(_ context.Context, id string) (*entity.Quotation, error) {
	for _, q := range r.t.data.quotations {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, nil
}

func (r memQuotations) MarkReopened(_ context.Context, id string) error {
	for i, q := range r.t.data.quotations {
		if q.ID == id {
			r.t.data.quotations[i].PrefacturaApproved = false
			r.t.data.quotations[i].IsActive = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type memClients struct{ t *memTx }

func (r memClients) idx(id string) int {
	return slices.IndexFunc(r.t.data.clients, func(c entity.Client) bool { return c.ID == id })
}

func (r memClients) Create(_ context.Context, c *entity.Client) error {
	for _, cur := range r.t.data.clients {
		if cur.IdentificationType == c.IdentificationType && cur.Identification == c.Identification {
			return fmt.Errorf("client identification: %w", domain.ErrDuplicate)
		}
	}
	r.t.data.clients = append(r.t.data.clients, *c)
	return nil
}

func (r memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	if i := r.idx(id); i >= 0 {
		c := r.t.data.clients[i]
		return &c, nil
	}
	return nil, nil
}

func (r memClients) GetByIdentification(_ context.Context, identificationType, identification string) (*entity.Client, error) {
	for _, c := range r.t.data.clients {
		if c.IdentificationType == identificationType && c.Identification == identification {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memClients) Update(_ context.Context, c *entity.Client) error {
	i := r.idx(c.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	for _, cur := range r.t.data.clients {
		if cur.ID != c.ID && cur.IdentificationType == c.IdentificationType && cur.Identification == c.Identification {
			return fmt.Errorf("client identification: %w", domain.ErrDuplicate)
		}
	}
	r.t.data.clients[i] = *c
	return nil
}

func (r memClients) SetActive(_ context.Context, id string, active bool) error {
	i := r.idx(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.t.data.clients[i].IsActive = active
	return nil
}

type memLegal struct{ t *memTx }

func (r memLegal) Append(_ context.Context, s *entity.LegalStatus) error {
	r.t.data.legal = append(r.t.data.legal, *s)
	return nil
}

func (r memLegal) Latest(_ context.Context, entityType, entityID string) (*entity.LegalStatus, error) {
	for i := len(r.t.data.legal) - 1; i >= 0; i-- {
		s := r.t.data.legal[i]
		if s.EntityType == entityType && s.EntityID == entityID {
			return &s, nil
		}
	}
	return nil, nil
}
