// Package memory implementa todos los puertos de persistencia sobre mapas en
// memoria. Sirve para los tests de casos de uso y para correr el POS sin
// PostgreSQL. La transacción es un único lock global más snapshot: commit
// suelta el lock, rollback restaura el snapshot completo.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store contenedor único de estado. Todos los repos comparten el mismo lock,
// así la exclusión mutua por producto del motor de ledger se cumple trivialmente.
type Store struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	products     map[string]*entity.Product
	movements    []*entity.StockMovement
	invoices     map[string]*entity.Invoice
	invoiceItems map[string][]*entity.InvoiceItem
	purchases    map[string]*entity.Purchase
	purchItems   map[string][]*entity.PurchaseItem
	returns      map[string]*entity.SalesReturn
	returnItems  map[string][]*entity.SalesReturnItem
	sequences    map[string]int64
	settings     *entity.Settings
	users        map[string]*entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

func newData() *data {
	return &data{
		products:     map[string]*entity.Product{},
		invoices:     map[string]*entity.Invoice{},
		invoiceItems: map[string][]*entity.InvoiceItem{},
		purchases:    map[string]*entity.Purchase{},
		purchItems:   map[string][]*entity.PurchaseItem{},
		returns:      map[string]*entity.SalesReturn{},
		returnItems:  map[string][]*entity.SalesReturnItem{},
		sequences:    map[string]int64{},
		users:        map[string]*entity.User{},
	}
}

// clone copia el estado completo. Las entidades se copian por valor para que
// mutaciones posteriores al snapshot no lo contaminen.
func (d *data) clone() *data {
	c := newData()
	for id, p := range d.products {
		cp := *p
		c.products[id] = &cp
	}
	c.movements = make([]*entity.StockMovement, len(d.movements))
	for i, m := range d.movements {
		cm := *m
		c.movements[i] = &cm
	}
	for id, inv := range d.invoices {
		ci := *inv
		c.invoices[id] = &ci
	}
	for id, items := range d.invoiceItems {
		cp := make([]*entity.InvoiceItem, len(items))
		for i, it := range items {
			cit := *it
			cp[i] = &cit
		}
		c.invoiceItems[id] = cp
	}
	for id, p := range d.purchases {
		cp := *p
		c.purchases[id] = &cp
	}
	for id, items := range d.purchItems {
		cp := make([]*entity.PurchaseItem, len(items))
		for i, it := range items {
			cit := *it
			cp[i] = &cit
		}
		c.purchItems[id] = cp
	}
	for id, ret := range d.returns {
		cr := *ret
		c.returns[id] = &cr
	}
	for id, items := range d.returnItems {
		cp := make([]*entity.SalesReturnItem, len(items))
		for i, it := range items {
			cit := *it
			cp[i] = &cit
		}
		c.returnItems[id] = cp
	}
	for prefix, v := range d.sequences {
		c.sequences[prefix] = v
	}
	if d.settings != nil {
		cs := *d.settings
		c.settings = &cs
	}
	for id, u := range d.users {
		cu := *u
		c.users[id] = &cu
	}
	return c
}

// Run ejecuta fn bajo el lock global con los repos atados al store. Si fn
// falla, restaura el snapshot tomado al inicio: rollback completo.
func (s *Store) Run(ctx context.Context, fn func(tx *repository.Atomic) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	atomic := &repository.Atomic{
		Products:  &productRepo{s: s, inTx: true},
		Movements: &movementRepo{s: s, inTx: true},
		Invoices:  &invoiceRepo{s: s, inTx: true},
		Purchases: &purchaseRepo{s: s, inTx: true},
		Returns:   &salesReturnRepo{s: s, inTx: true},
		Sequences: &sequenceRepo{s: s, inTx: true},
	}
	if err := fn(atomic); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// lock toma el lock global salvo que el repo ya corra dentro de Run.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Accesores de repos standalone (fuera de transacción).

func (s *Store) Products() repository.ProductRepository         { return &productRepo{s: s} }
func (s *Store) Movements() repository.StockMovementRepository  { return &movementRepo{s: s} }
func (s *Store) Invoices() repository.InvoiceRepository         { return &invoiceRepo{s: s} }
func (s *Store) Purchases() repository.PurchaseRepository       { return &purchaseRepo{s: s} }
func (s *Store) Returns() repository.SalesReturnRepository      { return &salesReturnRepo{s: s} }
func (s *Store) Sequences() repository.SequenceRepository       { return &sequenceRepo{s: s} }
func (s *Store) Settings() repository.SettingsRepository        { return &settingsRepo{s: s} }
func (s *Store) Users() repository.UserRepository               { return &userRepo{s: s} }

// ── productos ────────────────────────────────────────────────────────────────

type productRepo struct {
	s    *Store
	inTx bool
}

func (r *productRepo) Create(product *entity.Product) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	if _, ok := r.s.d.products[product.ID]; ok {
		return domain.Duplicatef("producto ya existe: %s", product.ID)
	}
	if product.Barcode != "" {
		for _, p := range r.s.d.products {
			if p.Barcode == product.Barcode {
				return domain.Duplicatef("código de barras ya registrado: %s", product.Barcode)
			}
		}
	}
	cp := *product
	r.s.d.products[product.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	p, ok := r.s.d.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	for _, p := range r.s.d.products {
		if p.Barcode != "" && p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetByIDsForUpdate(ids []string) (map[string]*entity.Product, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.d.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *productRepo) Update(product *entity.Product) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	existing, ok := r.s.d.products[product.ID]
	if !ok {
		return domain.NotFoundf("producto %s", product.ID)
	}
	if product.Barcode != "" && product.Barcode != existing.Barcode {
		for _, p := range r.s.d.products {
			if p.ID != product.ID && p.Barcode == product.Barcode {
				return domain.Duplicatef("código de barras ya registrado: %s", product.Barcode)
			}
		}
	}
	cp := *product
	// el saldo solo se muta vía UpdateStock (motor de ledger)
	cp.StockQty = existing.StockQty
	r.s.d.products[product.ID] = &cp
	return nil
}

func (r *productRepo) UpdateStock(productID string, stockQty decimal.Decimal, updatedAt time.Time) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	p, ok := r.s.d.products[productID]
	if !ok {
		return domain.NotFoundf("producto %s", productID)
	}
	p.StockQty = stockQty
	p.UpdatedAt = updatedAt
	return nil
}

func (r *productRepo) UpdateCost(productID string, costPrice decimal.Decimal, updatedAt time.Time) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	p, ok := r.s.d.products[productID]
	if !ok {
		return domain.NotFoundf("producto %s", productID)
	}
	p.CostPrice = costPrice
	p.UpdatedAt = updatedAt
	return nil
}

func (r *productRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	var list []*entity.Product
	for _, p := range r.s.d.products {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Barcode != "" && p.Barcode != filter.Barcode {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if filter.Limit > 0 {
		if filter.Offset >= len(list) {
			return nil, nil
		}
		list = list[filter.Offset:]
		if len(list) > filter.Limit {
			list = list[:filter.Limit]
		}
	}
	return list, nil
}

// ── movimientos ──────────────────────────────────────────────────────────────

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(movement *entity.StockMovement) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	cp := *movement
	r.s.d.movements = append(r.s.d.movements, &cp)
	return nil
}

func (r *movementRepo) ListByProduct(productID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	var list []*entity.StockMovement
	for _, m := range r.s.d.movements {
		if m.ProductID != productID {
			continue
		}
		if filter.From != nil && m.Datetime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Datetime.After(*filter.To) {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	// más recientes primero; a igual datetime conserva orden de inserción inverso
	sort.SliceStable(list, func(i, j int) bool { return list[i].Datetime.After(list[j].Datetime) })
	if filter.Limit > 0 {
		if filter.Offset >= len(list) {
			return nil, nil
		}
		list = list[filter.Offset:]
		if len(list) > filter.Limit {
			list = list[:filter.Limit]
		}
	}
	return list, nil
}

// ── facturas ─────────────────────────────────────────────────────────────────

type invoiceRepo struct {
	s    *Store
	inTx bool
}

func (r *invoiceRepo) Create(invoice *entity.Invoice) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	for _, inv := range r.s.d.invoices {
		if inv.Number == invoice.Number {
			return domain.Duplicatef("número de factura ya existe: %s", invoice.Number)
		}
	}
	cp := *invoice
	r.s.d.invoices[invoice.ID] = &cp
	return nil
}

func (r *invoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	cp := *item
	r.s.d.invoiceItems[item.InvoiceID] = append(r.s.d.invoiceItems[item.InvoiceID], &cp)
	return nil
}

func (r *invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	inv, ok := r.s.d.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *invoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	items := r.s.d.invoiceItems[invoiceID]
	out := make([]*entity.InvoiceItem, len(items))
	for i, it := range items {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

func (r *invoiceRepo) MarkCancelled(invoiceID, cancelledByUserID string, cancelledAt time.Time) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	inv, ok := r.s.d.invoices[invoiceID]
	if !ok {
		return domain.NotFoundf("factura %s", invoiceID)
	}
	if inv.IsCancelled {
		return nil
	}
	inv.IsCancelled = true
	inv.CancelledByUserID = cancelledByUserID
	at := cancelledAt
	inv.CancelledAt = &at
	inv.UpdatedAt = cancelledAt
	return nil
}

func (r *invoiceRepo) ListByDateRange(from, to time.Time) ([]*entity.Invoice, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	var list []*entity.Invoice
	for _, inv := range r.s.d.invoices {
		if inv.Datetime.Before(from) || inv.Datetime.After(to) {
			continue
		}
		cp := *inv
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Datetime.After(list[j].Datetime) })
	return list, nil
}

// ── compras ──────────────────────────────────────────────────────────────────

type purchaseRepo struct {
	s    *Store
	inTx bool
}

func (r *purchaseRepo) Create(purchase *entity.Purchase) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	cp := *purchase
	r.s.d.purchases[purchase.ID] = &cp
	return nil
}

func (r *purchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	cp := *item
	r.s.d.purchItems[item.PurchaseID] = append(r.s.d.purchItems[item.PurchaseID], &cp)
	return nil
}

func (r *purchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	p, ok := r.s.d.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *purchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	items := r.s.d.purchItems[purchaseID]
	out := make([]*entity.PurchaseItem, len(items))
	for i, it := range items {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

// ── devoluciones ─────────────────────────────────────────────────────────────

type salesReturnRepo struct {
	s    *Store
	inTx bool
}

func (r *salesReturnRepo) Create(ret *entity.SalesReturn) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	cp := *ret
	r.s.d.returns[ret.ID] = &cp
	return nil
}

func (r *salesReturnRepo) CreateItem(item *entity.SalesReturnItem) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	cp := *item
	r.s.d.returnItems[item.SalesReturnID] = append(r.s.d.returnItems[item.SalesReturnID], &cp)
	return nil
}

func (r *salesReturnRepo) GetByID(id string) (*entity.SalesReturn, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	ret, ok := r.s.d.returns[id]
	if !ok {
		return nil, nil
	}
	cp := *ret
	return &cp, nil
}

func (r *salesReturnRepo) GetItems(returnID string) ([]*entity.SalesReturnItem, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	items := r.s.d.returnItems[returnID]
	out := make([]*entity.SalesReturnItem, len(items))
	for i, it := range items {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

func (r *salesReturnRepo) ReturnedQtyByInvoice(invoiceID string) (map[string]decimal.Decimal, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	out := make(map[string]decimal.Decimal)
	for id, ret := range r.s.d.returns {
		if ret.OriginalInvoiceID != invoiceID {
			continue
		}
		for _, it := range r.s.d.returnItems[id] {
			out[it.ProductID] = out[it.ProductID].Add(it.Qty)
		}
	}
	return out, nil
}

// ── consecutivos ─────────────────────────────────────────────────────────────

type sequenceRepo struct {
	s    *Store
	inTx bool
}

func (r *sequenceRepo) Next(prefix string) (int64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	r.s.d.sequences[prefix]++
	return r.s.d.sequences[prefix], nil
}

// ── configuración ────────────────────────────────────────────────────────────

type settingsRepo struct {
	s    *Store
	inTx bool
}

func (r *settingsRepo) Get() (*entity.Settings, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	if r.s.d.settings == nil {
		return nil, nil
	}
	cp := *r.s.d.settings
	return &cp, nil
}

func (r *settingsRepo) Save(settings *entity.Settings) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	cp := *settings
	r.s.d.settings = &cp
	return nil
}

// ── usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct {
	s    *Store
	inTx bool
}

func (r *userRepo) Create(user *entity.User) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	for _, u := range r.s.d.users {
		if u.Username == user.Username {
			return domain.Duplicatef("nombre de usuario ya registrado: %s", user.Username)
		}
	}
	cp := *user
	r.s.d.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByUsername(username string) (*entity.User, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	for _, u := range r.s.d.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Count() (int, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()
	return len(r.s.d.users), nil
}
