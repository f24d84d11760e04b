package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/payments"
	"github.com/usdt-market/backend/internal/repositories"
)

// MockOrderStore keeps orders in memory and applies the same conditional
// updates as OrderRepo.
type MockOrderStore struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*models.Order
	products *MockProductStore
	users    *MockUserStore
	failGet  error
}

func NewMockOrderStore(products *MockProductStore, users *MockUserStore) *MockOrderStore {
	return &MockOrderStore{orders: map[uuid.UUID]*models.Order{}, products: products, users: users}
}

func (m *MockOrderStore) Create(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.New()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *MockOrderStore) Put(o *models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	m.orders[o.ID] = &cp
}

func (m *MockOrderStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *MockOrderStore) Get(id uuid.UUID) *models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil
	}
	cp := *o
	return &cp
}

func (m *MockOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	if o := m.Get(id); o != nil {
		return o, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *MockOrderStore) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *MockOrderStore) MarkPaid(ctx context.Context, id uuid.UUID, txHash string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for oid, o := range m.orders {
		if oid != id && o.TxHash != nil && *o.TxHash == txHash {
			return false, repositories.ErrTxHashUsed
		}
	}
	o, ok := m.orders[id]
	if !ok || o.Status != models.OrderStatusPending || o.TxHash != nil {
		return false, nil
	}
	o.Status = models.OrderStatusPaid
	o.TxHash = &txHash
	o.PaidAt = &paidAt
	return true, nil
}

func (m *MockOrderStore) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != models.OrderStatusPending {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	return true, nil
}

func (m *MockOrderStore) Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || (o.Status != models.OrderStatusDelivered && o.Status != models.OrderStatusDisputed) {
		return false, nil
	}
	o.Status = models.OrderStatusCompleted
	o.CompletedAt = &at
	return true, nil
}

func (m *MockOrderStore) MarkDelivered(ctx context.Context, order *models.Order, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[order.ID]
	if !ok || o.Status != models.OrderStatusPaid {
		return false, nil
	}
	o.Status = models.OrderStatusDelivered
	o.DeliveredAt = &at
	m.products.incSales(o.ProductID)
	m.users.inc(o.SellerID, func(u *models.User) { u.SalesCount++ })
	m.users.inc(o.BuyerID, func(u *models.User) { u.PurchasesCount++ })
	return true, nil
}

func (m *MockOrderStore) TxHashOwner(ctx context.Context, network models.Network, txHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.orders {
		if o.PaymentNetwork == network && o.TxHash != nil && *o.TxHash == txHash {
			return id, nil
		}
	}
	return uuid.Nil, repositories.ErrNotFound
}

type MockProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
}

func NewMockProductStore() *MockProductStore {
	return &MockProductStore{products: map[uuid.UUID]*models.Product{}}
}

func (m *MockProductStore) Add(p *models.Product) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
	return p
}

func (m *MockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductStore) incSales(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		p.SalesCount++
	}
}

type MockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: map[uuid.UUID]*models.User{}}
}

func (m *MockUserStore) Add(telegramID int64, lang string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: uuid.New(), TelegramID: telegramID, Language: lang, Balance: decimal.Zero}
	m.users[u.ID] = u
	return u
}

func (m *MockUserStore) Snapshot(id uuid.UUID) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserStore) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *MockUserStore) inc(id uuid.UUID, f func(*models.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		f(u)
	}
}

type MockAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (m *MockAudit) Log(ctx context.Context, entry models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockAudit) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

// MockMatcher returns tx for every request on a supported network.
type MockMatcher struct {
	mu       sync.Mutex
	networks map[models.Network]bool
	tx       *payments.Transaction
	requests []payments.Request
	skipped  []string
	// candidates are checked against Request.Skip like the real matcher
	candidates []*payments.Transaction
}

func NewMockMatcher(networks ...models.Network) *MockMatcher {
	m := &MockMatcher{networks: map[models.Network]bool{}}
	for _, n := range networks {
		m.networks[n] = true
	}
	return m
}

func (m *MockMatcher) Supports(network models.Network) bool {
	return m.networks[network]
}

func (m *MockMatcher) Match(ctx context.Context, req payments.Request) *payments.Transaction {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	candidates := m.candidates
	if m.tx != nil {
		candidates = append([]*payments.Transaction{m.tx}, candidates...)
	}
	m.mu.Unlock()

	for _, c := range candidates {
		if req.Skip != nil && req.Skip(c.Hash) {
			m.mu.Lock()
			m.skipped = append(m.skipped, c.Hash)
			m.mu.Unlock()
			continue
		}
		return c
	}
	return nil
}

func (m *MockMatcher) SetTx(tx *payments.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tx = tx
}

func (m *MockMatcher) Requests() []payments.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]payments.Request(nil), m.requests...)
}

type MockClaims struct {
	mu     sync.Mutex
	owners map[string]string
	err    error
}

func NewMockClaims() *MockClaims {
	return &MockClaims{owners: map[string]string{}}
}

func (m *MockClaims) Claim(ctx context.Context, network models.Network, txHash, orderRef string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	key := string(network) + ":" + txHash
	owner, ok := m.owners[key]
	if !ok {
		m.owners[key] = orderRef
		return true, nil
	}
	return owner == orderRef, nil
}

func (m *MockClaims) Owner(ctx context.Context, network models.Network, txHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.owners[string(network)+":"+txHash], nil
}

func (m *MockClaims) Release(ctx context.Context, network models.Network, txHash, orderRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(network) + ":" + txHash
	if m.owners[key] == orderRef {
		delete(m.owners, key)
	}
	return nil
}

type MockStopper struct {
	mu      sync.Mutex
	stopped []uuid.UUID
}

func (m *MockStopper) StopOrder(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = append(m.stopped, id)
}

type sentMessage struct {
	ChatID int64
	Text   string
	Photo  []byte
	KB     *Keyboard
}

type MockMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *MockMessenger) SendMessage(ctx context.Context, chatID int64, text string, kb *Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, KB: kb})
	return nil
}

func (m *MockMessenger) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string, kb *Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: caption, Photo: png, KB: kb})
	return nil
}

func (m *MockMessenger) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

type MockPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (m *MockPublisher) Publish(ctx context.Context, stream string, event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

var errBoom = errors.New("boom")
