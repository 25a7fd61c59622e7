package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reparto-app/reparto-sales-service/internal/auth"
	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/events"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/settlement"
)

// In-memory fakes for the repository interfaces.

type mockCustomerRepo struct {
	customers   map[string]*models.Customer
	failSetDebt bool
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[string]*models.Customer)}
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCustomerRepo) List(ctx context.Context) ([]*models.Customer, error) {
	out := make([]*models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCustomerRepo) Create(ctx context.Context, req *models.UpsertCustomerRequest) (*models.Customer, error) {
	c := &models.Customer{ID: uuid.New().String(), Name: req.Name, List: req.List, Debt: req.Debt}
	m.customers[c.ID] = c
	return c, nil
}

func (m *mockCustomerRepo) Update(ctx context.Context, id string, req *models.UpsertCustomerRequest) (*models.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c.Name = req.Name
	c.List = req.List
	return c, nil
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.customers[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *mockCustomerRepo) SetDebt(ctx context.Context, id string, debt float64) error {
	if m.failSetDebt {
		return errors.New("connection refused")
	}
	c, ok := m.customers[id]
	if !ok {
		return errs.ErrNotFound
	}
	c.Debt = debt
	return nil
}

type mockProductRepo struct {
	products map[string]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]*models.Product)}
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	out := make([]*models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepo) Create(ctx context.Context, req *models.UpsertProductRequest) (*models.Product, error) {
	p := &models.Product{
		ID:             uuid.New().String(),
		Name:           req.Name,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		Stock:          req.Stock,
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductRepo) Update(ctx context.Context, id string, req *models.UpsertProductRequest) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	p.Name = req.Name
	return p, nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	p, ok := m.products[id]
	if !ok {
		return errs.ErrNotFound
	}
	p.Stock += delta
	return nil
}

type mockOrderRepo struct {
	orders           map[string]*models.Order
	failUpdateStatus bool
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*models.Order)}
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	out := make([]*models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if m.failUpdateStatus {
		return errors.New("connection refused")
	}
	o, ok := m.orders[id]
	if !ok {
		return errs.ErrNotFound
	}
	o.Status = status
	return nil
}

type mockSaleRepo struct {
	sales      []*models.Sale
	rows       []*models.SaleRow
	failCreate bool
}

func (m *mockSaleRepo) Create(ctx context.Context, sale *models.Sale) error {
	if m.failCreate {
		return errors.New("connection refused")
	}
	m.sales = append(m.sales, sale)
	return nil
}

func (m *mockSaleRepo) ListBetween(ctx context.Context, filter *models.SalesFilter) ([]*models.SaleRow, error) {
	return m.rows, nil
}

type mockDraftStore struct {
	drafts map[string]map[string]*models.Quote
}

func newMockDraftStore() *mockDraftStore {
	return &mockDraftStore{drafts: make(map[string]map[string]*models.Quote)}
}

func (m *mockDraftStore) List(ctx context.Context, operatorID string) ([]*models.Quote, error) {
	out := make([]*models.Quote, 0)
	for _, q := range m.drafts[operatorID] {
		out = append(out, q)
	}
	return out, nil
}

func (m *mockDraftStore) Get(ctx context.Context, operatorID, quoteID string) (*models.Quote, error) {
	q, ok := m.drafts[operatorID][quoteID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return q, nil
}

func (m *mockDraftStore) Save(ctx context.Context, operatorID string, quote *models.Quote) error {
	if m.drafts[operatorID] == nil {
		m.drafts[operatorID] = make(map[string]*models.Quote)
	}
	m.drafts[operatorID][quote.ID] = quote
	return nil
}

func (m *mockDraftStore) Delete(ctx context.Context, operatorID, quoteID string) error {
	if _, ok := m.drafts[operatorID][quoteID]; !ok {
		return errs.ErrNotFound
	}
	delete(m.drafts[operatorID], quoteID)
	return nil
}

type mockCache struct {
	entries map[string]*models.Customer
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*models.Customer)}
}

func (m *mockCache) Get(ctx context.Context, id string) (*models.Customer, error) {
	return m.entries[id], nil
}

func (m *mockCache) Set(ctx context.Context, customer *models.Customer) error {
	m.entries[customer.ID] = customer
	return nil
}

func (m *mockCache) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

type mockOperatorRepo struct {
	operator *models.Operator
	hash     string
}

func (m *mockOperatorRepo) Create(ctx context.Context, operator *models.Operator, passwordHash string) error {
	if m.operator != nil && m.operator.Email == operator.Email {
		return errs.ErrAlreadyExists
	}
	m.operator = operator
	m.hash = passwordHash
	return nil
}

func (m *mockOperatorRepo) GetByEmail(ctx context.Context, email string) (*models.Operator, string, error) {
	if m.operator == nil || m.operator.Email != email {
		return nil, "", errs.ErrNotFound
	}
	return m.operator, m.hash, nil
}

func (m *mockOperatorRepo) GetByID(ctx context.Context, id string) (*models.Operator, error) {
	if m.operator == nil || m.operator.ID != id {
		return nil, errs.ErrNotFound
	}
	return m.operator, nil
}

type orderServiceFixture struct {
	svc       *OrderService
	customers *mockCustomerRepo
	products  *mockProductRepo
	orders    *mockOrderRepo
	sales     *mockSaleRepo
	drafts    *mockDraftStore
	cache     *mockCache
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		customers: newMockCustomerRepo(),
		products:  newMockProductRepo(),
		orders:    newMockOrderRepo(),
		sales:     &mockSaleRepo{},
		drafts:    newMockDraftStore(),
		cache:     newMockCache(),
	}
	cfg := &config.Config{DebtTolerance: settlement.DefaultTolerance}
	f.svc = NewOrderService(f.orders, f.customers, f.products, f.sales, f.drafts, f.cache, events.NoopPublisher{}, cfg)
	return f
}

func (f *orderServiceFixture) seedCustomer(list models.PriceList, debt float64) *models.Customer {
	c := &models.Customer{ID: uuid.New().String(), Name: "Kiosco Norte", List: list, Debt: debt}
	f.customers.customers[c.ID] = c
	return c
}

func (f *orderServiceFixture) seedProduct(retail, wholesale float64, stock int) *models.Product {
	p := &models.Product{
		ID:             uuid.New().String(),
		Name:           "Agua 2L",
		RetailPrice:    retail,
		WholesalePrice: wholesale,
		Stock:          stock,
	}
	f.products.products[p.ID] = p
	return p
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListWholesale, 500)
	product := f.seedProduct(1500, 1200, 10)

	order, err := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []models.CreateOrderItem{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if order.Items[0].UnitPrice != 1200 {
		t.Errorf("unit price = %v, want wholesale 1200", order.Items[0].UnitPrice)
	}
	// 3 * 1200 plus prior debt 500
	if order.Total != 4100 {
		t.Errorf("total = %v, want 4100", order.Total)
	}
	if f.products.products[product.ID].Stock != 7 {
		t.Errorf("stock = %d, want 7", f.products.products[product.ID].Stock)
	}
}

func TestOrderService_CreateOrder_StockGoesNegative(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 0)
	product := f.seedProduct(1500, 1200, 2)

	_, err := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []models.CreateOrderItem{{ProductID: product.ID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if f.products.products[product.ID].Stock != -3 {
		t.Errorf("stock = %d, want -3", f.products.products[product.ID].Stock)
	}
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	f := newOrderServiceFixture()

	var vErr *errs.ValidationError
	_, err := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "customer_id" {
		t.Errorf("field = %s, want customer_id", vErr.Field)
	}
}

func TestOrderService_DeliverOrder(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 0)
	customer.Debt = 123

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     models.OrderStatusPending,
		Total:      1000,
	}
	f.orders.orders[order.ID] = order

	delivered, result, err := f.svc.DeliverOrder(context.Background(), order.ID, &models.DeliverOrderRequest{
		CashAmount: 800,
	})
	if err != nil {
		t.Fatalf("DeliverOrder() error = %v", err)
	}

	if delivered.Status != models.OrderStatusDelivered {
		t.Errorf("status = %s, want delivered", delivered.Status)
	}
	if result.NewDebt != 200 {
		t.Errorf("new debt = %v, want 200", result.NewDebt)
	}
	if len(f.sales.sales) != 1 {
		t.Fatalf("expected 1 sale recorded, got %d", len(f.sales.sales))
	}
	if f.sales.sales[0].CashAmount != 800 || f.sales.sales[0].TransferAmount != 0 {
		t.Errorf("sale stores raw amounts, got %+v", f.sales.sales[0])
	}
	// Debt overwritten, not accumulated onto the prior 123.
	if f.customers.customers[customer.ID].Debt != 200 {
		t.Errorf("customer debt = %v, want 200", f.customers.customers[customer.ID].Debt)
	}
}

func TestOrderService_DeliverOrder_WithinTolerance(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 777)

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     models.OrderStatusPending,
		Total:      1000,
	}
	f.orders.orders[order.ID] = order

	_, result, err := f.svc.DeliverOrder(context.Background(), order.ID, &models.DeliverOrderRequest{
		CashAmount: 950,
	})
	if err != nil {
		t.Fatalf("DeliverOrder() error = %v", err)
	}

	if result.NewDebt != 0 {
		t.Errorf("new debt = %v, want 0", result.NewDebt)
	}
	if f.customers.customers[customer.ID].Debt != 0 {
		t.Errorf("prior debt should be wiped, got %v", f.customers.customers[customer.ID].Debt)
	}
}

func TestOrderService_DeliverOrder_NoPayment(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 555)

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     models.OrderStatusPending,
		Total:      1000,
	}
	f.orders.orders[order.ID] = order

	_, _, err := f.svc.DeliverOrder(context.Background(), order.ID, &models.DeliverOrderRequest{})
	if !errors.Is(err, errs.ErrNoPayment) {
		t.Fatalf("expected ErrNoPayment, got %v", err)
	}

	// Nothing may change when the payment is rejected.
	if f.orders.orders[order.ID].Status != models.OrderStatusPending {
		t.Error("order status must stay pending")
	}
	if len(f.sales.sales) != 0 {
		t.Error("no sale may be recorded")
	}
	if f.customers.customers[customer.ID].Debt != 555 {
		t.Error("customer debt must stay untouched")
	}
}

func TestOrderService_DeliverOrder_NotPending(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 0)

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     models.OrderStatusDelivered,
		Total:      1000,
	}
	f.orders.orders[order.ID] = order

	var vErr *errs.ValidationError
	_, _, err := f.svc.DeliverOrder(context.Background(), order.ID, &models.DeliverOrderRequest{CashAmount: 1000})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestOrderService_DeliverOrder_PartialFailure(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 0)
	f.sales.failCreate = true

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     models.OrderStatusPending,
		Total:      1000,
	}
	f.orders.orders[order.ID] = order

	var opErr *errs.RemoteOperationError
	_, _, err := f.svc.DeliverOrder(context.Background(), order.ID, &models.DeliverOrderRequest{CashAmount: 1000})
	if !errors.As(err, &opErr) {
		t.Fatalf("expected RemoteOperationError, got %v", err)
	}
	if opErr.Step != deliverStepSale {
		t.Errorf("step = %d, want %d", opErr.Step, deliverStepSale)
	}

	// The status write before the failing step stays committed.
	if f.orders.orders[order.ID].Status != models.OrderStatusDelivered {
		t.Error("status write from step 1 should remain")
	}
}

func TestOrderService_CancelOrder(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 0)

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     models.OrderStatusPending,
		Total:      1000,
	}
	f.orders.orders[order.ID] = order

	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	if cancelled.Status != models.OrderStatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	var vErr *errs.ValidationError
	if _, err := f.svc.CancelOrder(context.Background(), order.ID); !errors.As(err, &vErr) {
		t.Errorf("cancelling twice should fail validation, got %v", err)
	}
}

func TestOrderService_PromoteQuote(t *testing.T) {
	f := newOrderServiceFixture()
	customer := f.seedCustomer(models.PriceListRetail, 0)
	product := f.seedProduct(1500, 1200, 10)

	quote := &models.Quote{
		ID:       uuid.New().String(),
		Customer: *customer,
		Items: []models.QuoteItem{
			{Product: *product, Quantity: 2, UnitPrice: 1500, Subtotal: 3000},
		},
		Subtotal:  3000,
		Total:     3000,
		CreatedAt: time.Now(),
	}
	if err := f.drafts.Save(context.Background(), "op_1", quote); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	order, err := f.svc.PromoteQuote(context.Background(), "op_1", quote.ID, nil)
	if err != nil {
		t.Fatalf("PromoteQuote() error = %v", err)
	}

	if order.Total != 3000 {
		t.Errorf("total = %v, want 3000", order.Total)
	}
	if order.Items[0].UnitPrice != 1500 {
		t.Errorf("quote price must stay frozen, got %v", order.Items[0].UnitPrice)
	}
	if f.products.products[product.ID].Stock != 8 {
		t.Errorf("stock = %d, want 8", f.products.products[product.ID].Stock)
	}
	if _, err := f.drafts.Get(context.Background(), "op_1", quote.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Error("promoted draft should be removed")
	}
}

func TestQuoteService_SaveQuote(t *testing.T) {
	customers := newMockCustomerRepo()
	products := newMockProductRepo()
	drafts := newMockDraftStore()
	svc := NewQuoteService(drafts, customers, products)

	customer := &models.Customer{ID: "c1", Name: "Almacén Sur", List: models.PriceListRetail, Debt: -200}
	customers.customers[customer.ID] = customer
	product := &models.Product{ID: "p1", Name: "Yerba 1kg", RetailPrice: 4000, WholesalePrice: 3500}
	products.products[product.ID] = product

	quote, err := svc.SaveQuote(context.Background(), "op_1", &models.SaveQuoteRequest{
		CustomerID: customer.ID,
		Items:      []models.CreateOrderItem{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("SaveQuote() error = %v", err)
	}

	if quote.Subtotal != 8000 {
		t.Errorf("subtotal = %v, want 8000", quote.Subtotal)
	}
	// Stored credit reduces the total.
	if quote.Total != 7800 {
		t.Errorf("total = %v, want 7800", quote.Total)
	}
	if quote.Items[0].UnitPrice != 4000 {
		t.Errorf("unit price = %v, want retail 4000", quote.Items[0].UnitPrice)
	}
}

func TestSalesService_Summarize(t *testing.T) {
	rows := []*models.SaleRow{
		{Sale: models.Sale{Total: 1000, CashAmount: 800}, Outstanding: 200},
		{Sale: models.Sale{Total: 2000, CashAmount: 1000, TransferAmount: 1030}, Outstanding: 0},
		{Sale: models.Sale{Total: 500, CashAmount: 700}, Outstanding: -200},
	}

	summary := Summarize(rows)
	if summary.Count != 3 {
		t.Errorf("count = %d, want 3", summary.Count)
	}
	if summary.TotalSales != 3500 {
		t.Errorf("total sales = %v, want 3500", summary.TotalSales)
	}
	// Raw amounts, no fee normalization.
	if summary.TotalCollected != 3530 {
		t.Errorf("total collected = %v, want 3530", summary.TotalCollected)
	}
	// Plain sales minus collected on raw amounts, no per-row normalization.
	if summary.TotalDebt != -30 {
		t.Errorf("total debt = %v, want -30", summary.TotalDebt)
	}
}

func TestSalesService_SummarizeOverpaidPeriod(t *testing.T) {
	rows := []*models.SaleRow{
		{Sale: models.Sale{Total: 500, CashAmount: 700}, Outstanding: -200},
	}

	summary := Summarize(rows)
	if summary.TotalDebt != -200 {
		t.Errorf("total debt = %v, want -200", summary.TotalDebt)
	}
}

func TestSalesService_FilterDefaultsToToday(t *testing.T) {
	filter := normalizeSalesFilter(&models.SalesFilter{})

	now := time.Now()
	if filter.From.Day() != now.Day() || filter.From.Hour() != 0 {
		t.Errorf("from = %v, want start of today", filter.From)
	}
	if filter.To.Day() != now.Day() || filter.To.Hour() != 23 {
		t.Errorf("to = %v, want end of today", filter.To)
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("reparto123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	operators := &mockOperatorRepo{
		operator: &models.Operator{ID: "op_1", Email: "admin@reparto.test", Role: models.RoleAdmin},
		hash:     hash,
	}
	svc := NewAuthService(operators, auth.NewJWTManager("test-secret", time.Hour))

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@reparto.test",
		Password: "reparto123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("expected non-empty token")
	}
	if resp.Operator.ID != "op_1" {
		t.Errorf("operator ID = %s, want op_1", resp.Operator.ID)
	}

	if _, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@reparto.test",
		Password: "wrong",
	}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@reparto.test",
		Password: "reparto123",
	}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("unknown email should map to ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	operators := &mockOperatorRepo{}
	svc := NewAuthService(operators, auth.NewJWTManager("test-secret", time.Hour))

	operator, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Nuevo Operador",
		Email:    "nuevo@reparto.test",
		Password: "reparto123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if operator.ID == "" {
		t.Error("expected generated operator ID")
	}
	if operator.Role != models.RoleUser {
		t.Errorf("role = %s, want %s", operator.Role, models.RoleUser)
	}
	if !operator.Active {
		t.Error("new operator should be active")
	}

	// The stored hash must verify the original password.
	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nuevo@reparto.test",
		Password: "reparto123",
	})
	if err != nil {
		t.Fatalf("Login() after register error = %v", err)
	}
	if resp.Operator.ID != operator.ID {
		t.Errorf("login returned operator %s, want %s", resp.Operator.ID, operator.ID)
	}

	if _, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Duplicado",
		Email:    "nuevo@reparto.test",
		Password: "reparto456",
	}); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Errorf("duplicate email should map to ErrAlreadyExists, got %v", err)
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       models.RegisterRequest
		wantField string
	}{
		{"missing name", models.RegisterRequest{Email: "a@b.test", Password: "secret1"}, "name"},
		{"missing email", models.RegisterRequest{Name: "x", Password: "secret1"}, "email"},
		{"short password", models.RegisterRequest{Name: "x", Email: "a@b.test", Password: "12345"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegisterRequest(&tt.req)
			var validationErr *errs.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("field = %s, want %s", validationErr.Field, tt.wantField)
			}
		})
	}

	if err := ValidateRegisterRequest(&models.RegisterRequest{
		Name: "x", Email: "a@b.test", Password: "secret1",
	}); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

func TestValidateUpsertProductRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       models.UpsertProductRequest
		wantField string
	}{
		{"missing name", models.UpsertProductRequest{RetailPrice: 10, WholesalePrice: 8}, "name"},
		{"zero retail price", models.UpsertProductRequest{Name: "x", WholesalePrice: 8}, "retail_price"},
		{"zero wholesale price", models.UpsertProductRequest{Name: "x", RetailPrice: 10}, "wholesale_price"},
		{"valid", models.UpsertProductRequest{Name: "x", RetailPrice: 10, WholesalePrice: 8}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpsertProductRequest(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			var vErr *errs.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("field = %s, want %s", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateDeliverOrderRequest(t *testing.T) {
	if err := ValidateDeliverOrderRequest(&models.DeliverOrderRequest{}); err != nil {
		t.Errorf("zero amounts are valid at this layer, got %v", err)
	}

	var vErr *errs.ValidationError
	if err := ValidateDeliverOrderRequest(&models.DeliverOrderRequest{CashAmount: -1}); !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError for negative cash, got %v", err)
	}
	if err := ValidateDeliverOrderRequest(&models.DeliverOrderRequest{TransferAmount: -1}); !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError for negative transfer, got %v", err)
	}
}

func TestCustomerService_CacheInvalidation(t *testing.T) {
	customers := newMockCustomerRepo()
	cache := newMockCache()
	cfg := &config.Config{Features: config.FeatureFlags{EnableCaching: true}}
	svc := NewCustomerService(customers, cache, cfg)

	created, err := svc.CreateCustomer(context.Background(), &models.UpsertCustomerRequest{
		Name: "Kiosco Centro",
		List: models.PriceListRetail,
	})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	// First read populates the cache.
	if _, err := svc.GetCustomer(context.Background(), created.ID); err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if cache.entries[created.ID] == nil {
		t.Fatal("expected cache to be populated")
	}

	// An update drops the entry.
	if _, err := svc.UpdateCustomer(context.Background(), created.ID, &models.UpsertCustomerRequest{
		Name: "Kiosco Centro Renovado",
		List: models.PriceListRetail,
	}); err != nil {
		t.Fatalf("UpdateCustomer() error = %v", err)
	}
	if cache.entries[created.ID] != nil {
		t.Error("expected cache entry to be invalidated")
	}
}
