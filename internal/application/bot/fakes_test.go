package bot_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bot/internal/application/bot"
	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/domain"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/pkg/logger"
	"github.com/jhoicas/inventario-bot/pkg/metrics"
)

const (
	testBranch  = "TPE01"
	testUser    = "U-user"
	testManager = "U-manager"
	testGroup   = "G-tienda"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

// ── usuarios ─────────────────────────────────────────────────────────────────

type fakeUsers struct {
	users   map[string]*entity.User
	groups  map[string]string
	backing map[string]uuid.UUID
	created []*entity.User
	panicOn string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users: map[string]*entity.User{
			testUser:    {UserID: testUser, Role: entity.RoleUser, Branch: testBranch},
			testManager: {UserID: testManager, Role: entity.RoleManager, Branch: testBranch},
		},
		groups: map[string]string{testGroup: testBranch},
		backing: map[string]uuid.UUID{
			testUser:    uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			testManager: uuid.MustParse("00000000-0000-0000-0000-000000000002"),
		},
	}
}

func (f *fakeUsers) GetByID(_ context.Context, userID string) (*entity.User, error) {
	if f.panicOn != "" && userID == f.panicOn {
		panic("falla inesperada en repositorio")
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	cp := *u
	f.users[u.UserID] = &cp
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeUsers) GetGroupBranch(_ context.Context, id string) (string, error) {
	return f.groups[id], nil
}

func (f *fakeUsers) GetBackingUserID(_ context.Context, userID string) (uuid.UUID, error) {
	id, ok := f.backing[userID]
	if !ok {
		return uuid.Nil, domain.ErrIdentityNotMapped
	}
	return id, nil
}

// ── catálogo ─────────────────────────────────────────────────────────────────

type fakeProducts struct {
	list         []*entity.Product
	searchLimits []int
}

func (f *fakeProducts) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range f.list {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) GetByBarcode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range f.list {
		if p.Barcode == code {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) SearchByName(_ context.Context, kw string, limit int) ([]*entity.Product, error) {
	f.searchLimits = append(f.searchLimits, limit)
	return f.search(func(p *entity.Product) string { return p.Name }, kw, limit), nil
}

func (f *fakeProducts) SearchBySKU(_ context.Context, code string, limit int) ([]*entity.Product, error) {
	f.searchLimits = append(f.searchLimits, limit)
	return f.search(func(p *entity.Product) string { return p.SKU }, code, limit), nil
}

func (f *fakeProducts) search(field func(*entity.Product) string, kw string, limit int) []*entity.Product {
	var out []*entity.Product
	for _, p := range f.list {
		if strings.Contains(strings.ToLower(field(p)), strings.ToLower(kw)) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// ── stock y procedimientos remotos ───────────────────────────────────────────

type fakeStock struct {
	levels       map[string]entity.StockLevel
	inStockCalls int
}

func stockKey(branch, sku string) string { return branch + "|" + sku }

func (f *fakeStock) Get(_ context.Context, branch, sku string) (entity.StockLevel, error) {
	return f.levels[stockKey(branch, sku)], nil
}

func (f *fakeStock) InStockSKUs(_ context.Context, branch string) (map[string]struct{}, error) {
	f.inStockCalls++
	set := map[string]struct{}{}
	for k, v := range f.levels {
		parts := strings.SplitN(k, "|", 2)
		if parts[0] == branch && !v.IsEmpty() {
			set[parts[1]] = struct{}{}
		}
	}
	return set, nil
}

type fakeMutations struct {
	stock       *fakeStock
	consumeErr  map[string]error // por unidad de medida
	adjustErr   error
	echoAdjust  bool
	consumed    []entity.LotConsumption
	adjustments []entity.StockAdjustment
}

func (f *fakeMutations) Adjust(_ context.Context, in entity.StockAdjustment) (*entity.StockLevel, error) {
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	f.adjustments = append(f.adjustments, in)
	k := stockKey(in.Branch, in.SKU)
	lvl := f.stock.levels[k]
	lvl.Box += in.DeltaBox
	lvl.Piece += in.DeltaPiece
	f.stock.levels[k] = lvl
	if f.echoAdjust {
		return &lvl, nil
	}
	return nil, nil
}

func (f *fakeMutations) ConsumeLots(_ context.Context, in entity.LotConsumption) (entity.ConsumptionResult, error) {
	if err := f.consumeErr[in.UOM]; err != nil {
		return entity.ConsumptionResult{}, err
	}
	f.consumed = append(f.consumed, in)
	k := stockKey(in.Branch, in.SKU)
	lvl := f.stock.levels[k]
	if in.UOM == entity.UOMBox {
		lvl.Box -= in.Quantity
	} else {
		lvl.Piece -= in.Quantity
	}
	f.stock.levels[k] = lvl
	return entity.ConsumptionResult{Consumed: in.Quantity, Cost: decimal.NewFromInt(int64(in.Quantity) * 10)}, nil
}

type fakeWarehouses struct {
	totals []entity.WarehouseStock
}

func (f *fakeWarehouses) ListLotTotals(_ context.Context, _, _ string) ([]entity.WarehouseStock, error) {
	out := append([]entity.WarehouseStock(nil), f.totals...)
	sort.Slice(out, func(i, j int) bool { return out[i].Warehouse < out[j].Warehouse })
	return out, nil
}

// ── última selección ─────────────────────────────────────────────────────────

type fakeSelections struct {
	last    map[string]string
	upserts []string
}

func (f *fakeSelections) Upsert(_ context.Context, userID, branch, sku string) error {
	f.last[userID+"|"+branch] = sku
	f.upserts = append(f.upserts, sku)
	return nil
}

func (f *fakeSelections) GetLast(_ context.Context, userID, branch string) (string, bool, error) {
	sku, ok := f.last[userID+"|"+branch]
	return sku, ok, nil
}

// ── salida ───────────────────────────────────────────────────────────────────

type sentReply struct {
	token string
	reply dto.Reply
}

type fakeSender struct {
	sent []sentReply
	err  error
}

func (f *fakeSender) Reply(_ context.Context, token string, r dto.Reply) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentReply{token: token, reply: r})
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	payloads []dto.StockEventPayload
}

func (f *fakeNotifier) Notify(_ context.Context, p dto.StockEventPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
}

// ── armado ───────────────────────────────────────────────────────────────────

type harness struct {
	uc         *bot.BotUseCase
	users      *fakeUsers
	products   *fakeProducts
	stock      *fakeStock
	mutations  *fakeMutations
	warehouses *fakeWarehouses
	selections *fakeSelections
	sender     *fakeSender
	notifier   *fakeNotifier
}

var (
	cola = &entity.Product{SKU: "AG030", Name: "可樂 330ml", Barcode: "4710018000014", UnitsPerBox: 24, UnitPrice: decimal.RequireFromString("12.5")}
	tea  = &entity.Product{SKU: "AG031", Name: "綠茶 600ml", Barcode: "4710018000021", UnitsPerBox: 12, UnitPrice: decimal.RequireFromString("20")}
	soda = &entity.Product{SKU: "AG032", Name: "可樂 600ml", Barcode: "4710018000038", UnitsPerBox: 12, UnitPrice: decimal.RequireFromString("25")}
)

func newHarness() *harness {
	return newHarnessWith(nil, nil)
}

func newHarnessWith(m *metrics.BotMetrics, log *logger.Logger) *harness {
	stock := &fakeStock{levels: map[string]entity.StockLevel{
		stockKey(testBranch, cola.SKU): {Box: 5, Piece: 3},
		stockKey(testBranch, tea.SKU):  {Box: 2, Piece: 0},
	}}
	h := &harness{
		users:      newFakeUsers(),
		products:   &fakeProducts{list: []*entity.Product{cola, tea, soda}},
		stock:      stock,
		mutations:  &fakeMutations{stock: stock, consumeErr: map[string]error{}},
		warehouses: &fakeWarehouses{},
		selections: &fakeSelections{last: map[string]string{}},
		sender:     &fakeSender{},
		notifier:   &fakeNotifier{},
	}
	h.uc = bot.NewBotUseCase(bot.Deps{
		Users:      h.users,
		Products:   h.products,
		Stock:      h.stock,
		Mutations:  h.mutations,
		Warehouses: h.warehouses,
		Selections: h.selections,
		Sender:     h.sender,
		Notifier:   h.notifier,
		Metrics:    m,
		Log:        log,
		SourceTag:  "line_bot",
		Now:        func() time.Time { return testNow },
	})
	return h
}

func userEvent(userID, text string) dto.InboundEvent {
	return dto.InboundEvent{
		EventID:    "ev-" + text,
		ReplyToken: "rt-" + userID,
		IsText:     true,
		Text:       text,
		Identity:   entity.Identity{UserID: userID, SourceType: entity.SourceUser},
	}
}

func groupEvent(userID, groupID, text string) dto.InboundEvent {
	return dto.InboundEvent{
		EventID:    "ev-" + text,
		ReplyToken: "rt-" + groupID,
		IsText:     true,
		Text:       text,
		Identity:   entity.Identity{UserID: userID, SourceType: entity.SourceGroup, GroupOrRoomID: groupID},
	}
}

func resolutionFor(role string, userID string) bot.Resolution {
	return bot.Resolution{
		Identity: entity.Identity{UserID: userID, SourceType: entity.SourceUser},
		Branch:   testBranch,
		Role:     role,
	}
}

var errRPC = errors.New("lot shortage for piece")
