package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"travel-backoffice/internal/data/entity"
	"travel-backoffice/internal/data/repository"
	"travel-backoffice/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	packages  *fakePackageRepo
	bookings  *fakeBookingRepo
	cache     *memCache
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		packages:  &fakePackageRepo{items: map[uuid.UUID]entity.TravelPackage{}},
		bookings:  &fakeBookingRepo{items: map[uuid.UUID]entity.Booking{}},
		cache:     &memCache{items: map[string][]byte{}},
		publisher: &recordingPublisher{},
	}
	repo := &repository.Repository{Package: f.packages, Booking: f.bookings}
	f.svc = NewService(repo, f.cache, f.publisher, func() time.Time { return testNow }, zap.NewNop())
	return f
}

// seedPackage stores a published package with one departure on 2026-04-20.
func (f *fixture) seedPackage(stock int, mutate ...func(*entity.TravelPackage)) *entity.TravelPackage {
	pkg := entity.TravelPackage{
		Base:   entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		Status: entity.PackageStatusPublished,
		General: entity.GeneralInfo{
			Name:  "Istanbul Spring",
			Code:  "IST-26",
			Stock: stock,
		},
		Flights: entity.FlightInfo{
			Destination: "Istanbul",
			Legs:        []entity.FlightLeg{{FlightNumber: "TK1", DepartureDate: "2026-04-20"}},
		},
		Pricing: []entity.PricingEntry{
			{Label: "Adult double", Category: entity.PaxAdult, UnitPrice: 1000, Commission: 10},
			{Label: "Child", Category: entity.PaxChild, UnitPrice: 600, Commission: 6},
		},
	}
	for _, m := range mutate {
		m(&pkg)
	}
	f.packages.items[pkg.ID] = pkg
	return &pkg
}

func (f *fixture) seedBooking(pkgID uuid.UUID, pax int, mutate ...func(*entity.Booking)) *entity.Booking {
	b := entity.Booking{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		Reference:   "BKG-SEED",
		PackageID:   pkgID,
		BookingType: entity.BookingTypeConfirmed,
		Status:      entity.BookingStatusActive,
		PaxTotal:    pax,
	}
	for _, m := range mutate {
		m(&b)
	}
	f.bookings.put(b)
	return &b
}

// ==================== FAKES ====================

type fakePackageRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.TravelPackage
	reads int
}

func (r *fakePackageRepo) Create(_ context.Context, pkg *entity.TravelPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[pkg.ID] = *pkg
	return nil
}

func (r *fakePackageRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TravelPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	pkg, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &pkg, nil
}

func (r *fakePackageRepo) FindAll(_ context.Context, limit, offset int, status *string) ([]*entity.TravelPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.TravelPackage
	for _, pkg := range r.items {
		if status != nil && string(pkg.Status) != *status {
			continue
		}
		p := pkg
		out = append(out, &p)
	}
	return page(out, limit, offset), nil
}

func (r *fakePackageRepo) CountAll(_ context.Context, status *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, pkg := range r.items {
		if status == nil || string(pkg.Status) == *status {
			n++
		}
	}
	return n, nil
}

func (r *fakePackageRepo) Update(_ context.Context, pkg *entity.TravelPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[pkg.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[pkg.ID] = *pkg
	return nil
}

func (r *fakePackageRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeBookingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Booking
	order []uuid.UUID

	// afterRead and afterFindExpired simulate a concurrent writer landing
	// between a read and the write that follows it.
	afterRead        func(id uuid.UUID)
	afterFindExpired func()
}

func (r *fakeBookingRepo) put(b entity.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	r.items[b.ID] = b
}

func (r *fakeBookingRepo) list(keep func(entity.Booking) bool) []*entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, id := range r.order {
		b, ok := r.items[id]
		if !ok || !keep(b) {
			continue
		}
		out = append(out, &b)
	}
	return out
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.put(*booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	b, ok := r.items[id]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	if r.afterRead != nil {
		r.afterRead(id)
	}
	return &b, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, limit, offset int, packageID *uuid.UUID) ([]*entity.Booking, error) {
	out := r.list(func(b entity.Booking) bool { return packageID == nil || b.PackageID == *packageID })
	return page(out, limit, offset), nil
}

func (r *fakeBookingRepo) CountAll(_ context.Context, packageID *uuid.UUID) (int64, error) {
	out := r.list(func(b entity.Booking) bool { return packageID == nil || b.PackageID == *packageID })
	return int64(len(out)), nil
}

// Update mirrors the SQL guard: only active rows are written and status is
// left as stored.
func (r *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	stored, ok := r.items[booking.ID]
	r.mu.Unlock()
	if !ok || stored.Status != entity.BookingStatusActive {
		return repository.ErrStale
	}
	b := *booking
	b.Status = stored.Status
	r.put(b)
	return nil
}

// mutate edits a stored booking in place, as another request would.
func (r *fakeBookingRepo) mutate(id uuid.UUID, fn func(*entity.Booking)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.items[id]
	fn(&b)
	r.items[id] = b
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeBookingRepo) FindActiveByPackageID(_ context.Context, packageID uuid.UUID) ([]*entity.Booking, error) {
	return r.list(func(b entity.Booking) bool {
		return b.PackageID == packageID && b.Status == entity.BookingStatusActive
	}), nil
}

func (r *fakeBookingRepo) FindExpiredOptions(_ context.Context, before time.Time) ([]*entity.Booking, error) {
	out := r.list(func(b entity.Booking) bool { return expiredOption(b, before) })
	if r.afterFindExpired != nil {
		r.afterFindExpired()
	}
	return out, nil
}

func expiredOption(b entity.Booking, now time.Time) bool {
	today := now.UTC().Format(entity.DateLayout)
	return b.Status == entity.BookingStatusActive && b.IsOption() &&
		b.ReservedUntil != nil && *b.ReservedUntil < today
}

func (r *fakeBookingRepo) ReleaseOption(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok || !expiredOption(b, now) {
		return false, nil
	}
	b.Status = entity.BookingStatusReleased
	r.items[id] = b
	return true, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	raw, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) AddJSON(_ context.Context, key string, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return false, nil
	}
	c.items[key] = raw
	return true, nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *memCache) Close() error { return nil }

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []messaging.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]messaging.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
