// Package memory is a process-local implementation of every repository,
// used by tests and by the memory store driver for local demos.
package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// Store holds all records behind one mutex. A transaction keeps the mutex
// for its whole duration, which serializes writers the same way row locks
// do in Postgres, and restores a snapshot when it fails.
type Store struct {
	mu         sync.Mutex
	users      map[string]user.User
	employees  map[string]employee.Employee
	items      map[string]inventory.Item
	movements  []inventory.StockMovement
	sales      map[string]sale.Sale
	attendance map[string]attendance.Record
	sequences  map[string]int64
	settings   *system.Settings
}

func NewStore() *Store {
	s := &Store{}
	s.clear()
	return s
}

func (s *Store) clear() {
	s.users = make(map[string]user.User)
	s.employees = make(map[string]employee.Employee)
	s.items = make(map[string]inventory.Item)
	s.movements = nil
	s.sales = make(map[string]sale.Sale)
	s.attendance = make(map[string]attendance.Record)
	s.sequences = make(map[string]int64)
	s.settings = nil
}

type snapshot struct {
	users      map[string]user.User
	employees  map[string]employee.Employee
	items      map[string]inventory.Item
	movements  []inventory.StockMovement
	sales      map[string]sale.Sale
	attendance map[string]attendance.Record
	sequences  map[string]int64
	settings   *system.Settings
}

// Stored values are replaced, never mutated in place, so shallow copies of
// the maps are enough to roll back.
func (s *Store) snapshot() snapshot {
	return snapshot{
		users:      maps.Clone(s.users),
		employees:  maps.Clone(s.employees),
		items:      maps.Clone(s.items),
		movements:  slices.Clone(s.movements),
		sales:      maps.Clone(s.sales),
		attendance: maps.Clone(s.attendance),
		sequences:  maps.Clone(s.sequences),
		settings:   s.settings,
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.employees = snap.employees
	s.items = snap.items
	s.movements = snap.movements
	s.sales = snap.sales
	s.attendance = snap.attendance
	s.sequences = snap.sequences
	s.settings = snap.settings
}

type txKey struct{}

func (s *Store) inTransaction(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock acquires the store mutex unless ctx already runs inside one of this
// store's transactions.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTransaction(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction implements database.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTransaction(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Ping implements database.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Reset implements system.StoreResetter.
func (s *Store) Reset(ctx context.Context) error {
	unlock := s.lock(ctx)
	defer unlock()
	s.clear()
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// paginate returns the page of items selected by page and limit. A zero
// limit returns everything.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

// sortBy orders items by the comparison cmp (negative when a < b) in the
// requested direction, breaking ties by id for stable pages.
func sortBy[T any](items []T, desc bool, cmp func(a, b T) int, id func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := cmp(a, b)
		if c == 0 {
			c = strings.Compare(id(a), id(b))
		}
		if desc {
			return -c
		}
		return c
	})
}
