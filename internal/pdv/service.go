// Package pdv holds the application state of the point of sale and the
// operations that keep it in sync with the record store.
package pdv

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

// SampleClientCount is how many clients the first run seeds.
const SampleClientCount = 10

type Options struct {
	// LowStockThreshold flags products with fewer units than this.
	LowStockThreshold int
	// Debounce delays the low-stock scan after the product list changes.
	// Zero runs the scan right away.
	Debounce time.Duration
	// Location decides calendar days for reports and sale filters.
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
	// Seed writes the sample catalog on the first Init.
	Seed bool
}

// Service owns the State and serializes every operation on it.
type Service struct {
	mu        sync.Mutex
	store     record.Store
	state     State
	threshold int
	loc       *time.Location
	now       func() time.Time
	log       *slog.Logger
	seed      bool
	scan      *notification.Debouncer
}

func NewService(store record.Store, opts Options) *Service {
	s := &Service{
		store:     store,
		state:     InitialState(),
		threshold: opts.LowStockThreshold,
		loc:       opts.Location,
		now:       opts.Now,
		log:       opts.Logger,
		seed:      opts.Seed,
	}

	if s.threshold <= 0 {
		s.threshold = notification.DefaultLowStockThreshold
	}

	if s.loc == nil {
		s.loc = time.Local
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.log == nil {
		s.log = slog.Default()
	}

	if opts.Debounce > 0 {
		s.scan = notification.NewDebouncer(opts.Debounce, func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			s.scanLowStock()
		})
	}

	return s
}

// Close cancels a pending low-stock scan. The store is closed by its owner.
func (s *Service) Close() {
	if s.scan != nil {
		s.scan.Stop()
	}
}

// Init prepares the store, loads every collection and writes the sample data
// once when seeding is enabled.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(SetLoading{Loading: true})
	defer s.apply(SetLoading{Loading: false})

	if err := s.store.Init(ctx); err != nil {
		s.log.Error("failed to init store", "error", err)
		return storageFailure(MsgInit, err)
	}

	if err := s.loadAll(ctx); err != nil {
		s.log.Error("failed to load data", "error", err)
		return storageFailure(MsgInit, err)
	}

	if !s.seed || s.state.Settings.IsInitialized() {
		return nil
	}

	if err := s.seedSampleData(ctx); err != nil {
		s.log.Error("failed to seed sample data", "error", err)
		return storageFailure(MsgInit, err)
	}

	if err := s.loadAll(ctx); err != nil {
		s.log.Error("failed to load data", "error", err)
		return storageFailure(MsgInit, err)
	}

	s.log.Info("sample data initialized")

	return nil
}

func (s *Service) seedSampleData(ctx context.Context) error {
	defaults := settings.Defaults()

	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if err := s.putSetting(ctx, k, defaults[k]); err != nil {
			return err
		}
	}

	for _, p := range settings.SampleProducts() {
		if _, err := s.addRecord(ctx, record.Products, p); err != nil {
			return err
		}
	}

	for _, c := range settings.SampleClients(SampleClientCount) {
		if _, err := s.addRecord(ctx, record.Clients, c); err != nil {
			return err
		}
	}

	return s.putSetting(ctx, settings.Initialized, "true")
}

// LoadAll reloads every collection from the store.
func (s *Service) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadAll(ctx); err != nil {
		s.log.Error("failed to load data", "error", err)
		return storageFailure(MsgLoad, err)
	}

	return nil
}

func (s *Service) loadAll(ctx context.Context) error {
	var (
		products  []product.Product
		clients   []client.Client
		sales     []sale.Sale
		exchanges []exchange.Exchange
		entries   []record.Record
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		products, err = load(gctx, s.store, record.Products, func(p *product.Product) *int64 { return &p.ID })
		return err
	})
	g.Go(func() (err error) {
		clients, err = load(gctx, s.store, record.Clients, func(c *client.Client) *int64 { return &c.ID })
		return err
	})
	g.Go(func() (err error) {
		sales, err = load(gctx, s.store, record.Sales, func(sl *sale.Sale) *int64 { return &sl.ID })
		return err
	})
	g.Go(func() (err error) {
		exchanges, err = load(gctx, s.store, record.Exchanges, func(e *exchange.Exchange) *int64 { return &e.ID })
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.store.GetAll(gctx, record.Settings)
		if err != nil {
			return fmt.Errorf("getting %s: %w", record.Settings, err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.apply(SetProducts{Products: products})
	s.apply(SetClients{Clients: clients})
	s.apply(SetSales{Sales: sales})
	s.apply(SetExchanges{Exchanges: exchanges})
	s.apply(SetSettings{Settings: settings.Flatten(entries)})

	return nil
}

// load decodes a whole collection, taking each id from its record key.
func load[T any](ctx context.Context, store record.Store, c record.Collection, id func(*T) *int64) ([]T, error) {
	recs, err := store.GetAll(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", c, err)
	}

	out := make([]T, 0, len(recs))

	for _, r := range recs {
		v, err := record.Decode[T](r)
		if err != nil {
			return nil, err
		}

		key, err := parseKey(r.Key)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", c, err)
		}

		*id(&v) = key
		out = append(out, v)
	}

	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(*id(&a), *id(&b))
	})

	return out, nil
}

func parseKey(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record key %q: %w", key, err)
	}

	return id, nil
}

func formatKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *Service) addRecord(ctx context.Context, c record.Collection, v any) (int64, error) {
	data, err := record.Encode(v)
	if err != nil {
		return 0, err
	}

	key, err := s.store.Add(ctx, c, data)
	if err != nil {
		return 0, fmt.Errorf("adding to %s: %w", c, err)
	}

	return parseKey(key)
}

func (s *Service) putRecord(ctx context.Context, c record.Collection, id int64, v any) error {
	data, err := record.Encode(v)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, c, formatKey(id), data); err != nil {
		return fmt.Errorf("putting %s/%d: %w", c, id, err)
	}

	return nil
}

func (s *Service) deleteRecord(ctx context.Context, c record.Collection, id int64) error {
	if err := s.store.Delete(ctx, c, formatKey(id)); err != nil {
		return fmt.Errorf("deleting %s/%d: %w", c, id, err)
	}

	return nil
}

func (s *Service) putSetting(ctx context.Context, key, value string) error {
	data, err := settings.EntryData(key, value)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, record.Settings, key, data); err != nil {
		return fmt.Errorf("putting setting %s: %w", key, err)
	}

	return nil
}

// commit runs write and reloads everything once it succeeds. State is left
// untouched when write fails.
func (s *Service) commit(ctx context.Context, msg string, write func() error) error {
	if err := write(); err != nil {
		s.log.Error("failed to write", "operation", msg, "error", err)
		return storageFailure(msg, err)
	}

	if err := s.loadAll(ctx); err != nil {
		s.log.Error("failed to reload after write", "operation", msg, "error", err)
		return storageFailure(msg, err)
	}

	return nil
}

func (s *Service) apply(a Action) {
	s.state = Reduce(s.state, a)

	switch a := a.(type) {
	case SetProducts:
		s.scheduleScan()
	case SetLoading:
		if !a.Loading {
			s.scheduleScan()
		}
	}
}

// Snapshot returns a copy of the state for rendering.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Products = slices.Clone(st.Products)
	st.Clients = slices.Clone(st.Clients)
	st.Sales = slices.Clone(st.Sales)
	st.Exchanges = slices.Clone(st.Exchanges)
	st.Settings = st.Settings.Clone()
	st.Cart = slices.Clone(st.Cart)
	st.Notifications = slices.Clone(st.Notifications)

	return st
}

func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Loading
}

// Location is the zone calendar days are taken in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Settings.Clone()
}

// UpdateSettings writes one entry per key and reloads.
func (s *Service) UpdateSettings(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return s.commit(ctx, MsgSaveSettings, func() error {
		for _, k := range keys {
			if err := s.putSetting(ctx, k, values[k]); err != nil {
				return err
			}
		}

		return nil
	})
}
