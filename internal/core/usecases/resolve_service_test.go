package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/core/ports"
	"github.com/pejotu/archicad-georef/internal/core/usecases"
)

// --- Mock CRSSource ---

type mockSource struct {
	name     string
	lookupFn func(ctx context.Context, code int) (domain.CRSMetadata, error)
	calls    int
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Lookup(ctx context.Context, code int) (domain.CRSMetadata, error) {
	m.calls++
	if m.lookupFn != nil {
		return m.lookupFn(ctx, code)
	}
	return domain.CRSMetadata{}, nil
}

// --- Tests ---

func TestResolveService_MergePolicy(t *testing.T) {
	local := &mockSource{name: "local", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{CRSName: "local name", GeodeticDatum: "local datum"}, nil
	}}
	network := &mockSource{name: "network", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{CRSName: "network name", MapZone: "35"}, nil
	}}

	svc := usecases.NewResolveService([]ports.CRSSource{local, network}, nil)
	meta, err := svc.Resolve(context.Background(), 3067)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.CRSName != "local name" {
		t.Errorf("crs_name = %q, local value must not be overwritten", meta.CRSName)
	}
	if meta.MapZone != "35" {
		t.Errorf("map_zone = %q, empty field must be filled from network", meta.MapZone)
	}
	if meta.GeodeticDatum != "local datum" {
		t.Errorf("geodetic_datum = %q", meta.GeodeticDatum)
	}
}

func TestResolveService_NetworkNameWhenLocalEmpty(t *testing.T) {
	local := &mockSource{name: "local", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{}, errors.New("not in local registry")
	}}
	network := &mockSource{name: "network", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{CRSName: "network name"}, nil
	}}

	meta, err := usecases.NewResolveService([]ports.CRSSource{local, network}, nil).Resolve(context.Background(), 99999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.CRSName != "network name" {
		t.Errorf("crs_name = %q", meta.CRSName)
	}
}

func TestResolveService_LocalAloneSucceedsWhenNetworkDown(t *testing.T) {
	local := &mockSource{name: "local", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{CRSName: "ETRS89 / TM35FIN(E,N)"}, nil
	}}
	network := &mockSource{name: "network", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{}, errors.New("dial tcp: network unreachable")
	}}

	meta, err := usecases.NewResolveService([]ports.CRSSource{local, network}, nil).Resolve(context.Background(), 3067)
	if err != nil {
		t.Fatalf("network failure must be swallowed: %v", err)
	}
	if meta.CRSName != "ETRS89 / TM35FIN(E,N)" {
		t.Errorf("crs_name = %q", meta.CRSName)
	}
}

func TestResolveService_Unresolvable(t *testing.T) {
	empty := func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{}, nil
	}
	svc := usecases.NewResolveService([]ports.CRSSource{
		&mockSource{name: "local", lookupFn: empty},
		&mockSource{name: "network", lookupFn: empty},
	}, nil)

	_, err := svc.Resolve(context.Background(), 42)
	var resErr *domain.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resErr.Code != 42 {
		t.Errorf("code = %d", resErr.Code)
	}
	if !errors.Is(err, domain.ErrNotResolvable) {
		t.Error("ResolutionError should unwrap to ErrNotResolvable")
	}
}

func TestResolveService_SkipsNetworkWhenComplete(t *testing.T) {
	local := &mockSource{name: "local", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{CRSName: "WGS 84 / UTM zone 33N", MapZone: "33N"}, nil
	}}
	network := &mockSource{name: "network"}

	_, err := usecases.NewResolveService([]ports.CRSSource{local, network}, nil).Resolve(context.Background(), 32633)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if network.calls != 0 {
		t.Error("network source must not be queried when name and zone are already known")
	}
}

// --- Cache behavior ---

type mapCache struct {
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestResolveService_CachesResult(t *testing.T) {
	local := &mockSource{name: "local", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{CRSName: "cached name", MapZone: "6"}, nil
	}}
	cache := &mapCache{data: map[string][]byte{}}
	svc := usecases.NewResolveService([]ports.CRSSource{local}, cache)

	if _, err := svc.Resolve(context.Background(), 2193); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), 2193); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if local.calls != 1 {
		t.Errorf("source called %d times, want 1 (second hit served from cache)", local.calls)
	}
}

func TestResolveService_InvalidateForcesRequery(t *testing.T) {
	local := &mockSource{name: "local", lookupFn: func(ctx context.Context, code int) (domain.CRSMetadata, error) {
		return domain.CRSMetadata{CRSName: "cached name", MapZone: "6"}, nil
	}}
	cache := &mapCache{data: map[string][]byte{}}
	svc := usecases.NewResolveService([]ports.CRSSource{local}, cache)

	if _, err := svc.Resolve(context.Background(), 2193); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if err := svc.Invalidate(context.Background(), 2193); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), 2193); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if local.calls != 2 {
		t.Errorf("source called %d times, want 2 (cache entry was dropped)", local.calls)
	}
}

func TestResolveService_InvalidateWithoutCache(t *testing.T) {
	svc := usecases.NewResolveService(nil, nil)
	if err := svc.Invalidate(context.Background(), 3067); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
