package class

import (
	"context"
	"errors"
	"testing"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/repository"
)

type mockClassRepo struct {
	getByIDFn      func(ctx context.Context, id string) (*domain.Class, error)
	listFn         func(ctx context.Context, filter repository.ClassFilter) ([]domain.Class, error)
	createFn       func(ctx context.Context, class *domain.Class) (*domain.Class, error)
	updateStatusFn func(ctx context.Context, id, status string) (*domain.Class, error)
	adjustSeatsFn  func(ctx context.Context, id string, delta int) error
}

func (m *mockClassRepo) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrClassNotFound
}

func (m *mockClassRepo) List(ctx context.Context, filter repository.ClassFilter) ([]domain.Class, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *domain.Class) (*domain.Class, error) {
	if m.createFn != nil {
		return m.createFn(ctx, class)
	}
	return class, nil
}

func (m *mockClassRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Class, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil, domain.ErrClassNotFound
}

func (m *mockClassRepo) AdjustSeats(ctx context.Context, id string, delta int) error {
	if m.adjustSeatsFn != nil {
		return m.adjustSeatsFn(ctx, id, delta)
	}
	return nil
}

type mockClassCache struct {
	getFn        func(ctx context.Context) ([]domain.Class, error)
	setFn        func(ctx context.Context, classes []domain.Class) error
	invalidateFn func(ctx context.Context) error
}

func (m *mockClassCache) Get(ctx context.Context) ([]domain.Class, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, domain.ErrClassNotFound
}

func (m *mockClassCache) Set(ctx context.Context, classes []domain.Class) error {
	if m.setFn != nil {
		return m.setFn(ctx, classes)
	}
	return nil
}

func (m *mockClassCache) Invalidate(ctx context.Context) error {
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx)
	}
	return nil
}

func TestCreate_StartsPending(t *testing.T) {
	invalidated := false
	repo := &mockClassRepo{}
	cache := &mockClassCache{
		invalidateFn: func(_ context.Context) error {
			invalidated = true
			return nil
		},
	}
	uc := New(repo, cache, nil)

	created, err := uc.Create(context.Background(), &domain.Class{
		InstructorEmail: "i@x.com",
		Title:           "Portrait basics",
		Seats:           8,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != domain.ClassStatusPending {
		t.Errorf("status = %q, want %q", created.Status, domain.ClassStatusPending)
	}
	if created.ID == "" {
		t.Error("new class must get an id")
	}
	if !invalidated {
		t.Error("listing cache must be invalidated after create")
	}
}

func TestCreate_RejectsEmptyTitleAndSeats(t *testing.T) {
	uc := New(&mockClassRepo{}, nil, nil)

	if _, err := uc.Create(context.Background(), &domain.Class{Seats: 5}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("empty title: err = %v, want INVALID", err)
	}
	if _, err := uc.Create(context.Background(), &domain.Class{Title: "x"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("zero seats: err = %v, want INVALID", err)
	}
}

func TestListApproved_ServesFromCache(t *testing.T) {
	cached := []domain.Class{{ID: "c1", Title: "Cached"}}
	repo := &mockClassRepo{
		listFn: func(_ context.Context, _ repository.ClassFilter) ([]domain.Class, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		},
	}
	cache := &mockClassCache{
		getFn: func(_ context.Context) ([]domain.Class, error) {
			return cached, nil
		},
	}
	uc := New(repo, cache, nil)

	classes, err := uc.ListApproved(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(classes) != 1 || classes[0].ID != "c1" {
		t.Errorf("classes = %+v, want cached listing", classes)
	}
}

func TestListApproved_CacheMissFallsThrough(t *testing.T) {
	stored := []domain.Class{{ID: "c2", Title: "Stored", Status: domain.ClassStatusApproved}}
	var refreshed []domain.Class
	repo := &mockClassRepo{
		listFn: func(_ context.Context, filter repository.ClassFilter) ([]domain.Class, error) {
			if filter.Status != domain.ClassStatusApproved {
				t.Errorf("filter status = %q, want %q", filter.Status, domain.ClassStatusApproved)
			}
			return stored, nil
		},
	}
	cache := &mockClassCache{
		setFn: func(_ context.Context, classes []domain.Class) error {
			refreshed = classes
			return nil
		},
	}
	uc := New(repo, cache, nil)

	classes, err := uc.ListApproved(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(classes) != 1 || classes[0].ID != "c2" {
		t.Errorf("classes = %+v, want stored listing", classes)
	}
	if len(refreshed) != 1 {
		t.Error("cache must be refreshed after a miss")
	}
}

// The cache holds the default page only, so a request for another page size
// must not be answered with it.
func TestListApproved_NonDefaultLimitSkipsCache(t *testing.T) {
	cached := make([]domain.Class, 50)
	repo := &mockClassRepo{
		listFn: func(_ context.Context, filter repository.ClassFilter) ([]domain.Class, error) {
			if filter.Limit != 5 {
				t.Errorf("filter limit = %d, want 5", filter.Limit)
			}
			return []domain.Class{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}, {ID: "c4"}, {ID: "c5"}}, nil
		},
	}
	cache := &mockClassCache{
		getFn: func(_ context.Context) ([]domain.Class, error) {
			t.Fatal("cache must not serve a non-default page size")
			return cached, nil
		},
		setFn: func(_ context.Context, _ []domain.Class) error {
			t.Fatal("a non-default page must not overwrite the cached page")
			return nil
		},
	}
	uc := New(repo, cache, nil)

	classes, err := uc.ListApproved(context.Background(), 5, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(classes) != 5 {
		t.Errorf("got %d classes, want the 5 requested", len(classes))
	}
}

func TestListApproved_CacheFailureIsNotFatal(t *testing.T) {
	repo := &mockClassRepo{
		listFn: func(_ context.Context, _ repository.ClassFilter) ([]domain.Class, error) {
			return []domain.Class{{ID: "c3"}}, nil
		},
	}
	cache := &mockClassCache{
		getFn: func(_ context.Context) ([]domain.Class, error) {
			return nil, errors.New("redis down")
		},
		setFn: func(_ context.Context, _ []domain.Class) error {
			return errors.New("redis down")
		},
	}
	uc := New(repo, cache, nil)

	classes, err := uc.ListApproved(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(classes) != 1 {
		t.Errorf("classes = %+v, want storage listing despite cache failure", classes)
	}
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	uc := New(&mockClassRepo{}, nil, nil)
	if _, err := uc.SetStatus(context.Background(), "c1", "archived"); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("err = %v, want INVALID", err)
	}
}

func TestSetStatus_ApprovesAndInvalidates(t *testing.T) {
	invalidated := false
	repo := &mockClassRepo{
		updateStatusFn: func(_ context.Context, id, status string) (*domain.Class, error) {
			return &domain.Class{ID: id, Status: status}, nil
		},
	}
	cache := &mockClassCache{
		invalidateFn: func(_ context.Context) error {
			invalidated = true
			return nil
		},
	}
	uc := New(repo, cache, nil)

	updated, err := uc.SetStatus(context.Background(), "c1", domain.ClassStatusApproved)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if updated.Status != domain.ClassStatusApproved {
		t.Errorf("status = %q, want %q", updated.Status, domain.ClassStatusApproved)
	}
	if !invalidated {
		t.Error("listing cache must be invalidated after a status change")
	}
}
