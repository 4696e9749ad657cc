package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/adapters/cache"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// gatedAppointments blocks List until release is closed and counts calls
type gatedAppointments struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedAppointments) List(ctx context.Context, filter entities.AppointmentFilter) ([]*entities.Appointment, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	<-g.release
	return []*entities.Appointment{{ID: 1, DoctorID: filter.DoctorID}}, nil
}

func (g *gatedAppointments) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	return nil, errors.New("not used")
}

func (g *gatedAppointments) Create(ctx context.Context, req *entities.CreateAppointmentRequest) (*entities.Appointment, error) {
	return &entities.Appointment{ID: 2}, nil
}

func (g *gatedAppointments) Reschedule(ctx context.Context, id int64, scheduledAt time.Time) (*entities.Appointment, error) {
	return nil, errors.New("not used")
}

func (g *gatedAppointments) Cancel(ctx context.Context, id int64) (*entities.Appointment, error) {
	return nil, errors.New("not used")
}

func newGated() *gatedAppointments {
	return &gatedAppointments{started: make(chan struct{}), release: make(chan struct{})}
}

func newTestClient() *Client {
	return NewClient(cache.NewMemoryAdapter(256, time.Hour))
}

func TestFetch_CoalescesValueEqualFilters(t *testing.T) {
	repo := newGated()
	q := NewAppointmentQueries(newTestClient(), repo)
	ctx := context.Background()

	filters := []entities.AppointmentFilter{
		{DoctorID: 7, Status: entities.AppointmentStatusScheduled},
		{Status: entities.AppointmentStatusScheduled, DoctorID: 7},
	}

	var wg sync.WaitGroup
	results := make([][]*entities.Appointment, 10)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := q.List(ctx, filters[i%2])
			assert.NoError(t, err)
			results[i] = list
		}()
	}

	<-repo.started
	close(repo.release)
	wg.Wait()

	assert.Equal(t, int32(1), repo.calls.Load())
	for _, list := range results {
		require.Len(t, list, 1)
		assert.Equal(t, int64(7), list[0].DoctorID)
	}
	// Callers get independent copies.
	results[0][0].DoctorID = 99
	assert.Equal(t, int64(7), results[1][0].DoctorID)
}

func TestFetch_InvalidationDuringFlightIsNotCached(t *testing.T) {
	repo := newGated()
	c := newTestClient()
	q := NewAppointmentQueries(c, repo)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := q.List(ctx, entities.AppointmentFilter{})
		assert.NoError(t, err)
	}()

	<-repo.started
	_, err := q.Create(ctx, &entities.CreateAppointmentRequest{PatientID: 1, DoctorID: 1})
	require.NoError(t, err)
	close(repo.release)
	<-done

	_, cached := Cached[[]*entities.Appointment](ctx, c, ListKey(ResourceAppointments, entities.AppointmentFilter{}))
	assert.False(t, cached, "result fetched before the invalidation must not be cached")

	_, err = q.List(ctx, entities.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c := newTestClient()
	ctx := context.Background()
	key := DetailKey(ResourcePatients, 1)
	calls := 0

	fetch := func(ctx context.Context) (*entities.Patient, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return &entities.Patient{ID: 1, Name: "Ivy"}, nil
	}

	_, err := Fetch(ctx, c, key, fetch)
	require.Error(t, err)

	p, err := Fetch(ctx, c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "Ivy", p.Name)

	_, err = Fetch(ctx, c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidate_ListPrefixAndExactDetail(t *testing.T) {
	c := newTestClient()
	ctx := context.Background()

	require.NoError(t, Put(ctx, c, ListKey(ResourcePatients, entities.PatientFilter{Search: "a"}), 1))
	require.NoError(t, Put(ctx, c, ListKey(ResourcePatients, entities.PatientFilter{Search: "b"}), 2))
	require.NoError(t, Put(ctx, c, DetailKey(ResourcePatients, 1), 3))
	require.NoError(t, Put(ctx, c, DetailKey(ResourcePatients, 10), 4))
	require.NoError(t, Put(ctx, c, ListKey(ResourceDoctors, nil), 5))

	require.NoError(t, c.Invalidate(ctx, DetailKey(ResourcePatients, 1), ListKey(ResourcePatients, nil)))

	_, ok := Cached[int](ctx, c, ListKey(ResourcePatients, entities.PatientFilter{Search: "a"}))
	assert.False(t, ok)
	_, ok = Cached[int](ctx, c, ListKey(ResourcePatients, entities.PatientFilter{Search: "b"}))
	assert.False(t, ok)
	_, ok = Cached[int](ctx, c, DetailKey(ResourcePatients, 1))
	assert.False(t, ok)

	v, ok := Cached[int](ctx, c, DetailKey(ResourcePatients, 10))
	assert.True(t, ok, "detail key with a shared prefix survives")
	assert.Equal(t, 4, v)
	_, ok = Cached[int](ctx, c, ListKey(ResourceDoctors, nil))
	assert.True(t, ok, "other resources stay warm")
}
