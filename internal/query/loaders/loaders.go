package loaders

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// maxParallel caps concurrent detail fetches per batch; the backend has no
// bulk lookup endpoint.
const maxParallel = 8

// PatientSource and DoctorSource are satisfied by the cached query facades
type PatientSource interface {
	Get(ctx context.Context, id int64) (*entities.PatientDetail, error)
}

type DoctorSource interface {
	Get(ctx context.Context, id int64) (*entities.DoctorDetail, error)
}

// Loaders contains the dataloaders used to resolve names in listings
type Loaders struct {
	PatientLoader *dataloader.Loader[int64, *entities.PatientDetail]
	DoctorLoader  *dataloader.Loader[int64, *entities.DoctorDetail]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(patients PatientSource, doctors DoctorSource) *Loaders {
	return &Loaders{
		PatientLoader: dataloader.NewBatchedLoader(batch(patients.Get)),
		DoctorLoader:  dataloader.NewBatchedLoader(batch(doctors.Get)),
	}
}

// batch fans a batch of ids out to get. Each key succeeds or fails on its own.
func batch[V any](get func(context.Context, int64) (V, error)) dataloader.BatchFunc[int64, V] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[V] {
		results := make([]*dataloader.Result[V], len(keys))

		var g errgroup.Group
		g.SetLimit(maxParallel)
		for i, key := range keys {
			g.Go(func() error {
				v, err := get(ctx, key)
				results[i] = &dataloader.Result[V]{Data: v, Error: err}
				return nil
			})
		}
		_ = g.Wait()
		return results
	}
}

// ResolveNames fills missing patient and doctor summaries on appointments.
// Lookups that fail leave the summary empty.
func (l *Loaders) ResolveNames(ctx context.Context, appointments []*entities.Appointment) {
	patientThunks := make([]dataloader.Thunk[*entities.PatientDetail], len(appointments))
	doctorThunks := make([]dataloader.Thunk[*entities.DoctorDetail], len(appointments))

	for i, a := range appointments {
		if a.Patient == nil && a.PatientID != 0 {
			patientThunks[i] = l.PatientLoader.Load(ctx, a.PatientID)
		}
		if a.Doctor == nil && a.DoctorID != 0 {
			doctorThunks[i] = l.DoctorLoader.Load(ctx, a.DoctorID)
		}
	}

	for i, a := range appointments {
		if thunk := patientThunks[i]; thunk != nil {
			if p, err := thunk(); err == nil && p != nil {
				a.Patient = &entities.PatientSummary{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
			}
		}
		if thunk := doctorThunks[i]; thunk != nil {
			if d, err := thunk(); err == nil && d != nil {
				a.Doctor = &entities.DoctorSummary{ID: d.ID, Name: d.Name, Specialization: d.Specialization}
			}
		}
	}
}

// For returns the loaders for a given context, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}
