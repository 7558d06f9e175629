package loaders

import (
	"context"
	"net/http"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders batches related-entity lookups made while rendering one request
type Loaders struct {
	POILoader  *dataloader.Loader[string, *entities.POI]
	TourLoader *dataloader.Loader[string, *entities.Tour]
}

// NewLoaders creates a fresh set of loaders. Loaders cache per instance, so
// build one set per request.
func NewLoaders(poiRepo repositories.POIRepository, tourRepo repositories.TourRepository) *Loaders {
	return &Loaders{
		POILoader:  dataloader.NewBatchedLoader(batchByID(poiRepo.GetByIDs, func(p *entities.POI) string { return p.ID }, "poi")),
		TourLoader: dataloader.NewBatchedLoader(batchByID(tourRepo.GetByIDs, func(t *entities.Tour) string { return t.ID }, "tour")),
	}
}

// batchByID adapts a GetByIDs repository call to a batch function that
// returns one result per key in key order.
func batchByID[V any](
	fetch func(ctx context.Context, ids []string) ([]V, error),
	idOf func(V) string,
	kind string,
) dataloader.BatchFunc[string, V] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[V] {
		results := make([]*dataloader.Result[V], len(keys))
		items, err := fetch(ctx, keys)

		byID := make(map[string]V, len(items))
		if err == nil {
			for _, item := range items {
				byID[idOf(item)] = item
			}
		}

		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result[V]{Error: err}
			} else if item, ok := byID[key]; ok {
				results[i] = &dataloader.Result[V]{Data: item}
			} else {
				results[i] = &dataloader.Result[V]{Error: apperrors.NewNotFoundError(kind + " " + key + " not found")}
			}
		}
		return results
	}
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a copy of ctx carrying l
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// Middleware attaches a new set of loaders to every request
func Middleware(poiRepo repositories.POIRepository, tourRepo repositories.TourRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(poiRepo, tourRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadPOIs resolves ids through the POI loader, skipping ids that do not
// exist. Results keep the order of ids. Any other failure is returned.
func (l *Loaders) LoadPOIs(ctx context.Context, ids []string) ([]*entities.POI, error) {
	return loadAll(ctx, l.POILoader, ids)
}

// LoadTours resolves ids through the tour loader, skipping unknown ids
func (l *Loaders) LoadTours(ctx context.Context, ids []string) ([]*entities.Tour, error) {
	return loadAll(ctx, l.TourLoader, ids)
}

func loadAll[V any](ctx context.Context, loader *dataloader.Loader[string, V], ids []string) ([]V, error) {
	out := make([]V, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	values, errs := loader.LoadMany(ctx, ids)()
	for i, v := range values {
		if i < len(errs) && errs[i] != nil {
			if apperrors.IsType(errs[i], apperrors.ErrorTypeNotFound) {
				continue
			}
			return nil, errs[i]
		}
		out = append(out, v)
	}
	return out, nil
}
