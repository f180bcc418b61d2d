package service

import (
	"context"

	"github.com/deppfellow/inventario/internal/errs"
	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/validation"
	"github.com/spf13/cast"
)

// Store is the persistence contract a CRUD service runs against.
// repository.Repository implements it on Postgres.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, payload validation.Payload) (any, error)
	Update(ctx context.Context, id string, columns []string, payload validation.Payload) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// CreatedHook runs after a successful insert. It must not fail the request.
type CreatedHook func(ctx context.Context, id any, payload validation.Payload)

// CRUD implements validated create/read/update/delete for one resource.
//
// Domain failures (missing fields, duplicate id, unknown id) come back as
// *errs.HTTPError. Store failures are returned wrapped and left for the
// caller to log and convert.
type CRUD[T any] struct {
	store       Store[T]
	resource    model.Resource
	afterCreate []CreatedHook
}

// NewCRUD builds the service for resource over store.
func NewCRUD[T any](store Store[T], resource model.Resource) *CRUD[T] {
	return &CRUD[T]{store: store, resource: resource}
}

// OnCreated registers a hook that runs after every successful Create.
func (s *CRUD[T]) OnCreated(hook CreatedHook) {
	s.afterCreate = append(s.afterCreate, hook)
}

// Resource returns the policy the service was built with.
func (s *CRUD[T]) Resource() model.Resource {
	return s.resource
}

func (s *CRUD[T]) List(ctx context.Context) ([]T, error) {
	return s.store.List(ctx)
}

func (s *CRUD[T]) Get(ctx context.Context, id string) (T, error) {
	record, found, err := s.store.Get(ctx, id)
	if err != nil {
		return record, err
	}
	if !found {
		return record, s.notFound()
	}
	return record, nil
}

// Create validates payload (required fields present, every value a
// scalar), rejects a taken client-supplied identifier when the resource
// checks duplicates, and inserts. It returns the identifier.
//
// The existence read and the insert are not atomic; a concurrent create
// that wins the race surfaces as a unique violation from the store.
func (s *CRUD[T]) Create(ctx context.Context, payload validation.Payload) (any, error) {
	if missing := validation.MissingFields(s.resource.CreateRequired, payload); missing != nil {
		return nil, errs.NewMissingFieldsError(missing)
	}
	if invalid := validation.InvalidFields(s.resource.InsertColumns(), payload); invalid != nil {
		return nil, errs.NewInvalidFieldsError(invalid)
	}

	if s.resource.ClientID && s.resource.CheckDuplicate {
		id, err := cast.ToStringE(payload[s.resource.IDColumn])
		if err != nil {
			return nil, errs.NewInvalidFieldsError([]string{s.resource.IDColumn})
		}
		exists, err := s.store.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			code := s.resource.ErrorCode("ALREADY_EXISTS")
			return nil, errs.NewConflictError(s.resource.Noun.AlreadyExists(), true, &code)
		}
	}

	id, err := s.store.Insert(ctx, payload)
	if err != nil {
		return nil, err
	}

	for _, hook := range s.afterCreate {
		hook(ctx, id, payload)
	}
	return id, nil
}

// Update validates payload against the update set and writes every update
// column. There is no read first: zero matched rows means not found.
func (s *CRUD[T]) Update(ctx context.Context, id string, payload validation.Payload) error {
	return s.Patch(ctx, id, s.resource.UpdateRequired, s.resource.UpdateColumns, payload)
}

// Patch is Update restricted to columns, each checked against required.
func (s *CRUD[T]) Patch(ctx context.Context, id string, required, columns []string, payload validation.Payload) error {
	if missing := validation.MissingFields(required, payload); missing != nil {
		return errs.NewMissingFieldsError(missing)
	}
	if invalid := validation.InvalidFields(columns, payload); invalid != nil {
		return errs.NewInvalidFieldsError(invalid)
	}

	affected, err := s.store.Update(ctx, id, columns, payload)
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.notFound()
	}
	return nil
}

func (s *CRUD[T]) Delete(ctx context.Context, id string) error {
	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.notFound()
	}
	return nil
}

func (s *CRUD[T]) notFound() error {
	code := s.resource.ErrorCode("NOT_FOUND")
	return errs.NewNotFoundError(s.resource.Noun.NotFound(), true, &code)
}
