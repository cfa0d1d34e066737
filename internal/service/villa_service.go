// Package service holds the villa resource rules: validation order,
// identity checks, uniqueness of nombre and replace-write semantics.  It
// knows nothing about HTTP; handlers translate *Error kinds to statuses.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/magic-villa-api/internal/dto"
	"github.com/iliyamo/magic-villa-api/internal/logger"
	"github.com/iliyamo/magic-villa-api/internal/model"
	"github.com/iliyamo/magic-villa-api/internal/queue"
	"github.com/iliyamo/magic-villa-api/internal/repository"
)

// VillaStore is the persistence collaborator.  *repository.VillaRepo
// implements it against MySQL.
type VillaStore interface {
	List(ctx context.Context) ([]model.Villa, error)
	GetByID(ctx context.Context, id int64) (*model.Villa, error)
	NombreExists(ctx context.Context, nombre string, excludeID int64) (bool, error)
	Create(ctx context.Context, v *model.Villa) error
	Update(ctx context.Context, v *model.Villa) error
	Delete(ctx context.Context, id int64) error
}

// EventPublisher receives a notification after every successful write.
type EventPublisher interface {
	PublishVillaChanged(ctx context.Context, ev queue.VillaChangedEvent) error
}

// VillaService implements list, get, create, update, partial update and
// delete for villas.
type VillaService struct {
	store  VillaStore
	events EventPublisher
	now    func() time.Time
}

// NewVillaService panics on a nil store.  events may be nil when change
// notifications are disabled.
func NewVillaService(store VillaStore, events EventPublisher) *VillaService {
	if store == nil {
		panic("nil store passed to NewVillaService")
	}
	return &VillaService{store: store, events: events, now: func() time.Time { return time.Now().UTC() }}
}

// List returns every villa ordered by id.  The slice is empty, not nil,
// when there are none.
func (s *VillaService) List(ctx context.Context) ([]dto.VillaResponse, error) {
	logger.FromContext(ctx).Info("listing villas")
	villas, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewVillaResponses(villas), nil
}

// Get returns the villa with the given id.
func (s *VillaService) Get(ctx context.Context, id int64) (dto.VillaResponse, error) {
	log := logger.FromContext(ctx).With(zap.Int64("villa_id", id))
	log.Info("getting villa")
	if id == 0 {
		log.Error("invalid villa id")
		return dto.VillaResponse{}, invalidArgument("invalid id")
	}
	v, err := s.find(ctx, log, id)
	if err != nil {
		return dto.VillaResponse{}, err
	}
	return dto.NewVillaResponse(*v), nil
}

// Create validates in, checks that no villa already uses its nombre and
// inserts a new row.  The nombre check and the insert are separate
// statements, so two concurrent creates with the same nombre can both
// succeed.
func (s *VillaService) Create(ctx context.Context, in dto.VillaCreate) (dto.VillaResponse, error) {
	log := logger.FromContext(ctx).With(zap.String("nombre", in.Nombre))
	log.Info("creating villa")

	if verr := validateShape(in); verr != nil {
		log.Error("villa validation failed", zap.Error(verr))
		return dto.VillaResponse{}, verr
	}
	taken, err := s.store.NombreExists(ctx, in.Nombre, 0)
	if err != nil {
		return dto.VillaResponse{}, err
	}
	if taken {
		log.Error("villa nombre already exists")
		return dto.VillaResponse{}, nombreTaken()
	}
	if in.ID != 0 {
		log.Error("client supplied a villa id on create", zap.Int64("villa_id", in.ID))
		return dto.VillaResponse{}, internal("id must not be set when creating a villa")
	}

	v := in.ToVilla()
	if err := s.store.Create(ctx, &v); err != nil {
		return dto.VillaResponse{}, err
	}
	s.publish(ctx, log, queue.EventVillaCreated, v)
	return dto.NewVillaResponse(v), nil
}

// Delete permanently removes a villa.
func (s *VillaService) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).With(zap.Int64("villa_id", id))
	log.Info("deleting villa")
	if id == 0 {
		log.Error("invalid villa id")
		return invalidArgument("invalid id")
	}
	v, err := s.find(ctx, log, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVillaNotFound) {
			log.Error("villa not found")
			return notFound("villa not found")
		}
		return err
	}
	s.publish(ctx, log, queue.EventVillaDeleted, *v)
	return nil
}

// Update replaces every mutable field of villa id with in.  A zero body id
// takes the path id; a different non-zero body id is rejected.  Fields
// omitted from in overwrite the stored values.
func (s *VillaService) Update(ctx context.Context, id int64, in dto.VillaUpdate) error {
	log := logger.FromContext(ctx).With(zap.Int64("villa_id", id))
	log.Info("updating villa")
	if id == 0 {
		log.Error("invalid villa id")
		return invalidArgument("invalid id")
	}
	if in.ID == 0 {
		in.ID = id
	}
	if in.ID != id {
		log.Error("villa id mismatch", zap.Int64("body_id", in.ID))
		return invalidArgument("body id does not match path id")
	}
	if verr := validateShape(in); verr != nil {
		log.Error("villa validation failed", zap.Error(verr))
		return verr
	}
	cur, err := s.find(ctx, log, id)
	if err != nil {
		return err
	}
	return s.replace(ctx, log, cur, in)
}

// PartialUpdate applies a JSON Patch to villa id.  The current row is read
// without locking, patched in memory, validated like a create and written
// back as a full replacement.
func (s *VillaService) PartialUpdate(ctx context.Context, id int64, ops []PatchOperation) error {
	log := logger.FromContext(ctx).With(zap.Int64("villa_id", id))
	log.Info("patching villa", zap.Int("operations", len(ops)))
	if ops == nil || id == 0 {
		log.Error("invalid villa id or missing patch document")
		return invalidArgument("invalid id or patch document")
	}
	cur, err := s.find(ctx, log, id)
	if err != nil {
		return err
	}

	patched, perr := applyPatch(dto.NewVillaUpdate(*cur), ops)
	if perr != nil {
		log.Error("villa patch failed", zap.Error(perr))
		return perr
	}
	if verr := validateShape(patched); verr != nil {
		log.Error("villa validation failed", zap.Error(verr))
		return verr
	}
	patched.ID = id
	return s.replace(ctx, log, cur, patched)
}

// replace checks nombre uniqueness against the other villas and writes in
// over cur.
func (s *VillaService) replace(ctx context.Context, log *zap.Logger, cur *model.Villa, in dto.VillaUpdate) error {
	taken, err := s.store.NombreExists(ctx, in.Nombre, cur.ID)
	if err != nil {
		return err
	}
	if taken {
		log.Error("villa nombre already exists", zap.String("nombre", in.Nombre))
		return nombreTaken()
	}

	next := *cur
	in.ApplyTo(&next)
	if err := s.store.Update(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrVillaNotFound) {
			log.Error("villa not found")
			return notFound("villa not found")
		}
		return err
	}
	s.publish(ctx, log, queue.EventVillaUpdated, next)
	return nil
}

func (s *VillaService) find(ctx context.Context, log *zap.Logger, id int64) (*model.Villa, error) {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVillaNotFound) {
			log.Error("villa not found")
			return nil, notFound("villa not found")
		}
		return nil, err
	}
	return v, nil
}

// publish never fails the request; a lost notification is only logged.
func (s *VillaService) publish(ctx context.Context, log *zap.Logger, kind string, v model.Villa) {
	if s.events == nil {
		return
	}
	ev := queue.NewVillaChangedEvent(kind, v.ID, v.Nombre, s.now())
	if err := s.events.PublishVillaChanged(ctx, ev); err != nil {
		log.Warn("publish villa event failed", zap.String("event", kind), zap.Error(err))
	}
}
