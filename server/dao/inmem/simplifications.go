package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/cfgcrunch/internal/util"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/google/uuid"
)

func NewSimplificationsRepository() *InMemorySimplificationsRepository {
	return &InMemorySimplificationsRepository{
		simps:        make(map[uuid.UUID]dao.Simplification),
		byOwnerIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

// InMemorySimplificationsRepository holds simplifications in memory. Stored
// values are copied on the way in and on the way out so that callers cannot
// modify the stored grammars.
type InMemorySimplificationsRepository struct {
	mtx          sync.RWMutex
	simps        map[uuid.UUID]dao.Simplification
	byOwnerIndex map[uuid.UUID][]uuid.UUID

	// order in which simplifications were created; used to give results
	// oldest-first even when two have the same Created time.
	order []uuid.UUID
}

func (imsr *InMemorySimplificationsRepository) Close() error {
	return nil
}

func (imsr *InMemorySimplificationsRepository) Create(ctx context.Context, s dao.Simplification) (dao.Simplification, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Simplification{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	s = copySimplification(s)
	s.ID = newUUID
	s.Created = time.Now()

	imsr.simps[s.ID] = s
	imsr.byOwnerIndex[s.Owner] = append(imsr.byOwnerIndex[s.Owner], s.ID)
	imsr.order = append(imsr.order, s.ID)

	return copySimplification(s), nil
}

func (imsr *InMemorySimplificationsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Simplification, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	s, ok := imsr.simps[id]
	if !ok {
		return dao.Simplification{}, dao.ErrNotFound
	}

	return copySimplification(s), nil
}

func (imsr *InMemorySimplificationsRepository) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Simplification, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	ids := imsr.byOwnerIndex[owner]
	all := make([]dao.Simplification, len(ids))
	for i := range ids {
		all[i] = copySimplification(imsr.simps[ids[i]])
	}

	return all, nil
}

func (imsr *InMemorySimplificationsRepository) GetAll(ctx context.Context) ([]dao.Simplification, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	all := make([]dao.Simplification, len(imsr.order))
	for i := range imsr.order {
		all[i] = copySimplification(imsr.simps[imsr.order[i]])
	}

	return all, nil
}

func (imsr *InMemorySimplificationsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Simplification, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	s, ok := imsr.simps[id]
	if !ok {
		return dao.Simplification{}, dao.ErrNotFound
	}

	byOwner := imsr.byOwnerIndex[s.Owner]
	if pos := util.IndexOf(id, byOwner); pos >= 0 {
		byOwner = append(byOwner[:pos], byOwner[pos+1:]...)
	}
	if len(byOwner) > 0 {
		imsr.byOwnerIndex[s.Owner] = byOwner
	} else {
		delete(imsr.byOwnerIndex, s.Owner)
	}

	if pos := util.IndexOf(id, imsr.order); pos >= 0 {
		imsr.order = append(imsr.order[:pos], imsr.order[pos+1:]...)
	}

	delete(imsr.simps, id)

	return s, nil
}

func copySimplification(s dao.Simplification) dao.Simplification {
	cp := s
	if s.Input != nil {
		cp.Input = make([]string, len(s.Input))
		copy(cp.Input, s.Input)
	}
	cp.Result = s.Result.Copy()
	return cp
}
