package silo

// idAllocator issues entity ids and recycles destroyed ones. Freed
// ids are reused in arbitrary order; callers must not rely on
// FIFO/LIFO behavior. Ids start at 1 so the zero value of EntityID
// never names a live entity.
type idAllocator struct {
	next EntityID
	free map[EntityID]struct{}
}

func newIDAllocator() idAllocator {
	return idAllocator{
		next: 1,
		free: map[EntityID]struct{}{},
	}
}

// Create returns an id from the free pool if one is available, else a
// fresh monotonically increasing id.
func (a *idAllocator) Create() EntityID {
	for id := range a.free {
		delete(a.free, id)
		return id
	}

	id := a.next
	a.next++
	return id
}

// Destroy returns id to the free pool. Destroying an id that is
// already in the pool is caller error and is not guarded; the pool is
// a set, so the id is simply not duplicated.
func (a *idAllocator) Destroy(id EntityID) {
	a.free[id] = struct{}{}
}
