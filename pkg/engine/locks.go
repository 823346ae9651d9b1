package engine

// lockRegistry records clients frozen by a chargeback. A lock is never
// cleared; locking an already locked client is a no-op.
type lockRegistry struct {
	locked map[ClientID]struct{}
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locked: make(map[ClientID]struct{})}
}

func (registry *lockRegistry) lock(clientID ClientID) {
	registry.locked[clientID] = struct{}{}
}

func (registry *lockRegistry) isLocked(clientID ClientID) bool {
	_, locked := registry.locked[clientID]
	return locked
}
