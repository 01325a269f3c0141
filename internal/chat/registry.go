package chat

import "sync"

// Registry is the in-memory source of truth for which users are reachable
// right now. It keeps three indexes: connection -> session, user -> live
// connections, and room -> subscribed connections, plus a reverse
// connection -> rooms index so teardown is O(rooms of that connection).
//
// All operations are pure map work under one RWMutex; nothing here performs
// I/O, so the lock is never held across a blocking call.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*Session
	owner  map[string]uint
	byUser map[uint]map[string]*Session
	rooms  map[Room]map[string]*Session
	joined map[string]map[Room]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Session),
		owner:  make(map[string]uint),
		byUser: make(map[uint]map[string]*Session),
		rooms:  make(map[Room]map[string]*Session),
		joined: make(map[string]map[Room]struct{}),
	}
}

// Track records a freshly connected, not yet authenticated session.
func (r *Registry) Track(s *Session) {
	r.mu.Lock()
	r.byConn[s.ID] = s
	r.mu.Unlock()
}

// Bind associates the connection with an authenticated identity. Idempotent
// for a repeated bind to the same user; a bind to a different user moves the
// connection and drops its room subscriptions. Returns true if this is now
// the user's only live connection.
func (r *Registry) Bind(s *Session, userID uint) (first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.owner[s.ID]; ok {
		if prior == userID {
			// Repeated bind: the user was already online through this very
			// connection, so it is never newly online.
			return false
		}
		r.unbindLocked(s.ID, prior)
		r.leaveAllLocked(s.ID)
	}

	r.byConn[s.ID] = s
	r.owner[s.ID] = userID
	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]*Session)
	}
	r.byUser[userID][s.ID] = s
	return len(r.byUser[userID]) == 1
}

// Remove forgets the connection entirely. Returns the owning user (zero if
// never authenticated) and whether it was that user's last connection.
func (r *Registry) Remove(connID string) (userID uint, last bool, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found = r.byConn[connID]; !found {
		return 0, false, false
	}
	delete(r.byConn, connID)
	r.leaveAllLocked(connID)

	userID, bound := r.owner[connID]
	if !bound {
		return 0, false, true
	}
	r.unbindLocked(connID, userID)
	return userID, len(r.byUser[userID]) == 0, true
}

func (r *Registry) unbindLocked(connID string, userID uint) {
	delete(r.owner, connID)
	if set := r.byUser[userID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.byUser, userID)
		}
	}
}

func (r *Registry) leaveAllLocked(connID string) {
	for room := range r.joined[connID] {
		if members := r.rooms[room]; members != nil {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.rooms, room)
			}
		}
	}
	delete(r.joined, connID)
}

func (r *Registry) Join(s *Session, room Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, tracked := r.byConn[s.ID]; !tracked {
		return
	}
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]*Session)
	}
	r.rooms[room][s.ID] = s
	if r.joined[s.ID] == nil {
		r.joined[s.ID] = make(map[Room]struct{})
	}
	r.joined[s.ID][room] = struct{}{}
}

func (r *Registry) Leave(s *Session, room Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members := r.rooms[room]; members != nil {
		delete(members, s.ID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	if rooms := r.joined[s.ID]; rooms != nil {
		delete(rooms, room)
	}
}

func (r *Registry) ConnectionsFor(userID uint) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.byUser[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]*Session, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

func (r *Registry) IsOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

func (r *Registry) RoomSessions(room Room) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	if len(members) == 0 {
		return nil
	}
	out := make([]*Session, 0, len(members))
	for _, s := range members {
		out = append(out, s)
	}
	return out
}
