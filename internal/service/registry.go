package service

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// sessionRegistry is a small in-memory LRU of live sessions with a sliding idle TTL.
// Concurrency: methods are safe for concurrent use.
type sessionRegistry struct {
	mu      sync.Mutex
	cap     int
	idle    time.Duration
	ll      *list.List               // front = most-recently used
	items   map[string]*list.Element // sid -> element
	now     func() time.Time
	onEvict func(*Session)
	evicts  atomic.Uint64
}

type registryEntry struct {
	sess     *Session
	lastSeen time.Time
}

// registryConfig groups constructor options (<=3 params rule).
type registryConfig struct {
	Capacity int
	IdleTTL  time.Duration
	Now      func() time.Time
	// OnEvict runs outside the lock for sessions dropped by capacity or idleness.
	OnEvict func(*Session)
}

func newSessionRegistry(cfg registryConfig) *sessionRegistry {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 10000
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &sessionRegistry{
		cap:     capacity,
		idle:    cfg.IdleTTL,
		ll:      list.New(),
		items:   make(map[string]*list.Element),
		now:     nowFn,
		onEvict: cfg.OnEvict,
	}
}

// get returns the live session for sid and refreshes its idle deadline.
func (r *sessionRegistry) get(sid string) (*Session, bool) {
	var expired *Session
	defer func() { r.evicted(expired) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	el, found := r.items[sid]
	if !found {
		return nil, false
	}
	ent, _ := el.Value.(*registryEntry)
	if r.isIdle(ent) {
		r.removeElement(el)
		r.evicts.Add(1)
		expired = ent.sess
		return nil, false
	}
	ent.lastSeen = r.now()
	r.ll.MoveToFront(el)
	return ent.sess, true
}

// getOrCreate returns the session for sid, calling create when it is absent.
// created reports whether create ran.
func (r *sessionRegistry) getOrCreate(sid string, create func() *Session) (sess *Session, created bool) {
	if s, ok := r.get(sid); ok {
		return s, false
	}

	var dropped []*Session
	defer func() { r.evicted(dropped...) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Lost a race with another creator.
	if el, found := r.items[sid]; found {
		if ent, _ := el.Value.(*registryEntry); !r.isIdle(ent) {
			ent.lastSeen = r.now()
			r.ll.MoveToFront(el)
			return ent.sess, false
		}
		r.removeElement(el)
	}

	sess = create()
	el := r.ll.PushFront(&registryEntry{sess: sess, lastSeen: r.now()})
	r.items[sid] = el
	dropped = r.evictIfNeeded()
	return sess, true
}

// remove drops sid and returns the session it held.
func (r *sessionRegistry) remove(sid string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.items[sid]
	if !ok {
		return nil, false
	}
	ent, _ := el.Value.(*registryEntry)
	r.removeElement(el)
	return ent.sess, true
}

// sweep evicts every idle session and returns how many were dropped.
func (r *sessionRegistry) sweep() int {
	var dropped []*Session
	r.mu.Lock()
	for el := r.ll.Back(); el != nil; {
		prev := el.Prev()
		if ent, _ := el.Value.(*registryEntry); r.isIdle(ent) {
			r.removeElement(el)
			r.evicts.Add(1)
			dropped = append(dropped, ent.sess)
		}
		el = prev
	}
	r.mu.Unlock()

	r.evicted(dropped...)
	return len(dropped)
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ll.Len()
}

// Helpers (caller must hold r.mu).
func (r *sessionRegistry) isIdle(e *registryEntry) bool {
	if e == nil {
		return true
	}
	if r.idle <= 0 {
		return false
	}
	return r.now().Sub(e.lastSeen) >= r.idle
}

func (r *sessionRegistry) removeElement(el *list.Element) {
	r.ll.Remove(el)
	if ent, ok := el.Value.(*registryEntry); ok && ent.sess != nil {
		delete(r.items, ent.sess.ID)
		return
	}
	for k, v := range r.items {
		if v == el {
			delete(r.items, k)
			break
		}
	}
}

func (r *sessionRegistry) evictIfNeeded() []*Session {
	var dropped []*Session
	for r.ll.Len() > r.cap {
		el := r.ll.Back()
		if el == nil {
			break
		}
		if ent, _ := el.Value.(*registryEntry); ent != nil {
			dropped = append(dropped, ent.sess)
		}
		r.removeElement(el)
		r.evicts.Add(1)
	}
	return dropped
}

func (r *sessionRegistry) evicted(sessions ...*Session) {
	if r.onEvict == nil {
		return
	}
	for _, s := range sessions {
		if s != nil {
			r.onEvict(s)
		}
	}
}
