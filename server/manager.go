package server

import (
	"fmt"
	"sync"

	"skirmish/dice"
	"skirmish/scenario"
	"skirmish/storage"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Manager tracks live rooms.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	next  int
}

func NewManager() *Manager {
	return &Manager{rooms: make(map[string]*Room)}
}

// Create builds a battle from the scenario, starts its room loop, and
// returns the room.
func (m *Manager) Create(scn *scenario.Scenario, vsBot bool, seed int64, store *storage.Store) (*Room, error) {
	gs, err := scn.Battle(dice.NewRoller(seed))
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("room-%d", m.next)
	r := newRoom(id, scn, gs, vsBot, seed, store)
	m.rooms[id] = r
	go r.run()
	return r, nil
}

// Get returns the room, or nil when it does not exist.
func (m *Manager) Get(id string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[id]
}

// List returns the live room IDs, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := maps.Keys(m.rooms)
	slices.Sort(ids)
	return ids
}

// Remove closes the room and forgets it. Removing an unknown id is a
// no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	r, ok := m.rooms[id]
	delete(m.rooms, id)
	m.mu.Unlock()
	if ok {
		r.close()
	}
}
