package game

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ActivationPool holds the units still entitled to act in the current
// phase. Members only ever leave: a unit is removed when its activation
// completes, when it is skipped, or when it no longer has anything to
// do. A unit that left is never re-admitted within the phase.
//
// At most one member is active at a time. Until the active unit commits
// (resolves its first sub-action) it may be postponed: activating a
// different member returns it to the pool unrecorded. After committing
// it must finish before any other member can act.
type ActivationPool struct {
	members   map[UnitID]struct{}
	active    UnitID
	committed bool
}

func newPool(ids []UnitID) *ActivationPool {
	p := &ActivationPool{members: make(map[UnitID]struct{}, len(ids))}
	for _, id := range ids {
		p.members[id] = struct{}{}
	}
	return p
}

// Contains reports whether the unit may still act this phase.
func (p *ActivationPool) Contains(id UnitID) bool {
	_, ok := p.members[id]
	return ok
}

// Members returns the remaining units in ascending ID order.
func (p *ActivationPool) Members() []UnitID {
	ids := maps.Keys(p.members)
	slices.Sort(ids)
	return ids
}

// Empty reports whether every member has resolved.
func (p *ActivationPool) Empty() bool { return len(p.members) == 0 }

// Active returns the unit currently mid-activation, or zero.
func (p *ActivationPool) Active() UnitID { return p.active }

// Committed reports whether the active unit has resolved a sub-action.
func (p *ActivationPool) Committed() bool { return p.committed }

// activate makes id the active unit. If another member is active and
// uncommitted it is postponed back to the pool; if it has committed the
// activation is refused. Returns the postponed unit, if any.
func (p *ActivationPool) activate(id UnitID) (postponed UnitID, err error) {
	if !p.Contains(id) {
		return 0, illegal("unit %d is not in the pool", id)
	}
	if p.active == id {
		return 0, nil
	}
	if p.active != 0 {
		if p.committed {
			return 0, illegal("unit %d is mid-activation and has already acted", p.active)
		}
		postponed = p.active
	}
	p.active = id
	p.committed = false
	return postponed, nil
}

// commit marks the active unit as having resolved a sub-action, closing
// its postponement window.
func (p *ActivationPool) commit() {
	if p.active != 0 {
		p.committed = true
	}
}

// complete removes the active unit from the pool for good.
func (p *ActivationPool) complete() UnitID {
	id := p.active
	if id != 0 {
		delete(p.members, id)
	}
	p.active = 0
	p.committed = false
	return id
}

// skip removes a member without it acting. A committed active unit
// cannot be skipped; an uncommitted active unit that is skipped is
// postponed first. Returns the unit that was postponed, if any.
func (p *ActivationPool) skip(id UnitID) (postponed UnitID, err error) {
	if !p.Contains(id) {
		return 0, illegal("unit %d is not in the pool", id)
	}
	if p.active != 0 && p.committed && p.active != id {
		return 0, illegal("unit %d is mid-activation and has already acted", p.active)
	}
	if p.active == id && p.committed {
		return 0, illegal("unit %d has already acted and must finish its activation", id)
	}
	if p.active != 0 && p.active != id {
		postponed = p.active
	}
	p.active = 0
	p.committed = false
	delete(p.members, id)
	return postponed, nil
}

// cancel returns an uncommitted active unit to the pool unrecorded.
func (p *ActivationPool) cancel() (UnitID, error) {
	if p.active == 0 {
		return 0, illegal("no unit is active")
	}
	if p.committed {
		return 0, illegal("unit %d has already acted and cannot cancel", p.active)
	}
	id := p.active
	p.active = 0
	return id, nil
}

// prune drops a member that can no longer do anything, active or not.
func (p *ActivationPool) prune(id UnitID) {
	delete(p.members, id)
	if p.active == id {
		p.active = 0
		p.committed = false
	}
}

func (p *ActivationPool) clone() *ActivationPool {
	if p == nil {
		return nil
	}
	return &ActivationPool{
		members:   maps.Clone(p.members),
		active:    p.active,
		committed: p.committed,
	}
}
