package world

// Per-cell ownership discriminator values. Compute workers use their assigned
// 1-based worker id; the codes are deliberately visible so contention can be
// diagnosed by inspecting the owner word directly.
const (
	OwnerFree     int32 = 0
	OwnerHost     int32 = -1
	OwnerRenderer int32 = -2
)

// Claim is a held cell lock. The zero Claim is invalid.
type Claim struct {
	w   *World
	idx int
}

// Acquire attempts to take exclusive ownership of cell idx for the given
// identity code. It never blocks: a false result means another thread holds
// the cell, and retry, back off, or skip is the caller's policy. No fairness
// is promised between waiters.
func (w *World) Acquire(idx int, owner int32) (Claim, bool) {
	if w.lockOwner[idx].CompareAndSwap(OwnerFree, owner) {
		return Claim{w: w, idx: idx}, true
	}
	return Claim{}, false
}

// Release returns the cell to the free state. All field mutations for this
// acquisition must be committed before calling it.
func (c Claim) Release() {
	c.w.lockOwner[c.idx].Store(OwnerFree)
}

// Index returns the claimed cell's linear index.
func (c Claim) Index() int { return c.idx }

// LockHolder returns the current owner code of cell idx: 0 free, positive a
// compute worker id, OwnerHost or OwnerRenderer otherwise. Diagnostic only;
// the value may be stale by the time it is observed.
func (w *World) LockHolder(idx int) int32 {
	return w.lockOwner[idx].Load()
}
