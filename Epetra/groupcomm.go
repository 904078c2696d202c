package Epetra

import (
	"fmt"
	"sync"
)

// commHub is the rendezvous point shared by the ranks of a group. Each
// collective is one exchange round: every rank deposits its contribution,
// the last arriver publishes the gathered set and advances the phase, and
// all ranks leave with the same view of the round.
type commHub struct {
	numProc int

	mu      sync.Mutex
	cond    *sync.Cond
	phase   int
	arrived int
	inbox   [][]int
	out     [][]int
}

func (h *commHub) exchange(pid int, in []int) [][]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	gen := h.phase
	h.inbox[pid] = append([]int(nil), in...)
	h.arrived++
	if h.arrived == h.numProc {
		h.out = h.inbox
		h.inbox = make([][]int, h.numProc)
		h.arrived = 0
		h.phase++
		h.cond.Broadcast()
	} else {
		for gen == h.phase {
			h.cond.Wait()
		}
	}
	return h.out
}

// GroupComm is the in-process analogue of an MPI communicator: a group of
// ranks, each running in its own goroutine, synchronizing through a shared
// hub. Collective operations block until all ranks of the group arrive.
type GroupComm struct {
	pid int
	hub *commHub
}

// NewGroupComms creates a group of numProc ranks and returns one
// communicator per rank. Each returned communicator must be driven from
// its own goroutine whenever collective operations are involved.
func NewGroupComms(numProc int) []*GroupComm {
	if numProc < 1 {
		numProc = 1
	}
	hub := &commHub{
		numProc: numProc,
		inbox:   make([][]int, numProc),
	}
	hub.cond = sync.NewCond(&hub.mu)
	comms := make([]*GroupComm, numProc)
	for p := range comms {
		comms[p] = &GroupComm{pid: p, hub: hub}
	}
	return comms
}

func (c *GroupComm) MyPID() int   { return c.pid }
func (c *GroupComm) NumProc() int { return c.hub.numProc }

func (c *GroupComm) Barrier() {
	c.hub.exchange(c.pid, nil)
}

func (c *GroupComm) Broadcast(vals []int, root int) error {
	if root < 0 || root >= c.hub.numProc {
		return ErrInvalidRank
	}
	all := c.hub.exchange(c.pid, vals)
	src := all[root]
	if len(src) != len(vals) {
		return ErrLengthMismatch
	}
	copy(vals, src)
	return nil
}

func (c *GroupComm) reduceAll(partial []int, op func(a, b int) int) ([]int, error) {
	all := c.hub.exchange(c.pid, partial)
	out := append([]int(nil), all[0]...)
	for p := 1; p < len(all); p++ {
		if len(all[p]) != len(out) {
			return nil, ErrLengthMismatch
		}
		for i, v := range all[p] {
			out[i] = op(out[i], v)
		}
	}
	if len(out) != len(partial) {
		return nil, ErrLengthMismatch
	}
	return out, nil
}

func (c *GroupComm) SumAll(partial []int) ([]int, error) {
	return c.reduceAll(partial, func(a, b int) int { return a + b })
}

func (c *GroupComm) MaxAll(partial []int) ([]int, error) {
	return c.reduceAll(partial, func(a, b int) int { return max(a, b) })
}

func (c *GroupComm) MinAll(partial []int) ([]int, error) {
	return c.reduceAll(partial, func(a, b int) int { return min(a, b) })
}

func (c *GroupComm) ScanSum(partial []int) ([]int, error) {
	all := c.hub.exchange(c.pid, partial)
	out := make([]int, len(partial))
	for p := 0; p <= c.pid; p++ {
		if len(all[p]) != len(out) {
			return nil, ErrLengthMismatch
		}
		for i, v := range all[p] {
			out[i] += v
		}
	}
	return out, nil
}

func (c *GroupComm) GatherAll(my []int) ([][]int, error) {
	all := c.hub.exchange(c.pid, my)
	out := make([][]int, len(all))
	for p, vals := range all {
		out[p] = append([]int(nil), vals...)
	}
	return out, nil
}

func (c *GroupComm) String() string {
	return fmt.Sprintf("Epetra.GroupComm: rank %v of %v", c.pid, c.hub.numProc)
}
