package Epetra_test

import (
	"sync"
	"testing"

	"github.com/intel/forEpetraGo/Epetra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRanks drives one body per rank, each in its own goroutine, the way
// collective operations require. Bodies use assert rather than require
// so that a failing rank keeps participating in collectives instead of
// leaving the others blocked.
func runRanks(t *testing.T, numProc int, body func(t *testing.T, comm *Epetra.GroupComm)) {
	t.Helper()
	comms := Epetra.NewGroupComms(numProc)
	var wg sync.WaitGroup
	for _, comm := range comms {
		wg.Add(1)
		go func(c *Epetra.GroupComm) {
			defer wg.Done()
			body(t, c)
		}(comm)
	}
	wg.Wait()
}

func TestSerialComm(t *testing.T) {
	comm := Epetra.NewSerialComm()
	assert.Equal(t, 0, comm.MyPID())
	assert.Equal(t, 1, comm.NumProc())
	comm.Barrier()

	sums, err := comm.SumAll([]int{3, -1})
	require.NoError(t, err)
	assert.Equal(t, []int{3, -1}, sums)

	scans, err := comm.ScanSum([]int{7})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, scans)

	all, err := comm.GatherAll([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 3}}, all)

	vals := []int{4, 5}
	require.NoError(t, comm.Broadcast(vals, 0))
	assert.Equal(t, []int{4, 5}, vals)
	assert.ErrorIs(t, comm.Broadcast(vals, 1), Epetra.ErrInvalidRank)
}

func TestGroupCommReductions(t *testing.T) {
	const numProc = 4
	runRanks(t, numProc, func(t *testing.T, comm *Epetra.GroupComm) {
		assert.Equal(t, numProc, comm.NumProc())
		pid := comm.MyPID()

		sums, err := comm.SumAll([]int{pid, 1})
		if assert.NoError(t, err) {
			assert.Equal(t, []int{6, numProc}, sums)
		}

		maxs, err := comm.MaxAll([]int{pid, -pid})
		if assert.NoError(t, err) {
			assert.Equal(t, []int{numProc - 1, 0}, maxs)
		}

		mins, err := comm.MinAll([]int{pid})
		if assert.NoError(t, err) {
			assert.Equal(t, []int{0}, mins)
		}

		scans, err := comm.ScanSum([]int{1, pid})
		if assert.NoError(t, err) {
			assert.Equal(t, []int{pid + 1, pid * (pid + 1) / 2}, scans)
		}
	})
}

func TestGroupCommGatherAll(t *testing.T) {
	runRanks(t, 3, func(t *testing.T, comm *Epetra.GroupComm) {
		my := make([]int, comm.MyPID())
		for i := range my {
			my[i] = comm.MyPID()*10 + i
		}
		all, err := comm.GatherAll(my)
		if !assert.NoError(t, err) {
			return
		}
		if assert.Len(t, all, 3) {
			assert.Empty(t, all[0])
			assert.Equal(t, []int{10}, all[1])
			assert.Equal(t, []int{20, 21}, all[2])
		}
	})
}

func TestGroupCommBroadcast(t *testing.T) {
	runRanks(t, 4, func(t *testing.T, comm *Epetra.GroupComm) {
		vals := []int{-1, -1, -1}
		if comm.MyPID() == 2 {
			vals = []int{7, 8, 9}
		}
		if assert.NoError(t, comm.Broadcast(vals, 2)) {
			assert.Equal(t, []int{7, 8, 9}, vals)
		}
		assert.ErrorIs(t, comm.Broadcast(vals, 4), Epetra.ErrInvalidRank)
	})
}

func TestGroupCommLengthMismatch(t *testing.T) {
	runRanks(t, 3, func(t *testing.T, comm *Epetra.GroupComm) {
		partial := make([]int, 1)
		if comm.MyPID() == 1 {
			partial = make([]int, 2)
		}
		_, err := comm.SumAll(partial)
		assert.ErrorIs(t, err, Epetra.ErrLengthMismatch)
	})
}

func TestGroupCommRepeatedRounds(t *testing.T) {
	runRanks(t, 5, func(t *testing.T, comm *Epetra.GroupComm) {
		for round := 0; round < 200; round++ {
			sums, err := comm.SumAll([]int{round})
			if !assert.NoError(t, err) {
				return
			}
			if !assert.Equal(t, []int{round * comm.NumProc()}, sums) {
				return
			}
			comm.Barrier()
		}
	})
}
