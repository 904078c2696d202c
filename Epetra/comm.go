package Epetra

import "errors"

var (
	ErrInvalidRank    = errors.New("rank outside the communicator")
	ErrLengthMismatch = errors.New("collective buffer lengths differ across ranks")
)

// Comm is the communication interface shared by all maps, graphs and
// vectors of this package. All slice-valued operations are collective:
// every rank of the communicator must call them, in the same order.
// Gathered and reduced results are identical on all ranks.
type Comm interface {
	MyPID() int
	NumProc() int
	Barrier()

	// Broadcast overwrites vals on every rank with the contents of
	// vals on the root rank. All ranks must pass equal-length slices.
	Broadcast(vals []int, root int) error

	SumAll(partial []int) ([]int, error)
	MaxAll(partial []int) ([]int, error)
	MinAll(partial []int) ([]int, error)

	// ScanSum is the inclusive prefix sum over ranks 0..MyPID.
	ScanSum(partial []int) ([]int, error)

	// GatherAll returns every rank's contribution, indexed by rank.
	// Contributions may differ in length.
	GatherAll(my []int) ([][]int, error)
}

// SerialComm is the single-rank communicator.
type SerialComm struct{}

func NewSerialComm() *SerialComm {
	return &SerialComm{}
}

func (*SerialComm) MyPID() int   { return 0 }
func (*SerialComm) NumProc() int { return 1 }
func (*SerialComm) Barrier()     {}

func (*SerialComm) Broadcast(vals []int, root int) error {
	if root != 0 {
		return ErrInvalidRank
	}
	return nil
}

func (*SerialComm) SumAll(partial []int) ([]int, error) {
	return append([]int(nil), partial...), nil
}

func (*SerialComm) MaxAll(partial []int) ([]int, error) {
	return append([]int(nil), partial...), nil
}

func (*SerialComm) MinAll(partial []int) ([]int, error) {
	return append([]int(nil), partial...), nil
}

func (*SerialComm) ScanSum(partial []int) ([]int, error) {
	return append([]int(nil), partial...), nil
}

func (*SerialComm) GatherAll(my []int) ([][]int, error) {
	return [][]int{append([]int(nil), my...)}, nil
}

func (*SerialComm) String() string {
	return "Epetra.SerialComm: rank 0 of 1"
}
