// Package Epetra is a Go rendition of the Epetra object model for
// distributed sparse-linear-algebra toolkits: communicators, maps that
// distribute global element IDs over ranks, compressed-row sparsity
// graphs, and coloring objects over map elements.
//
// Ranks are in-process: a group communicator runs each rank in its own
// goroutine instead of an MPI process. Collective operations must be
// called on all ranks of a communicator concurrently.
package Epetra

import (
	"github.com/intel/forGraphBLASGo/GrB"
)

const (
	VersionMajor = 1
	VersionMinor = 0
)

func Init(mode GrB.Mode) error {
	return GrB.Init(mode)
}

func Finalize() error {
	return GrB.Finalize()
}
