package main

import (
	"log"
	"os"
	"time"

	"github.com/intel/forEpetraGo/Epetra"
	"github.com/intel/forEpetraGo/EpetraExt"
	"github.com/intel/forEpetraGo/MatrixMarket"
	"github.com/intel/forGraphBLASGo/GrB"
)

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	try(Epetra.Init(GrB.NonBlocking))
	defer func() {
		try(Epetra.Finalize())
	}()
	if len(os.Args) < 2 {
		log.Fatal("usage: coloring_demo matrix.mtx")
	}
	f, err := os.Open(os.Args[1])
	try(err)
	st, err := MatrixMarket.Read(f)
	try(err)
	try(f.Close())

	comm := Epetra.NewSerialComm()
	rowMap, err := Epetra.NewMap(st.NRows, 0, comm)
	try(err)
	graph := Epetra.NewCrsGraph(Epetra.Copy, rowMap, 0)
	for k, i := range st.Rows {
		try(graph.InsertGlobalIndices(i, []int{st.Cols[k]}))
	}
	try(graph.FillComplete())
	log.Println("graph:", graph.NumGlobalRows(), "rows,", graph.NumGlobalEntries(), "entries")

	tstart := time.Now()
	colorMap, err := EpetraExt.NewGreedyMapColoring(true).Apply(graph)
	try(err)
	log.Println("greedy distance-2 coloring:", colorMap.NumColors(), "colors, duration:", time.Since(tstart))
	for _, c := range colorMap.ListOfColors() {
		log.Printf("color %v: %v columns\n", c, colorMap.NumElementsWithColor(c))
	}

	tstart = time.Now()
	columns, err := EpetraExt.NewCrsGraphMapColoringIndex(colorMap).Apply(graph)
	try(err)
	log.Println("color map index:", len(columns), "vectors, duration:", time.Since(tstart))
}
