package raft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"canvasraft/internal/convergence"
)

// TestConcurrentSubmitPixelLinearizes drives many concurrent SubmitPixel
// calls against a handful of cells and checks the resulting history against
// convergence.PixelModel: once a write to a cell commits, every read
// that starts afterward must observe that color or a later one.
func TestConcurrentSubmitPixelLinearizes(t *testing.T) {
	tc := newTestCluster(t, 3)
	tc.startAll()
	leader := eventuallyLeader(t, tc)

	const (
		writersPerCell = 4
		writesPerCell  = 3
	)
	cells := []struct{ x, y uint32 }{{0, 0}, {1, 2}, {3, 3}}

	var (
		mu  sync.Mutex
		ops []convergence.Operation
		wg  sync.WaitGroup
	)
	record := func(op convergence.Operation) {
		mu.Lock()
		ops = append(ops, op)
		mu.Unlock()
	}

	for _, cell := range cells {
		for w := 0; w < writersPerCell; w++ {
			for i := 0; i < writesPerCell; i++ {
				wg.Add(1)
				go func(x, y uint32, color uint32) {
					defer wg.Done()
					call := time.Now().UnixNano()
					applied := leader.SubmitPixel(context.Background(), x, y, color)
					ret := time.Now().UnixNano()
					record(convergence.Operation{
						Input:  convergence.PixelInput{Op: 1, X: x, Y: y, Color: color},
						Call:   call,
						Output: convergence.PixelOutput{Applied: applied},
						Return: ret,
					})
				}(cell.x, cell.y, uint32(w*writesPerCell+i+1))
			}
		}
	}
	wg.Wait()

	var maxReturn int64
	for _, op := range ops {
		if op.Return > maxReturn {
			maxReturn = op.Return
		}
	}

	pixels := leader.GetAllPixels()
	size := leader.canvas.Size()
	for _, cell := range cells {
		color := pixels[cell.y*uint32(size)+cell.x]
		ops = append(ops, convergence.Operation{
			Input:  convergence.PixelInput{Op: 0, X: cell.x, Y: cell.y},
			Call:   maxReturn + 1,
			Output: convergence.PixelOutput{Color: color, Applied: true},
			Return: maxReturn + 2,
		})
	}

	require.True(t, convergence.CheckOperations(convergence.PixelModel(), ops),
		"concurrent SubmitPixel history is not linearizable")
}
