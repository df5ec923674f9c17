package convergence

import "fmt"

// PixelInput is the operation recorded against one canvas cell: either a
// color write (SubmitPixel) or a read-back of the cell's current color.
type PixelInput struct {
	Op    uint8  // 0 => read, 1 => write
	X, Y  uint32 // cell coordinates, carried only so Partition can key on them
	Color uint32 // color written; unused for reads
}

// PixelOutput is the observed result of a PixelInput.
type PixelOutput struct {
	Color   uint32
	Applied bool // false if a write was rejected (e.g. not leader, out of bounds)
}

func pixelKey(x, y uint32) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// PixelModel returns a Model for checking that concurrent SubmitPixel calls
// against one canvas linearize at the point each write committed: once a
// write to (x, y) commits, every read that starts afterward must observe
// that color or a later one, never an earlier one or one from a different
// cell.
func PixelModel() Model {
	return Model{
		// Operations on different cells never contend, so each cell's
		// sub-history can be checked independently.
		Partition: func(history []Operation) [][]Operation {
			m := make(map[string][]Operation)
			for _, v := range history {
				in := v.Input.(PixelInput)
				k := pixelKey(in.X, in.Y)
				m[k] = append(m[k], v)
			}
			ret := make([][]Operation, 0, len(m))
			for _, v := range m {
				ret = append(ret, v)
			}
			return ret
		},
		// A cell starts at color 0, the canvas's zero value, before any
		// SubmitPixel has committed against it.
		Init: func() interface{} {
			return uint32(0)
		},
		Step: func(state, input, output interface{}) (bool, interface{}) {
			in := input.(PixelInput)
			out := output.(PixelOutput)
			cur := state.(uint32)
			switch in.Op {
			case 0: // read
				return out.Color == cur, state
			case 1: // write
				if !out.Applied {
					return true, state
				}
				return true, in.Color
			}
			return false, state
		},
		Equal: ShallowEqual,
	}
}
