// Package output implements heatmap sinks: XYZ text grids, PNG previews and
// in-memory collectors.
package output

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
)

// XYZHeader is the first line of every XYZ grid.
const XYZHeader = "x y z"

// XYZWriter writes an ASCII XYZ grid: a header line, then one
// "x y z" line per cell with shortest round-trip decimals.
type XYZWriter struct {
	w      *bufio.Writer
	closer io.Closer
	buf    []byte
}

// NewXYZWriter writes to w. Close flushes but does not close w.
func NewXYZWriter(w io.Writer) *XYZWriter {
	return &XYZWriter{w: bufio.NewWriter(w), buf: make([]byte, 0, 96)}
}

// CreateXYZ creates or truncates the file at path.
func CreateXYZ(path string) (*XYZWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, heatmap.IOError("create output", err)
	}
	x := NewXYZWriter(f)
	x.closer = f
	return x, nil
}

func (x *XYZWriter) Begin(grid heatmap.GridSpec) error {
	if _, err := x.w.WriteString(XYZHeader + "\n"); err != nil {
		return heatmap.IOError("write header", err)
	}
	return nil
}

func (x *XYZWriter) Emit(c heatmap.Cell) error {
	b := x.buf[:0]
	b = strconv.AppendFloat(b, c.X, 'f', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, c.Y, 'f', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, c.Density, 'f', -1, 64)
	b = append(b, '\n')
	x.buf = b

	if _, err := x.w.Write(b); err != nil {
		return heatmap.IOError("write cell", err)
	}
	return nil
}

// Close flushes buffered lines and closes the file if CreateXYZ opened it.
func (x *XYZWriter) Close() error {
	err := x.w.Flush()
	if x.closer != nil {
		if cerr := x.closer.Close(); err == nil {
			err = cerr
		}
		x.closer = nil
	}
	if err != nil {
		return heatmap.IOError("flush output", err)
	}
	return nil
}
