// Package ticklog records simulation ticks in a compact little-endian binary
// log so runs can be replayed and estimator changes compared offline. Only
// per-tick observations and results are captured; scenario state (anchors,
// obstacles, configuration) stays in the scenario file.
package ticklog

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"sync"

	"radiosim/locate"
)

const (
	Magic   = 0x474C5352 // "RSLG"
	Version = 1
)

// Record is one tick as stored on disk.
type Record struct {
	Tick         uint32
	TimestampMs  int64
	RX, RY       float64
	Estimate     locate.Estimate
	Measurements []locate.Measurement
}

type Writer struct {
	mu sync.Mutex
	w  io.WriteCloser
}

func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	tw := &Writer{w: f}
	if err := tw.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return tw, nil
}

func (tw *Writer) writeHeader() error {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:], Magic)
	binary.LittleEndian.PutUint16(b[4:], Version)
	// two reserved bytes
	_, err := tw.w.Write(b)
	return err
}

// WriteRecord appends one tick. Safe for concurrent use, though the simulator
// writes from a single loop.
func (tw *Writer) WriteRecord(rec *Record) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	buf := make([]byte, 0, 64+len(rec.Measurements)*64)
	buf = binary.LittleEndian.AppendUint32(buf, rec.Tick)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(rec.TimestampMs))
	buf = appendFloat(buf, rec.RX)
	buf = appendFloat(buf, rec.RY)

	if rec.Estimate.Valid {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = appendFloat(buf, rec.Estimate.X)
	buf = appendFloat(buf, rec.Estimate.Y)
	buf = append(buf, byte(rec.Estimate.Reason), byte(rec.Estimate.Term))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(rec.Estimate.Iterations))

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(rec.Measurements)))
	for _, m := range rec.Measurements {
		id := []byte(m.AnchorID)
		if len(id) > 255 {
			id = id[:255]
		}
		buf = append(buf, byte(len(id)))
		buf = append(buf, id...)
		buf = appendFloat(buf, m.AnchorX)
		buf = appendFloat(buf, m.AnchorY)
		buf = appendFloat(buf, m.RSSI)
		buf = appendFloat(buf, m.Filtered)
		buf = appendFloat(buf, m.Distance)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(m.Hits)))
	}

	_, err := tw.w.Write(buf)
	return err
}

func (tw *Writer) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.w.Close()
}

func appendFloat(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}
