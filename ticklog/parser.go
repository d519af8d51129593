package ticklog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"radiosim/locate"
)

// ReadFile parses a tick log written by Writer.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Read parses records until EOF. A truncated trailing record (an interrupted
// run) is dropped silently; any other corruption is an error.
func Read(r io.Reader) ([]Record, error) {
	hdr := make([]byte, 8)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("ticklog: short header: %w", err)
	}
	if binary.LittleEndian.Uint32(hdr[0:]) != Magic {
		return nil, fmt.Errorf("ticklog: bad magic 0x%x", binary.LittleEndian.Uint32(hdr[0:]))
	}
	if v := binary.LittleEndian.Uint16(hdr[4:]); v != Version {
		return nil, fmt.Errorf("ticklog: unsupported version %d", v)
	}

	var recs []Record
	for {
		rec, err := readRecord(r)
		if err == io.EOF {
			return recs, nil
		}
		if err == io.ErrUnexpectedEOF {
			// interrupted run, keep what we have
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, *rec)
	}
}

func readRecord(r io.Reader) (*Record, error) {
	fixed := make([]byte, 4+8+8+8+1+8+8+1+1+2+2)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, err
	}
	rec := &Record{}
	off := 0
	rec.Tick = binary.LittleEndian.Uint32(fixed[off:])
	off += 4
	rec.TimestampMs = int64(binary.LittleEndian.Uint64(fixed[off:]))
	off += 8
	rec.RX = readFloat(fixed[off:])
	off += 8
	rec.RY = readFloat(fixed[off:])
	off += 8
	rec.Estimate.Valid = fixed[off] == 1
	off++
	rec.Estimate.X = readFloat(fixed[off:])
	off += 8
	rec.Estimate.Y = readFloat(fixed[off:])
	off += 8
	rec.Estimate.Reason = locate.Reason(fixed[off])
	off++
	rec.Estimate.Term = locate.Termination(fixed[off])
	off++
	rec.Estimate.Iterations = int(binary.LittleEndian.Uint16(fixed[off:]))
	off += 2
	nMeas := int(binary.LittleEndian.Uint16(fixed[off:]))

	rec.Measurements = make([]locate.Measurement, 0, nMeas)
	for i := 0; i < nMeas; i++ {
		m, err := readMeasurement(r)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		rec.Measurements = append(rec.Measurements, *m)
	}
	return rec, nil
}

func readMeasurement(r io.Reader) (*locate.Measurement, error) {
	lb := make([]byte, 1)
	if _, err := io.ReadFull(r, lb); err != nil {
		return nil, err
	}
	body := make([]byte, int(lb[0])+8*5+2)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	m := &locate.Measurement{AnchorID: string(body[:lb[0]])}
	off := int(lb[0])
	m.AnchorX = readFloat(body[off:])
	off += 8
	m.AnchorY = readFloat(body[off:])
	off += 8
	m.RSSI = readFloat(body[off:])
	off += 8
	m.Filtered = readFloat(body[off:])
	off += 8
	m.Distance = readFloat(body[off:])
	off += 8
	// wall-crossing count only; the geometry itself is not logged
	nHits := int(binary.LittleEndian.Uint16(body[off:]))
	if nHits > 0 {
		m.Hits = make([]locate.Intersection, nHits)
	}
	return m, nil
}

func readFloat(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
