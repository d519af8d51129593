package feed

import (
	"fmt"
	"time"

	"radiosim/locate"
)

// FormatEstimate renders one tick's position for downstream displays:
//
//	POS,<run>,<tick>,<timestamp>,<x>,<y>,<status>\r\n
//
// Invalid estimates carry NaN-free zero coordinates and the reason code, so
// line-oriented consumers never need special cases.
func FormatEstimate(runID string, tick int, ts int64, est locate.Estimate) []byte {
	t := time.UnixMilli(ts).UTC().Format("20060102150405.000")
	if !est.Valid {
		return []byte(fmt.Sprintf("POS,%s,%d,%s,0.00,0.00,%s\r\n", runID, tick, t, est.Reason))
	}
	return []byte(fmt.Sprintf("POS,%s,%d,%s,%.2f,%.2f,%s\r\n", runID, tick, t, est.X, est.Y, est.Term))
}

// FormatMeasurement renders one anchor reading:
//
//	MEA,<run>,<tick>,<anchor>,<rssi>,<filtered>,<distance>,<walls>\r\n
func FormatMeasurement(runID string, tick int, m locate.Measurement) []byte {
	return []byte(fmt.Sprintf("MEA,%s,%d,%s,%.1f,%.1f,%.2f,%d\r\n",
		runID, tick, m.AnchorID, m.RSSI, m.Filtered, m.Distance, len(m.Hits)))
}
