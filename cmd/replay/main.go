package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"radiosim/locate"
	"radiosim/ticklog"
)

// Replays a recorded tick log through the current estimator, so solver
// changes can be compared against what the live run produced.
func main() {
	logPath := flag.String("log", "", "Tick log file from simd")
	outPath := flag.String("out", "replay.csv", "Output CSV path")
	minX := flag.Float64("minx", 0, "Working area min X")
	minY := flag.Float64("miny", 0, "Working area min Y")
	maxX := flag.Float64("maxx", 30, "Working area max X")
	maxY := flag.Float64("maxy", 20, "Working area max Y")
	flag.Parse()

	if *logPath == "" {
		fmt.Println("--log required")
		os.Exit(1)
	}

	recs, err := ticklog.ReadFile(*logPath)
	if err != nil {
		fmt.Printf("read tick log failed: %v\n", err)
		os.Exit(1)
	}
	if len(recs) == 0 {
		fmt.Println("empty tick log")
		os.Exit(1)
	}

	est := locate.NewEstimator(*minX, *minY, *maxX, *maxY)

	rows := [][]string{{"tick", "rx_m", "ry_m", "recorded_x_m", "recorded_y_m", "x_m", "y_m", "err_m"}}
	var sumSq float64
	var n int
	for _, rec := range recs {
		e := est.Solve(rec.Measurements)
		row := []string{
			strconv.Itoa(int(rec.Tick)),
			fmt.Sprintf("%.4f", rec.RX),
			fmt.Sprintf("%.4f", rec.RY),
		}
		if rec.Estimate.Valid {
			row = append(row, fmt.Sprintf("%.4f", rec.Estimate.X), fmt.Sprintf("%.4f", rec.Estimate.Y))
		} else {
			row = append(row, "", "")
		}
		if e.Valid {
			errM := math.Hypot(e.X-rec.RX, e.Y-rec.RY)
			sumSq += errM * errM
			n++
			row = append(row, fmt.Sprintf("%.4f", e.X), fmt.Sprintf("%.4f", e.Y), fmt.Sprintf("%.3f", errM))
		} else {
			row = append(row, "", "", "")
		}
		rows = append(rows, row)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Printf("create output failed: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		fmt.Printf("write output failed: %v\n", err)
		os.Exit(1)
	}
	w.Flush()

	fmt.Printf("%d ticks replayed, %d solved, written to %s\n", len(recs), n, *outPath)
	if n > 0 {
		fmt.Printf("RMSE vs true position: %.3f m\n", math.Sqrt(sumSq/float64(n)))
	}
}
