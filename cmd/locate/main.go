package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"radiosim/locate"
)

// Offline estimator: reads per-tick anchor readings from CSV, runs the
// position solver, writes per-tick estimates. Input columns:
//
//	tick,anchor_id,anchor_x,anchor_y,rssi
func main() {
	inPath := flag.String("in", "", "Input measurement CSV")
	outPath := flag.String("out", "estimates.csv", "Output CSV path")
	txPower := flag.Float64("txpower", -59.0, "Reference signal strength at 1 m (dBm)")
	exponent := flag.Float64("exponent", 2.0, "Path-loss exponent")
	minSignal := flag.Float64("min-signal", -95.0, "Minimum detectable signal (dBm)")
	minX := flag.Float64("minx", 0, "Working area min X")
	minY := flag.Float64("miny", 0, "Working area min Y")
	maxX := flag.Float64("maxx", 30, "Working area max X")
	maxY := flag.Float64("maxy", 20, "Working area max Y")
	refPath := flag.String("ref", "", "Optional reference CSV (x_m,y_m) for RMSE")
	flag.Parse()

	if *inPath == "" {
		fmt.Println("--in required")
		os.Exit(1)
	}

	byTick, order, err := readMeasurements(*inPath, *minSignal)
	if err != nil {
		fmt.Printf("read measurements failed: %v\n", err)
		os.Exit(1)
	}

	cfg := locate.Config{TxPower: *txPower, PathLossExp: *exponent, MinSignal: *minSignal}
	prop := locate.NewPropagation(cfg, nil, 0)
	est := locate.NewEstimator(*minX, *minY, *maxX, *maxY)

	rows := [][]string{{"tick", "x_m", "y_m", "status"}}
	solved := 0
	for _, tick := range order {
		ms := byTick[tick]
		for i := range ms {
			ms[i].Distance = prop.Distance(ms[i].Filtered)
		}
		e := est.Solve(ms)
		if e.Valid {
			rows = append(rows, []string{strconv.Itoa(tick),
				fmt.Sprintf("%.4f", e.X), fmt.Sprintf("%.4f", e.Y), e.Term.String()})
			solved++
		} else {
			rows = append(rows, []string{strconv.Itoa(tick), "", "", e.Reason.String()})
		}
	}

	if err := writeCSV(*outPath, rows); err != nil {
		fmt.Printf("write output failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d ticks, %d solved, written to %s\n", len(order), solved, *outPath)

	if *refPath != "" {
		rmse, n, err := compareWithRef(*outPath, *refPath)
		if err != nil {
			fmt.Printf("rmse compare failed: %v\n", err)
		} else {
			fmt.Printf("RMSE %.3f m over %d ticks\n", rmse, n)
		}
	}
}

func readMeasurements(path string, minSignal float64) (map[int][]locate.Measurement, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(recs) <= 1 {
		return nil, nil, fmt.Errorf("no rows")
	}

	byTick := map[int][]locate.Measurement{}
	for _, row := range recs[1:] {
		if len(row) < 5 {
			continue
		}
		tick, err := strconv.Atoi(row[0])
		if err != nil {
			continue
		}
		ax, err1 := strconv.ParseFloat(row[2], 64)
		ay, err2 := strconv.ParseFloat(row[3], 64)
		rssi, err3 := strconv.ParseFloat(row[4], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if rssi < minSignal {
			continue
		}
		byTick[tick] = append(byTick[tick], locate.Measurement{
			AnchorID: row[1],
			AnchorX:  ax,
			AnchorY:  ay,
			RSSI:     rssi,
			Filtered: rssi,
		})
	}
	order := make([]int, 0, len(byTick))
	for t := range byTick {
		order = append(order, t)
	}
	sort.Ints(order)
	return byTick, order, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func compareWithRef(predPath, refPath string) (float64, int, error) {
	pred, err := readXY(predPath)
	if err != nil {
		return 0, 0, err
	}
	ref, err := readXY(refPath)
	if err != nil {
		return 0, 0, err
	}
	n := len(pred)
	if len(ref) < n {
		n = len(ref)
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("no comparable rows")
	}
	var sum float64
	for i := 0; i < n; i++ {
		dx := pred[i][0] - ref[i][0]
		dy := pred[i][1] - ref[i][1]
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(n)), n, nil
}

func readXY(path string) ([][2]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) <= 1 {
		return nil, fmt.Errorf("no rows")
	}
	header := recs[0]
	idxX := indexOf(header, "x_m")
	idxY := indexOf(header, "y_m")
	if idxX < 0 || idxY < 0 {
		return nil, fmt.Errorf("columns x_m,y_m not found")
	}
	out := make([][2]float64, 0, len(recs)-1)
	for _, row := range recs[1:] {
		if len(row) <= idxX || len(row) <= idxY || row[idxX] == "" {
			continue
		}
		x, _ := strconv.ParseFloat(row[idxX], 64)
		y, _ := strconv.ParseFloat(row[idxY], 64)
		out = append(out, [2]float64{x, y})
	}
	return out, nil
}

func indexOf(arr []string, key string) int {
	for i, v := range arr {
		if v == key {
			return i
		}
	}
	return -1
}
