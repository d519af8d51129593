package main

import (
	"encoding/json"
	"flag"
	"log"
	"time"

	"radiosim/feed"
	"radiosim/locate"
	"radiosim/sim"
	"radiosim/ticklog"
	"radiosim/web"
)

func main() {
	scenarioPath := flag.String("scenario", "scenario.xml", "Scenario XML file")
	port := flag.Int("port", 8085, "HTTP/websocket port")
	distDir := flag.String("dist", "", "Static front-end directory")
	intervalMs := flag.Int("interval-ms", 100, "Tick interval in milliseconds")
	ticks := flag.Int("ticks", 0, "Number of ticks to run (0 = forever)")
	seed := flag.Uint64("seed", 1, "Noise and movement seed")
	logPath := flag.String("log", "", "Optional tick log output path")
	udpFeed := flag.String("udp-feed", "", "UDP target for position lines (host:port)")
	tcpFeed := flag.String("tcp-feed", "", "TCP target for position lines (host:port)")
	filterQ := flag.Float64("filter-q", 0.01, "Filter process noise covariance")
	filterR := flag.Float64("filter-r", 9.0, "Filter measurement noise covariance")
	noFilter := flag.Bool("no-filter", false, "Disable the measurement noise filter")
	flag.Parse()

	sc, err := locate.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("load scenario: %v", err)
	}
	sess := sc.NewSession(*seed)
	if !*noFilter {
		sess.EnableFilter(*filterQ, *filterR)
	}
	runner := sim.NewRunner(sess, sc.MinX, sc.MinY, sc.MaxX, sc.MaxY, *seed)
	log.Printf("run %s: %d anchors, %d obstacles, field [%.1f,%.1f]x[%.1f,%.1f]",
		runner.ID, len(sc.Anchors), len(sc.Obstacles), sc.MinX, sc.MaxX, sc.MinY, sc.MaxY)

	var tlog *ticklog.Writer
	if *logPath != "" {
		tlog, err = ticklog.NewWriter(*logPath)
		if err != nil {
			log.Fatalf("open tick log: %v", err)
		}
		defer tlog.Close()
	}

	sender := feed.NewSender()
	haveFeed := false
	if *udpFeed != "" {
		if err := sender.AddUDPTarget(*udpFeed, feed.FlagEstimate); err != nil {
			log.Fatalf("udp feed: %v", err)
		}
		haveFeed = true
	}
	if *tcpFeed != "" {
		sender.AddTCPTarget(*tcpFeed, feed.FlagEstimate|feed.FlagMeasurement)
		haveFeed = true
	}
	if haveFeed {
		if err := sender.Start(); err != nil {
			log.Fatalf("start feed: %v", err)
		}
		defer sender.Stop()
	}

	srv := web.NewServer()
	go srv.Start(*port, *distDir, *scenarioPath)

	dt := float64(*intervalMs) / 1000.0
	ticker := time.NewTicker(time.Duration(*intervalMs) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		frame := runner.Step(dt)
		ts := time.Now().UnixMilli()

		if b, err := json.Marshal(frame); err == nil {
			srv.Hub.Broadcast(b)
		}
		if haveFeed {
			sender.Send(feed.FormatEstimate(runner.ID, frame.Tick, ts, frame.Result.Estimate), feed.FlagEstimate)
			for _, m := range frame.Result.Measurements {
				sender.Send(feed.FormatMeasurement(runner.ID, frame.Tick, m), feed.FlagMeasurement)
			}
		}
		if tlog != nil {
			rec := ticklog.Record{
				Tick:         uint32(frame.Tick),
				TimestampMs:  ts,
				RX:           frame.RX,
				RY:           frame.RY,
				Estimate:     frame.Result.Estimate,
				Measurements: frame.Result.Measurements,
			}
			if err := tlog.WriteRecord(&rec); err != nil {
				log.Printf("tick log write: %v", err)
			}
		}
		if frame.Tick%50 == 0 {
			est := frame.Result.Estimate
			if est.Valid {
				log.Printf("tick %d: rx=(%.2f,%.2f) est=(%.2f,%.2f) %s n=%d",
					frame.Tick, frame.RX, frame.RY, est.X, est.Y, est.Term, len(frame.Result.Measurements))
			} else {
				log.Printf("tick %d: rx=(%.2f,%.2f) no estimate (%s)",
					frame.Tick, frame.RX, frame.RY, est.Reason)
			}
		}
		if *ticks > 0 && frame.Tick >= *ticks {
			break
		}
	}
}
