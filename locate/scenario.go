package locate

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Scenario is a parsed scenario file: working area, radio parameters and the
// initial anchor and obstacle sets.
type Scenario struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Config     Config
	Anchors    []Anchor
	Obstacles  []Obstacle
}

// LoadScenario reads a scenario XML file. Malformed anchor or obstacle
// entries are skipped rather than failing the whole load.
//
// Format:
//
//	<scenario>
//	  <field minx="0" miny="0" maxx="30" maxy="20"/>
//	  <radio txpower="-59" exponent="2.0" minsignal="-95" noise="1" stddev="2.0"
//	         obstacles="1" angle="1" cumulative="1"/>
//	  <anchorlist>
//	    <anchor id="a1" pos="2,3" label="North"/>
//	  </anchorlist>
//	  <obstaclelist>
//	    <obstacle id="w1" from="10,0" to="10,12" material="concrete"/>
//	  </obstaclelist>
//	</scenario>
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScenario(f)
}

// ParseScenario decodes a scenario document from a reader.
func ParseScenario(r io.Reader) (*Scenario, error) {
	sc := &Scenario{
		MaxX: 30,
		MaxY: 20,
		Config: Config{
			TxPower:     -59,
			PathLossExp: 2.0,
			MinSignal:   RSSIMin,
		},
	}
	dec := xml.NewDecoder(r)
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scenario parse: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "scenario":
			sawRoot = true
		case "field":
			if v, ok := parseFloatAttr(start, "minx"); ok {
				sc.MinX = v
			}
			if v, ok := parseFloatAttr(start, "miny"); ok {
				sc.MinY = v
			}
			if v, ok := parseFloatAttr(start, "maxx"); ok {
				sc.MaxX = v
			}
			if v, ok := parseFloatAttr(start, "maxy"); ok {
				sc.MaxY = v
			}
		case "radio":
			if v, ok := parseFloatAttr(start, "txpower"); ok {
				sc.Config.TxPower = v
			}
			if v, ok := parseFloatAttr(start, "exponent"); ok {
				sc.Config.PathLossExp = v
			}
			if v, ok := parseFloatAttr(start, "minsignal"); ok {
				sc.Config.MinSignal = v
			}
			if v, ok := parseFloatAttr(start, "stddev"); ok {
				sc.Config.NoiseStdDev = v
			}
			sc.Config.NoiseEnabled = boolAttr(start, "noise")
			sc.Config.ObstaclesEnabled = boolAttr(start, "obstacles")
			sc.Config.AngleEffectEnabled = boolAttr(start, "angle")
			sc.Config.CumulativeEffectEnabled = boolAttr(start, "cumulative")
		case "anchor":
			id, ok := attrValue(start, "id")
			if !ok {
				continue
			}
			x, y, ok := parsePointAttr(start, "pos")
			if !ok {
				continue
			}
			label, _ := attrValue(start, "label")
			sc.Anchors = append(sc.Anchors, Anchor{ID: id, X: x, Y: y, Label: label})
		case "obstacle":
			id, ok := attrValue(start, "id")
			if !ok {
				continue
			}
			x1, y1, ok := parsePointAttr(start, "from")
			if !ok {
				continue
			}
			x2, y2, ok := parsePointAttr(start, "to")
			if !ok {
				continue
			}
			matStr, _ := attrValue(start, "material")
			mat, ok := MaterialByName(matStr)
			if !ok {
				continue
			}
			sc.Obstacles = append(sc.Obstacles, Obstacle{ID: id, X1: x1, Y1: y1, X2: x2, Y2: y2, Material: mat})
		}
	}
	if !sawRoot {
		return nil, fmt.Errorf("scenario parse: no <scenario> element")
	}
	return sc, nil
}

// NewSession builds a session preloaded with the scenario's anchors and
// obstacles.
func (sc *Scenario) NewSession(seed uint64) *Session {
	s := NewSession(sc.Config, sc.MinX, sc.MinY, sc.MaxX, sc.MaxY, seed)
	for _, a := range sc.Anchors {
		s.AddAnchor(a)
	}
	for _, o := range sc.Obstacles {
		s.Field().Add(o)
	}
	return s
}

func attrValue(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parseFloatAttr(start xml.StartElement, name string) (float64, bool) {
	if v, ok := attrValue(start, name); ok {
		val, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return val, true
		}
	}
	return 0, false
}

func boolAttr(start xml.StartElement, name string) bool {
	v, ok := attrValue(start, name)
	if !ok {
		return false
	}
	return v == "1" || strings.EqualFold(v, "true")
}

func parsePointAttr(start xml.StartElement, name string) (float64, float64, bool) {
	v, ok := attrValue(start, name)
	if !ok {
		return 0, 0, false
	}
	coords := strings.Split(v, ",")
	if len(coords) != 2 {
		return 0, 0, false
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return x, y, true
}
