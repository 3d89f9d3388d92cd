package interchange

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tmakela/scubalog/internal/entities"
	"github.com/tmakela/scubalog/internal/units"
)

// UDDF (Universal Dive Data Format) 3.2.0 interchange.
//
// Export walks the record collection once to deduplicate gas mixes (by
// categorical value) and dive sites (by trimmed location name), assigning
// sequential synthetic ids in first-seen order. Re-running the export on the
// same input therefore always yields byte-identical output.

const (
	uddfVersion       = "3.2.0"
	uddfGeneratorName = "ScubaLog"
	uddfDateTime      = "2006-01-02T15:04:05"
)

type uddfDoc struct {
	XMLName        xml.Name        `xml:"uddf"`
	Version        string          `xml:"version,attr"`
	Generator      uddfGenerator   `xml:"generator"`
	GasDefinitions *uddfGasDefs    `xml:"gasdefinitions,omitempty"`
	DiveSite       *uddfDiveSite   `xml:"divesite,omitempty"`
	ProfileData    uddfProfileData `xml:"profiledata"`
}

type uddfGenerator struct {
	Name         string           `xml:"name"`
	Manufacturer uddfManufacturer `xml:"manufacturer"`
	DateTime     string           `xml:"datetime"`
	Type         string           `xml:"type"`
}

type uddfManufacturer struct {
	Name string `xml:"name"`
}

type uddfGasDefs struct {
	Mixes []uddfMix `xml:"mix"`
}

type uddfMix struct {
	ID   string  `xml:"id,attr"`
	Name string  `xml:"name"`
	O2   float64 `xml:"o2"`
	He   float64 `xml:"he"`
	N2   float64 `xml:"n2"`
}

type uddfDiveSite struct {
	Sites []uddfSite `xml:"site"`
}

type uddfSite struct {
	ID        string         `xml:"id,attr"`
	Name      string         `xml:"name"`
	Geography *uddfGeography `xml:"geography,omitempty"`
}

type uddfGeography struct {
	Latitude  float64 `xml:"latitude"`
	Longitude float64 `xml:"longitude"`
}

type uddfProfileData struct {
	RepetitionGroup uddfRepetitionGroup `xml:"repetitiongroup"`
}

type uddfRepetitionGroup struct {
	ID    string     `xml:"id,attr"`
	Dives []uddfDive `xml:"dive"`
}

type uddfDive struct {
	ID     string         `xml:"id,attr"`
	Before uddfBeforeDive `xml:"informationbeforedive"`
	Tank   *uddfTankData  `xml:"tankdata,omitempty"`
	After  uddfAfterDive  `xml:"informationafterdive"`
}

type uddfBeforeDive struct {
	DateTime       string    `xml:"datetime"`
	DiveNumber     int       `xml:"divenumber"`
	AirTemperature *float64  `xml:"airtemperature,omitempty"`
	Link           *uddfLink `xml:"link,omitempty"`
}

type uddfLink struct {
	Ref string `xml:"ref,attr"`
}

type uddfTankData struct {
	Link          *uddfLink `xml:"link,omitempty"`
	TankVolume    *float64  `xml:"tankvolume,omitempty"`
	PressureBegin *float64  `xml:"tankpressurebegin,omitempty"`
	PressureEnd   *float64  `xml:"tankpressureend,omitempty"`
}

type uddfAfterDive struct {
	GreatestDepth     float64    `xml:"greatestdepth"`
	DiveDuration      int        `xml:"diveduration"`
	LowestTemperature *float64   `xml:"lowesttemperature,omitempty"`
	Notes             *uddfNotes `xml:"notes,omitempty"`
}

type uddfNotes struct {
	Para string `xml:"para"`
}

// ExportUDDF renders the dives as a UDDF 3.2.0 document. The generator
// timestamp is the only non-deterministic element, so it is injected.
func ExportUDDF(dives []entities.Dive, now time.Time) ([]byte, error) {
	doc := uddfDoc{
		Version: uddfVersion,
		Generator: uddfGenerator{
			Name:         uddfGeneratorName,
			Manufacturer: uddfManufacturer{Name: uddfGeneratorName},
			DateTime:     now.Format(uddfDateTime),
			Type:         "logbook",
		},
	}

	// First-seen-order dedup tables. Ids are mix_N / site_N.
	mixIDs := make(map[entities.GasMix]string)
	siteIDs := make(map[string]string)
	var mixes []uddfMix
	var sites []uddfSite

	for i := range dives {
		d := &dives[i]
		if d.GasMixture != "" {
			if _, ok := mixIDs[d.GasMixture]; !ok {
				id := fmt.Sprintf("mix_%d", len(mixes)+1)
				mixIDs[d.GasMixture] = id
				f := d.GasMixture.Fractions()
				mixes = append(mixes, uddfMix{
					ID:   id,
					Name: d.GasMixture.Label(),
					O2:   f.O2,
					He:   f.He,
					N2:   f.N2(),
				})
			}
		}
		if name := strings.TrimSpace(d.Location); name != "" {
			if _, ok := siteIDs[name]; !ok {
				id := fmt.Sprintf("site_%d", len(sites)+1)
				siteIDs[name] = id
				site := uddfSite{ID: id, Name: name}
				if d.Latitude != nil && d.Longitude != nil {
					site.Geography = &uddfGeography{Latitude: *d.Latitude, Longitude: *d.Longitude}
				}
				sites = append(sites, site)
			}
		}
	}

	if len(mixes) > 0 {
		doc.GasDefinitions = &uddfGasDefs{Mixes: mixes}
	}
	if len(sites) > 0 {
		doc.DiveSite = &uddfDiveSite{Sites: sites}
	}

	group := uddfRepetitionGroup{ID: "group_1"}
	for i := range dives {
		d := &dives[i]

		before := uddfBeforeDive{
			DateTime:   d.StartTime.Format(uddfDateTime),
			DiveNumber: i + 1,
		}
		if d.AirTempC != nil {
			k := units.CelsiusToKelvin(*d.AirTempC)
			before.AirTemperature = &k
		}
		if name := strings.TrimSpace(d.Location); name != "" {
			before.Link = &uddfLink{Ref: siteIDs[name]}
		}

		var tank *uddfTankData
		if d.GasMixture != "" || d.TankSizeLiters != nil || d.StartPressureBar != nil || d.EndPressureBar != nil {
			tank = &uddfTankData{TankVolume: d.TankSizeLiters}
			if d.GasMixture != "" {
				tank.Link = &uddfLink{Ref: mixIDs[d.GasMixture]}
			}
			if d.StartPressureBar != nil {
				p := units.BarToPascal(*d.StartPressureBar)
				tank.PressureBegin = &p
			}
			if d.EndPressureBar != nil {
				p := units.BarToPascal(*d.EndPressureBar)
				tank.PressureEnd = &p
			}
		}

		after := uddfAfterDive{
			GreatestDepth: d.MaxDepthMeters,
		}
		if d.EndTime.After(d.StartTime) {
			after.DiveDuration = int(d.EndTime.Sub(d.StartTime) / time.Second)
		}
		if low := lowestTempC(d); low != nil {
			k := units.CelsiusToKelvin(*low)
			after.LowestTemperature = &k
		}
		if d.Notes != "" {
			after.Notes = &uddfNotes{Para: d.Notes}
		}

		group.Dives = append(group.Dives, uddfDive{
			ID:     fmt.Sprintf("dive_%d", i+1),
			Before: before,
			Tank:   tank,
			After:  after,
		})
	}
	doc.ProfileData.RepetitionGroup = group

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal UDDF: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func lowestTempC(d *entities.Dive) *float64 {
	switch {
	case d.BottomTempC != nil && d.SurfaceTempC != nil:
		if *d.SurfaceTempC < *d.BottomTempC {
			return d.SurfaceTempC
		}
		return d.BottomTempC
	case d.BottomTempC != nil:
		return d.BottomTempC
	default:
		return d.SurfaceTempC
	}
}

// uddfState names the decoder contexts that change how an element is
// interpreted. The same tag can mean different things in different contexts:
// a <link> under informationbeforedive references a dive site, while a
// <link> under tankdata references a gas mix.
type uddfState int

const (
	stateDocument uddfState = iota
	stateMix
	stateSite
	stateDive
	stateBeforeDive
	stateTankData
	stateAfterDive
)

type parsedSite struct {
	name      string
	latitude  *float64
	longitude *float64
}

type parsedDive struct {
	datetime   string
	diveNumber *int
	airTempK   *float64
	siteRef    string
	mixRef     string
	volume     *float64
	beginPa    *float64
	endPa      *float64
	depth      float64
	durationS  int
	lowTempK   *float64
	notes      string
}

// ImportUDDF stream-parses a UDDF document into candidate dive records.
//
// Sites and gas mixes are accumulated by their id attributes and resolved
// after the document is fully read, so reference order does not matter. A
// dive's title falls back through: linked site name, "Dive {n}" when a dive
// number was present, "UDDF Dive {1-based position}". Unparseable datetimes
// leave the start at the caller's now rather than failing the file — a
// deliberately lenient policy, unlike the strict CSV date column.
func ImportUDDF(data []byte, now time.Time) ([]entities.Dive, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack   []string
		state   = stateDocument
		text    strings.Builder
		sites   = make(map[string]*parsedSite)
		mixes   = make(map[string]*entities.GasFractions)
		order   []*parsedDive
		curSite *parsedSite
		curMix  *entities.GasFractions
		curDive *parsedDive
		sawUDDF bool
	)

	parent := func() string {
		if len(stack) < 2 {
			return ""
		}
		return stack[len(stack)-2]
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &XMLStructureError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			stack = append(stack, name)
			text.Reset()

			switch name {
			case "uddf":
				sawUDDF = true
			case "mix":
				state = stateMix
				curMix = &entities.GasFractions{}
				if id := xmlAttr(t, "id"); id != "" {
					mixes[id] = curMix
				}
			case "site":
				state = stateSite
				curSite = &parsedSite{}
				if id := xmlAttr(t, "id"); id != "" {
					sites[id] = curSite
				}
			case "dive":
				state = stateDive
				curDive = &parsedDive{}
				order = append(order, curDive)
			case "informationbeforedive":
				state = stateBeforeDive
			case "tankdata":
				state = stateTankData
			case "informationafterdive":
				state = stateAfterDive
			case "link":
				switch state {
				case stateBeforeDive:
					if curDive != nil {
						curDive.siteRef = xmlAttr(t, "ref")
					}
				case stateTankData:
					if curDive != nil {
						curDive.mixRef = xmlAttr(t, "ref")
					}
				}
			}

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			name := t.Name.Local
			value := strings.TrimSpace(text.String())
			text.Reset()

			switch state {
			case stateMix:
				handleMixElement(curMix, name, value)
			case stateSite:
				handleSiteElement(curSite, name, value, parent())
			case stateBeforeDive:
				handleBeforeDive(curDive, name, value)
			case stateTankData:
				handleTankData(curDive, name, value)
			case stateAfterDive:
				handleAfterDive(curDive, name, value, parent())
			}

			switch name {
			case "mix":
				state = stateDocument
				curMix = nil
			case "site":
				state = stateDocument
				curSite = nil
			case "dive":
				state = stateDocument
				curDive = nil
			case "informationbeforedive", "tankdata", "informationafterdive":
				if curDive != nil {
					state = stateDive
				}
			}

			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !sawUDDF {
		return nil, &XMLStructureError{Err: fmt.Errorf("missing uddf root element")}
	}

	dives := make([]entities.Dive, 0, len(order))
	for i, p := range order {
		dives = append(dives, resolveDive(p, i, sites, mixes, now))
	}
	return dives, nil
}

func xmlAttr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func handleMixElement(mix *entities.GasFractions, name, value string) {
	if mix == nil {
		return
	}
	switch name {
	case "o2":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			mix.O2 = v
		}
	case "he":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			mix.He = v
		}
	}
}

func handleSiteElement(site *parsedSite, name, value, parent string) {
	if site == nil {
		return
	}
	switch name {
	case "name":
		site.name = value
	case "latitude":
		if parent == "geography" {
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				site.latitude = &v
			}
		}
	case "longitude":
		if parent == "geography" {
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				site.longitude = &v
			}
		}
	}
}

func handleBeforeDive(dive *parsedDive, name, value string) {
	if dive == nil {
		return
	}
	switch name {
	case "datetime":
		dive.datetime = value
	case "divenumber":
		if v, err := strconv.Atoi(value); err == nil {
			dive.diveNumber = &v
		}
	case "airtemperature":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			dive.airTempK = &v
		}
	}
}

func handleTankData(dive *parsedDive, name, value string) {
	if dive == nil {
		return
	}
	switch name {
	case "tankvolume":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			dive.volume = &v
		}
	case "tankpressurebegin":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			dive.beginPa = &v
		}
	case "tankpressureend":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			dive.endPa = &v
		}
	}
}

func handleAfterDive(dive *parsedDive, name, value, parent string) {
	if dive == nil {
		return
	}
	switch name {
	case "greatestdepth":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			dive.depth = v
		}
	case "diveduration":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			dive.durationS = int(v)
		}
	case "lowesttemperature":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			dive.lowTempK = &v
		}
	case "para":
		if parent == "notes" {
			if dive.notes != "" {
				dive.notes += "\n"
			}
			dive.notes += value
		}
	}
}

// uddfDateTimeLayouts are tried in order: ISO-8601 with and without
// fractional seconds, then the bare local form.
var uddfDateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	uddfDateTime,
}

func parseUDDFDateTime(s string, now time.Time) time.Time {
	for _, layout := range uddfDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}

func resolveDive(p *parsedDive, pos int, sites map[string]*parsedSite, mixes map[string]*entities.GasFractions, now time.Time) entities.Dive {
	var d entities.Dive

	d.StartTime = parseUDDFDateTime(p.datetime, now)
	d.EndTime = d.StartTime.Add(time.Duration(p.durationS) * time.Second)
	d.MaxDepthMeters = p.depth

	if site, ok := sites[p.siteRef]; ok {
		name := strings.TrimSpace(site.name)
		d.Location = name
		d.Latitude = site.latitude
		d.Longitude = site.longitude
	}

	// Title fallback chain: site name, then dive number, then position.
	switch {
	case d.Location != "":
		d.Title = d.Location
	case p.diveNumber != nil:
		d.Title = fmt.Sprintf("Dive %d", *p.diveNumber)
	default:
		d.Title = fmt.Sprintf("UDDF Dive %d", pos+1)
	}

	if mix, ok := mixes[p.mixRef]; ok {
		d.GasMixture = entities.ClassifyGasMix(mix.O2, mix.He)
	}
	d.TankSizeLiters = p.volume
	if p.beginPa != nil {
		bar := units.PascalToBar(*p.beginPa)
		d.StartPressureBar = &bar
	}
	if p.endPa != nil {
		bar := units.PascalToBar(*p.endPa)
		d.EndPressureBar = &bar
	}
	if p.airTempK != nil {
		c := units.KelvinToCelsius(*p.airTempK)
		d.AirTempC = &c
	}
	if p.lowTempK != nil {
		c := units.KelvinToCelsius(*p.lowTempK)
		d.BottomTempC = &c
	}
	d.Notes = p.notes

	return d
}
