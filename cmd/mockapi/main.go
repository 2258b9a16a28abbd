// Command mockapi serves canned responses for the feed, impact simulation
// and population APIs so the web service can run without network access.
//
// Usage:
//
//	go run ./cmd/mockapi -addr :9090 [-date 2024-03-05]
//
// With -date set the feed only lists objects under that date, so requests
// for any other day come back empty.
//
// Then point the web service at it:
//
//	NEO_BASE_URL=http://localhost:9090/feed \
//	IMPACT_API_URL=http://localhost:9090/impact \
//	POPULATION_API_URL=http://localhost:9090/population \
//	go run ./cmd/web
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	json "github.com/goccy/go-json"
)

// craterThreshold is the smallest diameter, in meters, that reaches the ground.
const craterThreshold = 50.0

type mockObject struct {
	name      string
	diameter  float64 // m
	velocity  float64 // km/h
	distance  float64 // AU
	hazardous bool
}

var objects = []mockObject{
	{name: "(2024 AA1)", diameter: 12.4, velocity: 45210.8, distance: 0.0213, hazardous: false},
	{name: "433 Eros (A898 PA)", diameter: 35640, velocity: 21120.3, distance: 0.1488, hazardous: false},
	{name: "(2019 OK)", diameter: 130, velocity: 88560, distance: 0.0005, hazardous: true},
	{name: "99942 Apophis (2004 MN4)", diameter: 370, velocity: 26640, distance: 0.0003, hazardous: true},
	{name: "(2013 TV135)", diameter: 410.2, velocity: 52920.6, distance: 0.0467, hazardous: true},
	{name: "(2022 WJ1)", diameter: 0.7, velocity: 53640, distance: 0.0009, hazardous: false},
	{name: "(2020 QG)", diameter: 5.3, velocity: 44280, distance: 0.00002, hazardous: false},
	{name: "(2008 TC3)", diameter: 4.1, velocity: 44460, distance: 0.00004, hazardous: false},
	{name: "(2012 DA14)", diameter: 40, velocity: 28080, distance: 0.0002, hazardous: false},
	{name: "101955 Bennu (1999 RQ36)", diameter: 565, velocity: 101000.5, distance: 0.0502, hazardous: true},
	{name: "(2023 BU)", diameter: 8.5, velocity: 33480, distance: 0.00003, hazardous: false},
	{name: "(2001 FO32)", diameter: 1100, velocity: 123840, distance: 0.0135, hazardous: true},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", ":9090", "listen address")
	date := flag.String("date", "", "serve the feed under this YYYY-MM-DD date only")
	flag.Parse()

	if *date != "" {
		if _, err := time.Parse(domain.FeedDateLayout, *date); err != nil {
			return fmt.Errorf("invalid -date %q: %w", *date, err)
		}
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newMux(*date),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("mock upstream APIs listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func newMux(fixedDate string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /feed", feedHandler(fixedDate))
	mux.HandleFunc("POST /impact", handleImpact)
	mux.HandleFunc("GET /population", handlePopulation)
	return mux
}

func feedHandler(fixedDate string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("start_date")
		if _, err := time.Parse(domain.FeedDateLayout, date); err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if fixedDate != "" {
			date = fixedDate
		}
		writeJSON(w, feedResponse(date))
	}
}

func feedResponse(date string) map[string]any {
	entries := make([]map[string]any, 0, len(objects))
	for _, o := range objects {
		entries = append(entries, map[string]any{
			"name": o.name,
			"estimated_diameter": map[string]any{
				"meters": map[string]any{
					"estimated_diameter_min": o.diameter / 2.2,
					"estimated_diameter_max": o.diameter,
				},
			},
			"is_potentially_hazardous_asteroid": o.hazardous,
			"close_approach_data": []map[string]any{{
				"close_approach_date": date,
				"relative_velocity": map[string]string{
					"kilometers_per_hour": strconv.FormatFloat(o.velocity, 'f', -1, 64),
				},
				"miss_distance": map[string]string{
					"astronomical": strconv.FormatFloat(o.distance, 'f', -1, 64),
				},
			}},
		})
	}

	return map[string]any{
		"element_count":      len(entries),
		"near_earth_objects": map[string]any{date: entries},
	}
}

func handleImpact(w http.ResponseWriter, r *http.Request) {
	var req domain.ImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.L0 <= 0 || req.V0 <= 0 || req.Ui <= 0 {
		http.Error(w, "L0, v0 and Ui must be positive", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, simulate(req))
}

// simulate produces plausible numbers, not physics: kinetic energy is exact,
// everything downstream of it is a rough scaling of energy.
func simulate(req domain.ImpactRequest) domain.ImpactResult {
	radius := req.L0 / 2
	mass := req.Ui * 4 / 3 * math.Pi * radius * radius * radius
	e0 := 0.5 * mass * req.V0 * req.V0

	res := domain.ImpactResult{E0: e0, EAir: e0}
	if req.L0 >= craterThreshold {
		res.EGround = e0 * 0.8
		res.EAir = e0 - res.EGround
		res.CraterDiameter = 20 * req.L0 * math.Pow(math.Sin(req.T*math.Pi/180), 1.0/3)
		res.CraterDepth = res.CraterDiameter / 5
	}

	mt := domain.Megatons(e0)
	res.RingEffects = map[string]domain.RingEffects{
		domain.FirstRing: {
			ThermalExposure:  domain.Num(mt * 1e5),
			EffectiveMMI:     domain.Text(mmi(mt)),
			PeakWindVelocity: domain.Num(math.Min(mt*40, 3000)),
			SurfaceBlast:     domain.Num(mt * 2e4),
		},
	}
	return res
}

func mmi(megatons float64) string {
	numerals := []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}
	level := int(math.Log10(megatons+1)*3) + 1
	return numerals[min(max(level, 1), len(numerals))-1]
}

func handlePopulation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	radii, errRadii := strconv.Atoi(q.Get("radii"))
	if errLat != nil || errLng != nil || errRadii != nil || radii < 0 || math.Abs(lng) > 180 {
		http.Error(w, "lat, lng and radii are required", http.StatusBadRequest)
		return
	}

	// Denser near the equator, zero at the poles.
	density := 0.02 * math.Cos(lat*math.Pi/180)
	area := math.Pi * float64(radii) * float64(radii)
	writeJSON(w, map[string]any{"populations": []float64{math.Round(math.Max(density, 0) * area)}})
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
