// Package main provides planctl, a small CLI for working with serialized
// itineraries offline: decode polylines, inspect records and re-rank a
// saved candidate set under new weights.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/internal/score"
	"github.com/tripweave/tripweave/pkg/polyline"
)

// CLI is the planctl command tree.
var CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Decode DecodeCmd `cmd:"" help:"Decode an encoded polyline to lat/lng pairs."`
	Rank   RankCmd   `cmd:"" help:"Re-rank serialized itineraries under new weights."`
}

// DecodeCmd decodes an encoded polyline string.
type DecodeCmd struct {
	Polyline string `arg:"" help:"Encoded polyline string."`
}

// Run executes the decode command.
func (c *DecodeCmd) Run() error {
	coords := polyline.Decode(c.Polyline)
	for _, p := range coords {
		fmt.Printf("%.5f,%.5f\n", p.Lat, p.Lng)
	}
	fmt.Fprintf(os.Stderr, "%d points, %.3f km\n", len(coords), polyline.Length(coords))
	return nil
}

// RankCmd re-ranks a saved candidate set.
type RankCmd struct {
	File string `arg:"" help:"JSON file holding an array of itinerary records." type:"existingfile"`

	Duration            float64 `help:"Weight for total duration." default:"1"`
	NoTransfer          float64 `help:"Weight for transfer count." default:"0"`
	WalkingDistance     float64 `help:"Weight for walking distance." default:"0"`
	CarparkAvailability float64 `help:"Weight for carpark availability." default:"0"`
	BusWaitTime         float64 `help:"Weight for bus wait time." default:"0"`
	PlatformDensity     float64 `help:"Weight for platform crowding." default:"0"`
	Fare                float64 `help:"Weight for fare." default:"0"`
}

// Run executes the rank command.
func (c *RankCmd) Run() error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	var records []itinerary.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("decode %s: %w", c.File, err)
	}

	candidates := make([]*itinerary.Itinerary, 0, len(records))
	for i, rec := range records {
		it, err := itinerary.Deserialize(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		candidates = append(candidates, it)
	}

	pref, err := score.NewPreference(
		c.Duration,
		c.NoTransfer,
		c.WalkingDistance,
		c.CarparkAvailability,
		c.BusWaitTime,
		c.PlatformDensity,
		c.Fare,
	)
	if err != nil {
		return err
	}

	result, err := score.Rank(candidates, pref)
	if err != nil {
		return err
	}

	for i, r := range result.Best {
		fmt.Printf("%d. %-40s %6.2f  (%s)\n", i+1, r.Itinerary.Name, r.Score, r.Itinerary.Mode)
	}
	return nil
}

func main() {
	// Local overrides; absence is fine outside development
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("planctl"),
		kong.Description("Inspect and re-rank TripWeave itineraries."),
		kong.UsageOnError(),
	)

	level := zerolog.InfoLevel
	if CLI.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx.FatalIfErrorf(ctx.Run())
}
