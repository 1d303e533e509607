// Command modesd decodes Mode-S/ADS-B traffic from an AVR/Beast hex-frame
// source, tracks aircraft state, and optionally renders it live to a
// terminal UI. It is the wiring layer around the modes/track/stats/feed
// packages described in SPEC_FULL.md.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/adsbtrack/modesd/feed"
	"github.com/adsbtrack/modesd/geoexport"
	"github.com/adsbtrack/modesd/modes"
	"github.com/adsbtrack/modesd/stats"
	"github.com/adsbtrack/modesd/track"
	"github.com/adsbtrack/modesd/ui"
)

const (
	flagSource       = "source"
	flagMetric       = "metric"
	flagNoFixErrors  = "no-fix-errors"
	flagNoCheckCRC   = "no-check-crc"
	flagInteractive  = "interactive"
	flagGeoJSONOut   = "geojson-out"
	flagGeoJSONEvery = "geojson-interval"
	flagVeryVerbose  = "very-verbose"
	flagDebug        = "debug"
	flagQuiet        = "quiet"
)

func main() {
	app := &cli.App{
		Name:  "modesd",
		Usage: "decode and track Mode-S/ADS-B downlink traffic",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagSource,
				Usage:   "path to an rtl_adsb-compatible subprocess, or '-' to read AVR frames from stdin",
				EnvVars: []string{"MODESD_SOURCE"},
				Value:   "-",
			},
			&cli.BoolFlag{Name: flagMetric, Usage: "report altitude/speed in metric units"},
			&cli.BoolFlag{Name: flagNoFixErrors, Usage: "disable single-bit CRC error correction"},
			&cli.BoolFlag{Name: flagNoCheckCRC, Usage: "accept messages without CRC validation"},
			&cli.BoolFlag{Name: flagInteractive, Usage: "show a live terminal table of tracked aircraft"},
			&cli.StringFlag{Name: flagGeoJSONOut, Usage: "write a GeoJSON snapshot of tracked aircraft to this path periodically"},
			&cli.DurationFlag{Name: flagGeoJSONEvery, Usage: "how often to refresh the GeoJSON snapshot", Value: 5 * time.Second},
			&cli.BoolFlag{Name: flagVeryVerbose, Usage: "trace-level logging"},
			&cli.BoolFlag{Name: flagDebug, EnvVars: []string{"DEBUG"}, Usage: "debug-level logging"},
			&cli.BoolFlag{Name: flagQuiet, EnvVars: []string{"QUIET"}, Usage: "error-level logging only"},
		},
		Action: run,
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("modesd exited with error")
	}
}

func setLoggingLevel(c *cli.Context) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.Bool(flagVeryVerbose) {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	if c.Bool(flagDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if c.Bool(flagQuiet) {
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
}

func run(c *cli.Context) error {
	setLoggingLevel(c)

	cfg := modes.Config{
		UseMetric:               c.Bool(flagMetric),
		CheckCRC:                !c.Bool(flagNoCheckCRC),
		ApplyBitErrorCorrection: !c.Bool(flagNoFixErrors),
	}

	store := track.NewStore()
	cache := track.NewCache()
	sink := stats.NewMemory()
	promSink := stats.NewPrometheus(prometheus.DefaultRegisterer)

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancel()

	var frames <-chan modes.RawMessage
	source := c.String(flagSource)
	if source == "-" {
		log.Info().Msg("reading AVR frames from stdin")
		frames = feed.Scan(os.Stdin)
	} else {
		log.Info().Str("source", source).Msg("starting demodulator subprocess")
		out, stop, err := feed.StartSubprocess(ctx, source)
		if err != nil {
			return fmt.Errorf("modesd: %w", err)
		}
		defer stop()
		frames = out
	}

	var screen *ui.Screen
	if c.Bool(flagInteractive) {
		var err error
		screen, err = ui.NewScreen(store)
		if err != nil {
			return fmt.Errorf("modesd: %w", err)
		}
		defer screen.Close()
	}

	go decodeLoop(ctx, cfg, sink, promSink, cache, store, frames)

	if out := c.String(flagGeoJSONOut); out != "" {
		go geoJSONLoop(ctx, store, out, c.Duration(flagGeoJSONEvery))
	}

	if screen != nil {
		return screen.Run()
	}

	<-ctx.Done()
	return nil
}

// decodeLoop feeds every incoming raw message through modes.Decode, fans
// the result into both statistics sinks, merges it into the track store,
// and primes the XOR-address recovery cache for directly-verified DF11/
// DF17 sightings (spec.md §4.2, SPEC_FULL.md §4.6).
func decodeLoop(ctx context.Context, cfg modes.Config, mem *stats.Memory, prom *stats.Prometheus, cache *track.Cache, store *track.Store, frames <-chan modes.RawMessage) {
	sink := multiSink{mem, prom}
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-frames:
			if !ok {
				return
			}
			rec, err := modes.Decode(cfg, sink, cache, raw)
			if err != nil {
				log.Debug().Err(err).Msg("dropped malformed frame")
				continue
			}
			sink.Add("bits_decoded", float64(raw.LengthBits))
			if rec.HasICAO24 && rec.CRCOK && !rec.BitCorrected &&
				(rec.DownlinkFormat == 11 || rec.DownlinkFormat == 17) {
				cache.Add(rec.ICAO24)
			}
			store.Update(rec, time.Now(), sink)
		}
	}
}

func geoJSONLoop(ctx context.Context, store *track.Store, path string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b, err := geoexport.MarshalJSON(store.Snapshot())
			if err != nil {
				log.Error().Err(err).Msg("geojson export failed")
				continue
			}
			if err := os.WriteFile(path, b, 0o644); err != nil {
				log.Error().Err(err).Str("path", path).Msg("writing geojson snapshot failed")
			}
		}
	}
}

// multiSink fans every modes.StatsSink call out to both the in-memory and
// Prometheus sinks, so the decoder only ever sees one sink.
type multiSink struct {
	mem  *stats.Memory
	prom *stats.Prometheus
}

func (s multiSink) Inc(name string) {
	s.mem.Inc(name)
	s.prom.Inc(name)
}

func (s multiSink) Add(name string, n float64) {
	s.mem.Add(name, n)
	s.prom.Add(name, n)
}

func (s multiSink) ObserveMin(name string, v float64) {
	s.mem.ObserveMin(name, v)
	s.prom.ObserveMin(name, v)
}

func (s multiSink) ObserveMax(name string, v float64) {
	s.mem.ObserveMax(name, v)
	s.prom.ObserveMax(name, v)
}

func (s multiSink) AddMember(set, member string) {
	s.mem.AddMember(set, member)
	s.prom.AddMember(set, member)
}
