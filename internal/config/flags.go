package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSpans      = flag.String("spans", "", "Initial span counts as x,y,z")
	flagSubd       = flag.Int("subd", -1, "Initial mesh subdivision level")
	flagResolution = flag.String("resolution", "", "Trilinear resolution as x,y,z")
	flagShape      = flag.String("shape", "", "Mesh shape: box, sphere or cylinder")
	flagClamp      = flag.Bool("clamp", false, "Clamp parametric coordinates to the lattice box")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSpans != "" {
		v, err := parseTriple(*flagSpans)
		if err != nil {
			return fmt.Errorf("-spans: %w", err)
		}
		cfg.FFD.InitialSpanCounts = v
	}
	if *flagSubd >= 0 {
		cfg.FFD.InitialSubdLevel = *flagSubd
	}
	if *flagResolution != "" {
		v, err := parseTriple(*flagResolution)
		if err != nil {
			return fmt.Errorf("-resolution: %w", err)
		}
		cfg.Trilinear.Resolution = v
	}
	if *flagShape != "" {
		cfg.Mesh.Shape = *flagShape
	}
	if *flagClamp {
		cfg.FFD.ClampParams = true
	}
	return nil
}

// parseTriple parses "x,y,z" into three integers.
func parseTriple(s string) ([3]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [3]int{}, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
