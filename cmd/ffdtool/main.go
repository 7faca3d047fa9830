// ffdtool is a CLI utility for deforming meshes with control lattices.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/latticeffd/internal/config"
	"github.com/Faultbox/latticeffd/internal/editor"
	"github.com/Faultbox/latticeffd/internal/logger"
	"github.com/Faultbox/latticeffd/pkg/math"
	"github.com/Faultbox/latticeffd/pkg/mesh"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg)
	case "deform":
		err = cmdDeform(cfg, args)
	case "sample":
		err = cmdSample(cfg, args)
	case "wire":
		err = cmdWire(cfg)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ffdtool - lattice free-form deformation utility

Usage:
  ffdtool [global flags] <command> [options]

Global flags:
  -config <file>        Config file (default ./ffd.yaml)
  -spans x,y,z          Bernstein span counts
  -subd <level>         Box subdivision level
  -resolution x,y,z     Trilinear control points per axis
  -shape <shape>        box, sphere or cylinder
  -clamp                Clamp instead of extrapolating outside the lattice
  -debug                Debug logging

Commands:
  info                               Show mesh and lattice summary
  deform -index N -to x,y,z [-o f]   Move one control point, write OBJ
  sample [-n N]                      Print evaluation points
  wire                               Show lattice wireframe sizes
  config [path]                      Write the effective config

Examples:
  ffdtool info
  ffdtool -spans 3,3,3 deform -index 13 -to 0,80,0 -o bent.obj
  ffdtool -resolution 3,3,3 deform -mode trilinear -index 0 -to -1,-0.5,-0.5
  ffdtool -shape sphere sample -n 4`)
}

func newSession(cfg *config.Config) (*editor.Session, error) {
	return editor.New(cfg, logger.Named("editor"))
}

func cmdInfo(cfg *config.Config) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	m := s.Mesh()
	l := s.Lattice()
	b := l.Box()
	spans := l.SpanCounts()

	fmt.Printf("Mesh:       %s (subd %d)\n", cfg.Mesh.Shape, s.SubdLevel())
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Triangles:  %d\n", m.TriangleCount())
	fmt.Println()
	fmt.Println("Bernstein lattice:")
	fmt.Printf("  Spans:    %d x %d x %d\n", spans[0], spans[1], spans[2])
	fmt.Printf("  Points:   %d\n", l.TotalCtrlPtCount())
	fmt.Printf("  Box:      %s - %s\n", formatVec(b.Min), formatVec(b.Max))
	fmt.Printf("  Clamp:    %v\n", cfg.FFD.ClampParams)
	fmt.Println()
	res := s.Deformer().Resolution()
	fmt.Println("Trilinear deformer:")
	fmt.Printf("  Grid:     %d x %d x %d\n", res[0], res[1], res[2])
	fmt.Printf("  Points:   %d\n", s.Deformer().Len())
	return nil
}

func cmdDeform(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("deform", flag.ExitOnError)
	mode := fs.String("mode", "bernstein", "Deformer: bernstein or trilinear")
	index := fs.Int("index", 0, "Control point index")
	to := fs.String("to", "", "New control point position as x,y,z")
	out := fs.String("o", "", "Output OBJ file (default stdout)")
	fs.Parse(args)

	if *to == "" {
		fmt.Fprintln(os.Stderr, "Usage: ffdtool deform -index N -to x,y,z [-mode trilinear] [-o out.obj]")
		os.Exit(1)
	}
	p, err := parseVec(*to)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	switch *mode {
	case "bernstein":
	case "trilinear":
		if err := s.HandleEvent(editor.Event{Type: editor.EventToggleMode}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}

	if err := s.HandleEvent(editor.Event{Type: editor.EventMoveHandle, Index: *index, Position: p}); err != nil {
		return err
	}
	if err := s.Frame(); err != nil {
		return err
	}

	logger.Info("deformed mesh",
		zap.Stringer("mode", s.Mode()),
		zap.Int("index", *index),
		zap.Int("vertices", s.Mesh().VertexCount()),
	)
	return writeMesh(*out, s.Mesh())
}

func writeMesh(path string, m *mesh.Mesh) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := mesh.WriteOBJ(w, m); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d vertices)\n", path, m.VertexCount())
	}
	return nil
}

func cmdSample(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	n := fs.Int("n", editor.DefaultEvalDensity, "Intervals per axis")
	fs.Parse(args)

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	pts, err := s.Lattice().SamplePoints(*n)
	if err != nil {
		return err
	}
	for _, p := range pts {
		fmt.Println(formatVec(p))
	}
	return nil
}

func cmdWire(cfg *config.Config) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	bern := s.Wireframe()
	bounds := s.BoundsWireframe()
	if err := s.HandleEvent(editor.Event{Type: editor.EventToggleMode}); err != nil {
		return err
	}
	tri := s.Wireframe()

	fmt.Printf("Bernstein cage:  %d segments\n", len(bern)/6)
	fmt.Printf("Trilinear cage:  %d segments\n", len(tri)/6)
	fmt.Printf("Bounds outline:  %d segments\n", len(bounds)/6)
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", args[0])
		return nil
	}
	return cfg.Save()
}

// parseVec parses "x,y,z" into a point.
func parseVec(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var c [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		c[i] = v
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func formatVec(v math.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
