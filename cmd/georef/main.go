package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pejotu/archicad-georef/internal/adapters/archicad"
	"github.com/pejotu/archicad-georef/internal/adapters/epsgdb"
	"github.com/pejotu/archicad-georef/internal/adapters/epsgio"
	"github.com/pejotu/archicad-georef/internal/adapters/memcache"
	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/core/ports"
	"github.com/pejotu/archicad-georef/internal/core/usecases"
	"github.com/pejotu/archicad-georef/internal/pkg/config"
	"github.com/pejotu/archicad-georef/internal/pkg/geodesy"
	"github.com/pejotu/archicad-georef/internal/pkg/logging"
)

const usage = `Usage: georef <command> [flags]

Commands:
  read       print the open project's georeferencing snapshot as JSON
  write      replace the snapshot from a JSON file (use -file -, or omit, for stdin)
  set        replace the snapshot from field=value pairs
  resolve    resolve an EPSG code to CRS metadata
  transform  convert a coordinate triple between EPSG codes
  apply      resolve an EPSG code and apply it to the open project
`

// services bundles everything a subcommand might need. Construction is
// cheap, so every invocation builds the full set.
type services struct {
	georef   *usecases.GeorefService
	resolver *usecases.ResolveService
	pipeline *usecases.PipelineService
}

func buildServices(cfg *config.Config) *services {
	gateway := archicad.New(cfg.ArchiCAD.Address(), time.Duration(cfg.ArchiCAD.Timeout)*time.Second)
	sources := []ports.CRSSource{
		epsgdb.New(),
		epsgio.New(cfg.EPSGIO.BaseURL, time.Duration(cfg.EPSGIO.Timeout)*time.Second),
	}
	georefSvc := usecases.NewGeorefService(gateway)
	resolveSvc := usecases.NewResolveService(sources, memcache.New())
	resolveSvc.SetCacheTTL(cfg.Cache.TTL)
	pipelineSvc := usecases.NewPipelineService(georefSvc, resolveSvc, geodesy.Transformer{})
	return &services{georef: georefSvc, resolver: resolveSvc, pipeline: pipelineSvc}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	svc := buildServices(cfg)

	switch os.Args[1] {
	case "read":
		runRead(ctx, svc)
	case "write":
		runWrite(ctx, svc, os.Args[2:])
	case "set":
		runSet(ctx, svc, os.Args[2:])
	case "resolve":
		runResolve(ctx, svc, os.Args[2:])
	case "transform":
		runTransform(os.Args[2:])
	case "apply":
		runApply(ctx, svc, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func runRead(ctx context.Context, svc *services) {
	data, err := svc.georef.Read(ctx)
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	printJSON(data)
}

func runWrite(ctx context.Context, svc *services, args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	file := fs.String("file", "-", "snapshot JSON file, - for stdin")
	fs.Parse(args)

	var r io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatalf("open %s: %v", *file, err)
		}
		defer f.Close()
		r = f
	}

	var data domain.GeorefData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		log.Fatalf("decode snapshot: %v", err)
	}
	if _, err := svc.georef.Write(ctx, data); err != nil {
		log.Fatalf("write: %v", err)
	}
	printJSON(data)
}

func runSet(ctx context.Context, svc *services, args []string) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			log.Fatalf("expected field=value, got %q", arg)
		}
		fields[key] = value
	}

	data, err := usecases.ParseGeorefFields(fields)
	if err != nil {
		log.Fatalf("set: %v", err)
	}
	if _, err := svc.georef.Write(ctx, data); err != nil {
		log.Fatalf("write: %v", err)
	}
	printJSON(data)
}

func runResolve(ctx context.Context, svc *services, args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	code := fs.Int("code", 0, "EPSG code")
	fs.Parse(args)
	if *code <= 0 {
		log.Fatal("resolve: -code must be a positive EPSG code")
	}

	meta, err := svc.resolver.Resolve(ctx, *code)
	if err != nil {
		log.Fatalf("resolve EPSG:%d: %v", *code, err)
	}
	printJSON(meta)
}

func runTransform(args []string) {
	fs := flag.NewFlagSet("transform", flag.ExitOnError)
	from := fs.Int("from", 0, "source EPSG code")
	to := fs.Int("to", geodesy.WGS84Code, "destination EPSG code")
	x := fs.Float64("x", 0, "easting / longitude")
	y := fs.Float64("y", 0, "northing / latitude")
	z := fs.Float64("z", 0, "elevation")
	fs.Parse(args)
	if *from <= 0 || *to <= 0 {
		log.Fatal("transform: -from and -to must be positive EPSG codes")
	}

	x2, y2, z2, err := geodesy.Transformer{}.Transform(*from, *to, *x, *y, *z)
	if err != nil {
		log.Fatalf("transform: %v", err)
	}
	printJSON(map[string]float64{"x": x2, "y": y2, "z": z2})
}

func runApply(ctx context.Context, svc *services, args []string) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	code := fs.Int("code", 0, "EPSG code")
	fs.Parse(args)
	if *code <= 0 {
		log.Fatal("apply: -code must be a positive EPSG code")
	}

	data, err := svc.pipeline.ApplyCRS(ctx, *code)
	if err != nil {
		log.Fatalf("apply EPSG:%d: %v", *code, err)
	}
	printJSON(data)
}
