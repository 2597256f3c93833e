package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/astrokit/regions/internal/catalog"
	"github.com/astrokit/regions/internal/config"
	"github.com/astrokit/regions/internal/database"
	"github.com/astrokit/regions/internal/logging"
	"github.com/astrokit/regions/internal/metrics"
	"github.com/astrokit/regions/internal/region"
	"github.com/astrokit/regions/internal/regionio"
	"github.com/astrokit/regions/internal/render"
	"github.com/astrokit/regions/internal/wcs"
	"github.com/astrokit/regions/pkg/core"
)

// CurrentVersion can be set at build time via ldflags.
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	ToolName string = "regions"
)

var (
	slogManager *logging.SlogManager
	logger      *slog.Logger

	sessionStart time.Time = time.Now()

	// currentCommand is attached to every log record once the
	// subcommand is known.
	currentCommand string = "startup"
)

// sessionContext supplies the attributes the context handler stamps on
// each record.
func sessionContext() []slog.Attr {
	return []slog.Attr{
		slog.String("tool", ToolName),
		slog.String("version", CurrentVersion),
		slog.String("command", currentCommand),
	}
}

func usage() {
	fmt.Println("usage: regions <command> [args]")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  convert <file.reg> [out.reg]   convert sky circles to pixel circles")
	fmt.Println("  render  <file.reg> <out.png>   draw the regions onto a PNG canvas")
	fmt.Println("  import  <file.reg> [...]       store regions in the catalog database")
	fmt.Println("  export  <out.reg>              write all catalog entries to a region file")
	fmt.Println("  list                           print catalog entries")
	fmt.Println("  version                        print version information")
}

func main() {
	// Missing config file is fine for the CLI; the defaults set during
	// Load still apply.
	if err := config.Load("."); err != nil {
		fmt.Fprintln(os.Stderr, "no config file found, using defaults")
	}

	slogManager = logging.NewSlogManager()
	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}

	logsDir := config.GetString("logsDir")
	var logFile io.Writer
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintln(os.Stderr, "cannot create logs directory, logging to console only:", err)
	} else {
		f, err := os.Create(logging.LogFilePath(logsDir, ToolName, sessionStart))
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create session log file, logging to console only:", err)
		} else {
			defer func() { _ = f.Close() }()
			logFile = f
		}
	}

	if err := slogManager.Setup(logFile, config.GetString("logLevel"), graylogAddr, sessionContext); err != nil {
		fmt.Fprintln(os.Stderr, "failed to set up logging:", err)
		os.Exit(1)
	}
	logger = slogManager.Logger()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		return
	}
	currentCommand = strings.ToLower(args[0])

	var err error
	switch currentCommand {
	case "convert":
		err = runConvert(args[1:])
	case "render":
		err = runRender(args[1:])
	case "import":
		err = runImport(args[1:])
	case "export":
		err = runExport(args[1:])
	case "list":
		err = runList()
	case "version":
		fmt.Printf("%s %s (built %s)\n", ToolName, CurrentVersion, BuildDate)
	default:
		usage()
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// transformFromConfig builds the coordinate transform described by the
// wcs.* config keys.
func transformFromConfig() (wcs.Transform, error) {
	refPixel := core.PixCoord{
		X: config.GetFloat("wcs.refPixelX"),
		Y: config.GetFloat("wcs.refPixelY"),
	}
	refWorld := core.SkyCoord{
		Lon:   config.GetFloat("wcs.refLon"),
		Lat:   config.GetFloat("wcs.refLat"),
		Frame: core.Frame(config.GetString("wcs.frame")),
	}

	if refWorld.Frame == core.FrameGeodetic {
		return wcs.NewMercator(refPixel, refWorld, config.GetFloat("wcs.metersPerPixel"))
	}
	return wcs.NewAffineScale(refPixel, refWorld, config.GetFloat("wcs.pixelsPerDegree"))
}

// defaultStyle builds the drawing style from the render.* config keys.
func defaultStyle() render.Style {
	return render.Style{
		"color":     config.GetString("render.color"),
		"linewidth": config.GetFloat("render.linewidth"),
	}
}

// metricsManager returns an influx manager when metrics are enabled,
// nil otherwise.
func metricsManager() *metrics.Manager {
	if !config.GetBool("influx.enabled") {
		return nil
	}

	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	backupPath := filepath.Join(config.GetString("logsDir"),
		fmt.Sprintf("influx_backup.%s.gz", sessionStart.Format("20060102_150405")))

	m := metrics.NewManager(zlog, backupPath)
	if err := m.Connect(); err != nil {
		logger.Error("Metrics disabled", "error", err)
		return nil
	}
	return m
}

func readRegionFile(ctx context.Context, im *metrics.Manager, path string) (*regionio.List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	list, err := regionio.Read(ctx, "", filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	if im != nil {
		_ = im.WritePoint(ctx, metrics.BucketRegionIO,
			metrics.IOPoint("read", regionio.FormatDS9, list.Len(), time.Since(start)))
	}
	return list, nil
}

func runConvert(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("convert requires a region file")
	}
	inPath := args[0]
	outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".pix.reg"
	if len(args) > 1 {
		outPath = args[1]
	}

	ctx := context.Background()
	im := metricsManager()
	list, err := readRegionFile(ctx, im, inPath)
	if err != nil {
		return err
	}

	t, err := transformFromConfig()
	if err != nil {
		return err
	}

	out := &regionio.List{Pixel: list.Pixel}
	for _, sky := range list.Sky {
		start := time.Now()
		pix, err := sky.ToPixel(t, region.ModeLocal, 0)
		if err != nil {
			return fmt.Errorf("convert circle at (%g,%g): %w", sky.Center.Lon, sky.Center.Lat, err)
		}
		circle := pix.(*region.PixelCircle)
		out.Pixel = append(out.Pixel, circle)

		logger.Debug("Converted region",
			"frame", sky.Center.Frame, "radiusPixels", circle.Radius)
		if im != nil {
			_ = im.WritePoint(ctx, metrics.BucketConversion,
				metrics.ConversionPoint(string(sky.Center.Frame), circle.Radius, time.Since(start)))
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := regionio.Write(ctx, regionio.FormatDS9, f, out); err != nil {
		return err
	}
	fmt.Printf("Converted %d sky circles, wrote %d regions to %s\n",
		len(list.Sky), out.Len(), outPath)
	return nil
}

func runRender(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("render requires a region file and an output PNG path")
	}

	ctx := context.Background()
	im := metricsManager()
	list, err := readRegionFile(ctx, im, args[0])
	if err != nil {
		return err
	}

	t, err := transformFromConfig()
	if err != nil {
		return err
	}
	ax := render.NewAxes(t)
	style := defaultStyle()

	start := time.Now()
	canvas := render.NewCanvas(config.GetInt("render.width"), config.GetInt("render.height"))
	defer func() { _ = canvas.Close() }()

	patches := 0
	for _, c := range list.Pixel {
		if err := canvas.DrawPatch(c.AsPatch(render.Merged(style, c.Visual))); err != nil {
			return fmt.Errorf("draw pixel circle: %w", err)
		}
		patches++
	}
	for _, s := range list.Sky {
		patch, err := s.AsPatch(ax, style)
		if err != nil {
			return fmt.Errorf("project sky circle at (%g,%g): %w", s.Center.Lon, s.Center.Lat, err)
		}
		if err := canvas.DrawPatch(patch); err != nil {
			return fmt.Errorf("draw sky circle: %w", err)
		}
		patches++
	}

	if err := canvas.SavePNG(args[1]); err != nil {
		return fmt.Errorf("save PNG: %w", err)
	}
	if im != nil {
		_ = im.WritePoint(ctx, metrics.BucketRender,
			metrics.RenderPoint(patches, time.Since(start)))
	}

	fmt.Printf("Rendered %d regions to %s\n", patches, args[1])
	return nil
}

// openCatalog connects to the database and returns a ready catalog
// service.
func openCatalog() (*catalog.Service, error) {
	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	m := database.NewManager(zlog)
	if err := m.Connect(); err != nil {
		return nil, err
	}
	if err := m.Setup(); err != nil {
		return nil, err
	}

	svc := catalog.NewService(m.DB, logging.NewCatalogLogger(zlog))
	return svc, nil
}

// entryName picks a catalog name for a parsed region: the text
// attribute when present, a positional name otherwise.
func entryName(meta map[string]any, base string, i int) string {
	if text, ok := meta["text"].(string); ok && text != "" {
		return text
	}
	return fmt.Sprintf("%s-%03d", base, i)
}

func runImport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("import requires at least one region file")
	}

	svc, err := openCatalog()
	if err != nil {
		return err
	}

	ctx := context.Background()
	total := 0
	for _, path := range args {
		list, err := readRegionFile(ctx, nil, path)
		if err != nil {
			return err
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		i := 0
		for _, c := range list.Pixel {
			e, err := catalog.EntryFromPixel(entryName(c.Meta, base, i), c)
			if err != nil {
				return err
			}
			if err := svc.Save(ctx, e); err != nil {
				return err
			}
			i++
		}
		for _, s := range list.Sky {
			e, err := catalog.EntryFromSky(entryName(s.Meta, base, i), s)
			if err != nil {
				return err
			}
			if err := svc.Save(ctx, e); err != nil {
				return err
			}
			i++
		}
		total += list.Len()
	}

	fmt.Printf("Imported %d regions into the catalog\n", total)
	return nil
}

func runExport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("export requires an output file")
	}

	svc, err := openCatalog()
	if err != nil {
		return err
	}

	ctx := context.Background()
	entries, err := svc.List(ctx)
	if err != nil {
		return err
	}

	list := &regionio.List{}
	for i := range entries {
		e := &entries[i]
		if e.Frame == catalog.FramePixel {
			c, err := e.PixelCircle()
			if err != nil {
				return err
			}
			list.Pixel = append(list.Pixel, c)
		} else {
			s, err := e.SkyCircle()
			if err != nil {
				return err
			}
			list.Sky = append(list.Sky, s)
		}
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := regionio.Write(ctx, regionio.FormatDS9, f, list); err != nil {
		return err
	}
	fmt.Printf("Exported %d catalog entries to %s\n", list.Len(), args[0])
	return nil
}

func runList() error {
	svc, err := openCatalog()
	if err != nil {
		return err
	}

	entries, err := svc.List(context.Background())
	if err != nil {
		return err
	}

	for _, e := range entries {
		coord, _ := e.Center.Coordinates()
		fmt.Printf("%-24s %-10s center=(%g,%g) radius=%g %s\n",
			e.Name, e.Frame, coord.X, coord.Y, e.RadiusValue, e.RadiusUnit)
	}
	fmt.Printf("%d entries\n", len(entries))
	return nil
}
