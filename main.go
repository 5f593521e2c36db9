package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/labstack/gommon/log"

	"github.com/fukurin00/map_drawer/config"
	"github.com/fukurin00/map_drawer/drawer"
	"github.com/fukurin00/map_drawer/export"
	grid "github.com/fukurin00/map_drawer/routing"
	"github.com/fukurin00/map_drawer/script"
	"github.com/fukurin00/map_drawer/tui"
)

var (
	mode Mode = TERMINAL

	configFile = flag.String("config", "", "drawer config yaml")
	scriptFile = flag.String("script", "", "command file to draw in batch mode")
	output     = flag.String("o", "", "export path after batch (.pgm, .pdf or .json)")
	pdfOutput  = flag.String("pdf", "", "printable sheet path after batch")
	publish    = flag.Bool("publish", false, "publish the drawn map to the mqtt broker")
	mapFile    = flag.String("map", "", "exported map yaml to check")
	route      = flag.String("route", "", "route to check in metres: \"sx,sy gx,gy\"")
	logFile    = flag.String("log", "", "log file")

	cfg config.Config
)

type Mode int

const (
	TERMINAL Mode = iota //draw with mouse and keys
	BATCH                //draw from a command file
	CHECK                //plan a route on an exported map
)

func (m Mode) String() string {
	switch m {
	case TERMINAL:
		return "Terminal"
	case BATCH:
		return "Batch"
	case CHECK:
		return "Check"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// setup parses flags and loads the config. It runs from main rather than
// init so test binaries can register their own flags first.
func setup() {
	flag.Parse()
	if *scriptFile != "" {
		mode = BATCH
	} else if *mapFile != "" {
		mode = CHECK
	}

	cfg = config.Default()
	if *configFile != "" {
		c, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = c
	}
}

// LoggingSettings sends log output to stdout and, when given, appends it
// to logFile. The terminal UI owns stdout, so it logs to the file only.
func LoggingSettings(logFile string, stdout bool) {
	log.SetLevel(cfg.Level())
	var writers []io.Writer
	if stdout {
		writers = append(writers, os.Stdout)
	}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err == nil {
			if f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666); err == nil {
				writers = append(writers, f)
			}
		}
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}
	log.SetOutput(io.MultiWriter(writers...))
}

func runTerminal() error {
	ts, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := ts.Init(); err != nil {
		return err
	}
	defer ts.Fini()

	app := tui.NewApp(ts, cfg.CanvasOptions(), cfg.Resolution, nil)
	return app.Run()
}

func runBatch() error {
	canvas := drawer.New(cfg.CanvasOptions(), nil)
	f, err := os.Open(*scriptFile)
	if err != nil {
		return err
	}
	defer f.Close()

	runner := script.New(canvas, cfg.Resolution)
	if err := runner.Run(f); err != nil {
		return fmt.Errorf("%s: %w", *scriptFile, err)
	}
	log.Infof("%s: %d strokes, %d skipped", *scriptFile, len(canvas.History()), runner.Skipped)

	if *output != "" {
		if err := runner.Export(*output); err != nil {
			return err
		}
	}
	if *pdfOutput != "" {
		if err := (export.PDFSaver{Resolution: cfg.Resolution}).Save(*pdfOutput, canvas); err != nil {
			return err
		}
	}
	if *publish {
		if err := publishMap(canvas.Snapshot()); err != nil {
			return err
		}
	}
	if *route != "" {
		return checkRoute(grid.FromSnapshot(canvas.Snapshot(), cfg.Resolution))
	}
	return nil
}

func publishMap(snap *drawer.Snapshot) error {
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("no mqtt broker configured")
	}
	pub, err := export.NewPublisher(cfg.MQTT.Broker, cfg.MQTT.Topic)
	if err != nil {
		return err
	}
	defer pub.Close()
	return pub.Publish(export.NewOccupancyGrid(snap, cfg.Resolution, time.Now()))
}

func runCheck() error {
	mapMeta, err := grid.ReadMapImage(*mapFile, 0)
	if err != nil {
		return err
	}
	if *route == "" {
		open, close := mapMeta.Counts()
		log.Infof("%s: %dx%d reso %g, open: %d, close: %d", *mapFile, mapMeta.W, mapMeta.H, mapMeta.Reso, open, close)
		return nil
	}
	return checkRoute(mapMeta)
}

func checkRoute(mapMeta *grid.MapMeta) error {
	start, goal, err := parseRoute(*route)
	if err != nil {
		return err
	}
	gridMap := grid.NewGridMap(*mapMeta, cfg.RobotRadius)
	path, err := gridMap.PlanPos(start, goal)
	if err != nil {
		return err
	}
	log.Infof("route (%g,%g) -> (%g,%g): %d cells", start.X, start.Y, goal.X, goal.Y, len(path))
	return nil
}

func parseRoute(s string) (grid.Point, grid.Point, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return grid.Point{}, grid.Point{}, fmt.Errorf("route %q: want \"sx,sy gx,gy\"", s)
	}
	var pts [2]grid.Point
	for i, f := range fields {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return grid.Point{}, grid.Point{}, fmt.Errorf("route point %q: want \"x,y\"", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return grid.Point{}, grid.Point{}, fmt.Errorf("route point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return grid.Point{}, grid.Point{}, fmt.Errorf("route point %q: %w", f, err)
		}
		pts[i] = grid.Point{X: x, Y: y}
	}
	return pts[0], pts[1], nil
}

func main() {
	setup()

	//logging configuration
	lf := *logFile
	if mode == TERMINAL && lf == "" {
		lf = "log/" + time.Now().Format("2006-01-02-15") + ".log"
	}
	LoggingSettings(lf, mode != TERMINAL)
	log.Infof("start map drawer mode:%s, canvas:%dx%d, resolution:%g", mode.String(), cfg.Width, cfg.Height, cfg.Resolution)

	var err error
	switch mode {
	case BATCH:
		err = runBatch()
	case CHECK:
		err = runCheck()
	default:
		err = runTerminal()
	}
	if err != nil {
		log.Fatalf("%s: %v", mode, err)
	}
}
