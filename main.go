package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wader/subcat/internal/csri"
	"github.com/wader/subcat/internal/csri/ffass"
	"github.com/wader/subcat/internal/goffmpeg"
	"github.com/wader/subcat/internal/iterm2"
	"github.com/wader/subcat/internal/provider"
	"github.com/wader/subcat/internal/subtitle"
	"github.com/wader/subcat/internal/video"

	_ "github.com/wader/subcat/internal/csri/all"
)

type timestamp float64

func (t *timestamp) String() string {
	return goffmpeg.SecondsToPosition(float64(*t))
}

// [[hh:]mm:]ss[.fff]
func (t *timestamp) Set(s string) error {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return fmt.Errorf("invalid timestamp %q", s)
	}
	v := float64(0)
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid timestamp %q", s)
		}
		v = v*60 + f
	}
	*t = timestamp(v)
	return nil
}

type size struct {
	width  int
	height int
}

func (sz *size) String() string {
	return fmt.Sprintf("%dx%d", sz.width, sz.height)
}

// WxH
func (sz *size) Set(s string) error {
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return fmt.Errorf("invalid size %q, should be WxH", s)
	}
	w, werr := strconv.Atoi(ws)
	h, herr := strconv.Atoi(hs)
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return fmt.Errorf("invalid size %q, should be WxH", s)
	}
	sz.width, sz.height = w, h
	return nil
}

func envOr(name string, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

var timeFlag timestamp
var sizeFlag = size{width: 640, height: 360}
var formatFlag = video.FormatRGB32

var rendererFlag = flag.String("r", "", "Renderer, default renderer if not found")
var providerFlag = flag.String("p", "csri", "Subtitle provider")
var inputFlag = flag.String("i", "", "Video or image to draw on instead of a blank canvas")
var outputFlag = flag.String("o", "", "Write result to png or bmp file instead of showing it")
var flipFlag = flag.Bool("flip", false, "Use bottom-up frame storage")
var watchFlag = flag.Bool("w", false, "Redraw when subtitles file changes")
var listFlag = flag.Bool("l", false, "List providers and renderers")
var debugFlag = flag.Bool("d", false, "Debug")
var verboseFlag = flag.Bool("v", false, "Verbose")

func verbosef(s string, args ...interface{}) {
	if *verboseFlag {
		fmt.Printf(s, args...)
	}
}

func debugf(s string, args ...interface{}) {
	if *debugFlag {
		fmt.Printf(s, args...)
	}
}

func init() {
	flag.Var(&timeFlag, "t", "Time [[hh:]mm:]ss")
	flag.Var(&sizeFlag, "s", "Canvas size WxH")
	flag.Var(&formatFlag, "f", "Frame format rgb32 or rgb24")
	flag.StringVar(&goffmpeg.FFmpegPath, "ffmpeg", envOr("SUBCAT_FFMPEG", goffmpeg.FFmpegPath), "ffmpeg binary")
	flag.StringVar(&goffmpeg.FFprobePath, "ffprobe", envOr("SUBCAT_FFPROBE", goffmpeg.FFprobePath), "ffprobe binary")
}

// outputFormat checks that frames of format f can be shown or written
func outputFormat(f video.Format) error {
	switch f {
	case video.FormatRGB32, video.FormatRGB24:
		return nil
	}
	return fmt.Errorf("frame format %s can't be shown, use rgb32 or rgb24", f)
}

func newFrame(ctx context.Context, debugLog goffmpeg.Printer) (*video.Frame, error) {
	if *inputFlag == "" {
		return video.NewFrame(sizeFlag.width, sizeFlag.height, formatFlag, *flipFlag)
	}

	switch strings.ToLower(filepath.Ext(*inputFlag)) {
	case ".png", ".jpg", ".jpeg", ".bmp":
		m, err := video.ReadImage(*inputFlag)
		if err != nil {
			return nil, err
		}
		return video.FromImage(m, formatFlag, *flipFlag)
	default:
		return video.Extract(ctx, *inputFlag, float64(timeFlag), formatFlag, *flipFlag, debugLog)
	}
}

func show(f *video.Frame) error {
	m, err := f.Image()
	if err != nil {
		return err
	}

	if *outputFlag != "" {
		verbosef("%s: %dx%d %s\n", *outputFlag, f.W, f.H, f.Format)
		return video.WriteImage(*outputFlag, m)
	}

	if !iterm2.IsCompatible() {
		return errors.New("not iterm2 terminal, use -o to write to a file")
	}
	r, err := iterm2.PixelResolution(os.Stdin)
	if err != nil {
		debugf("pixel resolution: %s\n", err)
	}
	if *watchFlag {
		if err := iterm2.ClearScrollback(os.Stdout); err != nil {
			return err
		}
	}
	if err := iterm2.Image(os.Stdout, iterm2.Fit(m, r.Width, r.Height)); err != nil {
		return err
	}
	fmt.Println()

	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] subtitles-file\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	csri.SetLogger(logger)
	var debugLog goffmpeg.Printer = goffmpeg.NopPrinter{}
	if *debugFlag {
		debugLog = slog.NewLogLogger(logger.Handler(), slog.LevelDebug)
	}

	// -ffmpeg might point somewhere init could not see
	ffass.Register()

	if *listFlag {
		for _, n := range provider.Names() {
			fmt.Println(n)
			for _, st := range provider.SubTypes(n) {
				fmt.Printf("  %s\n", st)
			}
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := outputFormat(formatFlag); err != nil {
		fmt.Fprintf(os.Stderr, "-f: %s\n", err)
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := func() error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		p, err := provider.Create(*providerFlag, *rendererFlag)
		if err != nil {
			return err
		}
		defer p.Close()

		draw := func() error {
			doc, err := subtitle.LoadFile(path)
			if err != nil {
				return err
			}
			verbosef("%s: %s %d lines\n", path, doc.Format, len(doc.Lines))
			if err := p.LoadSubtitles(doc); err != nil {
				return err
			}

			f, err := newFrame(ctx, debugLog)
			if err != nil {
				return err
			}
			debugf("drawing %s %dx%d flipped=%t at %s\n", f.Format, f.W, f.H, f.Flipped, timeFlag.String())
			p.DrawSubtitles(f, float64(timeFlag))

			return show(f)
		}

		if err := draw(); err != nil {
			if !*watchFlag {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
		}
		if !*watchFlag {
			return nil
		}

		verbosef("watching %s\n", path)
		return subtitle.Watch(ctx, path, func() {
			if err := draw(); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
			}
		})
	}(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
		os.Exit(1)
	}
}
