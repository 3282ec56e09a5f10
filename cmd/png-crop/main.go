package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/ironsheep/png-crop/internal/codec"
	"github.com/ironsheep/png-crop/internal/detection"
	"github.com/ironsheep/png-crop/internal/editor"
	"github.com/ironsheep/png-crop/internal/imaging"
	"github.com/ironsheep/png-crop/internal/pixel"
	"github.com/ironsheep/png-crop/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `png-crop - PNG viewer and cropper

Usage: png-crop [options] <input>
       png-crop --serve

Options:
  -q, --quiet              Don't show the interactive crop prompt
  -o, --output <file>      Write the result (.png, .jpg or .bmp)
  --left, --right, --top, --bottom <n>
                           Pixels to crop from each edge
  --trim                   Also crop away the uniform border
  --tolerance <n>          Per-channel tolerance for --trim (0-255)
  --format <name>          Convert to gray, gray_alpha, rgb or rgba
  --flip <dir>             Mirror horizontal or vertical
  --serve                  Run the MCP server on stdin/stdout
  --version, -v            Print version information
  --help, -h               Print this help message

Interactive keys (one per line): up, down, left, right, r, escape.
Prefix with shift+ to release an edge and ctrl+ to move ten pixels.

Environment variables:
  PNG_CROP_LOG_LEVEL=debug    Enable debug logging
`

// options holds the parsed command line.
type options struct {
	quiet     bool
	serve     bool
	trim      bool
	tolerance int
	output    string
	format    string
	flip      string
	crop      editor.Amounts
	input     string
}

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("png-crop %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Print(usage)
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// parseArgs parses flags and the input path. Flags may follow the input.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("png-crop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	fs.BoolVar(&o.quiet, "q", false, "")
	fs.BoolVar(&o.quiet, "quiet", false, "")
	fs.StringVar(&o.output, "o", "", "")
	fs.StringVar(&o.output, "output", "", "")
	fs.IntVar(&o.crop.Left, "left", 0, "")
	fs.IntVar(&o.crop.Right, "right", 0, "")
	fs.IntVar(&o.crop.Top, "top", 0, "")
	fs.IntVar(&o.crop.Bottom, "bottom", 0, "")
	fs.StringVar(&o.format, "format", "", "")
	fs.StringVar(&o.flip, "flip", "", "")
	fs.BoolVar(&o.serve, "serve", false, "")
	fs.BoolVar(&o.trim, "trim", false, "")
	fs.IntVar(&o.tolerance, "tolerance", 0, "")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	switch {
	case o.serve && len(positional) == 0:
	case len(positional) == 1:
		o.input = positional[0]
	case len(positional) == 0:
		return nil, errors.New("missing input file")
	default:
		return nil, fmt.Errorf("expected one input file, got %d", len(positional))
	}

	if o.tolerance < 0 || o.tolerance > 255 {
		return nil, fmt.Errorf("tolerance must be between 0 and 255, got %d", o.tolerance)
	}
	if o.flip != "" && o.flip != "horizontal" && o.flip != "vertical" {
		return nil, fmt.Errorf("unknown flip direction %q (want horizontal or vertical)", o.flip)
	}
	return &o, nil
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	debug := os.Getenv("PNG_CROP_LOG_LEVEL") == "debug"

	o, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "png-crop: %v\n", err)
		return 2
	}

	if o.serve {
		if debug {
			log.Printf("PNG crop MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		}
		server.Version = Version
		srv := server.New()
		srv.Debug = debug
		if err := srv.Serve(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Server error: %v", err)
			return 1
		}
		return 0
	}

	var format pixel.Format
	if o.format != "" {
		if format, err = pixel.ParseFormat(o.format); err != nil {
			fmt.Fprintf(stderr, "png-crop: %v\n", err)
			return 2
		}
	}

	img, err := codec.Load(o.input)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if debug {
		log.Printf("loaded %s: %dx%d %s", o.input, img.Width(), img.Height(), img.Format())
	}

	if o.trim {
		detected := detection.DetectMargins(img, o.tolerance)
		m := detected.Margins
		o.crop.Left = addMargin(o.crop.Left, m.Left)
		o.crop.Right = addMargin(o.crop.Right, m.Right)
		o.crop.Top = addMargin(o.crop.Top, m.Top)
		o.crop.Bottom = addMargin(o.crop.Bottom, m.Bottom)
		if debug {
			log.Printf("trim: background %s, margins %+v", detected.Background, m)
		}
	}

	var result *imaging.Image
	if o.quiet {
		result = img.Crop(o.crop.Left, o.crop.Right, o.crop.Top, o.crop.Bottom)
	} else {
		result = interact(ctx, img, o.crop, stdin, stdout)
	}

	if o.format != "" {
		result = result.Convert(format)
	}
	switch o.flip {
	case "horizontal":
		result = result.FlipHorizontal()
	case "vertical":
		result = result.FlipVertical()
	}

	if o.output != "" {
		// A failed write is reported; the exit status still reflects the pipeline.
		if err := codec.Save(o.output, result); err != nil {
			fmt.Fprintln(stderr, err)
		} else if debug {
			log.Printf("wrote %s: %dx%d %s", o.output, result.Width(), result.Height(), result.Format())
		}
	}
	return 0
}

// addMargin adds a detected margin (never negative) to a crop amount,
// saturating at math.MaxInt.
func addMargin(amount, margin int) int {
	if amount > math.MaxInt-margin {
		return math.MaxInt
	}
	return amount + margin
}

// interact prints the image info and applies key presses read from in, one
// per line, until escape, end of input or cancellation. It returns the
// cropped view.
func interact(ctx context.Context, img *imaging.Image, start editor.Amounts, in io.Reader, out io.Writer) *imaging.Image {
	info := codec.Describe(img, 0)
	fmt.Fprintf(out, "%dx%d %s (%d channels, PNG color type %d)\n",
		info.Width, info.Height, info.Format, info.Channels, info.ColorType)

	sess := editor.NewSession(img)
	sess.Set(start)
	printView(out, sess)

	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, mods, err := editor.ParseKeyPress(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if sess.HandleKey(key, mods) {
			break
		}
		printView(out, sess)
	}
	return sess.View()
}

func printView(out io.Writer, sess *editor.Session) {
	a := sess.Amounts()
	view := sess.View()
	fmt.Fprintf(out, "view %dx%d  crop left=%d right=%d top=%d bottom=%d\n",
		view.Width(), view.Height(), a.Left, a.Right, a.Top, a.Bottom)
}
