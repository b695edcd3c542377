package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hesusruiz/texmd/loader"
	"github.com/hesusruiz/texmd/server"
	"github.com/hesusruiz/texmd/structure"
	"github.com/hesusruiz/texmd/texmd"
	"github.com/sanity-io/litter"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Default input file name
const defaultInput = "main.tex"

// newLogger sets up the logging system, verbose in debug mode
func newLogger(debug bool) *zap.SugaredLogger {
	var z *zap.Logger
	var err error

	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return z.Sugar()
}

func inputFile(c *cli.Context) string {
	if c.Args().Present() {
		return c.Args().First()
	}
	fmt.Printf("no input file provided, using \"%v\"\n", defaultInput)
	return defaultInput
}

// convertFile loads a LaTeX project with its configuration and converts it
func convertFile(c *cli.Context, inputFileName string, sugar *zap.SugaredLogger) (*texmd.Document, *texmd.Config, error) {
	cfg, err := texmd.FindConfig(c.String("config"), inputFileName)
	if err != nil {
		return nil, nil, err
	}

	src, err := loader.Load(inputFileName, sugar)
	if err != nil {
		return nil, nil, err
	}
	sugar.Debugw("source loaded", "file", src.Path, "encoding", src.Encoding, "inlined", len(src.Inlined))

	doc, err := texmd.Convert(src.Content, cfg, sugar)
	if err != nil {
		return nil, nil, err
	}
	return doc, cfg, nil
}

// generate converts the input file and writes all the outputs requested
func generate(c *cli.Context, inputFileName string, sugar *zap.SugaredLogger) error {
	doc, cfg, err := convertFile(c, inputFileName, sugar)
	if err != nil {
		return err
	}

	if c.Bool("stdout") {
		fmt.Print(doc.Markdown())
		return nil
	}

	depth := cfg.Depth
	if c.IsSet("depth") {
		depth = c.Int("depth")
	}
	fs := doc.Structure(depth)

	if c.Bool("dump-tree") {
		fmt.Println(texmd.Dump(doc))
		litter.Dump(fs)
	}

	// Do nothing if flag dryrun was specified
	if c.Bool("dryrun") {
		for _, f := range structure.Files(fs, cfg.Suffix) {
			fmt.Printf("would write %v (%d bytes)\n", filepath.Join(c.String("output"), f.Path), len(f.Content))
		}
		return nil
	}

	outDir := c.String("output")
	written, err := structure.Export(fs, outDir, cfg.Suffix)
	if err != nil {
		return err
	}
	sugar.Infow("files written", "folder", outDir, "count", len(written))

	if c.Bool("sphinx") || cfg.Sphinx {
		path, err := structure.WriteSphinxConf(outDir, cfg.Project, cfg.Author, cfg.Release)
		if err != nil {
			return err
		}
		sugar.Infow("sphinx configuration written", "file", path)
	}

	if svgFile := c.String("outline-svg"); len(svgFile) > 0 {
		svg, err := structure.RenderDiagram(c.Context, structure.DiagramSource(fs, cfg.Suffix))
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgFile, svg, 0664); err != nil {
			return err
		}
		sugar.Infow("outline diagram written", "file", svgFile)
	}

	return nil
}

// processWatch converts the input file every time it is modified, and never returns
// unless the file can not be read
func processWatch(c *cli.Context, inputFileName string, sugar *zap.SugaredLogger) error {
	var old_timestamp time.Time

	for {
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}
		current_timestamp := info.ModTime()

		// If current modified timestamp is newer than the previous timestamp, process the file
		if old_timestamp.Before(current_timestamp) {
			old_timestamp = current_timestamp
			fmt.Println("************Processing*************")
			if err := generate(c, inputFileName, sugar); err != nil {
				// Keep watching, the next edit may fix it
				sugar.Errorw("conversion failed", "file", inputFileName, "error", err)
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)
	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {
	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	inputFileName := inputFile(c)

	switch {
	case c.Bool("stdout"):
	case !c.Bool("dryrun"):
		fmt.Printf("processing %v and generating files in %v\n", inputFileName, c.String("output"))
	default:
		fmt.Printf("dry run: processing %v without writing output\n", inputFileName)
	}

	// If the user specified to watch, loop forever processing the input file when modified
	if c.Bool("watch") {
		return processWatch(c, inputFileName, sugar)
	}

	return generate(c, inputFileName, sugar)
}

// outline prints the tree of headings of the converted document
func outline(c *cli.Context) error {
	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	doc, _, err := convertFile(c, inputFile(c), sugar)
	if err != nil {
		return err
	}
	fmt.Print(structure.FormatOutline(structure.Headings([]byte(doc.Markdown()))))
	return nil
}

// serve runs the HTTP API until the process is interrupted
func serve(c *cli.Context) error {
	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	cfg, err := texmd.FindConfig(c.String("config"), "")
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           server.New(cfg, sugar),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	sugar.Infow("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "read options from `FILE` (default is texmd.yaml next to the input file)",
	}
	debugFlag := &cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"d"},
		Usage:   "run in debug mode",
	}

	app := &cli.App{
		Name:     "texmd",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "convert a LaTeX document to Markdown files for Sphinx and MyST",
		UsageText: "texmd [options] [INPUT_FILE] (default input file is main.tex)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "docs",
				Usage:   "write the Markdown files in `FOLDER`",
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "give a file of its own to each section up to `LEVEL` (default from the configuration)",
			},
			&cli.BoolFlag{
				Name:    "stdout",
				Aliases: []string{"s"},
				Usage:   "print the whole document as a single Markdown text",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not write output files, just list them",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
			&cli.BoolFlag{
				Name:  "sphinx",
				Usage: "write a conf.py for Sphinx in the output folder",
			},
			&cli.StringFlag{
				Name:  "outline-svg",
				Usage: "draw the tree of output files in `FILE` as SVG",
			},
			&cli.BoolFlag{
				Name:  "dump-tree",
				Usage: "print the expanded node tree and the file decomposition",
			},
			configFlag,
			debugFlag,
		},
		Commands: []*cli.Command{
			{
				Name:      "outline",
				Usage:     "print the headings of the converted document",
				ArgsUsage: "[INPUT_FILE]",
				Action:    outline,
				Flags:     []cli.Flag{configFlag, debugFlag},
			},
			{
				Name:   "serve",
				Usage:  "run an HTTP API to convert documents",
				Action: serve,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: ":8080",
						Usage: "listen on `ADDRESS`",
					},
					configFlag,
					debugFlag,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}

}
