package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hesusruiz/docweave/config"
	"github.com/hesusruiz/docweave/doctree"
	"github.com/hesusruiz/docweave/markdown"
	"github.com/hesusruiz/docweave/transform"
)

var debug bool

// readInputs walks the input directory and loads every file the
// transformer may care about, with tree paths relative to the root.
func readInputs(inputDir string) ([]transform.Input, error) {
	var inputs []transform.Input
	err := filepath.WalkDir(inputDir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && name != inputDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(inputDir, name)
		if err != nil {
			return err
		}
		p := doctree.ParsePath(filepath.ToSlash(rel))
		if transform.DefaultClassifier(p) == transform.KindStatic {
			return nil
		}
		text, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		inputs = append(inputs, transform.Input{Path: p, Text: string(text)})
		return nil
	})
	return inputs, err
}

// writeOutputs mirrors the input layout under outputDir.
func writeOutputs(outputDir string, outputs []transform.Output) error {
	for _, out := range outputs {
		name := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(out.Path.String(), "/")))
		if err := os.MkdirAll(filepath.Dir(name), 0775); err != nil {
			return err
		}
		if err := os.WriteFile(name, out.HTML, 0664); err != nil {
			return err
		}
		if debug {
			fmt.Println("wrote", name)
		}
	}
	return nil
}

func runOnce(c *cli.Context, inputDir, outputDir string, sugar *zap.SugaredLogger) error {
	inputs, err := readInputs(inputDir)
	if err != nil {
		return err
	}

	// An explicit template takes the place of a default.template.html at
	// the tree root, so it applies everywhere no directory overrides it.
	if name := c.String("template"); name != "" {
		text, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		inputs = append(inputs, transform.Input{
			Path: doctree.ParsePath("/default.template.html"),
			Text: string(text),
		})
	}

	tr := transform.New(markdown.Format(), sugar)
	tr.RenderMessages = c.Bool("render-errors")
	tr.Config = config.New(nil)

	res, err := tr.Transform(context.Background(), inputs)
	for _, pe := range res.Errors {
		sugar.Errorw("input failed", "path", pe.Path.String(), "error", pe.Err)
	}
	if err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return errors.New("some inputs failed, see the log")
	}

	if c.Bool("dryrun") {
		fmt.Printf("dry run: processed %v documents without writing output\n", len(res.Outputs))
		return nil
	}
	return writeOutputs(outputDir, res.Outputs)
}

// processWatch reprocesses the whole input directory whenever any file
// in it changes, polling once per second.
func processWatch(c *cli.Context, inputDir, outputDir string, sugar *zap.SugaredLogger) error {

	var old_timestamp time.Time

	for {
		var current_timestamp time.Time
		err := filepath.WalkDir(inputDir, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.ModTime().After(current_timestamp) {
				current_timestamp = info.ModTime()
			}
			return nil
		})
		if err != nil {
			return err
		}

		if old_timestamp.Before(current_timestamp) {
			old_timestamp = current_timestamp
			fmt.Println("************Processing*************")
			if err := runOnce(c, inputDir, outputDir, sugar); err != nil {
				// Keep watching; the next save may fix it.
				fmt.Println("error:", err)
			}
		}

		time.Sleep(1 * time.Second)
	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	// Default input directory
	var inputDir = "."

	outputDir := c.String("output")

	debug = c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	if c.Args().Present() {
		inputDir = c.Args().First()
	} else {
		fmt.Printf("no input directory provided, using %q\n", inputDir)
	}

	if outputDir == "" {
		outputDir = filepath.Join(inputDir, "_site")
	}

	if c.Bool("watch") {
		return processWatch(c, inputDir, outputDir, sugar)
	}

	return runOnce(c, inputDir, outputDir, sugar)
}

func main() {

	app := &cli.App{
		Name:     "docweave",
		Version:  "v0.1",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "transform a tree of markup documents into HTML",
		UsageText: "docweave [options] [INPUT_DIR] (default input directory is the current one)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the site to `DIR` (default is INPUT_DIR/_site)",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "use `FILE` as the root page template",
			},
			&cli.BoolFlag{
				Name:    "render-errors",
				Aliases: []string{"e"},
				Usage:   "render unresolved references and other errors in place instead of failing",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output files, just process the input tree",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the input directory for changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}

}
