// Command pixeldemo demonstrates the pixel image processing library.
package main

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixel"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "pixeldemo",
		Short:         "Run pixel operators over images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			pixel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.AddCommand(newDemoCommand(), newConvertCommand(), newLayersCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config, or returns the defaults when it is unset.
func loadConfig() (*pixel.Config, error) {
	if configPath == "" {
		return pixel.DefaultConfig(), nil
	}
	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := pixel.LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	pixel.Logger().Info("configuration loaded", "path", configPath, "depth", cfg.Depth, "filter", cfg.Filter)
	return cfg, nil
}

func readImage(path string, cfg *pixel.Config) (*pixel.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pixel.Logger().Debug("decoded", "path", path, "format", format, "bounds", src.Bounds())
	return pixel.FromStdImage(src, pixel.WithConfig(cfg))
}

func writeImage(path string, im *pixel.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, im.StdImage(), &jpeg.Options{Quality: 92})
	case ".gif":
		var s *pixel.Sequence
		if s, err = pixel.NewSequence(pixel.NewFrame(im)); err == nil {
			err = writeGIF(f, s)
		}
	default:
		err = png.Encode(f, im.StdImage())
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeGIF(f *os.File, s *pixel.Sequence) error {
	g, err := s.GIF()
	if err != nil {
		return err
	}
	return gif.EncodeAll(f, g)
}
