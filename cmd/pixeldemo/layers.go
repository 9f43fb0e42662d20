package main

import (
	"fmt"
	"image/gif"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixel"
)

func newLayersCommand() *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "layers <input.gif> <output>",
		Short: "Coalesce, optimize or merge the frames of an animated GIF",
		Long: `Method is one of coalesce, optimize, optimize-transparency or a
merge method (merge, flatten, mosaic). Merged output is a single image;
the other methods write an animated GIF.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := readGIF(args[0], cfg)
			if err != nil {
				return err
			}
			pixel.Logger().Debug("sequence loaded", "frames", s.Len())

			switch method {
			case "coalesce":
				s, err = s.Coalesce()
			case "optimize":
				s, err = s.OptimizeLayers()
			case "optimize-transparency":
				s, err = s.OptimizeTransparency()
			default:
				var m pixel.LayerMethod
				if m, err = pixel.ParseLayerMethod(method); err != nil {
					return err
				}
				if s, err = s.MergeLayers(m); err != nil {
					return err
				}
				f, err := s.Frame(0)
				if err != nil {
					return err
				}
				return writeImage(args[1], f.Image)
			}
			if err != nil {
				return err
			}
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := writeGIF(out, s); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", "coalesce", "layer method")
	return cmd
}

func readGIF(path string, cfg *pixel.Config) (*pixel.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pixel.FromGIF(g, pixel.WithConfig(cfg))
}
