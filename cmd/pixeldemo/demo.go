package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/pixel"
	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/text"
)

func newDemoCommand() *cobra.Command {
	var (
		width, height int
		output        string
		caption       string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a synthetic image through a fixed pipeline",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			im, err := pixel.New(width, height, pixel.WithConfig(cfg))
			if err != nil {
				return err
			}
			if err := drawGradient(im); err != nil {
				return err
			}
			if err := runDemo(im, caption); err != nil {
				return err
			}
			if err := writeImage(output, im); err != nil {
				return err
			}
			w, h := im.Size()
			pixel.Logger().Info("demo saved", "path", output, "width", w, "height", h)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 640, "image width")
	cmd.Flags().IntVar(&height, "height", 400, "image height")
	cmd.Flags().StringVarP(&output, "output", "o", "demo.png", "output file")
	cmd.Flags().StringVar(&caption, "caption", "pixel", "caption text")
	return cmd
}

// drawGradient paints a vertical blue gradient with a diagonal tint.
func drawGradient(im *pixel.Image) error {
	w, h := im.Size()
	for y := range h {
		t := float64(y) / float64(h)
		for x := range w {
			s := float64(x) / float64(w)
			if err := im.SetPixel(x, y, pixel.RGB(0.1+t*0.4, 0.2+s*0.3, 0.4+t*0.2)); err != nil {
				return err
			}
		}
	}
	return nil
}

func runDemo(im *pixel.Image, caption string) error {
	w, h := im.Size()
	steps := []func() error{
		func() error {
			return im.Caption(caption, pixel.CaptionOptions{
				Font:    &text.Font{Color: pixel.White, Antialias: true},
				Left:    w / 8,
				Top:     h / 4,
				Width:   w * 3 / 4,
				Height:  h / 2,
				Gravity: geometry.Center,
			})
		},
		func() error { return im.Implode(0.3) },
		func() error { return im.Vignette(0, 8, w/10, h/10) },
		func() error { return im.Rotate(12, pixel.White) },
		func() error { return im.Border(pixel.Black, 4, 4) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
