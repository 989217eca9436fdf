package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tagdraw/internal/drawer"
	tdimage "tagdraw/internal/image"
	"tagdraw/internal/project"
	"tagdraw/internal/scene"
)

// renderMargin pads snapshots of projects without an image so labels above
// the topmost shapes stay visible.
const renderMargin = 24

func newRenderCommand(flags *globalFlags) *cobra.Command {
	var output string
	var labels bool

	cmd := &cobra.Command{
		Use:   "render <project>",
		Short: "Render a project to a PNG without opening a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
			}
			if err := renderProject(cfg.DrawerOptions(logger), args[0], output, labels); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG (default: project name with .png)")
	cmd.Flags().BoolVar(&labels, "labels", true, "Draw annotation labels")
	return cmd
}

// renderProject draws the project's annotations over its image at scale 1
// and writes the result to output.
func renderProject(opts drawer.Options, projectPath, output string, labels bool) error {
	p, err := project.Load(projectPath)
	if err != nil {
		return err
	}

	stage := scene.NewStage(scene.StageOptions{Background: color.White})
	d := drawer.New(stage, opts)

	var width, height int
	if imgPath := p.ImagePathFor(projectPath); imgPath != "" {
		bg, err := tdimage.Load(imgPath)
		if err != nil {
			return fmt.Errorf("project image: %w", err)
		}
		d.SetImage(bg.Image)
		width, height = bg.Width(), bg.Height()
	} else {
		width, height = extent(p)
	}
	d.SetViewportSize(float64(width), float64(height))

	if err := d.SetDataList(p.Annotations); err != nil {
		return err
	}
	d.RedrawAll()
	if labels {
		for i := 0; i < d.Len(); i++ {
			if err := d.SetLabelVisible(drawer.At(i), true); err != nil {
				return err
			}
		}
	}

	return writePNG(output, stage.Render(width, height, 1))
}

// extent returns a canvas size covering every annotation.
func extent(p *project.File) (int, int) {
	w, h := 1.0, 1.0
	for _, a := range p.Annotations {
		br := a.Geometry.Bounds().BottomRight()
		w = math.Max(w, br.X)
		h = math.Max(h, br.Y)
	}
	return int(math.Ceil(w)) + renderMargin, int(math.Ceil(h)) + renderMargin
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
