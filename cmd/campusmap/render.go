package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"campus-map/internal/campus/controller"
	"campus-map/internal/campus/mapview"
	"campus-map/internal/campus/render"
	"campus-map/internal/common/config"
)

type renderOptions struct {
	floor  int
	room   string
	width  int
	height int
	debugX float64
	debugY float64
	output string
}

func newRenderCmd(cfgFn func() *config.Config) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one floor frame to a PNG or WebP file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFn()
			if !cmd.Flags().Changed("width") {
				opts.width = cfg.ViewportWidth
			}
			if !cmd.Flags().Changed("height") {
				opts.height = cfg.ViewportHeight
			}
			debug := cmd.Flags().Changed("debug-x") && cmd.Flags().Changed("debug-y")
			return renderFrame(cmd.Context(), cfg, opts, cmd.Flags().Changed("floor"), debug)
		},
	}

	cmd.Flags().IntVar(&opts.floor, "floor", 0, "Floor number (default: catalog default)")
	cmd.Flags().StringVar(&opts.room, "room", "", "Room id to highlight")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Viewport width")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Viewport height")
	cmd.Flags().Float64Var(&opts.debugX, "debug-x", 0, "Debug tap X in device pixels")
	cmd.Flags().Float64Var(&opts.debugY, "debug-y", 0, "Debug tap Y in device pixels")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "floor.png", "Output file (.png or .webp)")
	return cmd
}

func renderFrame(ctx context.Context, cfg *config.Config, opts renderOptions, floorSet, debug bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := render.ParseFormat(filepath.Ext(opts.output))
	if err != nil {
		return err
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", opts.width, opts.height)
	}

	d, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	surface := mapview.New(d.assets)
	surface.SetViewport(opts.width, opts.height)
	ctrl := controller.New(surface, d.catalog, nil)

	floor := d.catalog.DefaultFloor()
	if floorSet {
		floor = opts.floor
	}
	if err := ctrl.SelectFloor(floor); err != nil {
		return err
	}

	if opts.room != "" && !surface.SetSelectedRoom(opts.room) {
		return fmt.Errorf("room %q is not on floor %d", opts.room, floor)
	}

	if debug {
		ctrl.SetDebug(true)
		res := ctrl.Tap(opts.debugX, opts.debugY)
		if res.Hint != nil {
			fmt.Fprintln(os.Stderr, res.Hint.Text)
		}
	}

	img := render.NewCanvas(opts.width, opts.height)
	if err := surface.Render(img); err != nil {
		if !errors.Is(err, mapview.ErrRender) {
			return err
		}
		log.Warn().Err(err).Msg("frame rendered partially")
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := render.Encode(f, img, format); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	log.Info().Str("file", opts.output).Int("floor", floor).Int("width", opts.width).Int("height", opts.height).Msg("frame written")
	return nil
}
