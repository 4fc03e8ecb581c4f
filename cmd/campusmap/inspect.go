package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"campus-map/internal/campus/controller"
	"campus-map/internal/campus/detail"
	"campus-map/internal/campus/mapview"
	"campus-map/internal/common/config"
)

type inspectOptions struct {
	floor  int
	width  int
	height int
	debug  bool
}

func newInspectCmd(cfgFn func() *config.Config) *cobra.Command {
	opts := inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect X Y",
		Short: "Resolve a device-space tap to a room and print its schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}

			cfg := cfgFn()
			if !cmd.Flags().Changed("width") {
				opts.width = cfg.ViewportWidth
			}
			if !cmd.Flags().Changed("height") {
				opts.height = cfg.ViewportHeight
			}
			return inspect(cmd.Context(), cmd.OutOrStdout(), cfg, opts, cmd.Flags().Changed("floor"), x, y)
		},
	}

	cmd.Flags().IntVar(&opts.floor, "floor", 0, "Floor number (default: catalog default)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Viewport width")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Viewport height")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Print plan coordinates and a suggested area record")
	return cmd
}

// navigation запоминает, куда controller отправил бы пользователя.
type navigation struct{ roomID string }

func (n *navigation) OpenSchedule(roomID string) { n.roomID = roomID }

func inspect(ctx context.Context, out io.Writer, cfg *config.Config, opts inspectOptions, floorSet bool, x, y float64) error {
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	surface := mapview.New(d.assets)
	surface.SetViewport(opts.width, opts.height)
	nav := &navigation{}
	ctrl := controller.New(surface, d.catalog, nav)

	floor := d.catalog.DefaultFloor()
	if floorSet {
		floor = opts.floor
	}
	if err := ctrl.SelectFloor(floor); err != nil {
		return err
	}

	if opts.debug {
		ctrl.SetDebug(true)
		res := ctrl.Tap(x, y)
		if res.Hint == nil {
			return fmt.Errorf("no debug hint for tap (%v, %v)", x, y)
		}
		fmt.Fprintln(out, res.Hint.Text)
		return nil
	}

	res := ctrl.Tap(x, y)
	if !res.Hit {
		px, py := surface.ToPlan(x, y)
		fmt.Fprintf(out, "no room at device (%v, %v), plan (%.1f, %.1f)\n", x, y, px, py)
		return nil
	}

	view, err := detail.Build(ctx, d.rooms, nav.roomID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", res.RoomID, view.Title)
	for _, item := range view.Items {
		fmt.Fprintf(out, "  %s  %s  %s  %s\n", item.Time, item.Subject, item.Teacher, item.Group)
	}
	return nil
}
