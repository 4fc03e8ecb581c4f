package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/assets"
	"campus-map/internal/common/config"
)

func newExtractCmd(cfgFn func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "extract ASSET",
		Short: "Print floors.yaml area records for room_* shapes found in a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return extract(cmd.OutOrStdout(), assets.NewFileStorage(cfgFn().AssetsDir), args[0])
		},
	}
}

func extract(out io.Writer, store *assets.Storage, asset string) error {
	rc, err := store.Open(asset)
	if err != nil {
		return err
	}
	defer rc.Close()

	records, skipped, err := areas.ExtractRecords(rc)
	if err != nil {
		return fmt.Errorf("extract %s: %w", asset, err)
	}
	for _, err := range skipped {
		log.Warn().Err(err).Str("asset", asset).Msg("shape skipped")
	}

	data, err := areas.MarshalRecords(records)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
