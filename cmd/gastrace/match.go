package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdio/gastrace/gastrace/contract"
	"github.com/verdio/gastrace/gastrace/eac"
	"github.com/verdio/gastrace/gastrace/emission"
)

// newMatchCmd runs one offline generation and prints the matched records as
// JSON. Useful for quoting and for inspecting what a search would return.
func newMatchCmd() *cobra.Command {
	var (
		pipelineName    string
		receiptLocation string
		pointNames      []string
		carbonNeutral   bool
		startDate       string
		endDate         string
	)

	cmd := &cobra.Command{
		Use:   "match <contract-id>",
		Short: "Generate matched records for a contract without the service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, ok := contract.ParsePipeline(pipelineName)
			if !ok {
				return fmt.Errorf("unknown pipeline %q", pipelineName)
			}

			start, err := time.Parse("2006-01-02", startDate)
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}

			end, err := time.Parse("2006-01-02", endDate)
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}

			points := make([]emission.Point, 0, len(pointNames))

			for _, name := range pointNames {
				point, err := emission.Parse(name)
				if err != nil {
					return err
				}

				points = append(points, point)
			}

			if len(points) == 0 {
				points = emission.Baseline()
			}

			var loc *contract.ReceiptLocation
			if receiptLocation != "" {
				loc = &contract.ReceiptLocation{ID: receiptLocation}
			}

			if result := contract.Validate(args[0], pipeline, receiptLocation); !result.Valid {
				return fmt.Errorf("invalid contract: %s", result.Message)
			}

			records, err := eac.NewGenerator(nil).Generate(cmd.Context(), eac.GenerateInput{
				ContractID:      args[0],
				Pipeline:        pipeline,
				Points:          points,
				OrderType:       eac.OrderSpot,
				CarbonNeutral:   carbonNeutral,
				Start:           start,
				End:             end,
				ReceiptLocation: loc,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}

			cmd.Println(string(out))

			return nil
		},
	}

	cmd.Flags().StringVar(&pipelineName, "pipeline", "REX", "pipeline (REX or Ruby)")
	cmd.Flags().StringVar(&receiptLocation, "receipt-location", "", "receipt location id (required for REX)")
	cmd.Flags().StringSliceVar(&pointNames, "points", nil, "emission points (default: the four-point baseline)")
	cmd.Flags().BoolVar(&carbonNeutral, "carbon-neutral", false, "append the thermal offset record")
	cmd.Flags().StringVar(&startDate, "start", "", "flow start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "flow end date (YYYY-MM-DD)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
