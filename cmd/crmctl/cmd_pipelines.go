package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/opportunities"
)

var pipelinesCmd = &cobra.Command{
	Use:   "pipelines",
	Short: "Manage pipelines and opportunities",
}

var (
	countsPipeline    string
	countsConcurrency int

	oppSearchPipeline string
	oppSearchStage    string
	oppSearchStatus   string
	oppSearchLimit    int
)

var pipelinesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipelines with their stages",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := opportunities.NewService(client, log)

		pipelines, err := svc.ListPipelines(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(pipelines)
	},
}

var pipelinesCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Aggregate open opportunity count and value per stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if countsPipeline == "" {
			return fmt.Errorf("--pipeline is required")
		}
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := opportunities.NewService(client, log)

		var opts []opportunities.CountOption
		if countsConcurrency > 1 {
			opts = append(opts, opportunities.WithStageConcurrency(countsConcurrency))
		}
		counts, err := svc.GetPipelineWithCounts(cmd.Context(), countsPipeline, opts...)
		if err != nil {
			return err
		}
		return printJSON(counts)
	},
}

var opportunitiesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search opportunities",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := opportunities.NewService(client, log)

		result, err := svc.Search(cmd.Context(), opportunities.SearchParams{
			PipelineID: oppSearchPipeline,
			StageID:    oppSearchStage,
			Status:     opportunities.OpportunityStatus(oppSearchStatus),
			Limit:      oppSearchLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	pipelinesCmd.AddCommand(pipelinesListCmd)
	pipelinesCmd.AddCommand(pipelinesCountsCmd)
	pipelinesCmd.AddCommand(opportunitiesSearchCmd)

	pipelinesCountsCmd.Flags().StringVar(&countsPipeline, "pipeline", "", "Pipeline id")
	pipelinesCountsCmd.Flags().IntVar(&countsConcurrency, "concurrency", 0, "Per-stage call concurrency (default sequential)")

	opportunitiesSearchCmd.Flags().StringVar(&oppSearchPipeline, "pipeline", "", "Filter by pipeline id")
	opportunitiesSearchCmd.Flags().StringVar(&oppSearchStage, "stage", "", "Filter by stage id")
	opportunitiesSearchCmd.Flags().StringVar(&oppSearchStatus, "status", "", "open, won, lost or abandoned")
	opportunitiesSearchCmd.Flags().IntVar(&oppSearchLimit, "limit", 20, "Page size")
}
