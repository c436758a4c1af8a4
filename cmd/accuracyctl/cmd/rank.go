package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

var trendSymbols = map[float64]string{1: "↑", 0: "→", -1: "↓"}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print agent rankings for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		detailed, _ := cmd.Flags().GetBool("subjects")

		client, ctx, cleanup, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		req, err := structpb.NewStruct(map[string]interface{}{"period": period})
		if err != nil {
			return err
		}

		resp, err := client.GetRankings(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to get rankings: %w", err)
		}

		fields := resp.GetFields()
		fmt.Fprintf(cmd.OutOrStdout(), "Period: %s (generated %s)\n\n",
			fields["period"].GetStringValue(), fields["generated_at"].GetStringValue())

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RANK\tAGENT\tACCURACY\tPREDICTIONS\tMAE\tMAPE\tTREND")
		for _, v := range fields["rankings"].GetListValue().GetValues() {
			r := v.GetStructValue().GetFields()
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%.4f\t%.2f\t%s\n",
				int(r["rank"].GetNumberValue()),
				r["agent_name"].GetStringValue(),
				r["overall_accuracy"].GetNumberValue(),
				int(r["total_predictions"].GetNumberValue()),
				r["avg_absolute_error"].GetNumberValue(),
				r["avg_percentage_error"].GetNumberValue(),
				trendSymbols[r["trend"].GetNumberValue()],
			)

			if detailed {
				for _, s := range r["subject_performance"].GetListValue().GetValues() {
					sp := s.GetStructValue().GetFields()
					fmt.Fprintf(w, "\t  %s\t%.2f\t%d\t\t\t\n",
						sp["subject_name"].GetStringValue(),
						sp["accuracy"].GetNumberValue(),
						int(sp["predictions"].GetNumberValue()),
					)
				}
			}
		}
		return w.Flush()
	},
}

func init() {
	rankCmd.Flags().StringP("period", "p", "all", "Evaluation period (7d, 30d, 90d, all)")
	rankCmd.Flags().Bool("subjects", false, "Include the per-subject breakdown")
	rootCmd.AddCommand(rankCmd)
}
