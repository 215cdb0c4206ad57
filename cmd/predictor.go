package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayushhealth/ayushbot/internal/store"
)

var predictorCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Inspect logged diagnosis service calls",
}

var predictorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent diagnosis service calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")

		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.HistoryRepo().QueryPredictorEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No diagnosis service calls recorded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-6s  %-7s  %-2s  %s\n",
			"Seq", "Timestamp", "Endpoint", "Status", "Ms", "OK", "Error")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range events {
			if failed && e.Success {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			status := "-"
			if e.StatusCode != 0 {
				status = strconv.Itoa(e.StatusCode)
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-6s  %-7d  %-2s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format(timeLayout),
				e.Endpoint,
				status,
				e.LatencyMs,
				ok,
				truncate(e.ErrorMessage, 40),
			)
		}
		return nil
	},
}

var predictorViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "View the full request and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", args[0], err)
		}

		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.HistoryRepo().QueryPredictorEvents(cmd.Context(),
			store.QueryOpts{After: seq - 1, Before: seq + 1, Limit: 1})
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if len(events) == 0 {
			return fmt.Errorf("event %d not found", seq)
		}
		e := events[0]

		sep := strings.Repeat("─", 60)
		fmt.Printf("Seq:       %d\n", e.Sequence)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
		fmt.Printf("Endpoint:  %s\n", e.Endpoint)
		fmt.Printf("Status:    %d\n", e.StatusCode)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}

		fmt.Println()
		for _, part := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			fmt.Println(sep)
			fmt.Println(part.title)
			fmt.Println(sep)
			fmt.Println(orNotCaptured(part.body))
		}
		return nil
	},
}

func init() {
	predictorListCmd.Flags().Int("limit", 50, "Maximum number of calls to show")
	predictorListCmd.Flags().Bool("failed", false, "Only show failed calls")

	predictorCmd.AddCommand(predictorListCmd)
	predictorCmd.AddCommand(predictorViewCmd)
}

func orNotCaptured(s string) string {
	if s == "" {
		return "(not captured)"
	}
	return s
}
