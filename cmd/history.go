package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayushhealth/ayushbot/internal/llm"
	"github.com/ayushhealth/ayushbot/internal/store"
	"github.com/ayushhealth/ayushbot/internal/symptom"
)

const timeLayout = "2006-01-02 15:04:05"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past diagnosis runs and LLM calls",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List finished runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.HistoryRepo().QuerySessionSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-12s  %-10s  %-22s  %5s  %8s\n",
			"Session", "Finished", "Name", "Outcome", "Disease", "Asked", "Duration")
		fmt.Println(strings.Repeat("─", 124))
		for _, r := range runs {
			disease := "-"
			if r.Disease != "" {
				disease = truncate(symptom.Label(r.Disease), 22)
			}
			fmt.Printf("%-36s  %-19s  %-12s  %-10s  %-22s  %5d  %8s\n",
				r.SessionID,
				r.Timestamp.Local().Format(timeLayout),
				truncate(r.Name, 12),
				r.Outcome,
				disease,
				r.QuestionsAsked,
				(time.Duration(r.DurationSecs) * time.Second).String(),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <session-id>",
	Short: "Show one run with every answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		history := st.HistoryRepo()
		r, err := history.GetSession(ctx, args[0])
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("run %s not found", args[0])
		}
		answers, err := history.QueryAnswers(ctx, r.SessionID)
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}

		fmt.Printf("Session:   %s\n", r.SessionID)
		fmt.Printf("Finished:  %s\n", r.Timestamp.Local().Format(timeLayout))
		fmt.Printf("Patient:   %s, %d, %s\n", r.Name, r.Age, r.Gender)
		fmt.Printf("Outcome:   %s\n", r.Outcome)
		if r.Disease != "" {
			fmt.Printf("Disease:   %s\n", symptom.Label(r.Disease))
		}
		fmt.Printf("Accepted:  %s\n", orDash(symptom.JoinLabels(r.Accepted)))
		fmt.Printf("Rejected:  %s\n", orDash(symptom.JoinLabels(r.Rejected)))
		fmt.Printf("Questions: %d in %s\n", r.QuestionsAsked, time.Duration(r.DurationSecs)*time.Second)

		if len(answers) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-3s  %-28s  %-6s  %s\n", "#", "Symptom", "Answer", "Accepted")
		fmt.Println(strings.Repeat("─", 48))
		for i, a := range answers {
			ans := "no"
			if a.Answer {
				ans = "yes"
			}
			fmt.Printf("%-3d  %-28s  %-6s  %d\n", i+1, truncate(symptom.Label(a.Symptom), 28), ans, a.AcceptedCount)
		}
		return nil
	},
}

var historyLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "List LLM calls with token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.HistoryRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-18s  %-28s  %-6s  %-6s  %-7s  %-9s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "Cost", "OK")
		fmt.Println(strings.Repeat("─", 116))

		var total float64
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			cost := "?"
			if usd, known := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); known {
				cost = formatCost(usd)
				total += usd
			}
			fmt.Printf("%-5d  %-19s  %-18s  %-28s  %-6d  %-6d  %-7d  %-9s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				cost,
				ok,
			)
		}
		fmt.Println(strings.Repeat("─", 116))
		fmt.Printf("Estimated total: %s\n", formatCost(total))
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	historyLLMCmd.Flags().Int("limit", 50, "Maximum number of events to show")
	historyLLMCmd.Flags().String("purpose", "", "Filter by purpose (e.g. diagnosis-insight)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyLLMCmd)
}

// storeFromFlags loads config and opens the event log.
func storeFromFlags(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatCost(cost float64) string {
	if cost < 0.01 {
		return fmt.Sprintf("$%.4f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}
