package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayushhealth/ayushbot/internal/chatsvc"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that every service endpoint answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chatClient(cmd)
		if err != nil {
			return err
		}
		statuses, err := c.Ping(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%-20s  %-6s  %-8s  %s\n", "Endpoint", "Status", "Latency", "OK")
		fmt.Println(strings.Repeat("─", 44))
		down := 0
		for _, p := range statuses {
			status := "-"
			if p.Status != 0 {
				status = strconv.Itoa(p.Status)
			}
			ok := "✓"
			if !p.Reachable() {
				ok = "✗"
				down++
			}
			fmt.Printf("%-20s  %-6s  %-8s  %s\n", p.Path, status, p.Latency.Round(time.Millisecond), ok)
		}
		if down > 0 {
			return fmt.Errorf("%d of %d endpoints unreachable", down, len(chatsvc.Endpoints))
		}
		return nil
	},
}
