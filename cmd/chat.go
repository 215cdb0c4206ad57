package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayushhealth/ayushbot/internal/chatsvc"
	"github.com/ayushhealth/ayushbot/internal/predictor"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the service's general health assistant",
}

var chatSendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chatClient(cmd)
		if err != nil {
			return err
		}
		reply, err := c.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return describe(err)
		}
		fmt.Println(reply.Message)
		if reply.FollowUp != "" {
			fmt.Println()
			fmt.Println(reply.FollowUp)
		}
		return nil
	},
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the stored conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chatClient(cmd)
		if err != nil {
			return err
		}
		entries, err := c.History(cmd.Context())
		if err != nil {
			return describe(err)
		}
		if len(entries) == 0 {
			fmt.Println("No conversation yet.")
			return nil
		}
		for _, e := range entries {
			who := "you"
			if e.IsBot() {
				who = "bot"
			}
			fmt.Printf("%-3s  %s\n", who, e.Message)
		}
		return nil
	},
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chatClient(cmd)
		if err != nil {
			return err
		}
		if err := c.Clear(cmd.Context()); err != nil {
			return describe(err)
		}
		fmt.Println("Conversation cleared.")
		return nil
	},
}

func init() {
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatClearCmd)
}

func chatClient(cmd *cobra.Command) (*chatsvc.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return chatsvc.New(cfg.BaseURL,
		chatsvc.WithToken(cfg.AccessToken),
		chatsvc.WithTimeout(cfg.HTTPTimeout),
	), nil
}

// describe turns a service error into the sentence the wizard would show.
func describe(err error) error {
	return errors.New(predictor.Describe(err))
}
