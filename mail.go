package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"medassist/config"
	"medassist/utils"
)

func mailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Mail delivery tools",
	}

	var to string
	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test email through the configured mailer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.SendGridAPIKey == "" {
				return fmt.Errorf("SENDGRID_API_KEY is not set")
			}
			mailer := utils.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName, newLogger(cfg))

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			err = mailer.Send(ctx, to, "MedAssist test message",
				"Mail delivery from MedAssist is working.",
				"<strong>Mail delivery from MedAssist is working.</strong>")
			if err != nil {
				return err
			}
			fmt.Println("Sent test message to", to)
			return nil
		},
	}
	testCmd.Flags().StringVar(&to, "to", "", "recipient address")
	testCmd.MarkFlagRequired("to")

	cmd.AddCommand(testCmd)
	return cmd
}
