package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the signed-in account and its upload limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			acc, err := s.client().Account(cmd.Context())
			if err != nil {
				return describeError(err)
			}

			fmt.Printf("%s %s\n", bold("id:   "), acc.ID)
			fmt.Printf("%s %s\n", bold("email:"), acc.Email)
			fmt.Printf("%s %s\n", bold("role: "), acc.Role)
			if acc.Tier != "" {
				fmt.Printf("%s %s (max %s per file)\n", bold("tier: "), cyan(acc.Tier), humanBytes(acc.MaxUploadBytes))
			}
			if acc.RetentionDays != nil {
				fmt.Println(yellow(fmt.Sprintf("files are kept for %d days on this tier", *acc.RetentionDays)))
			}
			return nil
		},
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
