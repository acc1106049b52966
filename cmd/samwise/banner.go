package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/pkg/selectors"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

var bannerCmd = &cobra.Command{
	Use:   "banner",
	Short: "List and dismiss banner messages",
}

// bannerRow is a catalog message with its dismissal status.
type bannerRow struct {
	selectors.Message
	Dismissed bool `json:"dismissed"`
}

var bannerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every banner message and whether it was dismissed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		status := s.state().BannerMessageStatus
		rows := make([]bannerRow, 0, len(selectors.Messages))
		for _, m := range selectors.Messages {
			dismissed, _ := status.Get(m.ID)
			rows = append(rows, bannerRow{Message: m, Dismissed: dismissed})
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), rows)
		}
		tbl := newTable("DISMISSED", "ID", "MESSAGE")
		tbl.MaxColWidth = 60
		tbl.Wrap = true
		for _, r := range rows {
			tbl.AddRow(check(r.Dismissed), r.ID, r.Text)
		}
		return printTable(cmd, tbl)
	},
}

var bannerDismissCmd = &cobra.Command{
	Use:   "dismiss <message-id>",
	Short: "Dismiss a banner message",
	Long: `Dismiss records that the message should no longer be shown.

Example:
  samwise banner dismiss 2019-03-10-quota-exceeded-incident`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !slices.ContainsFunc(selectors.Messages, func(m selectors.Message) bool { return m.ID == id }) {
			return fmt.Errorf("banner message %s: %w", id, types.ErrNotFound)
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.commit(types.BannerPatch{Change: types.BannerMessageStatus{id: true}}); err != nil {
			return fmt.Errorf("banner dismiss: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "dismissed %s\n", id)
		return err
	},
}

func init() {
	bannerCmd.AddCommand(bannerListCmd)
	bannerCmd.AddCommand(bannerDismissCmd)
}
