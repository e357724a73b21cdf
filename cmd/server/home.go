package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/RahulSaini202/home-automation/internal/service/homes"
	"github.com/RahulSaini202/home-automation/internal/store/sqlite"
)

const homeCmdTimeout = 10 * time.Second

func newHomeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Manage registered homes",
	}
	cmd.AddCommand(newHomeAddCmd(root), newHomeGetCmd(root), newHomeSetCmd(root), newHomeListCmd(root))
	return cmd
}

// withHomes opens the configured database for the duration of fn.
func withHomes(cmd *cobra.Command, root *rootOptions, fn func(ctx context.Context, svc *homes.Service) error) error {
	cfg, _, err := root.load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), homeCmdTimeout)
	defer cancel()

	st, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return fn(ctx, homes.New(st))
}

func newHomeAddCmd(root *rootOptions) *cobra.Command {
	var enabled bool
	cmd := &cobra.Command{
		Use:   "add <userId>",
		Short: "Register a home",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHomes(cmd, root, func(ctx context.Context, svc *homes.Service) error {
				home, err := svc.Register(ctx, args[0], enabled)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s (motion detection %t)\n", home.UserID, home.MotionDetection)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", false, "enable motion detection")
	return cmd
}

func newHomeGetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <userId>",
		Short: "Show the motion detection flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHomes(cmd, root, func(ctx context.Context, svc *homes.Service) error {
				status, err := svc.GetMotionDetectionStatus(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}
}

func newHomeSetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <userId> <true|false>",
		Short: "Update the motion detection flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("status must be true or false: %w", err)
			}
			return withHomes(cmd, root, func(ctx context.Context, svc *homes.Service) error {
				stored, err := svc.SetMotionDetectionStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), stored)
				return nil
			})
		},
	}
}

func newHomeListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered homes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHomes(cmd, root, func(ctx context.Context, svc *homes.Service) error {
				list, err := svc.List(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "USER ID\tMOTION\tUPDATED")
				for _, h := range list {
					fmt.Fprintf(w, "%s\t%t\t%s\n", h.UserID, h.MotionDetection, h.UpdatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
}
