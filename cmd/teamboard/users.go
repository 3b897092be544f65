package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tgienger/teamboard/internal/config"
	"github.com/tgienger/teamboard/internal/logging"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage team members",
	}
	cmd.AddCommand(usersAddCmd(), usersListCmd())
	return cmd
}

func usersAddCmd() *cobra.Command {
	var (
		name  string
		role  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(func(ctx context.Context, rt *backend) error {
				user, err := rt.engine.CreateUser(ctx, name, role, color)
				if err != nil {
					return err
				}
				admin := ""
				if rt.roles.IsAdmin(user.Role) {
					admin = " (admin)"
				}
				fmt.Printf("Added user %d: %s, %s%s\n", user.ID, user.Name, user.Role, admin)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Role, e.g. designer or admin")
	cmd.Flags().StringVar(&color, "color", "", "Avatar colour (hex); picked from a palette when empty")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(func(ctx context.Context, rt *backend) error {
				users, err := rt.engine.ListUsers(ctx)
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Println("No users yet. Add one with: teamboard users add --name <name> --role <role>")
					return nil
				}

				tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tROLE\tPREFIX\tADMIN")
				for _, u := range users {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Role, rt.roles.Prefix(u.Role), rt.roles.IsAdmin(u.Role))
				}
				return tw.Flush()
			})
		},
	}
}

// withBackend runs fn against a backend that logs to stderr
func withBackend(fn func(ctx context.Context, rt *backend) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.InitWriter(os.Stderr, cfg.Environment, "warn")

	ctx := context.Background()
	rt, err := openBackend(ctx, cfg, logger, backendOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(ctx, rt)
}
