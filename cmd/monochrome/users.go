package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"monochrome/internal/auth"
	"monochrome/internal/ui"
)

// readPassword reads one non-empty line from r
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	password := strings.TrimSpace(line)
	if password == "" {
		return "", fmt.Errorf("empty password")
	}
	return password, nil
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for users.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users.json",
	}
	cmd.AddCommand(usersListCmd(), usersAddCmd(), usersToggleCmd("enable", true), usersToggleCmd("disable", false))
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			users, err := auth.ReadUsersFile(cfg.UsersFile)
			if err != nil {
				return err
			}

			rows := make([]map[string]string, 0, len(users.Users))
			for _, u := range users.Users {
				status := ui.Success("enabled")
				if !u.Enabled {
					status = ui.Muted("disabled")
				}
				rpm := "default"
				if u.RateLimitRPM > 0 {
					rpm = strconv.Itoa(u.RateLimitRPM)
				}
				rows = append(rows, map[string]string{"user": u.Username, "status": status, "rpm": rpm})
			}

			fmt.Fprint(cmd.OutOrStdout(), ui.RenderTable(ui.RenderTableOptions{
				Columns: []ui.TableColumn{
					{Key: "user", Header: "User"},
					{Key: "status", Header: "Status"},
					{Key: "rpm", Header: "Limit (rpm)", Align: ui.AlignRight},
				},
				Rows: rows,
			}))
			return nil
		},
	}
}

func usersAddCmd() *cobra.Command {
	var rpm int

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add a user, reading the password from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			users, err := auth.ReadUsersFile(cfg.UsersFile)
			if err != nil {
				// First user creates the file
				users = auth.UsersConfig{}
			}

			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			if err := users.AddUser(auth.User{Username: args[0], PasswordHash: hash, RateLimitRPM: rpm, Enabled: true}); err != nil {
				return err
			}
			if err := auth.WriteUsersFile(cfg.UsersFile, users); err != nil {
				return err
			}
			ui.LogStatus("success", "Added user "+args[0]+" to "+cfg.UsersFile)
			return nil
		},
	}

	cmd.Flags().IntVar(&rpm, "rpm", 0, "palette requests per minute (0 uses the default)")
	return cmd
}

func usersToggleCmd(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			users, err := auth.ReadUsersFile(cfg.UsersFile)
			if err != nil {
				return err
			}
			if !users.SetEnabled(args[0], enabled) {
				return fmt.Errorf("user '%s' not found", args[0])
			}
			if err := auth.WriteUsersFile(cfg.UsersFile, users); err != nil {
				return err
			}
			ui.LogStatus("success", "User "+args[0]+" "+use+"d")
			return nil
		},
	}
}
