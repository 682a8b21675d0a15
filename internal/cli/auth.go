package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

func newLoginCommand(e *env) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.ensure(cmd.Context())
			if err != nil {
				return err
			}
			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username: ")
				if _, err := fmt.Fscanln(cmd.InOrStdin(), &username); err != nil {
					return fmt.Errorf("read username: %w", err)
				}
			}
			if password == "" {
				pw, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = pw
			}
			sess, err := a.Sessions.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Username, sess.Role)
			if sess.GymID != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Gym scope: %d\n", *sess.GymID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	var pw string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &pw); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.ensure(cmd.Context())
			if err != nil {
				return err
			}
			a.Sessions.Restore(cmd.Context())
			a.Sessions.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.ensure(cmd.Context())
			if err != nil {
				return err
			}
			sess, ok := a.Sessions.Restore(cmd.Context())
			if !ok {
				return errNotLoggedIn
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:  %s (id %d)\n", sess.Username, sess.UserID)
			fmt.Fprintf(out, "Role:  %s\n", sess.Role)
			if sess.GymID != nil {
				fmt.Fprintf(out, "Gym:   %d\n", *sess.GymID)
			} else {
				fmt.Fprintln(out, "Gym:   all (global)")
			}
			return nil
		},
	}
}

func newRegisterCommand(e *env) *cobra.Command {
	var form domain.RegisterRequest
	var gymID int64
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.ensure(cmd.Context())
			if err != nil {
				return err
			}
			form.Role = strings.ToUpper(form.Role)
			if gymID > 0 {
				form.GymID = &gymID
			}
			if err := a.Sessions.Register(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %q created.\n", form.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Username, "username", "", "username")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&form.Role, "role", "MEMBER", "account role")
	cmd.Flags().Int64Var(&gymID, "gym", 0, "gym id scope")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
