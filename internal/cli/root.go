// Package cli implements the gymcli command tree.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/gym-crm-cli/internal/app"
	"github.com/sandeepkv93/gym-crm-cli/internal/config"
	"github.com/sandeepkv93/gym-crm-cli/internal/rbac"
	"github.com/sandeepkv93/gym-crm-cli/internal/session"
)

var errNotLoggedIn = errors.New("not logged in, run `gymcli login` first")

// env carries the lazily built application stack across subcommands.
type env struct {
	configPath string
	app        *app.App
}

func (e *env) ensure(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

// authorized restores the persisted session and gates the command on the
// caller's role before any request leaves the machine. The backend remains
// the final authority.
func (e *env) authorized(ctx context.Context, perm rbac.Permission) (*app.App, session.Session, error) {
	a, err := e.ensure(ctx)
	if err != nil {
		return nil, session.Session{}, err
	}
	sess, ok := a.Sessions.Restore(ctx)
	if !ok {
		return nil, session.Session{}, errNotLoggedIn
	}
	if !rbac.Can(sess.Role, perm) {
		return nil, session.Session{}, fmt.Errorf("role %s is not allowed to do this", sess.Role)
	}
	return a, sess, nil
}

func NewRootCommand() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "gymcli",
		Short:         "Gym CRM command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "path to config file")
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if e.app != nil {
			return e.app.Close(cmd.Context())
		}
		return nil
	}

	root.AddCommand(
		newLoginCommand(e),
		newLogoutCommand(e),
		newWhoamiCommand(e),
		newRegisterCommand(e),
		newMembersCommand(e),
		newTrainersCommand(e),
		newPlansCommand(e),
		newMembershipsCommand(e),
		newAttendanceCommand(e),
		newPaymentsCommand(e),
		newProgressCommand(e),
		newGymsCommand(e),
		newDashboardCommand(e),
		newDevServerCommand(e),
	)
	return root
}
