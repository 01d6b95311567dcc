package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/blocksearch/internal/common"
	"github.com/dmitrijs2005/blocksearch/internal/server/models"
	"github.com/dmitrijs2005/blocksearch/internal/server/services"
	"github.com/dmitrijs2005/blocksearch/internal/shared"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// NewRootCommand builds the usersctl command tree. open is called lazily
// by each subcommand so that --help works without a reachable store.
func NewRootCommand(open Opener) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "usersctl",
		Short:         "Manage blocksearch user accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "server config file (JSON or TOML)")

	withBackend := func(cmd *cobra.Command, fn func(context.Context, *Backend) error) error {
		b, err := open(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer func() {
			if b.Close != nil {
				_ = b.Close()
			}
		}()
		return fn(cmd.Context(), b)
	}

	root.AddCommand(newCreateCommand(withBackend), newGetCommand(withBackend))
	return root
}

type backendRunner func(cmd *cobra.Command, fn func(context.Context, *Backend) error) error

func newCreateCommand(run backendRunner) *cobra.Command {
	var (
		username      string
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := getPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			return run(cmd, func(ctx context.Context, b *Backend) error {
				svc := services.NewUserService(b.Users, b.Config, b.Logger)
				s, err := svc.Register(ctx, username, password, email)
				switch {
				case err == nil:
				case errors.Is(err, common.ErrUsernameTaken):
					return fmt.Errorf("username %q already exists", username)
				case errors.Is(err, common.ErrEmailTaken):
					return fmt.Errorf("email %q already registered", email)
				default:
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", s.User.ID, s.User.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// getPassword reads the first stdin line, or prompts on the terminal
// without echo.
func getPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	defer shared.WipeByteArray(pw)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func newGetCommand(run backendRunner) *cobra.Command {
	var (
		id       int64
		username string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a user by id or username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, b *Backend) error {
				var (
					u   *models.User
					err error
				)
				if cmd.Flags().Changed("id") {
					u, err = b.Users.GetUserByID(ctx, id)
				} else {
					u, err = b.Users.GetUserByLogin(ctx, username)
				}
				if errors.Is(err, common.ErrorNotFound) {
					return errors.New("user not found")
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "id: %d\nusername: %s\n", u.ID, u.Username)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "user id")
	cmd.Flags().StringVarP(&username, "username", "u", "", "login name")
	cmd.MarkFlagsOneRequired("id", "username")
	cmd.MarkFlagsMutuallyExclusive("id", "username")

	return cmd
}
