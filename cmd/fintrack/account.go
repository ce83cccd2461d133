package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

const passwordEnv = "FINTRACK_PASSWORD"

func newRegisterCmd(a *app) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.readPassword(cmd)
			if err != nil {
				return err
			}
			user, err := a.auth.Register(cmd.Context(), email, name, password)
			if err != nil {
				return err
			}
			return a.signIn(cmd, user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the email's local part)")
	cmd.Flags().StringVar(&a.password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.readPassword(cmd)
			if err != nil {
				return err
			}
			user, err := a.auth.Authenticate(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.signIn(cmd, user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&a.password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// signIn makes user the active user and seeds their records on first use.
func (a *app) signIn(cmd *cobra.Command, user *models.User) error {
	ctx := cmd.Context()
	if err := a.directory.SetActive(ctx, user); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if _, err := a.recordStore(ctx, a.cfg.SeedDefaults); err != nil {
		return err
	}

	if a.asJSON {
		return writeJSON(cmd.OutOrStdout(), user.Public())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out the local user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.directory.ClearActive(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, ok, err := a.directory.Active(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("not signed in")
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), user)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

func (a *app) readPassword(cmd *cobra.Command) (string, error) {
	if a.password != "" {
		return a.password, nil
	}
	if p := os.Getenv(passwordEnv); p != "" {
		return p, nil
	}

	in := cmd.InOrStdin()
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
