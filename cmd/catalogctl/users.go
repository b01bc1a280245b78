package main

import (
	"errors"
	"fmt"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/seed"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the system and admin users when missing",
		RunE:  seedCommand,
	}
}

func seedCommand(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	res, err := seed.Users(cmd.Context(), repository.NewUserRepo(e.db), e.cfg.Seed, e.log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "system user id=%d, admin user id=%d\n", res.SystemID, res.AdminID)
	return nil
}

const (
	usernameFlag = "username"
	passwordFlag = "password"
)

var resetPasswordFlags = map[string]cobraflags.Flag{
	usernameFlag: &cobraflags.StringFlag{
		Name:  usernameFlag,
		Value: "admin",
		Usage: "User whose password is reset",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Usage: "New password (at least 6 characters)",
	},
}

func newResetPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password and end every session of a user",
		RunE:  resetPasswordCommand,
	}
	cobraflags.RegisterMap(cmd, resetPasswordFlags)
	return cmd
}

func resetPasswordCommand(cmd *cobra.Command, _ []string) error {
	username := resetPasswordFlags[usernameFlag].GetString()
	password := resetPasswordFlags[passwordFlag].GetString()
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	repo := repository.NewUserRepo(e.db)
	user, err := repo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("user %q not found", username)
		}
		return err
	}

	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	if err := repo.UpdateTokenVersion(ctx, user.ID, ""); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Password for %s has been reset\n", username)
	return nil
}
