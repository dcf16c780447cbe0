package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"github.com/yukikurage/disaster-response-api/internal/services"
)

var adminInput struct {
	username string
	password string
	name     string
	email    string
}

// createAdminCmd bootstraps an administrator account; signup only ever creates members
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminInput.username, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminInput.password, "password", "", "Admin password")
	createAdminCmd.Flags().StringVar(&adminInput.name, "name", "", "Display name (defaults to username)")
	createAdminCmd.Flags().StringVar(&adminInput.email, "email", "", "Email address for hazard alerts")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	input := services.SignupInput{
		Username: adminInput.username,
		Password: adminInput.password,
		Name:     adminInput.name,
	}
	if adminInput.email != "" {
		input.Email = &adminInput.email
	}

	authService := services.NewAuthService(repository.NewUserRepository(database.GetDB()))
	user, err := authService.CreateAdmin(input)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Info("admin created", zap.Uint64("user_id", user.ID), zap.String("username", user.Username))
	return nil
}
