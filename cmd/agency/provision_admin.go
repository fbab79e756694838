package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/service"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
	"github.com/atelier-numerique/agency-api/internal/infrastructure/config"
	mongodb "github.com/atelier-numerique/agency-api/internal/infrastructure/db/mongo"
	"github.com/atelier-numerique/agency-api/pkg/logger"
)

var provisionFlags struct {
	email     string
	name      string
	password  string
	role      string
	overwrite bool
}

var provisionAdminCmd = &cobra.Command{
	Use:   "provision-admin",
	Short: "Create or update a back-office account",
	Long: "Creates a back-office account. The password is read from --password " +
		"or, when the flag is empty, from ADMIN_PASSWORD.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load(ctx)
		if err != nil {
			return err
		}
		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "agency-api", Env: cfg.Env})

		password := provisionFlags.password
		if password == "" {
			password = os.Getenv("ADMIN_PASSWORD")
		}
		if password == "" {
			return errors.New("a password is required (--password or ADMIN_PASSWORD)")
		}

		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		users := mongodb.NewUserRepository(db)
		if err := mongodb.EnsureIndexes(ctx, users); err != nil {
			return err
		}

		auth := service.NewAuthService(users, service.TokenConfig{Secret: cfg.Auth.JWTSecret}, validation.New(),
			service.WithAuthLogger(log))
		user, err := auth.Provision(ctx, ports.ProvisionInput{
			Email:     strings.TrimSpace(provisionFlags.email),
			Name:      strings.TrimSpace(provisionFlags.name),
			Password:  password,
			Role:      strings.ToUpper(provisionFlags.role),
			Overwrite: provisionFlags.overwrite,
		})
		if errors.Is(err, domain.ErrUserExists) {
			return errors.New("account already exists, rerun with --overwrite to reset it")
		}
		if err != nil {
			return err
		}

		log.Info().Str("email", user.Email).Str("role", user.Role).Msg("account provisioned")
		return nil
	},
}

func init() {
	f := provisionAdminCmd.Flags()
	f.StringVar(&provisionFlags.email, "email", "", "account email")
	f.StringVar(&provisionFlags.name, "name", "Administrateur", "display name")
	f.StringVar(&provisionFlags.password, "password", "", "account password (prefer ADMIN_PASSWORD)")
	f.StringVar(&provisionFlags.role, "role", domain.RoleAdmin, "ADMIN or USER")
	f.BoolVar(&provisionFlags.overwrite, "overwrite", false, "reset password, name and role of an existing account")
	_ = provisionAdminCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(provisionAdminCmd)
}
