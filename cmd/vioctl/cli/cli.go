// Package cli define los comandos cobra de vioctl.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stiven2023/vio-app-sub001/internal/application/policy"
	"github.com/Stiven2023/vio-app-sub001/internal/infrastructure/postgres"
	"github.com/Stiven2023/vio-app-sub001/pkg/config"
	"github.com/Stiven2023/vio-app-sub001/pkg/jwt"
	"github.com/Stiven2023/vio-app-sub001/pkg/logger"
)

// NewRootCommand construye el comando raíz.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vioctl",
		Short:         "Herramientas operativas de vio-app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// Execute ejecuta vioctl con los argumentos del proceso.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// withMigrator carga la configuración, abre el pool y entrega un Migrator listo.
func withMigrator(ctx context.Context, fn func(*postgres.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Service: "vioctl", Env: cfg.App.Env, Level: cfg.App.LogLevel})

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()

	mig, err := postgres.NewMigrator(pool, log.Component("migrate"))
	if err != nil {
		return err
	}
	defer mig.Close()
	return fn(mig)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de base de datos",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Aplicar migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(m *postgres.Migrator) error {
				if err := m.Up(cmd.Context()); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}

	var steps int
	var all bool
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revertir migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(m *postgres.Migrator) error {
				if err := m.Down(cmd.Context(), steps, all); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "cantidad de migraciones a revertir")
	downCmd.Flags().BoolVar(&all, "all", false, "revertir todas las migraciones")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Estado de cada migración",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(m *postgres.Migrator) error {
				return m.Status(cmd.Context())
			})
		},
	}

	cmd.AddCommand(upCmd, downCmd, statusCmd)
	return cmd
}

func printVersion(cmd *cobra.Command, m *postgres.Migrator) error {
	v, err := m.Version(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d\n", v)
	return nil
}

func newTokenCmd() *cobra.Command {
	var userID, role, secret string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emitir un JWT firmado para un usuario y rol",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !policy.DefaultPermissions().IsKnownRole(role) {
				return fmt.Errorf("rol desconocido %q", role)
			}
			issuer := "vio-app"
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("cargar configuración: %w", err)
				}
				secret = cfg.JWT.Secret
				issuer = cfg.JWT.Issuer
				if minutes <= 0 {
					minutes = cfg.JWT.Expiration
				}
			}
			if minutes <= 0 {
				minutes = 60
			}
			tok, err := jwt.Generate(secret, userID, role, issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ID del usuario")
	cmd.Flags().StringVar(&role, "role", "", "rol (ASESOR, LIDER_DISENO, ...)")
	cmd.Flags().StringVar(&secret, "secret", "", "secreto de firma; por defecto JWT_SECRET")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
