package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vitalshub/vitalshub/internal/config"
	"github.com/vitalshub/vitalshub/internal/domain/alert"
	"github.com/vitalshub/vitalshub/internal/domain/appointment"
	"github.com/vitalshub/vitalshub/internal/domain/dashboard"
	"github.com/vitalshub/vitalshub/internal/domain/directory"
	"github.com/vitalshub/vitalshub/internal/domain/priority"
	"github.com/vitalshub/vitalshub/internal/domain/triage"
	"github.com/vitalshub/vitalshub/internal/platform/auth"
	"github.com/vitalshub/vitalshub/internal/platform/db"
	"github.com/vitalshub/vitalshub/internal/platform/middleware"
)

// doctorDirectoryAdapter adapts the directory service to the
// appointment package's DoctorDirectory interface, avoiding an import
// cycle between the two domains.
type doctorDirectoryAdapter struct {
	svc *directory.Service
}

// IsDoctor reports whether the user is an active doctor account with a
// doctor profile attached.
func (a *doctorDirectoryAdapter) IsDoctor(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := a.svc.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if u.Role != auth.RoleDoctor || !u.IsActive {
		return false, nil
	}
	if _, err := a.svc.DoctorByUser(ctx, userID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// nurseDirectoryAdapter adapts the directory service to the triage
// package's NurseDirectory interface.
type nurseDirectoryAdapter struct {
	svc *directory.Service
}

func (a *nurseDirectoryAdapter) NurseIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	n, err := a.svc.NurseByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitals-server",
		Short: "Clinic operations API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default priority tiers and the bootstrap admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := priority.NewService(priority.NewRepoPG(pool))
			if err := svc.SeedDefaults(ctx); err != nil {
				return fmt.Errorf("seed priorities: %w", err)
			}
			fmt.Println("Default priority tiers seeded.")

			dirSvc := directory.NewService(
				directory.NewUserRepoPG(pool),
				directory.NewPatientRepoPG(pool),
				directory.NewDoctorRepoPG(pool),
				directory.NewNurseRepoPG(pool),
				func(ctx context.Context, fn func(ctx context.Context) error) error {
					return db.WithTx(ctx, pool, fn)
				},
			)
			admin, created, err := dirSvc.SeedAdmin(ctx,
				cfg.AdminUsername, cfg.AdminEmail, "System Administrator", cfg.AdminPassword)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			if created {
				fmt.Printf("Admin account %q created.\n", admin.Username)
			} else {
				fmt.Printf("Admin account %q already exists, left untouched.\n", admin.Username)
			}
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	zlog.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	issuer := auth.NewIssuer(cfg.AuthSigningKey, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	// Repositories and services
	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}
	directorySvc := directory.NewService(
		directory.NewUserRepoPG(pool),
		directory.NewPatientRepoPG(pool),
		directory.NewDoctorRepoPG(pool),
		directory.NewNurseRepoPG(pool),
		inTx,
	)
	prioritySvc := priority.NewService(priority.NewRepoPG(pool))
	appointmentSvc := appointment.NewService(
		appointment.NewRepoPG(pool),
		prioritySvc,
		&doctorDirectoryAdapter{svc: directorySvc},
	)
	triageSvc := triage.NewService(
		triage.NewRepoPG(pool),
		&nurseDirectoryAdapter{svc: directorySvc},
	)
	alertSvc := alert.NewService(alert.NewRepoPG(pool))
	dashboardSvc := dashboard.NewService(dashboard.NewRepoPG(pool))

	// The classifier needs its tiers before the first booking arrives.
	if err := prioritySvc.SeedDefaults(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed priority tiers")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks and sign-in are the only unauthenticated surface.
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	directoryHandler := directory.NewHandler(directorySvc, issuer)
	directoryHandler.RegisterPublicRoutes(e)

	api := e.Group("/api", auth.Middleware(issuer))
	directoryHandler.RegisterRoutes(api)
	priority.NewHandler(prioritySvc).RegisterRoutes(api)
	appointment.NewHandler(appointmentSvc).RegisterRoutes(api)
	triage.NewHandler(triageSvc).RegisterRoutes(api)
	alert.NewHandler(alertSvc).RegisterRoutes(api)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
