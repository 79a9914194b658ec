package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/csa-service/internal/pkg/logging"
)

type migrator struct {
	projectID  string
	instanceID string
	databaseID string
	migrateDir string
	logger     *zap.Logger
}

func (m *migrator) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", m.projectID, m.instanceID)
}

func (m *migrator) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", m.instancePath(), m.databaseID)
}

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	m := &migrator{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the Spanner instance and database and apply the DDL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger, err := logging.New(os.Getenv("APP_ENV") == "dev", "migrate")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			m.logger = logger

			if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
				logger.Info("using Spanner emulator", zap.String("host", host))
			}

			if err := m.run(cmd.Context()); err != nil {
				logger.Error("migration failed", zap.Error(err))
				return err
			}
			logger.Info("migrations completed successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&m.projectID, "project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	cmd.Flags().StringVar(&m.instanceID, "instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	cmd.Flags().StringVar(&m.databaseID, "database", getEnvOrDefault("SPANNER_DATABASE_ID", "csa-db"), "Spanner database ID")
	cmd.Flags().StringVar(&m.migrateDir, "migrations", "migrations", "Directory containing migration SQL files")
	return cmd
}

func (m *migrator) run(ctx context.Context) error {
	if err := m.ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := m.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := m.applyMigrations(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (m *migrator) ensureInstance(ctx context.Context) error {
	log := m.logger.With(zap.String("instance", m.instanceID))
	log.Info("ensuring instance exists")

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.instancePath()})
	if err == nil {
		log.Info("instance already exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		log.Warn("unexpected error checking instance", zap.Error(err))
		return nil
	}

	log.Info("creating instance")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", m.projectID),
		InstanceId: m.instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", m.projectID),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create instance: %w", err)
		}
		log.Info("instance already exists")
		return nil
	}

	// The emulator may finish the operation before Wait is called.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Warn("instance creation reported an error", zap.Error(err))
	}
	log.Info("instance created")
	return nil
}

func (m *migrator) ensureDatabase(ctx context.Context) error {
	log := m.logger.With(zap.String("database", m.databaseID))
	log.Info("ensuring database exists")

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.databasePath()})
	if err == nil {
		log.Info("database already exists")
		return nil
	}

	if status.Code(err) == codes.NotFound {
		log.Info("creating database")
		op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
			Parent:          m.instancePath(),
			CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.databaseID),
		})
		if err != nil {
			if status.Code(err) != codes.AlreadyExists {
				return fmt.Errorf("failed to create database: %w", err)
			}
			log.Info("database already exists")
			return nil
		}
		if _, err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to wait for database creation: %w", err)
		}
		log.Info("database created")
		return nil
	}

	if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
		log.Warn("proceeding with database in emulator mode", zap.Error(err))
		return nil
	}
	return fmt.Errorf("failed to check database: %w", err)
}

func (m *migrator) applyMigrations(ctx context.Context) error {
	m.logger.Info("applying migrations", zap.String("dir", m.migrateDir))

	files, err := migrationFiles(m.migrateDir)
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		m.logger.Info("no migration files found")
		return nil
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	for _, file := range files {
		name := filepath.Base(file)
		statements, err := readStatements(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.databasePath(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		m.logger.Info("applied migration", zap.String("file", name), zap.Int("statements", len(statements)))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
