package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/fridgechef/backend/internal/models"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupSQLiteDatabase returns a migrated in-memory database private to the test.
func SetupSQLiteDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open sqlite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// SetupPostgresDatabase starts a PostgreSQL container and returns a migrated
// connection to it. The test is skipped when docker is unavailable.
func SetupPostgresDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	const (
		user     = "postgres"
		password = "postpass"
		dbName   = "fridgechef"
	)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       dbName,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						user, password, host, port.Port(), dbName)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err, "failed to get container host")
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err, "failed to get container port")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, mappedPort.Port(), user, password, dbName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect to database")
	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}
