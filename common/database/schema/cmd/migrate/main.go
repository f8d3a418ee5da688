package main

import (
	"context"
	"flag"
	"log"
	"os"

	"abletech/common/database"
	"abletech/common/database/schema"
	"abletech/common/database/schema/migrations"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()

	rollback := flag.Int("rollback", 0, "roll back the migration with this version instead of applying")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.New(ctx, database.Options{
		DSN:      getEnvString("CLICKHOUSE_DSN", "127.0.0.1:9000"),
		Username: getEnvString("CLICKHOUSE_USERNAME", "default"),
		Password: getEnvString("CLICKHOUSE_PASSWORD", ""),
		Database: getEnvString("CLICKHOUSE_DATABASE", "abletech"),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer db.Close()

	migrator := schema.NewMigrator(db.Conn(), logger)

	if *rollback > 0 {
		for _, migration := range migrations.All {
			if migration.Version != *rollback {
				continue
			}
			if err := migrator.RollbackMigration(ctx, migration); err != nil {
				logger.Fatal("Failed to roll back migration",
					zap.Int("version", migration.Version),
					zap.Error(err),
				)
			}
			logger.Info("Rolled back migration", zap.Int("version", migration.Version))
			return
		}
		logger.Fatal("Unknown migration version", zap.Int("version", *rollback))
	}

	applied, err := migrator.Up(ctx, migrations.All)
	if err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	logger.Info("All migrations completed successfully", zap.Int("applied", applied))
}
