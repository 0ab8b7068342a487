// Command loader performs the one-off bulk import: it reads the catalog JSON
// dump and populates the establecimientos table, creating the schema and the
// search indexes on the way.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/buscador-establecimientos/backend/internal/infrastructure/clients/postgres"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/observability"
	"github.com/buscador-establecimientos/backend/pkg/config"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS establecimientos (
	id SERIAL PRIMARY KEY,
	nombre VARCHAR(255) NOT NULL,
	direccion VARCHAR(500),
	localidad VARCHAR(255),
	provincia VARCHAR(255)
)`

// The service needs case-insensitive substring search on nombre and direccion
// and equality filtering on provincia; trigram GIN indexes back the ILIKE
// queries.
var indexStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_establecimientos_provincia ON establecimientos (provincia)`,
	`CREATE INDEX IF NOT EXISTS idx_establecimientos_nombre_trgm ON establecimientos USING gin (nombre gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_establecimientos_direccion_trgm ON establecimientos USING gin (direccion gin_trgm_ops)`,
}

type establecimientoRecord struct {
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Localidad string `json:"localidad"`
	Provincia string `json:"provincia"`
}

type catalogDump struct {
	Establecimientos []establecimientoRecord `json:"establecimientos"`
}

func main() {
	filePath := flag.String("file", "establecimientos.json", "path of the catalog JSON dump")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-loader", cfg.Server.Env)

	records, err := readDump(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("failed to read catalog dump")
	}
	log.Info().Int("records", len(records)).Msg("catalog dump loaded")

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := pgClient.DB()

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		log.Fatal().Err(err).Msg("failed to create table")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating before load")
		if _, err := db.ExecContext(ctx, `TRUNCATE TABLE establecimientos RESTART IDENTITY`); err != nil {
			log.Fatal().Err(err).Msg("failed to truncate table")
		}
	}

	inserted, err := bulkInsert(ctx, pgClient, records)
	if err != nil {
		log.Fatal().Err(err).Msg("bulk insert failed")
	}
	log.Info().Int("inserted", inserted).Msg("establecimientos loaded")

	for _, stmt := range indexStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatal().Err(err).Str("statement", stmt).Msg("failed to create index")
		}
	}
	log.Info().Msg("search indexes in place")
}

// readDump parses the catalog JSON and drops rows without a name, the only
// required field
func readDump(path string) ([]establecimientoRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var dump catalogDump
	if err := json.NewDecoder(f).Decode(&dump); err != nil {
		return nil, err
	}

	records := dump.Establecimientos[:0]
	for _, r := range dump.Establecimientos {
		if r.Nombre == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// bulkInsert streams all records through COPY inside one transaction
func bulkInsert(ctx context.Context, client *postgres.Client, records []establecimientoRecord) (int, error) {
	tx, err := client.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("establecimientos", "nombre", "direccion", "localidad", "provincia"))
	if err != nil {
		return 0, err
	}

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Nombre, r.Direccion, r.Localidad, r.Provincia); err != nil {
			stmt.Close()
			return 0, err
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, err
	}
	if err := stmt.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}
