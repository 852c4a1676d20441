package adapters

import (
	"context"
	"database/sql"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	_ "github.com/lib/pq"

	"pycompat/internal/types"
)

// StorePostgresAdapter persists compatibility data in the warehouse
// tables. Every write is an independent per-key upsert; retrying a
// write with the same values is a no-op, matching the store contract.
type StorePostgresAdapter struct {
	db *sql.DB
}

func NewStorePostgresAdapter(db *sql.DB) *StorePostgresAdapter {
	return &StorePostgresAdapter{db: db}
}

// OpenPostgres connects with lib/pq and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid postgres dsn").
			WithCause(err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to connect to postgres").
			WithCause(err)
	}
	return db, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS self_compatibility_status (
	install_name TEXT NOT NULL,
	status       TEXT NOT NULL,
	py_version   TEXT NOT NULL,
	timestamp    TIMESTAMPTZ NOT NULL,
	details      TEXT,
	PRIMARY KEY (install_name, py_version)
);
CREATE TABLE IF NOT EXISTS pairwise_compatibility_status (
	install_name_lower  TEXT NOT NULL,
	install_name_higher TEXT NOT NULL,
	status              TEXT NOT NULL,
	py_version          TEXT NOT NULL,
	timestamp           TIMESTAMPTZ NOT NULL,
	details             TEXT,
	PRIMARY KEY (install_name_lower, install_name_higher, py_version)
);
CREATE TABLE IF NOT EXISTS release_time_for_dependencies (
	install_name           TEXT NOT NULL,
	dep_name               TEXT NOT NULL,
	installed_version      TEXT NOT NULL,
	installed_version_time TIMESTAMPTZ,
	latest_version         TEXT NOT NULL,
	latest_version_time    TIMESTAMPTZ,
	is_latest              BOOLEAN NOT NULL,
	timestamp              TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (install_name, dep_name)
);
`

// EnsureSchema creates the warehouse tables when missing.
func (s *StorePostgresAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create store schema").
			WithCause(err)
	}
	return nil
}

func (s *StorePostgresAdapter) GetSelfStatus(ctx context.Context, installName string, py types.PyVersion) (types.CompatibilityResult, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT status, timestamp, COALESCE(details, '')
		 FROM self_compatibility_status
		 WHERE install_name = $1 AND py_version = $2`,
		installName, string(py))
	var (
		status    string
		timestamp time.Time
		details   string
	)
	if err := row.Scan(&status, &timestamp, &details); err != nil {
		if err == sql.ErrNoRows {
			return types.CompatibilityResult{}, false, nil
		}
		return types.CompatibilityResult{}, false, readError(err)
	}
	return types.CompatibilityResult{
		Packages:  []string{installName},
		PyVersion: py,
		Status:    types.Status(status),
		Details:   details,
		Timestamp: timestamp,
	}, true, nil
}

func (s *StorePostgresAdapter) GetPairwiseStatus(ctx context.Context, a string, b string, py types.PyVersion) (types.CompatibilityResult, bool, error) {
	lower, higher := types.CanonicalPair(a, b)
	row := s.db.QueryRowContext(ctx,
		`SELECT status, timestamp, COALESCE(details, '')
		 FROM pairwise_compatibility_status
		 WHERE install_name_lower = $1 AND install_name_higher = $2 AND py_version = $3`,
		lower, higher, string(py))
	var (
		status    string
		timestamp time.Time
		details   string
	)
	if err := row.Scan(&status, &timestamp, &details); err != nil {
		if err == sql.ErrNoRows {
			return types.CompatibilityResult{}, false, nil
		}
		return types.CompatibilityResult{}, false, readError(err)
	}
	return types.CompatibilityResult{
		Packages:  []string{lower, higher},
		PyVersion: py,
		Status:    types.Status(status),
		Details:   details,
		Timestamp: timestamp,
	}, true, nil
}

func (s *StorePostgresAdapter) GetDependencyEdges(ctx context.Context, installName string) ([]types.DependencyEdge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dep_name, installed_version, installed_version_time,
		        latest_version, latest_version_time, is_latest, timestamp
		 FROM release_time_for_dependencies
		 WHERE install_name = $1
		 ORDER BY dep_name`,
		installName)
	if err != nil {
		return nil, readError(err)
	}
	defer rows.Close()

	var edges []types.DependencyEdge
	for rows.Next() {
		var (
			edge          types.DependencyEdge
			installedTime sql.NullTime
			latestTime    sql.NullTime
		)
		edge.Package = installName
		if err := rows.Scan(&edge.DepName, &edge.InstalledVersion, &installedTime,
			&edge.LatestVersion, &latestTime, &edge.IsLatest, &edge.Timestamp); err != nil {
			return nil, readError(err)
		}
		if installedTime.Valid {
			edge.InstalledTime = installedTime.Time
		}
		if latestTime.Valid {
			t := latestTime.Time
			edge.LatestVersionTime = &t
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err)
	}
	return edges, nil
}

func (s *StorePostgresAdapter) ListPackages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT install_name FROM self_compatibility_status ORDER BY install_name`)
	if err != nil {
		return nil, readError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, readError(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err)
	}
	return names, nil
}

func (s *StorePostgresAdapter) PutSelfStatus(ctx context.Context, result types.CompatibilityResult) error {
	if err := validateSelfResult(result); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO self_compatibility_status (install_name, status, py_version, timestamp, details)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (install_name, py_version)
		 DO UPDATE SET status = EXCLUDED.status, timestamp = EXCLUDED.timestamp, details = EXCLUDED.details`,
		result.Packages[0], string(result.Status), string(result.PyVersion),
		result.Timestamp, result.Details)
	if err != nil {
		return writeError(err)
	}
	return nil
}

func (s *StorePostgresAdapter) PutPairwiseStatus(ctx context.Context, result types.CompatibilityResult) error {
	if err := validatePairResult(result); err != nil {
		return err
	}
	names := result.SortedCopy()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pairwise_compatibility_status
		 (install_name_lower, install_name_higher, status, py_version, timestamp, details)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (install_name_lower, install_name_higher, py_version)
		 DO UPDATE SET status = EXCLUDED.status, timestamp = EXCLUDED.timestamp, details = EXCLUDED.details`,
		names[0], names[1], string(result.Status), string(result.PyVersion),
		result.Timestamp, result.Details)
	if err != nil {
		return writeError(err)
	}
	return nil
}

func (s *StorePostgresAdapter) PutDependencyEdges(ctx context.Context, edges []types.DependencyEdge) error {
	for _, edge := range edges {
		var latestTime interface{}
		if edge.LatestVersionTime != nil {
			latestTime = *edge.LatestVersionTime
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO release_time_for_dependencies
			 (install_name, dep_name, installed_version, installed_version_time,
			  latest_version, latest_version_time, is_latest, timestamp)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (install_name, dep_name)
			 DO UPDATE SET installed_version = EXCLUDED.installed_version,
			               installed_version_time = EXCLUDED.installed_version_time,
			               latest_version = EXCLUDED.latest_version,
			               latest_version_time = EXCLUDED.latest_version_time,
			               is_latest = EXCLUDED.is_latest,
			               timestamp = EXCLUDED.timestamp`,
			edge.Package, edge.DepName, edge.InstalledVersion, nullableTime(edge.InstalledTime),
			edge.LatestVersion, latestTime, edge.IsLatest, edge.Timestamp)
		if err != nil {
			return writeError(err)
		}
	}
	return nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func readError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("store read failed").
		WithCause(err)
}

func writeError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("store write failed").
		WithCause(err)
}
