// prune-audits removes old rows from the append-only run_audits table.
//
// Every collection run appends one audit row per source, so the table grows
// without bound. This script deletes rows older than the retention window
// while always keeping the most recent rows per source, so `history` output
// stays useful even for sources that have not run in a long time.
//
// Usage: go run ./scripts/prune-audits [-dry-run=false] [-days=90] [-keep=10] [source]
//
// Database connection: Uses standard PG* environment variables
//
// Flags:
//
//	-dry-run   Show what would be deleted without actually deleting (default: true)
//	-days      Retention window in days (default: 90)
//	-keep      Minimum audit rows kept per source regardless of age (default: 10)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "Show what would be deleted without actually deleting")
	days := flag.Int("days", 90, "Retention window in days")
	keep := flag.Int("keep", 10, "Minimum audit rows kept per source regardless of age")
	flag.Parse()

	if *days < 1 || *keep < 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-dry-run=false] [-days=90] [-keep=10] [source]\n", os.Args[0])
		os.Exit(1)
	}

	// Optional positional arg restricts pruning to one source id.
	source := ""
	if args := flag.Args(); len(args) > 0 {
		source = args[0]
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, buildConnString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if *dryRun {
		fmt.Println("DRY RUN - no changes will be made")
		fmt.Println("Run with -dry-run=false to actually delete audit rows")
		fmt.Println()
	}

	deleted, err := pruneAudits(ctx, conn, source, *days, *keep, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pruning audits: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Printf("\nTotal audit rows that would be deleted: %d\n", deleted)
	} else {
		fmt.Printf("\nTotal audit rows deleted: %d\n", deleted)
	}
}

// pruneQuery selects audits outside both the retention window and the
// per-source keep count. Rows are ranked newest first within each source;
// rank <= keep is retained no matter how old.
const pruneQuery = `
	SELECT id FROM (
		SELECT id,
		       source,
		       created_at,
		       row_number() OVER (PARTITION BY source ORDER BY created_at DESC) AS rank
		FROM run_audits
		WHERE ($1 = '' OR source = $1)
	) ranked
	WHERE rank > $2
	  AND created_at < now() - make_interval(days => $3)`

// pruneAudits deletes prunable audit rows, or lists them when dryRun is true.
func pruneAudits(ctx context.Context, conn *pgx.Conn, source string, days, keep int, dryRun bool) (int, error) {
	if dryRun {
		rows, err := conn.Query(ctx, `
			SELECT source, created_at, total_rows
			FROM run_audits
			WHERE id IN (`+pruneQuery+`)
			ORDER BY source, created_at`, source, keep, days)
		if err != nil {
			return 0, fmt.Errorf("query failed: %w", err)
		}
		defer rows.Close()

		var count int
		for rows.Next() {
			var src string
			var createdAt time.Time
			var totalRows int
			if err := rows.Scan(&src, &createdAt, &totalRows); err != nil {
				return 0, fmt.Errorf("scan failed: %w", err)
			}
			count++
			fmt.Printf("  [%s] %s (%d rows collected)\n", src, createdAt.UTC().Format(time.RFC3339), totalRows)
		}
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("rows iteration failed: %w", err)
		}

		if count == 0 {
			fmt.Println("  No prunable audit rows")
		}
		return count, nil
	}

	result, err := conn.Exec(ctx, "DELETE FROM run_audits WHERE id IN ("+pruneQuery+")", source, keep, days)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	count := int(result.RowsAffected())
	fmt.Printf("Deleted %d audit rows\n", count)
	return count, nil
}

func buildConnString() string {
	host := getEnvOrDefault("PGHOST", "localhost")
	port := getEnvOrDefault("PGPORT", "5432")
	user := getEnvOrDefault("PGUSER", "odyssey")
	password := os.Getenv("PGPASSWORD")
	dbname := getEnvOrDefault("PGDATABASE", "odyssey")

	connStr := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		host, port, user, dbname)
	if password != "" {
		connStr += fmt.Sprintf(" password=%s", password)
	}
	return connStr
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
