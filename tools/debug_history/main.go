package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Quick probe for the accuracy_history table. Not part of the server.
func main() {
	teamID := flag.Int64("team", 0, "team id to dump recent rows for")
	season := flag.Int("season", 2025, "season")
	flag.Parse()

	dsn := os.Getenv("CLICKHOUSE_URL")
	if dsn == "" {
		dsn = "clickhouse://default:@localhost:9000/corners"
	}
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	var count uint64
	if err := conn.QueryRow(ctx, "SELECT count() FROM accuracy_history").Scan(&count); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total history rows: %d\n", count)

	if *teamID == 0 {
		return
	}

	rows, err := conn.Query(ctx, `
		SELECT prediction_id, prediction_type, was_correct, margin_of_error, match_date
		FROM accuracy_history
		WHERE team_id = ? AND season = ?
		ORDER BY match_date DESC
		LIMIT 20`, *teamID, int32(*season))
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	fmt.Printf("Recent rows for team %d:\n", *teamID)
	for rows.Next() {
		var (
			predictionID, metric string
			wasCorrect           uint8
			margin               float64
			matchDate            time.Time
		)
		if err := rows.Scan(&predictionID, &metric, &wasCorrect, &margin, &matchDate); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("- %s %s correct=%d margin=%.1f %s\n", matchDate.Format("2006-01-02"), metric, wasCorrect, margin, predictionID)
	}
}
