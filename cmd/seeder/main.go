package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config
const (
	API_URL = "http://localhost:8080/api/v1/predictions"
	SEASON  = 2025
)

var teamNames = []string{
	"Arsenal", "Aston Villa", "Bournemouth", "Brentford", "Brighton",
	"Chelsea", "Crystal Palace", "Everton", "Fulham", "Liverpool",
}

func main() {
	dsn := os.Getenv("POSTGRES_URL")
	if dsn == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Teams
	for i, name := range teamNames {
		_, err := pool.Exec(ctx, `
			INSERT INTO teams (id, season, name, country)
			VALUES ($1, $2, $3, 'England')
			ON CONFLICT (id, season) DO NOTHING
		`, int64(i+1), SEASON, name)
		if err != nil {
			log.Fatalf("Failed to seed team %s: %v", name, err)
		}
	}

	// A round of completed matches per week so every team has history
	matchDate := time.Now().AddDate(0, -4, 0)
	inserted := 0
	for week := 0; week < 10; week++ {
		for i := 0; i < len(teamNames); i += 2 {
			home := int64(((i + week) % len(teamNames)) + 1)
			away := int64(((i + week + 1) % len(teamNames)) + 1)
			if home == away {
				continue
			}
			_, err := pool.Exec(ctx, `
				INSERT INTO matches (home_team_id, away_team_id, match_date, season, status,
				                     corners_home, corners_away, goals_home, goals_away)
				VALUES ($1, $2, $3, $4, 'FT', $5, $6, $7, $8)
			`, home, away, matchDate, SEASON,
				2+rng.Intn(8), 1+rng.Intn(7), rng.Intn(4), rng.Intn(3))
			if err != nil {
				log.Fatalf("Failed to seed match: %v", err)
			}
			inserted++
		}
		matchDate = matchDate.AddDate(0, 0, 7)
	}
	log.Printf("Seeded %d teams, %d matches", len(teamNames), inserted)

	// Smoke test: request a prediction for the first pairing
	payload, err := json.Marshal(map[string]interface{}{
		"home_team_id": 1,
		"away_team_id": 2,
		"season":       SEASON,
	})
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %v", err)
	}

	resp, err := http.Post(API_URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Prediction request failed (is the API running?): %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("POST %s -> %d\n%s\n", API_URL, resp.StatusCode, body)
}
