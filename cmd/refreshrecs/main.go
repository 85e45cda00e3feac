// refreshrecs — maintenance batch for the match service.
//
// Regenerates every recommendation in the system and prints per-subject
// counts. With -clear, existing recommendations are wiped first.
//
// Usage:
//
//	DATABASE_URL=postgres://… go run ./cmd/refreshrecs [-clear]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"jobmate/match-service/internal/db"
	"jobmate/match-service/internal/recs"
)

func main() {
	clearFlag := flag.Bool("clear", false, "delete all existing recommendations before regenerating")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("[refreshrecs] DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("[refreshrecs] PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("[refreshrecs] Schema: %v", err)
	}

	report, err := recs.NewService(pool).RebuildAll(ctx, *clearFlag)
	if err != nil {
		log.Fatalf("[refreshrecs] Rebuild failed: %v", err)
	}

	if report.Cleared {
		fmt.Println("Cleared existing recommendations.")
	}
	for _, subject := range report.Subjects {
		fmt.Printf("  %s %s: %d recommendations\n", subject.Kind, subject.Label, subject.Count)
	}
	fmt.Printf("Generated %d job recommendations and %d candidate recommendations.\n",
		report.JobRecommendations, report.CandidateRecommendations)
}
