package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/stake-plus/medshield/src/api/data"
)

func main() {
	limit := flag.Int("limit", 20, "Number of reports to list")
	flag.Parse()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		log.Fatal("MYSQL_DSN is required")
	}

	reports := data.NewReports(data.MustMySQL(dsn))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recent, err := reports.Recent(ctx, *limit)
	if err != nil {
		log.Fatalf("Error listing reports: %v", err)
	}

	log.Printf("%d recent claim reports:", len(recent))
	for _, r := range recent {
		log.Printf("  %s  %s", r.CreatedAt.Format(time.RFC3339), r.ID)
		log.Printf("    Claim:   %s", r.Claim)
		log.Printf("    Verdict: %s", r.Verdict)
		if r.PageURL != "" {
			log.Printf("    URL:     %s", r.PageURL)
		}
		if r.Reason != "" {
			log.Printf("    Reason:  %s", r.Reason)
		}
	}
}
