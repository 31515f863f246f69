// One-off maintenance script: recompute users.points from the points log.
//
// The running total on users is maintained with atomic increments, but a
// manually edited row or an interrupted migration can leave it out of sync.
// This script compares every user's stored total against SUM(points_logs.delta)
// and rewrites the rows that drifted.
//
// Usage: go run ./cmd/scripts/recalc_points [config.yaml]
package main

import (
	"fmt"
	"os"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/models"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	db := models.GetDB()

	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		fmt.Printf("Failed to read users: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checking %d users...\n\n", len(users))

	fixed := 0
	for _, u := range users {
		var total int64
		err := db.Model(&models.PointsLog{}).
			Where("user_id = ?", u.ID).
			Select("COALESCE(SUM(delta), 0)").
			Scan(&total).Error
		if err != nil {
			fmt.Printf("  [%d] %s: failed to sum points log: %v\n", u.ID, u.Username, err)
			continue
		}

		if int(total) == u.Points {
			continue
		}

		fmt.Printf("  [%d] %s: stored=%d computed=%d\n", u.ID, u.Username, u.Points, total)
		if err := db.Model(&models.User{}).
			Where("id = ?", u.ID).
			Update("points", int(total)).Error; err != nil {
			fmt.Printf("  [%d] %s: failed to update: %v\n", u.ID, u.Username, err)
			continue
		}
		fixed++
	}

	fmt.Printf("\nDone. %d users corrected.\n", fixed)
}
