package main

import (
	"context"
	"flag"
	"log"

	"github.com/johnquangdev/meeting-analyzer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

const seedPrefix = "[seed] "

func main() {
	clean := flag.Bool("clean", true, "delete previously seeded meetings first")
	flag.Parse()

	log.Println("🚀 Seeding demo meetings...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if *clean {
		log.Println("🗑️  Cleaning up existing seeded meetings...")
		res := db.Where("title LIKE ?", seedPrefix+"%").Delete(&entities.Meeting{})
		if res.Error != nil {
			log.Fatalf("Failed to clean seeded meetings: %v", res.Error)
		}
		log.Printf("   removed %d meetings", res.RowsAffected)
	}

	ctx := context.Background()
	repo := repository.NewMeetingRepository(db)
	resolver := language.NewResolver(language.DefaultCode)

	seeds := []struct {
		Title    string
		Timezone string
	}{
		{Title: "Mobile release standup", Timezone: "UTC"},
		{Title: "Sprint planning", Timezone: "Europe/Berlin"},
		{Title: "Customer sync", Timezone: "Asia/Ho_Chi_Minh"},
	}

	for i, s := range seeds {
		m := entities.NewMeeting(seedPrefix+s.Title, language.DefaultCode, s.Timezone, "")
		m.AudioPath = "audio/" + m.ID.String() + ".wav"

		if err := repo.Create(ctx, m); err != nil {
			log.Printf("❌ Failed to create meeting %q: %v", s.Title, err)
			continue
		}
		if err := repo.ApplyResult(ctx, m.ID, meeting.DemoResult(resolver, "WAV", 0)); err != nil {
			log.Printf("❌ Failed to store demo result for %q: %v", s.Title, err)
			continue
		}
		log.Printf("✅ %d. %s  id=%s", i+1, s.Title, m.ID)
	}

	log.Println("\n🎉 Done. Documents are generated on first download.")
}
