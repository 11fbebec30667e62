package main

import (
	"context"
	"log"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/redterminal/portfolio/internal/config"
	"github.com/redterminal/portfolio/internal/content"
	"github.com/redterminal/portfolio/internal/mailer"
	"github.com/redterminal/portfolio/internal/pages"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	site, err := loadSite(cfg)
	if err != nil {
		log.Fatal("Failed to load site content: ", err)
	}

	sender, err := mailer.New(cfg.Mail)
	if err != nil {
		log.Fatal("Failed to configure mail provider: ", err)
	}
	log.Printf("Contact form delivers via %s", cfg.Mail.Provider)

	store := pages.NewStore(sender, cfg.ContactConfig(), cfg.PageTTL, cfg.PageLimit)
	stopSweeper, err := store.StartSweeper(cfg.SweepSchedule)
	if err != nil {
		log.Fatal("Invalid SWEEP_SCHEDULE: ", err)
	}
	defer stopSweeper()

	r := gin.Default()
	r.Use(visitorLogMiddleware(newIPHasher()))
	r.LoadHTMLGlob(filepath.Join(cfg.TemplateDir, "*"))

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	setupRoutes(r, site, store, cfg.ResetDelay)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func loadSite(cfg *config.Config) (*content.Live, error) {
	if cfg.ContentFile == "" {
		site, err := content.Load()
		if err != nil {
			return nil, err
		}
		return content.NewLive(site), nil
	}

	site, err := content.LoadFile(cfg.ContentFile)
	if err != nil {
		return nil, err
	}
	live := content.NewLive(site)
	if cfg.ContentWatch {
		if err := live.Watch(context.Background(), cfg.ContentFile); err != nil {
			return nil, err
		}
		log.Printf("Watching %s for content changes", cfg.ContentFile)
	}
	return live, nil
}
