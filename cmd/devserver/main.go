package main

import (
	"time"

	log "github.com/sirupsen/logrus"

	"memelaunch/internal/devserver"
	"memelaunch/pkg/config"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg := config.Load()

	server := devserver.NewServer()
	server.StartTicker(2 * time.Second)
	defer server.StopTicker()

	if err := server.Run(cfg.DevServerAddr); err != nil {
		log.WithField("error", err.Error()).Fatal("Dev server exited")
	}
}
