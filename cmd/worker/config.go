package main

import (
	"log"
	"time"

	"homelibrary-backend/pkg/container"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SweepMinutes int
	SweepAfter   time.Duration
}

// loadConfig derives worker settings from the shared app config.
func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisAddr:     c.Config.Redis.Host,
		RedisPassword: c.Config.Redis.Password,
		RedisDB:       c.Config.Redis.DB,
		SweepMinutes:  c.Config.Library.SweepAfter,
		SweepAfter:    time.Duration(c.Config.Library.SweepAfter) * time.Minute,
	}

	log.Printf("[Config] Redis: %s, Library: %s, Sweep window: %s",
		cfg.RedisAddr, c.Config.Library.Dir, cfg.SweepAfter)

	return cfg
}
