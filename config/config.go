package config

import (
	"fmt"
	"os"
)

// Config holds everything the service reads from the environment. The JWT
// secret is injected into the token service from here instead of being read
// from ambient globals, so tests can run with their own secrets.
type Config struct {
	MongoURI    string
	MongoDBName string
	JWTSecret   string
	ServerPort  string
}

func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDBName: os.Getenv("MONGO_DB_NAME"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ServerPort:  os.Getenv("SERVER_PORT"),
	}

	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.MongoDBName == "" {
		cfg.MongoDBName = "task_tracker"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set in the environment variables")
	}

	return cfg, nil
}
