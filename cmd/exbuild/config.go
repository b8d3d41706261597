package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exbuild-go/pkg/exbuild"
)

// config holds defaults taken from the environment or a .env file.
type config struct {
	Author      string
	Compression int
	LogLevel    string
	Pretty      bool
}

func loadConfig() (*config, error) {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := &config{
		Author:   os.Getenv("EXBUILD_AUTHOR"),
		LogLevel: getEnv("EXBUILD_LOG_LEVEL", "info"),
	}

	level, err := strconv.Atoi(getEnv("EXBUILD_COMPRESSION", strconv.Itoa(exbuild.DefaultCompressionLevel)))
	if err != nil {
		return nil, fmt.Errorf("EXBUILD_COMPRESSION: %w", err)
	}
	if level < 0 || level > 9 {
		return nil, fmt.Errorf("EXBUILD_COMPRESSION must be between 0 and 9, got %d", level)
	}
	cfg.Compression = level

	if cfg.Pretty, err = strconv.ParseBool(getEnv("EXBUILD_PRETTY", "false")); err != nil {
		return nil, fmt.Errorf("EXBUILD_PRETTY: %w", err)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("EXBUILD_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// logger returns a stderr logger at the configured level.
func (c *config) logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(level)
	}
	return l
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
