package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr   string
	GinMode   string
	JWTSecret string

	DBUser string
	DBPass string
	DBHost string
	DBName string
}

func LoadEnv() Env {
	return Env{
		AppAddr:   envOr("APP_ADDR", ":8080"),
		GinMode:   strings.TrimSpace(os.Getenv("GIN_MODE")),
		JWTSecret: envOr("JWT_SECRET", "charterdesk-dev-secret-change-me"),
		DBUser:    envOr("DB_USER", "root"),
		DBPass:    strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost:    envOr("DB_HOST", "127.0.0.1:3306"),
		DBName:    envOr("DB_NAME", "charterdesk"),
	}
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
