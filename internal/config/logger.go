package config

import (
	"os"

	"go.uber.org/zap"
)

func NewLogger() (*zap.Logger, error) {
	if os.Getenv("ROSTER_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
