package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/fingerprint"
	"feature-inspector/internal/matching"
)

type Config struct {
	TelegramToken string
	DatabasePath  string
	LogLevel      string
	LogFormat     string

	Strategy               entity.MatchStrategy
	FingerprintTolerance   float64
	WeightDistance         float64
	WeightAngle            float64
	WeightBarycentric      float64
	MatchDistanceThreshold float64
	TreatExtraAsError      bool
	ErrorFrame             matching.ErrorFrame
	Assignment             matching.Assignment
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	def := matching.DefaultConfig()
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/inspector.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),

		Strategy:               entity.StrategyTopology,
		FingerprintTolerance:   getEnvAsFloat("FINGERPRINT_TOLERANCE", def.FingerprintTolerance),
		WeightDistance:         getEnvAsFloat("WEIGHT_DISTANCE", def.Weights.Distance),
		WeightAngle:            getEnvAsFloat("WEIGHT_ANGLE", def.Weights.Angle),
		WeightBarycentric:      getEnvAsFloat("WEIGHT_BARYCENTRIC", def.Weights.Barycentric),
		MatchDistanceThreshold: getEnvAsFloat("MATCH_DISTANCE_THRESHOLD", def.MatchDistanceThreshold),
		TreatExtraAsError:      getEnvAsBool("TREAT_EXTRA_AS_ERROR", def.TreatExtraAsError),
		ErrorFrame:             def.ErrorFrame,
		Assignment:             def.Assignment,
	}

	if s, ok := entity.ParseMatchStrategy(strings.ToUpper(os.Getenv("MATCH_STRATEGY"))); ok {
		cfg.Strategy = s
	}
	switch frame := matching.ErrorFrame(strings.ToLower(os.Getenv("ERROR_FRAME"))); frame {
	case matching.ErrorFrameTemplate, matching.ErrorFrameRaw:
		cfg.ErrorFrame = frame
	}
	switch mode := matching.Assignment(strings.ToLower(os.Getenv("ASSIGNMENT"))); mode {
	case matching.AssignmentGreedy, matching.AssignmentOptimal:
		cfg.Assignment = mode
	}

	return cfg, nil
}

// Matching пороги сопоставления для матчеров
func (c *Config) Matching() matching.Config {
	return matching.Config{
		FingerprintTolerance: c.FingerprintTolerance,
		Weights: fingerprint.Weights{
			Distance:    c.WeightDistance,
			Angle:       c.WeightAngle,
			Barycentric: c.WeightBarycentric,
		},
		MatchDistanceThreshold: c.MatchDistanceThreshold,
		TreatExtraAsError:      c.TreatExtraAsError,
		ErrorFrame:             c.ErrorFrame,
		Assignment:             c.Assignment,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
