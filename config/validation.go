package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirements lists the settings that must be non-empty per environment.
// Development and test fall back to defaults for everything but the JWT secret.
var requirements = map[Environment][]string{
	Development: {"security.jwt_secret"},
	Test:        {"security.jwt_secret"},
	CI: {
		"database.password",
		"security.jwt_secret",
	},
	Production: {
		"database.password",
		"security.jwt_secret",
		"redis.password",
	},
}

func (c *Config) lookup(field string) string {
	switch field {
	case "database.password":
		if c.Database.URL != "" {
			return c.Database.URL
		}
		return c.Database.Password
	case "security.jwt_secret":
		return c.Security.JWTSecret
	case "redis.password":
		if c.Redis.URL != "" || c.Redis.Optional {
			return "set"
		}
		return c.Redis.Password
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	for _, field := range requirements[cfg.Environment] {
		if cfg.lookup(field) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required in " + cfg.Environment.String()})
		}
	}

	r := cfg.Recommend
	if r.SimilarityLimit <= 0 {
		errs = append(errs, ValidationError{Field: "recommend.similarity_limit", Message: "must be positive"})
	}
	if r.PersonalizedLimit <= 0 {
		errs = append(errs, ValidationError{Field: "recommend.personalized_limit", Message: "must be positive"})
	}
	if r.RefreshLimit <= 0 {
		errs = append(errs, ValidationError{Field: "recommend.refresh_limit", Message: "must be positive"})
	}
	if r.QueryTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "recommend.query_timeout", Message: "must be positive"})
	}
	if r.RefreshHour < 0 || r.RefreshHour > 23 {
		errs = append(errs, ValidationError{Field: "recommend.refresh_hour", Message: "must be between 0 and 23"})
	}
	if r.RefreshMinute < 0 || r.RefreshMinute > 59 {
		errs = append(errs, ValidationError{Field: "recommend.refresh_minute", Message: "must be between 0 and 59"})
	}

	if cfg.Security.RefreshRateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "security.refresh_rate_limit", Message: "must be positive"})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, ValidationError{Field: "logging.format", Message: "must be json or console"})
	}

	return errors.Join(errs...)
}
