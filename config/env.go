package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

// ParseEnvironment maps a name onto an Environment, defaulting to Development.
func ParseEnvironment(name string) Environment {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	case "ci":
		return CI
	default:
		return Development
	}
}

// IsDevelopment returns true if the current environment is development
func IsDevelopment() bool {
	return GetEnvironment() == Development
}

// IsTest returns true if the current environment is test
func IsTest() bool {
	return GetEnvironment() == Test
}

// IsCI returns true if the current environment is CI
func IsCI() bool {
	return GetEnvironment() == CI
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}
