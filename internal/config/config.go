package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// LLMConfig contains all settings for the external generation service.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName         string `mapstructure:"model_name" validate:"required"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"gte=1,lte=300"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// BootstrapConfig identifies the default task owner created at startup.
// This stands in for an authentication layer: the owner ID resolved from
// these settings is passed explicitly through every service call, so wiring
// in real auth later only changes where the ID comes from.
type BootstrapConfig struct {
	OwnerEmail    string `mapstructure:"owner_email" validate:"required,email"`
	OwnerPassword string `mapstructure:"owner_password" validate:"required,min=12,max=72"`
}
