// Package config loads service configuration from config.yml, .env files and
// the process environment using Viper.
//
//	var cfg settings.Config
//	err := config.LoadConfig("whispering", &cfg,
//		config.WithDefault("transcription.provider", "OpenAI"))
//
// Environment variables override file values. Underscores map onto nested
// keys, so TRANSCRIPTION_PROVIDER sets transcription.provider.
package config
