package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/ekurt/clouddepo/pkg/storage"
)

type Config struct {
	Storage struct {
		Backend  string           `yaml:"backend"` // "local" or "s3"
		Path     string           `yaml:"path"`
		Database string           `yaml:"database"`
		S3       storage.S3Config `yaml:"s3"`
	} `yaml:"storage"`
	API struct {
		Port      string `yaml:"port"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"api"`
	Limits struct {
		MaxFileSize  int64 `yaml:"max_file_size"`
		StorageLimit int64 `yaml:"storage_limit"` // budget per new user
	} `yaml:"limits"`
}

func LoadConfig() *Config {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Failed to read config file, using defaults: %v", err)
	} else if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse config file, using defaults: %v", err)
	}

	if secret := os.Getenv("CLOUDDEPO_JWT_SECRET"); secret != "" {
		config.API.JWTSecret = secret
	}
	if config.API.JWTSecret == "" {
		log.Fatal("JWT secret must be set via CLOUDDEPO_JWT_SECRET or the config file")
	}

	return config
}

func defaultConfig() *Config {
	config := &Config{}
	config.Storage.Backend = "local"
	config.Storage.Path = "./uploads"
	config.Storage.Database = "./clouddepo.db"
	config.API.Port = "8080"
	config.Limits.MaxFileSize = 100 * 1024 * 1024   // 100MB per upload
	config.Limits.StorageLimit = 1024 * 1024 * 1024 // 1GB per user
	return config
}
