// file: config/config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config 汇总所有通过环境变量注入的运行配置
type Config struct {
	ListenAddr string
	MySQLDSN   string
	RedisAddr  string
	RedisPass  string
	JWTSecret  string
}

// Load 读取 .env（若存在）并组装配置，缺省值适用于本地开发
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "root:123456@tcp(localhost:3306)/novactf?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:  getEnv("REDIS_PASSWORD", ""),
		JWTSecret:  getEnv("JWT_SECRET", "change-me-in-production"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
