package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	DefaultMongoURI   = "mongodb://localhost:27017/todo-app"
	DefaultDatabase   = "todo-app"
	DefaultCollection = "todos"
	DefaultPort       = "5000"
	DefaultAPIURL     = "http://localhost:5000/api"
)

// AllowedOrigins is the fixed CORS allow-list of the API.
var AllowedOrigins = []string{
	"http://localhost:5173",
	"https://your-vercel-domain.vercel.app",
}

// AllowedMethods are the only methods accepted on the todo resource.
var AllowedMethods = []string{"GET", "POST", "PATCH", "DELETE"}

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Client    ClientConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type MongoDBConfig struct {
	URI            string
	Database       string
	Collection     string
	Timeout        time.Duration
	FallbackMemory bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr returns host:port, defaulting the port to 6379.
func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
}

// ClientConfig is handed to the browser UI.
type ClientConfig struct {
	APIURL string
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", 15)
	v.SetDefault("MONGODB_URI", DefaultMongoURI)
	v.SetDefault("MONGODB_COLLECTION", DefaultCollection)
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MONGODB_FALLBACK_MEMORY", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SEC", 30)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("LOG_LEVEL", "info")

	uri := v.GetString("MONGODB_URI")
	db := v.GetString("MONGODB_DATABASE")
	if db == "" {
		db = DatabaseFromURI(uri)
	}

	apiURL := v.GetString("VITE_API_URL")
	if apiURL == "" {
		apiURL = v.GetString("API_URL")
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:            uri,
			Database:       db,
			Collection:     v.GetString("MONGODB_COLLECTION"),
			Timeout:        time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
			FallbackMemory: v.GetBool("MONGODB_FALLBACK_MEMORY"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: time.Duration(v.GetInt("CACHE_TTL_SEC")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: append([]string(nil), AllowedOrigins...),
			AllowedMethods: append([]string(nil), AllowedMethods...),
		},
		Client:   ClientConfig{APIURL: strings.TrimRight(apiURL, "/")},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsProduction reports whether the service runs with SERVER_ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// DatabaseFromURI returns the database named in the URI path, or DefaultDatabase.
func DatabaseFromURI(uri string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Database == "" {
		return DefaultDatabase
	}
	return cs.Database
}
