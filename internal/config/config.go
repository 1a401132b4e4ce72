package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SecurityConfig represents security configuration
type SecurityConfig struct {
	EnableRateLimit       bool
	RateLimitPerSecond    float64
	RateLimitBurst        int
	EnableCORS            bool
	AllowedOrigins        []string
	EnableSecurityHeaders bool
	MaxRequestSize        int64
	EnableRequestID       bool
}

// HealthConfig holds the feed health escalation thresholds
type HealthConfig struct {
	DegradedAfter  int // consecutive failures before a feed turns degraded
	ErrorAfter     int // consecutive failures before a feed turns error
	DisableAfter   int // consecutive failures before a feed is disabled
	MaxErrors24h   int // rolling 24h error ceiling that also disables
	RecoveryStep   int // reliability points gained per success
	FailurePenalty int // reliability points lost per failure
}

// ProbeConfig holds the internal routes checked by the health scorer
type ProbeConfig struct {
	BaseURL string
	Routes  []string
	Timeout time.Duration
}

type Config struct {
	Port              int
	DataDir           string
	LogLevel          string
	CacheTTL          time.Duration
	PollInterval      time.Duration
	LogRetention      time.Duration
	UserAgent         string
	FetchTimeout      time.Duration
	IngestBatchSize   int
	IngestConcurrency int
	EnableSwagger     bool
	Security          SecurityConfig
	Health            HealthConfig
	Probes            ProbeConfig
}

func Load() *Config {
	port := getEnvAsInt("PORT", 8080)
	dataDir := getEnv("DATA_DIR", "./data")
	logLevel := getEnv("LOG_LEVEL", "info")
	cacheTTL := getEnvAsDuration("CACHE_TTL", 30*time.Second)
	pollInterval := getEnvAsDuration("POLL_INTERVAL", 15*time.Minute)
	logRetention := getEnvAsDuration("LOG_RETENTION", 72*time.Hour)
	userAgent := getEnv("USER_AGENT", "FeedCore/1.0 (content health monitor)")
	fetchTimeout := getEnvAsDuration("FETCH_TIMEOUT", 20*time.Second)
	ingestBatchSize := getEnvAsInt("INGEST_BATCH_SIZE", 25)
	ingestConcurrency := getEnvAsInt("INGEST_CONCURRENCY", 5)
	enableSwagger := getEnvAsBool("ENABLE_SWAGGER", true)

	security := loadSecurityConfig()
	health := loadHealthConfig()
	probes := loadProbeConfig(port)

	return &Config{
		Port:              port,
		DataDir:           dataDir,
		LogLevel:          logLevel,
		CacheTTL:          cacheTTL,
		PollInterval:      pollInterval,
		LogRetention:      logRetention,
		UserAgent:         userAgent,
		FetchTimeout:      fetchTimeout,
		IngestBatchSize:   ingestBatchSize,
		IngestConcurrency: ingestConcurrency,
		EnableSwagger:     enableSwagger,
		Security:          security,
		Health:            health,
		Probes:            probes,
	}
}

func loadSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableRateLimit:       getEnvAsBool("ENABLE_RATE_LIMIT", true),
		RateLimitPerSecond:    getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10.0),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 20),
		EnableCORS:            getEnvAsBool("ENABLE_CORS", true),
		AllowedOrigins:        getEnvAsStringSlice("ALLOWED_ORIGINS", []string{"*"}),
		EnableSecurityHeaders: getEnvAsBool("ENABLE_SECURITY_HEADERS", true),
		MaxRequestSize:        getEnvAsInt64("MAX_REQUEST_SIZE", 10<<20), // 10MB
		EnableRequestID:       getEnvAsBool("ENABLE_REQUEST_ID", true),
	}
}

func loadHealthConfig() HealthConfig {
	return HealthConfig{
		DegradedAfter:  getEnvAsInt("HEALTH_DEGRADED_AFTER", 3),
		ErrorAfter:     getEnvAsInt("HEALTH_ERROR_AFTER", 5),
		DisableAfter:   getEnvAsInt("HEALTH_DISABLE_AFTER", 10),
		MaxErrors24h:   getEnvAsInt("HEALTH_MAX_ERRORS_24H", 25),
		RecoveryStep:   getEnvAsInt("HEALTH_RECOVERY_STEP", 10),
		FailurePenalty: getEnvAsInt("HEALTH_FAILURE_PENALTY", 15),
	}
}

func loadProbeConfig(port int) ProbeConfig {
	baseURL := getEnv("PROBE_BASE_URL", "http://localhost:"+strconv.Itoa(port))
	// The snapshot endpoint itself is not probed: a cold-cache snapshot
	// probing it would trigger another snapshot computation.
	routes := getEnvAsStringSlice("PROBE_ROUTES", []string{
		"/health",
		"/api/v1/articles",
		"/api/v1/feeds",
		"/metrics",
	})
	timeout := getEnvAsDuration("PROBE_TIMEOUT", 5*time.Second)

	return ProbeConfig{
		BaseURL: baseURL,
		Routes:  routes,
		Timeout: timeout,
	}
}

func getEnv(key string, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		items := strings.Split(val, ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		return items
	}
	return defaultVal
}
