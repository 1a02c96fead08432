package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Shopify  ShopifyConfig
	XAI      XAIConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	I18n     I18nConfig
}

type ServerConfig struct {
	AppEnv         string
	HTTPPort       string
	GRPCPort       string
	AllowedOrigins []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// PostgresConfig is optional: an empty Host disables every Postgres backed component.
type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
}

type ShopifyConfig struct {
	StoreDomain       string
	StorefrontToken   string
	APIVersion        string
	RequestTimeout    time.Duration
	DefaultPageLimit  int
	CollectionsLimit  int
	ProductSourceKind string // shopify, postgres
}

type XAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	RequestTimeout time.Duration
}

type CartConfig struct {
	Storage string // memory, redis, postgres
	TTL     time.Duration
}

type CheckoutConfig struct {
	SimulatedDelay time.Duration
	LockTTL        time.Duration
}

type I18nConfig struct {
	DefaultLanguage string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:         getEnv("APP_ENV", "dev"),
			HTTPPort:       getEnv("HTTP_PORT", ":8080"),
			GRPCPort:       getEnv("GRPC_PORT", ":8082"),
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", ""),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "storefront"),
			Password:        getEnv("POSTGRES_PASSWORD", "storefront"),
			DBName:          getEnv("POSTGRES_DB", "storefront"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC_ORDERS", "storefront.orders"),
			GroupID: getEnv("KAFKA_GROUP_CART", "storefront-cart"),
		},
		Elastic: ElasticsearchConfig{
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", nil),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:     getEnv("ELASTICSEARCH_INDEX", "storefront-products"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:       getEnv("SHOPIFY_STORE_DOMAIN", ""),
			StorefrontToken:   getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
			APIVersion:        getEnv("SHOPIFY_API_VERSION", "2023-10"),
			RequestTimeout:    getEnvDuration("SHOPIFY_REQUEST_TIMEOUT", 10*time.Second),
			DefaultPageLimit:  getEnvInt("SHOPIFY_PRODUCTS_LIMIT", 50),
			CollectionsLimit:  getEnvInt("SHOPIFY_COLLECTIONS_LIMIT", 10),
			ProductSourceKind: getEnv("PRODUCT_SOURCE", "shopify"),
		},
		XAI: XAIConfig{
			APIKey:         getEnv("XAI_API_KEY", ""),
			BaseURL:        getEnv("XAI_BASE_URL", "https://api.x.ai"),
			Model:          getEnv("XAI_MODEL", "grok-2-1212"),
			RequestTimeout: getEnvDuration("XAI_REQUEST_TIMEOUT", 30*time.Second),
		},
		Cart: CartConfig{
			Storage: getEnv("CART_STORAGE", "memory"),
			TTL:     getEnvDuration("CART_TTL", 30*24*time.Hour),
		},
		Checkout: CheckoutConfig{
			SimulatedDelay: getEnvDuration("CHECKOUT_SIMULATED_DELAY", time.Second),
			LockTTL:        getEnvDuration("CHECKOUT_LOCK_TTL", 10*time.Second),
		},
		I18n: I18nConfig{
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "et"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return strings.Split(value, ",")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
