// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
//
// Katmanlar (sonraki öncekini ezer):
//  1. Varsayılanlar
//  2. CONFIG_FILE ile verilen YAML dosyası (opsiyonel)
//  3. Environment variable'lar (.env dosyası varsa önce o yüklenir)
//
// Production'da genelde sadece env kullanılır; YAML çok instance'lı
// kurulumlarda ortak ayarları paylaşmak içindir.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Crypto    CryptoConfig    `yaml:"crypto"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Log       LogConfig       `yaml:"log"`
	Instance  InstanceConfig  `yaml:"instance"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`

	// TrustedProxies, X-Forwarded-For / X-Real-IP header'larına güvenilen
	// reverse proxy adresleri (IP veya CIDR). Boşsa sadece RemoteAddr kullanılır.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string `yaml:"path"` // ör: ./data/mqvi.db
}

// JWTConfig, access token doğrulama ayarları.
type JWTConfig struct {
	Secret string `yaml:"secret"` // GİZLİ TUTULMALI
}

// CryptoConfig, at-rest şifreleme anahtarları.
type CryptoConfig struct {
	// IPSealKey, ban ip alanı için 64 hex karakter (32 byte).
	// Oluşturma: openssl rand -hex 32
	IPSealKey string `yaml:"ip_seal_key"`
}

// MQTTConfig, guild event relay ayarları. Enabled false ise relay kurulmaz.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	QoS         int    `yaml:"qos"`

	// PublishTimeout, broker onayı için üst sınır.
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// LogConfig, logrus ayarları.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// InstanceConfig, /api/ping ile dönen instance bilgileri.
type InstanceConfig struct {
	ID                   string `yaml:"id" json:"id"`
	Name                 string `yaml:"name" json:"name"`
	Description          string `yaml:"description" json:"description"`
	Image                string `yaml:"image" json:"image"`
	CorrespondenceEmail  string `yaml:"correspondence_email" json:"correspondenceEmail"`
	CorrespondenceUserID string `yaml:"correspondence_user_id" json:"correspondenceUserID"`
	FrontPage            string `yaml:"front_page" json:"frontPage"`
	TosPage              string `yaml:"tos_page" json:"tosPage"`
}

// RateLimitConfig, ban oluşturma/kaldırma için aktör başına limit.
// BanActions <= 0 limiti kapatır.
type RateLimitConfig struct {
	BanActions int           `yaml:"ban_actions"`
	BanWindow  time.Duration `yaml:"ban_window"`
}

// CacheConfig, public profil cache süresi. 0 cache'i kapatır.
type CacheConfig struct {
	ProfileTTL time.Duration `yaml:"profile_ttl"`
}

// Default, varsayılan değerlerle doldurulmuş Config döner.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        9090,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{Path: "./data/mqvi.db"},
		MQTT: MQTTConfig{
			ClientID:       "mqvi-bans",
			TopicPrefix:    "mqvi",
			QoS:            1,
			PublishTimeout: 5 * time.Second,
		},
		Log:       LogConfig{Level: "info", Format: "text"},
		Instance:  InstanceConfig{Name: "mqvi"},
		RateLimit: RateLimitConfig{BanActions: 10, BanWindow: time.Minute},
		Cache:     CacheConfig{ProfileTTL: 30 * time.Second},
	}
}

// Load, varsayılanlar → YAML → env sırasıyla Config oluşturur.
// .env dosyası varsa önce onu yükler; yoksa sessizce devam eder.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.LookupEnv)
}

type lookupFunc func(key string) (string, bool)

func load(lookup lookupFunc) (*Config, error) {
	cfg := Default()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile, YAML dosyasını mevcut değerlerin üzerine okur.
// Dosyada olmayan alanlar varsayılan değerini korur.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	seconds := func(key string, dst *time.Duration) error {
		var n int
		if err := num(key, &n); err != nil {
			return err
		}
		if _, ok := lookup(key); ok {
			*dst = time.Duration(n) * time.Second
		}
		return nil
	}

	str("SERVER_HOST", &c.Server.Host)
	if err := num("SERVER_PORT", &c.Server.Port); err != nil {
		return err
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = splitList(v)
	}

	str("DATABASE_PATH", &c.Database.Path)
	str("JWT_SECRET", &c.JWT.Secret)
	str("IP_SEAL_KEY", &c.Crypto.IPSealKey)

	if v, ok := lookup("MQTT_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MQTT_ENABLED: %w", err)
		}
		c.MQTT.Enabled = enabled
	}
	str("MQTT_BROKER", &c.MQTT.Broker)
	str("MQTT_CLIENT_ID", &c.MQTT.ClientID)
	str("MQTT_TOPIC_PREFIX", &c.MQTT.TopicPrefix)
	str("MQTT_USERNAME", &c.MQTT.Username)
	str("MQTT_PASSWORD", &c.MQTT.Password)
	if err := num("MQTT_QOS", &c.MQTT.QoS); err != nil {
		return err
	}
	if err := seconds("MQTT_PUBLISH_TIMEOUT_SECONDS", &c.MQTT.PublishTimeout); err != nil {
		return err
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	str("INSTANCE_ID", &c.Instance.ID)
	str("INSTANCE_NAME", &c.Instance.Name)
	str("INSTANCE_DESCRIPTION", &c.Instance.Description)
	str("INSTANCE_IMAGE", &c.Instance.Image)
	str("INSTANCE_CORRESPONDENCE_EMAIL", &c.Instance.CorrespondenceEmail)
	str("INSTANCE_CORRESPONDENCE_USER_ID", &c.Instance.CorrespondenceUserID)
	str("INSTANCE_FRONT_PAGE", &c.Instance.FrontPage)
	str("INSTANCE_TOS_PAGE", &c.Instance.TosPage)

	if err := num("BAN_RATE_LIMIT", &c.RateLimit.BanActions); err != nil {
		return err
	}
	if err := seconds("BAN_RATE_WINDOW_SECONDS", &c.RateLimit.BanWindow); err != nil {
		return err
	}
	return seconds("PROFILE_CACHE_TTL_SECONDS", &c.Cache.ProfileTTL)
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Crypto.IPSealKey) != 64 {
		return fmt.Errorf("IP_SEAL_KEY must be 64 hex characters (openssl rand -hex 32)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("MQTT_BROKER is required when MQTT is enabled")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2")
	}
	if c.MQTT.Enabled && c.MQTT.PublishTimeout <= 0 {
		return fmt.Errorf("MQTT_PUBLISH_TIMEOUT_SECONDS must be positive")
	}
	for _, p := range c.Server.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p)
		}
	}
	if c.RateLimit.BanActions > 0 && c.RateLimit.BanWindow <= 0 {
		return fmt.Errorf("ban rate limit window must be positive")
	}
	return nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
