package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Exports      Exports      `mapstructure:",squash"`
	Pacing       Pacing       `mapstructure:",squash"`
	DeliverySync DeliverySync `mapstructure:",squash"`
}

type Server struct {
	Host        string   `mapstructure:"host"`
	Port        string   `mapstructure:"port"`
	CorsOrigins []string `mapstructure:"cors_origins"`
}

type Database struct {
	Enabled  bool   `mapstructure:"database_enabled"`
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	SSLMode  string `mapstructure:"database_sslmode"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Exports aponta para a pasta onde as plataformas depositam os relatórios
type Exports struct {
	Dir                 string `mapstructure:"exports_dir"`
	MaxConcurrent       int    `mapstructure:"exports_max_concurrent"`
	DefaultLookbackDays int    `mapstructure:"exports_default_lookback_days"`
}

type Pacing struct {
	// Tolerance em pontos percentuais em torno de 100%
	Tolerance float64 `mapstructure:"pacing_tolerance"`
}

type DeliverySync struct {
	CronSchedule  string `mapstructure:"delivery_sync_cron"`
	LookbackDays  int    `mapstructure:"delivery_sync_lookback_days"`
	Enabled       bool   `mapstructure:"delivery_sync_enabled"`
	RetentionDays int    `mapstructure:"delivery_sync_retention_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.SetDefault("DATABASE_ENABLED", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/media_delivery")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_SSLMODE", "disable")

	viper.SetDefault("EXPORTS_DIR", "./exports")
	viper.SetDefault("EXPORTS_MAX_CONCURRENT", 4)
	viper.SetDefault("EXPORTS_DEFAULT_LOOKBACK_DAYS", 0) // 0 = sem filtro de data por padrão

	viper.SetDefault("PACING_TOLERANCE", 5.0)

	viper.SetDefault("DELIVERY_SYNC_CRON", "0 */2 * * *") // A cada duas horas
	viper.SetDefault("DELIVERY_SYNC_LOOKBACK_DAYS", 30)
	viper.SetDefault("DELIVERY_SYNC_ENABLED", false)
	viper.SetDefault("DELIVERY_SYNC_RETENTION_DAYS", 0) // 0 mantém tudo

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s?sslmode=%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
		config.Database.SSLMode,
	)

	return config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Exports.Dir) == "" {
		return fmt.Errorf("EXPORTS_DIR não configurado")
	}
	if c.Exports.MaxConcurrent <= 0 {
		return fmt.Errorf("EXPORTS_MAX_CONCURRENT deve ser positivo: %d", c.Exports.MaxConcurrent)
	}
	if c.Exports.DefaultLookbackDays < 0 {
		return fmt.Errorf("EXPORTS_DEFAULT_LOOKBACK_DAYS não pode ser negativo: %d", c.Exports.DefaultLookbackDays)
	}
	if c.Pacing.Tolerance < 0 || c.Pacing.Tolerance >= 100 {
		return fmt.Errorf("PACING_TOLERANCE fora do intervalo [0, 100): %.2f", c.Pacing.Tolerance)
	}
	if c.DeliverySync.RetentionDays < 0 {
		return fmt.Errorf("DELIVERY_SYNC_RETENTION_DAYS não pode ser negativo: %d", c.DeliverySync.RetentionDays)
	}

	if c.DeliverySync.Enabled && c.DeliverySync.LookbackDays <= 0 {
		return fmt.Errorf("DELIVERY_SYNC_LOOKBACK_DAYS deve ser positivo: %d", c.DeliverySync.LookbackDays)
	}
	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
