package configs

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"momo-insights/pkg/utils"
)

type Config struct {
	Port           string `mapstructure:"PORT" validate:"required"`
	DbAddr         string `mapstructure:"DB_ADDR" validate:"required"`
	MaxDbCons      int32  `mapstructure:"MAX_DB_CONNECTIONS" validate:"min=1"`
	MinDbCons      int32  `mapstructure:"MIN_DB_CONNECTIONS" validate:"min=1"`
	SessionSecret  string `mapstructure:"SESSION_SECRET" validate:"required,min=32"`
	SessionMaxAge  int    `mapstructure:"SESSION_MAX_AGE" validate:"min=60"` // seconds
	RedisAddr      string `mapstructure:"REDIS_ADDR"`                        // optional; enables the global login throttle
	LoginRate      int    `mapstructure:"LOGIN_RATE" validate:"min=0"`       // attempts/sec per username; 0 disables
	LoginBurst     int    `mapstructure:"LOGIN_BURST" validate:"min=1"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES" validate:"min=1024"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MAX_DB_CONNECTIONS", "10")
	viper.SetDefault("MIN_DB_CONNECTIONS", "2")
	viper.SetDefault("SESSION_MAX_AGE", "86400")
	viper.SetDefault("LOGIN_RATE", "1")
	viper.SetDefault("LOGIN_BURST", "5")
	viper.SetDefault("MAX_UPLOAD_BYTES", "10485760") // 10 MiB

	// Optional: Read from config.yaml if exists
	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running in test mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running in development mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	// Validate after unmarshal
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
