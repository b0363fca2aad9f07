package internal

import (
	"fmt"
	"time"

	"messenger/domain"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFile         string        `env:"LOG_FILE,default=messenger.log" validate:"required"`
	SelfID          string        `env:"SELF_ID,default=0" validate:"required"`
	SelfName        string        `env:"SELF_NAME,default=me"`
	RoutesFile      string        `env:"ROUTES_FILE"`
	OutboxSize      int           `env:"OUTBOX_SIZE,default=64" validate:"min=1"`
	FeedBufferSize  int           `env:"FEED_BUFFER_SIZE,default=64" validate:"min=0"`
	SendTimeout     time.Duration `env:"SEND_TIMEOUT,default=5s" validate:"gt=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	BacklogInterval time.Duration `env:"BACKLOG_INTERVAL,default=10s" validate:"gt=0"`
}

// LoadConfig reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Self is the local identity threaded into every composed message.
func (c Config) Self() domain.UserProfile {
	return domain.UserProfile{ID: domain.UserID(c.SelfID), Name: c.SelfName}
}
