package config

import (
	"flag"
	"os"
	"time"

	httpapp "registrationBot/internal/app/http"
	convredis "registrationBot/internal/conversation/redis"
	"registrationBot/internal/events"
	"registrationBot/internal/repository/postgres"
	"registrationBot/internal/verification"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string                    `yaml:"env" env:"ENV" env-default:"local"`
	Telegram     Telegram                  `yaml:"telegram"`
	Postgres     postgres.Config           `yaml:"postgres"`
	Redis        convredis.Config          `yaml:"redis"`
	HTTP         httpapp.Config            `yaml:"http_server"`
	SMTP         verification.SMTPConfig   `yaml:"smtp"`
	Twilio       verification.TwilioConfig `yaml:"twilio"`
	Verification Verification              `yaml:"verification"`
	Security     Security                  `yaml:"security"`
	Kafka        events.KafkaConfig        `yaml:"kafka"`
}

type Telegram struct {
	BotToken      string        `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
	PollTimeout   int           `yaml:"poll_timeout" env:"TELEGRAM_POLL_TIMEOUT" env-default:"60"`
	Debug         bool          `yaml:"debug" env:"TELEGRAM_DEBUG" env-default:"false"`
	HandleTimeout time.Duration `yaml:"handle_timeout" env:"TELEGRAM_HANDLE_TIMEOUT" env-default:"30s"`
	Workers       int           `yaml:"workers" env:"TELEGRAM_WORKERS" env-default:"32"`
}

type Verification struct {
	MaxAttempts     int           `yaml:"max_attempts" env:"VERIFICATION_MAX_ATTEMPTS" env-default:"5"`
	CodeTTL         time.Duration `yaml:"code_ttl" env:"VERIFICATION_CODE_TTL" env-default:"10m"`
	ConversationTTL time.Duration `yaml:"conversation_ttl" env:"VERIFICATION_CONVERSATION_TTL" env-default:"24h"`
	Region          string        `yaml:"region" env:"VERIFICATION_REGION" env-default:"UA"`
	SweepSchedule   string        `yaml:"sweep_schedule" env:"VERIFICATION_SWEEP_SCHEDULE" env-default:"@every 10m"`
}

type Security struct {
	HashPasswords bool `yaml:"hash_passwords" env:"SECURITY_HASH_PASSWORDS" env-default:"false"`
	BcryptCost    int  `yaml:"bcrypt_cost" env:"SECURITY_BCRYPT_COST" env-default:"10"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath берет путь из флага -config, иначе из CONFIG_PATH
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
