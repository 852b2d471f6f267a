// File: config.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Captcha CaptchaConfig `yaml:"captcha"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr       string        `yaml:"addr" validate:"required"`
	SessionTTL time.Duration `yaml:"session_ttl" validate:"gte=0"`
	// Debug 打开严格模式：不变量被破坏时直接返回错误
	Debug      bool          `yaml:"debug"`
}

type CaptchaConfig struct {
	GridSize           int           `yaml:"grid_size" validate:"min=1,max=16"`
	WatermarkFraction  float64       `yaml:"watermark_fraction" validate:"gt=0,lte=1"`
	MaxAttempts        int           `yaml:"max_attempts" validate:"min=1"`
	MoveInterval       time.Duration `yaml:"move_interval" validate:"gt=0"`
	SquareSizeFraction float64       `yaml:"square_size_fraction" validate:"gt=0,lte=1"`
	Shapes             []Shape       `yaml:"shapes" validate:"min=1,unique,dive,oneof=triangle square circle"`
	Colors             []Color       `yaml:"colors" validate:"min=1,unique,dive,oneof=red green blue"`
	MaxFrameAge        time.Duration `yaml:"max_frame_age" validate:"gte=0"`
	RenderSize         int           `yaml:"render_size" validate:"min=64,max=4096"`
	// 上传帧的最大边长与请求体大小
	MaxFrameSide   int   `yaml:"max_frame_side" validate:"min=16,max=8192"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes" validate:"min=1024"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns the stock captcha settings.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":28416", SessionTTL: 10 * time.Minute},
		Captcha: CaptchaConfig{
			GridSize:           5,
			WatermarkFraction:  0.5,
			MaxAttempts:        3,
			MoveInterval:       1500 * time.Millisecond,
			SquareSizeFraction: 0.8,
			Shapes:             []Shape{ShapeTriangle, ShapeSquare, ShapeCircle},
			Colors:             []Color{ColorRed, ColorGreen, ColorBlue},
			MaxFrameAge:        5 * time.Second,
			RenderSize:         600,
			MaxFrameSide:       1920,
			MaxUploadBytes:     8 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	// 至少要有一个水印，否则无法选出目标
	if WatermarkCount(c.Captcha.GridSize, c.Captcha.WatermarkFraction) == 0 {
		return fmt.Errorf("%w: grid_size %d with watermark_fraction %v places no watermark",
			ErrConfiguration, c.Captcha.GridSize, c.Captcha.WatermarkFraction)
	}
	return nil
}
