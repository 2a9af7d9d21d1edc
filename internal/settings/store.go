package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("setting not found")

// ErrEmptyAPIKey 密钥为空
var ErrEmptyAPIKey = errors.New("api key is empty")

// 设置键
const (
	KeyAPIKey = "api_key"
	KeyTheme  = "theme"
)

// 主题
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Store 键值存储
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Settings 持久化的用户设置 (API 密钥、主题)
type Settings struct {
	store Store
}

// New 创建设置
func New(store Store) *Settings {
	return &Settings{store: store}
}

// APIKey 读取 API 密钥，未设置时返回空字符串
func (s *Settings) APIKey(ctx context.Context) (string, error) {
	key, err := s.store.Get(ctx, KeyAPIKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load api key: %w", err)
	}
	return key, nil
}

// SaveAPIKey 保存 API 密钥
func (s *Settings) SaveAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	if err := s.store.Set(ctx, KeyAPIKey, key); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// ClearAPIKey 删除 API 密钥
func (s *Settings) ClearAPIKey(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyAPIKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clear api key: %w", err)
	}
	return nil
}

// SeedAPIKey 存储中没有密钥时写入初始值
func (s *Settings) SeedAPIKey(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	current, err := s.APIKey(ctx)
	if err != nil {
		return false, err
	}
	if current != "" {
		return false, nil
	}
	return true, s.SaveAPIKey(ctx, key)
}

// Theme 读取主题，默认 dark
func (s *Settings) Theme(ctx context.Context) (string, error) {
	theme, err := s.store.Get(ctx, KeyTheme)
	if errors.Is(err, ErrNotFound) {
		return ThemeDark, nil
	}
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	if theme != ThemeLight {
		return ThemeDark, nil
	}
	return theme, nil
}

// SaveTheme 保存主题
func (s *Settings) SaveTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("invalid theme %q", theme)
	}
	if err := s.store.Set(ctx, KeyTheme, theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
