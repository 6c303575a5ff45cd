package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/speech"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/color"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// preferenceDefaults 用户从未写入时返回的默认值；speech-language 为空
// 表示跟随服务端语音配置。
var preferenceDefaults = map[string]string{
	domain.PreferenceThemeColor:     "#6750a4",
	domain.PreferenceThemeMode:      "auto",
	domain.PreferenceSpeechLanguage: "",
}

// 主题色派生档位：浅色背景向暗调，深色背景向亮调
const (
	hoverDarkenPercent    = -8
	pressedDarkenPercent  = -16
	hoverLightenPercent   = 12
	pressedLightenPercent = 24
)

// PreferenceService stores per-user settings that survive across devices:
// the theme color, the light/dark mode and the speech recognition language.
// Values are validated per key before they are persisted.
// PreferenceService 保存跨设备生效的用户偏好，写入前按键校验取值。
type PreferenceService interface {
	// Get 获取一条偏好，未写入的已知键返回默认值
	Get(ctx context.Context, uid int64, key string) (*dto.PreferenceDTO, error)

	// GetAll 获取全部偏好，未写入的键补默认值
	GetAll(ctx context.Context, uid int64) ([]*dto.PreferenceDTO, error)

	// Set validates and persists one preference. The stored form is
	// canonical: lowercase "#rrggbb" for colors, BCP-47 canonical tags for
	// languages.
	// Set 校验并写入一条偏好，存储规范化后的取值
	Set(ctx context.Context, uid int64, params *dto.PreferenceSetRequest) (*dto.PreferenceDTO, error)

	// Palette 由基色派生前景与悬停、按下配色
	Palette(baseColor string) (*dto.PaletteDTO, error)

	// SpeechLanguage 返回用户的识别语言偏好，未设置时为空串
	SpeechLanguage(ctx context.Context, uid int64) string
}

type preferenceService struct {
	preferenceRepo domain.PreferenceRepository
	logger         *zap.Logger
}

// NewPreferenceService 创建 PreferenceService 实例
func NewPreferenceService(preferenceRepo domain.PreferenceRepository, logger *zap.Logger) PreferenceService {
	return &preferenceService{
		preferenceRepo: preferenceRepo,
		logger:         logger,
	}
}

// Get 获取一条偏好
func (s *preferenceService) Get(ctx context.Context, uid int64, key string) (*dto.PreferenceDTO, error) {
	if !domain.KnownPreferenceKeys[key] {
		return nil, code.ErrorPreferenceKey.WithDetails(key)
	}

	pref, err := s.preferenceRepo.Get(ctx, uid, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.PreferenceDTO{Key: key, Value: preferenceDefaults[key]}, nil
		}
		s.logger.Error("preference get failed", zap.Int64("uid", uid), zap.String("key", key), zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(pref), nil
}

// GetAll 获取全部偏好，缺失键补默认值
func (s *preferenceService) GetAll(ctx context.Context, uid int64) ([]*dto.PreferenceDTO, error) {
	prefs, err := s.preferenceRepo.GetAll(ctx, uid)
	if err != nil {
		s.logger.Error("preference list failed", zap.Int64("uid", uid), zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	stored := make(map[string]*domain.Preference, len(prefs))
	for _, p := range prefs {
		stored[p.Key] = p
	}

	// 固定顺序输出，客户端据此渲染设置面板
	keys := []string{
		domain.PreferenceThemeColor,
		domain.PreferenceThemeMode,
		domain.PreferenceSpeechLanguage,
	}
	out := make([]*dto.PreferenceDTO, 0, len(keys))
	for _, key := range keys {
		if p, ok := stored[key]; ok {
			out = append(out, s.domainToDTO(p))
			continue
		}
		out = append(out, &dto.PreferenceDTO{Key: key, Value: preferenceDefaults[key]})
	}
	return out, nil
}

// Set 校验并写入一条偏好
func (s *preferenceService) Set(ctx context.Context, uid int64, params *dto.PreferenceSetRequest) (*dto.PreferenceDTO, error) {
	value, err := s.canonicalize(params.Key, params.Value)
	if err != nil {
		return nil, err
	}

	if err := s.preferenceRepo.Set(ctx, uid, params.Key, value); err != nil {
		s.logger.Error("preference set failed",
			zap.Int64("uid", uid),
			zap.String("key", params.Key),
			zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return &dto.PreferenceDTO{Key: params.Key, Value: value, UpdatedAt: timex.Time(time.Now())}, nil
}

// canonicalize 按键校验取值并返回存储形态
func (s *preferenceService) canonicalize(key, value string) (string, error) {
	switch key {
	case domain.PreferenceThemeColor:
		r, g, b, err := color.ParseHex(value)
		if err != nil {
			return "", code.ErrorPreferenceColor.WithDetails(value)
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b), nil
	case domain.PreferenceThemeMode:
		switch value {
		case "auto", "light", "dark":
			return value, nil
		}
		return "", code.ErrorPreferenceValue.WithDetails(key, value)
	case domain.PreferenceSpeechLanguage:
		tag, err := speech.NormalizeLanguage(value)
		if err != nil {
			return "", code.ErrorSpeechLanguage.WithDetails(value)
		}
		return tag, nil
	}
	return "", code.ErrorPreferenceKey.WithDetails(key)
}

// Palette 由基色派生主题配色；前景为黑时背景偏浅，悬停与按下向暗，
// 反之向亮。
func (s *preferenceService) Palette(baseColor string) (*dto.PaletteDTO, error) {
	r, g, b, err := color.ParseHex(baseColor)
	if err != nil {
		return nil, code.ErrorPreferenceColor.WithDetails(baseColor)
	}
	background := fmt.Sprintf("#%02x%02x%02x", r, g, b)

	foreground, err := color.PickForegroundColor(background)
	if err != nil {
		return nil, code.ErrorPreferenceColor.WithDetails(baseColor)
	}

	hoverPercent, pressedPercent := hoverDarkenPercent, pressedDarkenPercent
	if foreground == color.White {
		hoverPercent, pressedPercent = hoverLightenPercent, pressedLightenPercent
	}
	hover, err := color.Shade(background, hoverPercent)
	if err != nil {
		return nil, code.ErrorPreferenceColor.WithDetails(baseColor)
	}
	pressed, err := color.Shade(background, pressedPercent)
	if err != nil {
		return nil, code.ErrorPreferenceColor.WithDetails(baseColor)
	}

	return &dto.PaletteDTO{
		Background: background,
		Foreground: foreground,
		Hover:      hover,
		Pressed:    pressed,
	}, nil
}

// SpeechLanguage 返回识别语言偏好，未设置或读取失败时为空串
func (s *preferenceService) SpeechLanguage(ctx context.Context, uid int64) string {
	pref, err := s.preferenceRepo.Get(ctx, uid, domain.PreferenceSpeechLanguage)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("speech language preference read failed", zap.Int64("uid", uid), zap.Error(err))
		}
		return ""
	}
	return pref.Value
}

func (s *preferenceService) domainToDTO(p *domain.Preference) *dto.PreferenceDTO {
	return &dto.PreferenceDTO{
		Key:       p.Key,
		Value:     p.Value,
		UpdatedAt: timex.Time(p.UpdatedAt),
	}
}

var _ PreferenceService = (*preferenceService)(nil)
