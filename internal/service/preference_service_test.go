package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type prefMockRepo struct {
	domain.PreferenceRepository
	values map[string]string
}

func newPrefMockRepo() *prefMockRepo {
	return &prefMockRepo{values: make(map[string]string)}
}

func (m *prefMockRepo) Get(ctx context.Context, uid int64, key string) (*domain.Preference, error) {
	if v, ok := m.values[key]; ok {
		return &domain.Preference{UID: uid, Key: key, Value: v, UpdatedAt: time.Now()}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *prefMockRepo) GetAll(ctx context.Context, uid int64) ([]*domain.Preference, error) {
	var out []*domain.Preference
	for k, v := range m.values {
		out = append(out, &domain.Preference{UID: uid, Key: k, Value: v, UpdatedAt: time.Now()})
	}
	return out, nil
}

func (m *prefMockRepo) Set(ctx context.Context, uid int64, key, value string) error {
	m.values[key] = value
	return nil
}

func newTestPreferenceService() (PreferenceService, *prefMockRepo) {
	repo := newPrefMockRepo()
	return NewPreferenceService(repo, zap.NewNop()), repo
}

func TestPreferenceService_GetUnknownKey(t *testing.T) {
	svc, _ := newTestPreferenceService()

	_, err := svc.Get(context.Background(), 1, "font-size")
	if !errors.Is(err, code.ErrorPreferenceKey) {
		t.Errorf("expected ErrorPreferenceKey, got %v", err)
	}
}

func TestPreferenceService_GetMissingReturnsDefault(t *testing.T) {
	svc, _ := newTestPreferenceService()

	pref, err := svc.Get(context.Background(), 1, domain.PreferenceThemeMode)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if pref.Value != "auto" {
		t.Errorf("expected default mode auto, got %q", pref.Value)
	}
}

func TestPreferenceService_SetThemeColorCanonicalizes(t *testing.T) {
	svc, repo := newTestPreferenceService()

	pref, err := svc.Set(context.Background(), 1, &dto.PreferenceSetRequest{
		Key:   domain.PreferenceThemeColor,
		Value: "6750A4",
	})
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if pref.Value != "#6750a4" {
		t.Errorf("expected canonical #6750a4, got %q", pref.Value)
	}
	if repo.values[domain.PreferenceThemeColor] != "#6750a4" {
		t.Errorf("stored value not canonical: %q", repo.values[domain.PreferenceThemeColor])
	}
}

func TestPreferenceService_SetRejectsBadValues(t *testing.T) {
	svc, _ := newTestPreferenceService()
	ctx := context.Background()

	cases := []struct {
		key   string
		value string
		want  *code.Code
	}{
		{domain.PreferenceThemeColor, "#12345", code.ErrorPreferenceColor},
		{domain.PreferenceThemeColor, "red", code.ErrorPreferenceColor},
		{domain.PreferenceThemeMode, "blue", code.ErrorPreferenceValue},
		{domain.PreferenceSpeechLanguage, "not a tag!", code.ErrorSpeechLanguage},
		{"font-size", "12", code.ErrorPreferenceKey},
	}
	for _, tc := range cases {
		_, err := svc.Set(ctx, 1, &dto.PreferenceSetRequest{Key: tc.key, Value: tc.value})
		if !errors.Is(err, tc.want) {
			t.Errorf("Set(%q, %q): expected %v, got %v", tc.key, tc.value, tc.want, err)
		}
	}
}

func TestPreferenceService_SetSpeechLanguageCanonicalizes(t *testing.T) {
	svc, repo := newTestPreferenceService()

	pref, err := svc.Set(context.Background(), 1, &dto.PreferenceSetRequest{
		Key:   domain.PreferenceSpeechLanguage,
		Value: "EN-us",
	})
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if pref.Value != "en-US" {
		t.Errorf("expected canonical en-US, got %q", pref.Value)
	}
	if got := repo.values[domain.PreferenceSpeechLanguage]; got != "en-US" {
		t.Errorf("stored value not canonical: %q", got)
	}
}

func TestPreferenceService_GetAllFillsDefaults(t *testing.T) {
	svc, repo := newTestPreferenceService()
	repo.values[domain.PreferenceThemeMode] = "dark"

	prefs, err := svc.GetAll(context.Background(), 1)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(prefs) != 3 {
		t.Fatalf("expected 3 preferences, got %d", len(prefs))
	}

	byKey := make(map[string]string, len(prefs))
	for _, p := range prefs {
		byKey[p.Key] = p.Value
	}
	if byKey[domain.PreferenceThemeMode] != "dark" {
		t.Errorf("stored mode should win, got %q", byKey[domain.PreferenceThemeMode])
	}
	if byKey[domain.PreferenceThemeColor] != "#6750a4" {
		t.Errorf("missing color should default, got %q", byKey[domain.PreferenceThemeColor])
	}
}

func TestPreferenceService_Palette(t *testing.T) {
	svc, _ := newTestPreferenceService()

	// 浅色背景：黑前景，向暗派生
	p, err := svc.Palette("#ffffff")
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if p.Foreground != "#000000" {
		t.Errorf("expected black foreground on white, got %q", p.Foreground)
	}
	if p.Hover != "#eaeaea" || p.Pressed != "#d6d6d6" {
		t.Errorf("unexpected shades: hover=%q pressed=%q", p.Hover, p.Pressed)
	}

	// 深色背景：白前景
	p, err = svc.Palette("000000")
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if p.Foreground != "#ffffff" {
		t.Errorf("expected white foreground on black, got %q", p.Foreground)
	}
	if p.Background != "#000000" {
		t.Errorf("expected canonical background, got %q", p.Background)
	}

	if _, err := svc.Palette("nope"); !errors.Is(err, code.ErrorPreferenceColor) {
		t.Errorf("expected ErrorPreferenceColor, got %v", err)
	}
}

func TestPreferenceService_SpeechLanguage(t *testing.T) {
	svc, repo := newTestPreferenceService()
	ctx := context.Background()

	if lang := svc.SpeechLanguage(ctx, 1); lang != "" {
		t.Errorf("expected empty language when unset, got %q", lang)
	}

	repo.values[domain.PreferenceSpeechLanguage] = "de-DE"
	if lang := svc.SpeechLanguage(ctx, 1); lang != "de-DE" {
		t.Errorf("expected de-DE, got %q", lang)
	}
}
