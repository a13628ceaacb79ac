package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/solarprices/backend/internal/domain"
)

// Package-level compiled regex patterns for key normalization
var (
	nonKeyCharRegex     = regexp.MustCompile(`[^a-z0-9\-_\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// SupportedLanguages are the UI languages of the front end
var SupportedLanguages = []string{"es", "en", "ar"}

// LanguagePreference is a client's stored UI language
type LanguagePreference struct {
	Client    string `json:"client"`
	Language  string `json:"language"`
	Direction string `json:"direction"` // "ltr" or "rtl"
	Stored    bool   `json:"stored"`
}

// PreferenceServiceConfig holds configuration for the preference service
type PreferenceServiceConfig struct {
	TTL             time.Duration
	DefaultLanguage string
}

// PreferenceService stores the front end's language toggle per client
type PreferenceService struct {
	repo            domain.PreferenceRepository
	ttl             time.Duration
	defaultLanguage string
}

// NewPreferenceService creates a preference service
func NewPreferenceService(repo domain.PreferenceRepository, config PreferenceServiceConfig) *PreferenceService {
	ttl := config.TTL
	if ttl == 0 {
		ttl = 8760 * time.Hour // Default 1 year
	}

	lang := strings.ToLower(config.DefaultLanguage)
	if !isSupportedLanguage(lang) {
		lang = "es"
	}

	return &PreferenceService{
		repo:            repo,
		ttl:             ttl,
		defaultLanguage: lang,
	}
}

// GetLanguage returns the stored language for client, or the default
// language when nothing is stored.
func (s *PreferenceService) GetLanguage(ctx context.Context, client string) (*LanguagePreference, error) {
	key, err := preferenceKey(client)
	if err != nil {
		return nil, err
	}

	lang, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return newLanguagePreference(client, s.defaultLanguage, false), nil
		}
		return nil, err
	}

	if !isSupportedLanguage(lang) {
		return newLanguagePreference(client, s.defaultLanguage, false), nil
	}
	return newLanguagePreference(client, lang, true), nil
}

// SetLanguage stores lang for client
func (s *PreferenceService) SetLanguage(ctx context.Context, client, lang string) (*LanguagePreference, error) {
	key, err := preferenceKey(client)
	if err != nil {
		return nil, err
	}

	lang = strings.ToLower(strings.TrimSpace(lang))
	if !isSupportedLanguage(lang) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, lang)
	}

	if err := s.repo.Set(ctx, key, lang, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store preference: %w", err)
	}

	return newLanguagePreference(client, lang, true), nil
}

// StoredCount returns the number of entries held by the preference store
func (s *PreferenceService) StoredCount() int {
	return s.repo.Size()
}

// preferenceKey creates a normalized storage key.
// Format: "preference:lang:{normalized_client}"
func preferenceKey(client string) (string, error) {
	normalized := normalizeForKey(client)
	if normalized == "" {
		return "", fmt.Errorf("%w: client id is required", domain.ErrInvalidClient)
	}
	return "preference:lang:" + normalized, nil
}

// normalizeForKey lowercases s, drops special characters and collapses
// whitespace.
func normalizeForKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonKeyCharRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func isSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

func newLanguagePreference(client, lang string, stored bool) *LanguagePreference {
	direction := "ltr"
	if lang == "ar" {
		direction = "rtl"
	}
	return &LanguagePreference{
		Client:    client,
		Language:  lang,
		Direction: direction,
		Stored:    stored,
	}
}
