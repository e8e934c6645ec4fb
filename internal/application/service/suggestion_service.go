package service

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// SuggestionService keeps sorted, duplicate-free lists of the product names
// and descriptions used on past orders
type SuggestionService struct {
	settingsRepo repository.SettingsRepository
	log          *zap.Logger
	mu           sync.Mutex
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(settingsRepo repository.SettingsRepository, log *zap.Logger) *SuggestionService {
	return &SuggestionService{
		settingsRepo: settingsRepo,
		log:          log,
	}
}

// Suggestions groups both lists for the draft form
type Suggestions struct {
	Names        []string `json:"names"`
	Descriptions []string `json:"descriptions"`
}

// AddNameSuggestion records a product name
func (s *SuggestionService) AddNameSuggestion(ctx context.Context, text string) {
	s.add(ctx, entity.SettingProductNameSuggestions, text)
}

// AddDescriptionSuggestion records a product description
func (s *SuggestionService) AddDescriptionSuggestion(ctx context.Context, text string) {
	s.add(ctx, entity.SettingProductDescriptionSuggestions, text)
}

// RecordOrder feeds every product name and description on order
func (s *SuggestionService) RecordOrder(ctx context.Context, order *entity.Order) {
	var names, descriptions []string
	for _, section := range order.Sections {
		for _, item := range section.Products {
			names = append(names, item.Name)
			descriptions = append(descriptions, item.Description)
		}
	}
	s.add(ctx, entity.SettingProductNameSuggestions, names...)
	s.add(ctx, entity.SettingProductDescriptionSuggestions, descriptions...)
}

// NameSuggestions returns the recorded product names
func (s *SuggestionService) NameSuggestions(ctx context.Context) ([]string, error) {
	return s.load(ctx, entity.SettingProductNameSuggestions)
}

// DescriptionSuggestions returns the recorded product descriptions
func (s *SuggestionService) DescriptionSuggestions(ctx context.Context) ([]string, error) {
	return s.load(ctx, entity.SettingProductDescriptionSuggestions)
}

// All returns both lists
func (s *SuggestionService) All(ctx context.Context) (*Suggestions, error) {
	names, err := s.NameSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	descriptions, err := s.DescriptionSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	return &Suggestions{Names: names, Descriptions: descriptions}, nil
}

func (s *SuggestionService) load(ctx context.Context, key string) ([]string, error) {
	list := []string{}
	if _, err := s.settingsRepo.Get(ctx, key, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// add merges texts into the list stored under key. It never fails the
// caller: storage errors are logged and the suggestion is skipped.
func (s *SuggestionService) add(ctx context.Context, key string, texts ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []string
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text != "" {
			fresh = append(fresh, text)
		}
	}
	if len(fresh) == 0 {
		return
	}

	list, err := s.load(ctx, key)
	if err != nil {
		s.warn(key, err)
		return
	}

	changed := false
	for _, text := range fresh {
		if slices.Contains(list, text) {
			continue
		}
		list = append(list, text)
		changed = true
	}
	if !changed {
		return
	}

	sort.Strings(list)
	if err := s.settingsRepo.Set(ctx, key, list); err != nil {
		s.warn(key, err)
	}
}

func (s *SuggestionService) warn(key string, err error) {
	metrics.RecordSuggestionFailure()
	s.log.Warn("Failed to update suggestions", zap.String("key", key), zap.Error(err))
}
