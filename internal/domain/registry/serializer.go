package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
)

// Serializer renders the public representation of a survey from its identity record
type Serializer interface {
	Serialize(ctx context.Context, survey *entities.Survey) (interface{}, error)
}

// SerializerFunc adapts a function to the Serializer interface
type SerializerFunc func(ctx context.Context, survey *entities.Survey) (interface{}, error)

func (f SerializerFunc) Serialize(ctx context.Context, survey *entities.Survey) (interface{}, error) {
	return f(ctx, survey)
}

// SurveyRepresentation is the identity-only representation used when no type-specific serializer exists
type SurveyRepresentation struct {
	ID   uuid.UUID `json:"id"`
	Type string    `json:"type"`
	Name string    `json:"name"`
	URL  string    `json:"url"`
}

// IdentitySerializer renders only the identity record
type IdentitySerializer struct {
	BaseURL string
}

func (s IdentitySerializer) Serialize(_ context.Context, survey *entities.Survey) (interface{}, error) {
	return SurveyRepresentation{
		ID:   survey.UUID,
		Type: survey.Type,
		Name: survey.Name,
		URL:  entities.PublicURL(s.BaseURL, survey.UUID),
	}, nil
}

// SerializerRegistry maps type tags to serializers, falling back to a generic one
type SerializerRegistry struct {
	mu       sync.RWMutex
	registry map[string]Serializer
	fallback Serializer
}

func NewSerializerRegistry(fallback Serializer) *SerializerRegistry {
	return &SerializerRegistry{
		registry: make(map[string]Serializer),
		fallback: fallback,
	}
}

func (r *SerializerRegistry) Register(surveyType string, s Serializer) error {
	if surveyType == "" || s == nil {
		return fmt.Errorf("%w: serializer for %q is nil", ErrImproperlyConfigured, surveyType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.registry[surveyType]; ok {
		return fmt.Errorf("%w: serializer for %s", ErrAlreadyRegistered, surveyType)
	}
	r.registry[surveyType] = s
	return nil
}

// Get returns the serializer bound to the type, or the fallback
func (r *SerializerRegistry) Get(surveyType string) Serializer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.registry[surveyType]; ok {
		return s
	}
	return r.fallback
}
