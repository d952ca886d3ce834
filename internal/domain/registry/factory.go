// Package registry maps survey type tags to detail constructors and presentation strategies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/upkook/cx-metrics/internal/domain/entities"
)

var (
	ErrAlreadyRegistered    = errors.New("survey type already registered")
	ErrNotRegistered        = errors.New("survey type not registered")
	ErrImproperlyConfigured = errors.New("survey type improperly configured")
)

// Constructor returns a new, unsaved survey detail
type Constructor func() entities.SurveyDetail

// SurveyFactory encapsulates dynamic instantiation of survey details by type tag
type SurveyFactory struct {
	mu       sync.RWMutex
	registry map[string]Constructor
}

func NewSurveyFactory() *SurveyFactory {
	return &SurveyFactory{registry: make(map[string]Constructor)}
}

// Register binds a type tag to a constructor. The constructor must produce a
// non-nil detail whose SurveyType equals the tag.
func (f *SurveyFactory) Register(surveyType string, ctor Constructor) error {
	if surveyType == "" || ctor == nil {
		return fmt.Errorf("%w: %q has no constructor", ErrImproperlyConfigured, surveyType)
	}
	probe := ctor()
	if probe == nil {
		return fmt.Errorf("%w: constructor for %q returned nil", ErrImproperlyConfigured, surveyType)
	}
	if probe.SurveyType() != surveyType {
		return fmt.Errorf("%w: constructor for %q builds %q surveys", ErrImproperlyConfigured, surveyType, probe.SurveyType())
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.registry[surveyType]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, surveyType)
	}
	f.registry[surveyType] = ctor
	return nil
}

// MustRegister is Register for process start-up, where misuse is a programming error
func (f *SurveyFactory) MustRegister(surveyType string, ctor Constructor) {
	if err := f.Register(surveyType, ctor); err != nil {
		panic(err)
	}
}

// New returns an empty detail of the given type, suitable as a query destination
func (f *SurveyFactory) New(surveyType string) (entities.SurveyDetail, error) {
	f.mu.RLock()
	ctor, ok := f.registry[surveyType]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, surveyType)
	}
	return ctor(), nil
}

// Create returns a new unsaved detail of the given type with attrs applied
func (f *SurveyFactory) Create(surveyType string, attrs entities.SurveyAttributes) (entities.SurveyDetail, error) {
	d, err := f.New(surveyType)
	if err != nil {
		return nil, err
	}
	entities.Assign(d, attrs)
	return d, nil
}

func (f *SurveyFactory) IsRegistered(surveyType string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.registry[surveyType]
	return ok
}

// Types returns the registered tags in sorted order
func (f *SurveyFactory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.registry))
	for t := range f.registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

var (
	defaultFactory     *SurveyFactory
	defaultFactoryOnce sync.Once
)

// Default returns the process-wide factory with the built-in survey types registered
func Default() *SurveyFactory {
	defaultFactoryOnce.Do(func() {
		f := NewSurveyFactory()
		f.MustRegister(entities.TypeNPS, func() entities.SurveyDetail { return entities.NewNPSSurvey() })
		f.MustRegister(entities.TypeCSAT, func() entities.SurveyDetail { return entities.NewCSATSurvey() })
		f.MustRegister(entities.TypeCES, func() entities.SurveyDetail { return entities.NewCESSurvey() })
		defaultFactory = f
	})
	return defaultFactory
}
