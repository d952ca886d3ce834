package cache

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InsightCache holds the aggregate projection of each survey, keyed by type and uuid
type InsightCache struct {
	store Store
	ttl   time.Duration
}

func NewInsightCache(store Store, ttl time.Duration) *InsightCache {
	return &InsightCache{store: store, ttl: ttl}
}

// InsightKey is "{type}_insight-{uuid}" with the type tag lowercased
func InsightKey(surveyType string, id uuid.UUID) string {
	return fmt.Sprintf("%s_insight-%s", strings.ToLower(surveyType), id)
}

func (c *InsightCache) Get(surveyType string, id uuid.UUID) (interface{}, bool) {
	return c.store.Get(InsightKey(surveyType, id))
}

func (c *InsightCache) Set(surveyType string, id uuid.UUID, projection interface{}) {
	c.store.Set(InsightKey(surveyType, id), projection, c.ttl)
}

func (c *InsightCache) Delete(surveyType string, id uuid.UUID) {
	key := InsightKey(surveyType, id)
	c.store.Delete(key)
	log.Printf("[CACHE] invalidated %s", key)
}

// SurveyCache holds public survey representations keyed by uuid
type SurveyCache struct {
	store Store
	ttl   time.Duration
}

func NewSurveyCache(store Store, ttl time.Duration) *SurveyCache {
	return &SurveyCache{store: store, ttl: ttl}
}

func SurveyKey(id uuid.UUID) string {
	return "survey-" + id.String()
}

func (c *SurveyCache) Get(id uuid.UUID) (interface{}, bool) {
	return c.store.Get(SurveyKey(id))
}

func (c *SurveyCache) Set(id uuid.UUID, representation interface{}) {
	c.store.Set(SurveyKey(id), representation, c.ttl)
}

func (c *SurveyCache) Delete(id uuid.UUID) {
	c.store.Delete(SurveyKey(id))
}
