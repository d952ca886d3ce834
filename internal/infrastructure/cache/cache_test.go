package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCacheExpiry(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("live", 1, time.Hour)
	c.Set("dead", 2, -time.Second)

	if v, ok := c.Get("live"); !ok || v.(int) != 1 {
		t.Errorf("Get(live) = %v, %v", v, ok)
	}
	if _, ok := c.Get("dead"); ok {
		t.Error("expired item returned")
	}

	if removed := c.DeleteExpired(); removed != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", c.Len())
	}

	c.Delete("live")
	if _, ok := c.Get("live"); ok {
		t.Error("deleted item returned")
	}
}

func TestInsightKey(t *testing.T) {
	id := uuid.MustParse("8b0d7b1e-2f4a-4a2e-9b9f-1d2c3e4f5a6b")
	if got := InsightKey("NPS", id); got != "nps_insight-8b0d7b1e-2f4a-4a2e-9b9f-1d2c3e4f5a6b" {
		t.Errorf("InsightKey = %q", got)
	}
	if got := SurveyKey(id); got != "survey-8b0d7b1e-2f4a-4a2e-9b9f-1d2c3e4f5a6b" {
		t.Errorf("SurveyKey = %q", got)
	}
}

func TestInsightCacheRoundTrip(t *testing.T) {
	store := New(0)
	defer store.Close()
	insights := NewInsightCache(store, time.Hour)
	id := uuid.New()

	if _, ok := insights.Get("CSAT", id); ok {
		t.Fatal("empty cache returned a projection")
	}
	insights.Set("CSAT", id, "projection")
	if v, ok := insights.Get("CSAT", id); !ok || v != "projection" {
		t.Fatalf("Get = %v, %v", v, ok)
	}
	if _, ok := insights.Get("CES", id); ok {
		t.Error("projection leaked across survey types")
	}

	insights.Delete("CSAT", id)
	if _, ok := insights.Get("CSAT", id); ok {
		t.Error("projection survived Delete")
	}
}
