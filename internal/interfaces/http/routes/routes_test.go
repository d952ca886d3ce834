package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/application/usecases"
	"github.com/upkook/cx-metrics/internal/config"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/registry"
	"github.com/upkook/cx-metrics/internal/domain/repositories"
	"github.com/upkook/cx-metrics/internal/infrastructure/cache"
	"github.com/upkook/cx-metrics/internal/infrastructure/database/testdb"
	"github.com/upkook/cx-metrics/internal/infrastructure/repository"
	"github.com/upkook/cx-metrics/internal/interfaces/http/handlers"
	"github.com/upkook/cx-metrics/internal/interfaces/http/middleware"
	"github.com/upkook/cx-metrics/internal/interfaces/http/routes"
)

var secret = []byte("test-secret")

type server struct {
	app      *fiber.App
	business *entities.Business
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := testdb.Open(t)
	store := repositories.NewStore(db)

	mem := cache.New(0)
	t.Cleanup(mem.Close)
	insightCache := cache.NewInsightCache(mem, time.Hour)

	business := &entities.Business{Name: "Shop", IndustryID: 1, IdentificationMode: entities.IdentifyAnonymously}
	if err := store.Businesses().Create(context.Background(), business); err != nil {
		t.Fatalf("create business: %v", err)
	}

	factory := registry.Default()
	h := handlers.NewHandlers(handlers.UseCases{
		Surveys:        usecases.NewSurveyUseCase(store, factory, cache.NewSurveyCache(mem, time.Hour), "https://example.com/s/"),
		Responses:      usecases.NewResponseUseCase(store, repository.NewCustomerRepository(db), insightCache, time.Minute),
		Insights:       usecases.NewInsightUseCase(store, insightCache),
		DefaultOptions: usecases.NewDefaultOptionUseCase(store),
	}, config.CookieConfig{Name: "_cid", MaxAge: time.Hour})

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.SetupRoutes(app, h, middleware.JWTBusinessMember(secret), factory.Types())
	return &server{app: app, business: business}
}

func token(t *testing.T, businessID uint) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.MemberClaims{BusinessID: businessID}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (s *server) do(t *testing.T, method, path string, body interface{}, businessID uint, cookies ...*http.Cookie) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if businessID != 0 {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token(t, businessID))
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

type surveyBody struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	ContraReason *struct {
		Text    string `json:"text"`
		Options []struct {
			ID   uint   `json:"id"`
			Text string `json:"text"`
		} `json:"options"`
	} `json:"contra_reason"`
}

func createNPS(t *testing.T, s *server) surveyBody {
	t.Helper()
	resp, raw := s.do(t, http.MethodPost, "/api/v1/nps", map[string]interface{}{
		"name":     "Checkout",
		"question": "How likely are you to recommend us?",
		"contra_reason": map[string]interface{}{
			"type":    entities.ChoiceCheckbox,
			"text":    "What went wrong?",
			"options": []map[string]interface{}{{"text": "Price"}, {"text": "Support"}},
		},
	}, s.business.ID)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d body %s", resp.StatusCode, raw)
	}
	var body surveyBody
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestMemberRoutesRequireToken(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/api/v1/nps", "/api/v1/surveys", "/api/v1/defaults/nps"} {
		resp, _ := s.do(t, http.MethodGet, path, nil, 0)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestCreateGetAndPublicRead(t *testing.T) {
	s := newServer(t)
	created := createNPS(t, s)
	if created.Type != entities.TypeNPS || created.ContraReason == nil || len(created.ContraReason.Options) != 2 {
		t.Fatalf("created = %+v", created)
	}

	resp, raw := s.do(t, http.MethodGet, "/api/v1/nps/"+created.ID.String(), nil, s.business.ID)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("member get status = %d body %s", resp.StatusCode, raw)
	}

	resp, raw = s.do(t, http.MethodGet, "/api/v1/surveys/"+created.ID.String(), nil, 0)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("public get status = %d body %s", resp.StatusCode, raw)
	}
	var public surveyBody
	if err := json.Unmarshal(raw, &public); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if public.ID != created.ID || public.Name != "Checkout" {
		t.Errorf("public = %+v", public)
	}

	resp, raw = s.do(t, http.MethodGet, "/api/v1/surveys", nil, s.business.ID)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list status = %d body %s", resp.StatusCode, raw)
	}
	var list []surveyBody
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestOtherBusinessCannotReadSurvey(t *testing.T) {
	s := newServer(t)
	created := createNPS(t, s)

	resp, raw := s.do(t, http.MethodGet, "/api/v1/nps/"+created.ID.String(), nil, s.business.ID+1)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d body %s, want 404", resp.StatusCode, raw)
	}
}

func TestCreateValidationErrorShape(t *testing.T) {
	s := newServer(t)
	resp, raw := s.do(t, http.MethodPost, "/api/v1/csat", map[string]interface{}{"scale": "bogus"}, s.business.ID)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d body %s", resp.StatusCode, raw)
	}
	var messages map[string][]string
	if err := json.Unmarshal(raw, &messages); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	if len(messages["name"]) == 0 || len(messages["scale"]) == 0 {
		t.Errorf("messages = %v", messages)
	}
}

func TestNotFound(t *testing.T) {
	s := newServer(t)
	cases := []struct {
		path       string
		businessID uint
	}{
		{"/api/v1/surveys/not-a-uuid", 0},
		{"/api/v1/surveys/" + uuid.NewString(), 0},
		{"/api/v1/ces/" + uuid.NewString(), s.business.ID},
	}
	for _, tc := range cases {
		resp, raw := s.do(t, http.MethodGet, tc.path, nil, tc.businessID)
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("GET %s status = %d body %s, want 404", tc.path, resp.StatusCode, raw)
		}
	}
}

func TestRespondSetsClientCookieAndFeedsInsights(t *testing.T) {
	s := newServer(t)
	created := createNPS(t, s)
	price := created.ContraReason.Options[0]
	path := "/api/v1/surveys/" + created.ID.String() + "/responses"

	resp, raw := s.do(t, http.MethodPost, path, map[string]interface{}{"score": 3, "options": []uint{price.ID}}, 0)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("respond status = %d body %s", resp.StatusCode, raw)
	}
	var ack map[string]interface{}
	if err := json.Unmarshal(raw, &ack); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ack["score"] != float64(3) || ack["client_id"] == "" {
		t.Errorf("ack = %v", ack)
	}

	var cid *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "_cid" {
			cid = c
		}
	}
	if cid == nil || cid.Value != ack["client_id"] {
		t.Fatalf("client id cookie = %+v, ack %v", cid, ack)
	}

	// the cookie identifies the same customer, so the cool-down applies
	resp, raw = s.do(t, http.MethodPost, path, map[string]interface{}{"score": 10}, 0, &http.Cookie{Name: cid.Name, Value: cid.Value})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("second respond status = %d body %s", resp.StatusCode, raw)
	}

	resp, raw = s.do(t, http.MethodGet, "/api/v1/nps/"+created.ID.String()+"/insights", nil, s.business.ID)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("insights status = %d body %s", resp.StatusCode, raw)
	}
	var insight usecases.NPSInsight
	if err := json.Unmarshal(raw, &insight); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if insight.Detractors != 1 || insight.Promoters != 0 {
		t.Errorf("insight = %+v", insight)
	}
	if len(insight.ContraOptions) != 1 || insight.ContraOptions[0] != (usecases.ContraOption{Text: "Price", Count: 1}) {
		t.Errorf("contra options = %+v", insight.ContraOptions)
	}
}

func TestDeleteSurvey(t *testing.T) {
	s := newServer(t)
	created := createNPS(t, s)

	resp, raw := s.do(t, http.MethodDelete, "/api/v1/nps/"+created.ID.String(), nil, s.business.ID)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("delete status = %d body %s", resp.StatusCode, raw)
	}
	resp, _ = s.do(t, http.MethodGet, "/api/v1/surveys/"+created.ID.String(), nil, 0)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("public get after delete = %d", resp.StatusCode)
	}
}

func TestBusinessIDFromSubject(t *testing.T) {
	s := newServer(t)
	claims := jwt.RegisteredClaims{Subject: strconv.FormatUint(uint64(s.business.ID), 10)}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nps", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
