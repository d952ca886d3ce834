package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"github.com/upkook/cx-metrics/internal/domain/registry"
	"github.com/upkook/cx-metrics/internal/domain/repositories"
	"github.com/upkook/cx-metrics/internal/infrastructure/cache"
)

// SurveyInput is the writable shape of a survey detail
type SurveyInput struct {
	Name        string         `json:"name"`
	Text        string         `json:"text"`
	TextEnabled *bool          `json:"text_enabled"`
	Question    string         `json:"question"`
	Message     string         `json:"message"`
	Scale       entities.Scale `json:"scale"`
	Contra      *ContraInput   `json:"contra_reason"`
}

// SurveyView is the representation of a survey detail
type SurveyView struct {
	ID           uuid.UUID                `json:"id"`
	Type         string                   `json:"type"`
	Name         string                   `json:"name"`
	Text         string                   `json:"text"`
	TextEnabled  bool                     `json:"text_enabled"`
	Question     string                   `json:"question"`
	ContraReason *entities.MultipleChoice `json:"contra_reason"`
	Message      string                   `json:"message"`
	Scale        entities.Scale           `json:"scale,omitempty"`
	URL          string                   `json:"url"`
}

var orderings = map[string]string{
	"name":     "name ASC",
	"-name":    "name DESC",
	"updated":  "updated ASC",
	"-updated": "updated DESC",
}

// OrderBy maps an ordering query value to a column list, defaulting to most recently updated first
func OrderBy(ordering string) string {
	if o, ok := orderings[strings.TrimSpace(ordering)]; ok {
		return o
	}
	return orderings["-updated"]
}

// SurveyType maps a route segment such as "nps" to its type tag
func SurveyType(segment string) string {
	return strings.ToUpper(segment)
}

// SurveyUseCase manages survey details of business members and serves public survey reads
type SurveyUseCase struct {
	store       *repositories.Store
	factory     *registry.SurveyFactory
	serializers *registry.SerializerRegistry
	surveys     *cache.SurveyCache
	baseURL     string
}

func NewSurveyUseCase(store *repositories.Store, factory *registry.SurveyFactory, surveys *cache.SurveyCache, baseURL string) *SurveyUseCase {
	u := &SurveyUseCase{
		store:       store,
		factory:     factory,
		serializers: registry.NewSerializerRegistry(registry.IdentitySerializer{BaseURL: baseURL}),
		surveys:     surveys,
		baseURL:     baseURL,
	}
	for _, surveyType := range factory.Types() {
		if _, err := store.Details(surveyType); err != nil {
			continue
		}
		if err := u.serializers.Register(surveyType, registry.SerializerFunc(u.serializeDetail)); err != nil {
			panic(err)
		}
	}
	return u
}

func (u *SurveyUseCase) serializeDetail(ctx context.Context, survey *entities.Survey) (interface{}, error) {
	repo, err := u.store.Details(survey.Type)
	if err != nil {
		return nil, err
	}
	d, err := repo.FindBySurveyID(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	return u.view(d), nil
}

func (u *SurveyUseCase) view(d entities.SurveyDetail) *SurveyView {
	m, c := d.Model(), d.Content()
	v := &SurveyView{
		ID:           m.UUID,
		Type:         d.SurveyType(),
		Name:         m.Name,
		Text:         c.Text,
		TextEnabled:  c.TextEnabled,
		Question:     c.Question,
		ContraReason: c.Contra,
		Message:      c.Message,
		URL:          entities.PublicURL(u.baseURL, m.UUID),
	}
	if s, ok := d.(entities.Scaled); ok {
		v.Scale = s.GetScale()
	}
	return v
}

func (in *SurveyInput) validate(d entities.SurveyDetail) *errs.ValidationError {
	verr := &errs.ValidationError{}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		verr.Add("name", "This field is required.")
	case len(name) > 256:
		verr.Add("name", "Ensure this field has no more than 256 characters.")
	}
	if _, ok := d.(entities.Scaled); ok && in.Scale != "" && !in.Scale.Valid() {
		verr.Add("scale", fmt.Sprintf("%q is not a valid choice.", in.Scale))
	}
	return verr
}

func (in *SurveyInput) attributes(businessID uint, current entities.SurveyDetail) entities.SurveyAttributes {
	textEnabled := true
	if current != nil {
		textEnabled = current.Content().TextEnabled
	}
	return entities.SurveyAttributes{
		Name:        strings.TrimSpace(in.Name),
		BusinessID:  businessID,
		Text:        in.Text,
		TextEnabled: boolOr(in.TextEnabled, textEnabled),
		Question:    in.Question,
		Message:     in.Message,
		Scale:       in.Scale,
	}
}

// Create builds a detail of surveyType through the factory and saves it with its contra question
func (u *SurveyUseCase) Create(ctx context.Context, businessID uint, surveyType string, in SurveyInput) (*SurveyView, error) {
	d, err := u.factory.Create(surveyType, in.attributes(businessID, nil))
	if err != nil {
		return nil, fmt.Errorf("survey type %s: %w", surveyType, errs.ErrNotFound)
	}

	verr := in.validate(d)
	var contra *entities.MultipleChoice
	if in.Contra != nil {
		var err error
		if contra, _, err = buildContra(nil, in.Contra); err != nil {
			mergeValidation(verr, err)
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	err = u.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		repo, err := tx.Details(surveyType)
		if err != nil {
			return err
		}
		if contra != nil {
			if err := tx.MultipleChoices().Create(ctx, contra); err != nil {
				return err
			}
			d.Content().ContraID = &contra.ID
			d.Content().Contra = contra
		}
		return repo.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return u.view(d), nil
}

// Get returns a detail owned by the business
func (u *SurveyUseCase) Get(ctx context.Context, businessID uint, surveyType string, id uuid.UUID) (*SurveyView, error) {
	d, err := u.find(ctx, businessID, surveyType, id)
	if err != nil {
		return nil, err
	}
	return u.view(d), nil
}

func (u *SurveyUseCase) find(ctx context.Context, businessID uint, surveyType string, id uuid.UUID) (entities.SurveyDetail, error) {
	repo, err := u.store.Details(surveyType)
	if err != nil {
		return nil, fmt.Errorf("survey type %s: %w", surveyType, errs.ErrNotFound)
	}
	return repo.FindByBusinessAndUUID(ctx, businessID, id)
}

// List returns the business's details of one type
func (u *SurveyUseCase) List(ctx context.Context, businessID uint, surveyType, ordering string) ([]*SurveyView, error) {
	repo, err := u.store.Details(surveyType)
	if err != nil {
		return nil, fmt.Errorf("survey type %s: %w", surveyType, errs.ErrNotFound)
	}
	details, err := repo.ListByBusiness(ctx, businessID, OrderBy(ordering))
	if err != nil {
		return nil, err
	}
	views := make([]*SurveyView, len(details))
	for i, d := range details {
		views[i] = u.view(d)
	}
	return views, nil
}

// Update rewrites the detail and its contra question in one transaction.
// A nil contra input leaves the current contra untouched.
func (u *SurveyUseCase) Update(ctx context.Context, businessID uint, surveyType string, id uuid.UUID, in SurveyInput) (*SurveyView, error) {
	d, err := u.find(ctx, businessID, surveyType, id)
	if err != nil {
		return nil, err
	}

	verr := in.validate(d)
	var (
		contra  *entities.MultipleChoice
		options []entities.Option
	)
	existing := d.Content().Contra
	if in.Contra != nil {
		var err error
		if contra, options, err = buildContra(existing, in.Contra); err != nil {
			mergeValidation(verr, err)
		}
	}
	if !verr.Empty() {
		return nil, verr
	}
	entities.Assign(d, in.attributes(businessID, d))

	err = u.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		repo, err := tx.Details(surveyType)
		if err != nil {
			return err
		}
		switch {
		case contra != nil && existing != nil:
			if err := tx.MultipleChoices().Update(ctx, contra, options); err != nil {
				return err
			}
		case contra != nil:
			if err := tx.MultipleChoices().Create(ctx, contra); err != nil {
				return err
			}
			d.Content().ContraID = &contra.ID
		}
		if contra != nil {
			d.Content().Contra = contra
		}
		return repo.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	u.surveys.Delete(id)
	return u.view(d), nil
}

// Delete removes the detail and its identity record
func (u *SurveyUseCase) Delete(ctx context.Context, businessID uint, surveyType string, id uuid.UUID) error {
	d, err := u.find(ctx, businessID, surveyType, id)
	if err != nil {
		return err
	}
	repo, err := u.store.Details(surveyType)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, d); err != nil {
		return err
	}
	u.surveys.Delete(id)
	return nil
}

// ListSurveys returns the identity records of every survey type owned by the business
func (u *SurveyUseCase) ListSurveys(ctx context.Context, businessID uint, ordering string) ([]registry.SurveyRepresentation, error) {
	surveys, err := u.store.Surveys().ListByBusiness(ctx, businessID, OrderBy(ordering))
	if err != nil {
		return nil, err
	}
	out := make([]registry.SurveyRepresentation, len(surveys))
	for i, s := range surveys {
		out[i] = registry.SurveyRepresentation{
			ID:   s.UUID,
			Type: s.Type,
			Name: s.Name,
			URL:  entities.PublicURL(u.baseURL, s.UUID),
		}
	}
	return out, nil
}

// PublicSurvey renders an active survey through the serializer registered for its type
func (u *SurveyUseCase) PublicSurvey(ctx context.Context, id uuid.UUID) (interface{}, error) {
	if rep, ok := u.surveys.Get(id); ok {
		return rep, nil
	}

	survey, err := u.store.Surveys().FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !survey.Active {
		return nil, fmt.Errorf("survey %s is inactive: %w", id, errs.ErrNotFound)
	}

	rep, err := u.serializers.Get(survey.Type).Serialize(ctx, survey)
	if err != nil {
		return nil, err
	}
	u.surveys.Set(id, rep)
	return rep, nil
}

func mergeValidation(dst *errs.ValidationError, err error) {
	src, ok := err.(*errs.ValidationError)
	if !ok {
		dst.NonField = append(dst.NonField, err.Error())
		return
	}
	for field, msgs := range src.Fields {
		for _, msg := range msgs {
			dst.Add(field, msg)
		}
	}
	dst.NonField = append(dst.NonField, src.NonField...)
}
