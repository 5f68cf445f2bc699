package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QmazProject/Asset-Management-System/internal/config"
	"github.com/QmazProject/Asset-Management-System/internal/model"
	"github.com/QmazProject/Asset-Management-System/internal/repository"
)

// fakeTemplateStore keeps templates in memory with the same
// case-insensitive name uniqueness the real table enforces.
type fakeTemplateStore struct {
	nextID    uint64
	templates []*model.ServiceTemplate
	usage     map[string]int
}

func (f *fakeTemplateStore) NameExists(_ context.Context, name string, excludeID uint64) (bool, error) {
	for _, t := range f.templates {
		if t.ID != excludeID && strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTemplateStore) Create(ctx context.Context, t *model.ServiceTemplate) error {
	if taken, _ := f.NameExists(ctx, t.Name, 0); taken {
		return repository.ErrTemplateNameExists
	}
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	f.templates = append(f.templates, &cp)
	return nil
}

func (f *fakeTemplateStore) List(context.Context) ([]*model.ServiceTemplate, error) {
	return f.templates, nil
}

func (f *fakeTemplateStore) GetByID(_ context.Context, id uint64) (*model.ServiceTemplate, error) {
	for _, t := range f.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTemplateStore) Update(ctx context.Context, t *model.ServiceTemplate) error {
	stored, err := f.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if taken, _ := f.NameExists(ctx, t.Name, t.ID); taken {
		return repository.ErrTemplateNameExists
	}
	id, created := stored.ID, stored.CreatedAt
	*stored = *t
	stored.ID, stored.CreatedAt = id, created
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeTemplateStore) Delete(ctx context.Context, id uint64) error {
	for i, t := range f.templates {
		if t.ID == id {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeTemplateStore) UsageCount(_ context.Context, name string) (int, error) {
	return f.usage[strings.ToLower(strings.TrimSpace(name))], nil
}

func postTemplate(t *testing.T, h *TemplateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/administration/service-templates", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	return rec
}

func TestTemplateCreateRejectsDuplicateName(t *testing.T) {
	h := NewTemplateHandler(config.Config{}, &fakeTemplateStore{}, nil, nil)

	rec := postTemplate(t, h, `{"name":"Oil Change","service_type":"recurrent","based_on":"Period","unit_of_measurement":"Days","frequency":"7"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same name again, differing only in case and padding.
	rec = postTemplate(t, h, `{"name":"  oil change  ","service_type":"recurrent","based_on":"Period","unit_of_measurement":"Days","frequency":"7"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "name", body["field"])
}

func TestTemplateDeleteUnknownIDReturns404(t *testing.T) {
	h := NewTemplateHandler(config.Config{}, &fakeTemplateStore{}, nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/administration/service-templates/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplateListReportsUsageAndAttachmentCounts(t *testing.T) {
	store := &fakeTemplateStore{usage: map[string]int{"oil change": 3}}
	h := NewTemplateHandler(config.Config{}, store, nil, nil)

	rec := postTemplate(t, h, `{"name":"Oil Change","service_type":"recurrent","based_on":"Period","unit_of_measurement":"Days","frequency":"7"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/administration/service-templates", nil)
	listRec := httptest.NewRecorder()
	require.NoError(t, h.List(e.NewContext(req, listRec)))
	require.Equal(t, http.StatusOK, listRec.Code)

	var body struct {
		Templates []templateResp `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &body))
	require.Len(t, body.Templates, 1)
	assert.Equal(t, 3, body.Templates[0].UsageCount)
	assert.Equal(t, 0, body.Templates[0].AttachmentCount)
}

func TestBuildTemplateAutomaticPeriodDays(t *testing.T) {
	tpl, errs := buildTemplate(&templateReq{
		Name:              "Oil Change",
		ServiceType:       model.ServiceTypeRecurrent,
		BasedOn:           model.BasisPeriod,
		UnitOfMeasurement: model.UnitDays,
		Frequency:         "7",
		NotificationMode:  "automatic",
	})
	require.Empty(t, errs)
	assert.Equal(t, 7, tpl.NotificationNumber)
	assert.Equal(t, "Days", tpl.NotificationUnit)
	require.NotNil(t, tpl.FrequencyNumber)
	assert.Equal(t, 7, *tpl.FrequencyNumber)
	require.NotNil(t, tpl.UnitOfMeasurement)
	assert.Equal(t, "Days", *tpl.UnitOfMeasurement)
}

func TestBuildTemplateAutomaticWeeks(t *testing.T) {
	tpl, errs := buildTemplate(&templateReq{
		Name:              "Tire Rotation",
		ServiceType:       model.ServiceTypeRecurrent,
		BasedOn:           model.BasisPeriod,
		UnitOfMeasurement: model.UnitWeeks,
		Frequency:         "2",
	})
	require.Empty(t, errs)
	assert.Equal(t, 14, tpl.NotificationNumber)
	assert.Equal(t, "Days", tpl.NotificationUnit)
}

func TestBuildTemplateOneTimeNeedsNoFrequency(t *testing.T) {
	tpl, errs := buildTemplate(&templateReq{
		Name:        "Commissioning Check",
		ServiceType: model.ServiceTypeOneTime,
		BasedOn:     model.BasisPeriod,
	})
	require.Empty(t, errs)
	assert.Nil(t, tpl.FrequencyNumber)
	assert.Equal(t, 10, tpl.NotificationNumber)
	assert.Equal(t, "Days", tpl.NotificationUnit)
}

func TestBuildTemplateDistanceCap(t *testing.T) {
	_, errs := buildTemplate(&templateReq{
		Name:        "Track Inspection",
		ServiceType: model.ServiceTypeRecurrent,
		BasedOn:     model.BasisDistance,
		Frequency:   "300",
	})
	require.Contains(t, errs, "frequency")
	assert.Equal(t, "Value cannot exceed 250", errs["frequency"])
}

func TestBuildTemplateRejectsBadFrequency(t *testing.T) {
	for _, freq := range []string{"abc", "-3", "1.5", "0"} {
		_, errs := buildTemplate(&templateReq{
			Name:              "Filter Swap",
			ServiceType:       model.ServiceTypeRecurrent,
			BasedOn:           model.BasisPeriod,
			UnitOfMeasurement: model.UnitDays,
			Frequency:         freq,
		})
		assert.Contains(t, errs, "frequency", "frequency=%q", freq)
	}
}

func TestBuildTemplateRequiresFrequencyForRecurrent(t *testing.T) {
	_, errs := buildTemplate(&templateReq{
		Name:              "Hydraulic Check",
		ServiceType:       model.ServiceTypeRecurrent,
		BasedOn:           model.BasisPeriod,
		UnitOfMeasurement: model.UnitDays,
		Frequency:         "",
	})
	assert.Contains(t, errs, "frequency")
}

func TestBuildTemplateManualMode(t *testing.T) {
	tpl, errs := buildTemplate(&templateReq{
		Name:               "Annual Audit",
		ServiceType:        model.ServiceTypeOneTime,
		BasedOn:            model.BasisPeriod,
		NotificationMode:   "manual",
		NotificationNumber: 45,
		NotificationUnit:   "Days",
	})
	require.Empty(t, errs)
	// Manual values are stored verbatim; no caps apply.
	assert.Equal(t, 45, tpl.NotificationNumber)
	assert.Equal(t, "Days", tpl.NotificationUnit)
}

func TestBuildTemplateManualModeRejectsBadInput(t *testing.T) {
	_, errs := buildTemplate(&templateReq{
		Name:               "Annual Audit",
		ServiceType:        model.ServiceTypeOneTime,
		BasedOn:            model.BasisPeriod,
		NotificationMode:   "manual",
		NotificationNumber: 0,
		NotificationUnit:   "Days",
	})
	assert.Contains(t, errs, "notification_number")

	_, errs = buildTemplate(&templateReq{
		Name:               "Annual Audit",
		ServiceType:        model.ServiceTypeOneTime,
		BasedOn:            model.BasisPeriod,
		NotificationMode:   "manual",
		NotificationNumber: 5,
		NotificationUnit:   "Fortnights",
	})
	assert.Contains(t, errs, "notification_unit")
}

func TestBuildTemplateRequiresName(t *testing.T) {
	_, errs := buildTemplate(&templateReq{
		Name:        "   ",
		ServiceType: model.ServiceTypeOneTime,
		BasedOn:     model.BasisPeriod,
	})
	assert.Contains(t, errs, "name")
}

func TestBuildTemplateUnitOnlyStoredForPeriod(t *testing.T) {
	tpl, errs := buildTemplate(&templateReq{
		Name:        "Engine Overhaul",
		ServiceType: model.ServiceTypeRecurrent,
		BasedOn:     model.BasisEngineHours,
		Frequency:   "120",
	})
	require.Empty(t, errs)
	assert.Nil(t, tpl.UnitOfMeasurement)
	assert.Equal(t, 120, tpl.NotificationNumber)
	assert.Equal(t, "Hours", tpl.NotificationUnit)
}
