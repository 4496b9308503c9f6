package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/clinic-ops/internal/data"
	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

type mockTemplateStore struct {
	templates map[model.TemplateCategory]string
}

func (m *mockTemplateStore) Get(_ context.Context, category model.TemplateCategory) (*model.MessageTemplate, error) {
	body, ok := m.templates[category]
	if !ok {
		return nil, data.ErrTemplateNotFound
	}
	return &model.MessageTemplate{Category: category, Body: body}, nil
}

func renderFixtureOrder() *model.PurchaseOrder {
	expected := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	return &model.PurchaseOrder{
		ID:           "order-1",
		PONumber:     "PO-1042",
		SupplierID:   "supplier-1",
		ExpectedDate: &expected,
		Lines: []model.OrderLine{
			{ProductName: "Composite resin A2", RefCode: strPtr("CR-A2-4"), Quantity: 12},
			{ProductName: "Nitrile gloves M", RefCode: nil, Quantity: 3},
		},
	}
}

func TestTemplateService_RenderKnownCategory(t *testing.T) {
	store := &mockTemplateStore{templates: map[model.TemplateCategory]string{
		model.TemplateCategoryUrgent: "URGENT {po_number}:\n{items}\ndue {expected_date}",
		model.TemplateCategoryNormal: "Order {po_number}",
	}}
	svc := NewTemplateService(TemplateServiceOptions{Templates: store})

	got, err := svc.Render(context.Background(), model.TemplateCategoryUrgent, renderFixtureOrder())

	require.NoError(t, err)
	assert.Equal(t,
		"URGENT PO-1042:\n1. Composite resin A2 x12 (CR-A2-4)\n2. Nitrile gloves M x3 (-)\ndue 2026-09-15",
		got)
}

func TestTemplateService_AbsentCategoryFallsBackToDefault(t *testing.T) {
	store := &mockTemplateStore{templates: map[model.TemplateCategory]string{
		model.TemplateCategoryDefault: "Order {po_number} update",
	}}
	svc := NewTemplateService(TemplateServiceOptions{Templates: store})
	order := renderFixtureOrder()

	fromAbsent, err := svc.Render(context.Background(), model.TemplateCategoryReminder, order)
	require.NoError(t, err)

	fromDefault, err := svc.Render(context.Background(), model.TemplateCategoryDefault, order)
	require.NoError(t, err)

	assert.Equal(t, fromDefault, fromAbsent)
	assert.Equal(t, "Order PO-1042 update", fromAbsent)
}

func TestTemplateService_BothAbsent(t *testing.T) {
	svc := NewTemplateService(TemplateServiceOptions{
		Templates: &mockTemplateStore{templates: map[model.TemplateCategory]string{}},
	})

	_, err := svc.Render(context.Background(), model.TemplateCategoryUrgent, renderFixtureOrder())

	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestRenderOrderMessage_Deterministic(t *testing.T) {
	order := renderFixtureOrder()
	body := "{po_number} / {items} / {expected_date}"

	first := RenderOrderMessage(body, order)
	second := RenderOrderMessage(body, order)

	assert.Equal(t, first, second)
}

func TestRenderOrderMessage_UnknownPlaceholdersKeptVerbatim(t *testing.T) {
	got := RenderOrderMessage("Hi {recipient_name}, order {po_number} is in.", renderFixtureOrder())

	assert.Equal(t, "Hi {recipient_name}, order PO-1042 is in.", got)
}

func TestRenderOrderMessage_NilExpectedDate(t *testing.T) {
	order := renderFixtureOrder()
	order.ExpectedDate = nil

	got := RenderOrderMessage("due {expected_date}", order)

	assert.Equal(t, "due unspecified", got)
}

func TestRenderOrderMessage_EmptyLines(t *testing.T) {
	order := renderFixtureOrder()
	order.Lines = nil

	got := RenderOrderMessage("items:[{items}]", order)

	assert.Equal(t, "items:[]", got)
}
