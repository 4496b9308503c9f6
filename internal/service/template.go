package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dentara/clinic-ops/internal/data"
	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

// expectedDateUnset is rendered when an order has no expected date.
const expectedDateUnset = "unspecified"

// TemplateStore is the read side of the message template mapping.
type TemplateStore interface {
	Get(ctx context.Context, category model.TemplateCategory) (*model.MessageTemplate, error)
}

// TemplateService resolves a template body for a category and renders it
// against a purchase order. Lookup does I/O; rendering itself is a pure
// string transformation.
type TemplateService struct {
	templates TemplateStore
	logger    *slog.Logger
}

// TemplateServiceOptions configures the template service.
type TemplateServiceOptions struct {
	Templates TemplateStore
	Logger    *slog.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(opts TemplateServiceOptions) *TemplateService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateService{
		templates: opts.Templates,
		logger:    logger,
	}
}

// Render looks up the template for a category and renders it for the order.
// A category with no template falls back to the default category; that is
// policy, not an error. Only a missing default is an error, and since the
// default templates ship with the schema it means broken deployment data.
func (s *TemplateService) Render(
	ctx context.Context,
	category model.TemplateCategory,
	order *model.PurchaseOrder,
) (string, error) {
	tmpl, err := s.templates.Get(ctx, category)
	if errors.Is(err, data.ErrTemplateNotFound) && category != model.TemplateCategoryDefault {
		s.logger.DebugContext(ctx, "template category absent, using default",
			"category", string(category))
		tmpl, err = s.templates.Get(ctx, model.TemplateCategoryDefault)
	}
	if err != nil {
		if errors.Is(err, data.ErrTemplateNotFound) {
			return "", apperrors.Internalf("no message template for category %q or the default", category)
		}
		return "", fmt.Errorf("load message template: %w", err)
	}

	return RenderOrderMessage(tmpl.Body, order), nil
}

// RenderOrderMessage substitutes the known placeholders in a template body.
// Substitution is literal and best-effort: placeholders outside the known
// set stay verbatim in the output.
func RenderOrderMessage(body string, order *model.PurchaseOrder) string {
	return strings.NewReplacer(
		"{po_number}", order.PONumber,
		"{items}", renderOrderLines(order.Lines),
		"{expected_date}", renderExpectedDate(order),
	).Replace(body)
}

// renderOrderLines formats lines as "1. <product> x<qty> (<ref>)" with a
// dash when the reference code is absent, joined by newlines.
func renderOrderLines(lines []model.OrderLine) string {
	rendered := make([]string, len(lines))
	for i, line := range lines {
		ref := "-"
		if line.RefCode != nil && *line.RefCode != "" {
			ref = *line.RefCode
		}
		rendered[i] = fmt.Sprintf("%d. %s x%d (%s)", i+1, line.ProductName, line.Quantity, ref)
	}
	return strings.Join(rendered, "\n")
}

func renderExpectedDate(order *model.PurchaseOrder) string {
	if order.ExpectedDate == nil {
		return expectedDateUnset
	}
	return order.ExpectedDate.Format("2006-01-02")
}
