package model

// TemplateCategory selects which message template to render.
type TemplateCategory string

const (
	TemplateCategoryUrgent   TemplateCategory = "urgent"
	TemplateCategoryNormal   TemplateCategory = "normal"
	TemplateCategoryReminder TemplateCategory = "reminder"

	// TemplateCategoryDefault is substituted when a caller references a
	// category with no template. Falling back is a policy decision, not an
	// error; only a missing default is treated as a configuration defect.
	TemplateCategoryDefault = TemplateCategoryNormal
)

// Valid reports whether the category is one of the enumerated values.
func (c TemplateCategory) Valid() bool {
	switch c {
	case TemplateCategoryUrgent, TemplateCategoryNormal, TemplateCategoryReminder:
		return true
	default:
		return false
	}
}

// MessageTemplate maps a category to a body containing named placeholders
// ({po_number}, {items}, {expected_date}).
type MessageTemplate struct {
	Category TemplateCategory `db:"category" json:"category"`
	Body     string           `db:"body"     json:"body"`
}
