package review

import (
	"strings"

	"github.com/Asim1921/Jodi-frontend/internal/api"
	"github.com/Asim1921/Jodi-frontend/pkg/validator"
)

// FormInput is the review form's submission payload. Only rating, title, and
// text are required; everything else is optional.
type FormInput struct {
	Rating             int    `json:"rating" validate:"required,oneof=1 2 3 4 5"`
	Title              string `json:"review_title" validate:"required,notblank,max=100"`
	Text               string `json:"review_text" validate:"required,notblank,min=10,max=1000"`
	ServiceDate        string `json:"service_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ResponseTimeRating *int   `json:"response_time_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	QualityRating      *int   `json:"quality_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	ValueRating        *int   `json:"value_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	WouldRecommend     *bool  `json:"would_recommend,omitempty"`
	CostRange          string `json:"cost_range,omitempty" validate:"omitempty,oneof=under_100 100_to_500 500_to_1000 1000_to_5000 over_5000"`
}

// Normalize trims the free-text fields before validation, so length rules
// apply to what the user actually wrote.
func (f *FormInput) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Text = strings.TrimSpace(f.Text)
}

// Validate runs all client-side rules. Every failing field is reported in
// one pass (via validator.ValidationError's Fields map) so the form can show
// all messages simultaneously; nothing reaches the network on failure.
func (f *FormInput) Validate() error {
	f.Normalize()
	return validator.Validate(f)
}

// ToInput converts the validated form into the API payload.
func (f FormInput) ToInput() api.ReviewInput {
	return api.ReviewInput{
		Rating:             f.Rating,
		Title:              f.Title,
		Text:               f.Text,
		ServiceDate:        f.ServiceDate,
		ResponseTimeRating: f.ResponseTimeRating,
		QualityRating:      f.QualityRating,
		ValueRating:        f.ValueRating,
		WouldRecommend:     f.WouldRecommend,
		CostRange:          f.CostRange,
	}
}

// RouteServerErrors maps the server's textual error messages onto form field
// keys by keyword, mirroring the field keys client-side validation uses.
// Messages that mention no known field are returned as leftovers for a
// generic notification.
func RouteServerErrors(messages []string) (fields map[string]string, leftovers []string) {
	fields = make(map[string]string)
	for _, msg := range messages {
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "rating"):
			fields["rating"] = msg
		case strings.Contains(lower, "title"):
			fields["review_title"] = msg
		case strings.Contains(lower, "text"):
			fields["review_text"] = msg
		default:
			leftovers = append(leftovers, msg)
		}
	}
	return fields, leftovers
}
