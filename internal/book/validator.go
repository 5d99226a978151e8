package book

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"bookcatalog/internal/platform/clock"

	"github.com/go-playground/validator/v10"
)

// MinPublishedYear is the earliest publication year the catalog accepts.
const MinPublishedYear = 1800

// RE2's \s is ASCII only; \p{Z} adds the Unicode spaces and separators
// such as U+00A0.
var (
	titlePattern  = regexp.MustCompile(`^[A-Za-zА-Яа-яІіЇїЄєҐґ0-9\s\p{Z}"']+$`)
	authorPattern = regexp.MustCompile(`^[A-Za-zА-Яа-яІіЇїЄєҐґ\s\p{Z}]+$`)
)

type maxYearKey struct{}

// Validator normalizes and validates candidate records. The upper bound of
// published_year is the current year of the injected clock, read once per
// Validate call.
type Validator struct {
	validate *validator.Validate
	clock    clock.Clock
}

func NewValidator(clk clock.Clock) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("title_chars", matches(titlePattern))
	_ = v.RegisterValidation("author_chars", matches(authorPattern))
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		_, ok := ParseGenre(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidationCtx("published_year", func(ctx context.Context, fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		maxYear, _ := ctx.Value(maxYearKey{}).(int)
		return year >= MinPublishedYear && year <= maxYear
	})
	return &Validator{validate: v, clock: clk}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate trims and checks raw. Every failing field is reported in the
// returned ValidationErrors.
func (v *Validator) Validate(raw RawRecord) (Record, error) {
	raw.Title = strings.TrimSpace(raw.Title)
	raw.Author = strings.TrimSpace(raw.Author)

	maxYear := v.clock.Now().Year()
	ctx := context.WithValue(context.Background(), maxYearKey{}, maxYear)

	if err := v.validate.StructCtx(ctx, raw); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Record{}, err
		}
		out := make(ValidationErrors, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, ValidationError{Field: fe.Field(), Reason: reason(fe, maxYear)})
		}
		return Record{}, out
	}

	genre, _ := ParseGenre(raw.Genre)
	return Record{
		Title:         raw.Title,
		Author:        raw.Author,
		Genre:         genre,
		PublishedYear: raw.PublishedYear,
	}, nil
}

func reason(fe validator.FieldError, maxYear int) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "title_chars":
		return "may contain only letters, digits, spaces and quotes"
	case "author_chars":
		return "may contain only letters and spaces"
	case "genre":
		return "must be one of " + genreList()
	case "published_year":
		return fmt.Sprintf("must be between %d and %d", MinPublishedYear, maxYear)
	default:
		return "is invalid"
	}
}
