// Package validation checks assembled judicial processes against the business
// rules and renders violations in the configured locale.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	pt_BR_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	"delega/internal/config"
	"delega/internal/domain"
)

// Tags registered on top of the validator built-ins.
const (
	TagDistinctParties   = "distinct_parties"
	TagMaxReason         = "max_reason"
	TagMaxDepoiment      = "max_depoiment"
	TagMaxRequestedValue = "max_requested_value"
)

// Result is the verdict for one process. Violations keep the order in which
// the rules reported them.
type Result struct {
	Valid      bool
	Violations []string
}

// Validator is safe for concurrent use once built.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
	locale   string
}

var builtinMessages = map[string]map[string]string{
	config.LocaleEN: {
		TagDistinctParties:   "author and accused must be different people",
		TagMaxReason:         "{0} must be at most {1} characters long",
		TagMaxDepoiment:      "{0} must be at most {1} characters long",
		TagMaxRequestedValue: "{0} must be {1} or less",
	},
	config.LocalePTBR: {
		TagDistinctParties:   "autor e acusado devem ser pessoas diferentes",
		TagMaxReason:         "{0} deve ter no máximo {1} caracteres",
		TagMaxDepoiment:      "{0} deve ter no máximo {1} caracteres",
		TagMaxRequestedValue: "{0} deve ser {1} ou menor",
	},
}

// New builds a validator for the locale and limits in cfg. Overrides in
// cfg.Messages replace the built-in message for the same tag.
func New(cfg config.ValidationConfig) (*Validator, error) {
	locale := cfg.Locale
	if locale == "" {
		locale = config.LocalePTBR
	}
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, pt_BR.New())
	trans, ok := uni.GetTranslator(locale)
	if !ok {
		return nil, fmt.Errorf("unsupported validation locale %s", locale)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldLabel)

	var err error
	switch locale {
	case config.LocaleEN:
		err = en_translations.RegisterDefaultTranslations(v, trans)
	case config.LocalePTBR:
		err = pt_BR_translations.RegisterDefaultTranslations(v, trans)
	default:
		err = fmt.Errorf("unsupported validation locale %s", locale)
	}
	if err != nil {
		return nil, fmt.Errorf("register %s translations: %w", locale, err)
	}

	limits := map[string]string{
		TagMaxReason:         strconv.Itoa(cfg.ReasonMaxLength),
		TagMaxDepoiment:      strconv.Itoa(cfg.DepoimentMaxLength),
		TagMaxRequestedValue: strconv.FormatFloat(cfg.MaxRequestedValue, 'f', -1, 64),
	}
	if err := v.RegisterValidation(TagMaxReason, maxLength(cfg.ReasonMaxLength)); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation(TagMaxDepoiment, maxLength(cfg.DepoimentMaxLength)); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation(TagMaxRequestedValue, maxValue(cfg.MaxRequestedValue)); err != nil {
		return nil, err
	}
	v.RegisterStructValidation(distinctParties, domain.JudicialProcess{})

	for tag, msg := range builtinMessages[locale] {
		if err := registerMessage(v, trans, tag, msg, limits[tag]); err != nil {
			return nil, err
		}
	}
	for tag, msg := range cfg.MessagesFor(locale) {
		if err := registerMessage(v, trans, tag, msg, limits[tag]); err != nil {
			return nil, err
		}
	}
	return &Validator{validate: v, trans: trans, locale: locale}, nil
}

// Locale reports the message set in use.
func (v *Validator) Locale() string { return v.locale }

// Validate checks p and returns every violation found.
func (v *Validator) Validate(p domain.JudicialProcess) Result {
	return v.Check(p)
}

// Check validates any struct carrying validate tags, such as registry records.
func (v *Validator) Check(s any) Result {
	err := v.validate.Struct(s)
	if err == nil {
		return Result{Valid: true}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Violations: []string{err.Error()}}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Translate(v.trans))
	}
	return Result{Violations: out}
}

// fieldLabel names fields in messages. The label tag disambiguates fields that
// share a json name across author and accused.
func fieldLabel(fld reflect.StructField) string {
	if label := fld.Tag.Get("label"); label != "" {
		return label
	}
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func distinctParties(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(domain.JudicialProcess)
	if !ok {
		return
	}
	if p.Author.PersonID != 0 && p.Author.PersonID == p.Accused.PersonID {
		sl.ReportError(p.Accused.PersonID, "accused_person_id", "PersonID", TagDistinctParties, "")
	}
}

func maxLength(limit int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if limit <= 0 {
			return true
		}
		return len([]rune(fl.Field().String())) <= limit
	}
}

func maxValue(limit float64) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if limit <= 0 {
			return true
		}
		return fl.Field().Float() <= limit
	}
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, msg, limit string) error {
	return v.RegisterTranslation(tag, trans, func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		param := fe.Param()
		if param == "" {
			param = limit
		}
		s, err := t.T(tag, fe.Field(), param)
		if err != nil {
			return fe.Error()
		}
		return s
	})
}
