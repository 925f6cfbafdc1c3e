package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sm8ta/customer_microservice/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

type ValidationMode int

const (
	// ModeCreate requires every mandatory field and checks email uniqueness.
	ModeCreate ValidationMode = iota
	// ModeUpdate validates only supplied fields; email uniqueness ignores the updated customer.
	ModeUpdate
	// ModeFilter validates only supplied fields and never checks uniqueness.
	ModeFilter
)

const (
	msgUnknownField = "Unknown field."
	msgNull         = "Field may not be null."
	msgNotString    = "Not a valid string."
	msgNotInteger   = "Not a valid integer."
	msgNotBoolean   = "Not a valid boolean."
	msgNotDate      = "Not a valid date."

	msgNameRequired   = "Name is required."
	msgNameFormat     = "Name must start with an uppercase letter and contain only letters."
	msgNameLength     = "Name must be at least 3 characters long."
	msgNameTooLong    = "Name must be at most 120 characters long."
	msgLastnameReq    = "Last name is required."
	msgLastnameFormat = "Last name must start with an uppercase letter and contain only letters."
	msgLastnameLength = "Last name must be at least 3 characters long."
	msgLastnameLong   = "Last name must be at most 120 characters long."
	msgCategory       = "Category must be one of A, B or C."
	msgEmailRequired  = "Email is required."
	msgEmailInvalid   = "Email format is not valid."
	msgEmailTaken     = "This email is already registered."
	msgEmailTooLong   = "Email must be at most 120 characters long."
	msgAgeRange       = "Age must be between 1 and 100."
	msgURLRequired    = "URL is required."
	msgURLInvalid     = "URL format is not valid."
	msgURLTooLong     = "URL must be at most 255 characters long."
	msgBirthdayReq    = "Birthday is required."
	msgBirthdayFuture = "Birthday cannot be in the future."
)

const (
	fieldName     = "name"
	fieldLastname = "lastname"
	fieldCategory = "category"
	fieldEmail    = "email"
	fieldAge      = "age"
	fieldURL      = "url"
	fieldBirthday = "birthday"
	fieldIsActive = "is_active"

	capitalizedTag = "capitalized"
	webURLTag      = "web_url"

	maxNameLength  = 120
	maxEmailLength = 120
	maxURLLength   = 255
)

var capitalizedWords = regexp.MustCompile(`^[A-Z][a-z]+(?:\s[A-Z][a-z]+)*$`)

var webURLSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

var customerFields = map[string]bool{
	fieldName:     true,
	fieldLastname: true,
	fieldCategory: true,
	fieldEmail:    true,
	fieldAge:      true,
	fieldURL:      true,
	fieldBirthday: true,
	fieldIsActive: true,
}

// EmailChecker is the part of the store the validator needs.
type EmailChecker interface {
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}

// CustomerValidator turns a raw payload into domain.CustomerFields or a
// domain.ValidationErrors set.
type CustomerValidator struct {
	validate *validator.Validate
	emails   EmailChecker
	today    func() domain.Date
}

func NewCustomerValidator(validate *validator.Validate, emails EmailChecker) (*CustomerValidator, error) {
	err := validate.RegisterValidation(capitalizedTag, func(fl validator.FieldLevel) bool {
		return capitalizedWords.MatchString(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register %s validation: %w", capitalizedTag, err)
	}
	if err := validate.RegisterValidation(webURLTag, isWebURL); err != nil {
		return nil, fmt.Errorf("register %s validation: %w", webURLTag, err)
	}

	return &CustomerValidator{
		validate: validate,
		emails:   emails,
		today:    domain.Today,
	}, nil
}

// Validate checks payload according to mode. excludeID is the customer being
// updated and is ignored in the other modes. A non-nil error is either
// domain.ValidationErrors or a store failure from the uniqueness check.
func (cv *CustomerValidator) Validate(ctx context.Context, payload map[string]any, mode ValidationMode, excludeID int64) (domain.CustomerFields, error) {
	var fields domain.CustomerFields
	errs := domain.ValidationErrors{}
	partial := mode != ModeCreate

	for key := range payload {
		if !customerFields[key] {
			errs.Add(key, msgUnknownField)
		}
	}

	if raw, ok := cv.lookup(payload, fieldName, msgNameRequired, partial, errs); ok {
		fields.Name = cv.personName(raw, fieldName, msgNameFormat, msgNameLength, msgNameTooLong, errs)
	}

	if raw, ok := cv.lookup(payload, fieldLastname, msgLastnameReq, partial, errs); ok {
		fields.Lastname = cv.personName(raw, fieldLastname, msgLastnameFormat, msgLastnameLength, msgLastnameLong, errs)
	}

	if raw, ok := cv.lookup(payload, fieldCategory, "", true, errs); ok {
		if s, ok := cv.str(raw, fieldCategory, errs); ok {
			if cv.validate.Var(s, "oneof=A B C") != nil {
				errs.Add(fieldCategory, msgCategory)
			} else {
				category := domain.Category(s)
				fields.Category = &category
			}
		}
	}

	if raw, ok := cv.lookup(payload, fieldEmail, msgEmailRequired, partial, errs); ok {
		if s, ok := cv.str(raw, fieldEmail, errs); ok {
			if cv.validate.Var(s, "email") != nil {
				errs.Add(fieldEmail, msgEmailInvalid)
			} else if cv.validate.Var(s, fmt.Sprintf("max=%d", maxEmailLength)) != nil {
				errs.Add(fieldEmail, msgEmailTooLong)
			} else if mode == ModeFilter {
				fields.Email = &s
			} else {
				if mode == ModeCreate {
					excludeID = 0
				}
				exists, err := cv.emails.EmailExists(ctx, s, excludeID)
				if err != nil {
					return domain.CustomerFields{}, fmt.Errorf("check email uniqueness: %w", err)
				}
				if exists {
					errs.Add(fieldEmail, msgEmailTaken)
				} else {
					fields.Email = &s
				}
			}
		}
	}

	if raw, ok := cv.lookup(payload, fieldAge, "", true, errs); ok {
		age, ok := toInt(raw)
		switch {
		case !ok:
			errs.Add(fieldAge, msgNotInteger)
		case cv.validate.Var(age, "min=1,max=100") != nil:
			errs.Add(fieldAge, msgAgeRange)
		default:
			fields.Age = &age
		}
	}

	if raw, ok := cv.lookup(payload, fieldURL, msgURLRequired, partial, errs); ok {
		if s, ok := cv.str(raw, fieldURL, errs); ok {
			if cv.validate.Var(s, "url,"+webURLTag) != nil {
				errs.Add(fieldURL, msgURLInvalid)
			} else if cv.validate.Var(s, fmt.Sprintf("max=%d", maxURLLength)) != nil {
				errs.Add(fieldURL, msgURLTooLong)
			} else {
				fields.URL = &s
			}
		}
	}

	if raw, ok := cv.lookup(payload, fieldBirthday, msgBirthdayReq, partial, errs); ok {
		if s, ok := cv.str(raw, fieldBirthday, errs); ok {
			birthday, err := domain.ParseDate(strings.TrimSpace(s))
			switch {
			case err != nil:
				errs.Add(fieldBirthday, msgNotDate)
			case birthday.After(cv.today()):
				errs.Add(fieldBirthday, msgBirthdayFuture)
			default:
				fields.Birthday = &birthday
			}
		}
	}

	if raw, ok := cv.lookup(payload, fieldIsActive, "", true, errs); ok {
		if active, ok := toBool(raw); ok {
			fields.IsActive = &active
		} else {
			errs.Add(fieldIsActive, msgNotBoolean)
		}
	}

	if len(errs) > 0 {
		return domain.CustomerFields{}, errs
	}
	return fields, nil
}

// lookup returns the raw value of a present, non-null field.
func (cv *CustomerValidator) lookup(payload map[string]any, field, requiredMsg string, optional bool, errs domain.ValidationErrors) (any, bool) {
	raw, present := payload[field]
	if !present {
		if !optional {
			errs.Add(field, requiredMsg)
		}
		return nil, false
	}
	if raw == nil {
		errs.Add(field, msgNull)
		return nil, false
	}
	return raw, true
}

func (cv *CustomerValidator) str(raw any, field string, errs domain.ValidationErrors) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		errs.Add(field, msgNotString)
	}
	return s, ok
}

func (cv *CustomerValidator) personName(raw any, field, formatMsg, lengthMsg, tooLongMsg string, errs domain.ValidationErrors) *string {
	s, ok := cv.str(raw, field, errs)
	if !ok {
		return nil
	}

	valid := true
	if cv.validate.Var(s, capitalizedTag) != nil {
		errs.Add(field, formatMsg)
		valid = false
	}
	if cv.validate.Var(s, "min=3") != nil {
		errs.Add(field, lengthMsg)
		valid = false
	}
	if cv.validate.Var(s, fmt.Sprintf("max=%d", maxNameLength)) != nil {
		errs.Add(field, tooLongMsg)
		valid = false
	}
	if !valid {
		return nil
	}
	return &s
}

// isWebURL accepts absolute http(s)/ftp(s) URLs whose host is a dotted
// domain, an IP address or localhost.
func isWebURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || !webURLSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	return host == "localhost" || net.ParseIP(host) != nil ||
		(strings.Contains(host, ".") && !strings.HasPrefix(host, ".") && !strings.HasSuffix(host, "."))
}

// toInt accepts JSON numbers with an integral value and numeric strings
// (query parameters).
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case float64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case json.Number:
		switch v.String() {
		case "0":
			return false, true
		case "1":
			return true, true
		}
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return b, true
		}
	}
	return false, false
}
