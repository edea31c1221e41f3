// Package validation checks request payloads before anything is persisted.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pfes/joborder-api/internal/domain"
)

var (
	// Latin-script letters (accented included), space and name punctuation
	contactNamePattern   = regexp.MustCompile(`^[\p{Latin}∂ ,.'-]+$`)
	contactNumberPattern = regexp.MustCompile(`^[\d-]+$`)
)

// Struct-level tags reported for job order payloads
const (
	tagTruckDomestic = "truckdomestic"
	tagProvince      = "province"
	tagCity          = "city"
	tagCountry       = "country"
	tagDateOrder     = "dateorder"
)

// Reference is the read-only dataset used for membership checks
type Reference interface {
	ProvinceName(key string) (string, bool)
	HasCity(provinceKey, city string) bool
	HasCountry(name string) bool
}

// Result maps payload field names to messages. IsValid is true iff Errors is empty.
type Result struct {
	Errors  map[string]string `json:"errors"`
	IsValid bool              `json:"isValid"`
}

// Validator wraps go-playground/validator with the job order rules registered
type Validator struct {
	v   *validator.Validate
	ref Reference
}

// New creates a validator. ref may be nil, which skips reference membership checks.
func New(ref Reference) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("contactname", func(fl validator.FieldLevel) bool {
		return contactNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("contactnumber", func(fl validator.FieldLevel) bool {
		return contactNumberPattern.MatchString(fl.Field().String())
	})

	val := &Validator{v: v, ref: ref}
	v.RegisterStructValidation(val.jobOrderRules, domain.JobOrderPayload{})
	return val
}

// Struct validates any tagged request struct
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Validate checks a job order payload. It is pure and never touches the store.
func (val *Validator) Validate(p domain.JobOrderPayload) Result {
	return Collect(val.v.Struct(p))
}

// Collect converts a validator error into a Result
func Collect(err error) Result {
	res := Result{Errors: map[string]string{}}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if _, seen := res.Errors[fe.Field()]; seen {
				continue
			}
			res.Errors[fe.Field()] = Message(fe)
		}
	} else if err != nil {
		res.Errors["_"] = err.Error()
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

// Message renders a human-readable message for one failing field
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case tagTruckDomestic:
		return "Truck is only available for domestic job orders"
	case tagProvince:
		return "Unknown province"
	case tagCity:
		return "City is not in the selected province"
	case tagCountry:
		return "Unknown country"
	case tagDateOrder:
		return fmt.Sprintf("%s must not be earlier than %s", label(fe.Field()), label(fe.Param()))
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// jobOrderRules enforces cross-field rules that depend on variant and mode
func (val *Validator) jobOrderRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(domain.JobOrderPayload)

	required := func(value, field string) {
		if strings.TrimSpace(value) == "" {
			sl.ReportError(value, field, field, "required", "")
		}
	}

	if p.ModeOfTransport.RequiresCommodityType() {
		required(p.CommodityType, "commodityType")
	}

	switch p.Type {
	case domain.VariantDomestic:
		required(p.OriginProvinceKey, "originProvinceKey")
		required(p.OriginCity, "originCity")
		required(p.DestinationProvinceKey, "destinationProvinceKey")
		required(p.DestinationCity, "destinationCity")
		required(p.PickupDate, "pickupDate")
		val.checkPlace(sl, p.OriginProvinceKey, p.OriginCity, "origin")
		val.checkPlace(sl, p.DestinationProvinceKey, p.DestinationCity, "destination")
	case domain.VariantInternational:
		required(p.OriginCountry, "originCountry")
		required(p.DestinationCountry, "destinationCountry")
		if p.ModeOfTransport == domain.ModeTruck {
			sl.ReportError(p.ModeOfTransport, "modeOfTransport", "ModeOfTransport", tagTruckDomestic, "")
		}
		val.checkCountry(sl, p.OriginCountry, "originCountry")
		val.checkCountry(sl, p.DestinationCountry, "destinationCountry")
	}

	// unparseable dates are already reported by the datetime tag
	dates, err := p.Dates()
	if err != nil {
		return
	}
	if p.Type == domain.VariantInternational {
		dates.PickupDate = time.Time{}
	}
	switch domain.CheckOrder(dates) {
	case domain.FieldETD:
		sl.ReportError(p.ETD, "etd", "ETD", tagDateOrder, "pickupDate")
	case domain.FieldETA:
		sl.ReportError(p.ETA, "eta", "ETA", tagDateOrder, "etd")
	}
}

func (val *Validator) checkPlace(sl validator.StructLevel, provinceKey, city, side string) {
	if val.ref == nil || provinceKey == "" {
		return
	}
	if _, ok := val.ref.ProvinceName(provinceKey); !ok {
		sl.ReportError(provinceKey, side+"ProvinceKey", side+"ProvinceKey", tagProvince, "")
		return
	}
	if city != "" && !val.ref.HasCity(provinceKey, city) {
		sl.ReportError(city, side+"City", side+"City", tagCity, "")
	}
}

func (val *Validator) checkCountry(sl validator.StructLevel, country, field string) {
	if val.ref == nil || country == "" {
		return
	}
	if !val.ref.HasCountry(country) {
		sl.ReportError(country, field, field, tagCountry, "")
	}
}

// label turns a camelCase field name into words for messages
func label(field string) string {
	if known, ok := fieldLabels[field]; ok {
		return known
	}
	return field
}

var fieldLabels = map[string]string{
	"jobOrderNumber":         "Job order number",
	"type":                   "Type",
	"shipperConsignee":       "Shipper/consignee",
	"contactName":            "Contact name",
	"contactNumber":          "Contact number",
	"contactEmail":           "Contact email",
	"modeOfTransport":        "Mode of transport",
	"commodityType":          "Commodity type",
	"commodityDescription":   "Commodity description",
	"originLocation":         "Origin location",
	"originProvinceKey":      "Origin province",
	"originCity":             "Origin city",
	"originCountry":          "Origin country",
	"destinationLocation":    "Destination location",
	"destinationProvinceKey": "Destination province",
	"destinationCity":        "Destination city",
	"destinationCountry":     "Destination country",
	"pickupDate":             "Pickup date",
	"etd":                    "ETD",
	"eta":                    "ETA",
	"status":                 "Status",
	"email":                  "Email",
	"password":               "Password",
}
