package domain

import (
	"fmt"
	"time"
)

// ProvinceLookup resolves province keys from the reference dataset
type ProvinceLookup interface {
	ProvinceName(key string) (string, bool)
}

// Form fields with dependent state
const (
	FormModeOfTransport        = "modeOfTransport"
	FormOriginProvinceKey      = "originProvinceKey"
	FormDestinationProvinceKey = "destinationProvinceKey"
)

// FormChange is a single field edit coming from a form
type FormChange struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// ChangeModeOfTransport sets the mode and clears fields that depend on it.
// The BL/AWB number never survives a mode change; Air also drops the commodity type.
func (p *JobOrderPayload) ChangeModeOfTransport(mode TransportMode) {
	p.ModeOfTransport = mode
	p.BLAWB = ""
	if mode == ModeAir {
		p.CommodityType = ""
	}
}

// ChangeOriginProvince sets the origin province and resets its city
func (p *JobOrderPayload) ChangeOriginProvince(key string, lookup ProvinceLookup) {
	p.OriginProvinceKey = key
	p.OriginProvinceName = ""
	if lookup != nil {
		p.OriginProvinceName, _ = lookup.ProvinceName(key)
	}
	p.OriginCity = ""
}

// ChangeDestinationProvince sets the destination province and resets its city
func (p *JobOrderPayload) ChangeDestinationProvince(key string, lookup ProvinceLookup) {
	p.DestinationProvinceKey = key
	p.DestinationProvinceName = ""
	if lookup != nil {
		p.DestinationProvinceName, _ = lookup.ProvinceName(key)
	}
	p.DestinationCity = ""
}

// ChangeDate runs the date engine for one schedule field
func (p *JobOrderPayload) ChangeDate(field DateField, value string, today time.Time) error {
	v, err := ParseDate(value)
	if err != nil {
		return err
	}
	current, err := p.Dates()
	if err != nil {
		return err
	}
	next := ApplyDateChange(field, v, current, today)
	p.PickupDate = FormatDate(next.PickupDate)
	p.ETD = FormatDate(next.ETD)
	p.ETA = FormatDate(next.ETA)
	return nil
}

// ReduceForm applies one form edit to a payload and returns the new payload.
// Fields without dependent state are rejected; clients set those directly.
func ReduceForm(p JobOrderPayload, change FormChange, lookup ProvinceLookup, today time.Time) (JobOrderPayload, error) {
	switch change.Field {
	case FormModeOfTransport:
		p.ChangeModeOfTransport(TransportMode(change.Value))
	case FormOriginProvinceKey:
		p.ChangeOriginProvince(change.Value, lookup)
	case FormDestinationProvinceKey:
		p.ChangeDestinationProvince(change.Value, lookup)
	case string(FieldPickupDate), string(FieldETD), string(FieldETA):
		if err := p.ChangeDate(DateField(change.Field), change.Value, today); err != nil {
			return p, err
		}
	default:
		return p, fmt.Errorf("field %q has no dependent state", change.Field)
	}
	return p, nil
}

// Dates parses the payload's schedule
func (p *JobOrderPayload) Dates() (DateTriple, error) {
	var t DateTriple
	var err error
	if t.PickupDate, err = ParseDate(p.PickupDate); err != nil {
		return t, err
	}
	if t.ETD, err = ParseDate(p.ETD); err != nil {
		return t, err
	}
	if t.ETA, err = ParseDate(p.ETA); err != nil {
		return t, err
	}
	return t, nil
}

// Normalize drops fields that do not apply to the variant or mode
func (p *JobOrderPayload) Normalize() {
	switch p.ModeOfTransport {
	case ModeAir:
		p.CommodityType = ""
	case ModeTruck:
		p.BLAWB = ""
	}
	if p.Type == VariantInternational {
		p.PickupDate = ""
		p.OriginProvinceKey, p.OriginProvinceName, p.OriginCity = "", "", ""
		p.DestinationProvinceKey, p.DestinationProvinceName, p.DestinationCity = "", "", ""
	} else {
		p.OriginCountry, p.DestinationCountry = "", ""
	}
}

// ApplyTo copies the editable payload fields onto a job order. Identity fields
// (number, variant, associate, owner) are left to the caller.
func (p *JobOrderPayload) ApplyTo(jo *JobOrder, lookup ProvinceLookup) error {
	dates, err := p.Dates()
	if err != nil {
		return err
	}

	jo.ShipperConsignee = p.ShipperConsignee
	jo.Contact = Contact{Name: p.ContactName, Number: p.ContactNumber, Email: p.ContactEmail}
	jo.ModeOfTransport = p.ModeOfTransport
	jo.Commodity = Commodity{Type: p.CommodityType, Description: p.CommodityDescription}
	jo.BLAWB = p.BLAWB
	jo.Origin = Place{
		Location:    p.OriginLocation,
		ProvinceKey: p.OriginProvinceKey,
		City:        p.OriginCity,
		Country:     p.OriginCountry,
	}
	jo.Destination = Place{
		Location:    p.DestinationLocation,
		ProvinceKey: p.DestinationProvinceKey,
		City:        p.DestinationCity,
		Country:     p.DestinationCountry,
	}
	if lookup != nil {
		jo.Origin.ProvinceName, _ = lookup.ProvinceName(p.OriginProvinceKey)
		jo.Destination.ProvinceName, _ = lookup.ProvinceName(p.DestinationProvinceKey)
	}
	jo.SetDates(dates)
	jo.Status = p.Status
	jo.Tags = Tags{Urgent: p.TagUrgent, Insured: p.TagInsured}
	jo.Rating = p.Rating
	return nil
}

// PayloadFromJobOrder builds the flat form representation of a stored job order
func PayloadFromJobOrder(jo *JobOrder) JobOrderPayload {
	d := jo.Dates()
	return JobOrderPayload{
		JobOrderNumber:          jo.JobOrderNumber,
		Type:                    jo.Variant,
		ShipperConsignee:        jo.ShipperConsignee,
		Associate:               jo.Associate,
		ContactName:             jo.Contact.Name,
		ContactNumber:           jo.Contact.Number,
		ContactEmail:            jo.Contact.Email,
		ModeOfTransport:         jo.ModeOfTransport,
		CommodityType:           jo.Commodity.Type,
		CommodityDescription:    jo.Commodity.Description,
		BLAWB:                   jo.BLAWB,
		OriginLocation:          jo.Origin.Location,
		OriginProvinceKey:       jo.Origin.ProvinceKey,
		OriginProvinceName:      jo.Origin.ProvinceName,
		OriginCity:              jo.Origin.City,
		OriginCountry:           jo.Origin.Country,
		DestinationLocation:     jo.Destination.Location,
		DestinationProvinceKey:  jo.Destination.ProvinceKey,
		DestinationProvinceName: jo.Destination.ProvinceName,
		DestinationCity:         jo.Destination.City,
		DestinationCountry:      jo.Destination.Country,
		PickupDate:              FormatDate(d.PickupDate),
		ETD:                     FormatDate(d.ETD),
		ETA:                     FormatDate(d.ETA),
		Status:                  jo.Status,
		TagUrgent:               jo.Tags.Urgent,
		TagInsured:              jo.Tags.Insured,
		Rating:                  jo.Rating,
		Version:                 jo.Version,
	}
}
