package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Variant distinguishes domestic and international job orders
type Variant string

const (
	VariantDomestic      Variant = "Domestic"
	VariantInternational Variant = "International"
)

// IsValid reports whether v is a known variant
func (v Variant) IsValid() bool {
	return v == VariantDomestic || v == VariantInternational
}

// TransportMode is the shipment's mode of transport
type TransportMode string

const (
	ModeTruck TransportMode = "Truck"
	ModeSea   TransportMode = "Sea"
	ModeAir   TransportMode = "Air"
)

// RequiresCommodityType reports whether the commodity type must be captured for the mode
func (m TransportMode) RequiresCommodityType() bool {
	return m == ModeTruck || m == ModeSea
}

// CarriesBLAWB reports whether a bill of lading or air waybill applies to the mode
func (m TransportMode) CarriesBLAWB() bool {
	return m == ModeSea || m == ModeAir
}

// JobOrderStatus is the commercial status of a job order, independent of completion
type JobOrderStatus string

const (
	StatusOngoing JobOrderStatus = "Ongoing"
	StatusWaiting JobOrderStatus = "Waiting"
	StatusVoid    JobOrderStatus = "Void"
)

// StageStatus tracks progress of one operations stage
type StageStatus string

const (
	StagePending    StageStatus = "Pending"
	StageInProgress StageStatus = "In Progress"
	StageFinished   StageStatus = "Finished"
)

// Roles recognised by the access policy
const (
	RoleAdmin      = "admin"
	RoleSales      = "sales"
	RoleOperations = "operations"
)

// BaseModel with common fields. IDs are generated in BeforeCreate so the
// schema works on both PostgreSQL and SQLite.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate assigns an ID when none is set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Contact is the customer's point of contact
type Contact struct {
	Name   string `gorm:"type:varchar(100)" json:"name"`
	Number string `gorm:"type:varchar(15)" json:"number"`
	Email  string `gorm:"type:varchar(100)" json:"email"`
}

// Commodity describes the goods being shipped
type Commodity struct {
	Type        string `gorm:"type:varchar(100)" json:"type,omitempty"`
	Description string `gorm:"type:varchar(100)" json:"description"`
}

// Place is an origin or destination. Province fields apply to domestic
// job orders, Country to international ones.
type Place struct {
	Location     string `gorm:"type:varchar(100)" json:"location"`
	ProvinceKey  string `gorm:"type:varchar(50)" json:"provinceKey,omitempty"`
	ProvinceName string `gorm:"type:varchar(100)" json:"provinceName,omitempty"`
	City         string `gorm:"type:varchar(100)" json:"city,omitempty"`
	Country      string `gorm:"type:varchar(100)" json:"country,omitempty"`
}

// Tags are boolean flags attached to a job order
type Tags struct {
	Urgent  bool `gorm:"not null;default:false" json:"urgent"`
	Insured bool `gorm:"not null;default:false" json:"insured"`
}

// Stage is one physical handling checkpoint
type Stage struct {
	Status  StageStatus `gorm:"type:varchar(20)" json:"status"`
	Remarks string      `gorm:"type:text" json:"remarks"`
}

// IsFinished reports whether the stage has been completed
func (s Stage) IsFinished() bool {
	return s.Status == StageFinished
}

// Operations holds the three handling stages
type Operations struct {
	Preloading Stage `gorm:"embedded;embeddedPrefix:preloading_" json:"preloading"`
	Loading    Stage `gorm:"embedded;embeddedPrefix:loading_" json:"loading"`
	Unloading  Stage `gorm:"embedded;embeddedPrefix:unloading_" json:"unloading"`
}

// JobOrder is a single shipment tracked end to end
type JobOrder struct {
	BaseModel
	JobOrderNumber    string         `gorm:"type:varchar(100);not null;uniqueIndex;column:job_order_number" json:"jobOrderNumber"`
	Variant           Variant        `gorm:"type:varchar(20);not null;index" json:"type"`
	ShipperConsignee  string         `gorm:"type:varchar(100);not null;column:shipper_consignee" json:"shipperConsignee"`
	Associate         string         `gorm:"type:varchar(100)" json:"associate"`
	Contact           Contact        `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	ModeOfTransport   TransportMode  `gorm:"type:varchar(10);not null;column:mode_of_transport" json:"modeOfTransport"`
	Commodity         Commodity      `gorm:"embedded;embeddedPrefix:commodity_" json:"commodity"`
	BLAWB             string         `gorm:"type:varchar(100);column:bl_awb" json:"blAwb,omitempty"`
	Origin            Place          `gorm:"embedded;embeddedPrefix:origin_" json:"origin"`
	Destination       Place          `gorm:"embedded;embeddedPrefix:destination_" json:"destination"`
	PickupDate        *time.Time     `gorm:"type:date;column:pickup_date" json:"pickupDate,omitempty"`
	ETD               *time.Time     `gorm:"type:date;column:etd" json:"etd,omitempty"`
	ETA               *time.Time     `gorm:"type:date;column:eta;index" json:"eta,omitempty"`
	Status            JobOrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Tags              Tags           `gorm:"embedded;embeddedPrefix:tag_" json:"tags"`
	Operations        Operations     `gorm:"embedded" json:"operations"`
	Rating            int            `gorm:"not null;default:0" json:"rating"`
	IsCompleted       bool           `gorm:"not null;default:false;column:is_completed;index" json:"isCompleted"`
	DateCompleted     *time.Time     `gorm:"column:date_completed" json:"dateCompleted,omitempty"`
	CompletionRemarks string         `gorm:"type:text;column:completion_remarks" json:"completionRemarks,omitempty"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user"`
	Version           int            `gorm:"not null;default:1" json:"version"`
}

// Dates returns the job order's schedule as a date triple
func (j *JobOrder) Dates() DateTriple {
	return DateTriple{
		PickupDate: derefDate(j.PickupDate),
		ETD:        derefDate(j.ETD),
		ETA:        derefDate(j.ETA),
	}
}

// SetDates stores a date triple on the job order; blank dates become NULL
func (j *JobOrder) SetDates(t DateTriple) {
	j.PickupDate = refDate(t.PickupDate)
	j.ETD = refDate(t.ETD)
	j.ETA = refDate(t.ETA)
}

// UnloadingFinished reports whether the record may be completed
func (j *JobOrder) UnloadingFinished() bool {
	return j.Operations.Unloading.IsFinished()
}

// OwnedBy reports whether the given user created the job order
func (j *JobOrder) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && j.UserID == userID
}

// IsOverdue reports whether an open job order has passed its ETA
func (j *JobOrder) IsOverdue(today time.Time) bool {
	if j.IsCompleted || j.Status == StatusVoid || j.ETA == nil {
		return false
	}
	return TruncateDay(*j.ETA).Before(TruncateDay(today))
}

// User is an account that can sign in
type User struct {
	BaseModel
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	UserType     string     `gorm:"type:varchar(50);not null;column:user_type" json:"userType"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
}

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate   AuditAction = "create"
	AuditActionUpdate   AuditAction = "update"
	AuditActionDelete   AuditAction = "delete"
	AuditActionComplete AuditAction = "complete"
	AuditActionLogin    AuditAction = "login"
)

// AuditLog is an append-only record of a successful mutation
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:varchar(100);column:user_id;index" json:"userId"`
	UserEmail   string      `gorm:"type:varchar(255);column:user_email" json:"userEmail"`
	UserName    string      `gorm:"type:varchar(200);column:user_name" json:"userName"`
	Action      AuditAction `gorm:"type:varchar(20);not null" json:"action"`
	EntityType  string      `gorm:"type:varchar(50);not null;column:entity_type" json:"entityType"`
	EntityKey   string      `gorm:"type:varchar(100);column:entity_key;index" json:"entityKey"`
	NewValues   string      `gorm:"type:text;column:new_values" json:"newValues,omitempty"`
	IPAddress   string      `gorm:"type:varchar(64);column:ip_address" json:"ipAddress,omitempty"`
	UserAgent   string      `gorm:"type:text;column:user_agent" json:"userAgent,omitempty"`
	RequestID   string      `gorm:"type:varchar(100);column:request_id" json:"requestId,omitempty"`
	PerformedAt time.Time   `gorm:"not null;column:performed_at;index" json:"performedAt"`
}

// BeforeCreate assigns an ID and timestamp when missing
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.PerformedAt.IsZero() {
		a.PerformedAt = time.Now().UTC()
	}
	return nil
}
