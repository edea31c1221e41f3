package domain

import (
	"github.com/google/uuid"
)

// JobOrderPayload is the flat create/edit body for a job order
type JobOrderPayload struct {
	JobOrderNumber          string         `json:"jobOrderNumber" validate:"required,max=100"`
	Type                    Variant        `json:"type" validate:"required,oneof=Domestic International"`
	ShipperConsignee        string         `json:"shipperConsignee" validate:"required,max=100"`
	Associate               string         `json:"associate" validate:"max=100"`
	ContactName             string         `json:"contactName" validate:"required,max=100,contactname"`
	ContactNumber           string         `json:"contactNumber" validate:"required,max=15,contactnumber"`
	ContactEmail            string         `json:"contactEmail" validate:"required,max=100,email"`
	ModeOfTransport         TransportMode  `json:"modeOfTransport" validate:"required,oneof=Truck Sea Air"`
	CommodityType           string         `json:"commodityType,omitempty" validate:"max=100"`
	CommodityDescription    string         `json:"commodityDescription" validate:"required,max=100"`
	BLAWB                   string         `json:"blAwb,omitempty" validate:"max=100"`
	OriginLocation          string         `json:"originLocation" validate:"required,max=100"`
	OriginProvinceKey       string         `json:"originProvinceKey,omitempty" validate:"max=50"`
	OriginProvinceName      string         `json:"originProvinceName,omitempty" validate:"max=100"`
	OriginCity              string         `json:"originCity,omitempty" validate:"max=100"`
	OriginCountry           string         `json:"originCountry,omitempty" validate:"max=100"`
	DestinationLocation     string         `json:"destinationLocation" validate:"required,max=100"`
	DestinationProvinceKey  string         `json:"destinationProvinceKey,omitempty" validate:"max=50"`
	DestinationProvinceName string         `json:"destinationProvinceName,omitempty" validate:"max=100"`
	DestinationCity         string         `json:"destinationCity,omitempty" validate:"max=100"`
	DestinationCountry      string         `json:"destinationCountry,omitempty" validate:"max=100"`
	PickupDate              string         `json:"pickupDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ETD                     string         `json:"etd" validate:"required,datetime=2006-01-02"`
	ETA                     string         `json:"eta" validate:"required,datetime=2006-01-02"`
	Status                  JobOrderStatus `json:"status" validate:"required,oneof=Ongoing Waiting Void"`
	TagUrgent               bool           `json:"tagUrgent"`
	TagInsured              bool           `json:"tagInsured"`
	Rating                  int            `json:"rating" validate:"gte=0,lte=5"`
	// Version enables optimistic concurrency on edit when greater than zero
	Version int `json:"version,omitempty" validate:"gte=0"`
}

// StageUpdate changes one operations stage. Nil fields are left as stored.
type StageUpdate struct {
	Status  *StageStatus `json:"status,omitempty" validate:"omitempty,oneof=Pending 'In Progress' Finished"`
	Remarks *string      `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// UpdateOperationsRequest updates the operations stages of a job order
type UpdateOperationsRequest struct {
	Preloading StageUpdate `json:"preloading"`
	Loading    StageUpdate `json:"loading"`
	Unloading  StageUpdate `json:"unloading"`
	Version    int         `json:"version,omitempty" validate:"gte=0"`
}

// CompleteJobOrderRequest confirms completion of a job order
type CompleteJobOrderRequest struct {
	Remarks string `json:"remarks" validate:"max=500"`
	Version int    `json:"version,omitempty" validate:"gte=0"`
}

// ScheduleChangeRequest runs the date engine for one field
type ScheduleChangeRequest struct {
	Field      DateField `json:"field" validate:"required,oneof=pickupDate etd eta"`
	Value      string    `json:"value" validate:"omitempty,datetime=2006-01-02"`
	PickupDate string    `json:"pickupDate" validate:"omitempty,datetime=2006-01-02"`
	ETD        string    `json:"etd" validate:"omitempty,datetime=2006-01-02"`
	ETA        string    `json:"eta" validate:"omitempty,datetime=2006-01-02"`
}

// ScheduleDTO is a corrected schedule with its advisory input minimums
type ScheduleDTO struct {
	PickupDate string `json:"pickupDate,omitempty"`
	ETD        string `json:"etd,omitempty"`
	ETA        string `json:"eta,omitempty"`
	ETDMin     string `json:"etdMin,omitempty"`
	ETAMin     string `json:"etaMin,omitempty"`
}

// FormReduceRequest applies a dependent-field change to a form payload
type FormReduceRequest struct {
	Payload JobOrderPayload `json:"payload"`
	Change  FormChange      `json:"change"`
}

// ValidationResultDTO reports the outcome of validating a payload
type ValidationResultDTO struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// StageDTO is one operations stage as returned by the API
type StageDTO struct {
	Status     StageStatus `json:"status"`
	Remarks    string      `json:"remarks"`
	IsFinished bool        `json:"isFinished"`
}

// OperationsDTO groups the three stages
type OperationsDTO struct {
	Preloading StageDTO `json:"preloading"`
	Loading    StageDTO `json:"loading"`
	Unloading  StageDTO `json:"unloading"`
}

// JobOrderDTO is a job order as returned by the API
type JobOrderDTO struct {
	ID                uuid.UUID      `json:"id"`
	JobOrderNumber    string         `json:"jobOrderNumber"`
	Type              Variant        `json:"type"`
	ShipperConsignee  string         `json:"shipperConsignee"`
	Associate         string         `json:"associate"`
	Contact           Contact        `json:"contact"`
	ModeOfTransport   TransportMode  `json:"modeOfTransport"`
	Commodity         Commodity      `json:"commodity"`
	BLAWB             string         `json:"blAwb,omitempty"`
	Origin            Place          `json:"origin"`
	Destination       Place          `json:"destination"`
	PickupDate        string         `json:"pickupDate,omitempty"`
	ETD               string         `json:"etd,omitempty"`
	ETA               string         `json:"eta,omitempty"`
	Status            JobOrderStatus `json:"status"`
	Tags              Tags           `json:"tags"`
	Operations        OperationsDTO  `json:"operations"`
	Rating            int            `json:"rating"`
	IsCompleted       bool           `json:"isCompleted"`
	DateCompleted     string         `json:"dateCompleted,omitempty"`
	CompletionRemarks string         `json:"completionRemarks,omitempty"`
	User              uuid.UUID      `json:"user"`
	Version           int            `json:"version"`
	CreatedAt         string         `json:"createdAt"`
	UpdatedAt         string         `json:"updatedAt"`
	AllowedActions    ActionSet      `json:"allowedActions,omitempty"`
}

// UserDTO is a user as returned by the API
type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	UserType string    `json:"userType"`
	IsActive bool      `json:"isActive"`
}

// LoginRequest carries credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries a signed session token
type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

// AuditLogDTO is an audit entry as returned by the API
type AuditLogDTO struct {
	ID          uuid.UUID   `json:"id"`
	UserID      string      `json:"userId"`
	UserEmail   string      `json:"userEmail,omitempty"`
	UserName    string      `json:"userName,omitempty"`
	Action      AuditAction `json:"action"`
	EntityType  string      `json:"entityType"`
	EntityKey   string      `json:"entityKey"`
	NewValues   string      `json:"newValues,omitempty"`
	IPAddress   string      `json:"ipAddress,omitempty"`
	RequestID   string      `json:"requestId,omitempty"`
	PerformedAt string      `json:"performedAt"`
}

// ProvinceDTO is a province from the reference dataset
type ProvinceDTO struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

// StatisticsDTO summarises job orders
type StatisticsDTO struct {
	Total     int64                    `json:"total"`
	Completed int64                    `json:"completed"`
	Open      int64                    `json:"open"`
	Urgent    int64                    `json:"urgent"`
	Overdue   int64                    `json:"overdue"`
	ByStatus  map[JobOrderStatus]int64 `json:"byStatus"`
	ByVariant map[Variant]int64        `json:"byVariant"`
	ByMode    map[TransportMode]int64  `json:"byMode"`
}

// CalendarEventType is the schedule date a calendar entry represents
type CalendarEventType string

const (
	EventPickup    CalendarEventType = "pickup"
	EventDeparture CalendarEventType = "departure"
	EventArrival   CalendarEventType = "arrival"
)

// CalendarEventDTO is one dated event of a job order
type CalendarEventDTO struct {
	Date             string            `json:"date"`
	Event            CalendarEventType `json:"event"`
	JobOrderNumber   string            `json:"jobOrderNumber"`
	Type             Variant           `json:"type"`
	ShipperConsignee string            `json:"shipperConsignee"`
	Status           JobOrderStatus    `json:"status"`
	IsCompleted      bool              `json:"isCompleted"`
	Urgent           bool              `json:"urgent"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
