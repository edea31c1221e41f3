package mapper

import (
	"time"

	"github.com/pfes/joborder-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// ToJobOrderDTO converts JobOrder to JobOrderDTO. actions is the caller's
// allowed action set and may be nil.
func ToJobOrderDTO(jo *domain.JobOrder, actions domain.ActionSet) domain.JobOrderDTO {
	dates := jo.Dates()
	dto := domain.JobOrderDTO{
		ID:                jo.ID,
		JobOrderNumber:    jo.JobOrderNumber,
		Type:              jo.Variant,
		ShipperConsignee:  jo.ShipperConsignee,
		Associate:         jo.Associate,
		Contact:           jo.Contact,
		ModeOfTransport:   jo.ModeOfTransport,
		Commodity:         jo.Commodity,
		BLAWB:             jo.BLAWB,
		Origin:            jo.Origin,
		Destination:       jo.Destination,
		PickupDate:        domain.FormatDate(dates.PickupDate),
		ETD:               domain.FormatDate(dates.ETD),
		ETA:               domain.FormatDate(dates.ETA),
		Status:            jo.Status,
		Tags:              jo.Tags,
		Operations:        toOperationsDTO(jo.Operations),
		Rating:            jo.Rating,
		IsCompleted:       jo.IsCompleted,
		CompletionRemarks: jo.CompletionRemarks,
		User:              jo.UserID,
		Version:           jo.Version,
		CreatedAt:         formatTimestamp(jo.CreatedAt),
		UpdatedAt:         formatTimestamp(jo.UpdatedAt),
		AllowedActions:    actions,
	}
	if jo.DateCompleted != nil {
		dto.DateCompleted = formatTimestamp(*jo.DateCompleted)
	}
	return dto
}

func toOperationsDTO(ops domain.Operations) domain.OperationsDTO {
	return domain.OperationsDTO{
		Preloading: toStageDTO(ops.Preloading),
		Loading:    toStageDTO(ops.Loading),
		Unloading:  toStageDTO(ops.Unloading),
	}
}

func toStageDTO(s domain.Stage) domain.StageDTO {
	return domain.StageDTO{
		Status:     s.Status,
		Remarks:    s.Remarks,
		IsFinished: s.IsFinished(),
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		UserType: user.UserType,
		IsActive: user.IsActive,
	}
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(log *domain.AuditLog) domain.AuditLogDTO {
	return domain.AuditLogDTO{
		ID:          log.ID,
		UserID:      log.UserID,
		UserEmail:   log.UserEmail,
		UserName:    log.UserName,
		Action:      log.Action,
		EntityType:  log.EntityType,
		EntityKey:   log.EntityKey,
		NewValues:   log.NewValues,
		IPAddress:   log.IPAddress,
		RequestID:   log.RequestID,
		PerformedAt: formatTimestamp(log.PerformedAt),
	}
}

// ToScheduleDTO renders a schedule and its picker minimums
func ToScheduleDTO(t domain.DateTriple, b domain.DateBounds) domain.ScheduleDTO {
	return domain.ScheduleDTO{
		PickupDate: domain.FormatDate(t.PickupDate),
		ETD:        domain.FormatDate(t.ETD),
		ETA:        domain.FormatDate(t.ETA),
		ETDMin:     domain.FormatDate(b.ETDMin),
		ETAMin:     domain.FormatDate(b.ETAMin),
	}
}

// ToCalendarEvents expands a job order into one event per scheduled date
func ToCalendarEvents(jo *domain.JobOrder, from, to time.Time) []domain.CalendarEventDTO {
	dates := jo.Dates()
	candidates := []struct {
		at    time.Time
		event domain.CalendarEventType
	}{
		{dates.PickupDate, domain.EventPickup},
		{dates.ETD, domain.EventDeparture},
		{dates.ETA, domain.EventArrival},
	}

	var events []domain.CalendarEventDTO
	for _, c := range candidates {
		if c.at.IsZero() || c.at.Before(from) || c.at.After(to) {
			continue
		}
		events = append(events, domain.CalendarEventDTO{
			Date:             domain.FormatDate(c.at),
			Event:            c.event,
			JobOrderNumber:   jo.JobOrderNumber,
			Type:             jo.Variant,
			ShipperConsignee: jo.ShipperConsignee,
			Status:           jo.Status,
			IsCompleted:      jo.IsCompleted,
			Urgent:           jo.Tags.Urgent,
		})
	}
	return events
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
