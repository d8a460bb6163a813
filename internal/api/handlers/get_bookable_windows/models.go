package get_bookable_windows

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	getWindows "github.com/m04kA/SMC-ConciergeService/internal/usecase/get_bookable_windows"
)

// WindowsResponse HTTP response model
type WindowsResponse struct {
	ProviderID int64       `json:"providerId"`
	Timezone   string      `json:"timezone"`
	Indicative bool        `json:"indicative"`
	Days       []DayWindow `json:"days"`
}

// DayWindow времена одной даты
type DayWindow struct {
	Date  string      `json:"date"` // "2025-06-02"
	Times []TimeEntry `json:"times"`
}

// TimeEntry одно предлагаемое время
type TimeEntry struct {
	Time       string  `json:"time"`  // "14:00"
	Label      string  `json:"label"` // "2:00 PM"
	StartAt    *string `json:"startAt,omitempty"`
	SlotID     *int64  `json:"slotId,omitempty"`
	ResourceID *int64  `json:"resourceId,omitempty"`
	StaffName  *string `json:"staffName,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getWindows.Response) *WindowsResponse {
	days := make([]DayWindow, 0, len(resp.Days))
	for _, d := range resp.Days {
		times := make([]TimeEntry, 0, len(d.Times))
		for _, c := range d.Times {
			entry := TimeEntry{
				Time:       c.Time.String(),
				Label:      c.Time.Label(),
				SlotID:     c.SlotID,
				ResourceID: c.ResourceID,
				StaffName:  c.StaffName,
			}
			if c.StartAt != nil {
				startAt := c.StartAt.UTC().Format(time.RFC3339)
				entry.StartAt = &startAt
			}
			times = append(times, entry)
		}
		days = append(days, DayWindow{
			Date:  d.Date.Format(domain.DateFormat),
			Times: times,
		})
	}

	return &WindowsResponse{
		ProviderID: resp.ProviderID,
		Timezone:   resp.Timezone,
		Indicative: resp.Indicative,
		Days:       days,
	}
}
