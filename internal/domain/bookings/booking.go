package bookings

import (
	"strings"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/contact"
	"booking-app/internal/infra/docstore"

	"github.com/spf13/cast"
)

// Collection holds customer booking requests.
const Collection = "bookings"

// DateTimeLayout is the format of the requested slot, in local time.
const DateTimeLayout = "2006-01-02 15:04"

// DefaultCompanion is used when the form leaves the companion blank.
const DefaultCompanion = "Alone"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Document keys of a booking.
const (
	FieldFullName        = "fullName"
	FieldLocation        = "location"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldWhatsApp        = "whatsapp"
	FieldCompanion       = "companion"
	FieldDateTime        = "dateTime"
	FieldHoursBooked     = "hoursBooked"
	FieldCabRequired     = "cabRequired"
	FieldHotelRequired   = "hotelRequired"
	FieldPickupAddress   = "pickupAddress"
	FieldAgeConfirmation = "ageConfirmation"
	FieldStatus          = "status"
	FieldCreatedAt       = "createdAt"
	FieldUpdatedAt       = "updatedAt"
)

type Booking struct {
	ID              string     `json:"id"`
	FullName        string     `json:"fullName"`
	Location        string     `json:"location"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	WhatsApp        string     `json:"whatsapp,omitempty"`
	Companion       string     `json:"companion"`
	DateTime        string     `json:"dateTime"`
	HoursBooked     int        `json:"hoursBooked,omitempty"`
	CabRequired     bool       `json:"cabRequired"`
	HotelRequired   bool       `json:"hotelRequired"`
	PickupAddress   string     `json:"pickupAddress,omitempty"`
	AgeConfirmation bool       `json:"ageConfirmation"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Input is what the booking form submits.
type Input struct {
	FullName        string `json:"fullName"`
	Location        string `json:"location"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	WhatsApp        string `json:"whatsapp"`
	Companion       string `json:"companion"`
	DateTime        string `json:"dateTime"`
	HoursBooked     int    `json:"hoursBooked"`
	CabRequired     bool   `json:"cabRequired"`
	HotelRequired   bool   `json:"hotelRequired"`
	PickupAddress   string `json:"pickupAddress"`
	AgeConfirmation bool   `json:"ageConfirmation"`
}

func (in Input) Normalize() Input {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Location = strings.TrimSpace(in.Location)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.WhatsApp = strings.TrimSpace(in.WhatsApp)
	in.Companion = strings.TrimSpace(in.Companion)
	if in.Companion == "" {
		in.Companion = DefaultCompanion
	}
	in.DateTime = strings.TrimSpace(in.DateTime)
	in.PickupAddress = strings.TrimSpace(in.PickupAddress)
	return in
}

// Validate checks a normalized input. The slot must not be in the past
// relative to now.
func (in Input) Validate(now time.Time) error {
	switch {
	case in.FullName == "":
		return apperr.Validation(FieldFullName, "Full name is required")
	case in.Location == "":
		return apperr.Validation(FieldLocation, "Location is required")
	case in.Email == "":
		return apperr.Validation(FieldEmail, "Email is required")
	case !contact.ValidEmail(in.Email):
		return apperr.Validation(FieldEmail, "Please enter a valid email address")
	case in.Phone == "":
		return apperr.Validation(FieldPhone, "Phone number is required")
	case !contact.ValidPhone(in.Phone):
		return apperr.Validation(FieldPhone, "Please enter a valid 10+ digit phone number")
	case in.WhatsApp != "" && !contact.ValidPhone(in.WhatsApp):
		return apperr.Validation(FieldWhatsApp, "Please enter a valid 10+ digit WhatsApp number")
	case in.DateTime == "":
		return apperr.Validation(FieldDateTime, "Date and time is required")
	case in.HoursBooked < 0:
		return apperr.Validation(FieldHoursBooked, "Hours booked must be at least 1")
	}
	at, err := time.ParseInLocation(DateTimeLayout, in.DateTime, now.Location())
	if err != nil {
		return apperr.Validation(FieldDateTime, "Date and time must look like YYYY-MM-DD HH:mm")
	}
	if at.Before(now.Truncate(time.Minute)) {
		return apperr.Validation(FieldDateTime, "Date and time must be in the future")
	}
	return nil
}

// Data is the stored form of a new booking.
func (in Input) Data() map[string]any {
	data := map[string]any{
		FieldFullName:        in.FullName,
		FieldLocation:        in.Location,
		FieldEmail:           in.Email,
		FieldPhone:           in.Phone,
		FieldCompanion:       in.Companion,
		FieldDateTime:        in.DateTime,
		FieldCabRequired:     in.CabRequired,
		FieldHotelRequired:   in.HotelRequired,
		FieldAgeConfirmation: in.AgeConfirmation,
		FieldStatus:          string(StatusPending),
	}
	if in.WhatsApp != "" {
		data[FieldWhatsApp] = in.WhatsApp
	}
	if in.HoursBooked > 0 {
		data[FieldHoursBooked] = in.HoursBooked
	}
	if in.PickupAddress != "" {
		data[FieldPickupAddress] = in.PickupAddress
	}
	return data
}

func FromDocument(doc docstore.Document) Booking {
	b := Booking{
		ID:              doc.ID,
		FullName:        cast.ToString(doc.Data[FieldFullName]),
		Location:        cast.ToString(doc.Data[FieldLocation]),
		Email:           cast.ToString(doc.Data[FieldEmail]),
		Phone:           cast.ToString(doc.Data[FieldPhone]),
		WhatsApp:        cast.ToString(doc.Data[FieldWhatsApp]),
		Companion:       cast.ToString(doc.Data[FieldCompanion]),
		DateTime:        cast.ToString(doc.Data[FieldDateTime]),
		HoursBooked:     cast.ToInt(doc.Data[FieldHoursBooked]),
		CabRequired:     cast.ToBool(doc.Data[FieldCabRequired]),
		HotelRequired:   cast.ToBool(doc.Data[FieldHotelRequired]),
		PickupAddress:   cast.ToString(doc.Data[FieldPickupAddress]),
		AgeConfirmation: cast.ToBool(doc.Data[FieldAgeConfirmation]),
		Status:          Status(cast.ToString(doc.Data[FieldStatus])),
		CreatedAt:       docstore.ParseTimestamp(doc.Data[FieldCreatedAt]),
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	if v, ok := doc.Data[FieldUpdatedAt]; ok {
		t := docstore.ParseTimestamp(v)
		b.UpdatedAt = &t
	}
	return b
}

// Find returns the booking with the given id.
func Find(list []Booking, id string) (Booking, bool) {
	for _, b := range list {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// Search matches the name or email ignoring case, or the phone number as
// typed. A blank query matches everything.
func Search(list []Booking, query string) []Booking {
	out := make([]Booking, 0, len(list))
	if strings.TrimSpace(query) == "" {
		return append(out, list...)
	}
	q := strings.ToLower(query)
	for _, b := range list {
		if strings.Contains(strings.ToLower(b.FullName), q) ||
			strings.Contains(strings.ToLower(b.Email), q) ||
			strings.Contains(b.Phone, query) {
			out = append(out, b)
		}
	}
	return out
}

// Filter keeps the bookings in status. An empty status keeps all.
func Filter(list []Booking, status Status) []Booking {
	if status == "" {
		return list
	}
	out := make([]Booking, 0, len(list))
	for _, b := range list {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

func Count(list []Booking) Stats {
	s := Stats{Total: len(list)}
	for _, b := range list {
		switch b.Status {
		case StatusCompleted:
			s.Completed++
		default:
			s.Pending++
		}
	}
	return s
}
