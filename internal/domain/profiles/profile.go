package profiles

import (
	"strings"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/contact"
	"booking-app/internal/infra/docstore"

	"github.com/spf13/cast"
)

// Collection holds the companion profiles shown on the site.
const Collection = "girlsProfiles"

// ImageFolder is the CDN folder profile photos are uploaded into.
const ImageFolder = "girls-profiles"

// MinAge is the youngest age a profile may list.
const MinAge = 18

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

// Document keys of a profile.
const (
	FieldName        = "name"
	FieldAge         = "age"
	FieldLocation    = "location"
	FieldRate        = "rate"
	FieldPhone       = "phone"
	FieldStatus      = "status"
	FieldDescription = "description"
	FieldImageURL    = "imageUrl"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Location    string    `json:"location"`
	Rate        string    `json:"rate"`
	Phone       string    `json:"phone"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input is the editable part of a profile.
type Input struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Location    string `json:"location"`
	Rate        string `json:"rate"`
	Phone       string `json:"phone"`
	Status      Status `json:"status"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Rate = strings.TrimSpace(in.Rate)
	in.Phone = contact.CleanPhone(in.Phone)
	in.Status = Status(strings.ToLower(strings.TrimSpace(string(in.Status))))
	if in.Status == "" {
		in.Status = StatusAvailable
	}
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

func (in Input) Validate() error {
	switch {
	case in.Name == "":
		return apperr.Validation(FieldName, "Name is required")
	case in.Age < MinAge:
		return apperr.Validation(FieldAge, "Age must be at least 18")
	case in.Location == "":
		return apperr.Validation(FieldLocation, "Location is required")
	case in.Rate == "":
		return apperr.Validation(FieldRate, "Rate is required")
	case in.Phone == "":
		return apperr.Validation(FieldPhone, "Phone number is required")
	case !contact.ValidPhone(in.Phone):
		return apperr.Validation(FieldPhone, "Phone number must have at least 10 digits")
	case !in.Status.Valid():
		return apperr.Validation(FieldStatus, "Status must be available or unavailable")
	case in.ImageURL != "" && !contact.ValidURL(in.ImageURL):
		return apperr.Validation(FieldImageURL, "Image URL must be an http or https link")
	}
	return nil
}

func (in Input) Data() map[string]any {
	return map[string]any{
		FieldName:        in.Name,
		FieldAge:         in.Age,
		FieldLocation:    in.Location,
		FieldRate:        in.Rate,
		FieldPhone:       in.Phone,
		FieldStatus:      string(in.Status),
		FieldDescription: in.Description,
		FieldImageURL:    in.ImageURL,
	}
}

func FromDocument(doc docstore.Document) Profile {
	return Profile{
		ID:          doc.ID,
		Name:        cast.ToString(doc.Data[FieldName]),
		Age:         cast.ToInt(doc.Data[FieldAge]),
		Location:    cast.ToString(doc.Data[FieldLocation]),
		Rate:        cast.ToString(doc.Data[FieldRate]),
		Phone:       cast.ToString(doc.Data[FieldPhone]),
		Status:      Status(cast.ToString(doc.Data[FieldStatus])),
		Description: cast.ToString(doc.Data[FieldDescription]),
		ImageURL:    cast.ToString(doc.Data[FieldImageURL]),
		CreatedAt:   docstore.ParseTimestamp(doc.Data[FieldCreatedAt]),
		UpdatedAt:   docstore.ParseTimestamp(doc.Data[FieldUpdatedAt]),
	}
}

func Find(list []Profile, id string) (Profile, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// Search matches the name or location ignoring case.
func Search(list []Profile, query string) []Profile {
	out := make([]Profile, 0, len(list))
	if strings.TrimSpace(query) == "" {
		return append(out, list...)
	}
	q := strings.ToLower(query)
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Location), q) {
			out = append(out, p)
		}
	}
	return out
}

// Available keeps the profiles open for booking.
func Available(list []Profile) []Profile {
	out := make([]Profile, 0, len(list))
	for _, p := range list {
		if p.Status == StatusAvailable {
			out = append(out, p)
		}
	}
	return out
}
