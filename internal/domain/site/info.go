// Package site holds the website information shown on the public pages.
package site

import (
	"strings"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/contact"
	"booking-app/internal/infra/docstore"

	"github.com/spf13/cast"
)

// Collection holds a single website information document.
const Collection = "websiteInformation"

// LogoFolder is the CDN folder logos are uploaded into.
const LogoFolder = "website_logos"

const (
	FieldLogoURL        = "logoUrl"
	FieldContactNumber1 = "contactNumber1"
	FieldContactNumber2 = "contactNumber2"
	FieldUpdatedAt      = "updatedAt"
)

type Info struct {
	LogoURL        string     `json:"logoUrl"`
	ContactNumber1 string     `json:"contactNumber1"`
	ContactNumber2 string     `json:"contactNumber2"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Input changes the fields that are set and leaves the rest as stored.
type Input struct {
	LogoURL        *string `json:"logoUrl"`
	ContactNumber1 *string `json:"contactNumber1"`
	ContactNumber2 *string `json:"contactNumber2"`
}

func trim(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (in Input) Normalize() Input {
	return Input{LogoURL: trim(in.LogoURL), ContactNumber1: trim(in.ContactNumber1), ContactNumber2: trim(in.ContactNumber2)}
}

// Validate allows empty values, which clear the field.
func (in Input) Validate() error {
	if in.LogoURL != nil && *in.LogoURL != "" && !contact.ValidURL(*in.LogoURL) {
		return apperr.Validation(FieldLogoURL, "Logo URL must be an http or https link")
	}
	if in.ContactNumber1 != nil && *in.ContactNumber1 != "" && !contact.ValidPhone(*in.ContactNumber1) {
		return apperr.Validation(FieldContactNumber1, "Please enter a valid 10+ digit phone number")
	}
	if in.ContactNumber2 != nil && *in.ContactNumber2 != "" && !contact.ValidPhone(*in.ContactNumber2) {
		return apperr.Validation(FieldContactNumber2, "Please enter a valid 10+ digit phone number")
	}
	return nil
}

// Apply returns info with the set fields of in replaced.
func (in Input) Apply(info Info) Info {
	if in.LogoURL != nil {
		info.LogoURL = *in.LogoURL
	}
	if in.ContactNumber1 != nil {
		info.ContactNumber1 = *in.ContactNumber1
	}
	if in.ContactNumber2 != nil {
		info.ContactNumber2 = *in.ContactNumber2
	}
	return info
}

func (info Info) Data() map[string]any {
	return map[string]any{
		FieldLogoURL:        info.LogoURL,
		FieldContactNumber1: info.ContactNumber1,
		FieldContactNumber2: info.ContactNumber2,
	}
}

func FromDocument(doc docstore.Document) Info {
	info := Info{
		LogoURL:        cast.ToString(doc.Data[FieldLogoURL]),
		ContactNumber1: cast.ToString(doc.Data[FieldContactNumber1]),
		ContactNumber2: cast.ToString(doc.Data[FieldContactNumber2]),
	}
	if v, ok := doc.Data[FieldUpdatedAt]; ok {
		t := docstore.ParseTimestamp(v)
		info.UpdatedAt = &t
	}
	return info
}
