package profile

import "github.com/geocoder89/userhub/internal/search"

const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
)

// SearchFields lists the searchOptimized fields that can be queried.
var SearchFields = []string{FieldFirstName, FieldLastName}

func IsSearchField(field string) bool {
	return field == FieldFirstName || field == FieldLastName
}

type SearchOptimized struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Profile is the document stored at profiles/{username}.
type Profile struct {
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	Image           string          `json:"image"`
	About           string          `json:"about"`
	Phone           string          `json:"phone"`
	BirthDate       string          `json:"birthDate"`
	SearchOptimized SearchOptimized `json:"searchOptimized"`
}

// SetProfileRequest is the body of POST /profile. Absent fields become "".
type SetProfileRequest struct {
	Token     string `json:"token" binding:"nonul"`
	FirstName string `json:"firstName" binding:"nonul"`
	LastName  string `json:"lastName" binding:"nonul"`
	Email     string `json:"email" binding:"nonul"`
	Image     string `json:"image" binding:"nonul"`
	About     string `json:"about" binding:"nonul"`
	Phone     string `json:"phone" binding:"nonul"`
	BirthDate string `json:"birthDate" binding:"nonul"`
}

// FromRequest builds the full replacement document, deriving the search keys.
func FromRequest(req SetProfileRequest) Profile {
	p := Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Image:     req.Image,
		About:     req.About,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	}

	return p.Reindexed()
}

// Reindexed returns a copy whose searchOptimized fields match the display names.
func (p Profile) Reindexed() Profile {
	p.SearchOptimized = SearchOptimized{
		FirstName: search.Normalize(p.FirstName),
		LastName:  search.Normalize(p.LastName),
	}
	return p
}

// SearchKey returns the normalized value for one of SearchFields.
func (p Profile) SearchKey(field string) string {
	switch field {
	case FieldFirstName:
		return p.SearchOptimized.FirstName
	case FieldLastName:
		return p.SearchOptimized.LastName
	default:
		return ""
	}
}
