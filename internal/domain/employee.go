package domain

import "strings"

// FieldURL is the structured hyperlink value the list store expects for
// link-typed columns.
type FieldURL struct {
	URL string `json:"Url"`
}

// Employee is a validated, upload-ready list item. JSON field names match the
// remote list's internal column names exactly; BirthDate and HireDate carry
// canonical UTC-midnight timestamps.
type Employee struct {
	Title         string   `json:"Title"`
	FirstName     string   `json:"FirstName"`
	LastName      string   `json:"LastName"`
	WorkEmail     string   `json:"WorkEmail"`
	PersonalEmail string   `json:"PersonalEmail"`
	BirthDate     string   `json:"BirthDate"`
	HireDate      string   `json:"HireDate"`
	WorkMode      string   `json:"WorkMode"`
	Salary        float64  `json:"Salary"`
	IsMarried     bool     `json:"IsMarried"`
	SocialProfile FieldURL `json:"SocialProfile"`
	JobTitle      string   `json:"JobTitle"`
	About         string   `json:"About"`
}

// FullName joins first and last name for display and search.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// MissingRowReport identifies one rejected spreadsheet row. RowNumber is the
// human-visible row in the workbook: data row index + 2, accounting for the
// header row and 1-based numbering.
type MissingRowReport struct {
	RowNumber     int      `json:"rowNumber"`
	MissingFields []string `json:"missingFields"`
}
