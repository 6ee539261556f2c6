package ingestion

import "github.com/hrsuite/bulkupload/internal/domain"

// requiredFields is the fixed check order for row validation. Title is
// deliberately absent; the list tolerates an empty Title column.
var requiredFields = []string{
	"FirstName",
	"LastName",
	"WorkEmail",
	"PersonalEmail",
	"BirthDate",
	"HireDate",
	"WorkMode",
	"Salary",
	"IsMarried",
	"JobTitle",
	"About",
	"SocialProfile",
}

// MissingFields returns the required columns a row fails to carry, in the
// fixed check order. An empty result means the row is valid.
//
// Presence is a truthiness test, so a zero Salary or a boolean false
// IsMarried registers as missing. That matches the behavior existing
// workbooks were authored against and is kept on purpose.
func MissingFields(row domain.Row) []string {
	var missing []string
	for _, field := range requiredFields {
		if !row.Truthy(field) {
			missing = append(missing, field)
		}
	}
	return missing
}
