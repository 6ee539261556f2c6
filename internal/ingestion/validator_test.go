package ingestion

import (
	"reflect"
	"testing"
	"time"

	"github.com/hrsuite/bulkupload/internal/domain"
)

func completeRow() domain.Row {
	return domain.Row{
		"Title":         "Mr",
		"FirstName":     "A",
		"LastName":      "B",
		"WorkEmail":     "a@b.com",
		"PersonalEmail": "a2@b.com",
		"BirthDate":     "2020-01-15",
		"HireDate":      "2021-06-01",
		"WorkMode":      "Remote",
		"Salary":        float64(50000),
		"IsMarried":     "Yes",
		"JobTitle":      "Eng",
		"About":         "bio",
		"SocialProfile": "http://x",
	}
}

func TestMissingFieldsCompleteRow(t *testing.T) {
	if missing := MissingFields(completeRow()); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}
}

func TestMissingFieldsTitleNotRequired(t *testing.T) {
	row := completeRow()
	delete(row, "Title")
	if missing := MissingFields(row); len(missing) != 0 {
		t.Fatalf("Title should not be required, got %v", missing)
	}
}

func TestMissingFieldsReportsCheckOrder(t *testing.T) {
	row := completeRow()
	// Delete in reverse of the expected report order.
	delete(row, "About")
	delete(row, "Salary")
	delete(row, "LastName")

	missing := MissingFields(row)
	want := []string{"LastName", "Salary", "About"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
}

func TestMissingFieldsAllAbsent(t *testing.T) {
	missing := MissingFields(domain.Row{})
	if len(missing) != len(requiredFields) {
		t.Fatalf("expected %d missing fields, got %d", len(requiredFields), len(missing))
	}
	if !reflect.DeepEqual(missing, requiredFields) {
		t.Fatalf("expected fixed order %v, got %v", requiredFields, missing)
	}
}

func TestMissingFieldsTruthinessQuirks(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  []string
	}{
		{"zero salary counts as missing", "Salary", float64(0), []string{"Salary"}},
		{"boolean false counts as missing", "IsMarried", false, []string{"IsMarried"}},
		{"empty string counts as missing", "About", "", []string{"About"}},
		{"zero time counts as missing", "BirthDate", time.Time{}, []string{"BirthDate"}},
		{"boolean true is present", "IsMarried", true, nil},
		{"negative salary is present", "Salary", float64(-1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := completeRow()
			row[tt.key] = tt.value
			missing := MissingFields(row)
			if !reflect.DeepEqual(missing, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, missing)
			}
		})
	}
}
