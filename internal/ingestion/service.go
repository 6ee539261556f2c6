package ingestion

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrsuite/bulkupload/internal/domain"
)

// headerOffset converts a 0-based data row index into the row number a user
// sees in the workbook: +1 for the header row, +1 for 1-based numbering.
const headerOffset = 2

// Result is the outcome of processing one uploaded workbook.
type Result struct {
	BatchID     uuid.UUID                 `json:"batchId"`
	TotalRows   int                       `json:"totalRows"`
	ReadyCount  int                       `json:"readyCount"`
	MissingRows []domain.MissingRowReport `json:"missingRows"`

	// Ready holds the upload-ready records. It is populated only when every
	// row validated: a single rejected row invalidates the whole batch.
	Ready []domain.Employee `json:"-"`
}

// Service runs the parse -> validate -> transform pipeline over an uploaded
// workbook.
type Service struct {
	logger *zap.Logger
}

// NewService creates an ingestion service.
func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Process decodes the payload and partitions its rows into upload-ready
// records and missing-field reports. All rows are validated in one pass, so a
// user gets every diagnostic at once. If any report was produced the ready
// slice stays empty; partial batches never reach the dispatcher.
func (s *Service) Process(payload []byte) (Result, error) {
	result := Result{
		BatchID:     uuid.New(),
		MissingRows: []domain.MissingRowReport{},
	}

	rows, err := ParseWorkbook(payload)
	if err != nil {
		return result, err
	}
	result.TotalRows = len(rows)

	ready := make([]domain.Employee, 0, len(rows))
	for idx, row := range rows {
		missing := MissingFields(row)
		if len(missing) == 0 {
			record, badFields := buildEmployee(row)
			if len(badFields) == 0 {
				ready = append(ready, record)
				continue
			}
			missing = badFields
		}
		result.MissingRows = append(result.MissingRows, domain.MissingRowReport{
			RowNumber:     idx + headerOffset,
			MissingFields: missing,
		})
	}

	if len(result.MissingRows) > 0 {
		s.logger.Warn("workbook rejected",
			zap.String("batchId", result.BatchID.String()),
			zap.Int("totalRows", result.TotalRows),
			zap.Int("rejectedRows", len(result.MissingRows)))
		return result, nil
	}

	result.Ready = ready
	result.ReadyCount = len(ready)
	s.logger.Info("workbook accepted",
		zap.String("batchId", result.BatchID.String()),
		zap.Int("readyCount", result.ReadyCount))
	return result, nil
}

// buildEmployee maps a validated row onto the list item shape. Dates route
// through the normalizer, IsMarried is the literal "Yes" test the list data
// was authored with, and everything else passes through unchanged. Date cells
// that pass the presence check but cannot be normalized are reported by field
// name so the row still fails loudly instead of uploading garbage.
func buildEmployee(row domain.Row) (domain.Employee, []string) {
	var badFields []string

	birthValue, _ := row.Lookup("BirthDate")
	birthDate, err := DateOnlyUTC(birthValue)
	if err != nil {
		badFields = append(badFields, "BirthDate")
	}

	hireValue, _ := row.Lookup("HireDate")
	hireDate, err := DateOnlyUTC(hireValue)
	if err != nil {
		badFields = append(badFields, "HireDate")
	}

	if len(badFields) > 0 {
		return domain.Employee{}, badFields
	}

	return domain.Employee{
		Title:         row.Text("Title"),
		FirstName:     row.Text("FirstName"),
		LastName:      row.Text("LastName"),
		WorkEmail:     row.Text("WorkEmail"),
		PersonalEmail: row.Text("PersonalEmail"),
		BirthDate:     birthDate,
		HireDate:      hireDate,
		WorkMode:      row.Text("WorkMode"),
		Salary:        row.Number("Salary"),
		IsMarried:     row.Text("IsMarried") == "Yes",
		SocialProfile: domain.FieldURL{URL: row.Text("SocialProfile")},
		JobTitle:      row.Text("JobTitle"),
		About:         row.Text("About"),
	}, nil
}
