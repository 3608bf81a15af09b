package report

import "github.com/aquaclean/aquaclean-backend-go/internal/domain/payroll"

// File is a generated spreadsheet ready to be streamed to the client.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PeriodRequest defaults to the current month like salary listings do.
type PeriodRequest = payroll.Period
