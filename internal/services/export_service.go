package services

import (
	"time"
)

const exportDateLayout = "2006-01-02"

var LedgerExportHeaders = []string{
	"Date",
	"Source",
	"Amount",
	"Balance",
	"Description",
	"Reference",
}

type LedgerExportEntry struct {
	Date        string `json:"date"`
	Source      string `json:"source"`
	Amount      int64  `json:"amount"`
	Balance     int64  `json:"balance"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

type ExportSummary struct {
	TotalEntries int    `json:"totalEntries"`
	HasData      bool   `json:"hasData"`
	DateFrom     string `json:"dateFrom,omitempty"`
	DateTo       string `json:"dateTo,omitempty"`
	Earned       int64  `json:"earned"`
	Spent        int64  `json:"spent"`
}

type ExportService struct {
	runner   accrualRunner
	location *time.Location
}

func NewExportService(store Store, location *time.Location) *ExportService {
	if location == nil {
		location = time.UTC
	}
	return &ExportService{runner: newAccrualRunner(store, nil), location: location}
}

// BuildLedger returns the ledger oldest first with the running balance after
// each entry. from and to are inclusive calendar days; nil means open ended.
// The running balance starts from entries before from.
func (service *ExportService) BuildLedger(userID string, from *time.Time, to *time.Time) ([]LedgerExportEntry, ExportSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, ExportSummary{}, validationError("to", "range end is before range start")
	}

	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start, _ := DayRange(*from, service.location)
		fromStart = &start
	}
	if to != nil {
		_, end := DayRange(*to, service.location)
		toEnd = &end
	}

	var entries []LedgerExportEntry
	summary := ExportSummary{}
	err := service.runner.read("export ledger", func(repos StoreRepositories) error {
		var opening int64
		if fromStart != nil {
			earlier, err := repos.Ledger.ListByUserRange(userID, nil, fromStart)
			if err != nil {
				return err
			}
			for _, entry := range earlier {
				opening += entry.Amount
			}
		}

		rows, err := repos.Ledger.ListByUserRange(userID, fromStart, toEnd)
		if err != nil {
			return err
		}

		balance := opening
		entries = make([]LedgerExportEntry, 0, len(rows))
		for _, row := range rows {
			balance += row.Amount
			if row.Amount >= 0 {
				summary.Earned += row.Amount
			} else {
				summary.Spent += -row.Amount
			}
			entries = append(entries, LedgerExportEntry{
				Date:        DateAtLocation(row.CreatedAt, service.location).Format(exportDateLayout),
				Source:      row.Source,
				Amount:      row.Amount,
				Balance:     balance,
				Description: row.Description,
				Reference:   row.SourceID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, ExportSummary{}, err
	}

	if len(entries) > 0 {
		summary.TotalEntries = len(entries)
		summary.HasData = true
		summary.DateFrom = entries[0].Date
		summary.DateTo = entries[len(entries)-1].Date
	}
	return entries, summary, nil
}
