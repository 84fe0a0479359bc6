package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/export"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/middleware/requestid"
)

// Client import columns, matched by header text.
const (
	ColumnClientName = "Client Name"
	ColumnSector     = "Sector"
	ColumnMonthlyFee = "Monthly Fee"
	ColumnContact    = "Contact"
	ColumnPhone      = "Phone"
	ColumnEmail      = "Email"
	ColumnNotes      = "Notes"
)

// ImportService loads clients from spreadsheets.
type ImportService struct {
	tx        transactor
	clients   clientInserter
	codes     *CodeGenerator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(tx transactor, clients clientInserter, codes *CodeGenerator, metrics *MetricsService, logger *zap.Logger) *ImportService {
	validate, logger := defaults(nil, logger)
	return &ImportService{tx: tx, clients: clients, codes: codes, metrics: metrics, validator: validate, logger: logger}
}

// ImportClients reads client rows from the first sheet of an .xlsx workbook and inserts them in
// one transaction. Rows without a name are skipped. Any bad row rejects the whole file.
func (s *ImportService) ImportClients(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	rows, err := export.ReadFirstSheet(r)
	if err != nil {
		return nil, validationError(err, "invalid spreadsheet")
	}
	clients, skipped, err := parseClientRows(rows, s.validator)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Skipped: skipped, Codes: make([]string, 0, len(clients))}
	err = s.tx.WithinTx(ctx, func(tx sqlx.ExtContext) error {
		for _, client := range clients {
			if err := insertClient(ctx, tx, s.codes, s.clients, client); err != nil {
				return err
			}
			result.Codes = append(result.Codes, client.Code)
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to import clients")
	}
	result.Imported = len(clients)
	s.metrics.RecordImportedRows("clients", result.Imported)
	s.logger.Sugar().Infow("clients imported", "imported", result.Imported, "skipped", result.Skipped, "request_id", requestid.FromContext(ctx))
	return result, nil
}

func parseClientRows(rows [][]string, validate *validator.Validate) ([]*models.Client, int, error) {
	if len(rows) == 0 {
		return nil, 0, appErrors.Validation("file", "spreadsheet is empty")
	}
	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := columns[strings.ToLower(ColumnClientName)]; !ok {
		return nil, 0, appErrors.Validation("file", fmt.Sprintf("missing %q column", ColumnClientName))
	}
	cell := func(row []string, column string) string {
		idx, ok := columns[strings.ToLower(column)]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var clients []*models.Client
	skipped := 0
	for i, row := range rows[1:] {
		name := cell(row, ColumnClientName)
		if name == "" {
			skipped++
			continue
		}
		fee := 0.0
		if raw := cell(row, ColumnMonthlyFee); raw != "" {
			parsed, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if err != nil || parsed < 0 {
				return nil, 0, appErrors.Validation(ColumnMonthlyFee, fmt.Sprintf("row %d: %q is not a valid amount", i+2, raw))
			}
			fee = parsed
		}
		req := dto.ClientRequest{
			Name:          name,
			Sector:        cell(row, ColumnSector),
			MonthlyFee:    fee,
			ContactPerson: cell(row, ColumnContact),
			Phone:         cell(row, ColumnPhone),
			Email:         cell(row, ColumnEmail),
			Notes:         cell(row, ColumnNotes),
		}
		if err := validate.Struct(req); err != nil {
			return nil, 0, validationError(err, fmt.Sprintf("row %d: invalid client", i+2))
		}
		clients = append(clients, &models.Client{
			Name:          req.Name,
			Sector:        req.Sector,
			MonthlyFee:    req.MonthlyFee,
			ContactPerson: req.ContactPerson,
			Phone:         req.Phone,
			Email:         req.Email,
			Notes:         req.Notes,
		})
	}
	return clients, skipped, nil
}
