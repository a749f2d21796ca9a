package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/services"
)

func (handler *Handler) ExportTokens(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	format := strings.ToLower(strings.TrimSpace(c.Query("format", "csv")))
	if format != "csv" && format != "json" {
		return apiError(c, fiber.StatusBadRequest, "format must be csv or json")
	}
	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return respondServiceError(c, err, "")
	}

	handler.ensureDependencies()
	entries, summary, err := handler.exportService.BuildLedger(user.ID, from, to)
	if err != nil {
		return respondServiceError(c, err, "")
	}

	now := handler.now().In(handler.location)
	if format == "json" {
		return handler.sendLedgerJSON(c, entries, summary, now)
	}
	return handler.sendLedgerCSV(c, entries, now)
}

func (handler *Handler) sendLedgerCSV(c *fiber.Ctx, entries []services.LedgerExportEntry, now time.Time) error {
	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.LedgerExportHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, entry := range entries {
		if err := writer.Write([]string{
			entry.Date,
			entry.Source,
			strconv.FormatInt(entry.Amount, 10),
			strconv.FormatInt(entry.Balance, 10),
			entry.Description,
			entry.Reference,
		}); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) sendLedgerJSON(c *fiber.Ctx, entries []services.LedgerExportEntry, summary services.ExportSummary, now time.Time) error {
	serialized, err := json.MarshalIndent(fiber.Map{
		"exportedAt": now.Format(time.RFC3339),
		"summary":    summary,
		"entries":    entries,
	}, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("flowy-ledger-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
