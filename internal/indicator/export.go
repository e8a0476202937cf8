package indicator

import (
	"fmt"

	"quanan-backend/internal/config"
	"quanan-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/indicators/dashboard/export?fromDate=...&toDate=...
// Streams the report as an xlsx workbook for the back office.
func ExportHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c, cfg)
		if err != nil {
			return err
		}

		report, err := ComputeIndicators(database.DB, cfg.Location, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute indicators")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Summary"
		f.SetSheetName("Sheet1", sheet)
		rows := [][]interface{}{
			{"From", from.Format("2006-01-02")},
			{"To", to.Format("2006-01-02")},
			{"Revenue", report.Revenue},
			{"Guests", report.GuestCount},
			{"Orders", report.OrderCount},
			{"Serving tables", report.ServingTableCount},
		}
		for i, row := range rows {
			cell := fmt.Sprintf("A%d", i+1)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
			}
		}

		daySheet := "Revenue by day"
		if _, err := f.NewSheet(daySheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}
		header := []interface{}{"Date", "Revenue"}
		_ = f.SetSheetRow(daySheet, "A1", &header)
		for i, rbd := range report.RevenueByDate {
			row := []interface{}{rbd.Date, rbd.Revenue}
			_ = f.SetSheetRow(daySheet, fmt.Sprintf("A%d", i+2), &row)
		}

		dishSheet := "Dishes"
		if _, err := f.NewSheet(dishSheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}
		dishHeader := []interface{}{"ID", "Name", "Price", "Status", "Successful orders"}
		_ = f.SetSheetRow(dishSheet, "A1", &dishHeader)
		for i, di := range report.DishIndicator {
			row := []interface{}{di.ID, di.Name, di.Price, string(di.Status), di.SuccessOrders}
			_ = f.SetSheetRow(dishSheet, fmt.Sprintf("A%d", i+2), &row)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write workbook")
		}

		filename := fmt.Sprintf("indicators_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}
