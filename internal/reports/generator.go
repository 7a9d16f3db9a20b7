package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/mealplans"
)

// Generator renders a month view and its statistics into PDF or CSV bytes.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the report in the requested format.
func (g *Generator) Generate(format string, mealPlanID int64, view mealplans.MonthView, stats mealplans.Statistics) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.generatePDF(mealPlanID, view, stats)
	case FormatCSV:
		return g.generateCSV(view)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// generateCSV writes one row per day of the target month. Lead and trail days
// from neighboring months are skipped.
func (g *Generator) generateCSV(view mealplans.MonthView) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "breakfast", "lunch", "dinner", "snack", "dessert", "total"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, week := range view.Weeks {
		for _, day := range week.Days {
			if !day.IsCurrentMonth {
				continue
			}
			row := []string{
				day.Date,
				strconv.Itoa(day.MealCounts.Breakfast),
				strconv.Itoa(day.MealCounts.Lunch),
				strconv.Itoa(day.MealCounts.Dinner),
				strconv.Itoa(day.MealCounts.Snack),
				strconv.Itoa(day.MealCounts.Dessert),
				strconv.Itoa(day.TotalMeals),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *Generator) generatePDF(mealPlanID int64, view mealplans.MonthView, stats mealplans.Statistics) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	monthName := time.Month(view.Month).String()
	pdf.Cell(0, 10, fmt.Sprintf("Meal Plan %d - %s %d", mealPlanID, monthName, view.Year))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", view.StartDate, view.EndDate))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total recipes: %d", stats.TotalRecipes))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Days with meals: %d", stats.DaysWithMeals))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average recipes per day: %.2f", stats.AverageRecipesPerDay))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Meal types used: %d", stats.TotalMealTypes))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Plan duration: %d days (%s to %s)", stats.Duration, stats.StartDate, stats.EndDate))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Calendar")
	pdf.Ln(8)

	g.drawCalendarTable(pdf, view)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) drawCalendarTable(pdf *gofpdf.Fpdf, view mealplans.MonthView) {
	colWidths := []float64{25, 23, 23, 23, 23, 23, 20}
	headers := []string{"Date", "Breakfast", "Lunch", "Dinner", "Snack", "Dessert", "Total"}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, week := range view.Weeks {
		for _, day := range week.Days {
			if !day.IsCurrentMonth {
				continue
			}
			cells := []string{
				day.Date,
				strconv.Itoa(day.MealCounts.Breakfast),
				strconv.Itoa(day.MealCounts.Lunch),
				strconv.Itoa(day.MealCounts.Dinner),
				strconv.Itoa(day.MealCounts.Snack),
				strconv.Itoa(day.MealCounts.Dessert),
				strconv.Itoa(day.TotalMeals),
			}
			for i, c := range cells {
				align := "C"
				if i == 0 {
					align = "L"
				}
				pdf.CellFormat(colWidths[i], 6, c, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3]+colWidths[4]+colWidths[5], 7,
		"Month total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[6], 7, strconv.Itoa(view.TotalMeals), "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
}
