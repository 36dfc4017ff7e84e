package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

const qrSize = 256

// ReportService renders the shareable health report. The QR code carries the
// PDF download URL so a scanned phone lands straight on the document.
type ReportService struct {
	metrics       *MetricsService
	profileRepo   profileReader
	publicBaseURL string
}

func NewReportService(metrics *MetricsService, profileRepo profileReader, publicBaseURL string) *ReportService {
	return &ReportService{
		metrics:       metrics,
		profileRepo:   profileRepo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *ReportService) PDFURL(userID int64) string {
	return fmt.Sprintf("%s/api/report/pdf/%d", s.publicBaseURL, userID)
}

func (s *ReportService) QRCode(userID int64) ([]byte, error) {
	return qrcode.Encode(s.PDFURL(userID), qrcode.Medium, qrSize)
}

// PDF builds the weekly health report document.
func (s *ReportService) PDF(ctx context.Context, userID int64, today time.Time) ([]byte, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.metrics.Dashboard(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("CatchUp Health Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "CatchUp Health Report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	if name := profile.FullName(); name != "" {
		pdf.Cell(0, 7, "Name: "+name)
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, "Generated: "+today.UTC().Format("January 2, 2006"))
	pdf.Ln(12)

	medical := medicalLines(profile)
	if len(medical) > 0 {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 9, "Medical ID")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range medical {
			pdf.Cell(0, 7, line)
			pdf.Ln(7)
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 9, "Today")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Calories: %d / %d kcal", snapshot.CaloriesToday, snapshot.CalorieGoal))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Steps: %d", snapshot.StepsToday))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Distance: %.1f km", snapshot.DistanceTodayKM))
	pdf.Ln(7)
	if snapshot.LatestBPM != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Latest heart rate: %d bpm", *snapshot.LatestBPM))
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Daily goals completed: %d of %d", snapshot.GoalsCompleted, snapshot.GoalsTotal))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 9, "This Week")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 7, "Day", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Steps", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Calories", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Distance (km)", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, b := range snapshot.Week {
		pdf.CellFormat(30, 7, b.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", b.Steps), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", b.Calories), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.1f", b.DistanceKM), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// medicalLines renders the populated medical ID fields; empty fields are
// omitted rather than printed blank.
func medicalLines(p *models.Profile) []string {
	var lines []string
	if p.BloodType != nil && *p.BloodType != "" {
		lines = append(lines, "Blood type: "+*p.BloodType)
	}
	if p.Conditions != nil && len(*p.Conditions) > 0 {
		lines = append(lines, "Conditions: "+strings.Join(*p.Conditions, ", "))
	}
	if p.Medications != nil && *p.Medications != "" {
		lines = append(lines, "Medications: "+*p.Medications)
	}
	if p.Allergies != nil && *p.Allergies != "" {
		lines = append(lines, "Allergies: "+*p.Allergies)
	}
	if p.EmergencyName != nil && *p.EmergencyName != "" {
		contact := *p.EmergencyName
		if p.EmergencyPhone != nil && *p.EmergencyPhone != "" {
			contact += " (" + *p.EmergencyPhone + ")"
		}
		lines = append(lines, "Emergency contact: "+contact)
	}
	return lines
}
