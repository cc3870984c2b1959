package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// GeneratePassCertificate renders the pass certificate for a completed,
// passed attempt and returns it as PDF bytes.
func GeneratePassCertificate(studentName, teacherName, quizTitle string, scorePercent float64, completedAt time.Time) ([]byte, error) {
	html, err := renderCertificateHTML(studentName, teacherName, quizTitle, scorePercent, completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate HTML: %w", err)
	}
	return printToPDF(html)
}

func renderCertificateHTML(studentName, teacherName, quizTitle string, scorePercent float64, completedAt time.Time) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		TeacherName    string
		QuizTitle      string
		ScorePercent   string
		CompletionDate string
	}{
		StudentName:    studentName,
		TeacherName:    teacherName,
		QuizTitle:      quizTitle,
		ScorePercent:   fmt.Sprintf("%.0f%%", scorePercent),
		CompletionDate: completedAt.Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printToPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
