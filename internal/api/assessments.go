package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Questionnaire is the ordered list of assessment categories
type Questionnaire struct {
	Categories []domain.Category `json:"categories"`
}

// Evidence is a stored evidence file
type Evidence struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// ListAssessments lists the user's assessments, newest first
func (c *Client) ListAssessments(ctx context.Context, token string) ([]domain.Assessment, error) {
	var list []domain.Assessment
	err := c.do(ctx, call{
		op:       "list assessments",
		method:   http.MethodGet,
		path:     "/assessments",
		token:    token,
		fallback: "Failed to load assessments",
	}, &list)
	return list, err
}

// GetQuestionnaire fetches the category and question catalog
func (c *Client) GetQuestionnaire(ctx context.Context, token string) (Questionnaire, error) {
	var q Questionnaire
	err := c.do(ctx, call{
		op:       "get questionnaire",
		method:   http.MethodGet,
		path:     "/assessments/questionnaire",
		token:    token,
		fallback: "Failed to load questionnaire",
	}, &q)
	return q, err
}

// SubmitAnswers stores the answers of the current assessment
func (c *Client) SubmitAnswers(ctx context.Context, token string, answers []domain.Answer) (domain.SubmissionResult, error) {
	var res domain.SubmissionResult
	err := c.do(ctx, call{
		op:       "submit answers",
		method:   http.MethodPost,
		path:     "/assessments/answers",
		token:    token,
		body:     domain.AnswerSubmission{Answers: answers},
		fallback: "Failed to submit answers",
	}, &res)
	return res, err
}

// UploadEvidence uploads a file attached to a category step
func (c *Client) UploadEvidence(ctx context.Context, token, category string, file domain.Attachment) (Evidence, error) {
	var ev Evidence

	body, contentType, err := evidenceForm(category, file)
	if err != nil {
		return ev, &domain.APIError{Op: "upload evidence", Message: "Could not read attachment", Err: err}
	}

	err = c.do(ctx, call{
		op:          "upload evidence",
		method:      http.MethodPost,
		path:        "/assessments/evidence",
		token:       token,
		rawBody:     body,
		contentType: contentType,
		fallback:    "Failed to upload attachment",
	}, &ev)
	return ev, err
}

// RecomputeScores asks the backend to rescore an assessment
func (c *Client) RecomputeScores(ctx context.Context, token, assessmentID string) (domain.AssessmentReport, error) {
	var report domain.AssessmentReport
	err := c.do(ctx, call{
		op:       "recompute scores",
		method:   http.MethodPost,
		path:     "/assessments/" + url.PathEscape(assessmentID) + "/recompute",
		token:    token,
		fallback: "Failed to compute scores",
	}, &report)
	return report, err
}

// ResetAnswers discards the in-progress answers on the server
func (c *Client) ResetAnswers(ctx context.Context, token string) error {
	return c.do(ctx, call{
		op:       "reset answers",
		method:   http.MethodPost,
		path:     "/assessments/reset",
		token:    token,
		fallback: "Failed to reset assessment",
	}, nil)
}

// GetReport fetches the scored report for an assessment
func (c *Client) GetReport(ctx context.Context, token, assessmentID string) (domain.AssessmentReport, error) {
	var report domain.AssessmentReport
	err := c.do(ctx, call{
		op:       "get report",
		method:   http.MethodGet,
		path:     "/assessments/" + url.PathEscape(assessmentID) + "/report",
		token:    token,
		fallback: "Failed to load report",
	}, &report)
	return report, err
}

func evidenceForm(category string, file domain.Attachment) (io.Reader, string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("category", category); err != nil {
		return nil, "", err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
