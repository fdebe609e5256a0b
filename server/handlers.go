package server

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/onescan/internal/logger"
	"github.com/labstack/echo/v4"
)

type wireUser struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type wireResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type batchResponse struct {
	Status  string       `json:"status"`
	Results []wireResult `json:"results"`
}

type loginRequest struct {
	Users []wireUser `json:"users"`
}

type checkinRequest struct {
	QRData string     `json:"qr_data"`
	Users  []wireUser `json:"users"`
}

type historyRequest struct {
	ID        string `json:"id"`
	Password  string `json:"password"`
	TargetURL string `json:"targetUrl"`
}

func (s *Server) handleLoginBatch(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	results := make([]wireResult, 0, len(req.Users))
	for _, u := range req.Users {
		if err := s.verifier.Verify(c.Request().Context(), u.ID, u.Password); err != nil {
			results = append(results, wireResult{ID: u.ID, Status: "FAILED", Message: "login failed"})
			continue
		}
		s.cacheSession(u.ID)
		results = append(results, wireResult{ID: u.ID, Status: "SUCCESS", Message: "login ok"})
	}

	return c.JSON(http.StatusOK, batchResponse{Status: "success", Results: results})
}

func (s *Server) handleCheckinBatch(c echo.Context) error {
	var req checkinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if strings.TrimSpace(req.QRData) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "qr_data is required"})
	}

	ctx := c.Request().Context()
	results := make([]wireResult, 0, len(req.Users))
	for _, u := range req.Users {
		if err := s.verifier.Verify(ctx, u.ID, u.Password); err != nil {
			results = append(results, wireResult{ID: u.ID, Status: "FAILED", Message: "check-in login failed"})
			continue
		}
		s.cacheSession(u.ID)

		rec := Record{
			UserID:  u.ID,
			Course:  courseFromPayload(req.QRData),
			Section: "QR",
			At:      time.Now(),
		}
		if err := s.records.Append(ctx, rec); err != nil {
			logger.Error("failed to record check-in", logger.F("user", u.ID), logger.F("error", err))
			results = append(results, wireResult{ID: u.ID, Status: "FAILED", Message: "check-in not recorded"})
			continue
		}
		results = append(results, wireResult{ID: u.ID, Status: "SUCCESS", Message: "check-in ok"})
	}

	return c.JSON(http.StatusOK, batchResponse{Status: "success", Results: results})
}

// courseFromPayload derives a displayable course label from the scanned
// payload: beacon-style payloads carry major/minor query params, opaque
// payloads are truncated.
func courseFromPayload(payload string) string {
	if i := strings.Index(payload, "major="); i >= 0 {
		rest := payload[i+len("major="):]
		if j := strings.IndexByte(rest, '&'); j >= 0 {
			rest = rest[:j]
		}
		return "Class " + rest
	}
	if len(payload) > 24 {
		return payload[:24]
	}
	return payload
}

// historyPage renders the record page the client scrapes: a GridViewRec
// table with today's rows and a MonthlyRecordRec table with the rest. The
// placeholder row for an empty day spans all three columns, matching the
// upstream page.
var historyPage = template.Must(template.New("history").Parse(`<!DOCTYPE html>
<html>
<body>
<table id="GridViewRec">
<tr><th>Course</th><th>Section</th><th>Time</th></tr>
{{if .Today}}{{range .Today}}<tr><td>{{.Course}}</td><td>{{.Section}}</td><td>{{.Time}}</td></tr>
{{end}}{{else}}<tr><td colspan="3">no records today</td></tr>
{{end}}</table>
<table id="MonthlyRecordRec">
<tr><th>Course</th><th>Section</th><th>Time</th></tr>
{{range .Monthly}}<tr><td>{{.Course}}</td><td>{{.Section}}</td><td>{{.Time}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type historyRow struct {
	Course  string
	Section string
	Time    string
}

func (s *Server) handleHistory(c echo.Context) error {
	var req historyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	ctx := c.Request().Context()

	// A live session skips re-verification, same as the upstream relay.
	if !s.hasSession(req.ID) {
		if err := s.verifier.Verify(ctx, req.ID, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login failed"})
		}
		s.cacheSession(req.ID)
	}

	records, err := s.records.ForUser(ctx, req.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	today := time.Now().Truncate(24 * time.Hour)
	var data struct {
		Today   []historyRow
		Monthly []historyRow
	}
	for _, r := range records {
		row := historyRow{
			Course:  r.Course,
			Section: r.Section,
			Time:    r.At.Format("2006/01/02 15:04:05"),
		}
		if r.At.After(today) {
			data.Today = append(data.Today, row)
		} else {
			data.Monthly = append(data.Monthly, row)
		}
	}

	var sb strings.Builder
	if err := historyPage.Execute(&sb, data); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.HTML(http.StatusOK, sb.String())
}
