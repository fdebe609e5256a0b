package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginBatchWireShape(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(BatchResponse{
			Status: "success",
			Results: []Result{
				{ID: "u1", Status: StatusSuccess, Message: "login ok"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.LoginBatch(context.Background(), []Credential{{ID: "u1", Password: "pw"}})
	require.NoError(t, err)

	assert.Equal(t, "/api/login_batch", gotPath)
	users := gotBody["users"].([]interface{})
	first := users[0].(map[string]interface{})
	assert.Equal(t, "u1", first["id"])
	assert.Equal(t, "pw", first["password"])

	require.Len(t, resp.Results, 1)
	assert.Equal(t, StatusSuccess, resp.Results[0].Status)
}

func TestCheckinBatchCarriesPayload(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/checkin_batch", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(BatchResponse{Results: []Result{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.CheckinBatch(context.Background(), "ATTENDANCE|major=42", []Credential{{ID: "u1", Password: "pw"}})
	require.NoError(t, err)

	assert.Equal(t, "ATTENDANCE|major=42", gotBody["qr_data"])
}

func TestBatchNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.LoginBatch(context.Background(), []Credential{{ID: "u1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestBatchConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.LoginBatch(context.Background(), []Credential{{ID: "u1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestSetBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(BatchResponse{Results: []Result{}})
	}))
	defer srv.Close()

	c := NewClient("http://127.0.0.1:1")
	c.SetBaseURL(srv.URL)
	_, err := c.LoginBatch(context.Background(), []Credential{{ID: "u1"}})
	assert.NoError(t, err)
}

const historyFixture = `<!DOCTYPE html>
<html><body>
<table id="GridViewRec">
<tr><th>Course</th><th>Section</th><th>Time</th></tr>
<tr><td>Data Structures</td><td>3</td><td>2026/03/10 09:10:00</td></tr>
</table>
<table id="MonthlyRecordRec">
<tr><th>Course</th><th>Section</th><th>Time</th></tr>
<tr><td>Operating Systems</td><td>5</td><td>2026/03/02 13:10:00</td></tr>
<tr><td>Algorithms</td><td>2</td><td>2026/03/05 10:10:00</td></tr>
</table>
</body></html>`

func TestParseHistoryHTML(t *testing.T) {
	records, err := ParseHistoryHTML(strings.NewReader(historyFixture))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Data Structures", records[0].CourseName)
	assert.Equal(t, "3", records[0].Section)
	assert.True(t, records[0].IsToday)

	assert.Equal(t, "Operating Systems", records[1].CourseName)
	assert.False(t, records[1].IsToday)
}

func TestParseHistorySkipsPlaceholderRow(t *testing.T) {
	page := `<table id="GridViewRec">
<tr><th>Course</th><th>Section</th><th>Time</th></tr>
<tr><td colspan="3">no records today</td></tr>
</table>`

	records, err := ParseHistoryHTML(strings.NewReader(page))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseHistoryNoTables(t *testing.T) {
	records, err := ParseHistoryHTML(strings.NewReader("<html><body>login page</body></html>"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryBestEffort(t *testing.T) {
	// Endpoint missing entirely: nil records, no error surfaced.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	assert.Nil(t, c.History(context.Background(), Credential{ID: "u1", Password: "pw"}, ""))
}

func TestHistoryFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/history", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["id"])
		assert.Equal(t, DefaultHistoryTarget, body["targetUrl"])
		_, _ = w.Write([]byte(historyFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	records := c.History(context.Background(), Credential{ID: "u1", Password: "pw"}, "")
	assert.Len(t, records, 3)
}
