package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/utils/errutil"
)

func TestHandleHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	err := goerr.New("project not found", goerr.V("project_id", 42))

	errutil.HandleHTTP(context.Background(), w, err, http.StatusNotFound)

	gt.Number(t, w.Code).Equal(http.StatusNotFound)
	gt.String(t, w.Header().Get("Content-Type")).Equal("application/json")

	var body map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
	gt.String(t, body["detail"]).Contains("project not found")
}

func TestHandleHTTPNil(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, nil, http.StatusInternalServerError)
	gt.Number(t, w.Body.Len()).Equal(0)
}
