package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HandlerCase drives one handler call without a router. Params stand in for
// the path parameters the router would have extracted.
type HandlerCase struct {
	Name   string
	Method string
	Query  string
	Params gin.Params
	// Body is sent as is when it is a string and JSON encoded otherwise
	Body  interface{}
	Actor *shared.Actor

	WantStatus int
	// WantCode is the expected error code; empty expects a success envelope
	WantCode string
	Check    func(t *testing.T, tc *TestContext)
}

// RunHandlerCases runs each case as a subtest against handler
func RunHandlerCases(t *testing.T, handler gin.HandlerFunc, cases []HandlerCase) {
	t.Helper()

	for _, hc := range cases {
		t.Run(hc.Name, func(t *testing.T) {
			RunHandlerCase(t, handler, hc)
		})
	}
}

// RunHandlerCase runs a single case and checks the response envelope
func RunHandlerCase(t *testing.T, handler gin.HandlerFunc, hc HandlerCase) *TestContext {
	t.Helper()

	method := hc.Method
	if method == "" {
		method = http.MethodGet
	}
	target := "/"
	if hc.Query != "" {
		target += "?" + hc.Query
	}

	req := httptest.NewRequest(method, target, requestBody(t, hc.Body))
	if hc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	tc := NewTestContext(t)
	tc.Context.Request = req
	tc.Context.Params = hc.Params
	if hc.Actor != nil {
		tc.SetActor(*hc.Actor)
	}

	handler(tc.Context)

	if hc.WantStatus != 0 {
		assert.Equal(t, hc.WantStatus, tc.ResponseCode(), "body: %s", tc.ResponseBody())
	}
	if hc.WantCode != "" {
		AssertErrorResponse(t, tc, hc.WantCode)
	} else if tc.ResponseCode() < http.StatusBadRequest {
		AssertSuccessResponse(t, tc)
	}
	if hc.Check != nil {
		hc.Check(t, tc)
	}
	return tc
}

func requestBody(t *testing.T, body interface{}) io.Reader {
	t.Helper()

	switch b := body.(type) {
	case nil:
		return nil
	case string:
		return strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "Failed to marshal request body")
		return bytes.NewReader(data)
	}
}

// JSONResponse parses the response body as a JSON object
func JSONResponse(t *testing.T, tc *TestContext) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "Failed to parse JSON response")
	return result
}

// AssertSuccessResponse checks for a success envelope with no error
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, true, resp["success"], "Expected success to be true")
	assert.Nil(t, resp["error"], "Expected no error")
}

// AssertErrorResponse checks for a failed envelope carrying expectedCode
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, false, resp["success"], "Expected success to be false")

	errMap, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
}
