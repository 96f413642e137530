package mock

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, responses []ResponseSpec) *Server {
	t.Helper()
	s, err := NewServer(&Config{Hostname: "127.0.0.1", Port: 8000, Responses: responses})
	require.NoError(t, err)
	return s
}

func TestServeMockedResponse(t *testing.T) {
	s := newTestServer(t, []ResponseSpec{{
		Method:       "GET",
		Path:         "/health",
		ResponseCode: 200,
		Headers:      []map[string]string{{"Content-Type": "application/json"}, {"X-Mock": "yes"}},
		Body:         `{"status":"ok"}`,
	}})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "yes", resp.Header.Get("X-Mock"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, `{"status":"ok"}`, string(body))
}

func TestServeDistinguishesMethods(t *testing.T) {
	s := newTestServer(t, []ResponseSpec{
		{Method: "GET", Path: "/thing", ResponseCode: 200, Body: "read"},
		{Method: "DELETE", Path: "/thing", ResponseCode: 204},
	})

	resp, err := s.App().Test(httptest.NewRequest("DELETE", "/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}

func TestServeHeadMappedResponse(t *testing.T) {
	s := newTestServer(t, []ResponseSpec{{
		Method:       "HEAD",
		Path:         "/resource",
		ResponseCode: 200,
		Headers:      []map[string]string{{"X-Resource-Version": "7"}},
		Body:         "not sent on HEAD",
	}})

	resp, err := s.App().Test(httptest.NewRequest("HEAD", "/resource", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "7", resp.Header.Get("X-Resource-Version"))
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)

	// HEAD does not fall through to the GET map.
	resp, err = s.App().Test(httptest.NewRequest("GET", "/resource", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestServeDelayStallsReply(t *testing.T) {
	s := newTestServer(t, []ResponseSpec{{
		Method:       "GET",
		Path:         "/slow",
		ResponseCode: 200,
		Body:         "eventually",
		Delay:        0.05,
	}})

	start := time.Now()
	resp, err := s.App().Test(httptest.NewRequest("GET", "/slow", nil))
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestUnsupportedMethodRefusedWithoutRecording(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := s.App().Test(httptest.NewRequest("PATCH", "/anything", nil))
	require.NoError(t, err)
	assert.Equal(t, 501, resp.StatusCode)
	assert.Empty(t, s.Registry().List())
}

func TestServeQueryStringIsPartOfTheKey(t *testing.T) {
	s := newTestServer(t, []ResponseSpec{
		{Method: "GET", Path: "/items?page=2", ResponseCode: 200, Body: "second page"},
	})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/items?page=2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = s.App().Test(httptest.NewRequest("GET", "/items?page=3", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestServeUnknownPathReturns404Message(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "path '/nope' not found", payload["message"])
}

func TestServeRecordsCalls(t *testing.T) {
	s := newTestServer(t, nil)

	_, err := s.App().Test(httptest.NewRequest("POST", "/orders", strings.NewReader(`{"sku":1}`)))
	require.NoError(t, err)
	_, err = s.App().Test(httptest.NewRequest("GET", "/orders", nil))
	require.NoError(t, err)

	calls := s.Registry().List()
	require.Len(t, calls, 2)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/orders", calls[0].Path)
	require.NotNil(t, calls[0].Body)
	assert.Equal(t, `{"sku":1}`, *calls[0].Body)
	assert.Nil(t, calls[1].Body)
}

func TestMockerListAndClear(t *testing.T) {
	s := newTestServer(t, nil)
	_, err := s.App().Test(httptest.NewRequest("GET", "/watched", nil))
	require.NoError(t, err)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/mocker", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var calls []Call
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&calls))
	require.Len(t, calls, 1)
	assert.Equal(t, "/watched", calls[0].Path)

	resp, err = s.App().Test(httptest.NewRequest("DELETE", "/mocker", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Empty(t, s.Registry().List())
}

func TestMockerIsNeverRecorded(t *testing.T) {
	s := newTestServer(t, nil)

	_, err := s.App().Test(httptest.NewRequest("GET", "/mocker", nil))
	require.NoError(t, err)
	assert.Empty(t, s.Registry().List())
}

func TestMockerUnknownMethod(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := s.App().Test(httptest.NewRequest("PUT", "/mocker", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestFileBackedBody(t *testing.T) {
	payload := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"from":"file"}`), 0o644))

	s := newTestServer(t, []ResponseSpec{{
		Method:       "GET",
		Path:         "/payload",
		ResponseCode: 200,
		Body:         "@file://" + payload,
	}})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/payload", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, `{"from":"file"}`, string(body))
}

func TestFileBackedBodyMissingFileServesEmpty(t *testing.T) {
	s := newTestServer(t, []ResponseSpec{{
		Method:       "GET",
		Path:         "/payload",
		ResponseCode: 200,
		Body:         "@file://" + filepath.Join(t.TempDir(), "gone.json"),
	}})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/payload", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}
