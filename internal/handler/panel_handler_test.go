package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orgportal-gateway/internal/dispatch"
	"github.com/noah-isme/orgportal-gateway/internal/panel"
	"github.com/noah-isme/orgportal-gateway/pkg/response"
)

type staticPanel struct {
	mu       sync.Mutex
	name     string
	html     string
	seq      uint64
	rendered bool
}

func (p *staticPanel) Name() string            { return p.name }
func (p *staticPanel) Interval() time.Duration { return time.Hour }

func (p *staticPanel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.rendered = true
	return nil
}

func (p *staticPanel) Fragment() (panel.Fragment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return panel.Fragment{HTML: p.html, Seq: p.seq}, p.rendered
}

// pagedPanel renders its current page number so tests can see which
// page a served fragment reflects.
type pagedPanel struct {
	mu       sync.Mutex
	page     int
	html     string
	seq      uint64
	rendered bool
}

func (p *pagedPanel) Name() string            { return "years" }
func (p *pagedPanel) Interval() time.Duration { return time.Hour }

func (p *pagedPanel) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = page
}

func (p *pagedPanel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.html = fmt.Sprintf(`<div data-panel="years" data-page="%d"></div>`, p.page)
	p.rendered = true
	return nil
}

func (p *pagedPanel) Fragment() (panel.Fragment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return panel.Fragment{HTML: p.html, Seq: p.seq}, p.rendered
}

func newPanelRouter(t *testing.T, failing map[string]error) (*gin.Engine, *panel.Host) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	host := panel.NewHost(nil, nil)
	host.Register(&staticPanel{name: "events", html: `<div data-panel="events"></div>`})
	host.Register(&pagedPanel{page: 1})
	host.Start(context.Background())
	t.Cleanup(host.Shutdown)

	dispatcher := dispatch.New(nil, nil, nil)
	dispatcher.Register("mark-read", func(ctx context.Context, a dispatch.Action) error {
		if failing == nil {
			return nil
		}
		return failing[a.TargetID]
	})

	h := NewPanelHandler(host, dispatcher)
	r := gin.New()
	r.POST("/panels/:name/mount", h.Mount)
	r.DELETE("/panels/:name/mount", h.Unmount)
	r.GET("/panels/:name/fragment", h.Fragment)
	r.GET("/panels/:name/state", h.State)
	r.POST("/panels/:name/actions", h.Dispatch)
	r.POST("/panels/:name/files/:id", h.Replace)
	return r, host
}

func TestPanelMountFragmentUnmount(t *testing.T) {
	r, host := newPanelRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/events/mount", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		return host.PanelState("events") == panel.StatePolling
	}, time.Second, time.Millisecond)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panels/events/fragment", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Fragment-Seq"))
	assert.Contains(t, rec.Body.String(), `data-panel="events"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/panels/events/mount", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panels/events/fragment", nil))
	assert.Equal(t, http.StatusConflict, rec.Code, "unmounted panels serve no fragments")
}

func TestPanelFragmentPageParamServesRequestedPage(t *testing.T) {
	r, host := newPanelRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/years/mount", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Eventually(t, func() bool {
		_, err := host.Fragment("years")
		return err == nil
	}, time.Second, time.Millisecond)

	// The response body must already reflect the requested page, not
	// the previously rendered one.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panels/years/fragment?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-page="2"`)
	assert.NotContains(t, rec.Body.String(), `data-page="1"`)
}

func TestPanelReplaceRelaysMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)

	host := panel.NewHost(nil, nil)
	host.Register(&staticPanel{name: "accreditation", html: `<div data-panel="accreditation"></div>`})
	host.Start(context.Background())
	t.Cleanup(host.Shutdown)

	var gotTarget, gotName, gotContent string
	dispatcher := dispatch.New(nil, nil, nil)
	dispatcher.Register(dispatch.ActionReplaceFile, func(ctx context.Context, a dispatch.Action) error {
		gotTarget = a.TargetID
		if a.File != nil {
			gotName = a.File.FileName
			raw, _ := io.ReadAll(a.File.Content)
			gotContent = string(raw)
		}
		return nil
	})

	h := NewPanelHandler(host, dispatcher)
	r := gin.New()
	r.POST("/panels/:name/files/:id", h.Replace)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fw, err := writer.CreateFormFile("file", "constitution.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("updated scan"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/panels/accreditation/files/7", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", gotTarget)
	assert.Equal(t, "constitution.pdf", gotName)
	assert.Equal(t, "updated scan", gotContent)

	// No file part is a validation error, not an upstream call.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/accreditation/files/7", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPanelMountUnknown(t *testing.T) {
	r, _ := newPanelRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/bogus/mount", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPanelDispatchSingleAction(t *testing.T) {
	r, host := newPanelRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/events/mount", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := json.Marshal(map[string]interface{}{
		"action":    "mark-read",
		"target_id": "5",
	})
	require.Eventually(t, func() bool {
		frag, err := host.Fragment("events")
		return err == nil && frag.Seq >= 1
	}, time.Second, time.Millisecond)
	frag, err := host.Fragment("events")
	require.NoError(t, err)
	before := frag.Seq

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/events/actions", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	// A successful action kicks the panel so the next fragment reflects it.
	assert.Eventually(t, func() bool {
		frag, err := host.Fragment("events")
		return err == nil && frag.Seq > before
	}, time.Second, time.Millisecond)
}

func TestPanelDispatchUnknownAction(t *testing.T) {
	r, _ := newPanelRouter(t, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"action":    "explode",
		"target_id": "5",
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/events/actions", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPanelDispatchBatchPartialFailure(t *testing.T) {
	r, _ := newPanelRouter(t, map[string]error{
		"2": assert.AnError,
	})

	body, _ := json.Marshal(map[string]interface{}{
		"action":  "mark-read",
		"targets": []string{"1", "2", "3"},
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/panels/events/actions", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Succeeded []string `json:"succeeded"`
			Failed    []struct {
				ID     string `json:"id"`
				Reason string `json:"reason"`
			} `json:"failed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"1", "3"}, envelope.Data.Succeeded)
	require.Len(t, envelope.Data.Failed, 1)
	assert.Equal(t, "2", envelope.Data.Failed[0].ID)

	var raw response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Nil(t, raw.Error)
}
