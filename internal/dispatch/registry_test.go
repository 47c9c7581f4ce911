package dispatch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	"github.com/noah-isme/orgportal-gateway/pkg/config"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

func portalClient(t *testing.T, handler http.HandlerFunc) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return upstream.NewClient(config.UpstreamConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}, nil)
}

func TestPortalReplaceFileRelaysUpload(t *testing.T) {
	var gotPath, gotFileID, gotName, gotContent string
	client := portalClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFileID = r.FormValue("file_id")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		raw, _ := io.ReadAll(file)
		gotName = header.Filename
		gotContent = string(raw)
		w.Write([]byte(`{"success":true}`))
	})

	d := NewPortal(client, nil, nil, nil, nil)
	err := d.Dispatch(context.Background(), Action{
		Name:     ActionReplaceFile,
		Panel:    "accreditation",
		TargetID: "7",
		File: &upstream.FilePart{
			FieldName: "file",
			FileName:  "constitution.pdf",
			Content:   strings.NewReader("updated scan"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "/replace-accreditation-file.php", gotPath)
	assert.Equal(t, "7", gotFileID)
	assert.Equal(t, "constitution.pdf", gotName)
	assert.Equal(t, "updated scan", gotContent)
}

func TestPortalReplaceFileRequiresUpload(t *testing.T) {
	client := portalClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected without a file")
	})

	d := NewPortal(client, nil, nil, nil, nil)
	err := d.Dispatch(context.Background(), Action{Name: ActionReplaceFile, TargetID: "7"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPortalReplaceFileRejection(t *testing.T) {
	client := portalClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"document is not declined"}`))
	})

	d := NewPortal(client, nil, nil, nil, nil)
	err := d.Dispatch(context.Background(), Action{
		Name:     ActionReplaceFile,
		TargetID: "7",
		File: &upstream.FilePart{
			FieldName: "file",
			FileName:  "scan.pdf",
			Content:   strings.NewReader("x"),
		},
	})

	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "document is not declined")
}
