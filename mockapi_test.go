package aspectmodel_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/goliatone/go-aspectmodel/internal/generated/partasplanned"
	"github.com/goliatone/go-aspectmodel/pkg/jsonbind"
	"github.com/goliatone/go-aspectmodel/pkg/mockserver"
)

func TestMockedPartAsPlannedAPI(t *testing.T) {
	srv := mockserver.New(mockserver.WithPort(2345))
	if err := srv.Start(); err != nil {
		t.Fatalf("start mock server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	if srv.BaseURL() != "http://127.0.0.1:2345" {
		t.Fatalf("unexpected base url %s", srv.BaseURL())
	}
	srv.StubFor(partasplanned.StubGetPartAsPlanned200(partasplanned.GetPartAsPlanned200ResponseSample1()))

	req, err := http.NewRequest(http.MethodGet, srv.BaseURL()+"/part-as-planned", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}

	mapper := jsonbind.NewMapper()
	var part partasplanned.PartAsPlanned
	if err := mapper.Decode(body, &part); err != nil {
		t.Fatalf("decode: %v", err)
	}
	pretty, err := mapper.Pretty(body)
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	t.Logf("%s\n%+v", pretty, part)

	if part.PartTypeInformation.NameAtManufacturer != "Mirror left" {
		t.Fatalf("unexpected name at manufacturer %q", part.PartTypeInformation.NameAtManufacturer)
	}
	if len(srv.Requests()) != 1 {
		t.Fatalf("expected one recorded request, got %d", len(srv.Requests()))
	}
}
