package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-media-wall/pkg/httpclient"
)

func TestResolverFollowsOGImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "wall-test" {
			t.Errorf("unexpected user agent %q", got)
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head>
<meta property="og:image" content="/media/AbC.jpg">
<meta property="og:title" content="gallery">
</head></html>`)
	}))
	defer srv.Close()

	res := NewResolver(httpclient.NewRestyClient(2*time.Second), "wall-test")
	got, err := res.Resolve(context.Background(), srv.URL+"/gallery/AbC")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.URL != srv.URL+"/media/AbC.jpg" || got.Kind != KindImage {
		t.Fatalf("unexpected classification %#v", got)
	}
}

func TestResolverRejectsPagesWithoutMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="https://example.com/logo"></head></html>`)
	}))
	defer srv.Close()

	res := NewResolver(httpclient.NewRestyClient(2*time.Second), "")
	if _, err := res.Resolve(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for page without direct media")
	}
}

func TestResolverReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	res := NewResolver(httpclient.NewRestyClient(2*time.Second), "")
	if _, err := res.Resolve(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 410 response")
	}
}
