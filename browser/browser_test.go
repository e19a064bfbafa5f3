package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectRequiresEndpoint(t *testing.T) {
	_, err := Connect(context.Background(), "")
	require.Error(t, err)
}

func TestNewPageHonorsContext(t *testing.T) {
	// An endpoint that accepts the connection but never answers, so the
	// DevTools dial hangs until the caller's context gives up.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	session, err := Connect(context.Background(), wsURL)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = session.NewPage(ctx)
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second, "NewPage must give up with the context, not hang")
}
