package gatherer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/crawlerr"
	"gatherer-crawler/internal/resolver"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/search_vial.html
var searchVialPage []byte

//go:embed testdata/search_no_results.html
var searchNoResultsPage []byte

type fakeGatherer struct {
	server   *httptest.Server
	requests atomic.Int64
	broken   atomic.Int64
}

func newFakeGatherer(t testing.TB) *fakeGatherer {
	jacePage, err := os.ReadFile("../parser/testdata/jace_beleren.html")
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeGatherer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/Pages/Search/Default.aspx", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		switch r.URL.Query().Get("name") {
		case "+[vial]":
			w.Write(searchVialPage)
		case "+[Jace Beleren]":
			http.Redirect(w, r, "/Pages/Card/Details.aspx?multiverseid=205960", http.StatusFound)
		default:
			w.Write(searchNoResultsPage)
		}
	})
	mux.HandleFunc("/Pages/Card/Details.aspx", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if r.URL.Query().Get("multiverseid") != "205960" {
			http.NotFound(w, r)
			return
		}
		w.Write(jacePage)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		f.broken.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGatherer) client(t testing.TB) *Client {
	opts := DefaultOptions()
	opts.BaseUrl = f.server.URL + "/"
	opts.TimeoutSeconds = 5
	opts.RequestsPerSecond = 0
	opts.RetryCount = 2

	c, err := NewClient(opts, &telemetry.Recorder{})
	if err != nil {
		t.Fatal(err)
	}
	c.http.SetRetryWaitTime(time.Millisecond)
	c.http.SetRetryMaxWaitTime(10 * time.Millisecond)
	return c
}

func TestSearchList(t *testing.T) {
	f := newFakeGatherer(t)
	c := f.client(t)

	candidates, err := c.Search(context.Background(), "vial")
	require.NoError(t, err)
	require.Equal(t, []resolver.Candidate{
		{DisplayName: "Aether Vial", Ref: f.server.URL + "/Pages/Card/Details.aspx?multiverseid=39711"},
		{DisplayName: "Vial of Dragonfire", Ref: f.server.URL + "/Pages/Card/Details.aspx?multiverseid=5571"},
		{DisplayName: "Vial Smasher the Fierce", Ref: f.server.URL + "/Pages/Card/Details.aspx?multiverseid=401000"},
	}, candidates)
}

func TestSearchRedirectsToDetails(t *testing.T) {
	f := newFakeGatherer(t)
	c := f.client(t)

	candidates, err := c.Search(context.Background(), "Jace Beleren")
	require.NoError(t, err)
	require.Equal(t, []resolver.Candidate{
		{DisplayName: "Jace Beleren", Ref: f.server.URL + "/Pages/Card/Details.aspx?multiverseid=205960"},
	}, candidates)
}

func TestSearchNoResults(t *testing.T) {
	f := newFakeGatherer(t)
	c := f.client(t)

	candidates, err := c.Search(context.Background(), "xyzzy")
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestFetch(t *testing.T) {
	f := newFakeGatherer(t)
	c := f.client(t)

	body, err := c.Fetch(context.Background(), "Pages/Card/Details.aspx?multiverseid=205960")
	require.NoError(t, err)
	require.Contains(t, string(body), "Jace Beleren")

	_, err = c.Fetch(context.Background(), f.server.URL+"/Pages/Card/Details.aspx?multiverseid=1")
	require.ErrorIs(t, err, crawlerr.ErrTransportFailure)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	f := newFakeGatherer(t)
	c := f.client(t)

	_, err := c.Fetch(context.Background(), "/broken")
	require.ErrorIs(t, err, crawlerr.ErrTransportFailure)
	require.Equal(t, int64(3), f.broken.Load())
}

func TestFetchNetworkFailure(t *testing.T) {
	f := newFakeGatherer(t)
	c := f.client(t)
	f.server.Close()

	_, err := c.Fetch(context.Background(), "Pages/Card/Details.aspx?multiverseid=205960")
	require.ErrorIs(t, err, crawlerr.ErrTransportFailure)
}
