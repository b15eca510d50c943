package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gatherer-crawler/internal/card"
	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/crawlerr"
	"gatherer-crawler/internal/resolver"

	"github.com/stretchr/testify/require"
)

// site is a fake of the search and fetch collaborators that serves pages out
// of the parser fixtures.
type site struct {
	mutex    sync.Mutex
	searches int
	fetches  int

	results map[string][]resolver.Candidate
	pages   map[string]string
	err     error
}

func (s *site) Search(_ context.Context, name string) ([]resolver.Candidate, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.searches++
	if s.err != nil {
		return nil, s.err
	}
	return s.results[strings.ToLower(name)], nil
}

func (s *site) Fetch(_ context.Context, ref string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.fetches++

	fixture, ok := s.pages[ref]
	if !ok {
		return nil, crawlerr.New(crawlerr.KindTransportFailure, "404 Not Found")
	}
	return os.ReadFile(filepath.Join("..", "parser", "testdata", fixture+".html"))
}

func newSite() *site {
	return &site{
		results: map[string][]resolver.Candidate{
			"jace beleren": {
				{DisplayName: "Jace Beleren", Ref: "Details.aspx?multiverseid=205960"},
			},
			"beseech the queen": {
				{DisplayName: "Beseech the Queen", Ref: "Details.aspx?multiverseid=205399"},
				{DisplayName: "Beseech the Queen", Ref: "Details.aspx?multiverseid=141984"},
			},
			"vial": {
				{DisplayName: "Aether Vial", Ref: "Details.aspx?multiverseid=39711"},
				{DisplayName: "Vial Smasher the Fierce", Ref: "Details.aspx?multiverseid=401000"},
				{DisplayName: "Vial of Dragonfire", Ref: "Details.aspx?multiverseid=5571"},
			},
			"redirected": {
				{DisplayName: "Redirected", Ref: "Default.aspx"},
			},
		},
		pages: map[string]string{
			"Details.aspx?multiverseid=205960": "jace_beleren",
			"Details.aspx?multiverseid=205399": "beseech_the_queen",
		},
	}
}

func newTestCrawler(t testing.TB, s *site) Crawler {
	c, err := New(Config{BaseUrl: "http://gatherer.wizards.com/"}, s, s, &telemetry.Recorder{})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCrawlUniqueName(t *testing.T) {
	s := newSite()
	c := newTestCrawler(t, s)

	result, err := c.Crawl(context.Background(), Options{Name: "Jace Beleren"})
	require.NoError(t, err)

	require.Equal(t, "Jace Beleren", result.Name)
	require.Equal(t, "Planeswalker - Jace", result.Types)
	require.Equal(t, "3", result.Loyalty)
	require.Empty(t, result.Pow)
	require.Empty(t, result.Tgh)
	require.Equal(t, []card.Printing{
		{Name: "Magic 2011", Code: "M11", Rarity: card.Mythic},
		{Name: "Magic 2010", Code: "M10", Rarity: card.Mythic},
		{Name: "Lorwyn", Code: "LRW", Rarity: card.Rare},
		{Name: "Duel Decks: Jace vs. Chandra", Code: "DD2", Rarity: card.Mythic},
	}, result.Sets)

	require.Equal(t, 1, s.searches)
	require.Equal(t, 1, s.fetches)
}

func TestCrawlSeveralPrintings(t *testing.T) {
	s := newSite()
	c := newTestCrawler(t, s)

	result, err := c.Crawl(context.Background(), Options{Name: "Beseech the Queen"})
	require.NoError(t, err)
	require.Equal(t, "Beseech the Queen", result.Name)
	require.Equal(t, "(2/B)(2/B)(2/B)", result.Cost)
	require.Equal(t, 2, s.searches+s.fetches)
}

func TestCrawlAmbiguousOrNotFound(t *testing.T) {
	for _, name := range []string{"vial", "xyzzy"} {
		s := newSite()
		c := newTestCrawler(t, s)

		_, err := c.Crawl(context.Background(), Options{Name: name})
		require.ErrorIs(t, err, crawlerr.ErrCardNameAmbiguousOrNotFound, name)
		require.Equal(t, 1, s.searches, name)
		require.Equal(t, 0, s.fetches, name)
	}
}

func TestCrawlRequiresName(t *testing.T) {
	for _, name := range []string{"", "   \t"} {
		s := newSite()
		c := newTestCrawler(t, s)

		_, err := c.Crawl(context.Background(), Options{Name: name})
		require.ErrorIs(t, err, crawlerr.ErrInsufficientOptions)
		require.Zero(t, s.searches)
		require.Zero(t, s.fetches)
	}
}

func TestCrawlPropagatesTransportFailures(t *testing.T) {
	s := newSite()
	failure := crawlerr.Wrap(crawlerr.KindTransportFailure, "search", errors.New("timeout"))
	s.err = failure
	c := newTestCrawler(t, s)

	_, err := c.Crawl(context.Background(), Options{Name: "Jace Beleren"})
	require.Equal(t, failure, err)
	require.Zero(t, s.fetches)

	s = newSite()
	s.results["jace beleren"][0].Ref = "missing"
	c = newTestCrawler(t, s)

	_, err = c.Crawl(context.Background(), Options{Name: "Jace Beleren"})
	require.ErrorIs(t, err, crawlerr.ErrTransportFailure)
}

func TestCrawlUnexpectedPage(t *testing.T) {
	s := newSite()
	s.pages["Default.aspx"] = "../../gatherer/testdata/search_no_results"
	c := newTestCrawler(t, s)

	_, err := c.Crawl(context.Background(), Options{Name: "redirected"})
	require.ErrorIs(t, err, crawlerr.ErrUnexpectedPageShape)
	require.Equal(t, 1, s.fetches)
}

func TestCrawlConcurrently(t *testing.T) {
	s := newSite()
	c := newTestCrawler(t, s)

	wg := sync.WaitGroup{}
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Crawl(context.Background(), Options{Name: "Jace Beleren"})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 8, s.searches)
	require.Equal(t, 8, s.fetches)
}

func TestNewRejectsRelativeBaseUrl(t *testing.T) {
	s := newSite()
	_, err := New(Config{BaseUrl: "/relative"}, s, s, &telemetry.Recorder{})
	require.Error(t, err)
}
