package widget

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-weather/internal/weather"
)

func newTestWidget(t *testing.T, obs Observer) (*Widget, *fakeGeocoder, *fakeFetcher) {
	t.Helper()
	geo, fetch := newFakeGeocoder(), newFakeFetcher()
	w, err := New(geo, fetch, weather.DefaultCodeTable(), Options{DefaultCity: warszawa, Observer: obs})
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w, geo, fetch
}

func TestEmptyQueryIssuesNoRequest(t *testing.T) {
	w, geo, _ := newTestWidget(t, nil)

	for _, text := range []string{"", "   "} {
		w.SetQueryText(text)
		w.Wait()

		assert.Equal(t, text, w.QueryText())
		got := w.Candidates()
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.False(t, w.Searching())
	}
	assert.Len(t, geo.calls, 0)
}

func TestEmptyQuerySupersedesPendingRequest(t *testing.T) {
	w, geo, _ := newTestWidget(t, nil)

	w.SetQueryText("War")
	call := geo.next(t)
	w.SetQueryText("")

	call.reply <- geoReply{out: candidatesFor("Warsaw")}
	w.Wait()
	assert.Empty(t, w.Candidates())
}

func TestLatestQueryWinsWhenResponsesArriveReversed(t *testing.T) {
	obs := &countingObserver{}
	w, geo, _ := newTestWidget(t, obs)

	w.SetQueryText("War")
	war := geo.next(t)
	w.SetQueryText("Warsaw")
	warsaw := geo.next(t)
	require.Equal(t, "War", war.query)
	require.Equal(t, "Warsaw", warsaw.query)

	warsaw.reply <- geoReply{out: candidatesFor("Warsaw")}
	war.reply <- geoReply{out: candidatesFor("Warta", "Warka", "Warsaw")}
	w.Wait()

	assert.Equal(t, candidatesFor("Warsaw"), w.Candidates())
	assert.Equal(t, 1, obs.get("geocoding"))
}

func TestLatestQueryWinsForAnyCompletionOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		w, geo, _ := newTestWidget(t, nil)

		var calls []*geoCall
		for i := 0; i < 6; i++ {
			w.SetQueryText("q" + strconv.Itoa(i))
			calls = append(calls, geo.next(t))
		}

		for _, idx := range rng.Perm(len(calls)) {
			c := calls[idx]
			c.reply <- geoReply{out: candidatesFor(c.query)}
		}
		w.Wait()

		assert.Equal(t, candidatesFor("q5"), w.Candidates(), "round %d", round)
	}
}

func TestGeocodingFailureLeavesListEmpty(t *testing.T) {
	w, geo, _ := newTestWidget(t, nil)

	w.SetQueryText("Wa")
	geo.next(t).reply <- geoReply{out: candidatesFor("Warsaw")}
	w.Wait()
	require.Len(t, w.Candidates(), 1)

	w.SetQueryText("War")
	geo.next(t).reply <- geoReply{err: &weather.ResponseError{StatusCode: 500}}
	w.Wait()

	assert.Empty(t, w.Candidates())
	assert.True(t, errors.Is(w.Search().Err(), weather.ErrResponse))
}

func TestStaleFailureIsIgnored(t *testing.T) {
	w, geo, _ := newTestWidget(t, nil)

	w.SetQueryText("Wa")
	first := geo.next(t)
	w.SetQueryText("War")
	second := geo.next(t)

	second.reply <- geoReply{out: candidatesFor("Warsaw")}
	first.reply <- geoReply{err: weather.ErrNetwork}
	w.Wait()

	assert.Equal(t, candidatesFor("Warsaw"), w.Candidates())
	assert.NoError(t, w.Search().Err())
}

func TestEveryQueryAdvancesEpoch(t *testing.T) {
	w, geo, _ := newTestWidget(t, nil)

	before := w.Search().Epoch()
	w.SetQueryText("")
	w.SetQueryText("W")
	geo.next(t).reply <- geoReply{}
	w.Wait()

	assert.Equal(t, before+2, w.Search().Epoch())
}

func TestCandidatesReturnsCopy(t *testing.T) {
	w, geo, _ := newTestWidget(t, nil)

	w.SetQueryText("War")
	geo.next(t).reply <- geoReply{out: candidatesFor("Warsaw")}
	w.Wait()

	got := w.Candidates()
	got[0].Name = "mutated"
	assert.Equal(t, "Warsaw", w.Candidates()[0].Name)
}
