package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/mocks"
	"github.com/ersonp/betnorm/internal/domain/services"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
	"github.com/ersonp/betnorm/internal/infrastructure/logging"
)

type apiFixture struct {
	router  http.Handler
	refs    *services.ReferenceStore
	queue   *services.UnresolvedQueue
	store   *mocks.CollectionStore
	audit   *mocks.AuditLog
	catalog *services.Catalog
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	refs := services.NewReferenceStore()
	for _, e := range []entities.CanonicalEntity{
		{Kind: entities.KindTeam, Canonical: "Phoenix Suns", Sport: entities.SportNBA, Abbreviations: []string{"PHX"}, Aliases: []string{"Suns"}},
		{Kind: entities.KindPlayer, Canonical: "Carmelo Anthony", Sport: entities.SportNBA, Team: "Denver Nuggets", Aliases: []string{"Melo"}},
		{Kind: entities.KindPlayer, Canonical: "LaMelo Ball", Sport: entities.SportNBA, Team: "Charlotte Hornets", Aliases: []string{"Melo"}},
		{Kind: entities.KindStat, Canonical: "Rebounds", Sport: entities.SportNBA, Aliases: []string{"Rebs"}},
		{Kind: entities.KindStat, Canonical: "Assists", Sport: entities.SportNBA},
	} {
		require.NoError(t, refs.Add(e))
	}

	queue := services.NewUnresolvedQueue()
	queue.Enqueue(entities.UnresolvedItem{RawValue: "Rebs+Asts", Kind: entities.KindStat, Sport: entities.SportNBA, Book: "DraftKings", BetID: "b1"})
	queue.Enqueue(entities.UnresolvedItem{RawValue: "rebs+asts", Kind: entities.KindStat, Sport: entities.SportNBA, Book: "FanDuel", BetID: "b2"})
	queue.Enqueue(entities.UnresolvedItem{RawValue: "Nuggs", Kind: entities.KindTeam, Sport: entities.SportNBA, Book: "FanDuel", BetID: "b3"})

	store := mocks.NewCollectionStore()
	audit := mocks.NewAuditLog()
	logger := logging.Discard()
	catalog := services.NewCatalog(store, refs, queue, logger)
	resolver := services.NewResolverFromStore(refs, services.PolicyUnresolvedBucket)

	review := services.NewReviewService(refs, queue, resolver, audit, catalog)
	refData := services.NewRefDataService(refs, resolver, audit, catalog)

	h := Handlers{
		Resolve: handlers.NewResolveHandler(resolver, ""),
		Queue:   handlers.NewQueueHandler(queue, review, catalog),
		RefData: handlers.NewRefDataHandler(refData),
	}

	return &apiFixture{
		router:  NewRouter(h, config.Default().Server, "default", logger),
		refs:    refs,
		queue:   queue,
		store:   store,
		audit:   audit,
		catalog: catalog,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "default", body["profile"])
	assert.Equal(t, float64(3), body["queued"])
}

func TestResolve(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name      string
		path      string
		status    int
		want      entities.ResolutionStatus
		canonical string
		aggKey    string
	}{
		{"alias", "/api/v1/resolve/stat?raw=REBS&sport=NBA", http.StatusOK, entities.StatusResolved, "Rebounds", "Rebounds"},
		{"abbreviation", "/api/v1/resolve/team?raw=phx", http.StatusOK, entities.StatusResolved, "Phoenix Suns", "Phoenix Suns"},
		{"unresolved", "/api/v1/resolve/team?raw=Nuggs", http.StatusOK, entities.StatusUnresolved, "Nuggs", entities.UnresolvedBucket},
		{"ambiguous", "/api/v1/resolve/player?raw=Melo&sport=NBA", http.StatusOK, entities.StatusAmbiguous, "Melo", entities.UnresolvedBucket},
		{"team narrows", "/api/v1/resolve/player?raw=Melo&sport=NBA&team=Denver%20Nuggets", http.StatusOK, entities.StatusResolved, "Carmelo Anthony", "Carmelo Anthony"},
		{"auto classifies", "/api/v1/resolve/auto?raw=Suns", http.StatusOK, entities.StatusResolved, "Phoenix Suns", "Phoenix Suns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			res := decodeBody[handlers.ResolveResult](t, w)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.canonical, res.Canonical)
			assert.Equal(t, tt.aggKey, res.AggregationKey)
		})
	}

	t.Run("ambiguous lists candidates", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/resolve/player?raw=Melo&sport=NBA", nil)
		res := decodeBody[handlers.ResolveResult](t, w)
		assert.Equal(t, []string{"Carmelo Anthony", "LaMelo Ball"}, res.Candidates)
	})

	t.Run("unknown kind", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/resolve/coach?raw=Kerr", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody[ErrorResponse](t, w)
		assert.Equal(t, http.StatusBadRequest, body.Code)
	})
}

func TestQueueGroups(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/queue/groups?kind=stat", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Groups []entities.GroupedQueueItem `json:"groups"`
		Count  int                         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "stat::NBA::rebs+asts", body.Groups[0].GroupKey)
	assert.Equal(t, "Rebs+Asts", body.Groups[0].RawValue)
	assert.Equal(t, 2, body.Groups[0].Count)

	w = f.do(t, http.MethodGet, "/api/v1/queue/groups?kind=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueCountAndEnqueue(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/queue/enqueue", handlers.EnqueueRequest{
		RawValue: "Jokic",
		Kind:     "player",
		Sport:    "nba",
		Book:     "Caesars",
		BetID:    "b9",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decodeBody[entities.UnresolvedItem](t, w)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, entities.SportNBA, item.Sport)

	w = f.do(t, http.MethodGet, "/api/v1/queue/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody[map[string]any](t, w)["count"])
	assert.Contains(t, f.store.Data, "queue.unresolved")

	w = f.do(t, http.MethodPost, "/api/v1/queue/enqueue", handlers.EnqueueRequest{Kind: "player"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/queue/enqueue", map[string]any{"raw_value": "x", "surprise": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewActions(t *testing.T) {
	t.Run("map to existing", func(t *testing.T) {
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPost, "/api/v1/queue/groups/map", services.MapRequest{
			GroupKey:  "team::NBA::nuggs",
			Canonical: "Phoenix Suns",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		outcome := decodeBody[services.ReviewOutcome](t, w)
		assert.Equal(t, 1, outcome.Removed)

		w = f.do(t, http.MethodGet, "/api/v1/resolve/team?raw=nuggs&sport=NBA", nil)
		assert.Equal(t, "Phoenix Suns", decodeBody[handlers.ResolveResult](t, w).Canonical)
		assert.Equal(t, []string{entities.AuditMapToExisting}, f.audit.Actions())
	})

	t.Run("create canonical", func(t *testing.T) {
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPost, "/api/v1/queue/groups/create", services.CreateRequest{
			GroupKey:     "stat::NBA::rebs+asts",
			Canonical:    "Reb+Ast",
			ExtraAliases: []string{"RA"},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, 2, decodeBody[services.ReviewOutcome](t, w).Removed)

		e, ok := f.refs.Get(entities.KindStat, "Reb+Ast", entities.SportNBA)
		require.True(t, ok)
		assert.Equal(t, []string{"Rebs+Asts", "RA"}, e.Aliases)
		assert.Equal(t, 1, f.queue.Count())
	})

	t.Run("ignore", func(t *testing.T) {
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPost, "/api/v1/queue/groups/ignore", map[string]string{"group_key": "team::NBA::nuggs"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, f.queue.Count())
	})

	t.Run("unknown group", func(t *testing.T) {
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPost, "/api/v1/queue/groups/ignore", map[string]string{"group_key": "team::NBA::nope"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("map to missing canonical", func(t *testing.T) {
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPost, "/api/v1/queue/groups/map", services.MapRequest{
			GroupKey:  "team::NBA::nuggs",
			Canonical: "Denver Nuggets",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 3, f.queue.Count(), "queue untouched")
	})
}

func TestRefData(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/refdata/stat?sport=NBA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody[map[string]any](t, w)["count"])

	w = f.do(t, http.MethodPost, "/api/v1/refdata/stat", entities.CanonicalEntity{
		Canonical: "Steals",
		Sport:     entities.SportNBA,
		Aliases:   []string{"Stl"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/refdata/stat", entities.CanonicalEntity{
		Canonical: "Steals",
		Sport:     entities.SportNBA,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/refdata/stat/disable", entityRef{Canonical: "Rebounds", Sport: "NBA"})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/resolve/stat?raw=Rebs&sport=NBA", nil)
	assert.Equal(t, entities.StatusUnresolved, decodeBody[handlers.ResolveResult](t, w).Status)

	w = f.do(t, http.MethodPost, "/api/v1/refdata/stat/enable", entityRef{Canonical: "Rebounds", Sport: "NBA"})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/resolve/stat?raw=Rebs&sport=NBA", nil)
	assert.Equal(t, entities.StatusResolved, decodeBody[handlers.ResolveResult](t, w).Status)

	w = f.do(t, http.MethodPost, "/api/v1/refdata/stat/disable", entityRef{Canonical: "Blocks", Sport: "NBA"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/refdata/unknown", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/queue/count", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
