package pipeline

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/linesmith/linesmith/internal/pkg/config"
	"github.com/linesmith/linesmith/internal/pkg/markets"
	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/taxonomy"
)

type memStore struct {
	mu         sync.Mutex
	candidates []*models.CanonicalEvent
	merges     []models.MergeOp
	statuses   map[string]string
	upserts    []*models.CanonicalEvent
	table      []taxonomy.Mapping
}

func (m *memStore) LoadCandidates(context.Context) ([]*models.CanonicalEvent, error) {
	return m.candidates, nil
}

func (m *memStore) UpsertEvent(_ context.Context, ev *models.CanonicalEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, ev)
	return nil
}

func (m *memStore) ApplyMerges(_ context.Context, ops []models.MergeOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merges = append(m.merges, ops...)
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, matchID, status, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statuses == nil {
		m.statuses = map[string]string{}
	}
	m.statuses[matchID] = status
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) LoadTable(context.Context) (*taxonomy.Table, error) {
	return taxonomy.NewTable(m.table), nil
}

func (m *memStore) SeedTable(_ context.Context, entries []taxonomy.Mapping) error {
	m.table = entries
	return nil
}

type fakeSource struct {
	name string
	enc  markets.Encoding
	syn  map[string]string
	jobs map[string][]*models.SourceEvent
}

func (s *fakeSource) Name() string                     { return s.name }
func (s *fakeSource) Encoding() markets.Encoding       { return s.enc }
func (s *fakeSource) SportSynonyms() map[string]string { return s.syn }

func (s *fakeSource) ListJobs(context.Context) ([]Job, error) {
	jobs := make([]Job, 0, len(s.jobs))
	for label, events := range s.jobs {
		live := false
		for _, ev := range events {
			live = live || ev.Live
		}
		jobs = append(jobs, Job{Label: label, Live: live})
	}
	return jobs, nil
}

func (s *fakeSource) Fetch(_ context.Context, job Job) ([]*models.SourceEvent, error) {
	return s.jobs[job.Label], nil
}

func testConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		BatchSizePrematch: 100,
		BatchSizeLive:     50,
		MaxConcurrent:     4,
		FetchTimeout:      time.Second,
		LookaheadDays:     8,
	}
}

var quiet = slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestRun_EndToEnd(t *testing.T) {
	kickoff := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	store := &memStore{
		candidates: []*models.CanonicalEvent{
			{
				MatchID:     "fs-1",
				Sport:       "soccer",
				Competitor1: "Team A",
				Competitor2: "Team B",
				Timestamp:   kickoff,
			},
		},
		table: []taxonomy.Mapping{
			{ID: "Over/Under", Maps: []string{"over/under", "total"}},
		},
	}

	src := &fakeSource{
		name: "bovada",
		enc:  markets.EncodingDecimal,
		syn:  map[string]string{"football": "soccer"},
		jobs: map[string][]*models.SourceEvent{
			"league-1": {
				{
					SourceID:    "ev-1",
					Sport:       "Football",
					Competitor1: "Team B", // reversed order on purpose
					Competitor2: "Team A",
					Timestamp:   kickoff,
					Markets: []models.RawMarketRecord{
						{
							Label: "Over/Under 2.5 Goals",
							Outcomes: []models.RawOutcome{
								{Label: "Over", Price: "1.90", Line: "2.5"},
								{Label: "Under", Price: "1.95"},
							},
						},
					},
				},
			},
		},
	}

	p := New(store, store, nil, nil, testConfig(), quiet)
	report, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Processed != 1 || report.Matched != 1 {
		t.Fatalf("report = %+v, want 1 processed 1 matched", report)
	}
	if len(store.merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(store.merges))
	}

	op := store.merges[0]
	if op.MatchID != "fs-1" || op.Bookmaker != "bovada" {
		t.Errorf("merge keyed (%q, %q), want (fs-1, bovada)", op.MatchID, op.Bookmaker)
	}
	want := map[string]float64{"+": 1.9, "-": 2.0}
	got := op.Tree["Full Match"]["Over/Under"]["2.5"]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tree leaf = %#v, want %#v", got, want)
	}
}

func TestRun_UnmatchedIsRetainedNotPersisted(t *testing.T) {
	kickoff := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	store := &memStore{
		candidates: []*models.CanonicalEvent{
			{MatchID: "fs-1", Sport: "soccer", Competitor1: "Arsenal", Competitor2: "Chelsea", Timestamp: kickoff},
		},
	}

	src := &fakeSource{
		name: "bovada",
		enc:  markets.EncodingDecimal,
		jobs: map[string][]*models.SourceEvent{
			"league-1": {
				{
					SourceID:    "ev-9",
					Sport:       "soccer",
					Competitor1: "Everton",
					Competitor2: "Fulham",
					Timestamp:   kickoff,
					Markets: []models.RawMarketRecord{
						{Label: "Moneyline", Outcomes: []models.RawOutcome{{Label: "Home", Price: "2.10"}}},
					},
				},
			},
		},
	}

	p := New(store, store, nil, nil, testConfig(), quiet)
	report, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Unmatched != 1 || len(report.UnmatchedEvents) != 1 {
		t.Errorf("report = %+v, want the record retained as unmatched", report)
	}
	if len(store.merges) != 0 {
		t.Errorf("unmatched records must not persist, got %v", store.merges)
	}
}

func TestRun_LiveMergeCarriesStatusAndScore(t *testing.T) {
	store := &memStore{
		candidates: []*models.CanonicalEvent{
			{MatchID: "fs-1", Sport: "soccer", Competitor1: "Team A", Competitor2: "Team B", Timestamp: time.Now().UTC()},
		},
	}

	src := &fakeSource{
		name: "unibet",
		enc:  markets.EncodingDecimal,
		jobs: map[string][]*models.SourceEvent{
			"live": {
				{
					SourceID:    "ev-5",
					Sport:       "soccer",
					Competitor1: "Team A",
					Competitor2: "Team B",
					Live:        true,
					Score1:      "2",
					Score2:      "1",
					Markets: []models.RawMarketRecord{
						{Label: "Total Goals", Outcomes: []models.RawOutcome{{Label: "Over", Price: "1.60", Line: "3.5"}}},
					},
				},
			},
		},
	}

	p := New(store, store, nil, nil, testConfig(), quiet)
	if _, err := p.Run(context.Background(), src); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(store.merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(store.merges))
	}
	op := store.merges[0]
	if op.Status != models.StatusLive || op.Score1 != "2" || op.Score2 != "1" {
		t.Errorf("live merge = %+v, want live status and scores", op)
	}
}

type fakeProvider struct {
	events []*models.CanonicalEvent
}

func (f *fakeProvider) Name() string { return "flashscore" }
func (f *fakeProvider) FetchEvents(context.Context) ([]*models.CanonicalEvent, error) {
	return f.events, nil
}

func TestIngest_LookaheadWindowAndStatus(t *testing.T) {
	now := time.Now().UTC()
	store := &memStore{}
	provider := &fakeProvider{
		events: []*models.CanonicalEvent{
			{MatchID: "soon", Sport: "soccer", Status: models.StatusScheduled, Timestamp: now.Add(24 * time.Hour)},
			{MatchID: "far", Sport: "soccer", Status: models.StatusScheduled, Timestamp: now.AddDate(0, 0, 20)},
			{MatchID: "done", Sport: "soccer", Status: models.StatusFinished, Timestamp: now.Add(-2 * time.Hour)},
		},
	}

	p := New(store, store, nil, nil, testConfig(), quiet)
	if err := p.Ingest(context.Background(), provider); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if len(store.upserts) != 1 || store.upserts[0].MatchID != "soon" {
		t.Errorf("upserts = %v, want only the event inside the window", store.upserts)
	}
	if store.statuses["done"] != models.StatusFinished {
		t.Errorf("statuses = %v, want the finished transition applied", store.statuses)
	}
}
