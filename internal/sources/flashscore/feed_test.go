package flashscore

import (
	"testing"
	"time"

	"github.com/linesmith/linesmith/internal/pkg/models"
)

const sampleFeed = "SA÷1¬~ZA÷ENGLAND: Premier League¬ZEE÷lI5BAXww¬ZY÷England¬~" +
	"AA÷abc123¬AD÷1735140600¬AC÷1¬AE÷Arsenal¬AF÷Chelsea¬~" +
	"AA÷def456¬AD÷1735137000¬AC÷2¬AE÷Everton¬AF÷Fulham¬AG÷1¬AH÷0¬~" +
	"AA÷ghi789¬AD÷1735130000¬AC÷3¬AE÷Leeds¬AF÷Wolves¬AG÷2¬AH÷2¬~" +
	"AA÷jkl012¬AD÷1735130000¬AC÷5¬AE÷Derby¬AF÷Luton¬~" +
	"AA÷mno345¬AD÷1735130000¬AC÷54¬AE÷A¬AF÷B¬"

func TestParseFeed(t *testing.T) {
	events := ParseFeed(sampleFeed, "soccer")
	if len(events) != 4 {
		t.Fatalf("parsed %d events, want 4 (unknown status dropped)", len(events))
	}

	sched := events[0]
	if sched.MatchID != "abc123" || sched.Status != models.StatusScheduled {
		t.Errorf("first event = %+v, want scheduled abc123", sched)
	}
	if sched.Sport != "soccer" || sched.Country != "England" || sched.Group != "Premier League" {
		t.Errorf("league context = %q/%q/%q", sched.Sport, sched.Country, sched.Group)
	}
	if sched.Competitor1 != "Arsenal" || sched.Competitor2 != "Chelsea" {
		t.Errorf("competitors = %q, %q", sched.Competitor1, sched.Competitor2)
	}
	want := time.Date(2024, 12, 25, 15, 30, 0, 0, time.UTC)
	if !sched.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", sched.Timestamp, want)
	}

	live := events[1]
	if live.Status != models.StatusLive || live.Score1 != "1" || live.Score2 != "0" {
		t.Errorf("live event = %+v, want live 1-0", live)
	}

	finished := events[2]
	if finished.Status != models.StatusFinished || finished.Score1 != "2" || finished.Score2 != "2" {
		t.Errorf("finished event = %+v, want Finished 2-2", finished)
	}

	cancelled := events[3]
	if cancelled.Status != models.StatusCancelled || cancelled.Score1 != "-" || cancelled.Score2 != "-" {
		t.Errorf("cancelled event = %+v, want Cancelled with dash scores", cancelled)
	}
}

func TestParseFeed_CountryWithoutZY(t *testing.T) {
	feed := "ZA÷SPAIN: LaLiga¬ZEE÷x¬~AA÷m1¬AD÷1735140600¬AC÷1¬AE÷Betis¬AF÷Girona¬"
	events := ParseFeed(feed, "soccer")
	if len(events) != 1 {
		t.Fatalf("parsed %d events, want 1", len(events))
	}
	if events[0].Country != "SPAIN" || events[0].Group != "LaLiga" {
		t.Errorf("country/group = %q/%q, want SPAIN/LaLiga", events[0].Country, events[0].Group)
	}
}

func TestParseSportList(t *testing.T) {
	js := `var x = {"other":1,"sport_list":{"soccer":1,"tennis":2,"basketball":3},"next":{}}`
	sports, err := ParseSportList(js)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sports["soccer"] != 1 || sports["tennis"] != 2 || sports["basketball"] != 3 {
		t.Errorf("sports = %v", sports)
	}

	if _, err := ParseSportList("no marker here"); err == nil {
		t.Error("expected error when the marker is missing")
	}
}
