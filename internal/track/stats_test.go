package track

import (
	"math/rand"
	"testing"
	"time"

	"github.com/benoctopus/track/internal/models"
	"github.com/google/go-cmp/cmp"
)

func closed(id int64, activity string, start, end int) models.Session {
	return models.Session{ID: id, Activity: activity, Start: at(start), End: ptr(at(end))}
}

func TestSummarizeTotals(t *testing.T) {
	sessions := []models.Session{
		closed(1, "a", 0, 100),
		closed(2, "b", 200, 260),
		closed(3, "a", 300, 330),
	}

	summary := Summarize(sessions, All(), SummaryOptions{Location: time.UTC})

	if summary.Total != 190*time.Second {
		t.Errorf("Total = %v, want 190s", summary.Total)
	}
	if summary.Count != 3 {
		t.Errorf("Count = %d, want 3", summary.Count)
	}
	want := map[string]ActivityTotal{
		"a": {Duration: 130 * time.Second, Count: 2},
		"b": {Duration: 60 * time.Second, Count: 1},
	}
	if diff := cmp.Diff(want, summary.PerActivity); diff != "" {
		t.Errorf("PerActivity mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, summary.Activities()); diff != "" {
		t.Errorf("Activities() mismatch (-want +got):\n%s", diff)
	}
	if !summary.From.Equal(at(0)) || !summary.To.Equal(at(330)) {
		t.Errorf("window = [%v, %v), want [%v, %v)", summary.From, summary.To, at(0), at(330))
	}
	if summary.Window != 330*time.Second {
		t.Errorf("Window = %v, want 330s", summary.Window)
	}
	if summary.AverageSession() != 63*time.Second {
		t.Errorf("AverageSession() = %v, want 63s", summary.AverageSession())
	}
}

func TestSummarizeActivityFilter(t *testing.T) {
	sessions := []models.Session{
		closed(1, "a", 0, 100),
		closed(2, "b", 200, 260),
	}

	summary := Summarize(sessions, All(), SummaryOptions{Activity: "b", Location: time.UTC})
	if summary.Total != 60*time.Second || summary.Count != 1 {
		t.Errorf("Summarize() = %v over %d sessions, want 60s over 1", summary.Total, summary.Count)
	}
	if !summary.From.Equal(at(200)) {
		t.Errorf("From = %v, want %v", summary.From, at(200))
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, All(), SummaryOptions{})
	if summary.Total != 0 || summary.Count != 0 || summary.Longest != nil || summary.BusiestDay != nil {
		t.Errorf("Summarize(nil) = %+v, want zero summary", summary)
	}
	if summary.Proportion() != 0 || summary.AveragePerDay() != 0 || summary.AverageSession() != 0 {
		t.Errorf("averages of an empty summary must be zero")
	}
}

func TestSummarizeClipsOngoing(t *testing.T) {
	sessions := []models.Session{
		closed(1, "a", 0, 100),
		{ID: 2, Activity: "b", Start: at(150)},
	}

	summary := Summarize(sessions, Since(at(50)), SummaryOptions{Now: at(200), Location: time.UTC})
	if summary.Total != 100*time.Second {
		t.Errorf("Total = %v, want 100s", summary.Total)
	}
	if !summary.To.Equal(at(200)) {
		t.Errorf("To = %v, want now %v", summary.To, at(200))
	}
	if summary.Proportion() != 100.0/150.0 {
		t.Errorf("Proportion() = %v, want %v", summary.Proportion(), 100.0/150.0)
	}
}

func TestSummarizeAdditivity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var sessions []models.Session
	cursor := 0
	for i := int64(1); i <= 40; i++ {
		cursor += rng.Intn(500)
		length := 1 + rng.Intn(5000)
		sessions = append(sessions, closed(i, "a", cursor, cursor+length))
		cursor += length
	}

	for i := 0; i < 100; i++ {
		from := rng.Intn(cursor)
		mid := from + 1 + rng.Intn(5000)
		to := mid + 1 + rng.Intn(5000)

		whole := Summarize(sessions, between(t, from, to), SummaryOptions{Location: time.UTC})
		left := Summarize(sessions, between(t, from, mid), SummaryOptions{Location: time.UTC})
		right := Summarize(sessions, between(t, mid, to), SummaryOptions{Location: time.UTC})

		if whole.Total != left.Total+right.Total {
			t.Fatalf("total over [%d,%d) = %v, want %v + %v", from, to, whole.Total, left.Total, right.Total)
		}
	}
}

func TestLongestAndBusiestDayTies(t *testing.T) {
	day := 24 * 60 * 60
	sessions := []models.Session{
		closed(1, "a", 0, 3600),
		closed(2, "b", 2*day, 2*day+3600),
		closed(3, "a", 3*day, 3*day+1800),
	}

	summary := Summarize(sessions, All(), SummaryOptions{Location: time.UTC})
	if summary.Longest == nil || summary.Longest.Session.ID != 1 {
		t.Fatalf("Longest = %+v, want session 1", summary.Longest)
	}
	if summary.BusiestDay == nil || !summary.BusiestDay.Date.Equal(epoch) {
		t.Fatalf("BusiestDay = %+v, want %v", summary.BusiestDay, epoch)
	}
	if len(summary.Days) != 3 {
		t.Errorf("Days has %d entries, want 3", len(summary.Days))
	}
}

func TestLongestUsesClippedDuration(t *testing.T) {
	sessions := []models.Session{
		closed(1, "a", 0, 1000),
		closed(2, "b", 1000, 1300),
	}

	summary := Summarize(sessions, Since(at(900)), SummaryOptions{Location: time.UTC})
	if summary.Longest == nil || summary.Longest.Session.ID != 2 {
		t.Fatalf("Longest = %+v, want session 2", summary.Longest)
	}
	if summary.Longest.Duration != 300*time.Second {
		t.Errorf("Longest.Duration = %v, want 5m", summary.Longest.Duration)
	}
}

func TestSessionsCrossingMidnightSplitIntoDays(t *testing.T) {
	// 22:00 on the first day until 02:00 on the second.
	start := 22 * 60 * 60
	sessions := []models.Session{closed(1, "a", start, start+4*60*60)}

	summary := Summarize(sessions, All(), SummaryOptions{Location: time.UTC})
	want := []DayTotal{
		{Date: epoch, Duration: 2 * time.Hour},
		{Date: epoch.AddDate(0, 0, 1), Duration: 2 * time.Hour},
	}
	if diff := cmp.Diff(want, summary.Days); diff != "" {
		t.Errorf("Days mismatch (-want +got):\n%s", diff)
	}

	// The same session lies within one day two hours west of UTC.
	west := time.FixedZone("west", -2*60*60)
	summary = Summarize(sessions, All(), SummaryOptions{Location: west})
	if len(summary.Days) != 1 || summary.Days[0].Duration != 4*time.Hour {
		t.Errorf("Days in %s = %+v, want one day of 4h", west, summary.Days)
	}
}

func TestAveragePerDay(t *testing.T) {
	// Six hours tracked over two days is three hours a day.
	sessions := []models.Session{closed(1, "a", 0, 6*60*60)}
	r := between(t, 0, 2*24*60*60)

	summary := Summarize(sessions, r, SummaryOptions{Location: time.UTC})
	if summary.AveragePerDay() != 3*time.Hour {
		t.Errorf("AveragePerDay() = %v, want 3h", summary.AveragePerDay())
	}
	if summary.Proportion() != 0.125 {
		t.Errorf("Proportion() = %v, want 0.125", summary.Proportion())
	}
}
