package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/langchou/evhighway/internal/models"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func sampleSessions() []models.ChargingSession {
	return []models.ChargingSession{
		{ID: "1", Operator: "한국전력", Highway: "경부고속도로", StartTime: at(1, 9)},
		{ID: "2", Operator: "환경부", Highway: "영동고속도로", StartTime: at(2, 10)},
		{ID: "3", Operator: "한국전력", Highway: "서해안고속도로", StartTime: at(3, 11)},
		{ID: "4", Operator: "SK일렉링크", Highway: "경부고속도로", StartTime: at(4, 12)},
		{ID: "5", Operator: "환경부", Highway: "기타", StartTime: at(5, 13)},
	}
}

func ids(sessions []models.ChargingSession) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func ptr(t time.Time) *time.Time { return &t }

func TestApplyEmptyFilterReturnsAll(t *testing.T) {
	sessions := sampleSessions()
	got := Apply(sessions, models.FilterState{})
	if !reflect.DeepEqual(got, sessions) {
		t.Fatalf("got %v, want full input in order", ids(got))
	}
}

func TestApply(t *testing.T) {
	cases := []struct {
		name   string
		filter models.FilterState
		want   []string
	}{
		{
			name:   "start inclusive",
			filter: models.FilterState{DateRange: models.DateRange{Start: ptr(at(3, 11))}},
			want:   []string{"3", "4", "5"},
		},
		{
			name:   "end inclusive",
			filter: models.FilterState{DateRange: models.DateRange{End: ptr(at(2, 10))}},
			want:   []string{"1", "2"},
		},
		{
			name: "range",
			filter: models.FilterState{DateRange: models.DateRange{
				Start: ptr(at(2, 0)),
				End:   ptr(at(4, 23)),
			}},
			want: []string{"2", "3", "4"},
		},
		{
			name:   "operators",
			filter: models.FilterState{Operators: []string{"환경부", "SK일렉링크"}},
			want:   []string{"2", "4", "5"},
		},
		{
			name:   "highways",
			filter: models.FilterState{Highways: []string{"경부고속도로"}},
			want:   []string{"1", "4"},
		},
		{
			name: "all conditions",
			filter: models.FilterState{
				DateRange: models.DateRange{Start: ptr(at(2, 0))},
				Operators: []string{"한국전력", "SK일렉링크"},
				Highways:  []string{"경부고속도로"},
			},
			want: []string{"4"},
		},
		{
			name:   "no match",
			filter: models.FilterState{Operators: []string{"없는회사"}},
			want:   []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(sampleSessions(), tc.filter))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	f := models.FilterState{
		DateRange: models.DateRange{Start: ptr(at(2, 0))},
		Operators: []string{"환경부", "한국전력"},
	}
	once := Apply(sampleSessions(), f)
	twice := Apply(once, f)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("once=%v twice=%v", ids(once), ids(twice))
	}
}

func TestRunOperatorsFromUnfilteredSet(t *testing.T) {
	result := Run(sampleSessions(), models.FilterState{Operators: []string{"환경부"}})

	if got := ids(result.Sessions); !reflect.DeepEqual(got, []string{"2", "5"}) {
		t.Errorf("sessions = %v", got)
	}
	want := []string{"SK일렉링크", "한국전력", "환경부"}
	if !reflect.DeepEqual(result.Operators, want) {
		t.Errorf("operators = %v, want %v", result.Operators, want)
	}
}

func TestOperatorsEmpty(t *testing.T) {
	got := Operators(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty slice", got)
	}
}
