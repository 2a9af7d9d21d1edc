package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/langchou/evhighway/internal/models"
)

func session(op string, start time.Time, hours, kwh float64) models.ChargingSession {
	return models.ChargingSession{
		ID:           op + start.Format(time.RFC3339),
		StationID:    op,
		Operator:     op,
		StartTime:    start,
		EndTime:      start.Add(time.Duration(hours * float64(time.Hour))),
		ChargeAmount: kwh,
	}
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOperatorShare(t *testing.T) {
	sessions := []models.ChargingSession{
		session("B", day(2024, 3, 1, 9), 1, 10),
		session("A", day(2024, 3, 1, 10), 1, 10),
		session("A", day(2024, 3, 2, 10), 1, 10),
		session("A", day(2024, 3, 3, 10), 1, 10),
	}
	got := OperatorShare(sessions)
	want := []models.OperatorShare{{Name: "A", Value: 3}, {Name: "B", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDailySessions(t *testing.T) {
	sessions := []models.ChargingSession{
		session("A", day(2024, 3, 3, 9), 1, 10),
		session("A", day(2024, 3, 1, 9), 1, 10),
		session("B", day(2024, 3, 3, 20), 1, 10),
	}
	got := DailySessions(sessions)
	want := []models.DailyCount{{Date: "2024-03-01", Count: 1}, {Date: "2024-03-03", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if span := DaySpan(got); span != 3 {
		t.Errorf("day span = %d, want 3", span)
	}
}

func TestKPIs(t *testing.T) {
	sessions := []models.ChargingSession{
		session("A", day(2024, 3, 1, 9), 1, 50),
		session("B", day(2024, 3, 2, 9), 2, 100),
	}
	kpi := KPIs(sessions, 10, 300)

	if kpi.SessionCount != 2 || kpi.DaySpan != 2 {
		t.Errorf("count/span = %d/%d", kpi.SessionCount, kpi.DaySpan)
	}
	if !approx(kpi.TotalEnergy, 150) || !approx(kpi.TotalDurationHours, 3) {
		t.Errorf("energy/hours = %v/%v", kpi.TotalEnergy, kpi.TotalDurationHours)
	}
	// 3 / (10 * 24 * 2) * 100
	if !approx(kpi.Utilization, 0.625) {
		t.Errorf("utilization = %v", kpi.Utilization)
	}
	if !approx(kpi.AvgChargeTime, 90) || !approx(kpi.AvgChargeAmount, 75) {
		t.Errorf("avg time/amount = %v/%v", kpi.AvgChargeTime, kpi.AvgChargeAmount)
	}
	if !approx(kpi.EstimatedRevenue, 45000) {
		t.Errorf("revenue = %v", kpi.EstimatedRevenue)
	}
}

func TestEmptyInputs(t *testing.T) {
	kpi := KPIs(nil, 100, 300)
	if kpi.SessionCount != 0 || kpi.Utilization != 0 || kpi.AvgChargeTime != 0 || kpi.DaySpan != 1 {
		t.Errorf("kpi = %+v", kpi)
	}
	if rows := OperatorShare(nil); rows == nil || len(rows) != 0 {
		t.Errorf("operator share = %#v", rows)
	}
	if rows := DailySessions(nil); rows == nil || len(rows) != 0 {
		t.Errorf("daily = %#v", rows)
	}
	if rows := OperatorFinancials(nil, 300); rows == nil || len(rows) != 0 {
		t.Errorf("financials = %#v", rows)
	}
	if m := MonthlyGrowth(nil); len(m.Rows) != 0 || len(m.Operators) != 0 {
		t.Errorf("growth = %#v", m)
	}
	if r := StationRollup(nil); len(r.Stations) != 0 || len(r.Top5) != 0 || len(r.Bottom5) != 0 {
		t.Errorf("rollup = %#v", r)
	}
	if p := TimePatterns(nil); p.Max != 1 || p.DayType.Weekday != 0 {
		t.Errorf("time pattern = %#v", p)
	}
	if a, b := DefaultPair(nil); a != "" || b != "" {
		t.Errorf("default pair = %q,%q", a, b)
	}
	if c := Compare(nil, "A", "B"); c.MarketShare != 0 || len(c.Growth) != 0 {
		t.Errorf("comparison = %#v", c)
	}
}

func TestOperatorFinancials(t *testing.T) {
	sessions := []models.ChargingSession{
		session("A", day(2024, 3, 1, 9), 1, 10),
		session("B", day(2024, 3, 1, 9), 1, 40),
		session("A", day(2024, 3, 2, 9), 2, 20),
	}
	rows := OperatorFinancials(sessions, 300)
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0].Name != "B" || !approx(rows[0].Revenue, 12000) {
		t.Errorf("first row = %+v", rows[0])
	}
	a := rows[1]
	if a.Name != "A" || a.Sessions != 2 || !approx(a.TotalEnergy, 30) || !approx(a.TotalDurationHours, 3) {
		t.Errorf("A row = %+v", a)
	}
	if !approx(a.AvgEnergy, 15) || !approx(a.Revenue, 9000) {
		t.Errorf("A avg/revenue = %v/%v", a.AvgEnergy, a.Revenue)
	}
}

func TestMonthlyGrowthSingleMonth(t *testing.T) {
	sessions := []models.ChargingSession{session("X", day(2024, 5, 10, 9), 1, 10)}
	m := MonthlyGrowth(sessions)

	if !reflect.DeepEqual(m.Operators, []string{"X"}) {
		t.Errorf("operators = %v", m.Operators)
	}
	if len(m.Rows) != 1 || m.Rows[0].Month != "2024-05" {
		t.Fatalf("rows = %+v", m.Rows)
	}
	if !reflect.DeepEqual(m.Rows[0].Counts, map[string]int{"X": 1}) {
		t.Errorf("counts = %v", m.Rows[0].Counts)
	}
}

func TestMonthlyGrowthWindow(t *testing.T) {
	sessions := []models.ChargingSession{
		session("A", day(2023, 11, 30, 23), 1, 10), // 窗口外
		session("A", day(2023, 12, 1, 0), 1, 10),
		session("B", day(2024, 1, 15, 9), 1, 10),
		session("A", day(2024, 2, 29, 9), 1, 10),
		session("A", day(2024, 2, 1, 9), 1, 10),
	}
	m := MonthlyGrowth(sessions)

	if !reflect.DeepEqual(m.Operators, []string{"A", "B"}) {
		t.Errorf("operators = %v", m.Operators)
	}
	wantMonths := []string{"2023-12", "2024-01", "2024-02"}
	if len(m.Rows) != len(wantMonths) {
		t.Fatalf("rows = %+v", m.Rows)
	}
	for i, month := range wantMonths {
		if m.Rows[i].Month != month {
			t.Errorf("row %d month = %s, want %s", i, m.Rows[i].Month, month)
		}
	}
	if m.Rows[0].Counts["A"] != 1 || m.Rows[0].Counts["B"] != 0 {
		t.Errorf("2023-12 = %v", m.Rows[0].Counts)
	}
	if _, ok := m.Rows[0].Counts["B"]; !ok {
		t.Error("missing zero fill for B")
	}
	if m.Rows[2].Counts["A"] != 2 {
		t.Errorf("2024-02 = %v", m.Rows[2].Counts)
	}
}

func TestStationRollupNoOverlap(t *testing.T) {
	var sessions []models.ChargingSession
	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		for j := 0; j <= i; j++ {
			s := session("op", day(2024, 3, 1, 9), 1, 10)
			s.StationID = id
			sessions = append(sessions, s)
		}
	}
	r := StationRollup(sessions)

	if len(r.Stations) != 12 || len(r.Top5) != 5 || len(r.Bottom5) != 5 {
		t.Fatalf("sizes = %d/%d/%d", len(r.Stations), len(r.Top5), len(r.Bottom5))
	}
	if r.Top5[0].StationID != "l" || r.Top5[0].Count != 12 {
		t.Errorf("top = %+v", r.Top5[0])
	}
	if r.Bottom5[0].StationID != "a" || r.Bottom5[0].Count != 1 {
		t.Errorf("bottom = %+v", r.Bottom5[0])
	}
	if r.Bottom5[4].StationID != "e" {
		t.Errorf("bottom last = %+v", r.Bottom5[4])
	}

	top := make(map[string]bool)
	for _, s := range r.Top5 {
		top[s.StationID] = true
	}
	for _, s := range r.Bottom5 {
		if top[s.StationID] {
			t.Errorf("station %s in both top and bottom", s.StationID)
		}
	}
}

func TestStationRollupFewStations(t *testing.T) {
	sessions := []models.ChargingSession{
		session("a", day(2024, 3, 1, 9), 1, 10),
		session("a", day(2024, 3, 1, 9), 1, 15),
		session("b", day(2024, 3, 1, 9), 1, 10),
	}
	r := StationRollup(sessions)
	if len(r.Top5) != 2 || len(r.Bottom5) != 2 {
		t.Fatalf("sizes = %d/%d", len(r.Top5), len(r.Bottom5))
	}
	if r.Top5[0].StationID != "a" || !approx(r.Top5[0].TotalCharge, 25) {
		t.Errorf("top = %+v", r.Top5[0])
	}
	if r.Bottom5[0].StationID != "b" {
		t.Errorf("bottom = %+v", r.Bottom5[0])
	}
}

func TestTimePatterns(t *testing.T) {
	sessions := []models.ChargingSession{
		session("A", time.Date(2024, 3, 3, 7, 0, 0, 0, time.UTC), 1, 10),  // 周日 早
		session("A", time.Date(2024, 3, 3, 7, 30, 0, 0, time.UTC), 1, 10), // 周日 早
		session("A", time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC), 1, 10), // 周一 午
		session("A", time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC), 1, 10), // 周二 夜
		session("A", time.Date(2024, 3, 9, 5, 0, 0, 0, time.UTC), 1, 10),  // 周六 凌晨
	}
	p := TimePatterns(sessions)

	if p.Heatmap[0][7] != 2 || p.Heatmap[1][13] != 1 || p.Heatmap[6][5] != 1 {
		t.Errorf("heatmap cells wrong: %v", p.Heatmap)
	}
	if p.Max != 2 {
		t.Errorf("max = %d", p.Max)
	}
	if p.Peak != (models.PeakBuckets{Morning: 2, Afternoon: 1, Night: 2}) {
		t.Errorf("peak = %+v", p.Peak)
	}
	if p.DayType != (models.DayTypeBuckets{Weekday: 2, Weekend: 3}) {
		t.Errorf("day type = %+v", p.DayType)
	}
}

func TestMarketShare(t *testing.T) {
	if got := MarketShare(60, 40); !approx(got, 60) {
		t.Errorf("MarketShare(60,40) = %v", got)
	}
	if got := MarketShare(0, 0); got != 0 {
		t.Errorf("MarketShare(0,0) = %v", got)
	}
}

func TestDefaultPair(t *testing.T) {
	sessions := []models.ChargingSession{
		session("C", day(2024, 3, 1, 9), 1, 10),
		session("B", day(2024, 3, 1, 9), 1, 10),
		session("B", day(2024, 3, 1, 9), 1, 10),
		session("A", day(2024, 3, 1, 9), 1, 10),
		session("A", day(2024, 3, 1, 9), 1, 10),
		session("A", day(2024, 3, 1, 9), 1, 10),
	}
	if a, b := DefaultPair(sessions); a != "A" || b != "B" {
		t.Errorf("default pair = %q,%q", a, b)
	}
	if a, b := DefaultPair(sessions[:1]); a != "C" || b != "" {
		t.Errorf("single operator pair = %q,%q", a, b)
	}
}

func TestCompare(t *testing.T) {
	sessions := []models.ChargingSession{
		session("A", day(2024, 2, 1, 9), 1, 30),
		session("B", day(2024, 2, 2, 9), 1, 40),
		session("A", day(2024, 3, 1, 9), 1, 30),
		session("C", day(2024, 3, 1, 9), 1, 99),
	}
	c := Compare(sessions, "A", "B")

	if !approx(c.MarketShare, 60) {
		t.Errorf("market share = %v", c.MarketShare)
	}
	want := []models.ComparisonRow{
		{Month: "2024-02", A: 1, B: 1},
		{Month: "2024-03", A: 1, B: 0},
	}
	if !reflect.DeepEqual(c.Growth, want) {
		t.Errorf("growth = %+v", c.Growth)
	}

	if empty := Compare(sessions, "A", ""); empty.MarketShare != 0 || len(empty.Growth) != 0 {
		t.Errorf("missing second operator = %+v", empty)
	}
}

func TestCompletePair(t *testing.T) {
	sessions := []models.ChargingSession{
		session("A", day(2024, 3, 1, 9), 1, 10),
		session("A", day(2024, 3, 1, 9), 1, 10),
		session("A", day(2024, 3, 1, 9), 1, 10),
		session("B", day(2024, 3, 1, 9), 1, 10),
		session("B", day(2024, 3, 1, 9), 1, 10),
		session("C", day(2024, 3, 1, 9), 1, 10),
	}
	cases := []struct {
		a, b         string
		wantA, wantB string
	}{
		{"", "", "A", "B"},
		{"B", "", "B", "A"},
		{"A", "", "A", "B"},
		{"", "A", "B", "A"},
		{"C", "B", "C", "B"},
	}
	for _, tc := range cases {
		a, b := CompletePair(sessions, tc.a, tc.b)
		if a != tc.wantA || b != tc.wantB {
			t.Errorf("CompletePair(%q,%q) = %q,%q, want %q,%q", tc.a, tc.b, a, b, tc.wantA, tc.wantB)
		}
	}

	if a, b := CompletePair(sessions[:3], "A", ""); a != "A" || b != "" {
		t.Errorf("single operator = %q,%q", a, b)
	}
}

func TestCompareSameOperator(t *testing.T) {
	sessions := []models.ChargingSession{session("A", day(2024, 3, 1, 9), 1, 10)}
	c := Compare(sessions, "A", "A")
	if c.MarketShare != 0 || len(c.Growth) != 0 {
		t.Fatalf("comparison = %+v", c)
	}
}
