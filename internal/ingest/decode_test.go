package ingest

import (
	"testing"
	"time"

	"github.com/langchou/evhighway/internal/models"
)

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)

	got, ok := ParseTimestamp("20240115103045", loc)
	if !ok {
		t.Fatal("expected valid timestamp")
	}
	want := time.Date(2024, time.January, 15, 10, 30, 45, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Fatalf("location = %v, want %v", got.Location(), loc)
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	cases := []string{
		"",
		"2024",
		"2024011510304",   // 13
		"202401151030450", // 15
		"20241315103045",  // month 13
		"20240230103045",  // Feb 30
		"20240115253045",  // hour 25
		"2024011510304x",
	}
	for _, raw := range cases {
		if _, ok := ParseTimestamp(raw, time.UTC); ok {
			t.Errorf("ParseTimestamp(%q) should be invalid", raw)
		}
	}
}

func TestParseTimestampNilLocation(t *testing.T) {
	got, ok := ParseTimestamp("20240301000000", nil)
	if !ok {
		t.Fatal("expected valid timestamp")
	}
	if got.Location() != time.Local {
		t.Fatalf("location = %v, want Local", got.Location())
	}
}

func TestMapConnectorCode(t *testing.T) {
	cases := map[string]models.ConnectorType{
		"01": models.ConnectorCHAdeMO,
		"02": models.ConnectorACType2,
		"03": models.ConnectorCHAdeMO,
		"04": models.ConnectorDCCombo,
		"05": models.ConnectorDCCombo,
		"06": models.ConnectorDCCombo,
		"07": models.ConnectorACType2,
		"08": models.ConnectorDCCombo,
		"10": models.ConnectorDCCombo,
		"09": models.ConnectorUnknown,
		"":   models.ConnectorUnknown,
		"1":  models.ConnectorUnknown,
		"xx": models.ConnectorUnknown,
	}
	for code, want := range cases {
		if got := MapConnectorCode(code); got != want {
			t.Errorf("MapConnectorCode(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestInferHighway(t *testing.T) {
	cases := []struct {
		addr string
		want string
	}{
		{"경기도 안성시 경부고속도로 396", "경부고속도로"},
		{"충남 서산시 서해안 휴게소", "서해안고속도로"},
		{"강원 횡성군 영동고속도로 (인천방향)", "영동고속도로"},
		{"경남 진주시 남해선", "남해고속도로"},
		{"서울특별시 중구 세종대로 110", models.OtherHighway},
		{"", models.OtherHighway},
		// 同时包含多个名称时取列表中靠前的
		{"호남 경부 분기점", "경부고속도로"},
	}
	for _, tc := range cases {
		if got := InferHighway(tc.addr); got != tc.want {
			t.Errorf("InferHighway(%q) = %q, want %q", tc.addr, got, tc.want)
		}
	}
}
