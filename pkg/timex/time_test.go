package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTime_JSONRoundTrip(t *testing.T) {
	orig := Time(time.Date(2025, 6, 15, 8, 30, 0, 0, time.Local))

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2025-06-15 08:30:00"` {
		t.Errorf("Marshal() = %s, want %q", data, "2025-06-15 08:30:00")
	}

	var parsed Time
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !parsed.Time().Equal(orig.Time()) {
		t.Errorf("round trip = %v, want %v", parsed, orig)
	}
}

func TestTime_MarshalZero(t *testing.T) {
	// 零值不能渲染成公元一年的假时间戳
	data, err := json.Marshal(Time{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `""` {
		t.Errorf("Marshal(zero) = %s, want empty string", data)
	}

	var parsed Time
	if err := json.Unmarshal([]byte(`""`), &parsed); err != nil {
		t.Fatalf("Unmarshal(empty) error = %v", err)
	}
	if !parsed.IsZero() {
		t.Errorf("Unmarshal(empty) = %v, want zero", parsed)
	}
}

func TestTime_Scan(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

	var fromTime Time
	if err := fromTime.Scan(now); err != nil {
		t.Fatalf("Scan(time.Time) error = %v", err)
	}
	if !fromTime.Time().Equal(now) {
		t.Errorf("Scan(time.Time) = %v, want %v", fromTime, now)
	}

	var fromString Time
	if err := fromString.Scan("2025-01-02 03:04:05"); err != nil {
		t.Fatalf("Scan(string) error = %v", err)
	}
	if !fromString.Time().Equal(now) {
		t.Errorf("Scan(string) = %v, want %v", fromString, now)
	}

	var fromNil Time
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if !fromNil.IsZero() {
		t.Errorf("Scan(nil) = %v, want zero", fromNil)
	}

	var bad Time
	if err := bad.Scan(42); err == nil {
		t.Error("Scan(int) expected error, got nil")
	}
}

func TestTime_Value(t *testing.T) {
	v, err := Time{}.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != nil {
		t.Errorf("Value(zero) = %v, want nil", v)
	}

	now := time.Now()
	v, err = Time(now).Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if got, ok := v.(time.Time); !ok || !got.Equal(now) {
		t.Errorf("Value() = %v, want %v", v, now)
	}
}

func TestTime_UnixMethods(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(fixed)

	if tt.Unix() != fixed.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), fixed.Unix())
	}
	if tt.UnixMilli() != fixed.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), fixed.UnixMilli())
	}
	if tt.UnixNano() != fixed.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), fixed.UnixNano())
	}
}
