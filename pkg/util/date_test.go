package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseDateCalendar(t *testing.T) {
    got, ok := ParseDate("2024-01-05")
    if !ok {
        t.Fatalf("expected ok")
    }
    if FormatDate(got) != "2024-01-05" {
        t.Fatalf("unexpected date %v", got)
    }
}

func TestParseDateRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseDate(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseDateSlashes(t *testing.T) {
    got, ok := ParseDate("2024/3/7")
    if !ok {
        t.Fatalf("expected ok")
    }
    if FormatDate(got) != "2024-03-07" {
        t.Fatalf("unexpected date %v", got)
    }
}

func TestParseDateUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseDate(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseDateDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseDateDefault("not a date", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}
