package cmd

import (
	"strings"
	"testing"
	"time"

	"loginsight/server/dto"
	"loginsight/server/utils"
)

func TestValidateDays(t *testing.T) {
	for _, days := range []int{1, 30, 365} {
		if err := validateDays(days); err != nil {
			t.Errorf("days %d should be valid: %v", days, err)
		}
	}
	for _, days := range []int{0, -1, 366, 10000} {
		if err := validateDays(days); err == nil {
			t.Errorf("days %d should be rejected", days)
		}
	}
}

func TestSummaryRows(t *testing.T) {
	rows := summaryRows([]dto.SourceSummary{
		{SourceId: "10.1.1.1", Total: 3, Success: 2, Failure: 1, LastSeen: utils.NowJsonTime()},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0] != "10.1.1.1" || rows[0][1] != "3" || rows[0][2] != "2" || rows[0][3] != "1" {
		t.Errorf("unexpected row: %v", rows[0])
	}
}

func TestDetailRows(t *testing.T) {
	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	rows := detailRows([]dto.LoginRecord{
		{LoginTime: utils.NewJsonTime(when), SourceId: "WS01", Outcome: dto.OutcomeFailure, LogonType: "3"},
		{LoginTime: utils.NewJsonTime(when), SourceId: "10.1.1.1", Outcome: dto.OutcomeSuccess, LogonType: "10"},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "2024-03-01 10:00:00" {
		t.Errorf("unexpected time: %q", rows[0][0])
	}
	if !strings.Contains(rows[0][2], "Failure") {
		t.Errorf("expected failure outcome, got %q", rows[0][2])
	}
	if !strings.Contains(rows[1][2], "Success") {
		t.Errorf("expected success outcome, got %q", rows[1][2])
	}
}
