package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSumResponse_DecimalAsString(t *testing.T) {
	b, err := json.Marshal(SumResponse{Sum: decimal.RequireFromString("3200.50")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"sum":"3200.5"}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestXIRRRequest_AcceptsNumbersAndStrings(t *testing.T) {
	var req XIRRRequest
	body := `{"cash_flows":[{"amount":-1000,"date":"2024-01-01"},{"amount":"1100.5","date":"2025-01-01"}]}`
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(req.CashFlows) != 2 || !req.CashFlows[1].Amount.Equal(decimal.RequireFromString("1100.5")) {
		t.Fatalf("unexpected request %+v", req)
	}
}
