package tencent

import (
	"errors"
	"strings"
	"testing"

	"github.com/jirong-gao/stocks/internal/fetcher"
)

// sampleWuliangye is a real domestic A-share record captured from the API
// (Shenzhen-listed 五粮液).
const sampleWuliangye = `v_sz000858="51~五 粮 液~000858~24.80~25.11~25.13~207959~90194~117764~24.80~1438~24.79~451~24.78~819~24.77~115~24.76~293~24.81~628~24.82~539~24.83~557~24.84~191~24.85~126~15:00:18/24.80/2269/S/5626376/19587|14:57:00/24.81/9/B/22329/19437|14:57:00/24.81/73/B/181076/19435|14:56:57/24.81/23/B/57063/19433|14:56:54/24.80/49/S/121557/19428|14:56:51/24.81/14/B/34734/19425~20130308150351~-0.31~-1.23~25.25~24.79~24.81/205690/514010790~207959~51964~0.55~9.05~~25.25~24.79~1.83~941.28~941.40~3.25~27.62~22.60~"`

// sampleTencentHK is a real Hong Kong record (腾讯控股). PE/PB live at
// offsets 57/58 here, not at the domestic 39/46.
const sampleTencentHK = `v_hk00700="100~腾讯控股~00700~294.400~293.800~294.000~9286639.0~0~0~294.400~0~0~0~0~0~0~0~0~0~294.400~0~0~0~0~0~0~0~0~0~9286639.0~2018/10/10 10:34:10~0.600~0.20~296.800~293.600~294.400~9286639.0~2738811478.770~0~33.09~~0~0~1.09~28031.731~28031.731~TENCENT~0.30~475.720~293.600~2.29~-7.48~0~0~0~0~0~28.81~9.24~0.10~100~"`

// sampleFund is a fund record; fund bodies use their own short layout.
const sampleFund = `v_s_jj160706="160706~嘉实300~2019-01-04~0.8980~1.7380~"`

func TestParseRecord_DomesticStock(t *testing.T) {
	quote, err := ParseRecord(sampleWuliangye)
	if err != nil {
		t.Fatalf("ParseRecord() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"QueryCode", quote.QueryCode, "sz000858"},
		{"Symbol", quote.Symbol, "000858"},
		{"Market", quote.Market, "sz"},
		{"Name", quote.Name, "五 粮 液"},
		{"Price", quote.Price, "24.80"},
		{"Change", quote.Change, "-0.31"},
		{"ChangePercent", quote.ChangePercent, "-1.23"},
		{"PE", quote.PE, "9.05"},
		{"PB", quote.PB, "3.25"},
		{"TotalMarketValue", quote.TotalMarketValue, "941.40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}

	if quote.IsFund {
		t.Error("IsFund = true for a stock record")
	}
}

func TestParseRecord_HongKongStock(t *testing.T) {
	quote, err := ParseRecord(sampleTencentHK)
	if err != nil {
		t.Fatalf("ParseRecord() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"QueryCode", quote.QueryCode, "hk00700"},
		{"Symbol", quote.Symbol, "00700"},
		{"Market", quote.Market, "hk"},
		{"Name", quote.Name, "腾讯控股"},
		{"Price", quote.Price, "294.400"},
		{"Change", quote.Change, "0.600"},
		{"ChangePercent", quote.ChangePercent, "0.20"},
		// Offsets 57/58, not the domestic 39/46 (which hold 33.09/TENCENT here).
		{"PE", quote.PE, "28.81"},
		{"PB", quote.PB, "9.24"},
		// Total market value stays at offset 45 for every market.
		{"TotalMarketValue", quote.TotalMarketValue, "28031.731"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestParseRecord_Fund(t *testing.T) {
	quote, err := ParseRecord(sampleFund)
	if err != nil {
		t.Fatalf("ParseRecord() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"QueryCode", quote.QueryCode, "s_jj160706"},
		{"Symbol", quote.Symbol, "160706"},
		{"Market", quote.Market, "s_jj"},
		{"Name", quote.Name, "嘉实300"},
		{"Price", quote.Price, "0.8980"},
		{"AccumulatedNetValue", quote.AccumulatedNetValue, "1.7380"},
		{"ValuationDate", quote.ValuationDate, "2019-01-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}

	if !quote.IsFund {
		t.Error("IsFund = false for a fund record")
	}
}

func TestParseRecord_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		wantFund bool
	}{
		{"fund prefix", sampleFund, true},
		{"shenzhen stock", sampleWuliangye, false},
		{"hong kong stock", sampleTencentHK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ParseRecord(tt.record)
			if err != nil {
				t.Fatalf("ParseRecord() returned unexpected error: %v", err)
			}
			if quote.IsFund != tt.wantFund {
				t.Errorf("IsFund = %v, want %v", quote.IsFund, tt.wantFund)
			}
		})
	}
}

func TestParseRecord_EnvelopeExtraction(t *testing.T) {
	// The body may contain anything other than the closing quote.
	record := `v_sh600519="0~贵州茅台~600519~a;b=c/d|e'f~` + strings.Repeat("x~", 50) + `"`

	quote, err := ParseRecord(record)
	if err != nil {
		t.Fatalf("ParseRecord() returned unexpected error: %v", err)
	}

	if quote.QueryCode != "sh600519" {
		t.Errorf("QueryCode = %q, want %q", quote.QueryCode, "sh600519")
	}
	if quote.Price != "a;b=c/d|e'f" {
		t.Errorf("Price = %q, want %q", quote.Price, "a;b=c/d|e'f")
	}
}

func TestParseRecord_MalformedEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"no envelope at all", "pv_none_match"},
		{"missing prefix", `sz000858="51~五 粮 液~000858~24.80"`},
		{"missing quotes", "v_sz000858=51~24.80"},
		{"empty body", `v_sz000858=""`},
		{"missing body and quotes", "v_sz000858="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ParseRecord(tt.record)
			if err == nil {
				t.Fatal("ParseRecord() expected error, got nil")
			}
			if quote != nil {
				t.Errorf("ParseRecord() = %+v, want nil quote", quote)
			}

			var fetchErr *fetcher.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("error type = %T, want *fetcher.FetchError", err)
			}
			if fetchErr.Type != fetcher.ErrorTypeValidation {
				t.Errorf("error Type = %q, want %q", fetchErr.Type, fetcher.ErrorTypeValidation)
			}
		})
	}
}

func TestParseRecord_ShortBody(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		// 10 fields is plenty for a fund but far short of the stock offsets.
		{"stock body too short", `v_sz000858="51~五 粮 液~000858~24.80~25.11~25.13~1~2~3~4"`},
		{"hk body short of hk offsets", `v_hk00700="100~腾讯控股~00700~294.400~` + strings.Repeat("0~", 36) + `0"`},
		{"fund body too short", `v_s_jj160706="160706~嘉实300~2019-01-04"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.record)
			if err == nil {
				t.Fatal("ParseRecord() expected error for short body, got nil")
			}

			var fetchErr *fetcher.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("error type = %T, want *fetcher.FetchError", err)
			}
			if fetchErr.Type != fetcher.ErrorTypeValidation {
				t.Errorf("error Type = %q, want %q", fetchErr.Type, fetcher.ErrorTypeValidation)
			}
		})
	}
}

func TestQuote_Row(t *testing.T) {
	t.Run("stock row order", func(t *testing.T) {
		quote, err := ParseRecord(sampleWuliangye)
		if err != nil {
			t.Fatalf("ParseRecord() returned unexpected error: %v", err)
		}

		want := []string{"sz000858", "000858", "sz", "五 粮 液", "24.80", "-0.31", "-1.23", "9.05", "3.25", "941.40"}
		got := quote.Row()
		if len(got) != len(want) {
			t.Fatalf("Row() has %d columns, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Row()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("fund row order", func(t *testing.T) {
		quote, err := ParseRecord(sampleFund)
		if err != nil {
			t.Fatalf("ParseRecord() returned unexpected error: %v", err)
		}

		want := []string{"s_jj160706", "160706", "s_jj", "嘉实300", "0.8980", "1.7380", "2019-01-04"}
		got := quote.Row()
		if len(got) != len(want) {
			t.Fatalf("Row() has %d columns, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Row()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})
}
