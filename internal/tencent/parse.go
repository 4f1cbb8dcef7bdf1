package tencent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jirong-gao/stocks/internal/fetcher"
)

// envelopePattern matches one raw record: the query code sits between v_ and
// =", the body runs to the closing quote. Greedy matching means the body may
// contain anything except the final quote itself.
var envelopePattern = regexp.MustCompile(`^v_(.+)="(.+)"`)

// ParseRecord decodes one semicolon-delimited record from the quote API into
// a Quote. The record must carry the v_<code>="<body>" envelope; the query
// code prefix selects fund or stock decoding. Malformed records return a
// validation error so the caller can log and skip them without aborting the
// batch.
//
// Empty records (the artifact of the upstream body's trailing semicolon) are
// the caller's job to filter before calling ParseRecord.
func ParseRecord(record string) (*Quote, error) {
	m := envelopePattern.FindStringSubmatch(record)
	if m == nil {
		return nil, fetcher.NewValidationError(fmt.Sprintf("record does not match quote envelope: %q", record))
	}

	queryCode, body := m[1], m[2]

	if strings.HasPrefix(queryCode, MarketFund) {
		return parseFundQuote(queryCode, body)
	}
	return parseStockQuote(queryCode, body)
}

// parseStockQuote decodes a stock body. Covers Shanghai, Shenzhen and Hong
// Kong listings; the market is the first two characters of the query code
// and selects the PE/PB offsets.
func parseStockQuote(queryCode, body string) (*Quote, error) {
	if len(queryCode) < 2 {
		return nil, fetcher.NewValidationError(fmt.Sprintf("query code %q too short to carry a market prefix", queryCode))
	}
	market := queryCode[:2]

	offsets := domesticStockOffsets
	if market == MarketHongKong {
		offsets = hongKongStockOffsets
	}

	fields := strings.Split(body, "~")
	if len(fields) <= offsets.max() {
		return nil, fetcher.NewValidationError(fmt.Sprintf(
			"stock record for %s has %d fields, need at least %d", queryCode, len(fields), offsets.max()+1))
	}

	return &Quote{
		QueryCode:        queryCode,
		Symbol:           fields[offsets.symbol],
		Market:           market,
		Name:             fields[offsets.name],
		Price:            fields[offsets.price],
		Change:           fields[offsets.change],
		ChangePercent:    fields[offsets.changePercent],
		PE:               fields[offsets.pe],
		PB:               fields[offsets.pb],
		TotalMarketValue: fields[offsets.totalMarketValue],
	}, nil
}

// parseFundQuote decodes a fund body. The market is the four-character s_jj
// prefix and the price column carries the fund's net value.
func parseFundQuote(queryCode, body string) (*Quote, error) {
	offsets := fundOffsetTable

	fields := strings.Split(body, "~")
	if len(fields) <= offsets.max() {
		return nil, fetcher.NewValidationError(fmt.Sprintf(
			"fund record for %s has %d fields, need at least %d", queryCode, len(fields), offsets.max()+1))
	}

	return &Quote{
		QueryCode:           queryCode,
		Symbol:              fields[offsets.symbol],
		Market:              queryCode[:len(MarketFund)],
		Name:                fields[offsets.name],
		Price:               fields[offsets.netValue],
		AccumulatedNetValue: fields[offsets.accumulatedNetValue],
		ValuationDate:       fields[offsets.valuationDate],
		IsFund:              true,
	}, nil
}
