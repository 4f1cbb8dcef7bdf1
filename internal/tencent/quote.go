// Package tencent fetches and decodes real-time quotes from the Tencent text
// quote API (http://qt.gtimg.cn/q=<codes>).
//
// The API returns one semicolon-delimited record per requested security, each
// wrapped in a v_<code>="..." envelope whose body is a tilde-delimited
// positional field list. The layout is shared across security types and
// exchanges but the meaning of some offsets diverges (Hong Kong listings keep
// PE/PB at different positions than domestic ones), so the offset tables
// below are the single source of truth for field positions. There is no
// version negotiation upstream; if Tencent reshuffles the schema these tables
// are the one place to fix.
package tencent

// Markets recognized in query code prefixes. Query codes are Market + Symbol
// and case-sensitive, e.g. sh600519, hk00700, s_jj160706.
const (
	MarketShanghai = "sh"
	MarketShenzhen = "sz"
	MarketHongKong = "hk"
	MarketFund     = "s_jj"
)

// Quote is one normalized security quote. Stock and fund records share the
// leading fields; the trailing ones depend on the class.
type Quote struct {
	QueryCode string
	Symbol    string
	Market    string
	Name      string
	Price     string

	// Stock fields
	Change           string
	ChangePercent    string
	PE               string
	PB               string
	TotalMarketValue string

	// Fund fields
	AccumulatedNetValue string
	ValuationDate       string

	// IsFund selects which trailing fields are meaningful and which output
	// row shape Row produces.
	IsFund bool
}

// Row returns the quote as one output-file row in the fixed column order the
// spreadsheet expects. Stock rows carry ten columns matching the header;
// fund rows reuse the leading columns and place net-value data after them.
func (q *Quote) Row() []string {
	if q.IsFund {
		return []string{
			q.QueryCode,
			q.Symbol,
			q.Market,
			q.Name,
			q.Price,
			q.AccumulatedNetValue,
			q.ValuationDate,
		}
	}
	return []string{
		q.QueryCode,
		q.Symbol,
		q.Market,
		q.Name,
		q.Price,
		q.Change,
		q.ChangePercent,
		q.PE,
		q.PB,
		q.TotalMarketValue,
	}
}

// stockOffsets maps stock output fields to their index in the tilde-delimited
// body. Domestic and Hong Kong listings differ only in PE and PB.
type stockOffsets struct {
	symbol           int
	name             int
	price            int
	change           int
	changePercent    int
	pe               int
	pb               int
	totalMarketValue int
}

// max returns the highest index the table reads, for bounds checking.
func (o stockOffsets) max() int {
	m := o.symbol
	for _, idx := range []int{o.name, o.price, o.change, o.changePercent, o.pe, o.pb, o.totalMarketValue} {
		if idx > m {
			m = idx
		}
	}
	return m
}

var (
	domesticStockOffsets = stockOffsets{
		symbol:           2,
		name:             1,
		price:            3,
		change:           31,
		changePercent:    32,
		pe:               39,
		pb:               46,
		totalMarketValue: 45,
	}

	// Hong Kong bodies store PE/PB further out; total market value stays put.
	hongKongStockOffsets = stockOffsets{
		symbol:           2,
		name:             1,
		price:            3,
		change:           31,
		changePercent:    32,
		pe:               57,
		pb:               58,
		totalMarketValue: 45,
	}
)

// fundOffsets maps fund output fields to their body index. Fund bodies are
// much shorter than stock bodies and use a layout of their own.
type fundOffsets struct {
	symbol              int
	name                int
	valuationDate       int
	netValue            int
	accumulatedNetValue int
}

func (o fundOffsets) max() int {
	m := o.symbol
	for _, idx := range []int{o.name, o.valuationDate, o.netValue, o.accumulatedNetValue} {
		if idx > m {
			m = idx
		}
	}
	return m
}

var fundOffsetTable = fundOffsets{
	symbol:              0,
	name:                1,
	valuationDate:       2,
	netValue:            3,
	accumulatedNetValue: 4,
}
