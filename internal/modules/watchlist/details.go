package watchlist

import (
	"github.com/aristath/folioview/internal/domain"
)

// DepthLevels is the number of synthetic bid and ask levels in the drill-down
const DepthLevels = 5

// OHLC holds the day's price points with fallbacks applied
type OHLC struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	PrevClose float64 `json:"prev_close"`
}

// MarketStats holds the instrument's trading statistics
type MarketStats struct {
	LTP        float64 `json:"ltp"`
	Volume     int64   `json:"volume"`
	OI         *int64  `json:"oi,omitempty"`
	Week52Low  float64 `json:"week52_low"`
	Week52High float64 `json:"week52_high"`
}

// DepthLevel is one row of the market depth ladder
type DepthLevel struct {
	Level int     `json:"level"`
	Price float64 `json:"price"`
	Qty   int64   `json:"qty"`
}

// Depth is a mock order book around LTP. It carries no market data.
type Depth struct {
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
}

// Details is the drill-down view of a watch item
type Details struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Exchange  domain.Exchange `json:"exchange"`
	Sector    string          `json:"sector"`
	Group     string          `json:"group"`
	MarketCap float64         `json:"market_cap"`
	OHLC      OHLC            `json:"ohlc"`
	Stats     MarketStats     `json:"stats"`
	Depth     Depth           `json:"depth"`
	Alert     bool            `json:"alert"`
	Note      string          `json:"note"`
	Display   struct {
		MarketCap string `json:"market_cap"`
		Volume    string `json:"volume"`
		OI        string `json:"oi,omitempty"`
		Range52W  string `json:"range_52w"`
	} `json:"display"`
}

// BuildDetails assembles the drill-down of a watch item. Missing open and
// previous close fall back to LTP, as do missing day high and low.
func BuildDetails(item domain.WatchItem) Details {
	d := Details{
		Symbol:    item.Symbol,
		Name:      item.Name,
		Exchange:  domain.EffectiveExchange(item),
		Sector:    item.Sector,
		Group:     domain.EffectiveGroup(item),
		MarketCap: item.MarketCap,
		OHLC: OHLC{
			Open:      domain.EffectiveOpen(item),
			High:      domain.EffectiveHigh(item),
			Low:       domain.EffectiveLow(item),
			PrevClose: domain.EffectiveClose(item),
		},
		Stats: MarketStats{
			LTP:        item.LTP,
			Volume:     item.Volume,
			OI:         item.OI,
			Week52Low:  item.Week52Low,
			Week52High: item.Week52High,
		},
		Depth: mockDepth(item.LTP),
		Alert: item.Alert,
		Note:  item.Note,
	}

	d.Display.MarketCap = domain.FormatCompact(item.MarketCap)
	d.Display.Volume = domain.FormatCompact(float64(item.Volume))
	if item.OI != nil {
		d.Display.OI = domain.FormatCompact(float64(*item.OI))
	}
	d.Display.Range52W = week52Range(item)
	return d
}

func mockDepth(ltp float64) Depth {
	depth := Depth{
		Bids: make([]DepthLevel, 0, DepthLevels),
		Asks: make([]DepthLevel, 0, DepthLevels),
	}
	for lvl := 1; lvl <= DepthLevels; lvl++ {
		qty := int64(1000 * lvl)
		depth.Bids = append(depth.Bids, DepthLevel{Level: lvl, Price: ltp - 0.5*float64(lvl), Qty: qty})
		depth.Asks = append(depth.Asks, DepthLevel{Level: lvl, Price: ltp + 0.5*float64(lvl), Qty: qty})
	}
	return depth
}

// SaveNoteFunc persists a note for a symbol
type SaveNoteFunc func(symbol, note string) error

// Drilldown is an open detail view of one item with an editable note draft.
// It is not safe for concurrent use.
type Drilldown struct {
	item  domain.WatchItem
	draft string
	open  bool
	save  SaveNoteFunc
}

// OpenDrilldown opens a drill-down on item. The draft starts as the item's note.
func OpenDrilldown(item domain.WatchItem, save SaveNoteFunc) *Drilldown {
	return &Drilldown{item: item, draft: item.Note, open: true, save: save}
}

// Details returns the drill-down contents with the current draft as note
func (d *Drilldown) Details() Details {
	details := BuildDetails(d.item)
	details.Note = d.draft
	return details
}

// Draft returns the unsaved note
func (d *Drilldown) Draft() string {
	return d.draft
}

// IsOpen reports whether the drill-down has not been saved or closed
func (d *Drilldown) IsOpen() bool {
	return d.open
}

// SetNote edits the draft
func (d *Drilldown) SetNote(note string) {
	d.draft = note
}

// Save persists the draft and closes the drill-down. On error it stays open.
func (d *Drilldown) Save() error {
	if !d.open {
		return ErrDrilldownClosed
	}
	if d.save != nil {
		if err := d.save(d.item.Symbol, d.draft); err != nil {
			return err
		}
	}
	d.item.Note = d.draft
	d.open = false
	return nil
}

// Close discards the draft
func (d *Drilldown) Close() {
	d.draft = d.item.Note
	d.open = false
}
