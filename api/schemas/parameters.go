package schemas

// This file defines the JSON payloads the console sends to the bot's admin API.
// Numeric fields are pointers: a value the form could not parse is sent as null,
// which the API treats as "not provided". Field order is the wire order.

// Empty is the payload of actions that send nothing but the password.
type Empty struct{}

type ExchangeRequest struct {
	ExchangeName string `json:"exchange_name"`
}

type IndicatorParams struct {
	MAType         string  `json:"ma_type"`
	SrcType        string  `json:"src_type"`
	MALength       *Number `json:"ma_length"`
	Timeframe      string  `json:"timeframe"`
	TurnoverPeriod *Number `json:"turnover_period"`
}

type IndicatorParamsRequest struct {
	ExchangeName    string          `json:"exchange_name"`
	IndicatorParams IndicatorParams `json:"indicator_params"`
}

type SignalParams struct {
	LevelList         []*Number `json:"level_list"`
	CloseDeviation    *Number   `json:"close_deviation"`
	NearGap           *Number   `json:"near_gap"`
	NearGapType       string    `json:"near_gap_type"`
	TurnoverThreshold *Number   `json:"turnover_threshold"`
}

type SignalParamsRequest struct {
	ExchangeName string       `json:"exchange_name"`
	SignalParams SignalParams `json:"signal_params"`
}

// BettingParams controls position sizing for one exchange.
type BettingParams struct {
	NMax                *Number `json:"nmax"`
	BettingType         string  `json:"betting_type"`
	BalancePerCoin      *Number `json:"balance_per_coin"`
	LiquidationMDD      *Number `json:"liquidation_mdd"`
	Leverage            *Number `json:"leverage"`
	MarginMode          string  `json:"margin_mode"`
	SafetyMarginPercent *Number `json:"safety_margin_percent"`
}

type BettingParamsRequest struct {
	ExchangeName  string        `json:"exchange_name"`
	BettingParams BettingParams `json:"betting_params"`
}

// SymbolsRequest names a set of symbols on one exchange. Symbols is never nil so
// it encodes as [] rather than null.
type SymbolsRequest struct {
	ExchangeName string   `json:"exchange_name"`
	Symbols      []string `json:"symbols"`
}

type LogLevelRequest struct {
	LogLevel string `json:"log_level"`
}

// HatikoParams configures the TradingView "hatiko" signal plugin.
type HatikoParams struct {
	UseKillConfirm bool    `json:"use_kill_confirm"`
	KillMinute     *Number `json:"kill_minute"`
}

type SymbolDateRequest struct {
	ExchangeName string   `json:"exchange_name"`
	Date         string   `json:"date"`
	Symbols      []string `json:"symbols"`
}

// SymbolDBQuery filters and sorts the symbol listing database.
type SymbolDBQuery struct {
	ExchangeName       string   `json:"exchange_name"`
	ExchangesToExclude []string `json:"exchanges_to_exclude"`
	SortBy             string   `json:"sort_by"`
	MarketType         string   `json:"market_type"`
	Since              string   `json:"since"`
}
