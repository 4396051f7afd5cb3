package action

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xkilldash9x/botctl/api/schemas"
)

// Descriptor is the static description of one action.
type Descriptor struct {
	ID     ID
	Page   Page
	Method string
	Path   string

	build func(r *reader) any
}

// Build reads the descriptor's fields from f and returns the request. The
// password is not attached; see Request.WithPassword. If the builder references a
// field f does not have, Build returns a *MissingFieldError.
func (d Descriptor) Build(f Fields) (Request, error) {
	if f == nil {
		f = noFields{}
	}
	r := &reader{fields: f}
	payload := d.build(r)
	if r.err != nil {
		return Request{}, r.err
	}
	return Request{
		Action:  d.ID,
		Method:  methodFor(payload),
		Path:    d.Path,
		Payload: payload,
	}, nil
}

// Inputs lists the fields an action reads.
type Inputs struct {
	Values  []string
	Checked []string
}

// Inputs reports the field ids and checkbox group names the builder reads.
func (d Descriptor) Inputs() Inputs {
	rec := &recorder{}
	d.build(&reader{fields: rec})
	return Inputs{Values: rec.values, Checked: rec.checked}
}

// Lookup resolves an action identifier.
func Lookup(id string) (Descriptor, bool) {
	i, ok := index[ID(id)]
	if !ok {
		return Descriptor{}, false
	}
	return table[i], true
}

// All returns every descriptor in dashboard order.
func All() []Descriptor {
	out := make([]Descriptor, len(table))
	copy(out, table)
	return out
}

// ByPage returns the descriptors of one page in dashboard order.
func ByPage(p Page) []Descriptor {
	var out []Descriptor
	for _, d := range table {
		if d.Page == p {
			out = append(out, d)
		}
	}
	return out
}

var index = func() map[ID]int {
	m := make(map[ID]int, len(table))
	for i, d := range table {
		if _, dup := m[d.ID]; dup {
			panic(fmt.Sprintf("action: duplicate descriptor %q", d.ID))
		}
		m[d.ID] = i
	}
	return m
}()

func post(id ID, page Page, path string, build func(r *reader) any) Descriptor {
	return Descriptor{ID: id, Page: page, Method: http.MethodPost, Path: path, build: build}
}

func get(id ID, page Page, path string) Descriptor {
	return Descriptor{ID: id, Page: page, Method: http.MethodGet, Path: path, build: noBody}
}

var table = []Descriptor{
	post(SetIndicatorParams, PageParams, "/set_indicator_params", indicatorParams),
	post(SetSignalParams, PageParams, "/set_signal_params", signalParams),
	post(SetBettingParams, PageParams, "/set_betting_params", bettingParams),
	post(ViewParams, PageParams, "/view_params", exchange(FieldViewExchange)),

	post(ReloadMarkets, PageSymbols, "/reload_markets", passwordOnly),
	post(AddMultipleSymbols, PageSymbols, "/add_symbols", symbols(FieldMultiSymbolExchange, FieldMultiSymbols)),
	post(RemoveMultipleSymbols, PageSymbols, "/remove_symbols", symbols(FieldMultiSymbolExchange, FieldMultiSymbols)),
	post(RemoveMultipleSymbolsForce, PageSymbols, "/remove_symbols_force", symbols(FieldMultiSymbolExchange, FieldMultiSymbols)),
	post(RemoveAllSymbols, PageSymbols, "/remove_all_symbols", exchange(FieldMultiSymbolExchange)),
	post(RemoveAllSymbolsForce, PageSymbols, "/remove_all_symbols_force", exchange(FieldMultiSymbolExchange)),
	post(ViewSymbols, PageSymbols, "/view_symbols", exchange(FieldViewSymbolsExchange)),

	post(LogTrace, PageMonitoring, "/log_level", logLevel(LogTrace)),
	post(LogDebug, PageMonitoring, "/log_level", logLevel(LogDebug)),
	post(LogInfo, PageMonitoring, "/log_level", logLevel(LogInfo)),
	post(LogSuccess, PageMonitoring, "/log_level", logLevel(LogSuccess)),
	post(LogWarning, PageMonitoring, "/log_level", logLevel(LogWarning)),
	post(LogError, PageMonitoring, "/log_level", logLevel(LogError)),
	post(LogCritical, PageMonitoring, "/log_level", logLevel(LogCritical)),
	post(MonitoringParams, PageMonitoring, "/view_params", exchange(FieldMonitoringExchange)),
	post(MonitoringSymbols, PageMonitoring, "/view_symbols", exchange(FieldMonitoringExchange)),
	post(MonitoringSignalStatus, PageMonitoring, "/view_signal_status", exchange(FieldMonitoringExchange)),
	post(MonitoringExchangeStatus, PageMonitoring, "/view_exchange_status", exchange(FieldMonitoringExchange)),
	post(MonitoringSharedMemory, PageMonitoring, "/view_shared_memory", passwordOnly),
	post(ViewStatus, PageMonitoring, "/view_status", exchange(FieldMonitoringExchange)),

	get(OnWhitelist, PageAdmin, "/use_whitelist/1"),
	get(OffWhitelist, PageAdmin, "/use_whitelist/0"),
	post(ResetExchangeManager, PageAdmin, "/reset_exchange_manager", exchange(FieldCoreControlExchange)),
	post(ViewExchangeManager, PageAdmin, "/view_exchange_status", exchange(FieldCoreControlExchange)),
	post(Pause, PageAdmin, "/pause", exchange(FieldCoreControlExchange)),
	post(Resume, PageAdmin, "/resume", exchange(FieldCoreControlExchange)),
	post(TVHatikoCleanSignalStatus, PageAdmin, "/tv_hatiko/clean_signal_status", symbols(FieldTVHatikoExchange, FieldTVHatikoSymbols)),

	post(TVHatikoSetParams, PagePlugins, "/tv_hatiko/set_params", hatikoParams),
	post(TVHatikoViewParams, PagePlugins, "/tv_hatiko/view_params", passwordOnly),
	post(TVHatikoViewSignalStatus, PagePlugins, "/tv_hatiko/view_signal_status", passwordOnly),
	post(SymbolDBSetSymbolDate, PagePlugins, "/symbol_db/set_symbol_date", symbolDate),
	post(SymbolDBRemoveFromPending, PagePlugins, "/symbol_db/remove_symbol_date_pending_map", symbols(FieldSymbolDateExchange, FieldSymbolDateSymbols)),
	// The backend route carries the typo.
	post(SymbolDBViewPendingMap, PagePlugins, "/symbol_db/view_symobl_date_pending_map", exchange(FieldSymbolDateExchange)),
	post(SymbolDBViewSortByTurnover, PagePlugins, "/symbol_db/view_symbol_db", symbolDB("turnover")),
	post(SymbolDBViewSortByDate, PagePlugins, "/symbol_db/view_symbol_db", symbolDB("date")),
	post(KCTrendViewStatus, PagePlugins, "/kc_trend/view_status", passwordOnly),
}

func noBody(*reader) any { return nil }

func passwordOnly(*reader) any { return schemas.Empty{} }

func exchange(field string) func(*reader) any {
	return func(r *reader) any {
		return schemas.ExchangeRequest{ExchangeName: r.text(field)}
	}
}

func symbols(exchangeField, symbolsField string) func(*reader) any {
	return func(r *reader) any {
		return schemas.SymbolsRequest{
			ExchangeName: r.text(exchangeField),
			Symbols:      r.list(symbolsField),
		}
	}
}

// logLevel derives the level from the identifier: log-warning sends WARNING.
func logLevel(id ID) func(*reader) any {
	level := strings.ToUpper(strings.TrimPrefix(string(id), "log-"))
	return func(*reader) any {
		return schemas.LogLevelRequest{LogLevel: level}
	}
}

func indicatorParams(r *reader) any {
	return schemas.IndicatorParamsRequest{
		ExchangeName: r.text(FieldIndicatorExchange),
		IndicatorParams: schemas.IndicatorParams{
			MAType:         r.text(FieldMAType),
			SrcType:        r.text(FieldSrcType),
			MALength:       r.integer(FieldMALength),
			Timeframe:      r.text(FieldTimeframe),
			TurnoverPeriod: r.integer(FieldTurnoverPeriod),
		},
	}
}

func signalParams(r *reader) any {
	return schemas.SignalParamsRequest{
		ExchangeName: r.text(FieldSignalExchange),
		SignalParams: schemas.SignalParams{
			LevelList:         r.numbers(FieldLevelList),
			CloseDeviation:    r.float(FieldCloseDeviation),
			NearGap:           r.float(FieldNearGap),
			NearGapType:       r.text(FieldNearGapType),
			TurnoverThreshold: r.float(FieldTurnoverThreshold),
		},
	}
}

func bettingParams(r *reader) any {
	return schemas.BettingParamsRequest{
		ExchangeName: r.text(FieldBettingExchange),
		BettingParams: schemas.BettingParams{
			NMax:                r.integer(FieldNMax),
			BettingType:         r.text(FieldBettingType),
			BalancePerCoin:      r.float(FieldBalancePerCoin),
			LiquidationMDD:      r.float(FieldLiquidationMDD),
			Leverage:            r.integer(FieldLeverage),
			MarginMode:          r.text(FieldMarginMode),
			SafetyMarginPercent: r.float(FieldSafetyMarginPercent),
		},
	}
}

func hatikoParams(r *reader) any {
	return schemas.HatikoParams{
		UseKillConfirm: r.flag(FieldUseKillConfirm),
		KillMinute:     r.integer(FieldKillMinute),
	}
}

func symbolDate(r *reader) any {
	return schemas.SymbolDateRequest{
		ExchangeName: r.text(FieldSymbolDateExchange),
		Date:         r.text(FieldSymbolDateDate),
		Symbols:      r.list(FieldSymbolDateSymbols),
	}
}

func symbolDB(sortBy string) func(*reader) any {
	return func(r *reader) any {
		return schemas.SymbolDBQuery{
			ExchangeName:       r.text(FieldSymbolDBExchange),
			ExchangesToExclude: r.checked(FieldSymbolDBExchangesExclude),
			SortBy:             sortBy,
			MarketType:         r.text(FieldSymbolDBMarketType),
			Since:              r.text(FieldSymbolDBSince),
		}
	}
}
