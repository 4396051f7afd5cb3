// Package action maps dashboard action identifiers to typed API requests.
//
// Each identifier resolves to exactly one Descriptor in a static table. A
// descriptor knows its page, HTTP method and path, and carries a builder that
// reads the fields it needs from a Fields source and returns a typed payload.
package action

// ID is an action identifier, the value of a button's data-action attribute.
type ID string

// Page groups actions the way the dashboard lays them out.
type Page string

const (
	PageParams     Page = "params"
	PageSymbols    Page = "symbols"
	PageMonitoring Page = "monitoring"
	PageAdmin      Page = "admin"
	PagePlugins    Page = "plugins"
)

// Pages lists every page in dashboard order.
var Pages = []Page{PageParams, PageSymbols, PageMonitoring, PageAdmin, PagePlugins}

// Params page.
const (
	SetIndicatorParams ID = "set-indicator-params"
	SetSignalParams    ID = "set-signal-params"
	SetBettingParams   ID = "set-betting-params"
	ViewParams         ID = "view-params"
)

// Symbols page.
const (
	ReloadMarkets              ID = "reload-markets"
	AddMultipleSymbols         ID = "add-multiple-symbols"
	RemoveMultipleSymbols      ID = "remove-multiple-symbols"
	RemoveMultipleSymbolsForce ID = "remove-multiple-symbols-force"
	RemoveAllSymbols           ID = "remove-all-symbols"
	RemoveAllSymbolsForce      ID = "remove-all-symbols-force"
	ViewSymbols                ID = "view-symbols"
)

// Monitoring page.
const (
	LogTrace                 ID = "log-trace"
	LogDebug                 ID = "log-debug"
	LogInfo                  ID = "log-info"
	LogSuccess               ID = "log-success"
	LogWarning               ID = "log-warning"
	LogError                 ID = "log-error"
	LogCritical              ID = "log-critical"
	MonitoringParams         ID = "monitoring-params"
	MonitoringSymbols        ID = "monitoring-symbols"
	MonitoringSignalStatus   ID = "monitoring-signal-status"
	MonitoringExchangeStatus ID = "monitoring-exchange-status"
	MonitoringSharedMemory   ID = "monitoring-shared-memory"
	ViewStatus               ID = "view-status"
)

// Admin page.
const (
	OnWhitelist               ID = "on-whitelist"
	OffWhitelist              ID = "off-whitelist"
	ResetExchangeManager      ID = "reset-exchange-manager"
	ViewExchangeManager       ID = "view-exchange-manager"
	Pause                     ID = "pause"
	Resume                    ID = "resume"
	TVHatikoCleanSignalStatus ID = "tv-hatiko-clean-signal-status"
)

// Plugins page.
const (
	TVHatikoSetParams          ID = "tv-hatiko-set-params"
	TVHatikoViewParams         ID = "tv-hatiko-view-params"
	TVHatikoViewSignalStatus   ID = "tv-hatiko-view-signal-status"
	SymbolDBSetSymbolDate      ID = "symbol-db-symbol-date-map-set-symbol-date"
	SymbolDBRemoveFromPending  ID = "symbol-db-symbol-date-map-remove-from-pending-map"
	SymbolDBViewPendingMap     ID = "symbol-db-symbol-date-map-view-pending-map"
	SymbolDBViewSortByTurnover ID = "symbol-db-view-symbol-db-sort-by-turnover"
	SymbolDBViewSortByDate     ID = "symbol-db-view-symbol-db-sort-by-date"
	KCTrendViewStatus          ID = "kc-trend-view-status"
)

// Field identifiers read by the builders. They match the element ids on the
// dashboard pages so an HTML snapshot can serve as a field source.
const (
	FieldPassword = "password"

	FieldIndicatorExchange = "indicator-exchange-name"
	FieldMAType            = "ma-type"
	FieldSrcType           = "src-type"
	FieldMALength          = "ma-length"
	FieldTimeframe         = "timeframe"
	FieldTurnoverPeriod    = "turnover-period"

	FieldSignalExchange    = "signal-exchange-name"
	FieldLevelList         = "level-list"
	FieldCloseDeviation    = "close-deviation"
	FieldNearGap           = "near-gap"
	FieldNearGapType       = "near-gap-type"
	FieldTurnoverThreshold = "turnover-threshold"

	FieldBettingExchange     = "betting-exchange-name"
	FieldNMax                = "nmax"
	FieldBettingType         = "betting-type"
	FieldBalancePerCoin      = "balance-per-coin"
	FieldLiquidationMDD      = "liquidation-mdd"
	FieldLeverage            = "leverage"
	FieldMarginMode          = "margin-mode"
	FieldSafetyMarginPercent = "safety-margin-percent"

	FieldViewExchange        = "view-exchange-name"
	FieldMultiSymbolExchange = "multi-symbol-exchange-name"
	FieldMultiSymbols        = "multi-symbols"
	FieldViewSymbolsExchange = "view-symbols-exchange-name"
	FieldMonitoringExchange  = "monitoring-exchange-name"
	FieldCoreControlExchange = "core-control-exchange-name"

	FieldTVHatikoExchange = "tv-hatiko-exchange-name"
	FieldTVHatikoSymbols  = "tv-hatiko-symbols"
	FieldUseKillConfirm   = "use-kill-confirm"
	FieldKillMinute       = "kill-minute"

	FieldSymbolDateExchange = "symbol-db-symbol-date-map-exchange-name"
	FieldSymbolDateDate     = "symbol-db-symbol-date-map-date"
	FieldSymbolDateSymbols  = "symbol-db-symbol-date-map-multi-symbols"

	FieldSymbolDBExchange         = "symbol-db-view-symbol-db-exchange-name"
	FieldSymbolDBExchangesExclude = "symbol-db-view-symbol-db-exchanges-to-exclude"
	FieldSymbolDBSince            = "symbol-db-view-symbol-db-since"
	FieldSymbolDBMarketType       = "symbol-db-view-symbol-db-market-type"
)
