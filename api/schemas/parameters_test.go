package schemas_test

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/botctl/api/schemas"
)

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// TestStructJSONTags pins the wire names of the payloads. The bot ignores keys it
// does not know, so a renamed field silently loses its value.
func TestStructJSONTags(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name         string
		structRef    interface{}
		expectedTags map[string]string
	}{
		{
			name:      "IndicatorParams",
			structRef: schemas.IndicatorParams{},
			expectedTags: map[string]string{
				"MAType":         "ma_type",
				"SrcType":        "src_type",
				"MALength":       "ma_length",
				"Timeframe":      "timeframe",
				"TurnoverPeriod": "turnover_period",
			},
		},
		{
			name:      "BettingParams",
			structRef: schemas.BettingParams{},
			expectedTags: map[string]string{
				"NMax":                "nmax",
				"BettingType":         "betting_type",
				"BalancePerCoin":      "balance_per_coin",
				"LiquidationMDD":      "liquidation_mdd",
				"Leverage":            "leverage",
				"MarginMode":          "margin_mode",
				"SafetyMarginPercent": "safety_margin_percent",
			},
		},
		{
			name:      "SymbolDBQuery",
			structRef: schemas.SymbolDBQuery{},
			expectedTags: map[string]string{
				"ExchangeName":       "exchange_name",
				"ExchangesToExclude": "exchanges_to_exclude",
				"SortBy":             "sort_by",
				"MarketType":         "market_type",
				"Since":              "since",
			},
		},
		{
			name:      "HatikoParams",
			structRef: schemas.HatikoParams{},
			expectedTags: map[string]string{
				"UseKillConfirm": "use_kill_confirm",
				"KillMinute":     "kill_minute",
			},
		},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expectedTags, jsonTags(reflect.TypeOf(tt.structRef)))
		})
	}
}

// TestPayloadsSendEveryKey checks that no payload field can disappear from the
// body: unparsable numbers must reach the API as null.
func TestPayloadsSendEveryKey(t *testing.T) {
	t.Parallel()
	payloads := []interface{}{
		schemas.Empty{},
		schemas.ExchangeRequest{},
		schemas.IndicatorParams{},
		schemas.IndicatorParamsRequest{},
		schemas.SignalParams{},
		schemas.SignalParamsRequest{},
		schemas.BettingParams{},
		schemas.BettingParamsRequest{},
		schemas.SymbolsRequest{},
		schemas.LogLevelRequest{},
		schemas.HatikoParams{},
		schemas.SymbolDateRequest{},
		schemas.SymbolDBQuery{},
	}

	for _, p := range payloads {
		typ := reflect.TypeOf(p)
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			tag, ok := field.Tag.Lookup("json")
			if assert.True(t, ok, "%s.%s has no json tag", typ.Name(), field.Name) {
				assert.Regexp(t, snakeCase, tag, "%s.%s", typ.Name(), field.Name)
			}
		}
	}
}

func jsonTags(typ reflect.Type) map[string]string {
	tags := make(map[string]string)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if tag := field.Tag.Get("json"); tag != "" {
			tags[field.Name] = tag
		}
	}
	return tags
}
