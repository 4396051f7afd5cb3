package action

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/botctl/api/schemas"
)

type fakeFields struct {
	values  map[string]string
	checked map[string][]string
}

func (f fakeFields) Value(id string) (string, bool) {
	v, ok := f.values[id]
	return v, ok
}

func (f fakeFields) Checked(name string) []string {
	return f.checked[name]
}

func num(v float64) *schemas.Number {
	n := schemas.Number(v)
	return &n
}

func TestTable(t *testing.T) {
	all := All()
	require.Len(t, all, 40)

	seen := make(map[ID]bool)
	for _, d := range all {
		assert.False(t, seen[d.ID], "duplicate %s", d.ID)
		seen[d.ID] = true
		assert.True(t, strings.HasPrefix(d.Path, "/"), "%s path %q", d.ID, d.Path)

		req, err := d.Build(&recorder{})
		require.NoError(t, err)
		assert.Equal(t, d.Method, req.Method, "%s method must follow its payload", d.ID)

		got, ok := Lookup(string(d.ID))
		require.True(t, ok)
		assert.Equal(t, d.ID, got.ID)
	}

	pages := map[Page]int{
		PageParams:     4,
		PageSymbols:    7,
		PageMonitoring: 13,
		PageAdmin:      7,
		PagePlugins:    9,
	}
	for page, n := range pages {
		assert.Len(t, ByPage(page), n, "page %s", page)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("launch-rocket")
	assert.False(t, ok)
	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestGetActionsHaveNoBody(t *testing.T) {
	for _, id := range []ID{OnWhitelist, OffWhitelist} {
		d, ok := Lookup(string(id))
		require.True(t, ok)

		req, err := d.Build(nil)
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.False(t, req.HasBody())

		body, err := req.WithPassword("pw").Body()
		require.NoError(t, err)
		assert.Nil(t, body)
	}
}

func TestBuildPayloads(t *testing.T) {
	fields := fakeFields{
		values: map[string]string{
			FieldIndicatorExchange: " binance ",
			FieldMAType:            "EMA",
			FieldSrcType:           "close",
			FieldMALength:          "20",
			FieldTimeframe:         "1h",
			FieldTurnoverPeriod:    "",

			FieldSignalExchange:    "bybit",
			FieldLevelList:         "0.5, 1, x,",
			FieldCloseDeviation:    "0.1",
			FieldNearGap:           "abc",
			FieldNearGapType:       "percent",
			FieldTurnoverThreshold: "1e6",

			FieldUseKillConfirm: "True",
			FieldKillMinute:     "15min",

			FieldSymbolDBExchange:   "okx",
			FieldSymbolDBMarketType: "swap",
			FieldSymbolDBSince:      "2024-01-01",
		},
		checked: map[string][]string{
			FieldSymbolDBExchangesExclude: {"binance", "bybit"},
		},
	}

	tests := []struct {
		id   ID
		want any
	}{
		{
			id: SetIndicatorParams,
			want: schemas.IndicatorParamsRequest{
				ExchangeName: "binance",
				IndicatorParams: schemas.IndicatorParams{
					MAType:    "EMA",
					SrcType:   "close",
					MALength:  num(20),
					Timeframe: "1h",
				},
			},
		},
		{
			id: SetSignalParams,
			want: schemas.SignalParamsRequest{
				ExchangeName: "bybit",
				SignalParams: schemas.SignalParams{
					LevelList:         []*schemas.Number{num(0.5), num(1), nil},
					CloseDeviation:    num(0.1),
					NearGapType:       "percent",
					TurnoverThreshold: num(1e6),
				},
			},
		},
		{
			id:   TVHatikoSetParams,
			want: schemas.HatikoParams{UseKillConfirm: true, KillMinute: num(15)},
		},
		{
			id: SymbolDBViewSortByDate,
			want: schemas.SymbolDBQuery{
				ExchangeName:       "okx",
				ExchangesToExclude: []string{"binance", "bybit"},
				SortBy:             "date",
				MarketType:         "swap",
				Since:              "2024-01-01",
			},
		},
		{
			id:   LogSuccess,
			want: schemas.LogLevelRequest{LogLevel: "SUCCESS"},
		},
		{
			id:   KCTrendViewStatus,
			want: schemas.Empty{},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			d, ok := Lookup(string(tt.id))
			require.True(t, ok)
			req, err := d.Build(fields)
			require.NoError(t, err)
			assert.Equal(t, http.MethodPost, req.Method)
			if diff := cmp.Diff(tt.want, req.Payload); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildMissingField(t *testing.T) {
	d, ok := Lookup(string(ViewParams))
	require.True(t, ok)

	_, err := d.Build(fakeFields{})
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, FieldViewExchange, missing.ID)
	assert.Contains(t, err.Error(), `field "view-exchange-name" not found`)
}

func TestBuildFirstMissingFieldIsReported(t *testing.T) {
	d, _ := Lookup(string(SetBettingParams))
	_, err := d.Build(fakeFields{values: map[string]string{FieldBettingExchange: "binance"}})

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, FieldNMax, missing.ID)
}

func TestInputs(t *testing.T) {
	d, _ := Lookup(string(SymbolDBViewSortByTurnover))
	in := d.Inputs()
	assert.Equal(t, []string{
		FieldSymbolDBExchange,
		FieldSymbolDBMarketType,
		FieldSymbolDBSince,
	}, in.Values)
	assert.Equal(t, []string{FieldSymbolDBExchangesExclude}, in.Checked)

	d, _ = Lookup(string(ReloadMarkets))
	assert.Empty(t, d.Inputs().Values)
}
