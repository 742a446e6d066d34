package keeper

import (
	"math/big"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DEXMetrics holds all Prometheus metrics for the DEX module
type DEXMetrics struct {
	// Order book metrics
	OrdersOpened    *prometheus.CounterVec
	OrdersClosed    *prometheus.CounterVec
	OrdersCancelled *prometheus.CounterVec
	OrderFills      *prometheus.CounterVec
	OTCOrders       *prometheus.CounterVec
	RestingOrders   *prometheus.GaugeVec

	// Swap metrics
	SwapsTotal        *prometheus.CounterVec
	SwapVolume        *prometheus.CounterVec
	SwapFeesCollected *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	FeeClaims        *prometheus.CounterVec

	// Pool metrics
	PoolsTotal       prometheus.Gauge
	PoolCreationRate prometheus.Counter

	ProtocolFeesWithdrawn *prometheus.CounterVec
}

var (
	dexMetricsOnce sync.Once
	dexMetrics     *DEXMetrics
)

// NewDEXMetrics creates and registers DEX metrics (singleton pattern)
func NewDEXMetrics() *DEXMetrics {
	dexMetricsOnce.Do(func() {
		dexMetrics = &DEXMetrics{
			OrdersOpened: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "orders_opened_total",
					Help:      "Exchange orders opened",
				},
				[]string{"pair", "side", "kind"},
			),
			OrdersClosed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "orders_closed_total",
					Help:      "Exchange orders fully filled",
				},
				[]string{"pair", "side"},
			),
			OrdersCancelled: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "orders_cancelled_total",
					Help:      "Exchange orders cancelled, including IoC remainders",
				},
				[]string{"pair", "side", "reason"},
			),
			OrderFills: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "order_fills_total",
					Help:      "Maker/taker fills executed by the matcher",
				},
				[]string{"pair"},
			),
			OTCOrders: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "otc_orders_total",
					Help:      "OTC order lifecycle events",
				},
				[]string{"pair", "event"},
			),
			RestingOrders: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "resting_orders",
					Help:      "Orders resting on the book at the end of the last block",
				},
				[]string{"side"},
			),
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"pair", "hops"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in atomic units",
				},
				[]string{"denom_in"},
			),
			SwapFeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "swap_fees_collected_total",
					Help:      "Swap fees collected, split by recipient",
				},
				[]string{"denom", "recipient"},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "liquidity_added_total",
					Help:      "Liquidity deposits",
				},
				[]string{"pair"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "liquidity_removed_total",
					Help:      "Liquidity withdrawals",
				},
				[]string{"pair"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "pool_reserves",
					Help:      "Current pool reserves in atomic units",
				},
				[]string{"pair", "denom"},
			),
			FeeClaims: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "fee_claims_total",
					Help:      "LP fee claims paid",
				},
				[]string{"pair"},
			),
			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "pools_total",
					Help:      "Total number of liquidity pools",
				},
			),
			PoolCreationRate: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "pool_creations_total",
					Help:      "Total number of pools created",
				},
			),
			ProtocolFeesWithdrawn: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dexchain",
					Subsystem: "dex",
					Name:      "protocol_fees_withdrawn_total",
					Help:      "Protocol fees paid out by governance",
				},
				[]string{"denom"},
			),
		}
	})
	return dexMetrics
}

// GetDEXMetrics returns the singleton DEX metrics instance
func GetDEXMetrics() *DEXMetrics {
	if dexMetrics == nil {
		return NewDEXMetrics()
	}
	return dexMetrics
}

// intToFloat converts an amount for metric reporting only.
func intToFloat(v sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

func pairLabel(a, b string) string {
	return a + "/" + b
}
