package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// RegisterCodec registers the module's concrete message types on the amino codec
// used for sign bytes and JSON output.
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgOpenLimitOrder{}, "dex/MsgOpenLimitOrder", nil)
	cdc.RegisterConcrete(&MsgOpenMarketOrder{}, "dex/MsgOpenMarketOrder", nil)
	cdc.RegisterConcrete(&MsgCancelExchangeOrder{}, "dex/MsgCancelExchangeOrder", nil)
	cdc.RegisterConcrete(&MsgOpenOTCOrder{}, "dex/MsgOpenOTCOrder", nil)
	cdc.RegisterConcrete(&MsgTakeOTCOrder{}, "dex/MsgTakeOTCOrder", nil)
	cdc.RegisterConcrete(&MsgCancelOTCOrder{}, "dex/MsgCancelOTCOrder", nil)
	cdc.RegisterConcrete(&MsgCreatePool{}, "dex/MsgCreatePool", nil)
	cdc.RegisterConcrete(&MsgAddLiquidity{}, "dex/MsgAddLiquidity", nil)
	cdc.RegisterConcrete(&MsgRemoveLiquidity{}, "dex/MsgRemoveLiquidity", nil)
	cdc.RegisterConcrete(&MsgSwap{}, "dex/MsgSwap", nil)
	cdc.RegisterConcrete(&MsgSwapFee{}, "dex/MsgSwapFee", nil)
	cdc.RegisterConcrete(&MsgClaimFees{}, "dex/MsgClaimFees", nil)
	cdc.RegisterConcrete(&MsgWithdrawProtocolFees{}, "dex/MsgWithdrawProtocolFees", nil)
	cdc.RegisterConcrete(&MsgRegisterToken{}, "dex/MsgRegisterToken", nil)
}

var amino = codec.NewLegacyAmino()

func init() {
	RegisterCodec(amino)
	amino.Seal()
}
