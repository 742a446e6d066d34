package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

type MsgServerTestSuite struct {
	suite.Suite

	env    *keepertest.DexEnv
	msgSrv types.MsgServer
	alice  sdk.AccAddress
	bob    sdk.AccAddress
}

func TestMsgServerTestSuite(t *testing.T) {
	suite.Run(t, new(MsgServerTestSuite))
}

func (s *MsgServerTestSuite) SetupTest() {
	_, _, s.env = keepertest.DexKeeper(s.T())
	s.msgSrv = keeper.NewMsgServerImpl(*s.env.Keeper)

	_, err := s.msgSrv.RegisterToken(s.env.Ctx, types.NewMsgRegisterToken(s.env.Authority.String(), gold, 0))
	s.Require().NoError(err)
	_, err = s.msgSrv.RegisterToken(s.env.Ctx, types.NewMsgRegisterToken(s.env.Authority.String(), silver, 0))
	s.Require().NoError(err)

	s.alice = fundedTrader(s.T(), s.env, "alice", coin(gold, 1_000), coin(silver, 10_000))
	s.bob = fundedTrader(s.T(), s.env, "bob", coin(gold, 1_000), coin(silver, 10_000))
}

func (s *MsgServerTestSuite) TearDownTest() {
	requireInvariants(s.T(), s.env)
}

func (s *MsgServerTestSuite) TestRegisterTokenRequiresAuthority() {
	_, err := s.msgSrv.RegisterToken(s.env.Ctx, types.NewMsgRegisterToken(s.alice.String(), "copper", 2))
	s.Require().ErrorIs(err, types.ErrNotAuthorized)

	_, found := s.env.Keeper.GetToken(s.env.Ctx, "copper")
	s.Require().False(found)
}

func (s *MsgServerTestSuite) TestLimitOrderResponses() {
	maker, err := s.msgSrv.OpenLimitOrder(s.env.Ctx, types.NewMsgOpenLimitOrder(
		s.alice.String(), gold, silver, types.OrderSideSell, math.NewInt(10), math.NewInt(3), false,
	))
	s.Require().NoError(err)
	s.Require().Equal(types.OrderStatusOpen, maker.Status)
	s.Require().True(maker.FilledBase.IsZero())

	taker, err := s.msgSrv.OpenLimitOrder(s.env.Ctx, types.NewMsgOpenLimitOrder(
		s.bob.String(), gold, silver, types.OrderSideBuy, math.NewInt(4), math.NewInt(5), true,
	))
	s.Require().NoError(err)
	s.Require().Equal(types.OrderStatusFilled, taker.Status)
	s.Require().Equal(int64(4), taker.FilledBase.Int64())
	s.Require().Equal(int64(12), taker.FilledQuote.Int64())
	s.Require().Len(taker.Fills, 1)
	s.Require().Equal(maker.OrderID, taker.Fills[0].MakerOrderID)

	cancelled, err := s.msgSrv.CancelExchangeOrder(s.env.Ctx, types.NewMsgCancelExchangeOrder(s.alice.String(), maker.OrderID))
	s.Require().NoError(err)
	s.Require().Equal(int64(6), cancelled.Refunded.Int64())
}

func (s *MsgServerTestSuite) TestMarketBuyReportsRefund() {
	_, err := s.msgSrv.OpenLimitOrder(s.env.Ctx, types.NewMsgOpenLimitOrder(
		s.alice.String(), gold, silver, types.OrderSideSell, math.NewInt(10), math.NewInt(3), false,
	))
	s.Require().NoError(err)

	res, err := s.msgSrv.OpenMarketOrder(s.env.Ctx, types.NewMsgOpenMarketOrder(
		s.bob.String(), gold, silver, types.OrderSideBuy, math.NewInt(50),
	))
	s.Require().NoError(err)
	s.Require().Equal(int64(10), res.FilledBase.Int64())
	s.Require().Equal(int64(30), res.FilledQuote.Int64())
	s.Require().Equal(int64(20), res.Refunded.Int64())

	requireBalance(s.T(), s.env, s.bob, gold, 1_010)
	requireBalance(s.T(), s.env, s.bob, silver, 9_970)
}

func (s *MsgServerTestSuite) TestFailedTakeLeavesOrderUntouched() {
	open, err := s.msgSrv.OpenOTCOrder(s.env.Ctx, types.NewMsgOpenOTCOrder(
		s.alice.String(), gold, silver, math.NewInt(300), math.NewInt(40),
	))
	s.Require().NoError(err)

	// The taker cannot pay; the keeper has already removed the order by then.
	broke := fundedTrader(s.T(), s.env, "broke", coin(gold, 10))
	_, err = s.msgSrv.TakeOTCOrder(s.env.Ctx, types.NewMsgTakeOTCOrder(broke.String(), open.OrderID))
	s.Require().Error(err)

	order, err := s.env.Keeper.GetOTCOrder(s.env.Ctx, open.OrderID)
	s.Require().NoError(err)
	s.Require().Equal(int64(300), order.Amount.Int64())
	requireBalance(s.T(), s.env, broke, gold, 10)
	requireBalance(s.T(), s.env, s.alice, silver, 9_700)

	_, err = s.msgSrv.TakeOTCOrder(s.env.Ctx, types.NewMsgTakeOTCOrder(s.bob.String(), open.OrderID))
	s.Require().NoError(err)
	requireBalance(s.T(), s.env, s.bob, silver, 10_300)
	requireBalance(s.T(), s.env, s.alice, gold, 1_040)

	_, err = s.msgSrv.CancelOTCOrder(s.env.Ctx, types.NewMsgCancelOTCOrder(s.alice.String(), open.OrderID))
	s.Require().ErrorIs(err, types.ErrOrderNotFound)
}

func (s *MsgServerTestSuite) TestValidateBasicRejectsBeforeState() {
	next := s.env.Keeper.GetNextOrderUID(s.env.Ctx)

	_, err := s.msgSrv.OpenLimitOrder(s.env.Ctx, types.NewMsgOpenLimitOrder(
		"not-an-address", gold, silver, types.OrderSideSell, math.NewInt(10), math.NewInt(3), false,
	))
	s.Require().ErrorIs(err, types.ErrInvalidAddress)

	_, err = s.msgSrv.OpenMarketOrder(s.env.Ctx, types.NewMsgOpenMarketOrder(
		s.alice.String(), gold, silver, types.OrderSideBuy, math.ZeroInt(),
	))
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = s.msgSrv.Swap(s.env.Ctx, types.NewMsgSwap(s.alice.String(), gold, gold, math.NewInt(1), math.ZeroInt()))
	s.Require().ErrorIs(err, types.ErrInvalidTokenPair)

	s.Require().Equal(next, s.env.Keeper.GetNextOrderUID(s.env.Ctx))
}

func (s *MsgServerTestSuite) TestPoolLifecycle() {
	created, err := s.msgSrv.CreatePool(s.env.Ctx, types.NewMsgCreatePool(
		s.alice.String(), silver, gold, math.NewInt(4_000), math.NewInt(1_000),
	))
	s.Require().NoError(err)
	s.Require().Equal(gold, created.Denom0)
	s.Require().Equal(silver, created.Denom1)
	s.Require().Equal(int64(2_000), created.Liquidity.Int64())

	added, err := s.msgSrv.AddLiquidity(s.env.Ctx, types.NewMsgAddLiquidity(
		s.bob.String(), gold, silver, math.NewInt(100), math.NewInt(1_000),
	))
	s.Require().NoError(err)
	s.Require().Equal(int64(100), added.AmountA.Int64())
	s.Require().Equal(int64(400), added.AmountB.Int64())
	s.Require().Equal(int64(200), added.Liquidity.Int64())

	removed, err := s.msgSrv.RemoveLiquidity(s.env.Ctx, types.NewMsgRemoveLiquidity(
		s.bob.String(), gold, silver, math.NewInt(50), math.NewInt(200),
	))
	s.Require().NoError(err)
	s.Require().Equal(int64(50), removed.AmountA.Int64())
	s.Require().Equal(int64(200), removed.AmountB.Int64())
	s.Require().Equal(int64(100), removed.Liquidity.Int64())

	swapped, err := s.msgSrv.Swap(s.env.Ctx, types.NewMsgSwap(s.bob.String(), gold, silver, math.NewInt(100), math.NewInt(1)))
	s.Require().NoError(err)
	s.Require().True(swapped.AmountOut.IsPositive())
	s.Require().Len(swapped.Route.Hops, 1)

	claimed, err := s.msgSrv.ClaimFees(s.env.Ctx, types.NewMsgClaimFees(s.alice.String(), gold, silver))
	s.Require().NoError(err)
	s.Require().True(claimed.Amount0.IsPositive())
}

func (s *MsgServerTestSuite) TestWithdrawProtocolFeesRequiresAuthority() {
	_, err := s.msgSrv.CreatePool(s.env.Ctx, types.NewMsgCreatePool(
		s.alice.String(), gold, silver, math.NewInt(1_000), math.NewInt(4_000),
	))
	s.Require().NoError(err)
	_, err = s.msgSrv.Swap(s.env.Ctx, types.NewMsgSwap(s.bob.String(), gold, silver, math.NewInt(100), math.ZeroInt()))
	s.Require().NoError(err)

	pool, err := s.env.Keeper.GetPool(s.env.Ctx, gold, silver)
	s.Require().NoError(err)
	s.Require().True(pool.ProtocolFees0.IsPositive())

	_, err = s.msgSrv.WithdrawProtocolFees(s.env.Ctx, types.NewMsgWithdrawProtocolFees(
		s.alice.String(), s.alice.String(), gold, silver, gold, pool.ProtocolFees0,
	))
	s.Require().ErrorIs(err, types.ErrNotAuthorized)

	treasury := keepertest.TestAddress("treasury")
	_, err = s.msgSrv.WithdrawProtocolFees(s.env.Ctx, types.NewMsgWithdrawProtocolFees(
		s.env.Authority.String(), treasury.String(), gold, silver, gold, pool.ProtocolFees0,
	))
	s.Require().NoError(err)
	s.Require().Equal(pool.ProtocolFees0.String(), s.env.Balance(treasury, gold).String())
}
