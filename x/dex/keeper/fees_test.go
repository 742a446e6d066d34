package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

type FeesTestSuite struct {
	suite.Suite
	env      *keepertest.DexEnv
	creator  sdk.AccAddress
	provider sdk.AccAddress
	trader   sdk.AccAddress
}

func TestFeesTestSuite(t *testing.T) {
	suite.Run(t, new(FeesTestSuite))
}

// SetupTest seeds a kcal/soul pool where provider holds three times the
// creator's liquidity.
func (s *FeesTestSuite) SetupTest() {
	_, _, s.env = keepertest.DexKeeper(s.T())
	s.creator, _ = keepertest.CreateTestPool(s.T(), s.env, soul, kcal, soulReserve, kcalReserve)

	s.provider = fundedTrader(s.T(), s.env, "provider", sdkCoin(kcal, kcalReserve.MulRaw(3)), sdkCoin(soul, soulReserve.MulRaw(3)))
	_, _, _, err := s.env.Keeper.AddLiquidity(s.env.Ctx, s.provider, kcal, kcalReserve.MulRaw(3), soul, math.ZeroInt())
	s.Require().NoError(err)

	s.trader = fundedTrader(s.T(), s.env, "trader", sdkCoin(soul, hundredSoul.MulRaw(10)))
}

func (s *FeesTestSuite) TearDownTest() {
	requireInvariants(s.T(), s.env)
}

func (s *FeesTestSuite) swap() {
	_, _, err := s.env.Keeper.SwapTokens(s.env.Ctx, s.trader, soul, kcal, hundredSoul, math.ZeroInt())
	s.Require().NoError(err)
}

func (s *FeesTestSuite) unclaimedSoul(addr sdk.AccAddress) math.Int {
	pool, owed0, owed1, err := s.env.Keeper.GetUnclaimedFees(s.env.Ctx, addr.String(), soul, kcal)
	s.Require().NoError(err)
	s.Require().Equal(kcal, pool.Denom0)
	s.Require().True(owed0.IsZero())
	return owed1
}

func (s *FeesTestSuite) requireNear(expected, actual math.Int) {
	diff := expected.Sub(actual).Abs()
	s.Require().True(diff.LTE(math.OneInt()), "expected %s, got %s", expected, actual)
}

func (s *FeesTestSuite) TestFeesAccrueProRata() {
	s.swap()

	lpFee := math.NewInt(225_000_000)
	creatorShare := s.unclaimedSoul(s.creator)
	providerShare := s.unclaimedSoul(s.provider)

	s.requireNear(lpFee.QuoRaw(4), creatorShare)
	s.requireNear(lpFee.QuoRaw(4).MulRaw(3), providerShare)
	s.Require().True(creatorShare.Add(providerShare).LTE(lpFee))
	s.Require().True(s.unclaimedSoul(s.trader).IsZero())
}

func (s *FeesTestSuite) TestClaimFeesIsIdempotent() {
	s.swap()
	expected := s.unclaimedSoul(s.creator)
	s.Require().True(expected.IsPositive())

	before := s.env.Balance(s.creator, soul)
	_, paid0, paid1, err := s.env.Keeper.ClaimFees(s.env.Ctx, s.creator, kcal, soul)
	s.Require().NoError(err)
	s.Require().True(paid0.IsZero())
	s.Require().Equal(expected.String(), paid1.String())
	s.Require().Equal(before.Add(expected).String(), s.env.Balance(s.creator, soul).String())

	_, paid0, paid1, err = s.env.Keeper.ClaimFees(s.env.Ctx, s.creator, kcal, soul)
	s.Require().NoError(err)
	s.Require().True(paid0.IsZero())
	s.Require().True(paid1.IsZero())
	s.Require().True(s.unclaimedSoul(s.creator).IsZero())

	// New swaps accrue again.
	s.swap()
	s.Require().True(s.unclaimedSoul(s.creator).IsPositive())
}

func (s *FeesTestSuite) TestFeesSurviveLiquidityChanges() {
	s.swap()
	earned := s.unclaimedSoul(s.provider)

	_, _, _, err := s.env.Keeper.RemoveLiquidity(s.env.Ctx, s.provider, kcal, kcalReserve, soul, math.ZeroInt())
	s.Require().NoError(err)
	s.Require().Equal(earned.String(), s.unclaimedSoul(s.provider).String())

	position, found := s.env.Keeper.GetPosition(s.env.Ctx, kcal, soul, s.provider.String())
	s.Require().True(found)
	s.Require().Equal(earned.String(), position.Owed1.String())

	// A new provider joining after the swap earns nothing from it.
	late := fundedTrader(s.T(), s.env, "late", sdkCoin(kcal, kcalReserve), sdkCoin(soul, soulReserve.MulRaw(2)))
	_, _, _, err = s.env.Keeper.AddLiquidity(s.env.Ctx, late, kcal, kcalReserve, soul, math.ZeroInt())
	s.Require().NoError(err)
	s.Require().True(s.unclaimedSoul(late).IsZero())

	_, _, paid1, err := s.env.Keeper.ClaimFees(s.env.Ctx, s.provider, soul, kcal)
	s.Require().NoError(err)
	s.Require().Equal(earned.String(), paid1.String())
}

func (s *FeesTestSuite) TestClaimWithoutPosition() {
	_, _, _, err := s.env.Keeper.ClaimFees(s.env.Ctx, s.trader, kcal, soul)
	s.Require().ErrorIs(err, types.ErrInsufficientLiquidity)

	_, _, _, err = s.env.Keeper.ClaimFees(s.env.Ctx, s.trader, kcal, "uatom")
	s.Require().ErrorIs(err, types.ErrPoolNotFound)
}

func (s *FeesTestSuite) TestWithdrawProtocolFees() {
	s.swap()
	k := s.env.Keeper
	authority := s.env.Authority.String()
	recipient := keepertest.TestAddress("treasury")
	protocolFee := math.NewInt(75_000_000)

	err := k.WithdrawProtocolFees(s.env.Ctx, s.trader.String(), recipient, kcal, soul, soul, protocolFee)
	s.Require().ErrorIs(err, types.ErrNotAuthorized)

	err = k.WithdrawProtocolFees(s.env.Ctx, authority, recipient, kcal, soul, soul, protocolFee.AddRaw(1))
	s.Require().ErrorIs(err, types.ErrInsufficientLiquidity)

	err = k.WithdrawProtocolFees(s.env.Ctx, authority, recipient, kcal, soul, "uatom", protocolFee)
	s.Require().ErrorIs(err, types.ErrInvalidTokenPair)

	s.Require().NoError(k.WithdrawProtocolFees(s.env.Ctx, authority, recipient, kcal, soul, soul, protocolFee))
	s.Require().Equal(protocolFee.String(), s.env.Balance(recipient, soul).String())

	pool, err := k.GetPool(s.env.Ctx, kcal, soul)
	s.Require().NoError(err)
	s.Require().True(pool.ProtocolFees1.IsZero())
}
