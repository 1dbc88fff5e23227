package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase"
)

func TestSeedUseCase_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table is filled", func(t *testing.T) {
		repo := &mockStockRepository{}
		var created []*model.Stock
		repo.On("Count", mock.Anything).Return(int64(0), nil)
		repo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*model.Stock)) }).
			Return(nil)

		n, err := usecase.NewSeedUseCase(zap.NewNop(), repo, fixedRandom{}).Seed(ctx, 12, 5)
		require.NoError(t, err)

		assert.Equal(t, 12, n)
		require.Len(t, created, 12)
		assert.Equal(t, "005930", created[0].Ticker)
		assert.Equal(t, "A00012", created[11].Ticker)

		first := created[0]
		require.Len(t, first.Prices, 5)
		require.NotNil(t, first.Statistics)
		assert.Equal(t, int64(5), first.Statistics.ViewCount)
		for i := 1; i < len(first.Prices); i++ {
			assert.True(t, first.Prices[i].PreviousPrice.Equal(first.Prices[i-1].Price))
			assert.True(t, first.Prices[i].Date().After(first.Prices[i-1].Date()))
		}
	})

	t.Run("existing data is kept", func(t *testing.T) {
		repo := &mockStockRepository{}
		repo.On("Count", mock.Anything).Return(int64(3), nil)

		n, err := usecase.NewSeedUseCase(zap.NewNop(), repo, fixedRandom{}).Seed(ctx, 10, 5)

		require.NoError(t, err)
		assert.Zero(t, n)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
