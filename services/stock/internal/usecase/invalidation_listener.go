package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/pkg/messaging"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/constants"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/interfaces"
)

// Subscriber 이벤트 구독 인터페이스
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan messaging.Message, error)
}

// InvalidationListener 다른 인스턴스가 발행한 데이터 변경 이벤트를 받아 로컬 캐시를 비웁니다.
// 자신이 발행한 이벤트는 이미 발행 전에 캐시를 비웠으므로 무시합니다.
type InvalidationListener struct {
	logger     *zap.Logger
	subscriber Subscriber
	channel    string
	instanceID string
	cache      interfaces.CacheUseCase
}

// NewInvalidationListener 새 무효화 리스너 생성
func NewInvalidationListener(
	logger *zap.Logger,
	subscriber Subscriber,
	channel string,
	instanceID string,
	cacheUseCase interfaces.CacheUseCase,
) *InvalidationListener {
	return &InvalidationListener{
		logger:     logger,
		subscriber: subscriber,
		channel:    channel,
		instanceID: instanceID,
		cache:      cacheUseCase,
	}
}

// Run ctx가 취소되거나 구독이 끝날 때까지 이벤트를 처리합니다.
func (l *InvalidationListener) Run(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.channel)
	if err != nil {
		return err
	}
	l.logger.Info("Cache invalidation listener started", zap.String("channel", l.channel))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			l.handle(msg)
		}
	}
}

func (l *InvalidationListener) handle(msg messaging.Message) {
	event, err := msg.Decode()
	if err != nil {
		l.logger.Warn("Malformed event ignored", zap.String("channel", msg.Channel), zap.Error(err))
		return
	}
	if event.Type != constants.EventStockDataUpdated {
		return
	}
	if source, _ := event.Data[constants.EventFieldInstance].(string); source == l.instanceID {
		return
	}

	removed := l.cache.EvictAll()
	l.logger.Info("Cache invalidated by remote update",
		zap.Any("source", event.Data[constants.EventFieldInstance]),
		zap.Int("removed", removed),
	)
}
