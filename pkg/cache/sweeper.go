package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// sweepLoop 요청 트래픽과 무관하게 주기적으로 만료 엔트리를 정리합니다.
// 한 번 쓰이고 다시 읽히지 않는 키 때문에 메모리가 늘어나는 것을 막습니다.
func (s *MemoryStore) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	s.logger.Debug("Cache sweeper started", zap.Duration("interval", s.sweepInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cache sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
