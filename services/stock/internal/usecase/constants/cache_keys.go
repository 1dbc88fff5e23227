package constants

import "time"

// 캐시 키 관련 상수
const (
	// ListCachePrefix 태그별 목록 캐시 키 접두사 (stock:list:{TAG}:{page}:{size})
	ListCachePrefix = "stock:list"

	// DetailCachePrefix 주식 상세 캐시 키 접두사 (stock:detail:{ticker})
	DetailCachePrefix = "stock:detail"

	// ListCacheTTL 목록 캐시 유효 시간
	ListCacheTTL = 60 * time.Second

	// DetailCacheTTL 상세 캐시 유효 시간
	DetailCacheTTL = 30 * time.Second
)

// 이벤트 유형
const (
	// EventStockDataUpdated 시뮬레이션으로 주식 데이터가 변경됨
	EventStockDataUpdated = "stock.data.updated"

	// EventFieldInstance 이벤트를 발행한 인스턴스 ID 필드
	EventFieldInstance = "instanceId"
)

// 캐시 삭제 사유 (메트릭 라벨)
const (
	EvictReasonAll     = "all"
	EvictReasonPattern = "pattern"
	EvictReasonTicker  = "ticker"
)
