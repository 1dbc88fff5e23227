package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Recorder 캐시 적중/미스 이벤트를 수집합니다.
type Recorder interface {
	Hit(namespace string)
	Miss(namespace string)
}

type nopRecorder struct{}

func (nopRecorder) Hit(string)  {}
func (nopRecorder) Miss(string) {}

// Producer 캐시 미스 시 값을 계산하는 함수
type Producer[V any] func(ctx context.Context) (V, error)

// Result read-through 조회 결과
type Result[V any] struct {
	Value    V
	Hit      bool
	ExpireAt time.Time
}

type readThroughOptions struct {
	coalesce bool
	recorder Recorder
}

// ReadThroughOption ReadThrough 생성 옵션
type ReadThroughOption func(*readThroughOptions)

// WithCoalescing 같은 키에 대한 동시 미스를 하나의 Producer 호출로 합칩니다.
func WithCoalescing(enabled bool) ReadThroughOption {
	return func(o *readThroughOptions) {
		o.coalesce = enabled
	}
}

// WithRecorder 적중/미스 수집기를 설정합니다.
func WithRecorder(r Recorder) ReadThroughOption {
	return func(o *readThroughOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

// ReadThrough 캐시 조회 후 미스일 때만 Producer를 호출하고 결과를 저장합니다.
// Producer 에러는 그대로 반환되며 캐시에 저장되지 않습니다.
type ReadThrough[V any] struct {
	ns       *Namespace[V]
	ttl      time.Duration
	coalesce bool
	recorder Recorder
	group    singleflight.Group
}

// NewReadThrough 새로운 read-through 헬퍼를 생성합니다.
func NewReadThrough[V any](ns *Namespace[V], ttl time.Duration, opts ...ReadThroughOption) *ReadThrough[V] {
	o := readThroughOptions{recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &ReadThrough[V]{
		ns:       ns,
		ttl:      ttl,
		coalesce: o.coalesce,
		recorder: o.recorder,
	}
}

// Namespace 내부 네임스페이스를 반환합니다.
func (r *ReadThrough[V]) Namespace() *Namespace[V] {
	return r.ns
}

// TTL 미스 시 저장에 사용하는 TTL을 반환합니다.
func (r *ReadThrough[V]) TTL() time.Duration {
	return r.ttl
}

// Get 캐시된 값을 반환하거나 produce로 계산해 저장한 뒤 반환합니다.
func (r *ReadThrough[V]) Get(ctx context.Context, key string, produce Producer[V]) (V, error) {
	res, err := r.Fetch(ctx, key, produce)
	return res.Value, err
}

// Fetch Get과 같지만 적중 여부와 만료 시각을 함께 반환합니다.
func (r *ReadThrough[V]) Fetch(ctx context.Context, key string, produce Producer[V]) (Result[V], error) {
	if v, expireAt, ok := r.ns.Lookup(key); ok {
		r.recorder.Hit(r.ns.Name())
		return Result[V]{Value: v, Hit: true, ExpireAt: expireAt}, nil
	}
	r.recorder.Miss(r.ns.Name())

	if !r.coalesce {
		return r.load(ctx, key, produce)
	}

	// 공유 로드는 먼저 들어온 호출의 취소와 분리되어 실행되고, 각 호출은 자신의 ctx만 기다립니다.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		if v, expireAt, ok := r.ns.Lookup(key); ok {
			return Result[V]{Value: v, Hit: true, ExpireAt: expireAt}, nil
		}
		return r.load(loadCtx, key, produce)
	})

	select {
	case shared := <-ch:
		if shared.Err != nil {
			return Result[V]{}, shared.Err
		}
		res, _ := shared.Val.(Result[V])
		return res, nil
	case <-ctx.Done():
		return Result[V]{}, ctx.Err()
	}
}

func (r *ReadThrough[V]) load(ctx context.Context, key string, produce Producer[V]) (Result[V], error) {
	v, err := produce(ctx)
	if err != nil {
		return Result[V]{}, err
	}

	r.ns.Put(key, v, r.ttl)
	_, expireAt, _ := r.ns.Lookup(key)
	return Result[V]{Value: v, ExpireAt: expireAt}, nil
}
