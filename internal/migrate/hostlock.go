package migrate

import "sync"

// hostPairLocks 主机对级别的进程内咨询锁
// 同一对源/目标主机上的客户机流水线串行执行，避免两条流水线在同一工作目录互相踩踏
type hostPairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newHostPairLocks() *hostPairLocks {
	return &hostPairLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire 按无序主机对加锁，返回解锁函数
func (l *hostPairLocks) Acquire(a, b string) func() {
	key := a + "|" + b
	if b < a {
		key = b + "|" + a
	}

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
