package migrate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// fakeChannel 按子串匹配规则回放命令输出的测试通道
// 同一个匹配串配置多个输出时按调用次数依次消费，最后一个输出粘住
type fakeChannel struct {
	host string

	mu           sync.Mutex
	rules        []*fakeRule
	calls        []string
	interactive  []string
	closed       bool
	defaultError error
}

type fakeRule struct {
	match string
	outs  []string
	errs  []error
	idx   int
}

func newFakeChannel(host string) *fakeChannel {
	return &fakeChannel{host: host}
}

func (c *fakeChannel) on(match string, outs ...string) *fakeChannel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, &fakeRule{match: match, outs: outs})
	return c
}

func (c *fakeChannel) onErr(match string, err error) *fakeChannel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, &fakeRule{match: match, errs: []error{err}})
	return c
}

func (c *fakeChannel) Host() string { return c.host }

func (c *fakeChannel) Exec(ctx context.Context, command string, timeout time.Duration) (string, error) {
	return c.run(command, false)
}

func (c *fakeChannel) ExecInteractive(ctx context.Context, command string, timeout time.Duration) (string, error) {
	return c.run(command, true)
}

func (c *fakeChannel) run(command string, interactive bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, command)
	if interactive {
		c.interactive = append(c.interactive, command)
	}
	for _, r := range c.rules {
		if strings.Contains(command, r.match) {
			if len(r.errs) > 0 {
				return "", r.errs[0]
			}
			out := r.outs[r.idx]
			if r.idx < len(r.outs)-1 {
				r.idx++
			}
			return out, nil
		}
	}
	if c.defaultError != nil {
		return "", c.defaultError
	}
	return "", nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) commands() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *fakeChannel) sawCommand(substr string) bool {
	for _, cmd := range c.commands() {
		if strings.Contains(cmd, substr) {
			return true
		}
	}
	return false
}

// fakeDialer 把固定的通道按主机名发回去
type fakeDialer struct {
	mu       sync.Mutex
	channels map[string]*fakeChannel
	dialErr  error
}

func (d *fakeDialer) Dial(ctx context.Context, ep Endpoint) (Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	if ch, ok := d.channels[ep.Host]; ok {
		return ch, nil
	}
	return newFakeChannel(ep.Host), nil
}

func testLogf(lines *[]string) func(string, ...interface{}) {
	var mu sync.Mutex
	return func(format string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		if lines != nil {
			*lines = append(*lines, fmt.Sprintf(format, args...))
		}
	}
}
