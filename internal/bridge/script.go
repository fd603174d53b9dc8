package bridge

import (
	"encoding/json"
	"strings"
	"sync"
)

const (
	MethodReady    = "ready"
	MethodExpand   = "expand"
	MethodSendData = "sendData"
)

type Call struct {
	Method string
	Arg    *string
}

// Script queues bridge calls so the next rendered page runs them through
// window.Telegram.WebApp.
type Script struct {
	mu    sync.Mutex
	calls []Call
}

func NewScript() *Script {
	return &Script{}
}

func (s *Script) Ready() {
	s.push(Call{Method: MethodReady})
}

func (s *Script) Expand() {
	s.push(Call{Method: MethodExpand})
}

func (s *Script) SendData(payload string) {
	s.push(Call{Method: MethodSendData, Arg: &payload})
}

func (s *Script) push(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

// Drain returns the queued calls and empties the queue.
func (s *Script) Drain() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := s.calls
	s.calls = nil
	return calls
}

// JS renders calls as a self-invoking function that does nothing outside the
// host. Arguments are JSON encoded, which also escapes "<" and ">".
func JS(calls []Call) string {
	if len(calls) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("(function () {\n")
	b.WriteString("  var w = window.Telegram && window.Telegram.WebApp;\n")
	b.WriteString("  if (!w) { return; }\n")
	for _, c := range calls {
		b.WriteString("  w." + c.Method + "(")
		if c.Arg != nil {
			arg, _ := json.Marshal(*c.Arg)
			b.Write(arg)
		}
		b.WriteString(");\n")
	}
	b.WriteString("})();")
	return b.String()
}
