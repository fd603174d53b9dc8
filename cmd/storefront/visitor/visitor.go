package visitor

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

type Signer interface {
	CreateHash(s string) string
	CheckHash(s string, hash string) bool
}

// visitor hands out visit tokens and packs them into signed cookie values.
type visitor struct {
	signer  Signer
	isDebug bool
	counter atomic.Int64
}

func New(signer Signer, isDebug bool) *visitor {
	return &visitor{signer: signer, isDebug: isDebug}
}

func (v *visitor) NewToken() string {
	if v.isDebug {
		return "debug_" + strconv.FormatInt(v.counter.Add(1), 10)
	}
	return uuid.NewString()
}

func (v *visitor) Cookie(token string) string {
	return token + "." + v.signer.CreateHash(token)
}

// Token returns the visit token of a cookie value, or false when the value is
// malformed or its signature does not match.
func (v *visitor) Token(cookie string) (string, bool) {
	i := strings.LastIndexByte(cookie, '.')
	if i <= 0 || i == len(cookie)-1 {
		return "", false
	}
	token, hash := cookie[:i], cookie[i+1:]
	if !v.signer.CheckHash(token, hash) {
		return "", false
	}
	return token, true
}
