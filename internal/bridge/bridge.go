// Package bridge describes the host platform object the storefront talks to:
// a readiness signal, a viewport expansion request and a one-way data channel
// back to the bot.
package bridge

// Bridge calls are fire-and-forget; the host never answers.
type Bridge interface {
	Ready()
	Expand()
	SendData(payload string)
}

// Optional is either a present bridge or an absent one. Absence is a normal
// mode (local runs, demos), not an error.
type Optional struct {
	bridge Bridge
}

func Present(b Bridge) Optional {
	return Optional{bridge: b}
}

func Absent() Optional {
	return Optional{}
}

func (o Optional) Get() (Bridge, bool) {
	return o.bridge, o.bridge != nil
}
