package storefront

// Field names a required draft field.
type Field int

const (
	FieldServer Field = iota
	FieldPlayerID
	FieldAmount
)

func (f Field) String() string {
	switch f {
	case FieldServer:
		return "server"
	case FieldPlayerID:
		return "player_id"
	case FieldAmount:
		return "amount"
	}
	return "unknown"
}

// Draft is the in-progress selection. An empty string means unset.
type Draft struct {
	Server   string
	PlayerID string
	Amount   string
}

func (d Draft) Missing() []Field {
	var missing []Field
	if d.Server == "" {
		missing = append(missing, FieldServer)
	}
	if d.PlayerID == "" {
		missing = append(missing, FieldPlayerID)
	}
	if d.Amount == "" {
		missing = append(missing, FieldAmount)
	}
	return missing
}

type State int

const (
	StateEmpty State = iota
	StatePartiallyFilled
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartiallyFilled:
		return "partially_filled"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

func (d Draft) State() State {
	switch len(d.Missing()) {
	case 0:
		return StateComplete
	case 3:
		return StateEmpty
	default:
		return StatePartiallyFilled
	}
}
