package core

const (
	KindAccount OptionKind = "account"
	KindPayee   OptionKind = "payee"
	KindRepeat  OptionKind = "repeat"
)

type (
	// OptionKind says which selector an option belongs to.
	OptionKind string

	// Option is one choice offered for FromAccount, Payee or Repeat. The
	// core only ever sees Value.
	Option struct {
		Kind  OptionKind
		Value string
		Label string
		Hint  string
	}

	// Options groups the finite option sets shown by the presentation layer.
	Options struct {
		Accounts []Option
		Payees   []Option
		Repeats  []Option
	}
)

// IsValid returns true if the kind is one of the known selectors.
func (k OptionKind) IsValid() bool {
	switch k {
	case KindAccount, KindPayee, KindRepeat:
		return true
	default:
		return false
	}
}

// DefaultOptions returns the built-in option sets.
func DefaultOptions() Options {
	return Options{
		Accounts: []Option{
			{Kind: KindAccount, Value: "12000", Label: "My Checking Account: $12000"},
			{Kind: KindAccount, Value: "1200", Label: "My Other Account: $1200"},
			{Kind: KindAccount, Value: "20", Label: "My Another Account: $20"},
		},
		Payees: []Option{
			{Kind: KindPayee, Value: "London Hydro", Label: "London Hydro", Hint: "Last payment was 2 days ago"},
			{Kind: KindPayee, Value: "Berlin Vydro", Label: "Berlin Vydro", Hint: "Last payment was 3 days ago"},
			{Kind: KindPayee, Value: "Miami Bobr", Label: "Miami Bobr", Hint: "Last payment was 4 days ago"},
		},
		Repeats: []Option{
			{Kind: KindRepeat, Value: "2", Label: "Every 2 month till Oct 12.23"},
			{Kind: KindRepeat, Value: "3", Label: "Every 3 month till Oct 12.23"},
			{Kind: KindRepeat, Value: "4", Label: "Every 4 month till Oct 12.23"},
		},
	}
}

// Group builds Options from a flat list, keeping input order and skipping
// options of unknown kind.
func Group(all []Option) Options {
	var out Options
	for _, o := range all {
		switch o.Kind {
		case KindAccount:
			out.Accounts = append(out.Accounts, o)
		case KindPayee:
			out.Payees = append(out.Payees, o)
		case KindRepeat:
			out.Repeats = append(out.Repeats, o)
		}
	}
	return out
}

// All flattens the option sets in account, payee, repeat order.
func (o Options) All() []Option {
	out := make([]Option, 0, len(o.Accounts)+len(o.Payees)+len(o.Repeats))
	out = append(out, o.Accounts...)
	out = append(out, o.Payees...)
	return append(out, o.Repeats...)
}

// PayeeHint returns the hint of the payee with the given value, if any.
func (o Options) PayeeHint(payee string) string {
	for _, p := range o.Payees {
		if p.Value == payee {
			return p.Hint
		}
	}
	return ""
}

// IsEmpty reports whether no option of any kind is present.
func (o Options) IsEmpty() bool {
	return len(o.Accounts) == 0 && len(o.Payees) == 0 && len(o.Repeats) == 0
}
