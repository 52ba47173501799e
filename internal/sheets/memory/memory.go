package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"billpay/internal/core"
	ports "billpay/internal/sheets"
)

var _ ports.OptionsReader = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	opts core.Options
}

func New(opts core.Options) *Store {
	return &Store{opts: core.Options{
		Accounts: dedupe(opts.Accounts),
		Payees:   dedupe(opts.Payees),
		Repeats:  dedupe(opts.Repeats),
	}}
}

// NewFromFiles loads seed_accounts.txt, seed_payees.txt and seed_repeats.txt
// from base. Each line is "value|label|hint"; label and hint are optional.
// Missing or empty files fall back to the built-in options of that kind.
func NewFromFiles(base string) *Store {
	def := core.DefaultOptions()
	opts := core.Options{
		Accounts: readOptions(filepath.Join(base, "seed_accounts.txt"), core.KindAccount),
		Payees:   readOptions(filepath.Join(base, "seed_payees.txt"), core.KindPayee),
		Repeats:  readOptions(filepath.Join(base, "seed_repeats.txt"), core.KindRepeat),
	}
	if len(opts.Accounts) == 0 {
		opts.Accounts = def.Accounts
	}
	if len(opts.Payees) == 0 {
		opts.Payees = def.Payees
	}
	if len(opts.Repeats) == 0 {
		opts.Repeats = def.Repeats
	}
	return New(opts)
}

// ListOptions returns a copy of the option sets.
func (s *Store) ListOptions(_ context.Context) (core.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Options{
		Accounts: append([]core.Option(nil), s.opts.Accounts...),
		Payees:   append([]core.Option(nil), s.opts.Payees...),
		Repeats:  append([]core.Option(nil), s.opts.Repeats...),
	}, nil
}

func readOptions(path string, kind core.OptionKind) []core.Option {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Option
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if o, ok := parseLine(line, kind); ok {
			out = append(out, o)
		}
	}
	return out
}

func parseLine(line string, kind core.OptionKind) (core.Option, bool) {
	parts := strings.SplitN(line, "|", 3)
	o := core.Option{Kind: kind, Value: strings.TrimSpace(parts[0])}
	if o.Value == "" {
		return o, false
	}
	o.Label = o.Value
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		o.Label = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		o.Hint = strings.TrimSpace(parts[2])
	}
	return o, true
}

func dedupe(in []core.Option) []core.Option {
	seen := map[string]struct{}{}
	out := make([]core.Option, 0, len(in))
	for _, o := range in {
		if _, ok := seen[o.Value]; ok {
			continue
		}
		seen[o.Value] = struct{}{}
		out = append(out, o)
	}
	return out
}
