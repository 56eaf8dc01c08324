package loader

// Status describes what a project root contributed to a load.
type Status string

// Root statuses.
const (
	StatusOK         Status = "ok"
	StatusMissing    Status = "missing"
	StatusUnreadable Status = "unreadable"
	StatusInvalid    Status = "invalid"
	StatusNoAutoload Status = "no-autoload"
)

// RootReport is the outcome of loading one project root.
type RootReport struct {
	Root     string   `json:"root"`
	Manifest string   `json:"manifest"`
	Status   Status   `json:"status"`
	Rules    int      `json:"rules"`
	Error    string   `json:"error,omitempty"`
	Skipped  []string `json:"skipped,omitempty"`

	Err error `json:"-"`
}

func (rr *RootReport) fail(status Status, err error) {
	rr.Status = status
	rr.Err = err
	rr.Error = err.Error()
}

// Report collects the outcome of every root of a load.
type Report struct {
	Roots []RootReport `json:"roots"`
}

// RuleCount sums the rules contributed by all roots.
func (r *Report) RuleCount() int {
	n := 0
	for _, rr := range r.Roots {
		n += rr.Rules
	}
	return n
}

// Root returns the report for root, if it was loaded.
func (r *Report) Root(root string) (RootReport, bool) {
	for _, rr := range r.Roots {
		if rr.Root == root {
			return rr, true
		}
	}
	return RootReport{}, false
}
