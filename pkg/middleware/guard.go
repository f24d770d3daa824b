package middleware

import (
	"net/http"
	"net/url"

	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/metrics"
	"github.com/amiskov/spendahead/pkg/route"
	"github.com/amiskov/spendahead/pkg/session"
)

type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectDashboard
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "login"
	case RedirectDashboard:
		return "dashboard"
	default:
		return "allow"
	}
}

type Decision struct {
	Outcome  Outcome
	Location string // empty for Allow
}

type Paths struct {
	Login     string `yaml:"login"`
	Dashboard string `yaml:"dashboard"`
}

func DefaultPaths() Paths {
	return Paths{Login: "/auth/login", Dashboard: "/dashboard"}
}

// Decide turns session validity and the route class into one outcome.
// Rules are checked in order: unauthenticated on a protected route, then
// authenticated on a public-auth route, then the root path.
func Decide(valid bool, class route.Class, path string, paths Paths) Decision {
	switch {
	case !valid && class.IsProtected:
		q := url.Values{"redirect": {path}}
		return Decision{Outcome: RedirectLogin, Location: paths.Login + "?" + q.Encode()}
	case valid && class.IsPublicAuth:
		return Decision{Outcome: RedirectDashboard, Location: paths.Dashboard}
	case path == "/":
		if valid {
			return Decision{Outcome: RedirectDashboard, Location: paths.Dashboard}
		}
		return Decision{Outcome: RedirectLogin, Location: paths.Login}
	default:
		return Decision{Outcome: Allow}
	}
}

type GuardConfig struct {
	CookieName string
	Paths      Paths
	// Exclusions bypass the guard entirely, see route.Excluder.
	Exclusions []string
	Metrics    *metrics.Metrics
}

// Guard is the page route guard. It is immutable after construction.
type Guard struct {
	validator  *session.Validator
	classifier *route.Classifier
	excluder   *route.Excluder
	cookieName string
	paths      Paths
	metrics    *metrics.Metrics
}

func NewGuard(v *session.Validator, c *route.Classifier, cfg GuardConfig) *Guard {
	if cfg.CookieName == "" {
		cfg.CookieName = session.DefaultCookieName
	}
	def := DefaultPaths()
	if cfg.Paths.Login == "" {
		cfg.Paths.Login = def.Login
	}
	if cfg.Paths.Dashboard == "" {
		cfg.Paths.Dashboard = def.Dashboard
	}
	return &Guard{
		validator:  v,
		classifier: c,
		excluder:   route.NewExcluder(cfg.Exclusions),
		cookieName: cfg.CookieName,
		paths:      cfg.Paths,
		metrics:    cfg.Metrics,
	}
}

// Evaluate runs validator, classifier and decision for one request.
func (g *Guard) Evaluate(r *http.Request) (Decision, session.Result) {
	raw, present := sessionCookie(r, g.cookieName)
	res := g.validator.Validate(raw, present)
	path := r.URL.Path
	return Decide(res.Valid(), g.classifier.Classify(path), path, g.paths), res
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.excluder.Excluded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		d, res := g.Evaluate(r)
		g.metrics.GuardDecision(d.Outcome.String())

		if d.Outcome == Allow {
			next.ServeHTTP(w, r)
			return
		}

		logger.Log(r.Context()).Debugw("guard: redirecting",
			"path", r.URL.Path,
			"location", d.Location,
			"session", sessionReason(res),
		)
		http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
	})
}

func sessionReason(res session.Result) string {
	if err := res.Err(); err != nil {
		return err.Error()
	}
	return "valid"
}
