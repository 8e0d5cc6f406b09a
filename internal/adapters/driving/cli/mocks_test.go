package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
)

type mockSettings struct {
	settings    domain.AppSettings
	getErr      error
	validateErr error
	checkErr    error
	setErr      error
	set         map[string]string
	checked     bool
}

func newMockSettings() *mockSettings {
	settings := domain.DefaultAppSettings()
	settings.Sources.OrderRecords = "records.csv"
	return &mockSettings{settings: settings, set: map[string]string{}}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Validate() error { return m.validateErr }

func (m *mockSettings) CheckProviders() error {
	m.checked = true
	return m.checkErr
}

type mockRouter struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (m *mockRouter) Enter(session *domain.Session, d domain.Domain) string {
	if session != nil && session.EnterDomain(d) {
		return domain.OrdersNotice
	}
	return ""
}

func (m *mockRouter) Route(
	_ context.Context, session *domain.Session, d domain.Domain, query string,
) (domain.Response, error) {
	m.mu.Lock()
	m.queries = append(m.queries, string(d)+":"+query)
	m.mu.Unlock()
	if m.err != nil {
		return domain.Response{}, m.err
	}
	return domain.Response{Domain: d, Text: "answer to " + query, Notice: m.Enter(session, d)}, nil
}

type mockIngest struct {
	built       []domain.Domain
	builtAll    bool
	ordersDone  bool
	err         error
	unitsPerDom int
}

func (m *mockIngest) BuildAll(_ context.Context) ([]driving.IndexStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.builtAll = true
	m.ordersDone = true
	stats := make([]driving.IndexStats, 0, 3)
	for _, d := range domain.AllDomains() {
		stats = append(stats, driving.IndexStats{Domain: d, Units: m.unitsPerDom})
	}
	return stats, nil
}

func (m *mockIngest) Build(_ context.Context, d domain.Domain) (driving.IndexStats, error) {
	if m.err != nil {
		return driving.IndexStats{}, m.err
	}
	m.built = append(m.built, d)
	return driving.IndexStats{Domain: d, Units: m.unitsPerDom}, nil
}

func (m *mockIngest) LoadOrders(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.ordersDone = true
	return nil
}

type mockEligibility struct {
	result domain.EligibilityResult
	err    error
	calls  [][2]string
}

func (m *mockEligibility) Evaluate(_ context.Context, customerID, product string) (domain.EligibilityResult, error) {
	m.calls = append(m.calls, [2]string{customerID, product})
	if m.err != nil {
		return domain.EligibilityResult{}, m.err
	}
	return m.result, nil
}

// testEnv wires mocks into the command factories.
type testEnv struct {
	settings    *mockSettings
	router      *mockRouter
	ingest      *mockIngest
	eligibility *mockEligibility
	warnings    []string
	runtimeErr  error
	eligErr     error
	closed      bool
	configDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		settings:    newMockSettings(),
		router:      &mockRouter{},
		ingest:      &mockIngest{unitsPerDom: 4},
		eligibility: &mockEligibility{},
		configDir:   t.TempDir(),
	}

	prevSettings, prevRuntime, prevEligibility := newSettings, newRuntime, newEligibility
	Configure(
		func(_ string) (driving.SettingsService, error) { return env.settings, nil },
		func(_ context.Context, _ string, _ domain.AppSettings, progress func(domain.Domain)) (*Runtime, error) {
			if env.runtimeErr != nil {
				return nil, env.runtimeErr
			}
			progress(domain.DomainReturns)
			return &Runtime{
				Ingest:      env.ingest,
				Router:      env.router,
				Eligibility: env.eligibility,
				Warnings:    env.warnings,
				Close: func() error {
					env.closed = true
					return nil
				},
			}, nil
		},
		func(_ context.Context, _ string, _ domain.AppSettings) (*Runtime, error) {
			if env.eligErr != nil {
				return nil, env.eligErr
			}
			return &Runtime{
				Ingest:      env.ingest,
				Eligibility: env.eligibility,
				Close: func() error {
					env.closed = true
					return nil
				},
			}, nil
		},
	)
	t.Cleanup(func() { Configure(prevSettings, prevRuntime, prevEligibility) })
	return env
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, env *testEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	if env != nil {
		args = append(args, "--config", env.configDir)
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

var errBoom = errors.New("boom")
