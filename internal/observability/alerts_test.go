package observability

import (
	"bufio"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type ruleFile struct {
	Groups []struct {
		Name  string      `yaml:"name"`
		Rules []alertRule `yaml:"rules"`
	} `yaml:"groups"`
}

var metricName = regexp.MustCompile(`inventario_[a-z_]+`)

func repoPath(parts ...string) string {
	return filepath.Join(append([]string{"..", ".."}, parts...)...)
}

func loadRules(t *testing.T) []alertRule {
	t.Helper()
	data, err := os.ReadFile(repoPath("deploy", "prometheus", "alerts", "inventario.yml"))
	require.NoError(t, err)
	var file ruleFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.Len(t, file.Groups, 1)
	require.Equal(t, "inventario", file.Groups[0].Name)
	return file.Groups[0].Rules
}

// runbookAnchors returns the GitHub style anchors of the runbook headings.
func runbookAnchors(t *testing.T) map[string]bool {
	t.Helper()
	f, err := os.Open(repoPath("docs", "runbook.md"))
	require.NoError(t, err)
	defer f.Close()

	anchors := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "## ") {
			continue
		}
		anchor := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "## ")))
		anchors[strings.ReplaceAll(anchor, " ", "-")] = true
	}
	require.NoError(t, scanner.Err())
	return anchors
}

// registeredMetrics lists the metric families exported once every series has a sample.
func registeredMetrics(t *testing.T) map[string]bool {
	t.Helper()
	m := NewMetrics()
	m.ObserveBackendRequest("semillas", http.MethodGet, http.StatusOK, time.Millisecond, nil)
	m.RecordFormOutcome("seed-get", "success")
	m.requestsTotal.WithLabelValues("/", "200").Inc()
	m.requestDuration.WithLabelValues("/").Observe(0.1)

	families, err := m.registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	return names
}

func TestConsoleAlertRules(t *testing.T) {
	rules := loadRules(t)
	anchors := runbookAnchors(t)
	metrics := registeredMetrics(t)

	severities := map[string]string{
		"BackendUnreachable":  "critical",
		"BackendServerErrors": "warning",
		"ConsoleHighLatency":  "warning",
	}
	require.Len(t, rules, len(severities))

	for _, rule := range rules {
		t.Run(rule.Alert, func(t *testing.T) {
			require.Contains(t, severities, rule.Alert)
			require.Equal(t, severities[rule.Alert], rule.Labels["severity"])
			require.NotEmpty(t, rule.For)
			require.NotEmpty(t, rule.Annotations["summary"])
			require.NotEmpty(t, rule.Annotations["description"])

			doc, anchor, ok := strings.Cut(rule.Annotations["runbook"], "#")
			require.True(t, ok, "runbook link needs an anchor")
			require.Equal(t, "docs/runbook.md", doc)
			require.True(t, anchors[anchor], "runbook has no section %q", anchor)

			used := metricName.FindAllString(rule.Expr, -1)
			require.NotEmpty(t, used)
			for _, name := range used {
				name = strings.TrimSuffix(name, "_bucket")
				require.True(t, metrics[name], "rule queries unknown metric %s", name)
			}
		})
	}
}
