package doctor

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/skskillls/thesis-benchmark/internal/environment"
	"github.com/skskillls/thesis-benchmark/internal/gnutime"
)

type checkRow struct {
	unit    string
	health  int // 0 - OK, 1 - Warning, 2 - Error
	message string
}

// Run probes everything a measured build depends on and prints one table row
// per probe. Warnings describe the degraded behavior the harness falls back
// to, not a hard failure.
func Run(w io.Writer, cfg *environment.EnvConfig) {
	checks := make([]checkRow, 0)
	checks = append(checks, checkGnuTime())
	checks = append(checks, checkRuntime("docker"))
	checks = append(checks, checkRuntime("podman"))
	checks = append(checks, checkResultsDir(cfg.ResultsDir))
	checks = append(checks, checkPublishers(cfg))
	output(w, checks)
}

func checkGnuTime() checkRow {
	fac, ok := gnutime.Detect()
	if !ok {
		return checkRow{
			unit:    "GNU time",
			health:  1,
			message: "not found, builds fall back to wall clock timing",
		}
	}
	return checkRow{
		unit:    "GNU time",
		health:  0,
		message: fac.BinPath(),
	}
}

func checkRuntime(name string) checkRow {
	if _, err := exec.LookPath(name); err != nil {
		return checkRow{
			unit:    name,
			health:  1,
			message: "not on PATH, image size will read N/A",
		}
	}
	out, err := exec.Command(name, "--version").CombinedOutput()
	if err != nil {
		msg := err.Error()
		if len(out) > 0 {
			msg = msg + ": " + string(out)
		}
		return checkRow{unit: name, health: 2, message: msg}
	}
	return checkRow{unit: name, health: 0, message: strings.TrimSpace(string(out))}
}

func checkResultsDir(dir string) checkRow {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return checkRow{unit: "results dir", health: 2, message: err.Error()}
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return checkRow{unit: "results dir", health: 2, message: err.Error()}
	}
	os.Remove(probe)
	return checkRow{unit: "results dir", health: 0, message: dir + " is writable"}
}

func checkPublishers(cfg *environment.EnvConfig) checkRow {
	configured := make([]string, 0, 2)
	if cfg.NatsUrl != "" {
		configured = append(configured, "NATS "+cfg.NatsUrl)
	}
	if cfg.SqsQueueUrl != "" {
		configured = append(configured, "SQS "+cfg.SqsQueueUrl)
	}
	if len(configured) == 0 {
		return checkRow{
			unit:    "publishers",
			health:  1,
			message: "none configured, records stay local",
		}
	}
	return checkRow{unit: "publishers", health: 0, message: strings.Join(configured, ", ")}
}

func output(w io.Writer, checks []checkRow) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(pretty_table.Row{"Unit", "Health", "Message"})
	for _, row := range checks {
		healthCode := ""
		switch row.health {
		case 0:
			healthCode = "OKAY"
		case 1:
			healthCode = "WARN"
		case 2:
			healthCode = "ERROR"
		}

		t.AppendRow(pretty_table.Row{
			row.unit,
			healthCode,
			row.message,
		})
	}
	t.SetStyle(pretty_table.StyleColoredDark)
	textColor := text.Transformer(func(s interface{}) string {
		switch s.(string) {
		case "OKAY":
			return text.FgHiGreen.Sprint(s)
		case "WARN":
			return text.FgHiYellow.Sprint(s)
		case "ERROR":
			return text.FgHiRed.Sprint(s)
		}
		return ""
	})

	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{
			Name:        "Health",
			Transformer: textColor,
			Align:       text.AlignCenter,
		},
	})
	t.Render()
}
