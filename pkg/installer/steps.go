package installer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/sentinel-installer/pkg/config"
	"github.com/NVIDIA/sentinel-installer/pkg/errors"
	"github.com/NVIDIA/sentinel-installer/pkg/scripts"
	"github.com/NVIDIA/sentinel-installer/pkg/service"
)

// Canonical step names, in execution order.
const (
	StepDependencyInstall = "dependency-install"
	StepStoreInit         = "store-init"
	StepFirewallRule      = "firewall-rule"
	StepServiceRegister   = "service-register"
	StepScriptGeneration  = "script-generation"
)

// step is one idempotent unit of setup work.
type step struct {
	name string

	// required marks the step fatal-on-failure unless the error itself
	// carries a warning classification.
	required bool

	run func(ctx context.Context) error
}

// buildSteps assembles the ordered step list for this run. Steps the
// operator did not select are omitted entirely. Order matters:
// dependency installation precedes store initialization.
func (i *Installer) buildSteps(cfg *config.Config) []step {
	steps := make([]step, 0, 5)

	if cfg.SkipDependencies {
		slog.Info("dependency installation skipped by operator")
	} else {
		steps = append(steps, step{
			name:     StepDependencyInstall,
			required: true,
			run:      i.Deps.Install,
		})
	}

	steps = append(steps, step{
		name:     StepStoreInit,
		required: true,
		run:      i.Store.Init,
	})

	if cfg.ConfigureFirewall {
		steps = append(steps, step{
			name: StepFirewallRule,
			run: func(context.Context) error {
				return i.Firewall.EnsureIngressRule(cfg.Port)
			},
		})
	}

	if cfg.InstallService {
		steps = append(steps, step{
			name: StepServiceRegister,
			run: func(ctx context.Context) error {
				_, err := i.Services.Register(ctx, i.serviceSpec(cfg), cfg.Force)
				return err
			},
		})
	}

	steps = append(steps, step{
		name: StepScriptGeneration,
		run: func(context.Context) error {
			_, err := i.Scripts.Generate(scripts.Params{
				InstallPath: cfg.InstallPath,
				ServiceName: i.ServiceName,
				Host:        cfg.Host,
				Port:        cfg.Port,
			})
			return err
		},
	})

	return steps
}

func (i *Installer) serviceSpec(cfg *config.Config) service.Spec {
	return service.Spec{
		Name:        i.ServiceName,
		DisplayName: "Sentinel Monitoring Server",
		Description: "Locally hosted monitoring server",
		ExePath:     i.Toolchain,
		WorkDir:     cfg.InstallPath,
		Args:        []string{"server.js", "--host", cfg.Host, "--port", fmt.Sprintf("%d", cfg.Port)},
	}
}

// executeSteps runs the ordered steps, appending each result to the
// audit log immediately so a crash mid-run leaves a usable trail.
// Execution halts only on a Fatal outcome from a required step.
func (i *Installer) executeSteps(ctx context.Context, steps []step, report *RunReport) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			i.recordStep(report, s.name, OutcomeFatal, "interrupted")
			return errors.Wrap(errors.ErrCodeStepFatal, "run interrupted", err)
		}

		slog.Info("executing step", "step", s.name)
		err := s.run(ctx)

		outcome := classify(s, err)
		message := ""
		if err != nil {
			message = err.Error()
		}
		i.recordStep(report, s.name, outcome, message)

		if outcome == OutcomeFatal {
			return errors.Wrap(errors.ErrCodeStepFatal,
				fmt.Sprintf("required step %s failed", s.name), err)
		}
	}
	return nil
}

// classify maps a step error to its outcome. A structured code on the
// error wins over the step's required flag, so a required step can
// downgrade an individual failure (dependency download) and an optional
// step stays a warning no matter what it returns.
func classify(s step, err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	switch errors.CodeOf(err) {
	case errors.ErrCodeStepFatal:
		return OutcomeFatal
	case errors.ErrCodeStepWarning:
		return OutcomeWarning
	}
	if s.required {
		return OutcomeFatal
	}
	return OutcomeWarning
}

func (i *Installer) recordStep(report *RunReport, name string, outcome Outcome, message string) {
	res := StepResult{
		StepName:  name,
		Outcome:   outcome,
		Message:   message,
		Timestamp: i.now(),
	}
	report.Results = append(report.Results, res)

	entry := fmt.Sprintf("step %s: %s", name, outcome)
	if message != "" {
		entry = fmt.Sprintf("%s (%s)", entry, message)
	}
	if i.Audit == nil {
		return
	}
	if err := i.Audit.Append(entry); err != nil {
		slog.Warn("could not append to installation log", "error", err)
	}
}

func (i *Installer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}
