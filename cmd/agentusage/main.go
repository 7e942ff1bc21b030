// Command agentusage interrogates Claude Code, Codex, and Gemini CLI by
// driving each through its own terminal UI and reporting how much of
// their usage quota remains. Follows cmd/wt's main.go for cobra
// root-command wiring and signal.NotifyContext-based Ctrl+C handling,
// and cmd/wt/doctor.go for the --doctor report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"agentusage/internal/config"
	"agentusage/internal/errtag"
	"agentusage/internal/logger"
	"agentusage/internal/orchestrator"
	"agentusage/internal/present"
	"agentusage/internal/provider"
	"agentusage/internal/termio"
	"agentusage/internal/usage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		claudeFlag  bool
		codexFlag   bool
		geminiFlag  bool
		jsonFlag    bool
		timeoutFlag int
		verboseFlag bool
		policyFlag  string
		directory   string
		cleanupFlag bool
		doctorFlag  bool
	)

	root := &cobra.Command{
		Use:           "agentusage",
		Short:         "Report remaining usage quota for Claude Code, Codex, and Gemini CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().BoolVar(&claudeFlag, "claude", false, "Query only Claude Code")
	root.Flags().BoolVar(&codexFlag, "codex", false, "Query only Codex")
	root.Flags().BoolVar(&geminiFlag, "gemini", false, "Query only Gemini CLI")
	root.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	root.Flags().IntVar(&timeoutFlag, "timeout", 45, "Data-visible wait timeout in seconds")
	root.Flags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")
	root.Flags().StringVar(&policyFlag, "approval-policy", "fail", "Dialog handling policy: fail or accept")
	root.Flags().StringVarP(&directory, "directory", "C", "", "Run provider CLIs from this directory")
	root.Flags().BoolVar(&cleanupFlag, "cleanup", false, "Kill any process groups registered in this process and exit")
	root.Flags().BoolVar(&doctorFlag, "doctor", false, "Report whether each provider binary is on PATH")
	root.SetArgs(args)

	exitCode := 0
	root.RunE = func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verboseFlag {
			level = "debug"
		}
		if err := logger.Init(level, ""); err != nil {
			return err
		}

		if cleanupFlag {
			termio.Cleanup()
			return nil
		}
		if doctorFlag {
			printDoctorReport()
			return nil
		}

		policy, ok := usage.ParseApprovalPolicy(policyFlag)
		if !ok {
			exitCode = 1
			return fmt.Errorf("invalid --approval-policy %q (want fail or accept)", policyFlag)
		}

		cfgPath, pathErr := config.DefaultPath()
		if pathErr == nil {
			if cfg, err := config.Load(cfgPath); err == nil {
				if !cmd.Flags().Changed("timeout") && cfg.DefaultTimeoutSeconds > 0 {
					timeoutFlag = cfg.DefaultTimeoutSeconds
				}
				if !cmd.Flags().Changed("approval-policy") && cfg.ApprovalPolicy != "" {
					if p, ok := usage.ParseApprovalPolicy(cfg.ApprovalPolicy); ok {
						policy = p
					}
				}
			}
		}

		selected, err := selectSpecs(claudeFlag, codexFlag, geminiFlag, directory, verboseFlag)
		if err != nil {
			exitCode = 1
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		go func() {
			<-ctx.Done()
			termio.RequestShutdown()
		}()

		results := orchestrator.Run(selected, policy, time.Duration(timeoutFlag)*time.Second, time.Now().UTC())
		report := orchestrator.Join(results)
		doc := present.BuildDocument(report)

		if jsonFlag {
			out, err := present.JSON(doc)
			if err != nil {
				exitCode = 1
				return err
			}
			fmt.Println(out)
		} else {
			fmt.Print(present.Table(report))
		}

		exitCode = exitCodeFor(len(selected) == 1, doc.Success, results)
		return nil
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errtag.StripTags(err.Error()))
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func selectSpecs(claude, codex, gemini bool, directory string, debugCapture bool) ([]provider.Spec, error) {
	count := 0
	for _, v := range []bool{claude, codex, gemini} {
		if v {
			count++
		}
	}
	if count > 1 {
		return nil, fmt.Errorf("--claude, --codex, and --gemini are mutually exclusive")
	}

	withDir := func(s provider.Spec) provider.Spec {
		s.Dir = directory
		s.DebugCapture = debugCapture
		return s
	}

	switch {
	case claude:
		return []provider.Spec{withDir(provider.Claude())}, nil
	case codex:
		return []provider.Spec{withDir(provider.Codex())}, nil
	case gemini:
		return []provider.Spec{withDir(provider.Gemini())}, nil
	default:
		return []provider.Spec{
			withDir(provider.Claude()),
			withDir(provider.Codex()),
			withDir(provider.Gemini()),
		}, nil
	}
}

// exitCodeFor maps the run outcome to the process exit-code contract: 0
// success (all-providers mode succeeds if any provider did), 1 general
// failure, or the tag-specific code from the sole error in single-provider
// mode.
func exitCodeFor(singleProviderMode, success bool, results []orchestrator.Result) int {
	if success {
		return 0
	}
	if singleProviderMode && len(results) == 1 {
		return errtag.ExitCode(results[0].Err)
	}
	return 1
}

var knownBinaries = []string{"claude", "codex", "gemini"}

func printDoctorReport() {
	fmt.Println("agentusage doctor")
	fmt.Println()
	for _, bin := range knownBinaries {
		path, err := exec.LookPath(bin)
		if err != nil {
			fmt.Printf("  %-8s not found\n", bin)
			continue
		}
		version := queryVersion(bin)
		fmt.Printf("  %-8s %s (%s)\n", bin, path, version)
	}
}

func queryVersion(bin string) string {
	out, err := exec.Command(bin, "--version").Output()
	if err != nil {
		return "version unknown"
	}
	return trimToOneLine(string(out))
}

func trimToOneLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
